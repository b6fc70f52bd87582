// Command dhcpd is a DHCPv4 server for a single subnet.
package main

func main() {
	Execute()
}
