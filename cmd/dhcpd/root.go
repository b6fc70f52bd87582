package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vektornet/dhcpd-go/pkg/logging"
)

var (
	version = "v0.1.0"
	commit  = "dev"
	date    = "unknown"

	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "dhcpd",
	Short: "A DHCPv4 server for a single subnet",
	Long: `dhcpd listens for DHCP client broadcasts on UDP port 67, allocates
addresses from a configured pool, and broadcasts Offer/Ack/Nack replies
on UDP port 68.

It implements the BOOTP/DHCP wire format (RFC 2131), an in-memory lease
pool keyed by MAC address, and the Discover/Offer and
Request/Ack-or-Nack state machine, including the SELECTING,
INIT-REBOOT, RENEWING, and REBINDING cases.`,
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.InitColors(!noColor)
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("dhcpd %s (commit: %s, built: %s)\n", version, commit, date))
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored log output")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
