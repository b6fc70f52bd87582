// Package netutil binds the DHCP server's UDP listening socket and sends
// broadcast replies, per spec.md §6's external interfaces: listen on
// 0.0.0.0:67 with broadcast enabled, reply by broadcasting to
// 255.255.255.255:68.
package netutil

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// ListenPort is the well-known DHCP server port.
const ListenPort = 67

// ReplyPort is the well-known DHCP client port replies are broadcast to.
const ReplyPort = 68

// Listen binds a UDP socket on 0.0.0.0:67 and enables SO_BROADCAST on its
// underlying file descriptor so Conn.WriteTo can target
// 255.255.255.255:68 (net.ListenUDP alone does not set this).
func Listen() (*net.UDPConn, error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: ListenPort})
	if err != nil {
		return nil, fmt.Errorf("binding udp :%d: %w", ListenPort, err)
	}

	rawConn, err := conn.SyscallConn()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("obtaining raw connection: %w", err)
	}

	var sockErr error
	ctrlErr := rawConn.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, 1)
	})
	if ctrlErr != nil {
		conn.Close()
		return nil, fmt.Errorf("controlling socket fd: %w", ctrlErr)
	}
	if sockErr != nil {
		conn.Close()
		return nil, fmt.Errorf("setting SO_BROADCAST: %w", sockErr)
	}

	return conn, nil
}

// BroadcastAddr is the destination every reply is sent to (spec.md §9:
// "source always broadcasts"; this implementation keeps that default).
var BroadcastAddr = &net.UDPAddr{IP: net.IPv4bcast, Port: ReplyPort}
