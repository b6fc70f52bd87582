package netutil

import (
	"errors"
	"net"
	"strings"

	"golang.org/x/net/ipv4"
	"golang.org/x/sys/unix"
)

// PacketHandler processes one received datagram and returns the bytes to
// broadcast back, or an empty slice for "drop, no reply" (spec.md §4.5/§7).
type PacketHandler func(data []byte) (response []byte)

// Server owns the recv loop described in spec.md §5: one goroutine reads
// datagrams and hands each to its own worker goroutine, which owns the
// parse→handle→serialize→send pipeline for that datagram. Workers never
// share mutable state with each other directly; the Server takes no lock
// itself, and the pool's methods called by the handler take the pool's
// lock.
type Server struct {
	conn    *net.UDPConn
	pconn   *ipv4.PacketConn
	handle  PacketHandler
	onPanic func(recovered any)

	// onOversize is called (if non-nil) whenever the OS reports a
	// datagram larger than our receive buffer instead of delivering it
	// (spec.md §7's "RECV_DATA_LARGER_THAN_BUFFER" condition, EMSGSIZE on
	// unix). The oversized datagram is simply dropped; the loop
	// continues.
	onOversize func()
}

// NewServer wraps conn with an ipv4.PacketConn and asks for per-packet
// interface control messages. Serve reads through the PacketConn but does
// not use the control data: the handler sees only the datagram bytes.
func NewServer(conn *net.UDPConn, handle PacketHandler, onPanic func(any), onOversize func()) *Server {
	pconn := ipv4.NewPacketConn(conn)
	// Best-effort: some platforms don't support this control message.
	// The server still works; it just won't know which local interface a
	// datagram arrived on.
	_ = pconn.SetControlMessage(ipv4.FlagInterface, true)
	return &Server{conn: conn, pconn: pconn, handle: handle, onPanic: onPanic, onOversize: onOversize}
}

// Serve blocks, reading datagrams until the socket is closed. The caller
// closes s's underlying connection (via Close) to stop the loop.
func (s *Server) Serve() error {
	buf := make([]byte, 512)
	for {
		n, _, _, err := s.pconn.ReadFrom(buf)
		if err != nil {
			if isClosedErr(err) {
				return nil
			}
			if isOversizeErr(err) {
				// The OS already discarded the excess bytes; nothing to
				// dispatch. Recognized and logged at debug level per
				// spec.md §7, not fatal to the listener.
				if s.onOversize != nil {
					s.onOversize()
				}
				continue
			}
			return err
		}

		datagram := append([]byte(nil), buf[:n]...)
		go s.dispatch(datagram)
	}
}

// dispatch runs the full pipeline for one datagram in its own goroutine
// and recovers a panicking handler so one malformed client cannot take
// down the listener (grounded on original_source's per-datagram thread
// model; see DESIGN.md).
func (s *Server) dispatch(data []byte) {
	defer func() {
		if r := recover(); r != nil && s.onPanic != nil {
			s.onPanic(r)
		}
	}()

	resp := s.handle(data)
	if len(resp) == 0 {
		return
	}
	s.conn.WriteToUDP(resp, BroadcastAddr)
}

// Close shuts down the underlying socket, which unblocks Serve.
func (s *Server) Close() error {
	return s.conn.Close()
}

func isClosedErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "use of closed network connection")
}

// isOversizeErr reports whether err is the OS telling us a datagram
// arrived larger than our receive buffer (EMSGSIZE), the unix analogue of
// original_source's RECV_DATA_LARGER_THAN_BUFFER.
func isOversizeErr(err error) bool {
	return errors.Is(err, unix.EMSGSIZE)
}
