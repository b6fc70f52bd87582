package netutil

import (
	"fmt"
	"net"
	"os"
	"sync"
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

func TestDispatchCallsHandlerAndRecoversPanic(t *testing.T) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("failed to bind test socket: %v", err)
	}
	defer conn.Close()

	var mu sync.Mutex
	var gotPanic any
	var called bool

	handler := func(data []byte) []byte {
		mu.Lock()
		called = true
		mu.Unlock()
		panic("boom")
	}
	onPanic := func(r any) {
		mu.Lock()
		gotPanic = r
		mu.Unlock()
	}

	s := NewServer(conn, handler, onPanic, nil)
	s.dispatch([]byte{1, 2, 3})

	mu.Lock()
	defer mu.Unlock()
	if !called {
		t.Error("expected handler to be called")
	}
	if gotPanic == nil {
		t.Error("expected dispatch to recover the handler's panic")
	}
}

func TestDispatchNoReplyOnEmptyResponse(t *testing.T) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("failed to bind test socket: %v", err)
	}
	defer conn.Close()

	s := NewServer(conn, func([]byte) []byte { return nil }, nil, nil)

	done := make(chan struct{})
	go func() {
		s.dispatch([]byte{1})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatch did not return promptly for an empty response")
	}
}

func TestIsOversizeErrRecognizesEMSGSIZE(t *testing.T) {
	err := &net.OpError{Op: "read", Err: os.NewSyscallError("recvfrom", unix.EMSGSIZE)}
	if !isOversizeErr(err) {
		t.Error("expected EMSGSIZE to be recognized as an oversize datagram")
	}
	if isOversizeErr(fmt.Errorf("some other error")) {
		t.Error("expected an unrelated error not to be recognized as oversize")
	}
}
