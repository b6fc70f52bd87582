package dhcp

import "testing"

func buildDiscoverBytes(t *testing.T, xid uint32, chaddr [6]byte) []byte {
	t.Helper()
	buf := make([]byte, 300)
	buf[offOp] = BootRequest
	buf[offHtype] = 1
	buf[offHlen] = 6
	putUint32(buf[offXID:], xid)
	copy(buf[offChaddr:offChaddr+6], chaddr[:])
	copy(buf[offMagic:offMagic+4], magicCookie[:])

	cursor := offOptions
	buf[cursor] = OptMessageType
	buf[cursor+1] = 1
	buf[cursor+2] = MsgDiscover
	cursor += 3

	prl := []byte{OptParameterRequestList, 2, OptSubnetMask, OptRouter}
	copy(buf[cursor:], prl)
	cursor += len(prl)

	buf[cursor] = OptEnd
	cursor++

	return buf[:cursor]
}

func putUint32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

func TestParseDiscover(t *testing.T) {
	chaddr := [6]byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}
	data := buildDiscoverBytes(t, 0xAABBCCDD, chaddr)

	p, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.MessageType != MsgDiscover {
		t.Errorf("expected Discover, got %d", p.MessageType)
	}
	if p.XID != 0xAABBCCDD {
		t.Errorf("expected xid 0xAABBCCDD, got %#x", p.XID)
	}
	if p.Chaddr != chaddr {
		t.Errorf("chaddr mismatch: %v", p.Chaddr)
	}
	prl, ok := p.Options.Get(OptParameterRequestList)
	if !ok || len(prl.Data) != 2 {
		t.Errorf("expected ParameterRequestList of length 2, got %+v ok=%v", prl, ok)
	}
}

func TestParsePayloadTooShort(t *testing.T) {
	data := make([]byte, 239)
	_, err := Parse(data)
	derr, ok := err.(*Error)
	if !ok || derr.Kind != KindPayloadTooShort || derr.Arg != 239 {
		t.Fatalf("expected PayloadTooShort(239), got %v", err)
	}
}

func TestParseNotADhcpRequest(t *testing.T) {
	data := buildDiscoverBytes(t, 1, [6]byte{})
	data[offOp] = 7
	_, err := Parse(data)
	derr, ok := err.(*Error)
	if !ok || derr.Kind != KindNotADhcpRequest {
		t.Fatalf("expected NotADhcpRequest, got %v", err)
	}
}

func TestParseMagicMissing(t *testing.T) {
	data := make([]byte, 240)
	data[offOp] = BootRequest
	_, err := Parse(data)
	derr, ok := err.(*Error)
	if !ok || derr.Kind != KindDhcpMagicMissing {
		t.Fatalf("expected DhcpMagicMissing, got %v", err)
	}
}

func TestParseMessageTypeBadLen(t *testing.T) {
	data := make([]byte, 244)
	data[offOp] = BootRequest
	copy(data[offMagic:offMagic+4], magicCookie[:])
	data[offOptions] = OptMessageType
	data[offOptions+1] = 2
	data[offOptions+2] = 1
	data[offOptions+3] = 0

	_, err := Parse(data)
	derr, ok := err.(*Error)
	if !ok || derr.Kind != KindMessageTypeBadLen || derr.Arg != 2 {
		t.Fatalf("expected MessageTypeBadLen(2), got %v", err)
	}
}

func TestParseNoMessageType(t *testing.T) {
	data := make([]byte, 241)
	data[offOp] = BootRequest
	copy(data[offMagic:offMagic+4], magicCookie[:])
	data[offOptions] = OptEnd

	_, err := Parse(data)
	derr, ok := err.(*Error)
	if !ok || derr.Kind != KindNoMessageDhcpTypeProvided {
		t.Fatalf("expected NoMessageDhcpTypeProvided, got %v", err)
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	chaddr := [6]byte{1, 2, 3, 4, 5, 6}
	p := Packet{
		Op:         BootReply,
		Htype:      1,
		Hlen:       6,
		XID:        0x11223344,
		Yiaddr:     [4]byte{192, 168, 1, 100},
		Chaddr:     chaddr,
		MessageType: MsgOffer,
		Options:    NewOptionList(),
	}
	p.Options.Add(NewIPOption(OptSubnetMask, [4]byte{255, 255, 255, 0}))
	p.Options.Add(NewIPOption(OptRouter, [4]byte{192, 168, 1, 1}))

	out := make([]byte, 512)
	n, err := Serialize(p, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parsed, err := Parse(out[:n])
	if err == nil {
		t.Fatal("expected NotADhcpRequest parsing a BOOTREPLY with op=2")
	}
	_ = parsed

	// Parse only accepts op=1 (BOOTREQUEST); flip op to validate the rest
	// of the round trip (xid, yiaddr, chaddr, options survive).
	out[offOp] = BootRequest
	parsed, err = Parse(out[:n])
	if err != nil {
		t.Fatalf("unexpected error re-parsing: %v", err)
	}
	if parsed.XID != p.XID {
		t.Errorf("xid mismatch: want %#x got %#x", p.XID, parsed.XID)
	}
	if parsed.Yiaddr != p.Yiaddr {
		t.Errorf("yiaddr mismatch: want %v got %v", p.Yiaddr, parsed.Yiaddr)
	}
	if parsed.Chaddr != p.Chaddr {
		t.Errorf("chaddr mismatch: want %v got %v", p.Chaddr, parsed.Chaddr)
	}
	if parsed.MessageType != p.MessageType {
		t.Errorf("message type mismatch: want %d got %d", p.MessageType, parsed.MessageType)
	}
	sm, ok := parsed.Options.Get(OptSubnetMask)
	if !ok || sm.IP() != ([4]byte{255, 255, 255, 0}) {
		t.Errorf("subnet mask did not round-trip: %+v ok=%v", sm, ok)
	}
}

func TestSerializeWritesMagic(t *testing.T) {
	p := replyTemplate(Packet{XID: 1, Chaddr: [6]byte{1, 2, 3, 4, 5, 6}})
	p.MessageType = MsgNack
	p.Options = NewOptionList()

	out := make([]byte, 512)
	n, err := Serialize(p, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n < offOptions {
		t.Fatalf("expected at least %d bytes, got %d", offOptions, n)
	}
	if !hasMagic(out) {
		t.Error("expected magic cookie at offset 236")
	}
}
