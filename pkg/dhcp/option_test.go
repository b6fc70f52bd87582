package dhcp

import "testing"

func TestEncodeOptionPad(t *testing.T) {
	out := make([]byte, 4)
	n, err := EncodeOption(Option{Code: OptPad}, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 || out[0] != OptPad {
		t.Errorf("expected 1 byte of 0x00, got n=%d out=%v", n, out[:n])
	}
}

func TestEncodeOptionIPAddr(t *testing.T) {
	opt := NewIPOption(OptRouter, [4]byte{192, 168, 1, 1})
	out := make([]byte, 8)
	n, err := EncodeOption(opt, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 6 {
		t.Fatalf("expected 6 bytes written, got %d", n)
	}
	want := []byte{OptRouter, 4, 192, 168, 1, 1}
	for i, b := range want {
		if out[i] != b {
			t.Errorf("byte %d: want %#x got %#x", i, b, out[i])
		}
	}
}

func TestEncodeOptionMessageType(t *testing.T) {
	opt := NewByteOption(OptMessageType, MsgOffer)
	out := make([]byte, 4)
	n, err := EncodeOption(opt, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 bytes, got %d", n)
	}
	if out[0] != OptMessageType || out[1] != 1 || out[2] != MsgOffer {
		t.Errorf("unexpected encoding: %v", out[:n])
	}
}

func TestEncodeOptionLeaseTime(t *testing.T) {
	opt := NewUint32Option(OptLeaseTime, 3600)
	out := make([]byte, 8)
	n, err := EncodeOption(opt, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 6 {
		t.Fatalf("expected 6 bytes, got %d", n)
	}
	if out[5] != 16 { // 3600 & 0xff == 0x10
		t.Errorf("unexpected low byte: %#x", out[5])
	}
}

func TestEncodeOptionUnsupported(t *testing.T) {
	opt := Option{Code: 250, Data: []byte{1, 2}}
	out := make([]byte, 8)
	_, err := EncodeOption(opt, out)
	if err == nil {
		t.Fatal("expected error for unsupported opcode")
	}
	derr, ok := err.(*Error)
	if !ok || derr.Kind != KindUnsupportedSerialization {
		t.Errorf("expected KindUnsupportedSerialization, got %v", err)
	}
}

func TestDecodeOptionMessageTypeBadLen(t *testing.T) {
	data := []byte{OptMessageType, 2, 1, 0}
	_, _, _, err := decodeOption(data, 0)
	if err == nil {
		t.Fatal("expected error")
	}
	derr, ok := err.(*Error)
	if !ok || derr.Kind != KindMessageTypeBadLen {
		t.Errorf("expected KindMessageTypeBadLen, got %v", err)
	}
}

func TestDecodeOptionParameterRequestListBounds(t *testing.T) {
	tooLong := append([]byte{OptParameterRequestList, 41}, make([]byte, 41)...)
	if _, _, _, err := decodeOption(tooLong, 0); err == nil {
		t.Fatal("expected error for length 41")
	}

	empty := []byte{OptParameterRequestList, 0}
	if _, _, _, err := decodeOption(empty, 0); err == nil {
		t.Fatal("expected error for length 0")
	}

	ok := []byte{OptParameterRequestList, 2, 1, 3}
	opt, consumed, known, err := decodeOption(ok, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !known || consumed != 4 || len(opt.Data) != 2 {
		t.Errorf("unexpected decode result: %+v consumed=%d known=%v", opt, consumed, known)
	}
}

func TestDecodeOptionOutOfBounds(t *testing.T) {
	data := []byte{OptRouter, 4, 1, 2} // declares 4 bytes, only 2 present
	_, _, _, err := decodeOption(data, 0)
	if err == nil {
		t.Fatal("expected error")
	}
	derr, ok := err.(*Error)
	if !ok || derr.Kind != KindDhcpOptionLenOutOfBounds {
		t.Errorf("expected KindDhcpOptionLenOutOfBounds, got %v", err)
	}
}

func TestDecodeOptionUnknownOpcodeSkipped(t *testing.T) {
	data := []byte{200, 3, 9, 9, 9}
	opt, consumed, known, err := decodeOption(data, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if known {
		t.Error("expected unknown opcode to report known=false")
	}
	if consumed != 5 {
		t.Errorf("expected to consume 5 bytes, got %d", consumed)
	}
	if opt.Code != 200 {
		t.Errorf("expected code 200, got %d", opt.Code)
	}
}

func TestDecodeClientIdentifierRejectsNonEthernet(t *testing.T) {
	opt := Option{Code: OptClientIdentifier, Data: []byte{2, 1, 2, 3, 4, 5, 6}}
	_, err := DecodeClientIdentifier(opt)
	if err == nil {
		t.Fatal("expected error for non-ethernet hwtype")
	}
	derr, ok := err.(*Error)
	if !ok || derr.Kind != KindUnsupportedClientIDHwType {
		t.Errorf("expected KindUnsupportedClientIdHwType, got %v", err)
	}
}

func TestDecodeClientIdentifierAcceptsEthernet(t *testing.T) {
	mac := []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}
	opt := Option{Code: OptClientIdentifier, Data: append([]byte{1}, mac...)}
	id, err := DecodeClientIdentifier(opt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.HwType != 1 {
		t.Errorf("expected hwtype 1, got %d", id.HwType)
	}
	for i, b := range mac {
		if id.MAC[i] != b {
			t.Errorf("mac byte %d: want %#x got %#x", i, b, id.MAC[i])
		}
	}
}
