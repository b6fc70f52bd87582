package dhcp

import "testing"

func TestOptionListAddReplacesOnDuplicateOpcode(t *testing.T) {
	l := NewOptionList()
	l.Add(NewByteOption(OptMessageType, MsgDiscover))
	l.Add(NewByteOption(OptMessageType, MsgRequest))

	got, ok := l.Get(OptMessageType)
	if !ok {
		t.Fatal("expected MessageType to be present")
	}
	if got.Byte() != MsgRequest {
		t.Errorf("expected second write to win, got %d", got.Byte())
	}
	if l.Len() != 1 {
		t.Errorf("expected 1 distinct opcode, got %d", l.Len())
	}
}

func TestOptionListEachAscending(t *testing.T) {
	l := NewOptionList()
	l.Add(NewByteOption(OptMessageType, MsgAck))  // 53
	l.Add(NewIPOption(OptRouter, [4]byte{1, 1, 1, 1})) // 3
	l.Add(NewIPOption(OptSubnetMask, [4]byte{2, 2, 2, 2})) // 1

	var order []byte
	l.Each(func(o Option) {
		order = append(order, o.Code)
	})

	want := []byte{OptSubnetMask, OptRouter, OptMessageType}
	if len(order) != len(want) {
		t.Fatalf("expected %d options, got %d", len(want), len(order))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("position %d: want opcode %d got %d", i, want[i], order[i])
		}
	}
}

func TestOptionListGetMissing(t *testing.T) {
	l := NewOptionList()
	if _, ok := l.Get(OptRouter); ok {
		t.Error("expected missing opcode to report ok=false")
	}
}

func TestOptionListMergeLastWriterWins(t *testing.T) {
	base := NewOptionList()
	base.Add(NewIPOption(OptRouter, [4]byte{1, 1, 1, 1}))

	overlay := NewOptionList()
	overlay.Add(NewIPOption(OptRouter, [4]byte{9, 9, 9, 9}))
	overlay.Add(NewIPOption(OptSubnetMask, [4]byte{255, 255, 255, 0}))

	base.Merge(overlay)

	router, _ := base.Get(OptRouter)
	if router.IP() != ([4]byte{9, 9, 9, 9}) {
		t.Errorf("expected overlay router to win, got %v", router.IP())
	}
	if base.Len() != 2 {
		t.Errorf("expected 2 entries after merge, got %d", base.Len())
	}
}
