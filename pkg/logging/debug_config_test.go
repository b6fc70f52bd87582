package logging

import "testing"

func TestDebugConfigFallsBackToGlobal(t *testing.T) {
	d := NewDebugConfig(2)
	if got := d.GetProtocolLevel(SubsystemPool); got != 2 {
		t.Errorf("expected fallback to global level 2, got %d", got)
	}
	if d.HasProtocolLevel(SubsystemPool) {
		t.Error("expected no subsystem-specific level set yet")
	}
}

func TestDebugConfigPerSubsystemOverride(t *testing.T) {
	d := NewDebugConfig(0)
	d.SetProtocolLevel(SubsystemCodec, 3)

	if got := d.GetProtocolLevel(SubsystemCodec); got != 3 {
		t.Errorf("expected override level 3, got %d", got)
	}
	if got := d.GetProtocolLevel(SubsystemServer); got != 0 {
		t.Errorf("expected unset subsystem to use global 0, got %d", got)
	}
	if !d.HasProtocolLevel(SubsystemCodec) {
		t.Error("expected HasProtocolLevel to report true after SetProtocolLevel")
	}
}

func TestDebugConfigGetAllLevels(t *testing.T) {
	d := NewDebugConfig(1)
	d.SetProtocolLevel(SubsystemNet, 5)

	levels := d.GetAllLevels()
	if levels[SubsystemNet] != 5 {
		t.Errorf("expected net=5 in snapshot, got %d", levels[SubsystemNet])
	}

	levels[SubsystemNet] = 99
	if d.GetProtocolLevel(SubsystemNet) != 5 {
		t.Error("expected GetAllLevels to return a copy, not a live map")
	}
}
