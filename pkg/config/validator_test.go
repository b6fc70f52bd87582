package config

import "testing"

func TestValidatorRejectsBadAddresses(t *testing.T) {
	cfg := &Config{
		Interface:  "eth0",
		Subnet:     "not-an-ip",
		Mask:       "255.255.255.0",
		RangeStart: "192.168.1.100",
		RangeEnd:   "192.168.1.200",
	}
	v := NewValidator("test.yaml")
	result := v.Validate(cfg)
	if !result.HasErrors() {
		t.Fatal("expected invalid subnet to produce an error")
	}
}

func TestValidatorRejectsInvertedRange(t *testing.T) {
	cfg := Default()
	cfg.RangeStart = "192.168.1.200"
	cfg.RangeEnd = "192.168.1.100"

	v := NewValidator("test.yaml")
	result := v.Validate(cfg)
	if !result.HasErrors() {
		t.Fatal("expected inverted range to produce an error")
	}
}

func TestValidatorWarnsOnZeroLeaseTime(t *testing.T) {
	cfg := Default()
	cfg.LeaseTimeSeconds = 0

	v := NewValidator("test.yaml")
	result := v.Validate(cfg)
	if result.HasErrors() {
		t.Fatalf("zero lease time should warn, not error: %s", result.Format())
	}
	if !result.HasWarnings() {
		t.Fatal("expected a warning for zero lease time")
	}
}

func TestValidatorWarnsOnRangeOutsideSubnet(t *testing.T) {
	cfg := Default()
	cfg.RangeStart = "10.0.0.1"
	cfg.RangeEnd = "10.0.0.5"

	v := NewValidator("test.yaml")
	result := v.Validate(cfg)
	if !result.HasWarnings() {
		t.Fatal("expected a warning when range falls outside subnet")
	}
}

func TestValidatorFlagsBadDNSServer(t *testing.T) {
	cfg := Default()
	cfg.DNSServers = []string{"8.8.8.8", "not-an-ip"}

	v := NewValidator("test.yaml")
	result := v.Validate(cfg)
	if !result.HasWarnings() {
		t.Fatal("expected a warning for malformed DNS server address")
	}
}
