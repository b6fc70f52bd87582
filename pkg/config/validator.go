package config

import "encoding/binary"

// Validator checks a loaded Config for the constraints the DHCP server
// needs before it can bind a pool: well-formed addresses, a non-empty
// allocatable range, and a range that actually falls inside the subnet.
type Validator struct {
	file string
}

// NewValidator returns a Validator that attributes its errors to file.
func NewValidator(file string) *Validator {
	return &Validator{file: file}
}

// Validate checks cfg and returns the accumulated errors and warnings.
func (v *Validator) Validate(cfg *Config) *ConfigErrorList {
	result := &ConfigErrorList{File: v.file, Valid: true}

	subnet, subnetOK := ParseIPv4(cfg.Subnet)
	if !subnetOK {
		result.Add(v.err("subnet", "invalid or missing subnet address", cfg.Subnet, "a dotted-quad IPv4 address"))
	}

	mask, maskOK := ParseIPv4(cfg.Mask)
	if !maskOK {
		result.Add(v.err("mask", "invalid or missing subnet mask", cfg.Mask, "a dotted-quad IPv4 mask, e.g. 255.255.255.0"))
	}

	start, startOK := ParseIPv4(cfg.RangeStart)
	if !startOK {
		result.Add(v.err("range_start", "invalid or missing range_start address", cfg.RangeStart, "a dotted-quad IPv4 address"))
	}

	end, endOK := ParseIPv4(cfg.RangeEnd)
	if !endOK {
		result.Add(v.err("range_end", "invalid or missing range_end address", cfg.RangeEnd, "a dotted-quad IPv4 address"))
	}

	if startOK && endOK {
		if binary.BigEndian.Uint32(end[:]) < binary.BigEndian.Uint32(start[:]) {
			result.Add(v.err("range_end", "range_end is before range_start", cfg.RangeEnd, "an address >= range_start"))
		}
	}

	if subnetOK && maskOK && startOK {
		if !inSubnet(subnet, mask, start) {
			e := NewConfigWarning(v.file, "range_start", "range_start does not appear to lie within subnet/mask")
			result.Add(e)
		}
	}

	if subnetOK && maskOK && endOK {
		if !inSubnet(subnet, mask, end) {
			e := NewConfigWarning(v.file, "range_end", "range_end does not appear to lie within subnet/mask")
			result.Add(e)
		}
	}

	if cfg.Router != "" {
		if _, ok := ParseIPv4(cfg.Router); !ok {
			result.Add(v.err("router", "invalid router address", cfg.Router, "a dotted-quad IPv4 address"))
		}
	}

	if cfg.ServerIdentifier != "" {
		if _, ok := ParseIPv4(cfg.ServerIdentifier); !ok {
			result.Add(v.err("server_identifier", "invalid server_identifier address", cfg.ServerIdentifier, "a dotted-quad IPv4 address"))
		}
	}

	for _, dns := range cfg.DNSServers {
		if _, ok := ParseIPv4(dns); !ok {
			e := NewConfigWarning(v.file, "dns_servers", "invalid DNS server address: "+dns)
			result.Add(e)
		}
	}

	if cfg.LeaseTimeSeconds == 0 {
		e := NewConfigWarning(v.file, "lease_time_seconds", "lease_time_seconds is 0; the pool default (43200s) will be used")
		result.Add(e)
	}

	return result
}

func (v *Validator) err(field, message, got, expected string) *ConfigError {
	e := NewConfigError(v.file, field, message)
	e.Got = got
	e.Expected = expected
	return e
}

func inSubnet(subnet, mask, addr [4]byte) bool {
	for i := 0; i < 4; i++ {
		if subnet[i]&mask[i] != addr[i]&mask[i] {
			return false
		}
	}
	return true
}
