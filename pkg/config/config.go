// Package config loads and validates the YAML startup parameters for the
// DHCP server: subnet, allocatable range, and the default option set
// attached to every reply (spec.md §6 "Startup parameters").
package config

import (
	"fmt"
	"net"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk server configuration.
type Config struct {
	Interface string `yaml:"interface"`

	Subnet string `yaml:"subnet"`
	Mask   string `yaml:"mask"`

	RangeStart string `yaml:"range_start"`
	RangeEnd   string `yaml:"range_end"`

	Router           string   `yaml:"router"`
	DNSServers       []string `yaml:"dns_servers"`
	ServerIdentifier string   `yaml:"server_identifier"`
	DomainName       string   `yaml:"domain_name,omitempty"`
	TFTPServerName   string   `yaml:"tftp_server_name,omitempty"`
	BootFileName     string   `yaml:"bootfile_name,omitempty"`

	LeaseTimeSeconds uint32 `yaml:"lease_time_seconds"`

	DebugLevel     int            `yaml:"debug_level"`
	ProtocolDebug  map[string]int `yaml:"protocol_debug,omitempty"`
	StatsExportDir string         `yaml:"stats_export_dir,omitempty"`
}

// Default returns a minimal, valid single-subnet configuration, used by
// `dhcpd init`. Load does not fall back to it.
func Default() *Config {
	return &Config{
		Interface:        "eth0",
		Subnet:           "192.168.1.0",
		Mask:             "255.255.255.0",
		RangeStart:       "192.168.1.100",
		RangeEnd:         "192.168.1.200",
		Router:           "192.168.1.1",
		DNSServers:       []string{"8.8.8.8", "8.8.4.4"},
		ServerIdentifier: "192.168.1.1",
		LeaseTimeSeconds: 3600,
		DebugLevel:       0,
	}
}

// Load reads and parses a YAML configuration file from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ParseIPv4 parses s as a dotted-quad IPv4 address into a 4-byte array,
// the wire form pkg/dhcp works with directly.
func ParseIPv4(s string) ([4]byte, bool) {
	ip := net.ParseIP(s)
	if ip == nil {
		return [4]byte{}, false
	}
	v4 := ip.To4()
	if v4 == nil {
		return [4]byte{}, false
	}
	var out [4]byte
	copy(out[:], v4)
	return out, true
}
