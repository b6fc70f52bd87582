// Package stats collects and exports runtime counters for the DHCP
// server: message-type counts, pool utilization, and system metrics.
package stats

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"
)

// Statistics holds all runtime statistics for the DHCP server.
type Statistics struct {
	mu sync.RWMutex

	// General stats
	StartTime  time.Time     `json:"start_time"`
	Uptime     time.Duration `json:"uptime_seconds"`
	Interface  string        `json:"interface"`
	ConfigFile string        `json:"config_file"`
	Version    string        `json:"version"`

	// DHCP message counters
	DiscoverCount int64 `json:"discover_count"`
	OfferCount    int64 `json:"offer_count"`
	RequestCount  int64 `json:"request_count"`
	AckCount      int64 `json:"ack_count"`
	NackCount     int64 `json:"nack_count"`
	DroppedCount  int64 `json:"dropped_count"`

	// Error counters, keyed by dhcp.Kind.String()
	ErrorCounts map[string]int64 `json:"error_counts"`

	// Pool stats
	PoolSize     int `json:"pool_size"`
	ActiveLeases int `json:"active_leases"`

	// System stats
	MemoryUsageMB  uint64 `json:"memory_usage_mb"`
	GoroutineCount int    `json:"goroutine_count"`
	CPUCount       int    `json:"cpu_count"`
}

// StatisticsSnapshot is a mutex-free copy of Statistics for export.
type StatisticsSnapshot struct {
	StartTime  time.Time     `json:"start_time"`
	Uptime     time.Duration `json:"uptime_seconds"`
	Interface  string        `json:"interface"`
	ConfigFile string        `json:"config_file"`
	Version    string        `json:"version"`

	DiscoverCount int64 `json:"discover_count"`
	OfferCount    int64 `json:"offer_count"`
	RequestCount  int64 `json:"request_count"`
	AckCount      int64 `json:"ack_count"`
	NackCount     int64 `json:"nack_count"`
	DroppedCount  int64 `json:"dropped_count"`

	ErrorCounts map[string]int64 `json:"error_counts"`

	PoolSize     int `json:"pool_size"`
	ActiveLeases int `json:"active_leases"`

	MemoryUsageMB  uint64 `json:"memory_usage_mb"`
	GoroutineCount int    `json:"goroutine_count"`
	CPUCount       int    `json:"cpu_count"`
}

// NewStatistics creates a new Statistics instance.
func NewStatistics(interfaceName, configFile, version string) *Statistics {
	return &Statistics{
		StartTime:   time.Now(),
		Interface:   interfaceName,
		ConfigFile:  configFile,
		Version:     version,
		ErrorCounts: make(map[string]int64),
	}
}

// Update refreshes runtime statistics (should be called periodically).
func (s *Statistics) Update() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Uptime = time.Since(s.StartTime)
	s.GoroutineCount = runtime.NumGoroutine()
	s.CPUCount = runtime.NumCPU()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	s.MemoryUsageMB = m.Alloc / 1024 / 1024
}

// IncrementDiscover increments the Discover counter.
func (s *Statistics) IncrementDiscover() { s.bump(&s.DiscoverCount) }

// IncrementOffer increments the Offer counter.
func (s *Statistics) IncrementOffer() { s.bump(&s.OfferCount) }

// IncrementRequest increments the Request counter.
func (s *Statistics) IncrementRequest() { s.bump(&s.RequestCount) }

// IncrementAck increments the Ack counter.
func (s *Statistics) IncrementAck() { s.bump(&s.AckCount) }

// IncrementNack increments the Nack counter.
func (s *Statistics) IncrementNack() { s.bump(&s.NackCount) }

// IncrementDropped increments the count of datagrams dropped on a parse
// error (spec.md §7's propagation policy: parse errors drop silently).
func (s *Statistics) IncrementDropped() { s.bump(&s.DroppedCount) }

func (s *Statistics) bump(counter *int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	*counter++
}

// IncrementErrorKind increments the error counter for a named dhcp.Kind.
func (s *Statistics) IncrementErrorKind(kind string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ErrorCounts[kind]++
}

// SetPoolStats records the current pool size and active lease count.
func (s *Statistics) SetPoolStats(size, active int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.PoolSize = size
	s.ActiveLeases = active
}

// ExportJSON exports statistics to a JSON file.
func (s *Statistics) ExportJSON(filename string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.snapshot()
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal statistics to JSON: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}
	return nil
}

// ExportCSV exports statistics to a CSV file.
func (s *Statistics) ExportCSV(filename string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"Metric", "Value", "Category"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	writeRow := func(metric, value, category string) {
		writer.Write([]string{metric, value, category})
	}

	writeRow("Start Time", s.StartTime.Format(time.RFC3339), "General")
	writeRow("Uptime (seconds)", fmt.Sprintf("%.0f", s.Uptime.Seconds()), "General")
	writeRow("Interface", s.Interface, "General")
	writeRow("Config File", s.ConfigFile, "General")
	writeRow("Version", s.Version, "General")

	writeRow("Memory Usage (MB)", fmt.Sprintf("%d", s.MemoryUsageMB), "System")
	writeRow("Goroutine Count", fmt.Sprintf("%d", s.GoroutineCount), "System")
	writeRow("CPU Count", fmt.Sprintf("%d", s.CPUCount), "System")

	writeRow("Discover", fmt.Sprintf("%d", s.DiscoverCount), "DHCP")
	writeRow("Offer", fmt.Sprintf("%d", s.OfferCount), "DHCP")
	writeRow("Request", fmt.Sprintf("%d", s.RequestCount), "DHCP")
	writeRow("Ack", fmt.Sprintf("%d", s.AckCount), "DHCP")
	writeRow("Nack", fmt.Sprintf("%d", s.NackCount), "DHCP")
	writeRow("Dropped", fmt.Sprintf("%d", s.DroppedCount), "DHCP")
	writeRow("Pool Size", fmt.Sprintf("%d", s.PoolSize), "Pool")
	writeRow("Active Leases", fmt.Sprintf("%d", s.ActiveLeases), "Pool")

	for kind, count := range s.ErrorCounts {
		writeRow(fmt.Sprintf("Error (%s)", kind), fmt.Sprintf("%d", count), "Errors")
	}

	return nil
}

// snapshot creates a read-safe copy of statistics. Must be called with a
// read lock held.
func (s *Statistics) snapshot() StatisticsSnapshot {
	snapshot := StatisticsSnapshot{
		StartTime:      s.StartTime,
		Uptime:         s.Uptime,
		Interface:      s.Interface,
		ConfigFile:     s.ConfigFile,
		Version:        s.Version,
		DiscoverCount:  s.DiscoverCount,
		OfferCount:     s.OfferCount,
		RequestCount:   s.RequestCount,
		AckCount:       s.AckCount,
		NackCount:      s.NackCount,
		DroppedCount:   s.DroppedCount,
		PoolSize:       s.PoolSize,
		ActiveLeases:   s.ActiveLeases,
		MemoryUsageMB:  s.MemoryUsageMB,
		GoroutineCount: s.GoroutineCount,
		CPUCount:       s.CPUCount,
		ErrorCounts:    make(map[string]int64, len(s.ErrorCounts)),
	}
	for k, v := range s.ErrorCounts {
		snapshot.ErrorCounts[k] = v
	}
	return snapshot
}

// GetSnapshot returns a thread-safe snapshot of current statistics.
func (s *Statistics) GetSnapshot() StatisticsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

// String returns a human-readable summary of statistics.
func (s *Statistics) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return fmt.Sprintf(
		"Statistics Summary:\n"+
			"  Uptime: %s\n"+
			"  Discover/Offer/Request/Ack/Nack: %d/%d/%d/%d/%d\n"+
			"  Dropped: %d\n"+
			"  Active leases: %d / %d\n"+
			"  Memory: %d MB\n"+
			"  Goroutines: %d\n",
		s.Uptime.Round(time.Second),
		s.DiscoverCount, s.OfferCount, s.RequestCount, s.AckCount, s.NackCount,
		s.DroppedCount,
		s.ActiveLeases, s.PoolSize,
		s.MemoryUsageMB,
		s.GoroutineCount,
	)
}
