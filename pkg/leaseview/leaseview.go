// Package leaseview provides a terminal dashboard for a running DHCP
// server: the live lease table and message counters.
package leaseview

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vektornet/dhcpd-go/pkg/dhcp"
	"github.com/vektornet/dhcpd-go/pkg/stats"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	staleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	statsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

type tickMsg time.Time

type model struct {
	st   *stats.Statistics
	pool *dhcp.AddressPool

	leases []dhcp.LeaseEntry
	snap   stats.StatisticsSnapshot
	now    time.Time
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), tea.EnterAltScreen)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case tickMsg:
		m.st.Update()
		m.st.SetPoolStats(m.pool.Len(), m.pool.LeaseCount())
		m.snap = m.st.GetSnapshot()
		m.leases = m.pool.Snapshot()
		sort.Slice(m.leases, func(i, j int) bool {
			return ipLess(m.leases[i].IP, m.leases[j].IP)
		})
		m.now = time.Time(msg)
		return m, tickCmd()
	}

	return m, nil
}

func (m model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf(" dhcpd lease dashboard - %s ", m.snap.Interface)))
	s.WriteString("\n\n")

	stats := fmt.Sprintf("Uptime: %s  |  Pool: %d/%d leased  |  Discover: %d  Offer: %d  Request: %d  Ack: %d  Nack: %d  Dropped: %d",
		m.snap.Uptime.Round(time.Second),
		m.snap.ActiveLeases, m.snap.PoolSize,
		m.snap.DiscoverCount, m.snap.OfferCount, m.snap.RequestCount, m.snap.AckCount, m.snap.NackCount, m.snap.DroppedCount,
	)
	s.WriteString(statsStyle.Render(stats))
	s.WriteString("\n\n")

	s.WriteString(headerStyle.Render(fmt.Sprintf("%-15s  %-17s  %s\n", "Address", "MAC", "Expires")))
	if len(m.leases) == 0 {
		s.WriteString("  (no active leases)\n")
	}
	for _, l := range m.leases {
		row := fmt.Sprintf("%-15s  %-17s  %s\n", ipString(l.IP), macString(l.MAC), l.Expires.Format("15:04:05"))
		if l.Expires.Before(m.now) {
			s.WriteString(staleStyle.Render(row))
		} else {
			s.WriteString(row)
		}
	}

	s.WriteString("\n")
	if len(m.snap.ErrorCounts) > 0 {
		var errs strings.Builder
		errs.WriteString("Errors:\n")
		for kind, count := range m.snap.ErrorCounts {
			errs.WriteString(fmt.Sprintf("  %-32s %d\n", kind, count))
		}
		s.WriteString(boxStyle.Render(strings.TrimRight(errs.String(), "\n")))
		s.WriteString("\n\n")
	}

	s.WriteString("[q] quit")
	return s.String()
}

// Run starts the lease dashboard and blocks until the user quits.
func Run(st *stats.Statistics, pool *dhcp.AddressPool) error {
	m := model{
		st:     st,
		pool:   pool,
		leases: pool.Snapshot(),
		snap:   st.GetSnapshot(),
		now:    time.Now(),
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func ipString(ip [4]byte) string {
	return fmt.Sprintf("%d.%d.%d.%d", ip[0], ip[1], ip[2], ip[3])
}

func macString(mac [6]byte) string {
	const hex = "0123456789abcdef"
	buf := make([]byte, 0, 17)
	for i, b := range mac {
		if i > 0 {
			buf = append(buf, ':')
		}
		buf = append(buf, hex[b>>4], hex[b&0xF])
	}
	return string(buf)
}

func ipLess(a, b [4]byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
