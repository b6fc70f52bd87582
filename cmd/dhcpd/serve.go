package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vektornet/dhcpd-go/internal/netutil"
	"github.com/vektornet/dhcpd-go/pkg/config"
	"github.com/vektornet/dhcpd-go/pkg/dhcp"
	"github.com/vektornet/dhcpd-go/pkg/leaseview"
	"github.com/vektornet/dhcpd-go/pkg/logging"
	"github.com/vektornet/dhcpd-go/pkg/stats"
)

var (
	serveConfigFile  string
	serveDebugLevel  int
	serveInteractive bool
	serveStatsEvery  time.Duration
	serveStatsExport string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the DHCP server",
	Long: `Run the DHCP server: bind UDP port 67, allocate addresses from the
configured pool, and broadcast Offer/Ack/Nack replies on UDP port 68.

Runs until interrupted (SIGINT/SIGTERM), at which point it prints a
final statistics summary and exits.`,
	Run: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveConfigFile, "config", "c", "dhcpd.yaml", "Path to the dhcpd configuration file")
	serveCmd.Flags().IntVar(&serveDebugLevel, "debug", 0, "Global debug level (overrides config)")
	serveCmd.Flags().BoolVar(&serveInteractive, "interactive", false, "Show a live lease-table dashboard instead of log output")
	serveCmd.Flags().DurationVar(&serveStatsEvery, "stats-interval", 30*time.Second, "How often to print periodic statistics (0 disables)")
	serveCmd.Flags().StringVar(&serveStatsExport, "stats-export", "", "On shutdown, write final statistics as JSON to this path")
}

func runServe(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(serveConfigFile)
	if err != nil {
		logging.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	validator := config.NewValidator(serveConfigFile)
	result := validator.Validate(cfg)
	if result.HasErrors() {
		logging.Error("Configuration is invalid:\n%s", result.Format())
		os.Exit(1)
	}
	if result.HasWarnings() && !serveInteractive {
		logging.Warning("Configuration has warnings:\n%s", result.Format())
	}

	debugLevel := cfg.DebugLevel
	if serveDebugLevel != 0 {
		debugLevel = serveDebugLevel
	}
	debug := logging.NewDebugConfig(debugLevel)

	pool, err := buildPool(cfg)
	if err != nil {
		logging.Error("Failed to build address pool: %v", err)
		os.Exit(1)
	}

	st := stats.NewStatistics(cfg.Interface, serveConfigFile, version)

	conn, err := netutil.Listen()
	if err != nil {
		logging.Error("Failed to bind listener: %v", err)
		os.Exit(1)
	}

	handler := buildHandler(pool, st, debug)
	srv := netutil.NewServer(conn, handler, func(r any) {
		logging.Error("worker recovered from panic: %v", r)
	}, func() {
		logging.ProtocolDebug("net", debug.GetProtocolLevel(logging.SubsystemNet), 1, "dropped datagram larger than receive buffer")
	})

	go func() {
		if err := srv.Serve(); err != nil {
			logging.Error("listener stopped: %v", err)
		}
	}()
	logging.Success("dhcpd listening on 0.0.0.0:%d, pool size %d", netutil.ListenPort, pool.Len())

	var stopStats chan struct{}
	if serveStatsEvery > 0 && !serveInteractive {
		stopStats = startPeriodicStats(st, pool, serveStatsEvery)
	}

	if serveInteractive {
		runInteractive(st, pool)
	} else {
		waitForSignal()
	}

	if stopStats != nil {
		close(stopStats)
	}
	srv.Close()

	st.Update()
	logging.Info("%s", st.String())
	if serveStatsExport != "" {
		if err := st.ExportJSON(serveStatsExport); err != nil {
			logging.Error("Failed to export statistics: %v", err)
		}
	}
}

func buildPool(cfg *config.Config) (*dhcp.AddressPool, error) {
	subnet, _ := config.ParseIPv4(cfg.Subnet)
	mask, _ := config.ParseIPv4(cfg.Mask)
	start, _ := config.ParseIPv4(cfg.RangeStart)
	end, _ := config.ParseIPv4(cfg.RangeEnd)

	defaults := dhcp.NewOptionList()
	if ip, ok := config.ParseIPv4(cfg.Router); ok {
		defaults.Add(dhcp.NewIPOption(dhcp.OptRouter, ip))
	}
	if ip, ok := config.ParseIPv4(cfg.ServerIdentifier); ok {
		defaults.Add(dhcp.NewIPOption(dhcp.OptServerIdentifier, ip))
	}
	defaults.Add(dhcp.NewIPOption(dhcp.OptSubnetMask, mask))
	leaseTime := cfg.LeaseTimeSeconds
	if leaseTime == 0 {
		leaseTime = uint32(dhcp.DefaultLeaseTime / time.Second)
	}
	defaults.Add(dhcp.NewUint32Option(dhcp.OptLeaseTime, leaseTime))
	for i, dns := range cfg.DNSServers {
		if i > 0 {
			break // OptionList holds one entry per opcode; first DNS wins.
		}
		if ip, ok := config.ParseIPv4(dns); ok {
			defaults.Add(dhcp.NewIPOption(dhcp.OptDNS, ip))
		}
	}
	if cfg.DomainName != "" {
		defaults.Add(dhcp.NewStringOption(dhcp.OptDomainName, cfg.DomainName))
	}
	if cfg.TFTPServerName != "" {
		defaults.Add(dhcp.NewStringOption(dhcp.OptTFTPServerName, cfg.TFTPServerName))
	}
	if cfg.BootFileName != "" {
		defaults.Add(dhcp.NewStringOption(dhcp.OptBootFileName, cfg.BootFileName))
	}

	return dhcp.New(subnet, mask, start, end, defaults), nil
}

func buildHandler(pool *dhcp.AddressPool, st *stats.Statistics, debug *logging.DebugConfig) netutil.PacketHandler {
	return func(data []byte) []byte {
		packet, err := dhcp.Parse(data)
		if err != nil {
			st.IncrementDropped()
			if derr, ok := err.(*dhcp.Error); ok {
				st.IncrementErrorKind(derr.Kind.String())
			}
			logging.ProtocolDebug("dhcp", debug.GetProtocolLevel("codec"), 1, "dropped malformed datagram: %v", err)
			return nil
		}

		switch packet.MessageType {
		case dhcp.MsgDiscover:
			st.IncrementDiscover()
			logging.Info("DISCOVER from %s", macString(packet.Chaddr))
		case dhcp.MsgRequest:
			st.IncrementRequest()
			logging.Info("REQUEST from %s", macString(packet.Chaddr))
		}

		out := make([]byte, 512)
		n, err := dhcp.Handle(packet, pool, out, func(opcode byte) {
			logging.Warning("no default for requested option %d from %s", opcode, macString(packet.Chaddr))
		})
		if err != nil {
			logging.Error("failed to build response: %v", err)
			return nil
		}
		if n == 0 {
			return nil
		}

		resp, err := dhcp.Parse(withOp1(out[:n]))
		if err == nil {
			switch resp.MessageType {
			case dhcp.MsgOffer:
				st.IncrementOffer()
				logging.Info("OFFER %v to %s", resp.Yiaddr, macString(packet.Chaddr))
			case dhcp.MsgAck:
				st.IncrementAck()
				logging.Info("ACK %v to %s", resp.Yiaddr, macString(packet.Chaddr))
			case dhcp.MsgNack:
				st.IncrementNack()
				logging.Error("NACK to %s", macString(packet.Chaddr))
			}
		}
		st.SetPoolStats(pool.Len(), pool.LeaseCount())

		return out[:n]
	}
}

// withOp1 is used only to re-parse our own freshly serialized reply for
// logging; Parse requires op==1 (BOOTREQUEST), so it returns a copy with
// op set to 1 and leaves the reply that is sent untouched.
func withOp1(data []byte) []byte {
	out := append([]byte(nil), data...)
	out[0] = 1
	return out
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

func startPeriodicStats(st *stats.Statistics, pool *dhcp.AddressPool, every time.Duration) chan struct{} {
	stop := make(chan struct{})
	ticker := time.NewTicker(every)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				st.Update()
				st.SetPoolStats(pool.Len(), pool.LeaseCount())
				logging.Info("%s", st.String())
			case <-stop:
				return
			}
		}
	}()
	return stop
}

func runInteractive(st *stats.Statistics, pool *dhcp.AddressPool) {
	if err := leaseview.Run(st, pool); err != nil {
		logging.Error("dashboard exited with error: %v", err)
	}
}

func waitForSignal() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
}
