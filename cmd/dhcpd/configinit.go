package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vektornet/dhcpd-go/pkg/config"
	"github.com/vektornet/dhcpd-go/pkg/logging"
)

var configInitCmd = &cobra.Command{
	Use:   "init <config-file>",
	Short: "Write a default dhcpd configuration file",
	Long: `Write a default, valid dhcpd configuration file to the given path.

The generated file covers a single /24 subnet with a 101-address
allocatable range (192.168.1.100-192.168.1.200) and sane router/DNS/lease-time defaults; edit it to
match your network before running "dhcpd serve".`,
	Args: cobra.ExactArgs(1),
	Run:  runConfigInit,
}

func init() {
	rootCmd.AddCommand(configInitCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	path := args[0]
	if _, err := os.Stat(path); err == nil {
		logging.Error("Refusing to overwrite existing file: %s", path)
		os.Exit(1)
	}

	if err := config.Save(config.Default(), path); err != nil {
		logging.Error("Failed to write configuration: %v", err)
		os.Exit(1)
	}
	logging.Success("Wrote default configuration to %s", path)
}
