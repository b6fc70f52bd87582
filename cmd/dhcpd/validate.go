package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vektornet/dhcpd-go/pkg/config"
	"github.com/vektornet/dhcpd-go/pkg/logging"
)

var (
	validateVerbose bool
	validateJSON    bool
)

var validateCmd = &cobra.Command{
	Use:   "validate <config-file>",
	Short: "Validate a dhcpd configuration file",
	Long: `Validate a dhcpd configuration file for errors and warnings.

This command checks:
- Subnet, mask, and allocatable range address formats
- The allocatable range falling within subnet/mask
- Router, server identifier, and DNS server address formats
- Lease time sanity

Exit codes:
  0 - Configuration is valid
  1 - Configuration has errors`,
	Example: `  # Validate a configuration file
  dhcpd validate dhcpd.yaml

  # JSON output for CI/CD pipelines
  dhcpd validate dhcpd.yaml --json > validation-results.json`,
	Args: cobra.ExactArgs(1),
	Run:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVarP(&validateVerbose, "verbose", "v", false, "Show detailed validation information")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output validation results as JSON")
}

func runValidate(cmd *cobra.Command, args []string) {
	configFile := args[0]

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		logging.Error("Configuration file not found: %s", configFile)
		os.Exit(1)
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		logging.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	validator := config.NewValidator(configFile)
	result := validator.Validate(cfg)

	if validateJSON {
		jsonOutput, err := result.ToJSON()
		if err != nil {
			logging.Error("Failed to generate JSON output: %v", err)
			os.Exit(1)
		}
		fmt.Println(jsonOutput)
	} else {
		if result.HasErrors() || result.HasWarnings() {
			fmt.Println(result.Format())
		} else {
			logging.Success("Configuration is valid: %s", configFile)
			if validateVerbose {
				fmt.Printf("\nSubnet: %s/%s  Range: %s-%s\n", cfg.Subnet, cfg.Mask, cfg.RangeStart, cfg.RangeEnd)
			}
		}
	}

	if !result.Valid {
		os.Exit(1)
	}
}
