// Package cmd wires the sandboxbench subcommands together: latency and
// density benchmark runners, the Hyperlight host-server, the loadgen
// client, and setup/doctor environment helpers.
package cmd

import (
	"fmt"
	"os"

	"sandboxbench/internal/config"
	"sandboxbench/internal/output"

	"github.com/spf13/cobra"
)

// Version is overridden at build time via -ldflags.
var Version = "dev"

var (
	jsonFlag    bool
	verboseFlag bool
	quietFlag   bool
	noColorFlag bool
	ConfigDir   string
)

// NewRootCmd assembles the full sandboxbench command tree.
func NewRootCmd() *cobra.Command {
	cmd := newRootCmd()
	addLatencyCommand(cmd)
	addDensityCommand(cmd)
	addHyperlightCommand(cmd)
	addLoadgenCommand(cmd)
	addConfigCommand(cmd)
	addDoctorCommand(cmd)
	addSetupCommand(cmd)
	return cmd
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sandboxbench",
		Short:         "Cold-start and density benchmark harness for sandbox technologies",
		Long:          "sandboxbench — measures cold-start latency and memory density across Firecracker, Firecracker snapshot-restore, Unikraft, native processes, and in-process Hyperlight sandboxes.",
		Version:       fmt.Sprintf("sandboxbench v%s", Version),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verboseFlag && quietFlag {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}
			if jsonFlag {
				quietFlag = true
			}
			output.SetFlags(jsonFlag, quietFlag, verboseFlag)
			config.SetConfigDir(ConfigDir)
			return nil
		},
	}

	rootCmd.SetVersionTemplate("{{.Version}}\n")

	pflags := rootCmd.PersistentFlags()
	pflags.BoolVarP(&jsonFlag, "json", "j", false, "Output as JSON")
	pflags.BoolVarP(&verboseFlag, "verbose", "v", false, "Extra detail to stderr")
	pflags.BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential output")
	pflags.BoolVar(&noColorFlag, "no-color", false, "Disable ANSI colors")
	pflags.StringVar(&ConfigDir, "config-dir", "", "Override config directory (default: ~/.sandboxbench)")

	if v := os.Getenv("SANDBOXBENCH_HOME"); v != "" && ConfigDir == "" {
		ConfigDir = v
	}
	if os.Getenv("NO_COLOR") != "" {
		noColorFlag = true
	}
	if os.Getenv("SANDBOXBENCH_JSON") == "1" {
		jsonFlag = true
	}

	return rootCmd
}

// Execute runs the root command, returning any error for main to report.
func Execute() error {
	cmd := NewRootCmd()
	return cmd.Execute()
}
