package cmd

import (
	"fmt"
	"os"
	"time"

	"sandboxbench/internal/bench/density"
	"sandboxbench/internal/config"
	"sandboxbench/internal/output"
	"sandboxbench/internal/sandbox"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"sandboxbench/internal/tui"
)

var (
	densityVariant       string
	densityConfigPath    string
	densityMemoryLimitMB int
	densityDialTimeout   time.Duration
	densityTUI           bool
)

func addDensityCommand(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "density",
		Short: "Run the memory-density benchmark",
		Args:  cobra.NoArgs,
		RunE:  runDensity,
	}

	flags := cmd.Flags()
	flags.StringVar(&densityVariant, "variant", "", "firecracker|fcsnapshot|unikraft|process|hyperlight (required)")
	flags.StringVar(&densityConfigPath, "config", "", "path to the variant's JSON sandbox config (required)")
	flags.IntVar(&densityMemoryLimitMB, "memory-limit", 512, "stop once free memory drops below this many MB")
	flags.DurationVar(&densityDialTimeout, "dial-timeout", 2*time.Second, "per-request dial timeout")
	flags.BoolVar(&densityTUI, "tui", false, "show a live progress dashboard instead of streaming CSV")
	cmd.MarkFlagRequired("variant")
	cmd.MarkFlagRequired("config")

	parent.AddCommand(cmd)
}

func runDensity(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("loading harness settings: %w", err)
	}
	if !cmd.Flags().Changed("memory-limit") && settings.MemoryLimitMB > 0 {
		densityMemoryLimitMB = settings.MemoryLimitMB
	}

	newSandbox, err := newSandboxFactory(densityVariant, densityConfigPath)
	if err != nil {
		return err
	}

	params := density.Params{
		MemoryLimitMB: densityMemoryLimitMB,
		DialTimeout:   densityDialTimeout,
	}

	if densityTUI && !output.IsJSON() {
		return runDensityTUI(newSandbox, params)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, density.Header)
	if err := density.Run(w, newSandbox, params); err != nil {
		if output.IsJSON() {
			output.PrintError(cmd.ErrOrStderr(), "density_failed", err.Error())
		}
		os.Exit(output.ExitSandboxFail)
	}
	return nil
}

func runDensityTUI(newSandbox func(i int) (sandbox.Sandbox, error), params density.Params) error {
	msgs := make(chan tea.Msg, 64)
	w := newCSVRowWriter(msgs)

	go func() {
		err := density.Run(w, newSandbox, params)
		msgs <- tui.DoneMsg{Err: err}
	}()

	next := func() tea.Msg { return <-msgs }
	p := tea.NewProgram(tui.NewDashboard("density benchmark", next))
	_, err := p.Run()
	return err
}
