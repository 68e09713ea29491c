package cmd

import (
	"fmt"
	"os"
	"time"

	"sandboxbench/internal/bench/latency"
	"sandboxbench/internal/config"
	"sandboxbench/internal/loadgen"
	"sandboxbench/internal/output"
	"sandboxbench/internal/sandbox"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"sandboxbench/internal/tui"
)

var (
	latencyVariant     string
	latencyConfigPath  string
	latencyDataSize    int
	latencyInvocations int
	latencyIterations  int
	latencyDialTimeout time.Duration
	latencyTUI         bool
)

func addLatencyCommand(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "latency",
		Short: "Run the cold-start and per-request latency benchmark",
		Args:  cobra.NoArgs,
		RunE:  runLatency,
	}

	flags := cmd.Flags()
	flags.StringVar(&latencyVariant, "variant", "", "firecracker|fcsnapshot|unikraft|process|hyperlight (required)")
	flags.StringVar(&latencyConfigPath, "config", "", "path to the variant's JSON sandbox config (required)")
	flags.IntVar(&latencyDataSize, "data_size", 1024, "request payload size in bytes")
	flags.IntVar(&latencyInvocations, "invocations", 1000, "requests sent per iteration")
	flags.IntVar(&latencyIterations, "iterations", 5, "number of fresh sandboxes to benchmark")
	flags.DurationVar(&latencyDialTimeout, "dial-timeout", 2*time.Second, "per-request dial timeout")
	flags.BoolVar(&latencyTUI, "tui", false, "show a live progress dashboard instead of streaming CSV")
	cmd.MarkFlagRequired("variant")
	cmd.MarkFlagRequired("config")

	parent.AddCommand(cmd)
}

func runLatency(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("loading harness settings: %w", err)
	}
	applyLatencyDefaults(cmd, settings)
	if latencyDataSize > loadgen.MaxRequestSize {
		return fmt.Errorf("latency: data_size %d exceeds max request size %d", latencyDataSize, loadgen.MaxRequestSize)
	}

	newSandbox, err := newSandboxFactory(latencyVariant, latencyConfigPath)
	if err != nil {
		return err
	}

	params := latency.Params{
		DataSize:    latencyDataSize,
		Invocations: latencyInvocations,
		Iterations:  latencyIterations,
		DialTimeout: latencyDialTimeout,
	}

	if latencyTUI && !output.IsJSON() {
		return runLatencyTUI(newSandbox, params)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, latency.Header)
	if err := latency.Run(w, newSandbox, params); err != nil {
		if output.IsJSON() {
			output.PrintError(cmd.ErrOrStderr(), "latency_failed", err.Error())
		}
		os.Exit(output.ExitSandboxFail)
	}
	return nil
}

// applyLatencyDefaults fills in any latency flag the user did not set on the
// command line from the harness's own config.toml (where that value is
// non-zero), letting repeated -config
// invocations share one set of defaults instead of repeating them on every
// command line.
func applyLatencyDefaults(cmd *cobra.Command, s *config.Settings) {
	f := cmd.Flags()
	if !f.Changed("data_size") && s.DataSize > 0 {
		latencyDataSize = s.DataSize
	}
	if !f.Changed("invocations") && s.Invocations > 0 {
		latencyInvocations = s.Invocations
	}
	if !f.Changed("iterations") && s.Iterations > 0 {
		latencyIterations = s.Iterations
	}
}

// runLatencyTUI drives the same latency.Run loop, but through a csvRowWriter
// so rows can be rendered live via the bubbletea dashboard instead of
// streamed as raw CSV.
func runLatencyTUI(newSandbox func(i int) (sandbox.Sandbox, error), params latency.Params) error {
	msgs := make(chan tea.Msg, 64)
	w := newCSVRowWriter(msgs)

	go func() {
		err := latency.Run(w, newSandbox, params)
		msgs <- tui.DoneMsg{Err: err}
	}()

	next := func() tea.Msg { return <-msgs }
	p := tea.NewProgram(tui.NewDashboard("latency benchmark", next))
	_, err := p.Run()
	return err
}
