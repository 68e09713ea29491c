package cmd

import (
	"fmt"
	"time"

	"sandboxbench/internal/loadgen"
	"sandboxbench/internal/output"

	"github.com/spf13/cobra"
)

var (
	loadgenConnect  string
	loadgenSize     int
	loadgenCount    int
	loadgenTimeout  time.Duration
)

func addLoadgenCommand(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "loadgen",
		Short: "Send a burst of canned requests to a sandbox endpoint and report latency samples",
		Args:  cobra.NoArgs,
		RunE:  runLoadgen,
	}

	flags := cmd.Flags()
	flags.StringVar(&loadgenConnect, "connect", "", "address to connect to, host:port (required)")
	flags.IntVar(&loadgenSize, "size", 0, "request payload size in bytes (0 sends an empty prewarm request)")
	flags.IntVar(&loadgenCount, "count", 1, "number of requests to send")
	flags.DurationVar(&loadgenTimeout, "dial-timeout", 2*time.Second, "per-request dial timeout")
	cmd.MarkFlagRequired("connect")

	parent.AddCommand(cmd)
}

func runLoadgen(cmd *cobra.Command, args []string) error {
	if loadgenSize > loadgen.MaxRequestSize {
		return fmt.Errorf("loadgen: size %d exceeds max request size %d", loadgenSize, loadgen.MaxRequestSize)
	}

	var req []byte
	if loadgenSize > 0 {
		req = loadgen.BuildRequest(make([]byte, loadgenSize))
	} else {
		req = loadgen.BuildEmptyRequest()
	}

	samples, err := loadgen.SendRequest(loadgenConnect, req, loadgenCount, loadgenTimeout)
	if err != nil {
		if output.IsJSON() {
			return output.PrintError(cmd.ErrOrStderr(), "loadgen_failed", err.Error())
		}
		return err
	}

	if output.IsJSON() {
		return output.PrintJSON(cmd.OutOrStdout(), samples)
	}
	for _, s := range samples {
		fmt.Fprintln(cmd.OutOrStdout(), s.Microseconds())
	}
	return nil
}
