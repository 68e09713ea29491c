package cmd

import (
	"fmt"

	"sandboxbench/internal/config"
	"sandboxbench/internal/output"

	"github.com/spf13/cobra"
)

func addConfigCommand(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or edit the harness's own default settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	})

	var (
		dataSize      int
		invocations   int
		iterations    int
		memoryLimitMB int
	)
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Update one or more default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := config.LoadSettings()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("data_size") {
				s.DataSize = dataSize
			}
			if cmd.Flags().Changed("invocations") {
				s.Invocations = invocations
			}
			if cmd.Flags().Changed("iterations") {
				s.Iterations = iterations
			}
			if cmd.Flags().Changed("memory-limit") {
				s.MemoryLimitMB = memoryLimitMB
			}
			return config.SaveSettings(s)
		},
	}
	setCmd.Flags().IntVar(&dataSize, "data_size", 0, "default request payload size")
	setCmd.Flags().IntVar(&invocations, "invocations", 0, "default requests per iteration")
	setCmd.Flags().IntVar(&iterations, "iterations", 0, "default iteration count")
	setCmd.Flags().IntVar(&memoryLimitMB, "memory-limit", 0, "default density memory floor in MB")
	cmd.AddCommand(setCmd)

	parent.AddCommand(cmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	s, err := config.LoadSettings()
	if err != nil {
		return err
	}
	if output.IsJSON() {
		return output.PrintJSON(cmd.OutOrStdout(), s)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "data_size:      %d\n", s.DataSize)
	fmt.Fprintf(cmd.OutOrStdout(), "invocations:    %d\n", s.Invocations)
	fmt.Fprintf(cmd.OutOrStdout(), "iterations:     %d\n", s.Iterations)
	fmt.Fprintf(cmd.OutOrStdout(), "memory_limit_mb: %d\n", s.MemoryLimitMB)
	return nil
}
