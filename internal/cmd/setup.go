package cmd

import (
	"fmt"

	"sandboxbench/internal/config"
	"sandboxbench/internal/sandbox/firecracker"

	"github.com/spf13/cobra"
)

func addSetupCommand(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Download the firecracker binary and kernel image into the harness's home directory",
		Args:  cobra.NoArgs,
		RunE:  runSetup,
	}
	parent.AddCommand(cmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	if err := config.EnsureDir(); err != nil {
		return err
	}
	paths := &firecracker.Paths{Base: config.Home()}

	fmt.Fprintln(cmd.OutOrStdout(), "Fetching firecracker binary...")
	if err := firecracker.EnsureFirecracker(paths, cmd.ErrOrStderr()); err != nil {
		return fmt.Errorf("setup: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Fetching guest kernel...")
	if err := firecracker.EnsureKernel(paths, cmd.ErrOrStderr()); err != nil {
		return fmt.Errorf("setup: %w", err)
	}

	firecracker.CleanupStaleInstances(paths)

	fmt.Fprintln(cmd.OutOrStdout(), "Setup complete.")
	return nil
}
