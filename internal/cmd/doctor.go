package cmd

import (
	"fmt"

	"sandboxbench/internal/config"
	"sandboxbench/internal/output"
	"sandboxbench/internal/sandbox/firecracker"

	"github.com/spf13/cobra"
)

var doctorFixFlag bool

func addDoctorCommand(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check whether the host can run the Firecracker-backed variants",
		Args:  cobra.NoArgs,
		RunE:  runDoctor,
	}
	cmd.Flags().BoolVar(&doctorFixFlag, "fix", false, "attempt to grant /dev/kvm access")
	parent.AddCommand(cmd)
}

// DoctorReport is the JSON shape of a doctor run.
type DoctorReport struct {
	Healthy bool     `json:"healthy"`
	Errors  []string `json:"errors,omitempty"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	paths := &firecracker.Paths{Base: config.Home()}
	errs := firecracker.CheckPrerequisites(paths)

	if doctorFixFlag && len(errs) > 0 && !firecracker.HasNonAutoFixErrors(errs) {
		if err := firecracker.FixKVMAccess(cmd.ErrOrStderr()); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "fix failed:", err)
		} else {
			errs = firecracker.CheckPrerequisites(paths)
		}
	}

	if output.IsJSON() {
		report := DoctorReport{Healthy: len(errs) == 0}
		for _, e := range errs {
			report.Errors = append(report.Errors, e.Error())
		}
		return output.PrintJSON(cmd.OutOrStdout(), report)
	}

	if len(errs) == 0 {
		if !output.IsQuiet() {
			fmt.Fprintln(cmd.OutOrStdout(), "Everything looks good.")
		}
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Problems found:")
	fmt.Fprint(cmd.OutOrStdout(), firecracker.FormatPrereqErrors(errs))
	return nil
}
