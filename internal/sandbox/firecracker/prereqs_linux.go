//go:build linux

package firecracker

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/user"
	"strings"
)

// PrereqError describes a failed prerequisite check.
type PrereqError struct {
	Check   string
	Message string
	Hint    string
	AutoFix bool // true if FixKVMAccess (KVM access) or 'sandboxbench setup' (missing binary/kernel) can resolve this
}

func (e *PrereqError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s\n  Hint: %s", e.Check, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Check, e.Message)
}

// KVMAccessible returns true if /dev/kvm exists and is read-write accessible.
func KVMAccessible() bool {
	f, err := os.OpenFile("/dev/kvm", os.O_RDWR, 0)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

// CheckPrerequisites verifies the host can run the Firecracker variants.
func CheckPrerequisites(paths *Paths) []*PrereqError {
	var errs []*PrereqError

	if _, err := os.Stat("/dev/kvm"); err != nil {
		errs = append(errs, &PrereqError{
			Check:   "/dev/kvm",
			Message: "KVM not available — is this a VM without nested virtualization?",
			Hint:    "Enable KVM: sudo modprobe kvm_intel (or kvm_amd)",
		})
	} else if !KVMAccessible() {
		errs = append(errs, &PrereqError{
			Check:   "/dev/kvm",
			Message: "permission denied",
			Hint:    "Run: sudo setfacl -m u:${USER}:rw /dev/kvm",
			AutoFix: true,
		})
	}

	if _, err := os.Stat(paths.Firecracker()); err != nil {
		errs = append(errs, &PrereqError{
			Check:   "firecracker",
			Message: "firecracker binary not found",
			Hint:    fmt.Sprintf("Run 'sandboxbench setup' to auto-download, or place binary at %s", paths.Firecracker()),
			AutoFix: true,
		})
	}

	if _, err := os.Stat(paths.Kernel()); err != nil {
		errs = append(errs, &PrereqError{
			Check:   "kernel",
			Message: "vmlinux kernel not found",
			Hint:    fmt.Sprintf("Run 'sandboxbench setup' to auto-download, or place vmlinux at %s", paths.Kernel()),
			AutoFix: true,
		})
	}

	return errs
}

// FixKVMAccess grants the current user read-write access to /dev/kvm via
// setfacl, installing the acl package first if setfacl is missing.
func FixKVMAccess(stderr io.Writer) error {
	if KVMAccessible() {
		return nil
	}

	currentUser, err := user.Current()
	if err != nil {
		return fmt.Errorf("getting current user: %w", err)
	}

	if _, err := exec.LookPath("setfacl"); err != nil {
		fmt.Fprintf(stderr, "Installing acl package for setfacl...\n")
		installCmd := exec.Command("sudo", "apt-get", "install", "-y", "acl")
		installCmd.Stdin = os.Stdin
		installCmd.Stdout = stderr
		installCmd.Stderr = stderr
		if err := installCmd.Run(); err != nil {
			return fmt.Errorf("failed to install acl package: %w\n  Manually run: sudo apt install acl && sudo setfacl -m u:%s:rw /dev/kvm", err, currentUser.Username)
		}
	}

	fmt.Fprintf(stderr, "Granting KVM access via: sudo setfacl -m u:%s:rw /dev/kvm\n", currentUser.Username)
	cmd := exec.Command("sudo", "setfacl", "-m", fmt.Sprintf("u:%s:rw", currentUser.Username), "/dev/kvm")
	cmd.Stdin = os.Stdin
	cmd.Stdout = stderr
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("setfacl failed: %w\n  Manually run: sudo setfacl -m u:%s:rw /dev/kvm", err, currentUser.Username)
	}

	if !KVMAccessible() {
		return fmt.Errorf("setfacl succeeded but /dev/kvm still not accessible")
	}

	fmt.Fprintf(stderr, "KVM access granted.\n")
	return nil
}

// HasNonAutoFixErrors reports whether errs contains a check with AutoFix
// unset, i.e. one that neither FixKVMAccess nor 'sandboxbench setup' resolves.
func HasNonAutoFixErrors(errs []*PrereqError) bool {
	for _, e := range errs {
		if !e.AutoFix {
			return true
		}
	}
	return false
}

// FormatPrereqErrors formats prerequisite errors with FAIL/FIXABLE labels.
func FormatPrereqErrors(errs []*PrereqError) string {
	var b strings.Builder
	for _, e := range errs {
		label := "FAIL"
		if e.AutoFix {
			label = "FIXABLE"
		}
		fmt.Fprintf(&b, "  [%s] %s: %s\n", label, e.Check, e.Message)
		if e.Hint != "" {
			fmt.Fprintf(&b, "         %s\n", e.Hint)
		}
	}
	return b.String()
}
