package unikraft

import (
	"os/exec"
	"testing"
)

func fakeExecCommand(name string, args ...string) *exec.Cmd {
	if name == "kraft" && len(args) > 0 && args[0] == "rm" {
		return exec.Command("true")
	}
	return exec.Command("sleep", "5")
}

func TestStartAndKillRunsKraftRmAll(t *testing.T) {
	orig := execCommand
	execCommand = fakeExecCommand
	defer func() { execCommand = orig }()

	sb := New(Config{
		RunDir:    ".",
		HostIP:    "127.0.0.1",
		HostPort:  8080,
		GuestPort: 8080,
		MemString: "128Mi",
	})

	if err := sb.Presetup(); err != nil {
		t.Fatalf("presetup: %v", err)
	}
	if err := sb.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := sb.Kill(); err != nil {
		t.Fatalf("kill: %v", err)
	}
	if err := sb.Cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
}

func TestTargetEndpointIsHostLoopback(t *testing.T) {
	sb := New(Config{HostIP: "127.0.0.1", HostPort: 8081})
	if sb.TargetIP() != "127.0.0.1" || sb.TargetPort() != 8081 {
		t.Fatalf("unexpected endpoint: %s:%d", sb.TargetIP(), sb.TargetPort())
	}
}
