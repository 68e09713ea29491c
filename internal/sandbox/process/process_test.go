package process

import (
	"os/exec"
	"testing"

	"sandboxbench/internal/sandbox"
)

func fakeExecCommand(name string, args ...string) *exec.Cmd {
	return exec.Command("sleep", "5")
}

func TestPortOffsetByIteration(t *testing.T) {
	cfg := Config{BinaryPath: "/bin/true", IP: "127.0.0.1", BasePort: 9000}

	sb0 := New(cfg, 0)
	sb3 := New(cfg, 3)

	if sb0.TargetPort() != 9000 {
		t.Fatalf("iteration 0: want port 9000, got %d", sb0.TargetPort())
	}
	if sb3.TargetPort() != 9003 {
		t.Fatalf("iteration 3: want port 9003, got %d", sb3.TargetPort())
	}
}

func TestStartSpawnsAndKillIsIdempotent(t *testing.T) {
	orig := execCommand
	execCommand = fakeExecCommand
	defer func() { execCommand = orig }()

	sb := New(Config{BinaryPath: "/bin/true", IP: "127.0.0.1", BasePort: 9100}, 0)

	if err := sb.Presetup(); err != nil {
		t.Fatalf("presetup: %v", err)
	}
	if err := sb.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if sb.State() != sandbox.Started {
		t.Fatalf("want state Started, got %s", sb.State())
	}

	if err := sb.Kill(); err != nil {
		t.Fatalf("first kill: %v", err)
	}
	if err := sb.Kill(); err != nil {
		t.Fatalf("second kill should be idempotent, got: %v", err)
	}
	if err := sb.Cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
}
