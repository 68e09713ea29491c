// Package unikraft implements the Unikraft-under-QEMU sandbox variant,
// spawned and torn down through the kraft CLI.
package unikraft

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	log "github.com/sirupsen/logrus"

	"sandboxbench/internal/sandbox"
)

var execCommand = exec.Command

// Config is the per-run configuration for the Unikraft variant.
type Config struct {
	RunDir    string `json:"run_dir"` // directory containing the unikernel's kraft project
	HostIP    string `json:"host_ip"`
	HostPort  uint16 `json:"host_port"`
	GuestPort uint16 `json:"guest_port"`
	MemString string `json:"memory"` // e.g. "128Mi", passed straight to --memory
}

// Sandbox is the Unikraft variant: host loopback endpoint, QEMU process
// managed entirely through kraft subcommands.
type Sandbox struct {
	sandbox.Lifecycle

	cfg Config
	cmd *exec.Cmd
}

// New constructs the Unikraft sandbox. Unlike Firecracker, Unikraft carries
// no per-iteration network identity; every iteration reuses the same host
// loopback endpoint.
func New(cfg Config) *Sandbox {
	return &Sandbox{cfg: cfg}
}

func (s *Sandbox) Name() string       { return "unikraft" }
func (s *Sandbox) TargetIP() string   { return s.cfg.HostIP }
func (s *Sandbox) TargetPort() uint16 { return s.cfg.HostPort }

// Presetup is a no-op; kraft handles all host-side preparation as part of
// run.
func (s *Sandbox) Presetup() error {
	return s.Lifecycle.Advance(sandbox.Presetup)
}

// Start spawns `kraft run --rm --plat qemu --arch x86_64 -p <host>:<guest>
// --memory <mem> .` in the run directory.
func (s *Sandbox) Start() error {
	if err := s.Lifecycle.Advance(sandbox.Started); err != nil {
		return err
	}

	cmd := execCommand("kraft", "run",
		"--rm",
		"--plat", "qemu",
		"--arch", "x86_64",
		"-p", fmt.Sprintf("%d:%d", s.cfg.HostPort, s.cfg.GuestPort),
		"--memory", s.cfg.MemString,
		".",
	)
	cmd.Dir = s.cfg.RunDir
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("unikraft: starting kraft run: %w", err)
	}
	s.cmd = cmd
	return nil
}

// Kill signals the kraft child, then runs `kraft rm --all` to reap any QEMU
// process kraft left behind (it does not always exit when its child is
// killed directly).
func (s *Sandbox) Kill() error {
	if !s.Lifecycle.ShouldKill() {
		return nil
	}
	defer s.Lifecycle.MarkKilled()

	if s.cmd != nil && s.cmd.Process != nil {
		if err := s.cmd.Process.Signal(syscall.SIGTERM); err != nil && err != os.ErrProcessDone {
			log.WithError(err).Debug("unikraft: signaling kraft run failed")
		}
		_ = s.cmd.Wait()
	}

	out, err := execCommand("kraft", "rm", "--all").CombinedOutput()
	log.WithField("output", string(out)).Debug("unikraft: kraft rm --all ran")
	if err != nil {
		log.WithError(err).Debug("unikraft: kraft rm --all failed")
	}
	return nil
}

// Cleanup is a no-op; kraft run --rm already removes its machine state, and
// Kill already issued kraft rm --all.
func (s *Sandbox) Cleanup() error {
	if !s.Lifecycle.ShouldCleanup() {
		return nil
	}
	s.Lifecycle.MarkCleaned()
	return nil
}
