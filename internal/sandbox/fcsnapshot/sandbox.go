//go:build linux

// Package fcsnapshot implements the Firecracker snapshot-restore sandbox
// variant: firecracker is spawned once with only an API socket and awaits a
// control-plane restore, instead of booting from a config file.
package fcsnapshot

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	log "github.com/sirupsen/logrus"

	"sandboxbench/internal/sandbox"
)

const (
	fixedTapName = "tap0"
	fixedTapIP   = "172.16.0.1"
	fixedGuestIP = "172.16.0.2"
)

var execCommand = exec.Command

// Config is the per-run configuration for the snapshot-restore variant.
type Config struct {
	BinDir        string `json:"firecracker_binary_dir"`
	SnapshotPath  string `json:"snapshot_path"`
	MemFilePath   string `json:"mem_file_path"`
	NetworkScript string `json:"network_script"`
	SocketPrefix  string `json:"firecracker_socket_prefix"`

	// UseUffd starts a userfaultfd handler on a per-instance socket during
	// Presetup. The handler pre-warms the snapshot memory file into the page
	// cache concurrently with Firecracker's own launch, which is this
	// variant's only source of extra restore-time parallelism. The restore
	// request is unchanged: it still names the memory file (a file-backed
	// restore) and does not point Firecracker at the handler's socket.
	UseUffd bool `json:"use_uffd,omitempty"`
}

// Sandbox is the Firecracker snapshot-restore variant.
type Sandbox struct {
	sandbox.Lifecycle

	cfg Config
	id  int

	socketPath string
	logPath    string
	cmd        *exec.Cmd
	uffd       *uffdHandler
}

// New constructs the snapshot-restore sandbox for iteration i.
func New(cfg Config, i int) *Sandbox {
	return &Sandbox{
		cfg:        cfg,
		id:         i,
		socketPath: fmt.Sprintf("%s%d.socket", cfg.SocketPrefix, i),
		logPath:    fmt.Sprintf("%s/fcsnapshot_%d.log", cfg.BinDir, i),
	}
}

func (s *Sandbox) Name() string       { return "firecracker-snapshot" }
func (s *Sandbox) TargetIP() string   { return fixedGuestIP }
func (s *Sandbox) TargetPort() uint16 { return 8080 }

// Presetup runs the network-setup script against the fixed tap0/172.16.0.1
// pair, then spawns firecracker with only --api-sock so it idles awaiting a
// snapshot restore.
func (s *Sandbox) Presetup() error {
	if err := s.Lifecycle.Advance(sandbox.Presetup); err != nil {
		return err
	}

	out, err := execCommand(s.cfg.NetworkScript, fixedTapName, fixedTapIP, fixedGuestIP).CombinedOutput()
	log.WithField("output", string(out)).Debug("fcsnapshot: network setup script ran")
	if err != nil {
		return fmt.Errorf("fcsnapshot: network setup script: %w", err)
	}

	logFile, err := os.Create(s.logPath)
	if err != nil {
		return fmt.Errorf("fcsnapshot: creating log file: %w", err)
	}

	args := []string{"--api-sock", s.socketPath}
	cmd := execCommand(s.cfg.BinDir+"/firecracker", args...)
	cmd.Dir = s.cfg.BinDir
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		logFile.Close()
		return fmt.Errorf("fcsnapshot: starting process: %w", err)
	}
	s.cmd = cmd

	if s.cfg.UseUffd {
		uffdSocket := fmt.Sprintf("%s/uffd_%d.sock", s.cfg.BinDir, s.id)
		h, err := startUffdHandler(context.Background(), uffdSocket, s.cfg.MemFilePath, logFile)
		if err != nil {
			return fmt.Errorf("fcsnapshot: starting uffd handler: %w", err)
		}
		s.uffd = h
	}

	return nil
}

// Start sends the PUT /snapshot/load then PATCH /vm control sequence.
func (s *Sandbox) Start() error {
	if err := s.Lifecycle.Advance(sandbox.Started); err != nil {
		return err
	}
	memFile := s.cfg.MemFilePath
	return LoadSnapshot(s.socketPath, s.cfg.SnapshotPath, memFile)
}

// Kill signals the firecracker child.
func (s *Sandbox) Kill() error {
	if !s.Lifecycle.ShouldKill() {
		return nil
	}
	defer s.Lifecycle.MarkKilled()

	if s.cmd == nil || s.cmd.Process == nil {
		return nil
	}
	if err := s.cmd.Process.Signal(syscall.SIGKILL); err != nil && err != os.ErrProcessDone {
		return fmt.Errorf("fcsnapshot: signaling process: %w", err)
	}
	_ = s.cmd.Wait()
	return nil
}

// Cleanup runs the network-cleanup script against tap0 and releases any
// uffd handler.
func (s *Sandbox) Cleanup() error {
	if !s.Lifecycle.ShouldCleanup() {
		return nil
	}
	defer s.Lifecycle.MarkCleaned()

	if s.uffd != nil {
		s.uffd.Close()
		s.uffd = nil
	}

	out, err := execCommand(s.cfg.NetworkScript, fixedTapName, fixedGuestIP).CombinedOutput()
	log.WithField("output", string(out)).Debug("fcsnapshot: network cleanup script ran")
	if err != nil {
		return fmt.Errorf("fcsnapshot: network cleanup script: %w", err)
	}
	return nil
}
