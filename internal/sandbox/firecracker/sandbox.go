//go:build linux

package firecracker

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"sandboxbench/internal/sandbox"
	"sandboxbench/internal/sandbox/netid"
)

// execCommand is swapped out in tests.
var execCommand = exec.Command

// Config is the per-run configuration for the cold-boot Firecracker variant,
// loaded from the harness's JSON sandbox config.
type Config struct {
	BinDir               string `json:"firecracker_binary_dir"`
	TemplatePath         string `json:"config_file_template"`
	NetworkSetupScript   string `json:"network_setup_file"`
	NetworkCleanupScript string `json:"network_cleanup_file"`
	SocketPrefix         string `json:"firecracker_socket_prefix"`
}

// Sandbox is the Firecracker cold-boot variant: each iteration renders a
// fresh VM-config, runs the network-setup script, and spawns firecracker
// against that config and API socket.
type Sandbox struct {
	sandbox.Lifecycle

	cfg Config
	id  netid.Identity

	instanceID string
	configPath string
	socketPath string
	logPath    string

	cmd *exec.Cmd
}

// New constructs the cold-boot Firecracker sandbox for iteration i.
func New(cfg Config, i int) (*Sandbox, error) {
	identity, err := netid.Allocate(i)
	if err != nil {
		return nil, err
	}
	instanceID := uuid.NewString()
	return &Sandbox{
		cfg:        cfg,
		id:         identity,
		instanceID: instanceID,
		configPath: filepath.Join(cfg.BinDir, fmt.Sprintf("vm_config_%s.json", instanceID)),
		socketPath: fmt.Sprintf("%s%s.socket", cfg.SocketPrefix, instanceID),
		logPath:    filepath.Join(cfg.BinDir, fmt.Sprintf("firecracker_%s.log", instanceID)),
	}, nil
}

func (s *Sandbox) Name() string       { return "firecracker" }
func (s *Sandbox) TargetIP() string   { return s.id.GuestIP }
func (s *Sandbox) TargetPort() uint16 { return 8080 }

// Presetup renders the VM-config template, writes it to the instance's
// scratch config path, then runs the network-setup script.
func (s *Sandbox) Presetup() error {
	if err := s.Lifecycle.Advance(sandbox.Presetup); err != nil {
		return err
	}

	tpl, err := os.ReadFile(s.cfg.TemplatePath)
	if err != nil {
		return fmt.Errorf("firecracker: reading template: %w", err)
	}

	rendered := renderTemplate(string(tpl), templateValues{
		GuestIP:     s.id.GuestIP,
		TapIP:       s.id.TapIP,
		TapID:       s.id.TapName,
		MACAddress:  s.id.MAC,
		LogLocation: s.logPath,
	})

	if err := os.WriteFile(s.configPath, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("firecracker: writing vm config: %w", err)
	}

	out, err := execCommand(s.cfg.NetworkSetupScript, s.id.TapName, s.id.TapIP, s.id.GuestIP).CombinedOutput()
	log.WithFields(log.Fields{
		"tap":    s.id.TapName,
		"output": string(out),
	}).Debug("firecracker: network setup script ran")
	if err != nil {
		return fmt.Errorf("firecracker: network setup script: %w", err)
	}

	return nil
}

// Start spawns firecracker against the rendered config and API socket.
// It returns once the process is launched; readiness is confirmed
// separately via the port prober.
func (s *Sandbox) Start() error {
	if err := s.Lifecycle.Advance(sandbox.Started); err != nil {
		return err
	}

	logFile, err := os.Create(s.logPath)
	if err != nil {
		return fmt.Errorf("firecracker: creating log file: %w", err)
	}

	cmd := execCommand(
		filepath.Join(s.cfg.BinDir, "firecracker"),
		"--config-file", s.configPath,
		"--api-sock", s.socketPath,
	)
	cmd.Dir = s.cfg.BinDir
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		logFile.Close()
		return fmt.Errorf("firecracker: starting process: %w", err)
	}
	s.cmd = cmd
	return nil
}

// Kill signals the firecracker child; there is no graceful shutdown path for
// the cold-boot variant.
func (s *Sandbox) Kill() error {
	if !s.Lifecycle.ShouldKill() {
		return nil
	}
	defer s.Lifecycle.MarkKilled()

	if s.cmd == nil || s.cmd.Process == nil {
		return nil
	}
	if err := s.cmd.Process.Signal(syscall.SIGKILL); err != nil && err != os.ErrProcessDone {
		return fmt.Errorf("firecracker: signaling process: %w", err)
	}
	_ = s.cmd.Wait()
	return nil
}

// Cleanup runs the network-cleanup script and removes this instance's
// scratch config file.
func (s *Sandbox) Cleanup() error {
	if !s.Lifecycle.ShouldCleanup() {
		return nil
	}
	defer s.Lifecycle.MarkCleaned()

	out, err := execCommand(s.cfg.NetworkCleanupScript, s.id.TapName, s.id.GuestIP).CombinedOutput()
	log.WithFields(log.Fields{
		"tap":    s.id.TapName,
		"output": string(out),
	}).Debug("firecracker: network cleanup script ran")

	os.Remove(s.configPath)

	if err != nil {
		return fmt.Errorf("firecracker: network cleanup script: %w", err)
	}
	return nil
}
