package cmd

import (
	"fmt"

	"sandboxbench/internal/config"
	"sandboxbench/internal/sandbox"
	"sandboxbench/internal/sandbox/fcsnapshot"
	"sandboxbench/internal/sandbox/firecracker"
	"sandboxbench/internal/sandbox/hyperlight"
	"sandboxbench/internal/sandbox/process"
	"sandboxbench/internal/sandbox/unikraft"
)

// newSandboxFactory loads the JSON sandbox config for variant from
// configPath and returns a constructor the benchmarkers can call once per
// iteration.
func newSandboxFactory(variant, configPath string) (func(i int) (sandbox.Sandbox, error), error) {
	switch variant {
	case "firecracker":
		var cfg firecracker.Config
		if err := config.LoadJSON(configPath, &cfg); err != nil {
			return nil, err
		}
		return func(i int) (sandbox.Sandbox, error) { return firecracker.New(cfg, i) }, nil

	case "fcsnapshot":
		var cfg fcsnapshot.Config
		if err := config.LoadJSON(configPath, &cfg); err != nil {
			return nil, err
		}
		return func(i int) (sandbox.Sandbox, error) { return fcsnapshot.New(cfg, i), nil }, nil

	case "unikraft":
		var cfg unikraft.Config
		if err := config.LoadJSON(configPath, &cfg); err != nil {
			return nil, err
		}
		return func(i int) (sandbox.Sandbox, error) { return unikraft.New(cfg), nil }, nil

	case "process":
		var cfg process.Config
		if err := config.LoadJSON(configPath, &cfg); err != nil {
			return nil, err
		}
		return func(i int) (sandbox.Sandbox, error) { return process.New(cfg, i), nil }, nil

	case "hyperlight":
		var cfg hyperlight.Config
		if err := config.LoadJSON(configPath, &cfg); err != nil {
			return nil, err
		}
		return func(i int) (sandbox.Sandbox, error) { return hyperlight.New(cfg), nil }, nil

	default:
		return nil, fmt.Errorf("unknown variant %q (want firecracker, fcsnapshot, unikraft, process, or hyperlight)", variant)
	}
}
