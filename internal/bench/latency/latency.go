// Package latency implements the cold-start and per-request latency
// benchmark: for each variant and iteration it times presetup, start, and a
// run of requests, emitting CSV rows to a writer.
package latency

import (
	"fmt"
	"io"
	"time"

	"sandboxbench/internal/loadgen"
	"sandboxbench/internal/netprobe"
	"sandboxbench/internal/sandbox"
)

// Header is the CSV header line emitted once before any rows.
const Header = "SYSTEM,OP_TYPE,LATENCY_MICROSECONDS"

// Op labels the five latency sample kinds §4.6 defines.
type Op string

const (
	OpPresetup           Op = "PRESETUP"
	OpSetupSandbox       Op = "SETUP_SANDBOX"
	OpFirstExecution     Op = "FIRST_EXECUTION"
	OpColdStartExecution Op = "COLD_START_EXECUTION"
	OpExecution          Op = "EXECUTION"
)

// Params configures one run of the latency benchmark.
type Params struct {
	DataSize    int
	Invocations int
	Iterations  int
	DialTimeout time.Duration
}

// settlePause is slept between presetup and start so host networking (tap
// device creation in particular) has time to settle before the workload is
// asked to come up.
const settlePause = 2 * time.Second

// betweenIterationPause is slept after a full iteration's kill+cleanup,
// giving the host time to release the torn-down resources before the next
// iteration claims overlapping ones (e.g. tap device names are reused).
const betweenIterationPause = 2 * time.Second

// Run executes the latency benchmark for one variant across
// params.Iterations iterations, constructing a fresh sandbox per iteration
// via newSandbox. It writes CSV rows to w as it goes and returns an error
// (without a nonzero process exit — that's the caller's job) the moment a
// sandbox fails to become reachable or a request fails.
func Run(w io.Writer, newSandbox func(i int) (sandbox.Sandbox, error), params Params) error {
	for i := 0; i < params.Iterations; i++ {
		if err := runIteration(w, newSandbox, i, params); err != nil {
			return fmt.Errorf("iteration %d: %w", i, err)
		}
		time.Sleep(betweenIterationPause)
	}
	return nil
}

func runIteration(w io.Writer, newSandbox func(i int) (sandbox.Sandbox, error), i int, params Params) error {
	sb, err := newSandbox(i)
	if err != nil {
		return fmt.Errorf("constructing sandbox: %w", err)
	}

	presetupStart := time.Now()
	if err := sb.Presetup(); err != nil {
		sandbox.Teardown(sb)
		return fmt.Errorf("presetup: %w", err)
	}
	presetupElapsed := time.Since(presetupStart)
	emit(w, sb.Name(), OpPresetup, presetupElapsed)

	time.Sleep(settlePause)

	setupStart := time.Now()
	if err := sb.Start(); err != nil {
		sandbox.Teardown(sb)
		return fmt.Errorf("start: %w", err)
	}
	if !netprobe.WaitForPort(sb.TargetIP(), sb.TargetPort()) {
		sandbox.Teardown(sb)
		return fmt.Errorf("port never opened on %s:%d", sb.TargetIP(), sb.TargetPort())
	}
	setupElapsed := time.Since(setupStart)
	emit(w, sb.Name(), OpSetupSandbox, setupElapsed)

	req := loadgen.BuildRequest(make([]byte, params.DataSize))
	addr := fmt.Sprintf("%s:%d", sb.TargetIP(), sb.TargetPort())
	samples, err := loadgen.SendRequest(addr, req, params.Invocations, params.DialTimeout)
	if err != nil {
		sandbox.Teardown(sb)
		return fmt.Errorf("request: %w", err)
	}

	emit(w, sb.Name(), OpFirstExecution, samples[0])
	emit(w, sb.Name(), OpColdStartExecution, presetupElapsed+setupElapsed+samples[0])
	for _, s := range samples[1:] {
		emit(w, sb.Name(), OpExecution, s)
	}

	return sandbox.Teardown(sb)
}

func emit(w io.Writer, name string, op Op, d time.Duration) {
	fmt.Fprintf(w, "%s,%s,%d\n", name, op, d.Microseconds())
}
