package watchdog

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/shirou/gopsutil/v3/process"
)

const bytesPerMB = 1024 * 1024

// ResourceSampler reads point-in-time resource counters for a process.
// A returned error means the value is unavailable for the current interval.
type ResourceSampler interface {
	// SampleCPUSeconds returns cumulative user+system CPU time in seconds
	SampleCPUSeconds(ctx context.Context) (float64, error)
	// SampleResidentMemoryMB returns the resident set size in megabytes
	SampleResidentMemoryMB(ctx context.Context) (float64, error)
}

// ProcessSampler samples the OS counters of a single process through gopsutil
type ProcessSampler struct {
	pid int32

	mu   sync.Mutex
	proc *process.Process
}

// NewProcessSampler creates a sampler for the current process
func NewProcessSampler() *ProcessSampler {
	return NewProcessSamplerForPID(int32(os.Getpid()))
}

// NewProcessSamplerForPID creates a sampler for the given pid
func NewProcessSamplerForPID(pid int32) *ProcessSampler {
	return &ProcessSampler{pid: pid}
}

// handle returns the cached process handle, building it on first use.
// A failed build is not cached so the next interval retries it.
func (ps *ProcessSampler) handle(ctx context.Context) (*process.Process, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.proc != nil {
		return ps.proc, nil
	}

	p, err := process.NewProcessWithContext(ctx, ps.pid)
	if err != nil {
		return nil, fmt.Errorf("failed to open process %d: %w", ps.pid, err)
	}
	ps.proc = p
	return p, nil
}

// SampleCPUSeconds implements ResourceSampler
func (ps *ProcessSampler) SampleCPUSeconds(ctx context.Context) (float64, error) {
	p, err := ps.handle(ctx)
	if err != nil {
		return 0, err
	}

	times, err := p.TimesWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read cpu times: %w", err)
	}

	return times.User + times.System, nil
}

// SampleResidentMemoryMB implements ResourceSampler
func (ps *ProcessSampler) SampleResidentMemoryMB(ctx context.Context) (float64, error) {
	p, err := ps.handle(ctx)
	if err != nil {
		return 0, err
	}

	info, err := p.MemoryInfoWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read memory info: %w", err)
	}

	return float64(info.RSS) / bytesPerMB, nil
}
