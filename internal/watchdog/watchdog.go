package watchdog

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sample describes what a single watchdog step observed
type Sample struct {
	CPUAvailable bool
	CPUSeconds   float64 // cumulative CPU time reported by the sampler
	CPUPercent   float64 // average utilisation over the interval
	CPUWarning   bool

	MemoryAvailable bool
	MemoryMB        float64
	MemoryWarning   bool
}

// Watchdog periodically samples the process's own CPU and memory usage and
// logs a warning when usage crosses the configured thresholds.
// The previous-sample fields are only touched by Step, which is never run
// concurrently with itself.
type Watchdog struct {
	config  Config
	sampler ResourceSampler
	logger  zerolog.Logger

	previousCPUTime  float64
	previousMemoryMB float64
}

// New creates a watchdog. A nil sampler falls back to the current process.
func New(config Config, sampler ResourceSampler, logger zerolog.Logger) *Watchdog {
	if sampler == nil {
		sampler = NewProcessSampler()
	}

	return &Watchdog{
		config:  config.withDefaults(),
		sampler: sampler,
		logger:  logger.With().Str("component", "ResourceWatchdog").Logger(),
	}
}

// Config returns the effective configuration after defaults were applied
func (w *Watchdog) Config() Config {
	return w.config
}

// Run waits for the configured interval, then samples and evaluates, forever.
// Cancellation is only observed while waiting. Run returns nil once ctx is done.
func (w *Watchdog) Run(ctx context.Context) error {
	w.logger.Info().
		Dur("interval", w.config.Interval).
		Float64("cpu_warn_threshold_percent", w.config.CPUWarnThresholdPercent).
		Float64("mem_warn_threshold_mb", w.config.MemWarnThresholdMB).
		Msg("Resource watchdog started")

	timer := time.NewTimer(w.config.Interval)
	defer timer.Stop()

	// Steps run detached from ctx so a shutdown signal never cuts a sample short.
	stepCtx := context.WithoutCancel(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("Resource watchdog stopped")
			return nil
		case <-timer.C:
			w.safeStep(stepCtx)
			timer.Reset(w.config.Interval)
		}
	}
}

// safeStep runs Step and swallows a panic so the loop keeps going
func (w *Watchdog) safeStep(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error().Interface("panic", r).Msg("Recovered panic in resource watchdog step")
		}
	}()
	w.Step(ctx)
}

// Step samples both counters once, logs any warnings, and updates the
// previous-sample state.
func (w *Watchdog) Step(ctx context.Context) Sample {
	var s Sample

	w.checkCPU(ctx, &s)
	w.checkMemory(ctx, &s)

	w.logger.Debug().
		Bool("cpu_available", s.CPUAvailable).
		Float64("cpu_seconds", s.CPUSeconds).
		Float64("cpu_percent", s.CPUPercent).
		Bool("memory_available", s.MemoryAvailable).
		Float64("memory_mb", s.MemoryMB).
		Msg("Resource watchdog sample")

	return s
}

func (w *Watchdog) checkCPU(ctx context.Context, s *Sample) {
	total, err := w.sampler.SampleCPUSeconds(ctx)
	if err != nil {
		w.logger.Debug().Err(err).Msg("CPU time unavailable, skipping CPU check")
		return
	}

	s.CPUAvailable = true
	s.CPUSeconds = total
	s.CPUPercent = CPUPercent(w.previousCPUTime, total, w.config.Interval)
	w.previousCPUTime = total

	if s.CPUPercent > w.config.CPUWarnThresholdPercent {
		s.CPUWarning = true
		intervalSecs := int64(w.config.Interval / time.Second)
		w.logger.Warn().
			Float64("cpu_percent", s.CPUPercent).
			Float64("threshold_percent", w.config.CPUWarnThresholdPercent).
			Int64("interval_secs", intervalSecs).
			Msgf("CPU usage at %.2f%% over last %d seconds", s.CPUPercent, intervalSecs)
	}
}

func (w *Watchdog) checkMemory(ctx context.Context, s *Sample) {
	ramUseMB, err := w.sampler.SampleResidentMemoryMB(ctx)
	if err != nil {
		w.logger.Debug().Err(err).Msg("Resident memory unavailable, skipping memory check")
		return
	}

	s.MemoryAvailable = true
	s.MemoryMB = ramUseMB

	// Only report while memory is still climbing, so a stable plateau above
	// the threshold is reported once.
	if ramUseMB > w.config.MemWarnThresholdMB && ramUseMB > w.previousMemoryMB {
		s.MemoryWarning = true
		w.logger.Warn().
			Float64("memory_mb", ramUseMB).
			Float64("previous_mb", w.previousMemoryMB).
			Float64("threshold_mb", w.config.MemWarnThresholdMB).
			Msgf("Memory usage at %.2f MB", ramUseMB)
	}
	w.previousMemoryMB = ramUseMB
}

// CPUPercent converts two cumulative CPU readings taken interval apart into
// an average utilisation percentage. 100 means one core saturated for the
// whole interval. A non-positive interval yields 0.
func CPUPercent(previous, current float64, interval time.Duration) float64 {
	secs := interval.Seconds()
	if secs <= 0 {
		return 0
	}
	return ((current - previous) / secs) * 100.0
}
