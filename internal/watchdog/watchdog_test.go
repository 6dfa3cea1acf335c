package watchdog

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reading is one scripted sampler result
type reading struct {
	value float64
	err   error
}

// fakeSampler replays scripted readings; once exhausted it repeats the last one
type fakeSampler struct {
	mu     sync.Mutex
	cpu    []reading
	memory []reading
	calls  int
}

func (f *fakeSampler) next(queue *[]reading) (float64, error) {
	if len(*queue) == 0 {
		return 0, errors.New("no reading scripted")
	}
	r := (*queue)[0]
	if len(*queue) > 1 {
		*queue = (*queue)[1:]
	}
	return r.value, r.err
}

func (f *fakeSampler) SampleCPUSeconds(context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.next(&f.cpu)
}

func (f *fakeSampler) SampleResidentMemoryMB(context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.next(&f.memory)
}

func (f *fakeSampler) cpuCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type panicSampler struct{}

func (panicSampler) SampleCPUSeconds(context.Context) (float64, error) { panic("boom") }

func (panicSampler) SampleResidentMemoryMB(context.Context) (float64, error) { return 0, nil }

// syncBuffer guards a bytes.Buffer written by the background loop
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func warnings(t *testing.T, out string) []string {
	t.Helper()
	var msgs []string
	scanner := bufio.NewScanner(bytes.NewBufferString(out))
	for scanner.Scan() {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		if entry["level"] == "warn" {
			msgs = append(msgs, entry["message"].(string))
		}
	}
	return msgs
}

func newTestWatchdog(sampler ResourceSampler, buf *syncBuffer) *Watchdog {
	logger := zerolog.New(buf).Level(zerolog.InfoLevel)
	return New(DefaultConfig(), sampler, logger)
}

func TestNew_Defaults(t *testing.T) {
	w := New(Config{}, &fakeSampler{}, zerolog.Nop())

	require.NotNil(t, w)
	assert.Equal(t, 60*time.Second, w.Config().Interval)
	assert.Equal(t, 20.0, w.Config().CPUWarnThresholdPercent)
	assert.Equal(t, 250.0, w.Config().MemWarnThresholdMB)
	assert.Zero(t, w.previousCPUTime)
	assert.Zero(t, w.previousMemoryMB)
}

func TestNew_NilSamplerUsesProcess(t *testing.T) {
	w := New(DefaultConfig(), nil, zerolog.Nop())
	assert.IsType(t, &ProcessSampler{}, w.sampler)
}

func TestCPUPercent(t *testing.T) {
	assert.InDelta(t, 50.0, CPUPercent(100, 130, 60*time.Second), 1e-9)
	assert.InDelta(t, 50.0, CPUPercent(1e6, 1e6+30, 60*time.Second), 1e-6)
	assert.InDelta(t, 200.0, CPUPercent(0, 20, 10*time.Second), 1e-9)
	assert.Zero(t, CPUPercent(0, 20, 0))
}

func TestStep_CPUWarningAboveThreshold(t *testing.T) {
	buf := &syncBuffer{}
	w := newTestWatchdog(&fakeSampler{
		cpu:    []reading{{value: 130}},
		memory: []reading{{value: 10}},
	}, buf)
	w.previousCPUTime = 100

	s := w.Step(context.Background())

	assert.True(t, s.CPUWarning)
	assert.InDelta(t, 50.0, s.CPUPercent, 1e-9)
	assert.Equal(t, 130.0, w.previousCPUTime)
	msgs := warnings(t, buf.String())
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "50.00% over last 60 seconds")
}

func TestStep_CPUAtThresholdDoesNotWarn(t *testing.T) {
	buf := &syncBuffer{}
	// 12s over 60s is exactly 20%
	w := newTestWatchdog(&fakeSampler{
		cpu:    []reading{{value: 112}},
		memory: []reading{{value: 10}},
	}, buf)
	w.previousCPUTime = 100

	s := w.Step(context.Background())

	assert.False(t, s.CPUWarning)
	assert.Empty(t, warnings(t, buf.String()))
	assert.Equal(t, 112.0, w.previousCPUTime)
}

func TestStep_FirstSampleMeasuresFromProcessStart(t *testing.T) {
	w := newTestWatchdog(&fakeSampler{
		cpu:    []reading{{value: 6}},
		memory: []reading{{value: 10}},
	}, &syncBuffer{})

	s := w.Step(context.Background())

	assert.InDelta(t, 10.0, s.CPUPercent, 1e-9)
	assert.False(t, s.CPUWarning)
}

func TestStep_CPUFailureKeepsPreviousValue(t *testing.T) {
	buf := &syncBuffer{}
	sampler := &fakeSampler{
		cpu:    []reading{{err: errors.New("proc unavailable")}, {value: 106}},
		memory: []reading{{value: 10}},
	}
	w := newTestWatchdog(sampler, buf)
	w.previousCPUTime = 100

	s := w.Step(context.Background())
	assert.False(t, s.CPUAvailable)
	assert.False(t, s.CPUWarning)
	assert.Equal(t, 100.0, w.previousCPUTime)

	// Next interval resumes from the untouched value: 6s over 60s, no spike.
	s = w.Step(context.Background())
	assert.True(t, s.CPUAvailable)
	assert.InDelta(t, 10.0, s.CPUPercent, 1e-9)
	assert.Equal(t, 106.0, w.previousCPUTime)
	assert.Empty(t, warnings(t, buf.String()))
}

func TestStep_MemoryWarningOnlyWhileGrowing(t *testing.T) {
	buf := &syncBuffer{}
	w := newTestWatchdog(&fakeSampler{
		cpu:    []reading{{value: 0}},
		memory: []reading{{value: 260}, {value: 260}, {value: 270}},
	}, buf)
	w.previousMemoryMB = 200

	s := w.Step(context.Background())
	assert.True(t, s.MemoryWarning)
	assert.Equal(t, 260.0, w.previousMemoryMB)

	s = w.Step(context.Background())
	assert.False(t, s.MemoryWarning, "plateau above threshold must not re-fire")
	assert.Equal(t, 260.0, w.previousMemoryMB)

	s = w.Step(context.Background())
	assert.True(t, s.MemoryWarning)

	msgs := warnings(t, buf.String())
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0], "260.00 MB")
	assert.Contains(t, msgs[1], "270.00 MB")
}

func TestStep_MemoryNeedsBothConditions(t *testing.T) {
	tests := []struct {
		name     string
		previous float64
		current  float64
		want     bool
	}{
		{name: "growing below threshold", previous: 100, current: 200, want: false},
		{name: "shrinking above threshold", previous: 400, current: 300, want: false},
		{name: "at threshold and growing", previous: 100, current: 250, want: false},
		{name: "above threshold and growing", previous: 250, current: 250.5, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWatchdog(&fakeSampler{
				cpu:    []reading{{value: 0}},
				memory: []reading{{value: tt.current}},
			}, &syncBuffer{})
			w.previousMemoryMB = tt.previous

			s := w.Step(context.Background())

			assert.Equal(t, tt.want, s.MemoryWarning)
			assert.Equal(t, tt.current, w.previousMemoryMB)
		})
	}
}

func TestStep_MemoryFailureSkipsCheck(t *testing.T) {
	buf := &syncBuffer{}
	w := newTestWatchdog(&fakeSampler{
		cpu:    []reading{{value: 0}},
		memory: []reading{{err: errors.New("no rss")}, {value: 300}},
	}, buf)
	w.previousMemoryMB = 200

	s := w.Step(context.Background())
	assert.False(t, s.MemoryAvailable)
	assert.False(t, s.MemoryWarning)
	assert.Equal(t, 200.0, w.previousMemoryMB)

	s = w.Step(context.Background())
	assert.True(t, s.MemoryWarning)
	assert.Len(t, warnings(t, buf.String()), 1)
}

func TestRun_StopsOnCancel(t *testing.T) {
	sampler := &fakeSampler{
		cpu:    []reading{{value: 0}},
		memory: []reading{{value: 1}},
	}
	cfg := DefaultConfig()
	cfg.Interval = 5 * time.Millisecond
	w := New(cfg, sampler, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return sampler.cpuCalls() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestRun_SurvivesSamplerPanic(t *testing.T) {
	buf := &syncBuffer{}
	cfg := DefaultConfig()
	cfg.Interval = 5 * time.Millisecond
	w := New(cfg, panicSampler{}, zerolog.New(buf))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	assert.NotPanics(t, func() { _ = w.Run(ctx) })
	assert.Contains(t, buf.String(), "Recovered panic")
}

func TestRun_WaitsBeforeFirstSample(t *testing.T) {
	sampler := &fakeSampler{
		cpu:    []reading{{value: 0}},
		memory: []reading{{value: 1}},
	}
	cfg := DefaultConfig()
	cfg.Interval = time.Hour
	w := New(cfg, sampler, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, w.Run(ctx))
	assert.Equal(t, 0, sampler.cpuCalls(), "no sample may be taken before the first interval elapses")
}
