package watchdog

import "time"

// Config holds the thresholds and sampling interval for the watchdog
type Config struct {
	Interval                time.Duration // How long to wait between samples
	CPUWarnThresholdPercent float64       // Average CPU percentage over the interval that triggers a warning (100 = one core)
	MemWarnThresholdMB      float64       // Resident memory in MB above which a growing process is reported
}

// Default watchdog settings
const (
	DefaultInterval                = 60 * time.Second
	DefaultCPUWarnThresholdPercent = 20.0
	DefaultMemWarnThresholdMB      = 250.0
)

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Interval:                DefaultInterval,
		CPUWarnThresholdPercent: DefaultCPUWarnThresholdPercent,
		MemWarnThresholdMB:      DefaultMemWarnThresholdMB,
	}
}

// withDefaults fills zero-value fields
func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.CPUWarnThresholdPercent == 0 {
		c.CPUWarnThresholdPercent = DefaultCPUWarnThresholdPercent
	}
	if c.MemWarnThresholdMB == 0 {
		c.MemWarnThresholdMB = DefaultMemWarnThresholdMB
	}
	return c
}
