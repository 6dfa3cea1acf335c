package config

import "time"

// WatchdogConfig holds configuration for the resource watchdog
type WatchdogConfig struct {
	IntervalSecs            int     `json:"interval_secs,omitempty" yaml:"interval_secs,omitempty" validate:"min=1,max=86400"`
	CPUWarnThresholdPercent float64 `json:"cpu_warn_threshold_percent,omitempty" yaml:"cpu_warn_threshold_percent,omitempty" validate:"gt=0"`
	MemWarnThresholdMB      float64 `json:"mem_warn_threshold_mb,omitempty" yaml:"mem_warn_threshold_mb,omitempty" validate:"gt=0"`
}

// NewDefaultWatchdogConfig creates default watchdog configuration
func NewDefaultWatchdogConfig() WatchdogConfig {
	return WatchdogConfig{
		IntervalSecs:            DefaultWatchdogIntervalSecs,
		CPUWarnThresholdPercent: DefaultWatchdogCPUWarnThresholdPercent,
		MemWarnThresholdMB:      DefaultWatchdogMemWarnThresholdMB,
	}
}

// Interval returns the sampling interval as a duration
func (c WatchdogConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSecs) * time.Second
}
