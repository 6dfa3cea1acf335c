package config

const (
	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// Watchdog Defaults
	DefaultWatchdogIntervalSecs            = 60
	DefaultWatchdogCPUWarnThresholdPercent = 20.0
	DefaultWatchdogMemWarnThresholdMB      = 250.0

	// ConfigPathEnvVar names the environment variable that points at a config file
	ConfigPathEnvVar = "WATCHDOGD_CONFIG_PATH"
)
