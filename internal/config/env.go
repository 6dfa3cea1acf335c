package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/aleister1102/watchdogd/internal/common"
	"github.com/joho/godotenv"
)

// Environment variables that override values from the config file
const (
	EnvWatchdogIntervalSecs = "WATCHDOGD_INTERVAL_SECS"
	EnvWatchdogCPUWarn      = "WATCHDOGD_CPU_WARN_PERCENT"
	EnvWatchdogMemWarn      = "WATCHDOGD_MEM_WARN_MB"
	EnvLogLevel             = "WATCHDOGD_LOG_LEVEL"
	EnvLogFormat            = "WATCHDOGD_LOG_FORMAT"
	EnvLogFile              = "WATCHDOGD_LOG_FILE"
)

// LoadDotEnv loads variables from .env files into the process environment.
// Variables already set are left alone and a missing file is not an error.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}

	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return common.WrapErrorf(err, "failed to load env file '%s'", name)
		}
	}
	return nil
}

// ApplyEnvOverrides copies WATCHDOGD_* environment variables onto cfg
func ApplyEnvOverrides(cfg *GlobalConfig) error {
	if v, ok := lookupEnv(EnvWatchdogIntervalSecs); ok {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return common.NewValidationError(EnvWatchdogIntervalSecs, v, "must be an integer")
		}
		cfg.WatchdogConfig.IntervalSecs = secs
	}

	if v, ok := lookupEnv(EnvWatchdogCPUWarn); ok {
		pct, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return common.NewValidationError(EnvWatchdogCPUWarn, v, "must be a number")
		}
		cfg.WatchdogConfig.CPUWarnThresholdPercent = pct
	}

	if v, ok := lookupEnv(EnvWatchdogMemWarn); ok {
		mb, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return common.NewValidationError(EnvWatchdogMemWarn, v, "must be a number")
		}
		cfg.WatchdogConfig.MemWarnThresholdMB = mb
	}

	if v, ok := lookupEnv(EnvLogLevel); ok {
		cfg.LogConfig.LogLevel = v
	}
	if v, ok := lookupEnv(EnvLogFormat); ok {
		cfg.LogConfig.LogFormat = v
	}
	if v, ok := lookupEnv(EnvLogFile); ok {
		cfg.LogConfig.LogFile = v
	}

	return nil
}

// lookupEnv treats blank values as unset
func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}
