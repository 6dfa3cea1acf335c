package logger

import (
	"github.com/aleister1102/watchdogd/internal/config"
)

// ConvertConfig converts application log config to logger config
func ConvertConfig(cfg config.LogConfig) (LoggerConfig, error) {
	level, err := ParseLevel(cfg.LogLevel)

	return LoggerConfig{
		Level:         level,
		Format:        ParseFormat(cfg.LogFormat),
		EnableConsole: true,
		EnableFile:    cfg.LogFile != "",
		FilePath:      cfg.LogFile,
		MaxSizeMB:     withDefault(cfg.MaxLogSizeMB, config.DefaultMaxLogSizeMB),
		MaxBackups:    withDefault(cfg.MaxLogBackups, config.DefaultMaxLogBackups),
	}, err
}

func withDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
