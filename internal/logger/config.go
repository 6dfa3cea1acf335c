package logger

import (
	"github.com/aleister1102/watchdogd/internal/config"
	"github.com/rs/zerolog"
)

// LogFormat selects how events are rendered
type LogFormat int

const (
	FormatConsole LogFormat = iota
	FormatJSON
	FormatText
)

var formatNames = map[LogFormat]string{
	FormatConsole: "console",
	FormatJSON:    "json",
	FormatText:    "text",
}

// String returns the config name of the format
func (lf LogFormat) String() string {
	if name, ok := formatNames[lf]; ok {
		return name
	}
	return formatNames[FormatConsole]
}

// LoggerConfig is the resolved form of config.LogConfig
type LoggerConfig struct {
	Level         zerolog.Level
	Format        LogFormat
	EnableConsole bool
	EnableFile    bool
	FilePath      string
	MaxSizeMB     int
	MaxBackups    int
}

// DefaultLoggerConfig resolves the application's default log settings
func DefaultLoggerConfig() LoggerConfig {
	lc, _ := ConvertConfig(config.NewDefaultLogConfig())
	return lc
}
