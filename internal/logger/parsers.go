package logger

import (
	"strings"

	"github.com/aleister1102/watchdogd/internal/common"
	"github.com/rs/zerolog"
)

// ParseLevel parses a log level name, falling back to info on error
func ParseLevel(levelStr string) (zerolog.Level, error) {
	if strings.TrimSpace(levelStr) == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		return zerolog.InfoLevel, common.WrapError(err, "invalid log level")
	}
	return level, nil
}

// ParseFormat parses a format name; unknown names map to console
func ParseFormat(formatStr string) LogFormat {
	name := strings.ToLower(strings.TrimSpace(formatStr))
	for format, n := range formatNames {
		if n == name {
			return format
		}
	}
	return FormatConsole
}
