package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// WriterStrategy defines interface for creating log writers
type WriterStrategy interface {
	CreateWriter(output io.Writer) io.Writer
}

// JSONWriterStrategy writes raw zerolog JSON
type JSONWriterStrategy struct{}

// CreateWriter creates a JSON writer
func (jws *JSONWriterStrategy) CreateWriter(output io.Writer) io.Writer {
	return output
}

// ConsoleWriterStrategy creates human-readable writers
type ConsoleWriterStrategy struct {
	NoColor bool
}

// CreateWriter creates a console writer
func (cws *ConsoleWriterStrategy) CreateWriter(output io.Writer) io.Writer {
	return zerolog.ConsoleWriter{
		Out:        output,
		TimeFormat: time.RFC3339,
		NoColor:    cws.NoColor,
	}
}

// WriterFactory creates writers based on format
type WriterFactory struct {
	console    io.Writer
	strategies map[LogFormat]WriterStrategy
}

// NewWriterFactory creates a writer factory whose console output is stderr
func NewWriterFactory() *WriterFactory {
	return NewWriterFactoryWithConsole(os.Stderr)
}

// NewWriterFactoryWithConsole creates a writer factory with a custom console output
func NewWriterFactoryWithConsole(console io.Writer) *WriterFactory {
	return &WriterFactory{
		console: console,
		strategies: map[LogFormat]WriterStrategy{
			FormatJSON:    &JSONWriterStrategy{},
			FormatConsole: &ConsoleWriterStrategy{NoColor: false},
			FormatText:    &ConsoleWriterStrategy{NoColor: true},
		},
	}
}

func (wf *WriterFactory) strategy(format LogFormat) WriterStrategy {
	if s, ok := wf.strategies[format]; ok {
		return s
	}
	return &ConsoleWriterStrategy{NoColor: false}
}

// CreateConsoleWriter creates a console writer
func (wf *WriterFactory) CreateConsoleWriter(format LogFormat) io.Writer {
	return wf.strategy(format).CreateWriter(wf.console)
}

// CreateFileWriter creates a rotating file writer. Colors are never written to files.
func (wf *WriterFactory) CreateFileWriter(cfg LoggerConfig) (io.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
		return nil, err
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		LocalTime:  true,
	}

	if cfg.Format == FormatJSON {
		return rotator, nil
	}
	return (&ConsoleWriterStrategy{NoColor: true}).CreateWriter(rotator), nil
}
