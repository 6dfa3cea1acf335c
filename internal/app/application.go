// Package app defines the boundary between the process bootstrap and the
// service workload it hosts.
package app

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/rs/zerolog"
)

// Application is the long-running service workload. Run blocks until the
// workload finishes or ctx is cancelled.
type Application interface {
	Run(ctx context.Context) error
}

// Func adapts a plain function to Application
type Func func(ctx context.Context) error

// Run implements Application
func (f Func) Run(ctx context.Context) error {
	return f(ctx)
}

// Idle is an Application that does nothing until it is told to stop
type Idle struct{}

// Run implements Application
func (Idle) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

// Driver runs an Application on behalf of the bootstrap
type Driver struct {
	app    Application
	logger zerolog.Logger
}

// NewDriver creates a driver. A nil application is replaced by Idle.
func NewDriver(application Application, logger zerolog.Logger) *Driver {
	if application == nil {
		application = Idle{}
	}
	return &Driver{
		app:    application,
		logger: logger.With().Str("component", "ApplicationDriver").Logger(),
	}
}

// Run starts the application and blocks until it returns. Cancellation is
// reported as a clean stop and a panic is converted into an error.
func (d *Driver) Run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Application panicked")
			err = fmt.Errorf("application panicked: %v", r)
		}
	}()

	d.logger.Info().Msg("Starting application")
	err = d.app.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		d.logger.Error().Err(err).Msg("Application exited with error")
		return fmt.Errorf("application failed: %w", err)
	}

	d.logger.Info().Msg("Application stopped")
	return nil
}
