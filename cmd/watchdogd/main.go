package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/aleister1102/watchdogd/internal/app"
	"github.com/aleister1102/watchdogd/internal/config"
	"github.com/aleister1102/watchdogd/internal/logger"
	"github.com/aleister1102/watchdogd/internal/platform"
	"github.com/aleister1102/watchdogd/internal/watchdog"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

// newApplication returns the workload hosted by this process
var newApplication = func() app.Application { return app.Idle{} }

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run boots the service and blocks until ctx is done or a shutdown signal
// arrives. Console logs go to stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	platform.IgnoreChildExit()

	if wantsVersion(args) {
		fmt.Fprintln(stdout, version)
		return 0
	}

	flags, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	// -version=true and friends only show up after parsing
	if flags.showVersion {
		fmt.Fprintln(stdout, version)
		return 0
	}

	if err := config.LoadDotEnv(flags.envFile); err != nil {
		fmt.Fprintf(stderr, "[FATAL] %v\n", err)
		return 1
	}

	gCfg, err := config.LoadGlobalConfig(flags.configFile)
	if err != nil {
		fmt.Fprintf(stderr, "[FATAL] Could not load config: %v\n", err)
		return 1
	}
	if err := config.ValidateConfig(gCfg); err != nil {
		fmt.Fprintf(stderr, "[FATAL] %v\n", err)
		return 1
	}

	l, err := logger.NewLoggerBuilder().WithConfig(gCfg.LogConfig).WithConsoleOutput(stderr).Build()
	if err != nil {
		fmt.Fprintf(stderr, "[FATAL] Could not initialize logger: %v\n", err)
		return 1
	}
	zLogger := *l.GetZerolog()

	zLogger.Info().
		Str("version", version).
		Str("log_level", l.Config().Level.String()).
		Str("log_format", l.Config().Format.String()).
		Msgf("watchdogd %s starting", version)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, gCfg, newApplication(), nil, zLogger); err != nil {
		zLogger.Error().Err(err).Msg("watchdogd stopped with error")
		return 1
	}

	zLogger.Info().Msg("watchdogd stopped gracefully")
	return 0
}

// serve runs the application and the resource watchdog side by side until
// ctx is cancelled or the application fails. A nil sampler samples this process.
func serve(ctx context.Context, gCfg *config.GlobalConfig, application app.Application, sampler watchdog.ResourceSampler, zLogger zerolog.Logger) error {
	driver := app.NewDriver(application, zLogger)
	wd := watchdog.New(watchdogConfig(gCfg.WatchdogConfig), sampler, zLogger)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return driver.Run(gCtx)
	})

	g.Go(func() error {
		return wd.Run(gCtx)
	})

	return g.Wait()
}

func watchdogConfig(c config.WatchdogConfig) watchdog.Config {
	return watchdog.Config{
		Interval:                c.Interval(),
		CPUWarnThresholdPercent: c.CPUWarnThresholdPercent,
		MemWarnThresholdMB:      c.MemWarnThresholdMB,
	}
}
