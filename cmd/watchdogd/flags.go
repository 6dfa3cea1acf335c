package main

import (
	"flag"
	"io"
	"slices"
)

// versionFlags are the spellings that request the build version
var versionFlags = []string{"-version", "--version", "-v", "--v"}

// wantsVersion reports whether a version flag appears anywhere in args,
// including after positional arguments or flags the parser would reject.
func wantsVersion(args []string) bool {
	for _, arg := range args {
		if slices.Contains(versionFlags, arg) {
			return true
		}
	}
	return false
}

// cliFlags holds the parsed command line
type cliFlags struct {
	showVersion bool
	configFile  string
	envFile     string
}

// parseFlags parses args, consolidating short aliases into their long form
func parseFlags(args []string, output io.Writer) (cliFlags, error) {
	var f cliFlags
	var versionAlias bool
	var configAlias string

	fs := flag.NewFlagSet("watchdogd", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.BoolVar(&f.showVersion, "version", false, "Print the build version and exit.")
	fs.BoolVar(&versionAlias, "v", false, "Alias for -version")
	fs.StringVar(&f.configFile, "config", "", "Path to a YAML/JSON configuration file. If not set, searches default locations.")
	fs.StringVar(&configAlias, "c", "", "Alias for -config")
	fs.StringVar(&f.envFile, "env-file", ".env", "Path to a .env file with WATCHDOGD_* overrides. Missing file is ignored.")

	if err := fs.Parse(args); err != nil {
		return cliFlags{}, err
	}

	if versionAlias {
		f.showVersion = true
	}
	if f.configFile == "" && configAlias != "" {
		f.configFile = configAlias
	}

	return f, nil
}
