// Package cli holds flag parsing and console reporting for the
// reconciliation command.
package cli

import "flag"

// Options are the command-line options of the reconciliation run.
type Options struct {
	ConfigPath string
	DryRun     bool
	Days       int
	Verbose    bool
}

// ParseFlags parses command-line flags into Options.
func ParseFlags() Options {
	opts := Options{}
	flag.StringVar(&opts.ConfigPath, "config", "", "Path to YAML config file (falls back to environment)")
	flag.BoolVar(&opts.DryRun, "dry-run", false, "Run without pushing updates to the ledger")
	flag.IntVar(&opts.Days, "days", 0, "Number of days to look back (overrides config)")
	flag.BoolVar(&opts.Verbose, "verbose", false, "Enable debug logging")
	flag.Parse()
	return opts
}
