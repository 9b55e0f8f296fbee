package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

// Flags holds parsed command-line flags.
type Flags struct {
	// Commands
	Help    bool
	Version bool

	// Core
	Network string
	DataDir string
	Config  string

	// Metrics
	Metrics     bool
	MetricsAddr string

	// Logging
	LogLevel string
	LogFile  string
	LogJSON  bool

	// Remaining args (subcommand and its arguments)
	Args []string

	// Explicitly-set bool flags (for true/false overrides).
	SetMetrics bool
	SetLogJSON bool
}

// ParseFlags parses command-line flags.
func ParseFlags() (*Flags, error) {
	f := &Flags{}
	fs := flag.NewFlagSet("namesd", flag.ContinueOnError)

	// Commands
	fs.BoolVar(&f.Help, "help", false, "Show help message")
	fs.BoolVar(&f.Help, "h", false, "Show help message (shorthand)")
	fs.BoolVar(&f.Version, "version", false, "Show version information")

	// Core
	fs.StringVar(&f.Network, "network", "", "Network type (mainnet, testnet or regtest)")
	fs.StringVar(&f.DataDir, "datadir", "", "Data directory path")
	fs.StringVar(&f.Config, "config", "", "Config file path")
	fs.StringVar(&f.Config, "c", "", "Config file path (shorthand)")

	// Metrics
	fs.BoolVar(&f.Metrics, "metrics", false, "Enable the Prometheus metrics endpoint")
	fs.StringVar(&f.MetricsAddr, "metrics-addr", "", "Metrics listen address")

	// Logging
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFile, "log-file", "", "Log file path")
	fs.BoolVar(&f.LogJSON, "log-json", false, "Output logs as JSON")

	fs.Usage = PrintUsage

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, err
	}

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "metrics":
			f.SetMetrics = true
		case "log-json":
			f.SetLogJSON = true
		}
	})

	f.Args = fs.Args()
	return f, nil
}

// Load builds the effective configuration: defaults for the selected
// network, overridden by the config file, overridden by flags.
func Load() (*Config, *Flags, error) {
	flags, err := ParseFlags()
	if err != nil {
		return nil, nil, err
	}

	network := Mainnet
	if flags.Network != "" {
		switch NetworkType(flags.Network) {
		case Mainnet, Testnet, Regtest:
			network = NetworkType(flags.Network)
		default:
			return nil, nil, fmt.Errorf("unknown network %q", flags.Network)
		}
	}

	cfg := Default(network)
	if flags.DataDir != "" {
		cfg.DataDir = flags.DataDir
	}

	// Config file: explicit path, or <datadir>/names.conf if present.
	path := flags.Config
	if path == "" {
		candidate := filepath.Join(cfg.DataDir, "names.conf")
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}
	if path != "" {
		values, err := LoadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := ApplyFileConfig(cfg, values); err != nil {
			return nil, nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	// Flags win over the file.
	if flags.SetMetrics {
		cfg.Metrics.Enabled = flags.Metrics
	}
	if flags.MetricsAddr != "" {
		cfg.Metrics.Addr = flags.MetricsAddr
	}
	if flags.LogLevel != "" {
		cfg.Log.Level = flags.LogLevel
	}
	if flags.LogFile != "" {
		cfg.Log.File = flags.LogFile
	}
	if flags.SetLogJSON {
		cfg.Log.JSON = flags.LogJSON
	}

	return cfg, flags, nil
}

// PrintUsage writes the command-line help text to stderr.
func PrintUsage() {
	fmt.Fprintf(os.Stderr, `namesd - Klingnet naming layer

Usage:
  namesd [flags] <command> [args]

Commands:
  hash <name>        Print the canonical name hash of a label
  phase <name> [height]  Show a name's lifecycle phase at a height
  show <name>        Print a name's full recorded state
  proof <name>       Print a tree inclusion proof for a name
  root               Print the latest committed tree root
  stats              Summarize the name index
  serve              Run the index with the metrics endpoint

Flags:
  --network=<net>        mainnet, testnet or regtest (default mainnet)
  --datadir=<path>       Data directory
  --config=<path>        Config file (.conf, key = value)
  --metrics              Enable the Prometheus metrics endpoint
  --metrics-addr=<addr>  Metrics listen address
  --log-level=<level>    debug, info, warn or error
  --log-file=<path>      Also write JSON logs to a file
  --log-json             Log JSON to stdout
  --help                 Show this message
  --version              Show version
`)
}
