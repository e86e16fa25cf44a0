package tool

import (
	"flag"
	"os"

	"github.com/moyoez/http-file-store/types"
)

// SetFlags parses CLI flags and returns the override config.
func SetFlags() types.Config {
	cfg, err := ParseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	return cfg
}

// ParseFlags parses args into an override config. Short and long names share
// the same destination.
func ParseFlags(fs *flag.FlagSet, args []string) (types.Config, error) {
	var cfg types.Config
	fs.StringVar(&cfg.UseConfigPath, "config", "", "path to the JSON or YAML configuration file")
	fs.StringVar(&cfg.UseConfigPath, "c", "", "shorthand for --config")
	fs.IntVar(&cfg.UsePort, "port", 0, "port of the clear http server when the config has none (default 8091)")
	fs.IntVar(&cfg.UsePort, "p", 0, "shorthand for --port")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "enable debug logging")
	fs.BoolVar(&cfg.Verbose, "v", false, "shorthand for --verbose")
	fs.StringVar(&cfg.Log, "log", "", "log mode: dev|prod|none")
	fs.BoolVar(&cfg.ShowQR, "qr", false, "print a QR code of the service URL on startup")
	err := fs.Parse(args)
	return cfg, err
}
