package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/groundstation/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   websocket bind address
//	-m string   metrics bind address
//	-d string   PostgreSQL DSN (empty selects the in-memory store)
//	-k string   JWT signing secret
//
// Args are filtered through flagx.FilterArgs so flags owned by other
// components are left alone.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-m", "-d", "-k"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&cfg.EndpointAddr, "a", cfg.EndpointAddr, "websocket bind address")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "metrics bind address")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "PostgreSQL DSN")
	fs.StringVar(&cfg.SecretKey, "k", cfg.SecretKey, "JWT signing secret")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
