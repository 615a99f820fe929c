package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/groundstation/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   websocket URL of the station server
//	-t int      request timeout in seconds
//
// Args are filtered through flagx.FilterArgs so flags owned by other
// components are left alone.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "websocket URL of the station server")
	timeoutS := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeoutS) * time.Second
}
