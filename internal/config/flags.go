package config

import (
	"flag"
	"os"
	"time"

	"github.com/akarpov87/vsnap/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   application data directory (default: platform-specific)
//	-t int      remote connect timeout in seconds
//	-b int      batch size for bulk remote operations
//	-no-auto    disable auto-connect on startup
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-t", "-b", "-no-auto"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "application data directory")
	connectTimeout := fs.Int("t", int(cfg.ConnectTimeout.Seconds()), "remote connect timeout (in seconds)")
	fs.IntVar(&cfg.BatchSize, "b", cfg.BatchSize, "batch size for bulk remote operations")
	noAuto := fs.Bool("no-auto", !cfg.AutoConnect, "disable auto-connect on startup")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.ConnectTimeout = time.Duration(*connectTimeout) * time.Second
	cfg.AutoConnect = !*noAuto
}
