package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/clouddrive/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the identity provider
//	-s string   base endpoint of the S3-compatible storage
//	-b string   storage bucket name
//	-t int      temporary link TTL in seconds
//	-l int      listing limit (objects per refresh)
//	-w int      concurrent link-generation requests per refresh
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-b", "-t", "-l", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.AuthBaseURL, "a", cfg.AuthBaseURL, "base URL of the identity provider")
	fs.StringVar(&cfg.S3BaseEndpoint, "s", cfg.S3BaseEndpoint, "base endpoint of the S3-compatible storage")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "storage bucket name")
	linkTTL := fs.Int("t", int(cfg.LinkTTL.Seconds()), "temporary link TTL (in seconds)")
	fs.IntVar(&cfg.ListLimit, "l", cfg.ListLimit, "listing limit")
	fs.IntVar(&cfg.LinkWorkers, "w", cfg.LinkWorkers, "concurrent link-generation requests")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.LinkTTL = time.Duration(*linkTTL) * time.Second
}
