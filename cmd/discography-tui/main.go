package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/handiism/discography/internal/config"
	"github.com/handiism/discography/internal/site"
	"github.com/handiism/discography/internal/tui"
)

func main() {
	var (
		configFlag = flag.String("config", "", "Path to config file")
		siteFlag   = flag.String("site", "", "Site base URL (overrides config)")
	)
	flag.Parse()

	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if *siteFlag != "" {
		settings.SiteURL = *siteFlag
	}

	// The alt screen owns the terminal; logs would corrupt it.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := site.New(settings, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := tui.Options{
		Source:     s.Repository,
		Covers:     s.Client,
		Classifier: s.Classifier,
	}
	if err := tui.Run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
