package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/givechain/donation-middleware/pkg/app/api"
	"github.com/givechain/donation-middleware/pkg/config"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := api.NewServer(cfg).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Monitor exited with error: %v\n", err)
		os.Exit(1)
	}
}
