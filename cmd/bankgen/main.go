package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"bankgen/internal/config"
	"bankgen/internal/runner"
	"bankgen/internal/util"

	"gopkg.in/yaml.v3"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	seed := flag.Int64("seed", 0, "override the random seed (0 keeps the config value)")
	skipTrans := flag.Bool("skip-transactions", false, "skip transaction simulation")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *skipTrans {
		cfg.SkipTransactions = true
	}
	if *verbose {
		cfg.Logging.Verbose = true
	}
	util.SetVerbose(cfg.Logging.Verbose)

	util.Infof("starting bankgen")
	if data, err := yaml.Marshal(&cfg); err == nil {
		util.Highlightf("config:\n%s", string(data))
	}

	r, err := runner.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize run: %v\n", err)
		os.Exit(1)
	}
	if err := r.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "run failed: %v\n", err)
		os.Exit(1)
	}
}
