package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"path/filepath"
	"syscall"

	"tonearm/internal/config"
	"tonearm/internal/daemon"
	"tonearm/internal/logging"
)

func main() {
	configFlag := flag.String("config", "", "configuration file path")
	levelFlag := flag.String("log-level", "", "override configured log level")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	level := cfg.Logging.Level
	if *levelFlag != "" {
		level = *levelFlag
	}
	logger, err := logging.New(logging.Options{
		Level:       level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stdout", filepath.Join(cfg.Paths.LogDir, "tonearmd.log")},
	})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	d, err := daemon.New(cfg, logger)
	if err != nil {
		log.Fatalf("create daemon: %v", err)
	}
	defer d.Close()

	if err := d.Run(ctx); err != nil {
		log.Fatalf("run daemon: %v", err)
	}
	logger.Info("tonearmd shutting down")
}
