package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"TravelJournal/internal/cli/commands"
	"TravelJournal/internal/config"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	// env + флаги: адрес сервера и файл токена
	cfg := config.NewConfig()

	if cfg.Version {
		printVersion(cfg)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := commands.Dispatch(ctx, cfg, flag.Args())
	cancel()
	os.Exit(code)
}

func printVersion(cfg *config.Config) {
	fmt.Printf("TravelJournal CLI\nVersion: %s\nBuild date: %s\nServer: %s\n", version, buildDate, cfg.ServerURL)
}
