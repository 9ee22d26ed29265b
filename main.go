package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"TankDuel/internal/server"
)

func main() {
	configDir := flag.String("config", ".", "directory holding tankduel.cfg.json")
	addr := flag.String("addr", "", "address to listen on (e.g., 127.0.0.1:8080)")
	logLevel := flag.String("log-level", "", "override log level (debug, info, warn, error)")
	flag.Parse()

	var overrides server.AppOverrides
	if *addr != "" {
		overrides.Addr = addr
	}
	if *logLevel != "" {
		overrides.LogLevel = logLevel
	}

	cfg, err := server.ResolveConfig(*configDir, overrides)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.StartApp(ctx, cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
