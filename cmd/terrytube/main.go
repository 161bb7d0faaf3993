package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"terrytube/pkg/kiosk"
	"terrytube/pkg/logging"
	"terrytube/pkg/runner"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	mode := flag.String("mode", "", "web or terminal (overrides config)")
	persona := flag.String("personality", "", "personality key (overrides config)")
	info := flag.Bool("info", false, "print backend availability and exit")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := kiosk.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if *mode != "" {
		cfg.Mode = *mode
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, "config:", err)
			os.Exit(1)
		}
	}
	if *persona != "" {
		cfg.Personality = *persona
	}

	logger := logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	engine, err := kiosk.NewEngine(cfg, kiosk.DefaultRegistry(), logger)
	if err != nil {
		logger.Error("engine init failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *info {
		fmt.Print(engine.Info(ctx))
		return
	}

	lifecycle := runner.NewLifecycleRunner(engine, runner.Hooks{
		OnStart: func() {
			go func() {
				if err := engine.Run(ctx); err != nil {
					logger.Error("engine stopped", slog.String("error", err.Error()))
					stop()
				}
			}()
		},
	}, 10*time.Second)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
