package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"skyfx/internal/config"
	"skyfx/internal/game"
)

var (
	configFlag = flag.String("config", "", "Config file (default: skyfx.yaml in . or the user config dir)")
	themeFlag  = flag.String("theme", "", "Override theme: auto, light, dark")
	seedFlag   = flag.Uint64("seed", 0, "Override RNG seed (0 keeps the configured one)")
)

func main() {
	flag.Parse()

	boot := slog.New(slog.NewTextHandler(os.Stderr, nil))
	loader := config.NewLoader(*configFlag, boot)
	cfg, err := loader.Load()
	if err != nil {
		boot.Error("config load failed, using defaults", "err", err)
		cfg = config.Default()
	}
	if *themeFlag != "" {
		cfg.Theme = *themeFlag
	}
	if *seedFlag != 0 {
		cfg.Seed = *seedFlag
	}

	log := newLogger(cfg.Log)
	slog.SetDefault(log)

	if err := game.RunDesktop(cfg, loader, log); err != nil {
		fmt.Fprintf(os.Stderr, "skyfx: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(c config.Log) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
