package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/fauna/config"
	"github.com/pthm-cable/fauna/sim"
	"github.com/pthm-cable/fauna/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	preset := flag.String("preset", "", "Flocking preset name (empty = base flocking config)")
	ticks := flag.Int("ticks", 10000, "Number of simulation ticks")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based, overrides config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logStats := flag.Bool("log-stats", true, "Log window stats via slog")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *seed != 0 {
		cfg.Population.Seed = *seed
	} else if cfg.Population.Seed == 0 {
		cfg.Population.Seed = time.Now().UnixNano()
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	flock := cfg.Flocking
	if *preset != "" {
		p, err := cfg.Preset(*preset)
		if err != nil {
			slog.Error("unknown flocking preset", "preset", *preset, "error", err)
			os.Exit(1)
		}
		flock = p
	}

	var om *telemetry.OutputManager
	if *outputDir != "" {
		var err error
		om, err = telemetry.NewOutputManager(*outputDir)
		if err != nil {
			slog.Error("failed to create output dir", "error", err)
			os.Exit(1)
		}
		defer om.Close()

		if err := om.WriteConfig(cfg); err != nil {
			slog.Error("failed to snapshot config", "error", err)
			os.Exit(1)
		}
	}

	s, err := sim.New(cfg, flock)
	if err != nil {
		slog.Error("failed to build scenario", "error", err)
		os.Exit(1)
	}

	slog.Info("starting simulation",
		"seed", cfg.Population.Seed,
		"animals", cfg.Population.Animals,
		"predators", cfg.Population.Predators,
		"preset", *preset,
		"ticks", *ticks,
	)

	start := time.Now()
	err = s.Run(*ticks, func(stats telemetry.WindowStats) error {
		if *logStats {
			telemetry.LogWindow(stats)
		}
		if om != nil {
			return om.WriteWindow(stats)
		}
		return nil
	})
	if err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}

	slog.Info("simulation complete",
		"ticks", s.Tick(),
		"elapsed", time.Since(start).String(),
	)
}
