package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/pthm-cable/meadow/config"
	"github.com/pthm-cable/meadow/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in ticks (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, metrics and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = use config)")
	steps := flag.Int("steps", game.LongSimulationSteps, "Number of ticks to run while the field is viable")
	statusEvery := flag.Int("status-every", 0, "Log a census every N ticks (0 = off)")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	opts := game.OptionsFromConfig(cfg)
	if *seed != 0 {
		opts.Seed = *seed
	}
	if *statsWindow > 0 {
		opts.StatsWindow = *statsWindow
	}
	opts.LogStats = *logStats
	opts.OutputDir = *outputDir

	sim, err := game.New(opts)
	if err != nil {
		slog.Error("failed to create simulator", "error", err)
		os.Exit(1)
	}
	sim.AddViewer(game.LogViewer{Every: *statusEvery})

	slog.Info("starting simulation",
		"seed", opts.Seed,
		"depth", opts.Depth,
		"width", opts.Width,
		"steps", *steps,
		"stats_window", opts.StatsWindow,
	)

	ran := sim.Simulate(*steps)
	snap := sim.Snapshot()
	slog.Info("simulation finished",
		"ticks", ran,
		"viable", sim.IsViable(),
		"census", snap.Census,
	)

	if err := sim.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
		os.Exit(1)
	}
}
