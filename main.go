package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/pthm-cable/antcolony/config"
	"github.com/pthm-cable/antcolony/game"
	"github.com/pthm-cable/antcolony/telemetry"
)

// latestFile names the pointer to the most recent run directory.
const latestFile = "latest.txt"

type runOptions struct {
	configPath  string
	seed        int64
	outputDir   string
	sqlitePath  string
	generations int
	resume      string
	logStats    bool
}

func main() {
	// CLI flags
	var opts runOptions
	flag.StringVar(&opts.configPath, "config", "", "Path to config.yaml (empty = use defaults)")
	flag.Int64Var(&opts.seed, "seed", 0, "RNG seed (0 = use config)")
	flag.StringVar(&opts.outputDir, "output-dir", "", "Base directory for run output; each run gets a run_<timestamp> folder")
	flag.StringVar(&opts.sqlitePath, "sqlite", "", "SQLite database for metrics (empty = disabled)")
	flag.IntVar(&opts.generations, "generations", 0, "Stop after N generations (0 = until interrupted)")
	flag.StringVar(&opts.resume, "resume", "", "Population snapshot to resume from")
	flag.BoolVar(&opts.logStats, "log-stats", false, "Output tick records and perf stats via slog")
	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if opts.logStats {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(opts); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(opts runOptions) error {
	// Initialize config before anything else
	if err := config.Init(opts.configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := config.Cfg()
	if opts.seed != 0 {
		cfg.Seed = opts.seed
	}

	runID := uuid.NewString()
	gameOpts := game.Options{
		RunID:    runID,
		LogStats: opts.logStats,
	}

	if opts.resume != "" {
		snap, err := telemetry.LoadSnapshot(opts.resume)
		if err != nil {
			return fmt.Errorf("resuming: %w", err)
		}
		gameOpts.Population = snap.Population
		gameOpts.Generation = snap.Generation
		slog.Info("resuming from snapshot", "path", opts.resume, "generation", snap.Generation, "from_run", snap.RunID)
	}

	runDir, err := makeRunDir(opts.outputDir)
	if err != nil {
		return err
	}
	om, err := telemetry.NewOutputManager(runDir)
	if err != nil {
		return err
	}
	if om != nil {
		if err := om.WriteConfig(cfg); err != nil {
			om.Close()
			return err
		}
		gameOpts.Output = om
		if cfg.Telemetry.Snapshots {
			gameOpts.SnapshotDir = filepath.Join(runDir, "snapshots")
		}
	}

	sink, err := buildSink(cfg, opts, om, runID)
	if err != nil {
		om.Close()
		return err
	}
	if !cfg.Telemetry.Enabled {
		// Otherwise the sink owns the CSV files.
		defer om.Close()
	}

	slog.Info("starting headless simulation",
		"run_id", runID,
		"seed", cfg.Seed,
		"workers", cfg.Colony.WorkerCount,
		"ticks_per_generation", cfg.Derived.TicksPerGeneration,
		"generations", opts.generations,
		"output", runDir,
	)

	g := game.NewGame(cfg, game.NewWorld(cfg), sink, gameOpts)
	defer func() {
		if err := g.Close(); err != nil {
			slog.Error("failed to close metrics", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = g.RunHeadless(ctx, opts.generations)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if err := om.WriteHallOfFame(g.HallOfFame()); err != nil {
		slog.Error("failed to write hall of fame", "error", err)
	}

	best := g.BestEver()
	slog.Info("simulation finished",
		"generation", g.Generation(),
		"steps", g.Steps(),
		"best_fitness", best.BestFitness,
		"best_avg_fitness", best.AvgFitness,
		"best_nest_blocks", best.NestBlocks,
	)
	return nil
}

// makeRunDir creates a timestamped run folder under base and points
// latest.txt at it. An empty base disables file output.
func makeRunDir(base string) (string, error) {
	if base == "" {
		return "", nil
	}
	name := "run_" + time.Now().Format("20060102_150405")
	dir := filepath.Join(base, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating run directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(base, latestFile), []byte(name+"\n"), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", latestFile, err)
	}
	return dir, nil
}

// buildSink assembles the enabled metrics sinks behind the sampling stride.
func buildSink(cfg *config.Config, opts runOptions, om *telemetry.OutputManager, runID string) (telemetry.Sink, error) {
	if !cfg.Telemetry.Enabled {
		return telemetry.Nop{}, nil
	}

	var sinks telemetry.Multi
	if om != nil {
		sinks = append(sinks, om)
	}
	if opts.sqlitePath != "" {
		db, err := telemetry.OpenSQLite(opts.sqlitePath, runID, cfg.Seed)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, db)
	}
	if opts.logStats {
		sinks = append(sinks, telemetry.LogSink{})
	}
	return telemetry.NewSampled(sinks, cfg.Telemetry.SampleInterval), nil
}
