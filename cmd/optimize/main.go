// Package main provides CMA-ES optimization for finding GA and pheromone
// parameters that evolve productive colonies.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/antcolony/config"
)

// EvalRecord is one optimize_log.csv row. Parameter columns follow
// NewParamVector order.
type EvalRecord struct {
	Eval              int     `csv:"eval"`
	Fitness           float64 `csv:"fitness"`
	NestBlocks        float64 `csv:"nest_blocks"`
	MutationRate      float64 `csv:"mutation_rate"`
	MutationMagnitude float64 `csv:"mutation_magnitude"`
	EliteCount        float64 `csv:"elite_count"`
	Deposit           float64 `csv:"pheromone_deposit"`
	Decay             float64 `csv:"pheromone_decay"`
	Bias              float64 `csv:"pheromone_bias"`
	Diffusion         float64 `csv:"pheromone_diffusion"`
	ShareAmount       float64 `csv:"health_share_amount"`
}

func newEvalRecord(eval int, fitness, nest float64, v []float64) EvalRecord {
	return EvalRecord{
		Eval: eval, Fitness: fitness, NestBlocks: nest,
		MutationRate: v[0], MutationMagnitude: v[1], EliteCount: v[2],
		Deposit: v[3], Decay: v[4], Bias: v[5], Diffusion: v[6],
		ShareAmount: v[7],
	}
}

// evalLog appends EvalRecords to a CSV file.
type evalLog struct {
	f       *os.File
	started bool
}

func (l *evalLog) write(r EvalRecord) error {
	rows := []EvalRecord{r}
	if !l.started {
		l.started = true
		return gocsv.Marshal(rows, l.f)
	}
	return gocsv.MarshalWithoutHeaders(rows, l.f)
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	generations := flag.Int("generations", 10, "Generations evolved per run")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}

	// Colonies log every generation; keep only problems.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}
	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()

	params := NewParamVector()
	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = baseCfg.Seed + int64(i)*1000
	}
	evaluator := NewFitnessEvaluator(params, *generations, evalSeeds, baseCfg)

	logFile, err := os.Create(filepath.Join(*outputDir, "optimize_log.csv"))
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()
	evals := &evalLog{f: logFile}

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(params.Dim())/2.0)
	}

	var (
		count       int
		bestFitness = 1e9
		bestParams  []float64
		start       = time.Now()
	)

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			values := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(values)
			nest := evaluator.LastNest()
			count++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = values
			}
			if err := evals.write(newEvalRecord(count, fitness, nest, values)); err != nil {
				log.Printf("failed to log evaluation %d: %v", count, err)
			}

			elapsed := time.Since(start)
			eta := time.Duration(*maxEvals-count) * (elapsed / time.Duration(count))
			fmt.Printf("Eval %d/%d: best_worker=%.2f nest=%.1f (best=%.2f) | elapsed: %s, ETA: %s\n",
				count, *maxEvals, -fitness, nest, -bestFitness,
				formatDuration(elapsed), formatDuration(eta))

			return fitness
		},
	}

	fmt.Printf("Starting CMA-ES over %d parameters, population=%d, max_evals=%d, seeds=%d, generations=%d\n",
		params.Dim(), popSize, *maxEvals, *seeds, *generations)

	result, err := optimize.Minimize(problem,
		params.Normalize(params.ExtractFromConfig(baseCfg)),
		&optimize.Settings{FuncEvaluations: *maxEvals},
		&optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize},
	)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}
	if bestParams == nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}

	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", count, formatDuration(time.Since(start)))
	fmt.Printf("Best mean worker fitness: %.4f\n\nBest parameters:\n", -bestFitness)
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Path, bestParams[i])
	}

	writeResults(*outputDir, baseCfg, params, bestParams, evaluator)
}

// writeResults saves the best config and the hall of fame of the best run.
func writeResults(dir string, base *config.Config, params *ParamVector, best []float64, fe *FitnessEvaluator) {
	bestCfg := base.Clone()
	params.ApplyToConfig(bestCfg, best)

	cfgPath := filepath.Join(dir, "best_config.yaml")
	if err := bestCfg.WriteYAML(cfgPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", cfgPath)
	}

	hof := fe.BestHallOfFame()
	if hof == nil {
		return
	}
	data, err := json.MarshalIndent(hof, "", "  ")
	if err != nil {
		log.Printf("failed to marshal hall of fame: %v", err)
		return
	}
	hofPath := filepath.Join(dir, "hall_of_fame.json")
	if err := os.WriteFile(hofPath, data, 0644); err != nil {
		log.Printf("failed to write hall of fame: %v", err)
		return
	}
	fmt.Printf("Hall of fame saved to: %s\n", hofPath)
}
