package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// TickRecord is the per-tick colony health sample.
type TickRecord struct {
	Step            int     `csv:"step" db:"step"`
	Generation      int     `csv:"generation" db:"generation"`
	TimeRemaining   float64 `csv:"time_remaining" db:"time_remaining"`
	QueenHealth     float64 `csv:"queen_health" db:"queen_health"`
	AvgWorkerHealth float64 `csv:"avg_worker_health" db:"avg_worker_health"`
	AliveCount      int     `csv:"alive_count" db:"alive_count"`
	NestBlocks      int     `csv:"nest_blocks" db:"nest_blocks"`
	MulchConsumed   int     `csv:"mulch_consumed" db:"mulch_consumed"`
}

// GenerationRecord summarises one completed evaluation window.
// Only the leading four columns go to CSV.
type GenerationRecord struct {
	Generation  int     `csv:"generation" db:"generation"`
	BestFitness float64 `csv:"best_fitness" db:"best_fitness"`
	AvgFitness  float64 `csv:"avg_fitness" db:"avg_fitness"`
	NestBlocks  int     `csv:"nest_blocks" db:"nest_blocks"`

	MedianFitness float64 `csv:"-" db:"median_fitness"`
	StdFitness    float64 `csv:"-" db:"std_fitness"`
	Survivors     int     `csv:"-" db:"survivors"`
}

// LogValue implements slog.LogValuer for structured logging.
func (r TickRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("step", r.Step),
		slog.Int("generation", r.Generation),
		slog.Float64("time_remaining", r.TimeRemaining),
		slog.Float64("queen_health", r.QueenHealth),
		slog.Float64("avg_worker_health", r.AvgWorkerHealth),
		slog.Int("alive", r.AliveCount),
		slog.Int("nest_blocks", r.NestBlocks),
		slog.Int("mulch_consumed", r.MulchConsumed),
	)
}

// LogValue implements slog.LogValuer for structured logging.
func (r GenerationRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", r.Generation),
		slog.Float64("best_fitness", r.BestFitness),
		slog.Float64("avg_fitness", r.AvgFitness),
		slog.Float64("median_fitness", r.MedianFitness),
		slog.Float64("std_fitness", r.StdFitness),
		slog.Int("nest_blocks", r.NestBlocks),
		slog.Int("survivors", r.Survivors),
	)
}

// FitnessSummary holds distribution statistics for a set of fitness values.
type FitnessSummary struct {
	Best   float64
	Mean   float64
	Median float64
	Std    float64
	N      int
}

// SummarizeFitness computes best, mean, median and population standard
// deviation. Empty input yields a zero summary.
func SummarizeFitness(values []float64) FitnessSummary {
	n := len(values)
	if n == 0 {
		return FitnessSummary{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	mean, variance := stat.PopMeanVariance(sorted, nil)
	return FitnessSummary{
		Best:   floats.Max(sorted),
		Mean:   mean,
		Median: Percentile(sorted, 0.5),
		Std:    math.Sqrt(variance),
		N:      n,
	}
}

// Percentile calculates the p-th percentile of a sorted slice using linear
// interpolation. p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}
