// Package main provides CMA-ES optimization for colony evolution parameters.
package main

import (
	"math"

	"github.com/pthm-cable/antcolony/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
	Integer bool    // Rounded before use
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Evolution
			{Name: "mutation_rate", Path: "evolution.mutation_rate", Min: 0.01, Max: 0.5, Default: 0.15},
			{Name: "mutation_magnitude", Path: "evolution.mutation_magnitude", Min: 0.05, Max: 1.0, Default: 0.4},
			{Name: "elite_count", Path: "evolution.elite_count", Min: 1, Max: 30, Default: 12, Integer: true},
			// Pheromone
			{Name: "pheromone_deposit", Path: "pheromone.deposit", Min: 0.05, Max: 1.0, Default: 0.2},
			{Name: "pheromone_decay", Path: "pheromone.decay", Min: 0.005, Max: 0.2, Default: 0.05},
			{Name: "pheromone_bias", Path: "pheromone.bias", Min: 0, Max: 3.0, Default: 1.2},
			{Name: "pheromone_diffusion", Path: "pheromone.diffusion", Min: 0, Max: 0.5, Default: 0.2},
			// Colony
			{Name: "health_share_amount", Path: "colony.health_share_amount", Min: 0, Max: 6.0, Default: 2.0},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp bounds every value and rounds integer parameters.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := math.Min(math.Max(v[i], spec.Min), spec.Max)
		if spec.Integer {
			val = math.Round(val)
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig writes parameter values into cfg and recomputes derived
// values. Order must match Specs.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	v := pv.Clamp(values)

	cfg.Evolution.MutationRate = v[0]
	cfg.Evolution.MutationMagnitude = v[1]
	cfg.Evolution.EliteCount = int(v[2])

	cfg.Pheromone.Deposit = v[3]
	cfg.Pheromone.Decay = v[4]
	cfg.Pheromone.Bias = v[5]
	cfg.Pheromone.Diffusion = v[6]

	cfg.Colony.HealthShareAmount = v[7]

	cfg.ComputeDerived()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Evolution.MutationRate,
		cfg.Evolution.MutationMagnitude,
		float64(cfg.Evolution.EliteCount),
		cfg.Pheromone.Deposit,
		cfg.Pheromone.Decay,
		cfg.Pheromone.Bias,
		cfg.Pheromone.Diffusion,
		cfg.Colony.HealthShareAmount,
	}
}
