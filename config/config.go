// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalidConfig is returned by Validate for out-of-range parameters.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	Seed      int64           `yaml:"seed"`
	World     WorldConfig     `yaml:"world"`
	Colony    ColonyConfig    `yaml:"colony"`
	Timing    TimingConfig    `yaml:"timing"`
	Evolution EvolutionConfig `yaml:"evolution"`
	Fitness   FitnessConfig   `yaml:"fitness"`
	Pheromone PheromoneConfig `yaml:"pheromone"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds voxel world dimensions and terrain features.
// The world is ChunksXZ*ChunkSize blocks wide and ChunksY*ChunkSize tall.
type WorldConfig struct {
	ChunksXZ         int     `yaml:"chunks_xz"`
	ChunksY          int     `yaml:"chunks_y"`
	ChunkSize        int     `yaml:"chunk_size"`
	AcidicRegions    int     `yaml:"acidic_regions"`
	AcidicRadius     int     `yaml:"acidic_radius"`
	ContainerSpheres int     `yaml:"container_spheres"`
	ContainerRadius  int     `yaml:"container_radius"`
	NoiseScale       float64 `yaml:"noise_scale"`  // Heightmap base frequency
	NoiseOctaves     int     `yaml:"noise_octaves"` // FBM octaves
	MulchDepth       int     `yaml:"mulch_depth"`   // Mulch layers under the surface
}

// ColonyConfig holds ant health and population parameters.
type ColonyConfig struct {
	WorkerCount       int     `yaml:"worker_count"`
	WorkerMaxHealth   float64 `yaml:"worker_max_health"`
	QueenMaxHealth    float64 `yaml:"queen_max_health"`
	HealthDrain       float64 `yaml:"health_drain"`        // Health lost per tick (doubled on acidic ground)
	MulchHealthGain   float64 `yaml:"mulch_health_gain"`   // Health restored by one mulch block
	HealthShareAmount float64 `yaml:"health_share_amount"` // Max health moved per shared cell per tick
}

// TimingConfig holds tick and generation durations in simulated seconds.
type TimingConfig struct {
	TickInterval       float64 `yaml:"tick_interval"`
	EvaluationDuration float64 `yaml:"evaluation_duration"`
}

// EvolutionConfig holds genetic algorithm parameters.
type EvolutionConfig struct {
	EliteCount        int     `yaml:"elite_count"`
	MutationRate      float64 `yaml:"mutation_rate"`      // Per-weight mutation probability
	MutationMagnitude float64 `yaml:"mutation_magnitude"` // Max absolute delta per mutation
}

// FitnessConfig holds fitness bonuses.
type FitnessConfig struct {
	MulchBonus float64 `yaml:"mulch_bonus"`
	NestBonus  float64 `yaml:"nest_bonus"` // Queen only
}

// PheromoneConfig holds pheromone field parameters.
type PheromoneConfig struct {
	Deposit   float64 `yaml:"deposit"`
	Max       float64 `yaml:"max"`
	Decay     float64 `yaml:"decay"`
	Bias      float64 `yaml:"bias"`      // Movement weight multiplier per unit of pheromone
	Diffusion float64 `yaml:"diffusion"` // Blend factor toward neighbourhood mean
}

// TelemetryConfig holds metrics and history parameters.
type TelemetryConfig struct {
	Enabled        bool `yaml:"enabled"`
	SampleInterval int  `yaml:"sample_interval"` // Deliver every N tick records
	HistoryLength  int  `yaml:"history_length"`
	PerfWindow     int  `yaml:"perf_window"`       // Ticks per perf log (0 disables)
	HallOfFameSize int  `yaml:"hall_of_fame_size"` // Best worker genomes kept across generations
	Snapshots      bool `yaml:"snapshots"`         // Save population_gen_<n>.json each generation
}

// DerivedConfig holds values computed from other config values.
type DerivedConfig struct {
	SizeX, SizeY, SizeZ int
	EliteCount          int // Clamped to [1, worker_count]
	TicksPerGeneration  int
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ComputeDerived()

	return cfg, nil
}

// Validate checks parameter ranges.
func (c *Config) Validate() error {
	switch {
	case c.World.ChunksXZ <= 0 || c.World.ChunksY <= 0 || c.World.ChunkSize <= 0:
		return fmt.Errorf("world dimensions must be positive: %w", ErrInvalidConfig)
	case c.Colony.WorkerCount <= 0:
		return fmt.Errorf("colony.worker_count must be positive, got %d: %w", c.Colony.WorkerCount, ErrInvalidConfig)
	case c.Colony.WorkerMaxHealth <= 0 || c.Colony.QueenMaxHealth <= 0:
		return fmt.Errorf("max health must be positive: %w", ErrInvalidConfig)
	case c.Colony.HealthDrain < 0 || c.Colony.MulchHealthGain < 0 || c.Colony.HealthShareAmount < 0:
		return fmt.Errorf("colony rates must be non-negative: %w", ErrInvalidConfig)
	case c.Timing.TickInterval <= 0:
		return fmt.Errorf("timing.tick_interval must be positive: %w", ErrInvalidConfig)
	case c.Timing.EvaluationDuration <= 0:
		return fmt.Errorf("timing.evaluation_duration must be positive: %w", ErrInvalidConfig)
	case c.Evolution.MutationRate < 0 || c.Evolution.MutationRate > 1:
		return fmt.Errorf("evolution.mutation_rate must be in [0,1], got %v: %w", c.Evolution.MutationRate, ErrInvalidConfig)
	case c.Evolution.MutationMagnitude < 0:
		return fmt.Errorf("evolution.mutation_magnitude must be non-negative: %w", ErrInvalidConfig)
	case c.Pheromone.Max <= 0:
		return fmt.Errorf("pheromone.max must be positive: %w", ErrInvalidConfig)
	case c.Pheromone.Deposit < 0 || c.Pheromone.Decay < 0 || c.Pheromone.Bias < 0:
		return fmt.Errorf("pheromone rates must be non-negative: %w", ErrInvalidConfig)
	case c.Pheromone.Diffusion < 0 || c.Pheromone.Diffusion > 1:
		return fmt.Errorf("pheromone.diffusion must be in [0,1]: %w", ErrInvalidConfig)
	}
	return nil
}

// ComputeDerived calculates values derived from loaded config.
// Call again after changing config fields programmatically.
func (c *Config) ComputeDerived() {
	c.Derived.SizeX = c.World.ChunksXZ * c.World.ChunkSize
	c.Derived.SizeY = c.World.ChunksY * c.World.ChunkSize
	c.Derived.SizeZ = c.World.ChunksXZ * c.World.ChunkSize

	elite := c.Evolution.EliteCount
	if elite < 1 {
		elite = 1
	}
	if elite > c.Colony.WorkerCount {
		elite = c.Colony.WorkerCount
	}
	c.Derived.EliteCount = elite

	ticks := int(c.Timing.EvaluationDuration / c.Timing.TickInterval)
	if ticks < 1 {
		ticks = 1
	}
	c.Derived.TicksPerGeneration = ticks

	if c.Telemetry.SampleInterval < 1 {
		c.Telemetry.SampleInterval = 1
	}
	if c.Telemetry.HistoryLength < 1 {
		c.Telemetry.HistoryLength = 1
	}
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
