package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/antcolony/config"
)

// Output file names inside a run directory.
const (
	HealthMetricsFile     = "health_metrics.csv"
	GenerationMetricsFile = "generation_metrics.csv"
	PerfFile              = "perf.csv"
	HallOfFameFile        = "hall_of_fame.json"
	ConfigFile            = "config.yaml"
)

// OutputManager writes run output as CSV files in a single directory.
// It implements Sink.
type OutputManager struct {
	dir            string
	healthFile     *os.File
	generationFile *os.File
	perfFile       *os.File

	// Track if headers have been written
	healthHeaderWritten     bool
	generationHeaderWritten bool
	perfHeaderWritten       bool
}

// NewOutputManager creates dir and opens the CSV files.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	var err error
	if om.healthFile, err = os.Create(filepath.Join(dir, HealthMetricsFile)); err != nil {
		return nil, fmt.Errorf("creating %s: %w", HealthMetricsFile, err)
	}
	if om.generationFile, err = os.Create(filepath.Join(dir, GenerationMetricsFile)); err != nil {
		om.healthFile.Close()
		return nil, fmt.Errorf("creating %s: %w", GenerationMetricsFile, err)
	}
	if om.perfFile, err = os.Create(filepath.Join(dir, PerfFile)); err != nil {
		om.healthFile.Close()
		om.generationFile.Close()
		return nil, fmt.Errorf("creating %s: %w", PerfFile, err)
	}

	return om, nil
}

// writeRecords appends records to f, writing the header on first use.
func writeRecords[T any](f *os.File, headerWritten *bool, records []T) error {
	if !*headerWritten {
		if err := gocsv.Marshal(records, f); err != nil {
			return err
		}
		*headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, f)
}

// WriteConfig saves the effective configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, ConfigFile))
}

// RecordTick implements Sink.
func (om *OutputManager) RecordTick(r TickRecord) error {
	if om == nil {
		return nil
	}
	if err := writeRecords(om.healthFile, &om.healthHeaderWritten, []TickRecord{r}); err != nil {
		return fmt.Errorf("writing health metrics: %w", err)
	}
	return nil
}

// RecordGeneration implements Sink.
func (om *OutputManager) RecordGeneration(r GenerationRecord) error {
	if om == nil {
		return nil
	}
	if err := writeRecords(om.generationFile, &om.generationHeaderWritten, []GenerationRecord{r}); err != nil {
		return fmt.Errorf("writing generation metrics: %w", err)
	}
	return nil
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int) error {
	if om == nil {
		return nil
	}
	if err := writeRecords(om.perfFile, &om.perfHeaderWritten, []PerfStatsCSV{stats.ToCSV(windowEnd)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteHallOfFame saves the hall of fame as JSON.
func (om *OutputManager) WriteHallOfFame(hof *HallOfFame) error {
	if om == nil || hof == nil {
		return nil
	}

	data, err := hof.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshaling hall of fame: %w", err)
	}

	if err := os.WriteFile(filepath.Join(om.dir, HallOfFameFile), data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", HallOfFameFile, err)
	}

	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, f := range []*os.File{om.healthFile, om.generationFile, om.perfFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
