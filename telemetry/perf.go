package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Phase names for the simulation step.
const (
	PhaseOccupancy = "occupancy"
	PhaseAgents    = "agents"
	PhaseSharing   = "sharing"
	PhaseStats     = "stats"
	PhaseTelemetry = "telemetry"
)

// Phases lists the tick phases in execution order.
var Phases = []string{PhaseOccupancy, PhaseAgents, PhaseSharing, PhaseStats, PhaseTelemetry}

// PerfCollector times ticks and their phases over a ring of the last
// windowSize ticks. Durations are kept in microseconds.
type PerfCollector struct {
	windowSize int
	next       int
	filled     int

	ticks  []float64            // Tick durations
	phases map[string][]float64 // Per-phase durations, same ring positions as ticks

	now        func() time.Time
	tickStart  time.Time
	phaseStart time.Time
	phase      string
	current    map[string]float64
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
// Sizes below 1 default to 60.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize: windowSize,
		now:        time.Now,
		ticks:      make([]float64, windowSize),
		phases:     make(map[string][]float64),
		current:    make(map[string]float64),
	}
}

// WindowSize returns the number of ticks averaged over.
func (p *PerfCollector) WindowSize() int {
	return p.windowSize
}

// StartTick begins timing a tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	p.phase = ""
	clear(p.current)
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := p.now()
	p.closePhase(now)
	p.phase = phase
	p.phaseStart = now
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase == "" {
		return
	}
	p.current[p.phase] += micros(now.Sub(p.phaseStart))
	p.phase = ""
}

// EndTick closes the tick and stores it in the ring.
func (p *PerfCollector) EndTick() {
	now := p.now()
	p.closePhase(now)

	slot := p.next
	p.ticks[slot] = micros(now.Sub(p.tickStart))
	for name := range p.current {
		if _, ok := p.phases[name]; !ok {
			p.phases[name] = make([]float64, p.windowSize)
		}
	}
	for name, ring := range p.phases {
		ring[slot] = p.current[name]
	}

	p.next = (p.next + 1) % p.windowSize
	p.filled = min(p.filled+1, p.windowSize)
}

// PerfStats summarises the collector window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration

	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64 // Share of the average tick, in percent

	TicksPerSecond float64
}

// Stats summarises the ticks currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg: make(map[string]time.Duration),
		PhasePct: make(map[string]float64),
	}
	if p.filled == 0 {
		return s
	}

	ticks := p.ticks[:p.filled]
	avg := stat.Mean(ticks, nil)

	sorted := make([]float64, len(ticks))
	copy(sorted, ticks)
	sort.Float64s(sorted)

	s.AvgTickDuration = fromMicros(avg)
	s.MinTickDuration = fromMicros(floats.Min(ticks))
	s.MaxTickDuration = fromMicros(floats.Max(ticks))
	s.P95TickDuration = fromMicros(Percentile(sorted, 0.95))
	if avg > 0 {
		s.TicksPerSecond = 1e6 / avg
	}

	for name, ring := range p.phases {
		phaseAvg := stat.Mean(ring[:p.filled], nil)
		s.PhaseAvg[name] = fromMicros(phaseAvg)
		if avg > 0 {
			s.PhasePct[name] = phaseAvg / avg * 100
		}
	}

	return s
}

func micros(d time.Duration) float64 {
	return float64(d) / float64(time.Microsecond)
}

func fromMicros(us float64) time.Duration {
	return time.Duration(us * float64(time.Microsecond))
}

// LogStats logs the summary at info level. Phases under 0.1% are omitted.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"p95_tick_us", s.P95TickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	for _, phase := range Phases {
		if pct := s.PhasePct[phase]; pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd    int     `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	P95TickUS    int64   `csv:"p95_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	OccupancyPct float64 `csv:"occupancy_pct"`
	AgentsPct    float64 `csv:"agents_pct"`
	SharingPct   float64 `csv:"sharing_pct"`
	StatsPct     float64 `csv:"stats_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the summary for the window ending at step windowEnd.
func (s PerfStats) ToCSV(windowEnd int) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		P95TickUS:    s.P95TickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		OccupancyPct: s.PhasePct[PhaseOccupancy],
		AgentsPct:    s.PhasePct[PhaseAgents],
		SharingPct:   s.PhasePct[PhaseSharing],
		StatsPct:     s.PhasePct[PhaseStats],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
