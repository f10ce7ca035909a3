package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock only moves when advanced.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestCollector(window int) (*PerfCollector, *fakeClock) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	pc := NewPerfCollector(window)
	pc.now = clk.now
	return pc, clk
}

// runTicks times n ticks, spending d in each named phase.
func runTicks(pc *PerfCollector, clk *fakeClock, n int, phases map[string]time.Duration) {
	for range n {
		pc.StartTick()
		for _, name := range Phases {
			d, ok := phases[name]
			if !ok {
				continue
			}
			pc.StartPhase(name)
			clk.t = clk.t.Add(d)
		}
		pc.EndTick()
	}
}

func TestPerfCollectorTimesPhases(t *testing.T) {
	pc, clk := newTestCollector(10)
	runTicks(pc, clk, 5, map[string]time.Duration{
		PhaseOccupancy: 50 * time.Microsecond,
		PhaseAgents:    500 * time.Microsecond,
	})

	stats := pc.Stats()
	assert.Equal(t, 550*time.Microsecond, stats.AvgTickDuration)
	assert.Equal(t, 550*time.Microsecond, stats.MaxTickDuration)
	assert.InDelta(t, 1e6/550.0, stats.TicksPerSecond, 1e-6)

	require.Contains(t, stats.PhaseAvg, PhaseOccupancy)
	require.Contains(t, stats.PhaseAvg, PhaseAgents)
	assert.NotContains(t, stats.PhaseAvg, PhaseSharing)
	assert.Equal(t, 500*time.Microsecond, stats.PhaseAvg[PhaseAgents])
	assert.InDelta(t, 100.0*500/550, stats.PhasePct[PhaseAgents], 1e-9)
	assert.InDelta(t, 100.0*50/550, stats.PhasePct[PhaseOccupancy], 1e-9)
}

func TestPerfCollectorWindowWraps(t *testing.T) {
	pc, clk := newTestCollector(3)
	runTicks(pc, clk, 3, map[string]time.Duration{PhaseAgents: 2 * time.Millisecond})
	slow := pc.Stats().AvgTickDuration

	// Fast ticks push every slow one out of the ring.
	runTicks(pc, clk, 3, map[string]time.Duration{PhaseOccupancy: 10 * time.Microsecond})
	fast := pc.Stats()

	assert.Less(t, fast.AvgTickDuration, slow)
	assert.Equal(t, 0.0, fast.PhasePct[PhaseAgents])
}

func TestPerfCollectorEmpty(t *testing.T) {
	stats := NewPerfCollector(0).Stats()

	assert.Zero(t, stats.AvgTickDuration)
	assert.Zero(t, stats.TicksPerSecond)
	assert.NotNil(t, stats.PhaseAvg)
	assert.NotNil(t, stats.PhasePct)
	assert.Equal(t, 60, NewPerfCollector(0).WindowSize())
}

func TestPerfStatsToCSV(t *testing.T) {
	pc, clk := newTestCollector(4)
	runTicks(pc, clk, 3, map[string]time.Duration{
		PhaseOccupancy: 20 * time.Microsecond,
		PhaseAgents:    50 * time.Microsecond,
	})

	row := pc.Stats().ToCSV(120)
	assert.Equal(t, 120, row.WindowEnd)
	assert.Positive(t, row.AgentsPct)
	assert.Positive(t, row.OccupancyPct)
	assert.Zero(t, row.SharingPct)
}
