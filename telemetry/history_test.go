package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistoryBounded(t *testing.T) {
	h := NewHistory(3)
	for i := 1; i <= 5; i++ {
		h.Append(float64(i))
	}
	assert.Equal(t, []float64{3, 4, 5}, h.Values())
	assert.Equal(t, 5.0, h.Last())
}

func TestHistoryMinimumLimit(t *testing.T) {
	h := NewHistory(0)
	h.Append(1)
	h.Append(2)
	assert.Equal(t, []float64{2}, h.Values())
}

func TestHistoriesRecord(t *testing.T) {
	h := NewHistories(10)
	h.RecordTick(TickRecord{QueenHealth: 100, AvgWorkerHealth: 20})
	h.RecordGeneration(GenerationRecord{BestFitness: 50, AvgFitness: 30, NestBlocks: 4})

	assert.Equal(t, 1, h.QueenHealth.Len())
	assert.Equal(t, 20.0, h.AvgWorkerHealth.Last())
	assert.Equal(t, 4.0, h.GenNestBlocks.Last())
	assert.Equal(t, 50.0, h.GenBestFitness.Last())
	assert.Equal(t, 30.0, h.GenAvgFitness.Last())
	assert.Equal(t, 0, NewHistory(2).Len())
}
