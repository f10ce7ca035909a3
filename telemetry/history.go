package telemetry

// History is a bounded series that keeps the most recent values.
type History struct {
	values []float64
	limit  int
}

// NewHistory creates a history holding at most limit values (min 1).
func NewHistory(limit int) *History {
	limit = max(1, limit)
	return &History{
		values: make([]float64, 0, limit),
		limit:  limit,
	}
}

// Append adds v, dropping the oldest values beyond the limit.
func (h *History) Append(v float64) {
	if len(h.values) == h.limit {
		copy(h.values, h.values[1:])
		h.values = h.values[:h.limit-1]
	}
	h.values = append(h.values, v)
}

// Values returns the stored values oldest first. The slice is owned by h.
func (h *History) Values() []float64 {
	return h.values
}

// Len returns the number of stored values.
func (h *History) Len() int {
	return len(h.values)
}

// Last returns the newest value, or 0 if empty.
func (h *History) Last() float64 {
	if len(h.values) == 0 {
		return 0
	}
	return h.values[len(h.values)-1]
}

// Histories groups the per-generation and per-tick series a run tracks.
type Histories struct {
	GenNestBlocks   *History
	GenBestFitness  *History
	GenAvgFitness   *History
	QueenHealth     *History
	AvgWorkerHealth *History
}

// NewHistories creates all series with the same limit.
func NewHistories(limit int) *Histories {
	return &Histories{
		GenNestBlocks:   NewHistory(limit),
		GenBestFitness:  NewHistory(limit),
		GenAvgFitness:   NewHistory(limit),
		QueenHealth:     NewHistory(limit),
		AvgWorkerHealth: NewHistory(limit),
	}
}

// RecordTick appends the per-tick series.
func (h *Histories) RecordTick(r TickRecord) {
	h.QueenHealth.Append(r.QueenHealth)
	h.AvgWorkerHealth.Append(r.AvgWorkerHealth)
}

// RecordGeneration appends the per-generation series.
func (h *Histories) RecordGeneration(r GenerationRecord) {
	h.GenNestBlocks.Append(float64(r.NestBlocks))
	h.GenBestFitness.Append(r.BestFitness)
	h.GenAvgFitness.Append(r.AvgFitness)
}
