package telemetry

import (
	"encoding/json"
	"sort"

	"github.com/pthm-cable/antcolony/genome"
)

// HallEntry is a worker genome that ranked among the best seen in a run.
type HallEntry struct {
	Generation    int            `json:"generation"`
	AntID         uint32         `json:"ant_id"`
	Fitness       float64        `json:"fitness"`
	MulchConsumed int            `json:"mulch_consumed"`
	Genome        *genome.Genome `json:"genome"`
}

// HallOfFame keeps the highest-fitness worker genomes across generations,
// sorted descending by fitness.
type HallOfFame struct {
	entries []HallEntry
	maxSize int
}

// NewHallOfFame creates a hall holding at most maxSize entries.
func NewHallOfFame(maxSize int) *HallOfFame {
	return &HallOfFame{
		entries: make([]HallEntry, 0, maxSize),
		maxSize: maxSize,
	}
}

// Consider inserts entry if it ranks within the hall. The genome is cloned.
// Returns true if the entry was added.
func (hof *HallOfFame) Consider(entry HallEntry) bool {
	if hof.maxSize <= 0 {
		return false
	}

	// Find insertion point (sorted descending by fitness)
	idx := sort.Search(len(hof.entries), func(i int) bool {
		return hof.entries[i].Fitness < entry.Fitness
	})

	// If hall is full and entry would be last (lowest), skip it
	if len(hof.entries) >= hof.maxSize && idx >= hof.maxSize {
		return false
	}

	entry.Genome = entry.Genome.Clone()
	hof.entries = append(hof.entries, HallEntry{})
	copy(hof.entries[idx+1:], hof.entries[idx:])
	hof.entries[idx] = entry

	if len(hof.entries) > hof.maxSize {
		hof.entries = hof.entries[:hof.maxSize]
	}
	return true
}

// Entries returns the hall, best first.
func (hof *HallOfFame) Entries() []HallEntry {
	return hof.entries
}

// Size returns the number of entries.
func (hof *HallOfFame) Size() int {
	return len(hof.entries)
}

// TopFitness returns the highest fitness in the hall, or 0 if empty.
func (hof *HallOfFame) TopFitness() float64 {
	if len(hof.entries) == 0 {
		return 0
	}
	return hof.entries[0].Fitness
}

// MarshalJSON serializes the hall of fame to JSON.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(struct {
		Entries []HallEntry `json:"entries"`
	}{hof.entries}, "", "  ")
}
