package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthReceive(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		amount float64
		want   float64
	}{
		{"below max", 10, 5, 15},
		{"capped at max", 38, 5, 40},
		{"non-positive ignored", 10, -3, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Health{Value: tt.value, Max: 40}
			h.Receive(tt.amount)
			assert.Equal(t, tt.want, h.Value)
		})
	}
}

func TestHealthGive(t *testing.T) {
	tests := []struct {
		name      string
		value     float64
		amount    float64
		wantGiven float64
	}{
		{"partial", 10, 3, 3},
		{"capped by health", 2, 5, 2},
		{"dead gives nothing", 0, 5, 0},
		{"negative request", 10, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Health{Value: tt.value, Max: 40}
			given := h.Give(tt.amount)
			assert.Equal(t, tt.wantGiven, given)
			assert.LessOrEqual(t, given, max(0, min(tt.amount, tt.value)))
			assert.Equal(t, tt.value-given, h.Value)
		})
	}
}

func TestDrainFloorsAtZero(t *testing.T) {
	h := Health{Value: 0.3, Max: 40}
	h.Drain(0.8)
	assert.Equal(t, 0.0, h.Value)
	assert.False(t, h.Alive())
}

func TestUpdateFitness(t *testing.T) {
	worker := Ant{Role: Worker, MulchConsumed: 3, NestBuilt: 2}
	worker.UpdateFitness(20, 2, 12)
	assert.Equal(t, 26.0, worker.Fitness, "workers ignore nest bonus")

	queen := Ant{Role: Queen, MulchConsumed: 1, NestBuilt: 2}
	queen.UpdateFitness(100, 2, 12)
	assert.Equal(t, 126.0, queen.Fitness)
}
