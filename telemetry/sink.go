// Package telemetry records colony metrics: tick and generation records,
// the sinks they flow to, and run artefacts such as snapshots.
package telemetry

import (
	"errors"
	"log/slog"
)

// Sink receives summary records from the simulation. Delivery is
// fire-and-forget: the simulation logs returned errors and carries on.
type Sink interface {
	RecordTick(r TickRecord) error
	RecordGeneration(r GenerationRecord) error
	Close() error
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordTick(TickRecord) error             { return nil }
func (Nop) RecordGeneration(GenerationRecord) error { return nil }
func (Nop) Close() error                            { return nil }

// Sampled forwards every interval-th tick record, counted by Step: a record
// passes when (Step-1) % interval == 0. Generation records always pass.
type Sampled struct {
	Sink
	interval int
}

// NewSampled wraps s. Intervals below 1 are treated as 1.
func NewSampled(s Sink, interval int) *Sampled {
	return &Sampled{Sink: s, interval: max(1, interval)}
}

// RecordTick implements Sink.
func (s *Sampled) RecordTick(r TickRecord) error {
	if (r.Step-1)%s.interval != 0 {
		return nil
	}
	return s.Sink.RecordTick(r)
}

// Multi fans records out to several sinks. Every sink sees every record;
// errors are joined.
type Multi []Sink

func (m Multi) RecordTick(r TickRecord) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.RecordTick(r))
	}
	return errors.Join(errs...)
}

func (m Multi) RecordGeneration(r GenerationRecord) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.RecordGeneration(r))
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}

// LogSink writes records through slog. Tick records go out at debug level.
type LogSink struct {
	Logger *slog.Logger
}

func (l LogSink) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}

func (l LogSink) RecordTick(r TickRecord) error {
	l.logger().Debug("tick", "stats", r)
	return nil
}

func (l LogSink) RecordGeneration(r GenerationRecord) error {
	l.logger().Info("generation", "stats", r)
	return nil
}

func (LogSink) Close() error { return nil }
