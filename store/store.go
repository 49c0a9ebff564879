// Package store persists the history of pipeline runs.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/YuminosukeSato/houseprice/metrics"
)

// Run is the record of one pipeline invocation.
type Run struct {
	ID        string
	CreatedAt time.Time

	DataPath     string
	LearningRate float64
	Epochs       int
	TrainRatio   float64
	StrictPrice  bool

	Retained     int
	Dropped      int
	TrainSamples int
	TestSamples  int

	Weights []float64
	Mean    []float64
	Std     []float64

	Metrics metrics.Report
}

// NewRun returns a Run with a fresh identifier and the current time.
func NewRun() *Run {
	return &Run{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
}

// RunStore saves and queries runs.
type RunStore interface {
	SaveRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id string) (*Run, error)
	// ListRuns returns up to limit runs, newest first. A non-positive limit
	// returns every run.
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
	Close() error
}
