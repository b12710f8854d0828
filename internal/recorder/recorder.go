package recorder

import (
	"context"

	"github.com/wheelscreener/screener/internal/models"
)

// Recorder persists run snapshots to longer-term storage. Recording is
// best-effort: a failure is logged by the caller and never fails the run.
type Recorder interface {
	SaveRun(ctx context.Context, snap models.RunSnapshot) error
	Close() error
}

// Noop is used when no storage backend is configured.
type Noop struct{}

func (Noop) SaveRun(context.Context, models.RunSnapshot) error { return nil }
func (Noop) Close() error                                      { return nil }
