package pipeline

import (
	"fmt"
	"log/slog"
	"time"
)

// Stage represents run progress
type Stage int

const (
	StageDiscovering Stage = iota
	StageAnalyzing
	StageAggregating
	StageCaching
	StageDone
)

var stageNames = [...]string{"discovering", "analyzing", "aggregating", "caching", "done"}

// String returns stage name
func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

type run struct {
	id      string
	stage   Stage
	entered time.Time
	logger  *slog.Logger
}

// advance moves run to the next stage, skipping or moving backward is rejected
func (r *run) advance(next Stage) error {
	if next != r.stage+1 {
		return fmt.Errorf("invalid stage transition %v -> %v", r.stage, next)
	}
	r.logger.Debug("analysis stage",
		slog.String("run", r.id),
		slog.String("from", r.stage.String()),
		slog.String("to", next.String()),
		slog.Duration("elapsed", time.Since(r.entered)))
	r.stage = next
	r.entered = time.Now()
	return nil
}

func newRun(id string, logger *slog.Logger) *run {
	return &run{id: id, stage: StageDiscovering, entered: time.Now(), logger: logger}
}
