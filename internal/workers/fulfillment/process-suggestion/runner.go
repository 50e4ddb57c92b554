package processsuggestion

import (
	"context"
	"time"

	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/common/metrics"
)

const outcomeError = "error"

// IterationRecorder receives one sample per poll iteration.
type IterationRecorder interface {
	RecordIteration(ctx context.Context, outcome string, d time.Duration)
}

// Runner polls the queue continuously until its context is cancelled.
type Runner struct {
	handler  *Handler
	idle     time.Duration
	recorder IterationRecorder
	logger   logger.Logger
}

func NewRunner(handler *Handler, recorder IterationRecorder, log logger.Logger) *Runner {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Runner{
		handler:  handler,
		idle:     handler.config.IdleInterval,
		recorder: recorder,
		logger:   log.WithFields(map[string]interface{}{"component": "suggestion-runner"}),
	}
}

// Run blocks until ctx is done. It backs off for the idle interval after an
// empty poll or a failed iteration.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("suggestion runner started", map[string]interface{}{"idleInterval": r.idle.String()})

	for {
		if err := ctx.Err(); err != nil {
			r.logger.Info("suggestion runner stopped", nil)
			return nil
		}

		outcome, err := r.Step(ctx)
		if err == nil && outcome != OutcomeNoWork {
			continue
		}
		if err != nil && ctx.Err() == nil {
			r.logger.Warn("poll iteration failed", map[string]interface{}{"error": err})
		}

		select {
		case <-ctx.Done():
		case <-time.After(r.idle):
		}
	}
}

// Step runs a single iteration and records its metrics.
func (r *Runner) Step(ctx context.Context) (Outcome, error) {
	start := time.Now()
	outcome, err := r.handler.ProcessOne(ctx)
	elapsed := time.Since(start)

	label := string(outcome)
	if err != nil {
		label = outcomeError
	}

	metrics.SuggestionOutcomes.WithLabelValues(label).Inc()
	metrics.SuggestionDuration.WithLabelValues(label).Observe(elapsed.Seconds())
	if r.recorder != nil {
		r.recorder.RecordIteration(ctx, label, elapsed)
	}
	return outcome, err
}
