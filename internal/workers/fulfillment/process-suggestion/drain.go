package processsuggestion

import (
	"context"
	"time"

	apperrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// DrainTaskType is fired by a BPMN timer to empty the queue in batches.
const DrainTaskType = "dining-suggestions-drain"

// DrainHandler runs the worker from a workflow job instead of the poll loop.
type DrainHandler struct {
	runner       *Runner
	batch        int
	timeout      time.Duration
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewDrainHandler(runner *Runner, log logger.Logger) *DrainHandler {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	cfg := runner.handler.config
	log = log.WithFields(map[string]interface{}{"taskType": DrainTaskType})
	return &DrainHandler{
		runner:       runner,
		batch:        cfg.DrainBatch,
		timeout:      cfg.Timeout,
		errorHandler: apperrors.NewErrorHandler(log),
		logger:       log,
	}
}

func (d *DrainHandler) Handle(client worker.JobClient, job entities.Job) error {
	d.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	output, err := d.Drain(ctx)
	if err != nil {
		code := string(apperrors.AsStandardError(err).Code)
		metrics.WorkerJobsFailed.WithLabelValues(DrainTaskType, code).Inc()
		d.errorHandler.HandleJobError(context.Background(), client, job, err)
		return err
	}

	return d.completeJob(client, job, output)
}

// Drain runs up to one batch of iterations, stopping early once the queue is
// empty.
func (d *DrainHandler) Drain(ctx context.Context) (*DrainOutput, error) {
	out := &DrainOutput{Outcomes: map[string]int{}}
	for out.Processed < d.batch {
		outcome, err := d.runner.Step(ctx)
		if err != nil {
			return nil, err
		}
		if outcome == OutcomeNoWork {
			out.Drained = true
			break
		}
		out.Processed++
		out.Outcomes[string(outcome)]++
	}
	return out, nil
}

func (d *DrainHandler) completeJob(client worker.JobClient, job entities.Job, output *DrainOutput) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		d.logger.Error("failed to create complete job command", map[string]interface{}{"error": err})
		return err
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		d.logger.Error("failed to send complete job command", map[string]interface{}{"error": err})
		return err
	}

	metrics.WorkerJobsCompleted.WithLabelValues(DrainTaskType).Inc()
	d.logger.Info("drain completed", map[string]interface{}{
		"processed": output.Processed,
		"drained":   output.Drained,
	})
	return nil
}
