// Package worker runs queued dispatch cascades on an asynq server.
package worker

import (
	"context"
	"fmt"

	"github.com/abhijeetraiiit/nccart/internal/core/application/usecases/commands"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/dispatch"
	"github.com/abhijeetraiiit/nccart/internal/queue"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// DispatchHandler runs one cascade.
type DispatchHandler interface {
	Handle(ctx context.Context, command commands.DispatchOrderCommand) (dispatch.Outcome, error)
}

// Consumer turns queued tasks into command handler calls.
type Consumer struct {
	dispatch DispatchHandler
	logger   *zap.Logger
}

func NewConsumer(dispatch DispatchHandler, logger *zap.Logger) *Consumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{
		dispatch: dispatch,
		logger:   logger.With(zap.String("component", "dispatch_consumer")),
	}
}

func (c *Consumer) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TaskDispatchRun, c.handleDispatchRun)
}

// handleDispatchRun never asks asynq to retry a malformed task, and a cascade
// that found nobody is a finished task.
func (c *Consumer) handleDispatchRun(ctx context.Context, task *asynq.Task) error {
	cmd, err := queue.ParseDispatchTask(task)
	if err != nil {
		c.logger.Warn("dropping malformed dispatch task", zap.Error(err))
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}

	logger := c.logger.With(zap.Stringer("order_id", cmd.OrderID()))
	outcome, err := c.dispatch.Handle(ctx, cmd)
	if err != nil {
		logger.Error("dispatch run failed", zap.Error(err))
		return err
	}

	if outcome.Success {
		logger.Info("order dispatched",
			zap.Stringer("stage", outcome.FinalStage),
			zap.String("partner", outcome.PartnerName),
		)
	} else {
		logger.Warn("order left unassigned", zap.String("message", outcome.Message))
	}
	return nil
}
