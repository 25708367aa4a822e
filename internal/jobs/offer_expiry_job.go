package jobs

import (
	"context"

	"github.com/abhijeetraiiit/nccart/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultOfferExpirySpec sweeps every five seconds.
const DefaultOfferExpirySpec = "*/5 * * * * *"

// OfferExpiryHandler times out overdue offers and reports how many it changed.
type OfferExpiryHandler interface {
	Handle(ctx context.Context, command commands.ExpireOffersCommand) (int, error)
}

// ExpiryMetrics counts swept offers.
type ExpiryMetrics interface {
	ObserveExpiredOffers(n int)
}

// OfferExpiryJob moves offers past their deadline to TIMED_OUT on a cron schedule.
// Runs never overlap: a slow sweep delays the next one.
type OfferExpiryJob struct {
	handler OfferExpiryHandler
	metrics ExpiryMetrics
	spec    string
	cron    *cron.Cron
	logger  *zap.Logger
}

// NewOfferExpiryJob creates the sweeper. An empty spec uses DefaultOfferExpirySpec;
// specs take a leading seconds field.
func NewOfferExpiryJob(handler OfferExpiryHandler, metrics ExpiryMetrics, spec string, logger *zap.Logger) *OfferExpiryJob {
	if spec == "" {
		spec = DefaultOfferExpirySpec
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "offer_expiry_job"))
	return &OfferExpiryJob{
		handler: handler,
		metrics: metrics,
		spec:    spec,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		logger: logger,
	}
}

func (j *OfferExpiryJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, func() { j.run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("offer expiry job started", zap.String("spec", j.spec))
	return nil
}

// Stop waits for a running sweep to finish.
func (j *OfferExpiryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("offer expiry job stopped")
}

func (j *OfferExpiryJob) run(ctx context.Context) {
	expired, err := j.handler.Handle(ctx, commands.NewExpireOffersCommand())
	if expired > 0 {
		j.logger.Info("offers timed out", zap.Int("count", expired))
		if j.metrics != nil {
			j.metrics.ObserveExpiredOffers(expired)
		}
	}
	if err != nil {
		j.logger.Error("offer expiry sweep failed", zap.Error(err))
	}
}
