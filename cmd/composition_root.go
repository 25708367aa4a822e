package cmd

import (
	"errors"
	"time"

	httpin "github.com/abhijeetraiiit/nccart/internal/adapters/in/http"
	"github.com/abhijeetraiiit/nccart/internal/adapters/out/postgres"
	"github.com/abhijeetraiiit/nccart/internal/adapters/out/postgres/buyerrepo"
	"github.com/abhijeetraiiit/nccart/internal/adapters/out/postgres/courierrepo"
	"github.com/abhijeetraiiit/nccart/internal/adapters/out/postgres/dispatchrepo"
	"github.com/abhijeetraiiit/nccart/internal/adapters/out/postgres/orderrepo"
	"github.com/abhijeetraiiit/nccart/internal/adapters/out/postgres/partnerrepo"
	"github.com/abhijeetraiiit/nccart/internal/adapters/out/riskcache"
	"github.com/abhijeetraiiit/nccart/internal/core/application/dispatching"
	"github.com/abhijeetraiiit/nccart/internal/core/application/trust"
	"github.com/abhijeetraiiit/nccart/internal/core/application/usecases/commands"
	"github.com/abhijeetraiiit/nccart/internal/core/application/usecases/queries"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/services"
	"github.com/abhijeetraiiit/nccart/internal/jobs"
	"github.com/abhijeetraiiit/nccart/internal/metrics"
	"github.com/abhijeetraiiit/nccart/internal/queue"
	"github.com/abhijeetraiiit/nccart/internal/worker"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CompositionRoot owns the long-lived collaborators and builds the handlers on top
// of them. Build one per process.
type CompositionRoot struct {
	cfg     Config
	logger  *zap.Logger
	metrics *metrics.Collector
	clock   func() time.Time

	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	partners   *partnerrepo.GormPartnerDirectory
	couriers   *courierrepo.GormCourierRegistry
	ledger     *dispatchrepo.GormDispatchLedger
	offers     *dispatchrepo.GormOfferRepository
	orders     *orderrepo.GormOrderDirectory
	buyers     *buyerrepo.GormBuyerRepository

	redis      *redis.Client
	tracker    *trust.PincodeRiskTracker
	serializer *trust.Serializer
	scorer     trust.Scorer
	resolver   services.PaymentPolicyResolver
	screener   services.CheckoutScreener
	cascade    *dispatching.Cascade
	queue      *queue.Client
}

// NewCompositionRoot wires the stores and engines. logger and collector may be nil.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *zap.Logger, collector *metrics.Collector) (*CompositionRoot, error) {
	if gormDB == nil {
		return nil, errors.New("gormDB is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if collector == nil {
		collector = metrics.New()
	}
	fee, err := cfg.Trust.Fee()
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		cfg:        cfg,
		logger:     logger,
		metrics:    collector,
		clock:      time.Now,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		partners:   partnerrepo.NewGormPartnerDirectory(gormDB),
		couriers:   courierrepo.NewGormCourierRegistry(gormDB),
		ledger:     dispatchrepo.NewGormDispatchLedger(gormDB),
		offers:     dispatchrepo.NewGormOfferRepository(gormDB),
		orders:     orderrepo.NewGormOrderDirectory(gormDB),
		buyers:     buyerrepo.NewGormBuyerRepository(gormDB),
		resolver:   services.NewPaymentPolicyResolver(fee),
		screener:   services.NewCheckoutScreener(cfg.Trust.MinCheckout()),
		queue:      queue.NewClient(cfg.Queue.ToQueueConfig()),
	}

	var cache trust.RiskCache
	if cfg.Redis.Enabled {
		cacheCfg := cfg.Redis.ToCacheConfig()
		c.redis = riskcache.NewClient(cacheCfg)
		cache = riskcache.NewRedisRiskCache(c.redis, cacheCfg.Prefix, cacheCfg.TTL)
	}
	c.tracker = trust.NewPincodeRiskTracker(c.uowFactory, cache, logger, collector)
	c.serializer = trust.NewSerializer(cfg.Trust.MaxWriteAttempts, logger, collector)
	c.scorer = trust.NewScorer(c.tracker, c.clock)

	c.cascade = dispatching.NewCascade(c.partners, c.couriers, c.ledger, c.broker(),
		dispatching.WithClock(c.clock),
		dispatching.WithMaxOffersPerStage(cfg.Dispatch.MaxOffersPerStage),
		dispatching.WithLogger(logger),
		dispatching.WithMetrics(collector),
	)
	return c, nil
}

func (c *CompositionRoot) broker() dispatching.OfferBroker {
	if c.cfg.Dispatch.AcceptanceMode == AcceptanceOffer {
		return dispatching.NewPollingBroker(c.offers, c.cfg.Dispatch.OfferPollInterval(), c.clock, c.logger)
	}
	return dispatching.NewAutoAcceptBroker(c.clock)
}

func (c *CompositionRoot) trustUoWFactory() commands.TrustUoWFactory {
	return FuncTrustUoWFactory(func() commands.TrustUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) buyerUoWFactory() commands.BuyerUoWFactory {
	return FuncBuyerUoWFactory(func() commands.BuyerUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateDispatchOrderCommandHandler() commands.DispatchOrderCommandHandler {
	return commands.NewDispatchOrderCommandHandler(c.cascade)
}

func (c *CompositionRoot) CreateRespondToOfferCommandHandler() commands.RespondToOfferCommandHandler {
	return commands.NewRespondToOfferCommandHandler(c.offers, c.clock)
}

func (c *CompositionRoot) CreateExpireOffersCommandHandler() commands.ExpireOffersCommandHandler {
	return commands.NewExpireOffersCommandHandler(c.offers, c.clock)
}

func (c *CompositionRoot) CreateUpdatePartnerLocationCommandHandler() commands.UpdatePartnerLocationCommandHandler {
	return commands.NewUpdatePartnerLocationCommandHandler(c.partners, c.clock)
}

func (c *CompositionRoot) CreateSetPartnerAvailabilityCommandHandler() commands.SetPartnerAvailabilityCommandHandler {
	return commands.NewSetPartnerAvailabilityCommandHandler(c.partners)
}

func (c *CompositionRoot) CreateRecordOrderOutcomeCommandHandler() commands.RecordOrderOutcomeCommandHandler {
	return commands.NewRecordOrderOutcomeCommandHandler(
		c.orders, c.trustUoWFactory(), c.serializer, c.tracker, c.scorer, c.clock, c.logger, c.metrics)
}

func (c *CompositionRoot) CreateRefreshTrustScoreCommandHandler() commands.RefreshTrustScoreCommandHandler {
	return commands.NewRefreshTrustScoreCommandHandler(
		c.buyerUoWFactory(), c.serializer, c.scorer, c.logger, c.metrics)
}

func (c *CompositionRoot) CreateGetDispatchStatusQueryHandler() queries.GetDispatchStatusQueryHandler {
	return queries.NewGetDispatchStatusQueryHandler(c.ledger)
}

func (c *CompositionRoot) CreateGetNearbyPartnersQueryHandler() queries.GetNearbyPartnersQueryHandler {
	return queries.NewGetNearbyPartnersQueryHandler(dispatching.NewLocator(c.partners))
}

func (c *CompositionRoot) CreateGetTrustScoreQueryHandler() queries.GetTrustScoreQueryHandler {
	return queries.NewGetTrustScoreQueryHandler(c.buyers, c.clock)
}

func (c *CompositionRoot) CreateGetPaymentMethodsQueryHandler() queries.GetPaymentMethodsQueryHandler {
	return queries.NewGetPaymentMethodsQueryHandler(c.buyers, c.resolver, c.logger, c.metrics)
}

func (c *CompositionRoot) CreateGetPincodeRiskQueryHandler() queries.GetPincodeRiskQueryHandler {
	return queries.NewGetPincodeRiskQueryHandler(c.tracker, c.logger, c.metrics)
}

func (c *CompositionRoot) CreateDetectSuspiciousCheckoutQueryHandler() queries.DetectSuspiciousCheckoutQueryHandler {
	return queries.NewDetectSuspiciousCheckoutQueryHandler(c.screener)
}

// CreateHTTPServer builds the API server. In offer mode with the queue enabled,
// dispatch requests are handed to the worker instead of blocking on responses.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	handlers := httpin.Handlers{
		DispatchOrder:            c.CreateDispatchOrderCommandHandler(),
		RespondToOffer:           c.CreateRespondToOfferCommandHandler(),
		UpdatePartnerLocation:    c.CreateUpdatePartnerLocationCommandHandler(),
		SetPartnerAvailability:   c.CreateSetPartnerAvailabilityCommandHandler(),
		RefreshTrustScore:        c.CreateRefreshTrustScoreCommandHandler(),
		RecordOrderOutcome:       c.CreateRecordOrderOutcomeCommandHandler(),
		GetDispatchStatus:        c.CreateGetDispatchStatusQueryHandler(),
		GetNearbyPartners:        c.CreateGetNearbyPartnersQueryHandler(),
		GetTrustScore:            c.CreateGetTrustScoreQueryHandler(),
		GetPaymentMethods:        c.CreateGetPaymentMethodsQueryHandler(),
		GetPincodeRisk:           c.CreateGetPincodeRiskQueryHandler(),
		DetectSuspiciousCheckout: c.CreateDetectSuspiciousCheckoutQueryHandler(),
	}

	var enqueuer httpin.DispatchEnqueuer
	if c.queue.Enabled() && c.cfg.Dispatch.AcceptanceMode == AcceptanceOffer {
		enqueuer = c.queue
	}
	return httpin.NewServer(handlers, enqueuer, c.logger)
}

// CreateRouter builds the echo instance. gatherer backs /metrics and may be nil.
func (c *CompositionRoot) CreateRouter(gatherer prometheus.Gatherer) *echo.Echo {
	return httpin.NewRouter(c.CreateHTTPServer(), httpin.RouterOptions{
		RateLimitRPS:   c.cfg.Server.RateLimitRPS,
		RateLimitBurst: c.cfg.Server.RateLimitBurst,
		Gatherer:       gatherer,
		Observer:       c.metrics,
		Logger:         c.logger,
	})
}

// CreateJobManager schedules the offer expiry sweep. It is empty in auto mode,
// where no offer ever waits.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	manager := jobs.NewJobManager()
	if c.cfg.Dispatch.AcceptanceMode == AcceptanceOffer && c.cfg.Dispatch.OfferSweepEnabled {
		manager.Add("offer_expiry", jobs.NewOfferExpiryJob(
			c.CreateExpireOffersCommandHandler(),
			c.metrics,
			c.cfg.Dispatch.OfferSweepSchedule,
			c.logger,
		))
	}
	return manager
}

// CreateWorker returns queue.ErrQueueDisabled when the queue is off.
func (c *CompositionRoot) CreateWorker() (*worker.Service, error) {
	consumer := worker.NewConsumer(c.CreateDispatchOrderCommandHandler(), c.logger)
	return worker.NewService(c.cfg.Queue.ToQueueConfig(), consumer)
}

// Close releases the Redis and queue connections. The database belongs to the caller.
func (c *CompositionRoot) Close() error {
	var errs []error
	if c.redis != nil {
		errs = append(errs, c.redis.Close())
	}
	errs = append(errs, c.queue.Close())
	return errors.Join(errs...)
}

type FuncTrustUoWFactory func() commands.TrustUoW

func (f FuncTrustUoWFactory) Create() commands.TrustUoW {
	return f()
}

type FuncBuyerUoWFactory func() commands.BuyerUoW

func (f FuncBuyerUoWFactory) Create() commands.BuyerUoW {
	return f()
}
