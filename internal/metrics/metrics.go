// Package metrics exposes the dispatch and trust counters to Prometheus.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/dispatch"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "nccart"

// Collector implements dispatching.Metrics and trust.Metrics.
type Collector struct {
	DispatchAttemptsTotal   *prometheus.CounterVec
	DispatchOffersTotal     *prometheus.CounterVec
	DispatchOutcomesTotal   *prometheus.CounterVec
	DispatchDuration        prometheus.Histogram
	TrustFailOpenTotal      *prometheus.CounterVec
	TrustConflictRetryTotal prometheus.Counter
	HTTPRequestsTotal       *prometheus.CounterVec
	HTTPRequestDuration     *prometheus.HistogramVec
	OfferSweepsExpiredTotal prometheus.Counter
}

func New() *Collector {
	return &Collector{
		DispatchAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dispatch_attempts_total",
				Help:      "Total number of dispatch attempts recorded, by stage and result",
			},
			[]string{"stage", "accepted"},
		),
		DispatchOffersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dispatch_offers_total",
				Help:      "Total number of partner offers, by stage and final state",
			},
			[]string{"stage", "state"},
		),
		DispatchOutcomesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dispatch_outcomes_total",
				Help:      "Total number of finished cascades, by final stage and success",
			},
			[]string{"stage", "success"},
		),
		DispatchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "dispatch_duration_seconds",
				Help:      "Duration of a full dispatch cascade",
				Buckets:   []float64{.01, .05, .1, .5, 1, 5, 30, 60, 180, 600, 1800},
			},
		),
		TrustFailOpenTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "trust_fail_open_total",
				Help:      "Total number of trust reads answered with a neutral default, by failing source",
			},
			[]string{"source"},
		),
		TrustConflictRetryTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "trust_conflict_retries_total",
				Help:      "Total number of trust updates retried after a version conflict",
			},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests, by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		OfferSweepsExpiredTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "offer_sweep_expired_total",
				Help:      "Total number of offers timed out by the sweeper job",
			},
		),
	}
}

// Register adds every collector to reg. Collectors already registered by an
// earlier call are reused.
func (c *Collector) Register(reg prometheus.Registerer) error {
	var errList []error
	for _, col := range []prometheus.Collector{
		c.DispatchAttemptsTotal,
		c.DispatchOffersTotal,
		c.DispatchOutcomesTotal,
		c.DispatchDuration,
		c.TrustFailOpenTotal,
		c.TrustConflictRetryTotal,
		c.HTTPRequestsTotal,
		c.HTTPRequestDuration,
		c.OfferSweepsExpiredTotal,
	} {
		if err := reg.Register(col); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			errList = append(errList, err)
		}
	}
	return errors.Join(errList...)
}

func (c *Collector) ObserveAttempt(stage dispatch.Stage, accepted bool) {
	c.DispatchAttemptsTotal.WithLabelValues(stage.String(), strconv.FormatBool(accepted)).Inc()
}

func (c *Collector) ObserveOffer(stage dispatch.Stage, state dispatch.OfferState) {
	c.DispatchOffersTotal.WithLabelValues(stage.String(), state.String()).Inc()
}

func (c *Collector) ObserveOutcome(outcome dispatch.Outcome, elapsed time.Duration) {
	c.DispatchOutcomesTotal.WithLabelValues(outcome.FinalStage.String(), strconv.FormatBool(outcome.Success)).Inc()
	c.DispatchDuration.Observe(elapsed.Seconds())
}

func (c *Collector) ObserveFailOpen(source string) {
	c.TrustFailOpenTotal.WithLabelValues(source).Inc()
}

func (c *Collector) ObserveConflictRetry() {
	c.TrustConflictRetryTotal.Inc()
}

// ObserveRequest records one served HTTP request.
func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	c.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveExpiredOffers counts offers the sweeper moved to TIMED_OUT.
func (c *Collector) ObserveExpiredOffers(n int) {
	if n > 0 {
		c.OfferSweepsExpiredTotal.Add(float64(n))
	}
}
