package commands

import (
	"context"
	"errors"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/application/trust"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/pincode"
	"github.com/abhijeetraiiit/nccart/internal/core/ports"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"

	"go.uber.org/zap"
)

// RecordOrderOutcomeResult is the buyer's standing after the outcome was counted.
type RecordOrderOutcomeResult struct {
	OrderID       kernel.UUID
	BuyerID       kernel.UUID
	NewTrustScore float64
	PincodeRisk   float64
	WasReturned   bool
	WasCancelled  bool
	// FailedOpen is set when the pincode record could not be updated; the buyer was
	// still counted and scored against the risk read outside the transaction.
	FailedOpen bool
}

// RecordOrderOutcomeCommandHandler feeds a finished order back into the trust engine.
//
// In one transaction it counts the outcome on the buyer, updates the risk record of
// the delivery pincode and rescores the buyer against that fresh risk. The cycle
// holds the locks of both records and is retried when either version check fails.
//
// A pincode store failure does not lose the outcome: the cycle runs again without
// the pincode record, scoring the buyer against the fail-open risk read. The
// failure is logged at WARN and counted. Buyer store failures are returned.
//
// Example:
//
//	result, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // unknown order or buyer
//	}
type RecordOrderOutcomeCommandHandler struct {
	orders     ports.OrderDirectory
	uowFactory TrustUoWFactory
	serializer KeySerializer
	risks      PincodeRiskWriter
	scorer     TrustScorer
	clock      func() time.Time
	logger     *zap.Logger
	metrics    trust.Metrics
}

// NewRecordOrderOutcomeCommandHandler creates the handler. A nil clock uses time.Now;
// logger and metrics may be nil.
func NewRecordOrderOutcomeCommandHandler(
	orders ports.OrderDirectory,
	uowFactory TrustUoWFactory,
	serializer KeySerializer,
	risks PincodeRiskWriter,
	scorer TrustScorer,
	clock func() time.Time,
	logger *zap.Logger,
	metrics trust.Metrics,
) RecordOrderOutcomeCommandHandler {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return RecordOrderOutcomeCommandHandler{
		orders:     orders,
		uowFactory: uowFactory,
		serializer: serializer,
		risks:      risks,
		scorer:     scorer,
		clock:      clock,
		logger:     logger.With(zap.String("component", "record_order_outcome")),
		metrics:    metrics,
	}
}

func (h RecordOrderOutcomeCommandHandler) Handle(
	ctx context.Context,
	command RecordOrderOutcomeCommand,
) (RecordOrderOutcomeResult, error) {
	if err := command.Validate(); err != nil {
		return RecordOrderOutcomeResult{}, err
	}

	order, err := h.orders.Get(ctx, command.OrderID())
	if err != nil {
		return RecordOrderOutcomeResult{}, err
	}

	result := RecordOrderOutcomeResult{
		OrderID:      order.ID(),
		BuyerID:      order.BuyerID(),
		WasReturned:  command.WasReturned(),
		WasCancelled: command.WasCancelled(),
	}
	keys := []string{trust.BuyerKey(order.BuyerID()), trust.PincodeKey(order.Pincode())}

	var risk *pincode.Risk
	err = h.serializer.Do(ctx, keys, func(ctx context.Context) error {
		var cycleErr error
		risk, cycleErr = h.record(ctx, order.BuyerID(), order.Pincode(), nil, &result)
		return cycleErr
	})
	if err == nil {
		h.risks.Remember(ctx, risk)
		return result, nil
	}

	var pincodeErr *pincodeStoreError
	if !errors.As(err, &pincodeErr) || !isStoreFailure(ctx, pincodeErr.err) {
		return RecordOrderOutcomeResult{}, err
	}

	h.metrics.ObserveFailOpen(trust.SourcePincodeStore)
	h.logger.Warn("pincode risk update failed, counting the buyer only",
		zap.Stringer("order_id", order.ID()),
		zap.Stringer("pincode", order.Pincode()),
		zap.Error(pincodeErr.err),
	)

	fallback := h.scorer.Risk(ctx, order.Pincode())
	err = h.serializer.Do(ctx, []string{trust.BuyerKey(order.BuyerID())}, func(ctx context.Context) error {
		_, cycleErr := h.record(ctx, order.BuyerID(), order.Pincode(), &fallback, &result)
		return cycleErr
	})
	if err != nil {
		return RecordOrderOutcomeResult{}, err
	}
	result.FailedOpen = true
	return result, nil
}

// record runs one cycle. With a nil fallback it updates the pincode record and
// scores against it; otherwise the pincode record is left alone and fallback is
// the risk used.
func (h RecordOrderOutcomeCommandHandler) record(
	ctx context.Context,
	buyerID kernel.UUID,
	code pincode.Code,
	fallback *float64,
	result *RecordOrderOutcomeResult,
) (*pincode.Risk, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	buyers := uow.BuyerRepository()
	b, err := buyers.Get(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	b.RecordOutcome(result.WasReturned, result.WasCancelled)

	var risk *pincode.Risk
	var riskScore float64
	if fallback != nil {
		riskScore = *fallback
	} else {
		risk, err = h.risks.Apply(ctx, uow.PincodeRiskRepository(), code, result.WasReturned, result.WasCancelled, h.clock())
		if err != nil {
			if errors.Is(err, errs.ErrVersionConflict) {
				return nil, err
			}
			return nil, &pincodeStoreError{err: err}
		}
		riskScore = risk.RiskScore()
	}

	score := h.scorer.ApplyRisk(b, riskScore)
	if err = buyers.Update(ctx, b); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	result.NewTrustScore = score
	result.PincodeRisk = riskScore
	return risk, nil
}

// pincodeStoreError marks a failure of the pincode record inside a cycle.
type pincodeStoreError struct {
	err error
}

func (e *pincodeStoreError) Error() string { return "pincode risk update: " + e.err.Error() }

func (e *pincodeStoreError) Unwrap() error { return e.err }
