package trust

import (
	"context"
	"errors"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/pincode"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"
	"github.com/abhijeetraiiit/nccart/internal/pkg/keylock"

	"go.uber.org/zap"
)

// DefaultMaxAttempts bounds how often a read-modify-write cycle runs when it keeps
// losing the version check.
const DefaultMaxAttempts = 3

// ErrRetriesExhausted is returned when every attempt of a cycle lost the version check.
var ErrRetriesExhausted = errors.New("version conflict retries exhausted")

// BuyerKey is the lock key of a buyer record.
func BuyerKey(id kernel.UUID) string { return "buyer:" + id.String() }

// PincodeKey is the lock key of a pincode risk record.
func PincodeKey(code pincode.Code) string { return "pincode:" + code.String() }

// Serializer runs read-modify-write cycles on trust records.
//
// Example:
//
//	err := serializer.Do(ctx, []string{trust.BuyerKey(id)}, func(ctx context.Context) error {
//	    uow := factory.Create()
//	    // Begin, Get, mutate, Update, Commit
//	})
type Serializer struct {
	locks       *keylock.Locker
	maxAttempts int
	logger      *zap.Logger
	metrics     Metrics
}

// NewSerializer creates a Serializer. maxAttempts below one uses DefaultMaxAttempts.
func NewSerializer(maxAttempts int, logger *zap.Logger, metrics Metrics) *Serializer {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Serializer{
		locks:       keylock.New(),
		maxAttempts: maxAttempts,
		logger:      logger.With(zap.String("component", "trust_serializer")),
		metrics:     metrics,
	}
}

// Do holds the locks of keys while running cycle, and runs it again while it fails
// with errs.ErrVersionConflict. Any other error is returned as is.
func (s *Serializer) Do(ctx context.Context, keys []string, cycle func(ctx context.Context) error) error {
	unlock := s.locks.Lock(keys...)
	defer unlock()

	var err error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = cycle(ctx)
		if !errors.Is(err, errs.ErrVersionConflict) {
			return err
		}
		s.metrics.ObserveConflictRetry()
		s.logger.Debug("version conflict, retrying",
			zap.Strings("keys", keys),
			zap.Int("attempt", attempt),
		)
	}
	return errors.Join(ErrRetriesExhausted, err)
}
