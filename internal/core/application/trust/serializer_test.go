package trust_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/abhijeetraiiit/nccart/internal/core/application/trust"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializer_Do_RetriesVersionConflicts(t *testing.T) {
	metrics := &recordingMetrics{}
	serializer := trust.NewSerializer(3, nil, metrics)
	calls := 0

	err := serializer.Do(t.Context(), []string{"buyer:1"}, func(context.Context) error {
		calls++
		if calls < 3 {
			return errs.NewVersionConflictError("buyer", "1", int64(calls))
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, metrics.conflicts)
}

func TestSerializer_Do_GivesUpAfterMaxAttempts(t *testing.T) {
	serializer := trust.NewSerializer(2, nil, nil)
	calls := 0

	err := serializer.Do(t.Context(), []string{"buyer:1"}, func(context.Context) error {
		calls++
		return errs.NewVersionConflictError("buyer", "1", 1)
	})

	require.ErrorIs(t, err, trust.ErrRetriesExhausted)
	require.ErrorIs(t, err, errs.ErrVersionConflict)
	assert.Equal(t, 2, calls)
}

func TestSerializer_Do_OtherErrorsAreNotRetried(t *testing.T) {
	serializer := trust.NewSerializer(0, nil, nil)
	calls := 0

	err := serializer.Do(t.Context(), nil, func(context.Context) error {
		calls++
		return errors.New("database error")
	})

	require.EqualError(t, err, "database error")
	assert.Equal(t, 1, calls)
}

func TestSerializer_Do_StopsOnCancelledContext(t *testing.T) {
	serializer := trust.NewSerializer(3, nil, nil)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := serializer.Do(ctx, []string{"k"}, func(context.Context) error {
		t.Fatal("cycle must not run")
		return nil
	})

	require.ErrorIs(t, err, context.Canceled)
}

func TestSerializer_Do_SameKeyRunsOneAtATime(t *testing.T) {
	serializer := trust.NewSerializer(1, nil, nil)
	var (
		mu      sync.Mutex
		running int
		peak    int
	)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = serializer.Do(t.Context(), []string{"pincode:560001"}, func(context.Context) error {
				mu.Lock()
				running++
				peak = max(peak, running)
				mu.Unlock()

				mu.Lock()
				running--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, peak)
}
