package buyer

import (
	"errors"
	"math"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"
	"github.com/abhijeetraiiit/nccart/internal/pkg/guard"
)

const (
	// DefaultTrustScore is the neutral score of a buyer that was never scored.
	DefaultTrustScore = 0.5

	day = 24 * time.Hour
)

// ErrBuyerIsNotConstructed is returned when using an improperly initialized Buyer.
var ErrBuyerIsNotConstructed = errors.New("Buyer must be created via NewBuyer or RestoreBuyer")

// Buyer is the trust record of a customer account: its order outcome counters and the
// last computed trust score.
//
// Business rules:
//   - Counters never decrease
//   - returnedOrders ≤ totalOrders and cancelledOrders ≤ totalOrders
//   - The trust score is always within [0, 1]
//
// Every mutation is a read-modify-write that the repository guards with Version.
type Buyer struct {
	id              kernel.UUID
	createdAt       time.Time
	totalOrders     int
	returnedOrders  int
	cancelledOrders int
	trustScore      float64
	lastScoreUpdate *time.Time
	version         int64
	guard           guard.ConstructorGuard
}

// NewBuyer creates a buyer with no history and the neutral DefaultTrustScore.
func NewBuyer(id kernel.UUID, createdAt time.Time) (*Buyer, error) {
	return RestoreBuyer(Params{ID: id, CreatedAt: createdAt, TrustScore: DefaultTrustScore})
}

// Params carries the persisted state of a buyer.
type Params struct {
	ID              kernel.UUID
	CreatedAt       time.Time
	TotalOrders     int
	ReturnedOrders  int
	CancelledOrders int
	TrustScore      float64
	LastScoreUpdate *time.Time
	Version         int64
}

// RestoreBuyer reconstructs a Buyer from the buyer profile store.
func RestoreBuyer(params Params) (*Buyer, error) {
	var errList []error
	if err := params.ID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("id", err))
	}
	if params.CreatedAt.IsZero() {
		errList = append(errList, errs.NewValueIsRequiredError("createdAt"))
	}
	if math.IsNaN(params.TrustScore) || params.TrustScore < 0 || params.TrustScore > 1 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("trustScore", params.TrustScore, 0, 1))
	}
	errList = append(errList, validateCounts(params.TotalOrders, params.ReturnedOrders, params.CancelledOrders, 0))
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	b := &Buyer{
		id:              params.ID,
		createdAt:       params.CreatedAt.UTC(),
		totalOrders:     params.TotalOrders,
		returnedOrders:  params.ReturnedOrders,
		cancelledOrders: params.CancelledOrders,
		trustScore:      params.TrustScore,
		version:         params.Version,
		guard:           guard.NewConstructorGuard(),
	}
	if params.LastScoreUpdate != nil {
		at := params.LastScoreUpdate.UTC()
		b.lastScoreUpdate = &at
	}
	return b, nil
}

// Validate checks if the Buyer was properly constructed.
func (b *Buyer) Validate() error {
	if b == nil {
		return ErrBuyerIsNotConstructed
	}
	return b.guard.Validate(ErrBuyerIsNotConstructed)
}

func (b *Buyer) ID() kernel.UUID { return b.id }

func (b *Buyer) CreatedAt() time.Time { return b.createdAt }

func (b *Buyer) TotalOrders() int { return b.totalOrders }

func (b *Buyer) ReturnedOrders() int { return b.returnedOrders }

func (b *Buyer) CancelledOrders() int { return b.cancelledOrders }

func (b *Buyer) TrustScore() float64 { return b.trustScore }

func (b *Buyer) Category() Category { return CategoryOf(b.trustScore) }

func (b *Buyer) LastScoreUpdate() (time.Time, bool) {
	if b.lastScoreUpdate == nil {
		return time.Time{}, false
	}
	return *b.lastScoreUpdate, true
}

func (b *Buyer) Version() int64 { return b.version }

// AccountAgeDays is the number of whole days between account creation and now, never negative.
func (b *Buyer) AccountAgeDays(now time.Time) int {
	age := now.Sub(b.createdAt)
	if age < 0 {
		return 0
	}
	return int(age / day)
}

// Profile snapshots the buyer's history as of now.
func (b *Buyer) Profile(now time.Time) Profile {
	return Profile{
		TotalOrders:     b.totalOrders,
		ReturnedOrders:  b.returnedOrders,
		CancelledOrders: b.cancelledOrders,
		AccountAgeDays:  b.AccountAgeDays(now),
	}
}

// RecordOutcome counts one finished order. The order always counts towards the total,
// so returned and cancelled stay bounded by it.
func (b *Buyer) RecordOutcome(wasReturned, wasCancelled bool) {
	b.totalOrders++
	if wasReturned {
		b.returnedOrders++
	}
	if wasCancelled {
		b.cancelledOrders++
	}
}

// ApplyScore stores a freshly computed trust score, clamped to [0, 1].
func (b *Buyer) ApplyScore(score float64, at time.Time) {
	if math.IsNaN(score) {
		score = DefaultTrustScore
	}
	b.trustScore = min(max(score, 0), 1)
	at = at.UTC()
	b.lastScoreUpdate = &at
}
