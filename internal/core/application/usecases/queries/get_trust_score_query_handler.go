package queries

import (
	"context"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/buyer"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
)

// TrustScoreView is the read model of a buyer's standing.
type TrustScoreView struct {
	BuyerID         kernel.UUID
	TrustScore      float64
	Category        buyer.Category
	TotalOrders     int
	ReturnedOrders  int
	CancelledOrders int
	// SuccessRatePercent is (total - returned) / total · 100, zero without orders.
	SuccessRatePercent float64
	AccountAgeDays     int
	// LastScoreUpdate is nil until the score was first computed.
	LastScoreUpdate *time.Time
}

// GetTrustScoreQueryHandler reports the stored score; it never recomputes it.
//
// Example:
//
//	view, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // 404
//	}
type GetTrustScoreQueryHandler struct {
	buyers BuyerReader
	clock  func() time.Time
}

func NewGetTrustScoreQueryHandler(buyers BuyerReader, clock func() time.Time) GetTrustScoreQueryHandler {
	if clock == nil {
		clock = time.Now
	}
	return GetTrustScoreQueryHandler{buyers: buyers, clock: clock}
}

func (h GetTrustScoreQueryHandler) Handle(ctx context.Context, query GetTrustScoreQuery) (TrustScoreView, error) {
	if err := query.Validate(); err != nil {
		return TrustScoreView{}, err
	}

	b, err := h.buyers.Get(ctx, query.BuyerID())
	if err != nil {
		return TrustScoreView{}, err
	}

	profile := b.Profile(h.clock())
	view := TrustScoreView{
		BuyerID:         b.ID(),
		TrustScore:      b.TrustScore(),
		Category:        b.Category(),
		TotalOrders:     profile.TotalOrders,
		ReturnedOrders:  profile.ReturnedOrders,
		CancelledOrders: profile.CancelledOrders,
		AccountAgeDays:  profile.AccountAgeDays,
	}
	if rate, ok := profile.DeliverySuccessRate(); ok {
		view.SuccessRatePercent = rate * 100
	}
	if at, ok := b.LastScoreUpdate(); ok {
		view.LastScoreUpdate = &at
	}
	return view, nil
}
