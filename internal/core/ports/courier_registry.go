package ports

import (
	"context"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/courier"
)

// CourierRegistry lists the national courier partners used as the last dispatch stage.
type CourierRegistry interface {
	// ListActiveBySuccessRate returns ACTIVE couriers, highest success rate first.
	ListActiveBySuccessRate(ctx context.Context) ([]*courier.Courier, error)
}
