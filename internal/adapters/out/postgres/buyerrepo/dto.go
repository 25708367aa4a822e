// Package buyerrepo persists buyer order history and trust scores with GORM.
package buyerrepo

import (
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/buyer"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// BuyerDTO is one row of the buyers table.
type BuyerDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt       time.Time `gorm:"not null"`
	TotalOrders     int       `gorm:"not null"`
	ReturnedOrders  int       `gorm:"not null"`
	CancelledOrders int       `gorm:"not null"`
	TrustScore      float64   `gorm:"not null"`
	LastScoreUpdate *time.Time
	Version         int64 `gorm:"not null"`
}

func (BuyerDTO) TableName() string {
	return "buyers"
}

func fromDomain(b *buyer.Buyer) BuyerDTO {
	dto := BuyerDTO{
		ID:              b.ID().Bytes(),
		CreatedAt:       b.CreatedAt().UTC(),
		TotalOrders:     b.TotalOrders(),
		ReturnedOrders:  b.ReturnedOrders(),
		CancelledOrders: b.CancelledOrders(),
		TrustScore:      b.TrustScore(),
		Version:         b.Version(),
	}
	if at, ok := b.LastScoreUpdate(); ok {
		dto.LastScoreUpdate = &at
	}
	return dto
}

func toDomain(dto BuyerDTO) (*buyer.Buyer, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	return buyer.RestoreBuyer(buyer.Params{
		ID:              id,
		CreatedAt:       dto.CreatedAt,
		TotalOrders:     dto.TotalOrders,
		ReturnedOrders:  dto.ReturnedOrders,
		CancelledOrders: dto.CancelledOrders,
		TrustScore:      dto.TrustScore,
		LastScoreUpdate: dto.LastScoreUpdate,
		Version:         dto.Version,
	})
}
