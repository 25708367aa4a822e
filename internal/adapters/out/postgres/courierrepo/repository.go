package courierrepo

import (
	"context"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/courier"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/partner"

	"gorm.io/gorm"
)

// GormCourierRegistry implements ports.CourierRegistry.
type GormCourierRegistry struct {
	db *gorm.DB
}

func NewGormCourierRegistry(db *gorm.DB) *GormCourierRegistry {
	return &GormCourierRegistry{db: db}
}

// Add registers a courier partner.
func (r *GormCourierRegistry) Add(ctx context.Context, c *courier.Courier) error {
	if err := c.Validate(); err != nil {
		return err
	}
	dto := fromDomain(c)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// ListActiveBySuccessRate orders by success rate, highest first; equal rates keep
// the lowest ID first.
func (r *GormCourierRegistry) ListActiveBySuccessRate(ctx context.Context) ([]*courier.Courier, error) {
	var dtos []CourierDTO
	if err := r.db.WithContext(ctx).
		Where("status = ?", partner.Active.String()).
		Order("success_rate DESC").
		Order("id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	couriers := make([]*courier.Courier, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		couriers = append(couriers, c)
	}
	return couriers, nil
}
