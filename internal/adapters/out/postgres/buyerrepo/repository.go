package buyerrepo

import (
	"context"
	"errors"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/buyer"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormBuyerRepository implements ports.BuyerRepository with a version check on
// every write.
type GormBuyerRepository struct {
	db *gorm.DB
}

func NewGormBuyerRepository(db *gorm.DB) *GormBuyerRepository {
	return &GormBuyerRepository{db: db}
}

// Add registers a new buyer account.
func (r *GormBuyerRepository) Add(ctx context.Context, b *buyer.Buyer) error {
	if err := b.Validate(); err != nil {
		return err
	}
	dto := fromDomain(b)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormBuyerRepository) Get(ctx context.Context, id kernel.UUID) (*buyer.Buyer, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto BuyerDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("buyer", id)
		}
		return nil, err
	}
	return toDomain(dto)
}

// Update writes counts and score when the stored version still equals
// b.Version(), and bumps the stored version. b keeps the version it was read at.
func (r *GormBuyerRepository) Update(ctx context.Context, b *buyer.Buyer) error {
	if err := b.Validate(); err != nil {
		return err
	}

	dto := fromDomain(b)
	result := r.db.WithContext(ctx).
		Model(&BuyerDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(map[string]any{
			"total_orders":      dto.TotalOrders,
			"returned_orders":   dto.ReturnedOrders,
			"cancelled_orders":  dto.CancelledOrders,
			"trust_score":       dto.TrustScore,
			"last_score_update": dto.LastScoreUpdate,
			"version":           dto.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.missOrConflict(ctx, b)
	}

	return nil
}

func (r *GormBuyerRepository) missOrConflict(ctx context.Context, b *buyer.Buyer) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&BuyerDTO{}).Where("id = ?", b.ID().Bytes()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("buyer", b.ID())
	}
	return errs.NewVersionConflictError("buyer", b.ID(), b.Version())
}
