package dispatchrepo

import (
	"context"
	"errors"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/dispatch"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOfferRepository implements ports.OfferRepository on dispatch_offers.
//
// Resolve is a compare-and-set on the state column: the partner app, the waiting
// cascade and the expiry sweeper may all try to close the same offer and only the
// first write lands.
type GormOfferRepository struct {
	db *gorm.DB
}

func NewGormOfferRepository(db *gorm.DB) *GormOfferRepository {
	return &GormOfferRepository{db: db}
}

func (r *GormOfferRepository) Add(ctx context.Context, offer *dispatch.Offer) error {
	if err := offer.Validate(); err != nil {
		return err
	}
	dto := offerFromDomain(offer)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormOfferRepository) Get(ctx context.Context, id kernel.UUID) (*dispatch.Offer, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OfferDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("offer", id)
		}
		return nil, err
	}
	return offerToDomain(dto)
}

func (r *GormOfferRepository) Resolve(ctx context.Context, offer *dispatch.Offer, expected dispatch.OfferState) error {
	if err := offer.Validate(); err != nil {
		return err
	}

	dto := offerFromDomain(offer)
	result := r.db.WithContext(ctx).
		Model(&OfferDTO{}).
		Where("id = ? AND state = ?", dto.ID, expected.String()).
		Updates(map[string]any{
			"state":        dto.State,
			"responded_at": dto.RespondedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&OfferDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("offer", offer.ID())
	}
	return errs.NewVersionConflictError("offer", offer.ID(), int64(expected))
}

// ListExpired returns pending offers with deadline <= now, oldest deadline first.
func (r *GormOfferRepository) ListExpired(ctx context.Context, now time.Time) ([]*dispatch.Offer, error) {
	var dtos []OfferDTO
	if err := r.db.WithContext(ctx).
		Where("state = ? AND deadline <= ?", dispatch.Offered.String(), now.UTC()).
		Order("deadline").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	offers := make([]*dispatch.Offer, 0, len(dtos))
	for _, dto := range dtos {
		o, err := offerToDomain(dto)
		if err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, nil
}
