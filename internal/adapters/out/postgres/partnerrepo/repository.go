package partnerrepo

import (
	"context"
	"errors"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/partner"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormPartnerDirectory implements ports.PartnerDirectory on the partners table.
//
// Claim is a single conditional UPDATE on claimed_at, so two cascades racing for
// the same partner cannot both win even across processes. The partner's own
// availability toggle never touches claimed_at, and Release and Assign never touch
// available. A partner read back while claimed reports IsAvailable false.
type GormPartnerDirectory struct {
	db *gorm.DB
}

func NewGormPartnerDirectory(db *gorm.DB) *GormPartnerDirectory {
	return &GormPartnerDirectory{db: db}
}

// Add registers a partner.
func (r *GormPartnerDirectory) Add(ctx context.Context, p *partner.Partner) error {
	if err := p.Validate(); err != nil {
		return err
	}
	dto := fromDomain(p)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormPartnerDirectory) ListAvailable(ctx context.Context, types []partner.Type) ([]*partner.Partner, error) {
	if len(types) == 0 {
		return []*partner.Partner{}, nil
	}
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, t.String())
	}

	var dtos []PartnerDTO
	if err := r.db.WithContext(ctx).
		Where("available = ? AND claimed_at IS NULL AND status = ? AND type IN ?", true, partner.Active.String(), names).
		Order("id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	partners := make([]*partner.Partner, 0, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		partners = append(partners, p)
	}
	return partners, nil
}

func (r *GormPartnerDirectory) Get(ctx context.Context, id kernel.UUID) (*partner.Partner, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto PartnerDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("partner", id)
		}
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormPartnerDirectory) Claim(ctx context.Context, id kernel.UUID, version int64) error {
	result := r.db.WithContext(ctx).
		Model(&PartnerDTO{}).
		Where("id = ? AND version = ? AND available = ? AND claimed_at IS NULL", id.Bytes(), version, true).
		Updates(map[string]any{
			"claimed_at": time.Now().UTC(),
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewVersionConflictError("partner", id, version)
	}
	return nil
}

// Release drops the claim and leaves the partner's own availability as it is now.
func (r *GormPartnerDirectory) Release(ctx context.Context, id kernel.UUID) error {
	return r.update(ctx, id, map[string]any{
		"claimed_at": nil,
		"version":    gorm.Expr("version + 1"),
	})
}

// Assign turns the claim into an assignment: the partner leaves the pool until it
// reports itself available again.
func (r *GormPartnerDirectory) Assign(ctx context.Context, id kernel.UUID) error {
	return r.update(ctx, id, map[string]any{
		"claimed_at": nil,
		"available":  false,
		"version":    gorm.Expr("version + 1"),
	})
}

// UpdateLocation leaves the version alone so that a location ping never makes an
// in-flight claim fail.
func (r *GormPartnerDirectory) UpdateLocation(
	ctx context.Context,
	id kernel.UUID,
	location kernel.Location,
	at time.Time,
) error {
	if err := location.Validate(); err != nil {
		return err
	}
	return r.update(ctx, id, map[string]any{
		"latitude":             location.Latitude(),
		"longitude":            location.Longitude(),
		"last_location_update": at.UTC(),
	})
}

func (r *GormPartnerDirectory) SetAvailability(ctx context.Context, id kernel.UUID, available bool) error {
	return r.update(ctx, id, map[string]any{
		"available": available,
		"version":   gorm.Expr("version + 1"),
	})
}

func (r *GormPartnerDirectory) update(ctx context.Context, id kernel.UUID, values map[string]any) error {
	if err := id.Validate(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&PartnerDTO{}).Where("id = ?", id.Bytes()).Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("partner", id)
	}
	return nil
}
