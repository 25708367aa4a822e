package pincoderepo

import (
	"context"
	"errors"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/pincode"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPincodeRiskRepository implements ports.PincodeRiskRepository.
type GormPincodeRiskRepository struct {
	db *gorm.DB
}

func NewGormPincodeRiskRepository(db *gorm.DB) *GormPincodeRiskRepository {
	return &GormPincodeRiskRepository{db: db}
}

func (r *GormPincodeRiskRepository) Get(ctx context.Context, code pincode.Code) (*pincode.Risk, error) {
	if err := code.Validate(); err != nil {
		return nil, err
	}

	var dto RiskDTO
	if err := r.db.WithContext(ctx).First(&dto, "pincode = ?", code.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("pincode", code)
		}
		return nil, err
	}
	return toDomain(dto)
}

// Create inserts the first record of a pincode. The insert skips an existing row
// instead of failing, so a concurrent first writer shows up as a version conflict
// and leaves the surrounding transaction usable.
func (r *GormPincodeRiskRepository) Create(ctx context.Context, risk *pincode.Risk) error {
	if err := risk.Validate(); err != nil {
		return err
	}

	dto := fromDomain(risk)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "pincode"}}, DoNothing: true}).
		Create(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewVersionConflictError("pincode", risk.Code(), risk.Version())
	}
	return nil
}

func (r *GormPincodeRiskRepository) Update(ctx context.Context, risk *pincode.Risk) error {
	if err := risk.Validate(); err != nil {
		return err
	}

	dto := fromDomain(risk)
	result := r.db.WithContext(ctx).
		Model(&RiskDTO{}).
		Where("pincode = ? AND version = ?", dto.Pincode, dto.Version).
		Updates(map[string]any{
			"total_orders":     dto.TotalOrders,
			"returned_orders":  dto.ReturnedOrders,
			"cancelled_orders": dto.CancelledOrders,
			"risk_score":       dto.RiskScore,
			"last_updated":     dto.LastUpdated,
			"version":          dto.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&RiskDTO{}).Where("pincode = ?", dto.Pincode).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("pincode", risk.Code())
		}
		return errs.NewVersionConflictError("pincode", risk.Code(), risk.Version())
	}
	return nil
}
