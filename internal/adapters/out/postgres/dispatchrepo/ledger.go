package dispatchrepo

import (
	"context"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/dispatch"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDispatchLedger implements ports.DispatchLedger on dispatch_attempts.
type GormDispatchLedger struct {
	db *gorm.DB
}

func NewGormDispatchLedger(db *gorm.DB) *GormDispatchLedger {
	return &GormDispatchLedger{db: db}
}

// Append inserts the attempt; an attempt already stored under the same ID is left as is.
func (l *GormDispatchLedger) Append(ctx context.Context, attempt dispatch.Attempt) error {
	if err := attempt.Validate(); err != nil {
		return err
	}
	dto := attemptFromDomain(attempt)
	return l.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&dto).Error
}

func (l *GormDispatchLedger) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]dispatch.Attempt, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []AttemptDTO
	if err := l.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("sequence").
		Order("pinged_at").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	attempts := make([]dispatch.Attempt, 0, len(dtos))
	for _, dto := range dtos {
		a, err := attemptToDomain(dto)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, nil
}
