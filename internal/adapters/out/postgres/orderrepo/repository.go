package orderrepo

import (
	"context"
	"errors"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/order"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderDirectory implements ports.OrderDirectory.
type GormOrderDirectory struct {
	db *gorm.DB
}

func NewGormOrderDirectory(db *gorm.DB) *GormOrderDirectory {
	return &GormOrderDirectory{db: db}
}

// Add stores an order placed by the storefront.
func (r *GormOrderDirectory) Add(ctx context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	dto := fromDomain(o)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormOrderDirectory) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id)
		}
		return nil, err
	}
	return toDomain(dto)
}
