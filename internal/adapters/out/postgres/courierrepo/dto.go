// Package courierrepo persists the national courier registry with GORM.
package courierrepo

import (
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/courier"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/partner"

	"github.com/google/uuid"
)

// CourierDTO is one row of the couriers table.
type CourierDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	DisplayName string    `gorm:"type:varchar(255);not null"`
	Status      string    `gorm:"type:varchar(16);not null;index"`
	SuccessRate float64   `gorm:"not null"`
}

func (CourierDTO) TableName() string {
	return "couriers"
}

func fromDomain(c *courier.Courier) CourierDTO {
	return CourierDTO{
		ID:          c.ID().Bytes(),
		Name:        c.Name(),
		DisplayName: c.DisplayName(),
		Status:      c.Status().String(),
		SuccessRate: c.SuccessRate(),
	}
}

func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	status, err := partner.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	return courier.RestoreCourier(id, dto.Name, dto.DisplayName, status, dto.SuccessRate)
}
