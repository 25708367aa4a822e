// Package orderrepo reads storefront orders for dispatch and outcome tracking.
package orderrepo

import (
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/order"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/pincode"

	"github.com/google/uuid"
)

// OrderDTO holds the columns of the orders table the core needs.
type OrderDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	BuyerID           uuid.UUID `gorm:"type:uuid;not null;index"`
	VendorLatitude    float64   `gorm:"not null"`
	VendorLongitude   float64   `gorm:"not null"`
	CustomerLatitude  float64   `gorm:"not null"`
	CustomerLongitude float64   `gorm:"not null"`
	Pincode           string    `gorm:"type:char(6);not null;index"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(o *order.Order) OrderDTO {
	return OrderDTO{
		ID:                o.ID().Bytes(),
		BuyerID:           o.BuyerID().Bytes(),
		VendorLatitude:    o.VendorLocation().Latitude(),
		VendorLongitude:   o.VendorLocation().Longitude(),
		CustomerLatitude:  o.CustomerLocation().Latitude(),
		CustomerLongitude: o.CustomerLocation().Longitude(),
		Pincode:           o.Pincode().String(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	buyerID, err := kernel.UUIDFromBytes(dto.BuyerID[:])
	if err != nil {
		return nil, err
	}
	vendor, err := kernel.NewLocation(dto.VendorLatitude, dto.VendorLongitude)
	if err != nil {
		return nil, err
	}
	customer, err := kernel.NewLocation(dto.CustomerLatitude, dto.CustomerLongitude)
	if err != nil {
		return nil, err
	}
	code, err := pincode.Parse(dto.Pincode)
	if err != nil {
		return nil, err
	}
	return order.NewOrder(id, buyerID, vendor, customer, code)
}
