// Package pincoderepo persists per-pincode delivery outcome records with GORM.
package pincoderepo

import (
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/pincode"
)

// RiskDTO is one row of the pincode_risks table.
type RiskDTO struct {
	Pincode         string    `gorm:"type:char(6);primaryKey"`
	TotalOrders     int       `gorm:"not null"`
	ReturnedOrders  int       `gorm:"not null"`
	CancelledOrders int       `gorm:"not null"`
	RiskScore       float64   `gorm:"not null"`
	LastUpdated     time.Time `gorm:"not null"`
	Version         int64     `gorm:"not null"`
}

func (RiskDTO) TableName() string {
	return "pincode_risks"
}

func fromDomain(r *pincode.Risk) RiskDTO {
	return RiskDTO{
		Pincode:         r.Code().String(),
		TotalOrders:     r.TotalOrders(),
		ReturnedOrders:  r.ReturnedOrders(),
		CancelledOrders: r.CancelledOrders(),
		RiskScore:       r.RiskScore(),
		LastUpdated:     r.LastUpdated().UTC(),
		Version:         r.Version(),
	}
}

func toDomain(dto RiskDTO) (*pincode.Risk, error) {
	code, err := pincode.Parse(dto.Pincode)
	if err != nil {
		return nil, err
	}
	return pincode.RestoreRisk(pincode.RiskParams{
		Code:            code,
		TotalOrders:     dto.TotalOrders,
		ReturnedOrders:  dto.ReturnedOrders,
		CancelledOrders: dto.CancelledOrders,
		RiskScore:       dto.RiskScore,
		LastUpdated:     dto.LastUpdated,
		Version:         dto.Version,
	})
}
