// Package partnerrepo persists the live partner directory with GORM.
package partnerrepo

import (
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/partner"

	"github.com/google/uuid"
)

// PartnerDTO is one row of the partners table. Location columns are NULL until the
// partner app reports its first ping. Available is the partner's own online toggle;
// ClaimedAt is set while a cascade holds the partner for an offer.
type PartnerDTO struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name                 string    `gorm:"type:varchar(255);not null"`
	Type                 string    `gorm:"type:varchar(16);not null;index:idx_partners_pool,priority:2"`
	Status               string    `gorm:"type:varchar(16);not null;index:idx_partners_pool,priority:3"`
	Available            bool      `gorm:"not null;index:idx_partners_pool,priority:1"`
	Latitude             *float64
	Longitude            *float64
	Rating               float64 `gorm:"not null"`
	TotalDeliveries      int     `gorm:"not null"`
	SuccessfulDeliveries int     `gorm:"not null"`
	LastLocationUpdate   *time.Time
	ClaimedAt            *time.Time
	Version              int64 `gorm:"not null"`
}

func (PartnerDTO) TableName() string {
	return "partners"
}

func fromDomain(p *partner.Partner) PartnerDTO {
	dto := PartnerDTO{
		ID:                   p.ID().Bytes(),
		Name:                 p.Name(),
		Type:                 p.Type().String(),
		Status:               p.Status().String(),
		Available:            p.IsAvailable(),
		Rating:               p.Rating(),
		TotalDeliveries:      p.TotalDeliveries(),
		SuccessfulDeliveries: p.SuccessfulDeliveries(),
		Version:              p.Version(),
	}
	if loc, ok := p.Location(); ok {
		lat, lng := loc.Latitude(), loc.Longitude()
		dto.Latitude, dto.Longitude = &lat, &lng
	}
	if at, ok := p.LastLocationUpdate(); ok {
		dto.LastLocationUpdate = &at
	}
	return dto
}

func toDomain(dto PartnerDTO) (*partner.Partner, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	partnerType, err := partner.ParseType(dto.Type)
	if err != nil {
		return nil, err
	}
	status, err := partner.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	var location *kernel.Location
	if dto.Latitude != nil && dto.Longitude != nil {
		loc, locErr := kernel.NewLocation(*dto.Latitude, *dto.Longitude)
		if locErr != nil {
			return nil, locErr
		}
		location = &loc
	}

	return partner.RestorePartner(partner.RestoreParams{
		ID:                   id,
		Name:                 dto.Name,
		Type:                 partnerType,
		Location:             location,
		Available:            dto.Available && dto.ClaimedAt == nil,
		Status:               status,
		Rating:               dto.Rating,
		TotalDeliveries:      dto.TotalDeliveries,
		SuccessfulDeliveries: dto.SuccessfulDeliveries,
		LastLocationUpdate:   dto.LastLocationUpdate,
		Version:              dto.Version,
	})
}
