// Package dispatchrepo persists the dispatch ledger and partner offers with GORM.
package dispatchrepo

import (
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/dispatch"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AttemptDTO is one append-only row of the dispatch_attempts table.
type AttemptDTO struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID           uuid.UUID  `gorm:"type:uuid;not null;index:idx_attempts_order,priority:1"`
	Sequence          int        `gorm:"not null;index:idx_attempts_order,priority:2"`
	Stage             string     `gorm:"type:varchar(16);not null"`
	PartnerID         *uuid.UUID `gorm:"type:uuid;index"`
	VendorLatitude    float64    `gorm:"not null"`
	VendorLongitude   float64    `gorm:"not null"`
	CustomerLatitude  float64    `gorm:"not null"`
	CustomerLongitude float64    `gorm:"not null"`
	DistanceKm        float64    `gorm:"not null"`
	Accepted          bool       `gorm:"not null"`
	PingedAt          time.Time  `gorm:"not null;index:idx_attempts_order,priority:3"`
	RespondedAt       *time.Time
}

func (AttemptDTO) TableName() string {
	return "dispatch_attempts"
}

// OfferDTO is one row of the dispatch_offers table.
type OfferDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index"`
	PartnerID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Stage       string    `gorm:"type:varchar(16);not null"`
	State       string    `gorm:"type:varchar(16);not null;index:idx_offers_pending,priority:1"`
	OfferedAt   time.Time `gorm:"not null"`
	Deadline    time.Time `gorm:"not null;index:idx_offers_pending,priority:2"`
	RespondedAt *time.Time
}

func (OfferDTO) TableName() string {
	return "dispatch_offers"
}

func attemptFromDomain(a dispatch.Attempt) AttemptDTO {
	dto := AttemptDTO{
		ID:                a.ID().Bytes(),
		OrderID:           a.OrderID().Bytes(),
		Sequence:          a.Sequence(),
		Stage:             a.Stage().String(),
		VendorLatitude:    a.Vendor().Latitude(),
		VendorLongitude:   a.Vendor().Longitude(),
		CustomerLatitude:  a.Customer().Latitude(),
		CustomerLongitude: a.Customer().Longitude(),
		DistanceKm:        a.DistanceKm(),
		Accepted:          a.Accepted(),
		PingedAt:          a.PingedAt().UTC(),
	}
	if id, ok := a.PartnerID(); ok {
		raw := id.Bytes()
		dto.PartnerID = &raw
	}
	if at, ok := a.RespondedAt(); ok {
		at = at.UTC()
		dto.RespondedAt = &at
	}
	return dto
}

func attemptToDomain(dto AttemptDTO) (dispatch.Attempt, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return dispatch.Attempt{}, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return dispatch.Attempt{}, err
	}
	stage, err := dispatch.ParseStage(dto.Stage)
	if err != nil {
		return dispatch.Attempt{}, err
	}
	vendor, err := kernel.NewLocation(dto.VendorLatitude, dto.VendorLongitude)
	if err != nil {
		return dispatch.Attempt{}, err
	}
	customer, err := kernel.NewLocation(dto.CustomerLatitude, dto.CustomerLongitude)
	if err != nil {
		return dispatch.Attempt{}, err
	}

	var partnerID *kernel.UUID
	if dto.PartnerID != nil {
		pid, pidErr := kernel.UUIDFromBytes(dto.PartnerID[:])
		if pidErr != nil {
			return dispatch.Attempt{}, pidErr
		}
		partnerID = &pid
	}

	return dispatch.RestoreAttempt(dispatch.AttemptParams{
		ID:          id,
		OrderID:     orderID,
		Sequence:    dto.Sequence,
		Stage:       stage,
		PartnerID:   partnerID,
		Vendor:      vendor,
		Customer:    customer,
		Accepted:    dto.Accepted,
		PingedAt:    dto.PingedAt,
		RespondedAt: dto.RespondedAt,
	}, dto.DistanceKm)
}

func offerFromDomain(o *dispatch.Offer) OfferDTO {
	dto := OfferDTO{
		ID:        o.ID().Bytes(),
		OrderID:   o.OrderID().Bytes(),
		PartnerID: o.PartnerID().Bytes(),
		Stage:     o.Stage().String(),
		State:     o.State().String(),
		OfferedAt: o.OfferedAt().UTC(),
		Deadline:  o.Deadline().UTC(),
	}
	if at, ok := o.RespondedAt(); ok {
		at = at.UTC()
		dto.RespondedAt = &at
	}
	return dto
}

func offerToDomain(dto OfferDTO) (*dispatch.Offer, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	partnerID, err := kernel.UUIDFromBytes(dto.PartnerID[:])
	if err != nil {
		return nil, err
	}
	stage, err := dispatch.ParseStage(dto.Stage)
	if err != nil {
		return nil, err
	}
	state, err := dispatch.ParseOfferState(dto.State)
	if err != nil {
		return nil, err
	}

	return dispatch.RestoreOffer(dispatch.OfferParams{
		ID:          id,
		OrderID:     orderID,
		PartnerID:   partnerID,
		Stage:       stage,
		State:       state,
		OfferedAt:   dto.OfferedAt,
		Deadline:    dto.Deadline,
		RespondedAt: dto.RespondedAt,
	})
}
