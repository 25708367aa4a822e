package ports

import (
	"context"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/pincode"
)

// PincodeRiskRepository stores the rolling outcome record of each pincode.
type PincodeRiskRepository interface {
	// Get returns errs.ErrObjectNotFound for a pincode without history.
	Get(ctx context.Context, code pincode.Code) (*pincode.Risk, error)

	// Create stores the first record of a pincode. If another writer created it
	// first, Create returns errs.ErrVersionConflict and the caller retries as an
	// update.
	Create(ctx context.Context, risk *pincode.Risk) error

	// Update writes the record if the stored version still equals risk.Version().
	// A stale write returns errs.ErrVersionConflict.
	Update(ctx context.Context, risk *pincode.Risk) error
}
