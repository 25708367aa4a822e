package order

import (
	"errors"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/pincode"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"
	"github.com/abhijeetraiiit/nccart/internal/pkg/guard"
)

// ErrOrderIsNotConstructed is returned when using an improperly initialized Order.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder")

// Order is the read-only view of a storefront order that dispatch and trust need:
// where it is picked up, where it goes, who bought it and the destination pincode.
// Orders are owned by the order service; this core never writes them.
type Order struct {
	id       kernel.UUID
	buyerID  kernel.UUID
	vendor   kernel.Location
	customer kernel.Location
	pincode  pincode.Code
	guard    guard.ConstructorGuard
}

// NewOrder validates and builds the order view.
//
// Parameters:
//   - id: order identifier
//   - buyerID: the purchasing buyer
//   - vendor: pickup location
//   - customer: delivery location
//   - code: destination pincode
//
// Returns:
//   - *Order: the order view
//   - error: every invalid field, joined
func NewOrder(
	id kernel.UUID,
	buyerID kernel.UUID,
	vendor kernel.Location,
	customer kernel.Location,
	code pincode.Code,
) (*Order, error) {
	var errList []error
	if err := id.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("id", err))
	}
	if err := buyerID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("buyerID", err))
	}
	errList = append(errList, vendor.Validate(), customer.Validate(), code.Validate())
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	return &Order{
		id:       id,
		buyerID:  buyerID,
		vendor:   vendor,
		customer: customer,
		pincode:  code,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate checks if the Order was properly constructed.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

func (o *Order) ID() kernel.UUID { return o.id }

func (o *Order) BuyerID() kernel.UUID { return o.buyerID }

// VendorLocation is the pickup point.
func (o *Order) VendorLocation() kernel.Location { return o.vendor }

// CustomerLocation is the delivery point.
func (o *Order) CustomerLocation() kernel.Location { return o.customer }

func (o *Order) Pincode() pincode.Code { return o.pincode }
