package queue

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhijeetraiiit/nccart/internal/core/application/usecases/commands"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"

	"github.com/hibiken/asynq"
)

// TaskDispatchRun runs the dispatch cascade for one order.
const TaskDispatchRun = "dispatch:run"

var ErrMalformedPayload = errors.New("malformed task payload")

// DispatchPayload is the wire form of a DispatchOrderCommand.
type DispatchPayload struct {
	OrderID     string  `json:"order_id"`
	VendorLat   float64 `json:"vendor_lat"`
	VendorLng   float64 `json:"vendor_lng"`
	CustomerLat float64 `json:"customer_lat"`
	CustomerLng float64 `json:"customer_lng"`
}

// NewDispatchTask encodes cmd as a TaskDispatchRun task.
func NewDispatchTask(cmd commands.DispatchOrderCommand) (*asynq.Task, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(DispatchPayload{
		OrderID:     cmd.OrderID().String(),
		VendorLat:   cmd.Vendor().Latitude(),
		VendorLng:   cmd.Vendor().Longitude(),
		CustomerLat: cmd.Customer().Latitude(),
		CustomerLng: cmd.Customer().Longitude(),
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDispatchRun, body), nil
}

// ParseDispatchTask decodes and validates the command carried by task.
func ParseDispatchTask(task *asynq.Task) (commands.DispatchOrderCommand, error) {
	var payload DispatchPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return commands.DispatchOrderCommand{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	orderID, err := kernel.UUIDFromString(payload.OrderID)
	if err != nil {
		return commands.DispatchOrderCommand{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	vendor, vendorErr := kernel.NewLocation(payload.VendorLat, payload.VendorLng)
	customer, customerErr := kernel.NewLocation(payload.CustomerLat, payload.CustomerLng)
	if err = errors.Join(vendorErr, customerErr); err != nil {
		return commands.DispatchOrderCommand{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	return commands.NewDispatchOrderCommand(orderID, vendor, customer)
}
