package queue_test

import (
	"testing"

	"github.com/abhijeetraiiit/nccart/internal/core/application/usecases/commands"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"
	"github.com/abhijeetraiiit/nccart/internal/queue"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDispatchTask_CarriesCommand(t *testing.T) {
	// Arrange
	orderID := kernel.NewUUID()
	cmd, err := commands.NewDispatchOrderCommand(orderID,
		kernel.MustNewLocation(12.9716, 77.5946), kernel.MustNewLocation(12.9352, 77.6245))
	require.NoError(t, err)

	// Act
	task, err := queue.NewDispatchTask(cmd)
	require.NoError(t, err)
	parsed, err := queue.ParseDispatchTask(task)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, queue.TaskDispatchRun, task.Type())
	assert.True(t, orderID.IsEqual(parsed.OrderID()))
	assert.InDelta(t, 77.6245, parsed.Customer().Longitude(), 1e-12)
	assert.InDelta(t, 12.9716, parsed.Vendor().Latitude(), 1e-12)
}

func TestNewDispatchTask_RejectsZeroCommand(t *testing.T) {
	_, err := queue.NewDispatchTask(commands.DispatchOrderCommand{})

	require.ErrorIs(t, err, commands.ErrDispatchOrderCommandIsNotConstructed)
}

func TestParseDispatchTask_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		cause   error
	}{
		{"not json", `{`, nil},
		{"bad order id", `{"order_id":"nope","vendor_lat":1,"vendor_lng":1,"customer_lat":1,"customer_lng":1}`, errs.ErrValueIsInvalid},
		{"latitude out of range", `{"order_id":"` + kernel.NewUUID().String() + `","vendor_lat":91,"vendor_lng":1,"customer_lat":1,"customer_lng":1}`, errs.ErrValueIsOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := queue.ParseDispatchTask(asynq.NewTask(queue.TaskDispatchRun, []byte(tt.payload)))

			require.ErrorIs(t, err, queue.ErrMalformedPayload)
			if tt.cause != nil {
				require.ErrorIs(t, err, tt.cause)
			}
		})
	}
}

func TestClient_Disabled(t *testing.T) {
	client := queue.NewClient(queue.Config{})
	cmd, err := commands.NewDispatchOrderCommand(kernel.NewUUID(),
		kernel.MustNewLocation(1, 1), kernel.MustNewLocation(1, 1))
	require.NoError(t, err)

	assert.False(t, client.Enabled())
	require.ErrorIs(t, client.EnqueueDispatch(t.Context(), cmd), queue.ErrQueueDisabled)
	require.NoError(t, client.Close())
}

func TestBuildServerConfig_Defaults(t *testing.T) {
	opt, cfg := queue.BuildServerConfig(queue.Config{})

	assert.Equal(t, "127.0.0.1:6379", opt.Addr)
	assert.Equal(t, 10, cfg.Concurrency)
	assert.Equal(t, map[string]int{queue.DefaultQueue: 1}, cfg.Queues)
}
