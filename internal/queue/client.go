// Package queue enqueues background dispatch runs on asynq.
package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/application/usecases/commands"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue is the queue dispatch runs go to when none is configured.
	DefaultQueue = "dispatch"

	// DispatchRunTimeout bounds one cascade: every partner stage may spend its
	// whole offer budget waiting.
	DispatchRunTimeout = 45 * time.Minute
)

var (
	ErrQueueDisabled         = errors.New("task queue is disabled")
	ErrDispatchAlreadyQueued = errors.New("dispatch for this order is already queued")
)

// Config selects the Redis server asynq runs on.
type Config struct {
	Enabled     bool
	Host        string
	Port        int
	Password    string
	DB          int
	Concurrency int
	Queue       string
}

// Client enqueues dispatch runs. A disabled Client rejects every enqueue with
// ErrQueueDisabled.
type Client struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	enabled   bool
	queue     string
}

func NewClient(cfg Config) *Client {
	queue := queueName(cfg)
	if !cfg.Enabled {
		return &Client{queue: queue}
	}
	opt := buildRedisOpt(cfg)
	return &Client{
		client:    asynq.NewClient(opt),
		inspector: asynq.NewInspector(opt),
		enabled:   true,
		queue:     queue,
	}
}

func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// EnqueueDispatch schedules a cascade run for cmd. The order id doubles as the
// task id, so an order cannot be queued twice while its run is pending or active.
// A finished run left behind as an archived or completed task is deleted and the
// order is queued again.
func (c *Client) EnqueueDispatch(ctx context.Context, cmd commands.DispatchOrderCommand) error {
	if !c.Enabled() {
		return ErrQueueDisabled
	}
	task, err := NewDispatchTask(cmd)
	if err != nil {
		return err
	}

	taskID := cmd.OrderID().String()
	err = c.enqueue(ctx, task, taskID)
	if !errors.Is(err, asynq.ErrTaskIDConflict) {
		return err
	}

	cleared, err := c.clearFinished(taskID)
	if err != nil {
		return err
	}
	if cleared {
		err = c.enqueue(ctx, task, taskID)
	} else {
		err = asynq.ErrTaskIDConflict
	}
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return fmt.Errorf("%w: %s", ErrDispatchAlreadyQueued, cmd.OrderID())
	}
	return err
}

func (c *Client) enqueue(ctx context.Context, task *asynq.Task, taskID string) error {
	_, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.TaskID(taskID),
		asynq.MaxRetry(0),
		asynq.Timeout(DispatchRunTimeout),
	)
	return err
}

// clearFinished deletes the task taskID if its run is over and reports whether it did.
func (c *Client) clearFinished(taskID string) (bool, error) {
	info, err := c.inspector.GetTaskInfo(c.queue, taskID)
	if errors.Is(err, asynq.ErrTaskNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to inspect task %s: %w", taskID, err)
	}

	switch info.State {
	case asynq.TaskStateArchived, asynq.TaskStateCompleted:
	default:
		return false, nil
	}
	if err = c.inspector.DeleteTask(c.queue, taskID); err != nil && !errors.Is(err, asynq.ErrTaskNotFound) {
		return false, fmt.Errorf("failed to delete finished task %s: %w", taskID, err)
	}
	return true, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return errors.Join(c.client.Close(), c.inspector.Close())
}

// BuildServerConfig returns the connection and server settings for a worker.
func BuildServerConfig(cfg Config) (asynq.RedisClientOpt, asynq.Config) {
	concurrency := 10
	if cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}
	return buildRedisOpt(cfg), asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{queueName(cfg): 1},
	}
}

func buildRedisOpt(cfg Config) asynq.RedisClientOpt {
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

func queueName(cfg Config) string {
	if q := strings.TrimSpace(cfg.Queue); q != "" {
		return q
	}
	return DefaultQueue
}
