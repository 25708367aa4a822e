package worker

import (
	"context"
	"errors"

	"github.com/abhijeetraiiit/nccart/internal/queue"

	"github.com/hibiken/asynq"
)

// Service hosts the asynq server for the lifetime of the process.
type Service struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

func NewService(cfg queue.Config, consumer *Consumer) (*Service, error) {
	if !cfg.Enabled {
		return nil, queue.ErrQueueDisabled
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}

	opt, serverCfg := queue.BuildServerConfig(cfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		server: asynq.NewServer(opt, serverCfg),
		mux:    mux,
	}, nil
}

func (s *Service) Name() string { return "worker" }

// Start blocks until Stop shuts the server down.
func (s *Service) Start(_ context.Context) error {
	return s.server.Run(s.mux)
}

func (s *Service) Stop(_ context.Context) error {
	s.server.Shutdown()
	return nil
}
