package worker

import (
	"context"
	"uploadkit-go/internal/pkg/logger"
	"uploadkit-go/internal/pkg/mqtt"
	"uploadkit-go/internal/pkg/rabbitmq"
	"uploadkit-go/internal/service/media"
)

// Service drains the media.uploaded queue: each event marks its record
// processed and notifies realtime subscribers on the media/<folder> topic.
type Service struct {
	ctx        context.Context
	rabbitmq   *rabbitmq.ConnectionManager
	media      media.IService
	mqtt       mqtt.IMqtt
	subscriber *rabbitmq.Subscriber
}

type IService interface {
	Start() error
	Stop() error
	IsHealthy() bool
}

func NewService(ctx context.Context, manager *rabbitmq.ConnectionManager, mediaService media.IService, broker mqtt.IMqtt) (IService, error) {
	return &Service{
		ctx:      ctx,
		rabbitmq: manager,
		media:    mediaService,
		mqtt:     broker,
	}, nil
}

func (s *Service) Start() error {
	opts := rabbitmq.DefaultSubscribeOptions(media.QueueMediaUploaded)
	subscriber, err := rabbitmq.NewSubscriber(s.ctx, s.rabbitmq, s.handleUploaded, opts)
	if err != nil {
		return err
	}
	s.subscriber = subscriber

	if err := subscriber.Start(); err != nil {
		if stopErr := subscriber.Stop(); stopErr != nil {
			logger.Error.Println("Failed to stop subscriber: ", stopErr)
		}
		return err
	}

	return nil
}

func (s *Service) Stop() error {
	if s.subscriber == nil {
		return nil
	}
	return s.subscriber.Stop()
}

func (s *Service) IsHealthy() bool {
	return s.subscriber != nil && s.subscriber.IsHealthy()
}
