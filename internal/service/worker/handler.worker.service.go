package worker

import (
	database "uploadkit-go/internal/pkg/db"
	"uploadkit-go/internal/pkg/helper"
	"uploadkit-go/internal/pkg/logger"
	"uploadkit-go/internal/pkg/validation"
	"uploadkit-go/internal/service/media/model"

	amqp "github.com/rabbitmq/amqp091-go"
)

func (s *Service) handleUploaded(msg *amqp.Delivery) error {
	var event model.MediaUploadedEvent
	if err := helper.ByteToStruct(msg.Body, &event); err != nil {
		// Malformed payloads never become valid, drop instead of requeue.
		logger.Warning.Println("Dropping malformed event: ", err)
		return nil
	}

	if err := validation.Validate(event); err != nil {
		logger.Warning.Println("Dropping incomplete event: ", err)
		return nil
	}

	if err := s.media.MarkProcessed(event.MediaID); err != nil {
		if database.IsNotFound(err) {
			logger.Warning.Println("Media record gone, dropping event: ", event.MediaID)
			return nil
		}
		return err
	}

	if s.mqtt != nil && !event.Silent {
		notice := model.MediaProcessedNotice{
			MediaID: event.MediaID,
			Folder:  event.Folder,
			Object:  event.Object,
		}
		if err := s.mqtt.Publish("media/"+event.Folder, 1, false, notice); err != nil {
			helper.HandleAppError(err, "worker", "handleUploaded")
		}
	}

	logger.Debug.Println("Processed media: ", event.MediaID)
	return nil
}
