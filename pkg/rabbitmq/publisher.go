package rabbitmq

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"video-gateway/config"
	"video-gateway/dto"
)

const (
	exchangeName = "video_exchange"
	routingKey   = "video.uploaded"
)

type Publisher struct {
	conn *amqp.Connection
	cfg  *config.RabbitMQ
}

func (p *Publisher) PublishVideoUploaded(ctx context.Context, message dto.VideoUploadedMessage) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	err = ch.ExchangeDeclare(exchangeName, p.cfg.Kind, true, false, false, false, nil)
	if err != nil {
		zerolog.Ctx(ctx).Error().Str("exchange", exchangeName).Msg("failed to declare exchange")
		return err
	}

	body, err := json.Marshal(message)
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx, exchangeName, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
	})
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().Str("video_id", message.VideoId.String()).Str("routing_key", routingKey).Msg("published video uploaded event")
	return nil
}

func NewPublisher(conn *amqp.Connection, cfg *config.RabbitMQ) *Publisher {
	return &Publisher{
		conn: conn,
		cfg:  cfg,
	}
}
