package messaging

import (
	"context"
	"fmt"

	domainReservation "dine-reserve/internal/domain/reservation"
	"dine-reserve/internal/logger"
	"dine-reserve/pkg/mqtt"

	"go.uber.org/zap"
)

// mqttClient is the subset of the MQTT client the publisher needs
type mqttClient interface {
	Publish(ctx context.Context, topic string, qos byte, retained bool, payload []byte) error
	Disconnect()
}

// MQTTPublisher pushes reservation events to an MQTT broker
type MQTTPublisher struct {
	client mqttClient
	prefix string
	qos    byte
}

// NewMQTTPublisher connects to the broker described by cfg
func NewMQTTPublisher(cfg *mqtt.Config, prefix string, qos int) (*MQTTPublisher, error) {
	client := mqtt.NewClient(cfg)
	if err := client.Connect(); err != nil {
		return nil, err
	}
	return newMQTTPublisher(client, prefix, qos), nil
}

func newMQTTPublisher(client mqttClient, prefix string, qos int) *MQTTPublisher {
	if qos < 0 || qos > 2 {
		qos = 1
	}
	return &MQTTPublisher{client: client, prefix: prefix, qos: byte(qos)}
}

func (p *MQTTPublisher) Publish(ctx context.Context, event domainReservation.Event) error {
	payload, err := encodeEvent(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	topic := Topic(p.prefix, event.Type)
	if err := p.client.Publish(ctx, topic, p.qos, false, payload); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	logger.Debug("Reservation event published",
		zap.String("topic", topic),
		zap.String("type", string(event.Type)),
	)
	return nil
}

func (p *MQTTPublisher) Close() error {
	p.client.Disconnect()
	return nil
}
