package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	domainReservation "dine-reserve/internal/domain/reservation"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMQTT struct {
	topic        string
	qos          byte
	payload      []byte
	err          error
	disconnected bool
}

func (f *fakeMQTT) Publish(_ context.Context, topic string, qos byte, _ bool, payload []byte) error {
	f.topic, f.qos, f.payload = topic, qos, payload
	return f.err
}

func (f *fakeMQTT) Disconnect() { f.disconnected = true }

type fakeChannel struct {
	exchange, key string
	msg           amqp.Publishing
	closed        bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return nil
}

func (f *fakeChannel) Close() error { f.closed = true; return nil }

func sampleEvent() domainReservation.Event {
	return domainReservation.Event{
		Type: domainReservation.EventConfirmed,
		Reservation: &domainReservation.Reservation{
			ID:     uuid.New(),
			Email:  "ana@example.com",
			Date:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			Seats:  4,
			Status: domainReservation.StatusConfirmed,
		},
		OccurredAt: time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC),
	}
}

func TestMQTTPublisher_Publish(t *testing.T) {
	client := &fakeMQTT{}
	p := newMQTTPublisher(client, "dine-reserve", 1)

	require.NoError(t, p.Publish(context.Background(), sampleEvent()))

	assert.Equal(t, "dine-reserve/reservations/confirmed", client.topic)
	assert.Equal(t, byte(1), client.qos)

	var msg map[string]interface{}
	require.NoError(t, json.Unmarshal(client.payload, &msg))
	assert.Equal(t, "confirmed", msg["type"])
	assert.Equal(t, "2025-06-01", msg["reservation"].(map[string]interface{})["date"])

	require.NoError(t, p.Close())
	assert.True(t, client.disconnected)
}

func TestMQTTPublisher_PropagatesError(t *testing.T) {
	p := newMQTTPublisher(&fakeMQTT{err: errors.New("not connected")}, "", 7)

	assert.Error(t, p.Publish(context.Background(), sampleEvent()))
	assert.Equal(t, byte(1), p.qos)
}

func TestAMQPPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{channel: ch, exchange: "dine-reserve.events"}

	require.NoError(t, p.Publish(context.Background(), sampleEvent()))

	assert.Equal(t, "dine-reserve.events", ch.exchange)
	assert.Equal(t, "reservation.confirmed", ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "reservations/deleted", Topic("", domainReservation.EventDeleted))
	assert.Equal(t, "reservation.created", RoutingKey(domainReservation.EventCreated))
}
