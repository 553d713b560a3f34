package services

import (
	"context"
	"errors"
	"time"

	"github.com/yeremiapane/restaurant-site/config"
	"github.com/yeremiapane/restaurant-site/models"
	"github.com/yeremiapane/restaurant-site/realtime"
	"github.com/yeremiapane/restaurant-site/utils"
)

const (
	EventReservationCreated   = "reservation.created"
	EventReservationUpdated   = "reservation.updated"
	EventReservationCancelled = "reservation.cancelled"
)

type ReservationEvent struct {
	Type        string             `json:"type"`
	Reservation models.Reservation `json:"reservation"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

func NewReservationEvent(eventType string, r models.Reservation) ReservationEvent {
	return ReservationEvent{Type: eventType, Reservation: r, OccurredAt: time.Now().UTC()}
}

// Publisher delivers reservation events to staff and downstream systems.
type Publisher interface {
	Publish(ctx context.Context, event ReservationEvent) error
	Close() error
}

// HubPublisher forwards events to the connected staff websockets.
type HubPublisher struct {
	Hub *realtime.Hub
}

var hubEvents = map[string]string{
	EventReservationCreated:   realtime.EventReservationCreated,
	EventReservationUpdated:   realtime.EventReservationUpdated,
	EventReservationCancelled: realtime.EventReservationCancelled,
}

func (p HubPublisher) Publish(_ context.Context, event ReservationEvent) error {
	name, ok := hubEvents[event.Type]
	if !ok {
		name = event.Type
	}
	p.Hub.Broadcast(realtime.Message{Event: name, Data: event.Reservation})
	return nil
}

func (p HubPublisher) Close() error { return nil }

// MultiPublisher publishes to every publisher and joins their errors.
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(ctx context.Context, event ReservationEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiPublisher) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ReservationEvent) error { return nil }
func (NopPublisher) Close() error                                   { return nil }

// NewPublisher always feeds the hub and adds the broker selected by EVENTS_BACKEND.
func NewPublisher(cfg *config.Config, hub *realtime.Hub) (Publisher, error) {
	publishers := MultiPublisher{HubPublisher{Hub: hub}}

	switch cfg.EventsBackend {
	case "", "none":
	case "kafka":
		publishers = append(publishers, NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic))
		utils.InfoLogger.Printf("Publishing reservation events to kafka topic %s", cfg.KafkaTopic)
	case "rabbitmq", "amqp":
		p, err := NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPQueue)
		if err != nil {
			return nil, err
		}
		publishers = append(publishers, p)
		utils.InfoLogger.Printf("Publishing reservation events to amqp queue %s", cfg.AMQPQueue)
	default:
		return nil, errors.New("unsupported EVENTS_BACKEND " + cfg.EventsBackend)
	}
	return publishers, nil
}

// PublishAsync publishes in the background so a slow broker never delays a response.
func PublishAsync(p Publisher, event ReservationEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.Publish(ctx, event); err != nil {
			utils.ErrorLogger.Printf("Failed to publish %s for reservation %d: %v", event.Type, event.Reservation.ID, err)
		}
	}()
}
