// Package events publishes notification events to Kafka for downstream
// consumers (mail senders, audit pipelines). Publishing is best-effort and
// fully decoupled from request handling: events flow through a buffered
// channel into a small worker pool, and a full queue drops the event rather
// than blocking the caller.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/invobook/invoicing_app/internal/core/domain"
)

// NotificationEvent is the wire form of a dispatched notification.
type NotificationEvent struct {
	UserID    string                      `json:"userID"`
	CompanyID *string                     `json:"companyID,omitempty"`
	Type      domain.NotificationType     `json:"type"`
	Priority  domain.NotificationPriority `json:"priority"`
	Title     string                      `json:"title"`
	Message   string                      `json:"message"`
	Link      string                      `json:"link,omitempty"`
	Metadata  map[string]any              `json:"metadata,omitempty"`
	EmittedAt time.Time                   `json:"emittedAt"`
}

// Publisher is the event sink the notification dispatcher writes to.
type Publisher interface {
	Publish(event NotificationEvent)
	Close() error
}

// KafkaPublisher writes notification events to a Kafka topic through a
// worker pool fed by a buffered channel.
type KafkaPublisher struct {
	writer       *kafka.Writer
	topic        string
	eventChan    chan NotificationEvent
	workerCount  int
	shutdownChan chan struct{}
	wg           sync.WaitGroup
	logger       *slog.Logger
}

// NewKafkaPublisher creates a publisher with its worker pool already running.
func NewKafkaPublisher(broker, topic string, workerCount int, logger *slog.Logger) *KafkaPublisher {
	if workerCount <= 0 {
		workerCount = 4
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
	}

	p := &KafkaPublisher{
		writer:       writer,
		topic:        topic,
		eventChan:    make(chan NotificationEvent, 1000),
		workerCount:  workerCount,
		shutdownChan: make(chan struct{}),
		logger:       logger,
	}
	p.startWorkers()
	return p
}

func (p *KafkaPublisher) startWorkers() {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.logger.Info("Kafka event workers started", slog.Int("workers", p.workerCount))
}

func (p *KafkaPublisher) worker(id int) {
	defer p.wg.Done()
	for {
		select {
		case event := <-p.eventChan:
			if err := p.publishSync(event); err != nil {
				p.logger.Warn("Failed to publish notification event",
					slog.Int("worker", id),
					slog.String("type", string(event.Type)),
					slog.String("error", err.Error()))
			}
		case <-p.shutdownChan:
			return
		}
	}
}

// Publish queues an event without blocking. A full queue drops the event.
func (p *KafkaPublisher) Publish(event NotificationEvent) {
	select {
	case p.eventChan <- event:
	default:
		p.logger.Warn("Notification event queue full, event dropped",
			slog.String("type", string(event.Type)))
	}
}

func (p *KafkaPublisher) publishSync(event NotificationEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	key := event.UserID
	if key == "" && event.CompanyID != nil {
		key = *event.CompanyID
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return p.writer.WriteMessages(ctx, msg)
}

// Close drains the workers and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	close(p.shutdownChan)
	p.wg.Wait()
	return p.writer.Close()
}

var _ Publisher = (*KafkaPublisher)(nil)
