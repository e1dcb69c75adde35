package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"example.com/signup/internal/events"
)

const (
	maxDeadLetters = 256
	flushTimeout   = 5 * time.Second
)

type messageWriter interface {
	WriteMessages(context.Context, string, ...kafka.Message) error
}

// DeadLetter is a roster event that could not be delivered.
type DeadLetter struct {
	Event    events.RosterChanged
	Reason   string
	FailedAt time.Time
}

// DispatcherConfig contains tunables for the Dispatcher.
type DispatcherConfig struct {
	Topic        string
	PollInterval time.Duration
	BatchSize    int
}

// Dispatcher drains the Queue and delivers events to Kafka.
type Dispatcher struct {
	queue            *Queue
	producer         messageWriter
	logger           *zap.Logger
	cfg              DispatcherConfig
	mu               sync.Mutex
	deadLetters      []DeadLetter
	shutdownComplete chan struct{}
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(queue *Queue, producer messageWriter, cfg DispatcherConfig, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 25
	}
	return &Dispatcher{
		queue:            queue,
		producer:         producer,
		logger:           logger,
		cfg:              cfg,
		shutdownComplete: make(chan struct{}),
	}
}

// Start launches the polling loop. It should be called in a goroutine.
// Once ctx is cancelled whatever is still queued is flushed a final time.
func (d *Dispatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.PollInterval)
	defer func() {
		ticker.Stop()
		close(d.shutdownComplete)
	}()

	for {
		if err := d.drain(ctx); err != nil && !errors.Is(err, context.Canceled) {
			d.logger.Warn("outbox dispatcher error", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flushTimeout)
			if err := d.drain(flushCtx); err != nil {
				d.logger.Warn("outbox final flush failed", zap.Error(err))
			}
			cancel()
			return
		case <-ticker.C:
		}
	}
}

// Wait waits until dispatcher stops.
func (d *Dispatcher) Wait() {
	<-d.shutdownComplete
}

// DeadLetters returns a copy of the undeliverable events retained so far.
func (d *Dispatcher) DeadLetters() []DeadLetter {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]DeadLetter, len(d.deadLetters))
	copy(out, d.deadLetters)
	return out
}

func (d *Dispatcher) drain(ctx context.Context) error {
	var lastErr error
	for {
		// Stop claiming once ctx is done so the rest is left for the final flush.
		if err := ctx.Err(); err != nil {
			return err
		}
		batch := d.queue.Claim(d.cfg.BatchSize)
		if len(batch) == 0 {
			return lastErr
		}
		if err := d.processBatch(ctx, batch); err != nil {
			lastErr = err
		}
	}
}

func (d *Dispatcher) processBatch(ctx context.Context, batch []events.RosterChanged) error {
	start := time.Now()
	defer func() { batchDuration.Observe(time.Since(start).Seconds()) }()

	messages, err := encode(batch)
	if err == nil {
		err = d.producer.WriteMessages(ctx, d.cfg.Topic, messages...)
	}
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		d.queue.Requeue(batch)
		return err
	}
	if err != nil {
		failedCounter.Add(float64(len(batch)))
		d.deadLetter(batch, err.Error())
		d.logger.Error("outbox delivery failure",
			zap.String("topic", d.cfg.Topic),
			zap.Int("events", len(batch)),
			zap.Error(err))
		return err
	}

	deliveredCounter.Add(float64(len(batch)))
	d.logger.Debug("outbox batch delivered", zap.String("topic", d.cfg.Topic), zap.Int("events", len(batch)))
	return nil
}

func (d *Dispatcher) deadLetter(batch []events.RosterChanged, reason string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now().UTC()
	for _, evt := range batch {
		d.deadLetters = append(d.deadLetters, DeadLetter{
			Event:    evt,
			Reason:   fmt.Sprintf("%s (topic=%s)", reason, d.cfg.Topic),
			FailedAt: now,
		})
	}
	if overflow := len(d.deadLetters) - maxDeadLetters; overflow > 0 {
		d.deadLetters = append([]DeadLetter(nil), d.deadLetters[overflow:]...)
	}
}

func encode(batch []events.RosterChanged) ([]kafka.Message, error) {
	out := make([]kafka.Message, 0, len(batch))
	for _, evt := range batch {
		payload, err := json.Marshal(evt)
		if err != nil {
			return nil, fmt.Errorf("encode event %s: %w", evt.EventID, err)
		}
		out = append(out, kafka.Message{
			Key:   []byte(evt.Activity),
			Value: payload,
			Time:  evt.OccurredAt,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(evt.EventType)},
				{Key: "event_id", Value: []byte(evt.EventID)},
			},
		})
	}
	return out, nil
}
