package broker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultConfirmTimeout bounds the wait for a publisher confirm when none is configured.
const DefaultConfirmTimeout = 5 * time.Second

const confirmChannelBuffer = 256

// amqpChannel is the subset of *amqp.Channel used by the producer and admin.
type amqpChannel interface {
	Confirm(noWait bool) error
	NotifyPublish(confirm chan amqp.Confirmation) chan amqp.Confirmation
	PublishWithContext(
		ctx context.Context,
		exchange, key string,
		mandatory, immediate bool,
		msg amqp.Publishing,
	) error
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	Close() error
}

// RabbitMQConfig configures the AMQP client.
type RabbitMQConfig struct {
	URL            string
	ConfirmTimeout time.Duration
}

type pendingDelivery struct {
	topic      string
	onComplete CompletionFunc
	timer      *time.Timer
}

// RabbitMQProducer publishes to a topic exchange named after the topic, using the
// message key as routing key. Publisher confirms are matched to messages by
// delivery tag; the tag is reported as the offset.
type RabbitMQProducer struct {
	conn           *amqp.Connection
	ch             amqpChannel
	confirmTimeout time.Duration
	logger         *slog.Logger

	publishMu sync.Mutex
	mu        sync.Mutex
	nextTag   uint64
	pending   map[uint64]*pendingDelivery
	closed    bool
	drained   chan struct{}
	loopDone  chan struct{}
}

// NewRabbitMQProducer dials the broker and opens a confirm-mode channel.
func NewRabbitMQProducer(cfg RabbitMQConfig, logger *slog.Logger) (*RabbitMQProducer, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}

	producer, err := newRabbitMQProducer(ch, cfg.ConfirmTimeout, logger)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	producer.conn = conn

	return producer, nil
}

func newRabbitMQProducer(
	ch amqpChannel,
	confirmTimeout time.Duration,
	logger *slog.Logger,
) (*RabbitMQProducer, error) {
	if err := ch.Confirm(false); err != nil {
		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	if confirmTimeout <= 0 {
		confirmTimeout = DefaultConfirmTimeout
	}

	p := &RabbitMQProducer{
		ch:             ch,
		confirmTimeout: confirmTimeout,
		logger:         logger,
		pending:        make(map[uint64]*pendingDelivery),
		loopDone:       make(chan struct{}),
	}

	confirms := ch.NotifyPublish(make(chan amqp.Confirmation, confirmChannelBuffer))
	go p.confirmLoop(confirms)

	return p, nil
}

// Produce publishes msg and reports the confirm through onComplete.
func (p *RabbitMQProducer) Produce(ctx context.Context, msg *Message, onComplete CompletionFunc) {
	publishing := amqp.Publishing{
		ContentType:  msg.Headers[HeaderContentType],
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.Headers[HeaderAttemptID],
		Timestamp:    time.Now().UTC(),
		Body:         msg.Value,
		Headers:      amqp.Table{},
	}
	for _, key := range sortedHeaderKeys(msg.Headers) {
		publishing.Headers[key] = msg.Headers[key]
	}

	// Delivery tags are assigned by publish order, so tag allocation and publish
	// must not interleave. Callbacks run only after the lock is released.
	p.publishMu.Lock()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.publishMu.Unlock()
		onComplete(nil, ErrProducerClosed)
		return
	}
	p.nextTag++
	tag := p.nextTag
	delivery := &pendingDelivery{topic: msg.Topic, onComplete: onComplete}
	p.pending[tag] = delivery
	p.mu.Unlock()

	err := p.ch.PublishWithContext(ctx, msg.Topic, msg.Key, false, false, publishing)
	if err != nil {
		// A failed publish does not consume a delivery tag. The entry is removed in
		// the same critical section that returns the tag so the next publish can
		// reuse it.
		p.mu.Lock()
		p.nextTag--
		reported := p.removeLocked(tag) == nil
		p.mu.Unlock()
		p.publishMu.Unlock()

		if !reported {
			onComplete(nil, fmt.Errorf("failed to publish: %w", err))
		}
		return
	}

	p.mu.Lock()
	if _, ok := p.pending[tag]; ok {
		delivery.timer = time.AfterFunc(p.confirmTimeout, func() {
			if d := p.take(tag); d != nil {
				d.onComplete(nil, ErrConfirmTimeout)
			}
		})
	}
	p.mu.Unlock()
	p.publishMu.Unlock()
}

// TryProduce publishes msg from a new goroutine so a caller running inside a
// completion callback never blocks the confirm loop.
func (p *RabbitMQProducer) TryProduce(ctx context.Context, msg *Message, onComplete CompletionFunc) {
	go p.Produce(ctx, msg, onComplete)
}

// take removes and returns the pending delivery for tag, or nil when it was
// already reported.
func (p *RabbitMQProducer) take(tag uint64) *pendingDelivery {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.removeLocked(tag)
}

// removeLocked is take with p.mu held.
func (p *RabbitMQProducer) removeLocked(tag uint64) *pendingDelivery {
	delivery, ok := p.pending[tag]
	if !ok {
		return nil
	}
	delete(p.pending, tag)
	if delivery.timer != nil {
		delivery.timer.Stop()
	}
	if len(p.pending) == 0 && p.drained != nil {
		close(p.drained)
		p.drained = nil
	}
	return delivery
}

func (p *RabbitMQProducer) confirmLoop(confirms <-chan amqp.Confirmation) {
	defer close(p.loopDone)

	for confirm := range confirms {
		delivery := p.take(confirm.DeliveryTag)
		if delivery == nil {
			continue
		}
		if !confirm.Ack {
			delivery.onComplete(nil, fmt.Errorf("%w: delivery_tag=%d", ErrNotAcknowledged, confirm.DeliveryTag))
			continue
		}
		delivery.onComplete(&DeliveryReport{
			Topic:  delivery.topic,
			Offset: int64(confirm.DeliveryTag),
		}, nil)
	}

	// The confirm stream closes with the channel; nothing left can be confirmed.
	p.failPending(ErrProducerClosed)
}

func (p *RabbitMQProducer) failPending(err error) {
	p.mu.Lock()
	tags := make([]uint64, 0, len(p.pending))
	for tag := range p.pending {
		tags = append(tags, tag)
	}
	p.mu.Unlock()

	for _, tag := range tags {
		if delivery := p.take(tag); delivery != nil {
			delivery.onComplete(nil, err)
		}
	}
}

// Flush waits until every published message has been confirmed, rejected or timed out.
func (p *RabbitMQProducer) Flush(ctx context.Context) error {
	p.mu.Lock()
	if len(p.pending) == 0 {
		p.mu.Unlock()
		return nil
	}
	if p.drained == nil {
		p.drained = make(chan struct{})
	}
	drained := p.drained
	p.mu.Unlock()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ping reports whether the connection is still open.
func (p *RabbitMQProducer) Ping(_ context.Context) error {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()

	if closed || (p.conn != nil && p.conn.IsClosed()) {
		return ErrProducerClosed
	}
	return nil
}

// Close closes the channel and connection. Unconfirmed messages are reported as failed.
func (p *RabbitMQProducer) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	err := p.ch.Close()
	<-p.loopDone

	if p.conn != nil {
		if connErr := p.conn.Close(); connErr != nil && err == nil {
			err = connErr
		}
	}
	return err
}

// RabbitMQTopicAdmin declares a durable topic exchange and a queue bound to every
// routing key, so published events are retained.
type RabbitMQTopicAdmin struct {
	conn   *amqp.Connection
	ch     amqpChannel
	logger *slog.Logger
}

// NewRabbitMQTopicAdmin dials the broker.
func NewRabbitMQTopicAdmin(cfg RabbitMQConfig, logger *slog.Logger) (*RabbitMQTopicAdmin, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}

	return &RabbitMQTopicAdmin{conn: conn, ch: ch, logger: logger}, nil
}

// CreateTopic declares the exchange and its queue. Declarations are idempotent.
// Partitions and replication do not apply to RabbitMQ and are ignored.
func (a *RabbitMQTopicAdmin) CreateTopic(_ context.Context, spec TopicSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	if err := a.ch.ExchangeDeclare(spec.Name, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", spec.Name, err)
	}
	if _, err := a.ch.QueueDeclare(spec.Name, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", spec.Name, err)
	}
	if err := a.ch.QueueBind(spec.Name, "#", spec.Name, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", spec.Name, err)
	}

	a.logger.Info("topic created", slog.String("topic", spec.Name), slog.String("driver", "rabbitmq"))
	return nil
}

// Close closes the channel and connection.
func (a *RabbitMQTopicAdmin) Close() error {
	err := a.ch.Close()
	if a.conn != nil {
		if connErr := a.conn.Close(); connErr != nil && err == nil {
			err = connErr
		}
	}
	return err
}
