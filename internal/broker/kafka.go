package broker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaConfig configures the Kafka client.
type KafkaConfig struct {
	Brokers         []string
	ClientID        string
	DeliveryTimeout time.Duration
	// MaxBufferedRecords caps records awaiting acknowledgment. Zero keeps the client default.
	MaxBufferedRecords int
}

func (c KafkaConfig) options() ([]kgo.Opt, error) {
	if len(c.Brokers) == 0 {
		return nil, errors.New("broker: at least one kafka broker is required")
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(c.Brokers...),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	}
	if c.ClientID != "" {
		opts = append(opts, kgo.ClientID(c.ClientID))
	}
	if c.DeliveryTimeout > 0 {
		opts = append(opts, kgo.RecordDeliveryTimeout(c.DeliveryTimeout))
	}
	if c.MaxBufferedRecords > 0 {
		opts = append(opts, kgo.MaxBufferedRecords(c.MaxBufferedRecords))
	}
	return opts, nil
}

// KafkaProducer publishes messages to Kafka. Records with the same key land on the
// same partition, which keeps per-package ordering.
type KafkaProducer struct {
	client *kgo.Client
	logger *slog.Logger
}

// NewKafkaProducer creates a producer. No connection is made until the first produce.
func NewKafkaProducer(cfg KafkaConfig, logger *slog.Logger) (*KafkaProducer, error) {
	opts, err := cfg.options()
	if err != nil {
		return nil, err
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	return &KafkaProducer{client: client, logger: logger}, nil
}

// Produce submits msg and reports the outcome through onComplete. It blocks while
// the client buffer is full.
func (p *KafkaProducer) Produce(ctx context.Context, msg *Message, onComplete CompletionFunc) {
	p.client.Produce(ctx, toKafkaRecord(msg), promise(onComplete))
}

// TryProduce submits msg without waiting for buffer space. A full buffer is
// reported as kgo.ErrMaxBuffered.
func (p *KafkaProducer) TryProduce(ctx context.Context, msg *Message, onComplete CompletionFunc) {
	p.client.TryProduce(ctx, toKafkaRecord(msg), promise(onComplete))
}

func promise(onComplete CompletionFunc) func(*kgo.Record, error) {
	return func(record *kgo.Record, err error) {
		if err != nil {
			onComplete(nil, err)
			return
		}
		onComplete(&DeliveryReport{
			Topic:     record.Topic,
			Partition: record.Partition,
			Offset:    record.Offset,
		}, nil)
	}
}

// Flush waits for all buffered records to be acknowledged or failed.
func (p *KafkaProducer) Flush(ctx context.Context) error {
	return p.client.Flush(ctx)
}

// Ping checks that at least one broker answers.
func (p *KafkaProducer) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}

// Close closes the client. Unflushed records fail with a client-closed error.
func (p *KafkaProducer) Close() error {
	p.client.Close()
	return nil
}

func toKafkaRecord(msg *Message) *kgo.Record {
	record := &kgo.Record{
		Topic: msg.Topic,
		Key:   []byte(msg.Key),
		Value: msg.Value,
	}
	for _, key := range sortedHeaderKeys(msg.Headers) {
		record.Headers = append(record.Headers, kgo.RecordHeader{
			Key:   key,
			Value: []byte(msg.Headers[key]),
		})
	}
	return record
}

// KafkaTopicAdmin provisions Kafka topics.
type KafkaTopicAdmin struct {
	client *kgo.Client
	admin  *kadm.Client
	logger *slog.Logger
}

// NewKafkaTopicAdmin creates an admin client.
func NewKafkaTopicAdmin(cfg KafkaConfig, logger *slog.Logger) (*KafkaTopicAdmin, error) {
	opts, err := cfg.options()
	if err != nil {
		return nil, err
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	return &KafkaTopicAdmin{
		client: client,
		admin:  kadm.NewClient(client),
		logger: logger,
	}, nil
}

// CreateTopic creates the topic with the given partition and replica counts.
func (a *KafkaTopicAdmin) CreateTopic(ctx context.Context, spec TopicSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	resp, err := a.admin.CreateTopic(ctx, spec.Partitions, spec.ReplicationFactor, nil, spec.Name)
	if err != nil {
		return fmt.Errorf("failed to create topic %s: %w", spec.Name, err)
	}
	if resp.Err != nil {
		if errors.Is(resp.Err, kerr.TopicAlreadyExists) {
			a.logger.Info("topic already exists", slog.String("topic", spec.Name))
			return nil
		}
		return fmt.Errorf("failed to create topic %s: %w", spec.Name, resp.Err)
	}

	a.logger.Info("topic created",
		slog.String("topic", spec.Name),
		slog.Int("partitions", int(resp.NumPartitions)),
		slog.Int("replication_factor", int(resp.ReplicationFactor)),
	)
	return nil
}

// Close closes the underlying client.
func (a *KafkaTopicAdmin) Close() error {
	a.client.Close()
	return nil
}
