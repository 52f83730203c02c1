package broker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

func TestToKafkaRecord(t *testing.T) {
	record := toKafkaRecord(&Message{
		Topic: "package-events",
		Key:   "42",
		Value: []byte(`{"id":42}`),
		Headers: map[string]string{
			HeaderEventType:   "package",
			HeaderAttemptID:   "0190b1f2",
			HeaderContentType: "application/json",
		},
	})

	assert.Equal(t, "package-events", record.Topic)
	assert.Equal(t, []byte("42"), record.Key)
	assert.Equal(t, []byte(`{"id":42}`), record.Value)
	require.Len(t, record.Headers, 3)
	assert.Equal(t, HeaderAttemptID, record.Headers[0].Key)
	assert.Equal(t, HeaderContentType, record.Headers[1].Key)
	assert.Equal(t, HeaderEventType, record.Headers[2].Key)
	assert.Equal(t, []byte("package"), record.Headers[2].Value)
}

func TestKafkaConfig_Options(t *testing.T) {
	t.Run("Error_NoBrokers", func(t *testing.T) {
		_, err := KafkaConfig{}.options()

		assert.Error(t, err)
	})

	t.Run("Success_AllOptions", func(t *testing.T) {
		opts, err := KafkaConfig{
			Brokers:            []string{"localhost:9092"},
			ClientID:           "package-events",
			DeliveryTimeout:    time.Second,
			MaxBufferedRecords: 100,
		}.options()

		require.NoError(t, err)
		assert.Len(t, opts, 5)
	})
}

func TestNewKafkaProducer(t *testing.T) {
	t.Run("Success_NoConnectionUntilProduce", func(t *testing.T) {
		producer, err := NewKafkaProducer(KafkaConfig{Brokers: []string{"localhost:9092"}}, testLogger())

		require.NoError(t, err)
		assert.NoError(t, producer.Close())
	})

	t.Run("Error_NoBrokers", func(t *testing.T) {
		_, err := NewKafkaProducer(KafkaConfig{}, testLogger())

		assert.Error(t, err)
	})
}

func TestKafkaTopicAdmin_CreateTopic_EmptyName(t *testing.T) {
	admin, err := NewKafkaTopicAdmin(KafkaConfig{Brokers: []string{"localhost:9092"}}, testLogger())
	require.NoError(t, err)
	defer func() { _ = admin.Close() }()

	assert.ErrorIs(t, admin.CreateTopic(t.Context(), TopicSpec{}), ErrEmptyTopic)
}

func TestKafkaProducer_TryProduce(t *testing.T) {
	t.Run("Error_FullBufferReportedWithoutBlocking", func(t *testing.T) {
		producer, err := NewKafkaProducer(KafkaConfig{
			Brokers:            []string{"127.0.0.1:1"},
			MaxBufferedRecords: 1,
		}, testLogger())
		require.NoError(t, err)

		msg := &Message{Topic: "package-events", Key: "1", Value: []byte(`{"id":1}`)}

		buffered := make(chan outcome, 1)
		producer.Produce(context.Background(), msg, collect(buffered))

		rejected := make(chan outcome, 1)
		producer.TryProduce(context.Background(), msg, collect(rejected))

		select {
		case result := <-rejected:
			assert.Nil(t, result.report)
			assert.ErrorIs(t, result.err, kgo.ErrMaxBuffered)
		case <-time.After(5 * time.Second):
			t.Fatal("TryProduce did not report a full buffer")
		}

		require.NoError(t, producer.Close())
		assert.Error(t, (<-buffered).err)
	})
}
