package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/startupheroes/package-events/internal/broker"
	apperrors "github.com/startupheroes/package-events/internal/errors"
	eventsDomain "github.com/startupheroes/package-events/internal/events/domain"
	eventsService "github.com/startupheroes/package-events/internal/events/service"
	eventsMocks "github.com/startupheroes/package-events/internal/events/usecase/mocks"
)

// producedCall captures one Produce invocation so tests can complete it by hand.
type producedCall struct {
	ctx        context.Context
	msg        *broker.Message
	onComplete broker.CompletionFunc
	try        bool
}

// stubProducer records submissions without delivering them.
type stubProducer struct {
	mu    sync.Mutex
	calls []producedCall
}

func (s *stubProducer) Produce(ctx context.Context, msg *broker.Message, onComplete broker.CompletionFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, producedCall{ctx: ctx, msg: msg, onComplete: onComplete})
}

func (s *stubProducer) TryProduce(ctx context.Context, msg *broker.Message, onComplete broker.CompletionFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, producedCall{ctx: ctx, msg: msg, onComplete: onComplete, try: true})
}

func (s *stubProducer) Flush(context.Context) error { return nil }

func (s *stubProducer) Ping(context.Context) error { return nil }

func (s *stubProducer) Close() error { return nil }

func (s *stubProducer) produced() []producedCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]producedCall(nil), s.calls...)
}

// failingSerializer fails for selected package ids and encodes the rest as JSON.
type failingSerializer struct {
	failFor map[int64]bool
}

func (s *failingSerializer) Serialize(event *eventsDomain.PackageEvent) ([]byte, error) {
	if event != nil && s.failFor[event.ID] {
		return nil, errors.New("encoder exploded")
	}
	return eventsService.NewJSONSerializer().Serialize(event)
}

func (s *failingSerializer) ContentType() string {
	return eventsService.ContentTypeJSON
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEventPublisher_Publish(t *testing.T) {
	t.Run("Success_SubmitsKeyedMessage", func(t *testing.T) {
		producer := &stubProducer{}
		observer := &eventsMocks.MockDeliveryObserver{}
		serializer := eventsService.NewJSONSerializer()
		publisher := NewEventPublisher(producer, serializer, observer, "package-events", newTestLogger())

		event := &eventsDomain.PackageEvent{ID: 1}
		expectedPayload, err := serializer.Serialize(event)
		require.NoError(t, err)

		err = publisher.Publish(context.Background(), event)
		require.NoError(t, err)

		calls := producer.produced()
		require.Len(t, calls, 1)
		msg := calls[0].msg
		assert.Equal(t, "package-events", msg.Topic)
		assert.Equal(t, "1", msg.Key)
		assert.Equal(t, expectedPayload, msg.Value)
		assert.Equal(t, eventsService.ContentTypeJSON, msg.Headers[broker.HeaderContentType])
		assert.Equal(t, EventTypePackage, msg.Headers[broker.HeaderEventType])

		attemptID, err := uuid.Parse(msg.Headers[broker.HeaderAttemptID])
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), attemptID.Version())

		observer.AssertExpectations(t)
	})

	t.Run("Error_AttemptIDUnavailable", func(t *testing.T) {
		producer := &stubProducer{}
		observer := &eventsMocks.MockDeliveryObserver{}
		publisher := NewEventPublisher(
			producer,
			eventsService.NewJSONSerializer(),
			observer,
			"package-events",
			newTestLogger(),
		).(*eventPublisher)
		publisher.newAttemptID = func() (uuid.UUID, error) {
			return uuid.Nil, errors.New("entropy source exhausted")
		}

		var err error
		require.NotPanics(t, func() {
			err = publisher.Publish(context.Background(), &eventsDomain.PackageEvent{ID: 1})
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to generate attempt id")
		var serializationErr *eventsDomain.SerializationError
		assert.False(t, errors.As(err, &serializationErr))
		assert.False(t, errors.Is(err, apperrors.ErrInvalidInput))
		assert.Empty(t, producer.produced())
		observer.AssertExpectations(t)
	})

	t.Run("Success_DeliveryOutlivesRequestContext", func(t *testing.T) {
		producer := &stubProducer{}
		observer := &eventsMocks.MockDeliveryObserver{}
		publisher := NewEventPublisher(
			producer,
			eventsService.NewJSONSerializer(),
			observer,
			"package-events",
			newTestLogger(),
		)

		ctx, cancel := context.WithCancel(context.Background())
		require.NoError(t, publisher.Publish(ctx, &eventsDomain.PackageEvent{ID: 7}))
		cancel()

		calls := producer.produced()
		require.Len(t, calls, 1)
		assert.NoError(t, calls[0].ctx.Err())
	})

	t.Run("Success_AcknowledgmentReachesObserver", func(t *testing.T) {
		producer := &stubProducer{}
		observer := &eventsMocks.MockDeliveryObserver{}
		publisher := NewEventPublisher(
			producer,
			eventsService.NewJSONSerializer(),
			observer,
			"package-events",
			newTestLogger(),
		)

		report := &broker.DeliveryReport{Topic: "package-events", Partition: 0, Offset: 41}
		observer.On("Delivered", mock.Anything, int64(3), report).Return().Once()

		require.NoError(t, publisher.Publish(context.Background(), &eventsDomain.PackageEvent{ID: 3}))
		calls := producer.produced()
		require.Len(t, calls, 1)
		calls[0].onComplete(report, nil)

		observer.AssertExpectations(t)
	})

	t.Run("Success_FailureReachesObserverAsDeliveryError", func(t *testing.T) {
		producer := &stubProducer{}
		observer := &eventsMocks.MockDeliveryObserver{}
		publisher := NewEventPublisher(
			producer,
			eventsService.NewJSONSerializer(),
			observer,
			"package-events",
			newTestLogger(),
		)

		observer.On("Failed", mock.Anything, mock.AnythingOfType("*broker.Message"),
			mock.MatchedBy(func(err *eventsDomain.DeliveryError) bool {
				return err.PackageID == 3 && err.Topic == "package-events" &&
					errors.Is(err, broker.ErrNotAcknowledged)
			}),
		).Return().Once()

		require.NoError(t, publisher.Publish(context.Background(), &eventsDomain.PackageEvent{ID: 3}))
		calls := producer.produced()
		require.Len(t, calls, 1)
		calls[0].onComplete(nil, broker.ErrNotAcknowledged)

		observer.AssertExpectations(t)
	})

	t.Run("Success_ObserverPanicIsContained", func(t *testing.T) {
		producer := &stubProducer{}
		observer := &eventsMocks.MockDeliveryObserver{}
		publisher := NewEventPublisher(
			producer,
			eventsService.NewJSONSerializer(),
			observer,
			"package-events",
			newTestLogger(),
		)

		observer.On("Delivered", mock.Anything, int64(5), mock.Anything).
			Run(func(args mock.Arguments) { panic("observer exploded") }).
			Return().
			Once()

		require.NoError(t, publisher.Publish(context.Background(), &eventsDomain.PackageEvent{ID: 5}))
		calls := producer.produced()
		require.Len(t, calls, 1)

		assert.NotPanics(t, func() {
			calls[0].onComplete(&broker.DeliveryReport{Topic: "package-events"}, nil)
		})
		observer.AssertExpectations(t)
	})

	t.Run("Error_SerializationFailureSkipsBroker", func(t *testing.T) {
		producer := &stubProducer{}
		observer := &eventsMocks.MockDeliveryObserver{}
		publisher := NewEventPublisher(
			producer,
			&failingSerializer{failFor: map[int64]bool{9: true}},
			observer,
			"package-events",
			newTestLogger(),
		)

		err := publisher.Publish(context.Background(), &eventsDomain.PackageEvent{ID: 9})

		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrSerialization))
		assert.Equal(t, "Failed to serialize package: 9", err.Error())

		var serializationErr *eventsDomain.SerializationError
		require.ErrorAs(t, err, &serializationErr)
		assert.Equal(t, int64(9), serializationErr.PackageID)
		assert.Empty(t, producer.produced())
	})

	t.Run("Error_NilEvent", func(t *testing.T) {
		producer := &stubProducer{}
		publisher := NewEventPublisher(
			producer,
			eventsService.NewJSONSerializer(),
			&eventsMocks.MockDeliveryObserver{},
			"package-events",
			newTestLogger(),
		)

		err := publisher.Publish(context.Background(), nil)

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		assert.Empty(t, producer.produced())
	})
}

func TestEventPublisher_PublishAll(t *testing.T) {
	t.Run("Success_CountsAcceptedEvents", func(t *testing.T) {
		producer := &stubProducer{}
		publisher := NewEventPublisher(
			producer,
			&failingSerializer{failFor: map[int64]bool{2: true}},
			&eventsMocks.MockDeliveryObserver{},
			"package-events",
			newTestLogger(),
		)

		events := []*eventsDomain.PackageEvent{{ID: 1}, {ID: 2}, {ID: 3}}

		queued := publisher.PublishAll(context.Background(), events)

		assert.Equal(t, 2, queued)
		calls := producer.produced()
		require.Len(t, calls, 2)
		assert.Equal(t, "1", calls[0].msg.Key)
		assert.Equal(t, "3", calls[1].msg.Key)
	})

	t.Run("Success_EmptyBatch", func(t *testing.T) {
		producer := &stubProducer{}
		publisher := NewEventPublisher(
			producer,
			eventsService.NewJSONSerializer(),
			&eventsMocks.MockDeliveryObserver{},
			"package-events",
			newTestLogger(),
		)

		assert.Equal(t, 0, publisher.PublishAll(context.Background(), nil))
		assert.Empty(t, producer.produced())
	})
}
