// Package mocks provides mock implementations of the events use case interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/startupheroes/package-events/internal/broker"
	eventsDomain "github.com/startupheroes/package-events/internal/events/domain"
	packagesDomain "github.com/startupheroes/package-events/internal/packages/domain"
)

// MockPackageRepository is a mock implementation of PackageRepository for testing.
type MockPackageRepository struct {
	mock.Mock
}

// FindByID mocks the FindByID method of PackageRepository.
func (m *MockPackageRepository) FindByID(ctx context.Context, id int64) (*packagesDomain.Package, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*packagesDomain.Package), args.Error(1)
}

// FindAllNonCancelled mocks the FindAllNonCancelled method of PackageRepository.
func (m *MockPackageRepository) FindAllNonCancelled(ctx context.Context) ([]*packagesDomain.Package, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*packagesDomain.Package), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing.
type MockEventPublisher struct {
	mock.Mock
}

// Publish mocks the Publish method of EventPublisher.
func (m *MockEventPublisher) Publish(ctx context.Context, event *eventsDomain.PackageEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// PublishAll mocks the PublishAll method of EventPublisher.
func (m *MockEventPublisher) PublishAll(ctx context.Context, events []*eventsDomain.PackageEvent) int {
	args := m.Called(ctx, events)
	return args.Int(0)
}

// MockDeliveryObserver is a mock implementation of DeliveryObserver for testing.
type MockDeliveryObserver struct {
	mock.Mock
}

// Delivered mocks the Delivered method of DeliveryObserver.
func (m *MockDeliveryObserver) Delivered(ctx context.Context, packageID int64, report *broker.DeliveryReport) {
	m.Called(ctx, packageID, report)
}

// Failed mocks the Failed method of DeliveryObserver.
func (m *MockDeliveryObserver) Failed(
	ctx context.Context,
	msg *broker.Message,
	err *eventsDomain.DeliveryError,
) {
	m.Called(ctx, msg, err)
}

// MockPackageEventUseCase is a mock implementation of PackageEventUseCase for testing.
type MockPackageEventUseCase struct {
	mock.Mock
}

// SendOne mocks the SendOne method of PackageEventUseCase.
func (m *MockPackageEventUseCase) SendOne(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

// SendAll mocks the SendAll method of PackageEventUseCase.
func (m *MockPackageEventUseCase) SendAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
