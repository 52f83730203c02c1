package app

import (
	"fmt"

	eventsHTTP "github.com/startupheroes/package-events/internal/events/http"
	eventsUseCase "github.com/startupheroes/package-events/internal/events/usecase"
)

// DeliveryObserver returns the observer of asynchronous delivery outcomes.
func (c *Container) DeliveryObserver() (eventsUseCase.DeliveryObserver, error) {
	var err error
	c.deliveryObserverInit.Do(func() {
		c.deliveryObserver, err = c.initDeliveryObserver()
		if err != nil {
			c.initErrors["deliveryObserver"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["deliveryObserver"]; exists {
		return nil, storedErr
	}
	return c.deliveryObserver, nil
}

// EventPublisher returns the publisher that hands events to the broker.
func (c *Container) EventPublisher() (eventsUseCase.EventPublisher, error) {
	var err error
	c.eventPublisherInit.Do(func() {
		c.eventPublisher, err = c.initEventPublisher()
		if err != nil {
			c.initErrors["eventPublisher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["eventPublisher"]; exists {
		return nil, storedErr
	}
	return c.eventPublisher, nil
}

// PackageEventUseCase returns the package event use case wrapped with metrics.
func (c *Container) PackageEventUseCase() (eventsUseCase.PackageEventUseCase, error) {
	var err error
	c.packageEventUseCaseInit.Do(func() {
		c.packageEventUseCase, err = c.initPackageEventUseCase()
		if err != nil {
			c.initErrors["packageEventUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["packageEventUseCase"]; exists {
		return nil, storedErr
	}
	return c.packageEventUseCase, nil
}

// PackageEventHandler returns the HTTP handler of the publish endpoints.
func (c *Container) PackageEventHandler() (*eventsHTTP.PackageEventHandler, error) {
	var err error
	c.packageEventHandlerInit.Do(func() {
		c.packageEventHandler, err = c.initPackageEventHandler()
		if err != nil {
			c.initErrors["packageEventHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["packageEventHandler"]; exists {
		return nil, storedErr
	}
	return c.packageEventHandler, nil
}

// initDeliveryObserver creates the delivery observer with all its dependencies.
func (c *Container) initDeliveryObserver() (eventsUseCase.DeliveryObserver, error) {
	producer, err := c.Producer()
	if err != nil {
		return nil, fmt.Errorf("failed to get producer for delivery observer: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for delivery observer: %w", err)
	}

	return eventsUseCase.NewDeliveryObserver(
		producer,
		c.config.DeadLetterTopic,
		businessMetrics,
		c.Logger(),
	), nil
}

// initEventPublisher creates the event publisher with all its dependencies.
func (c *Container) initEventPublisher() (eventsUseCase.EventPublisher, error) {
	producer, err := c.Producer()
	if err != nil {
		return nil, fmt.Errorf("failed to get producer for event publisher: %w", err)
	}

	serializer, err := c.Serializer()
	if err != nil {
		return nil, fmt.Errorf("failed to get serializer for event publisher: %w", err)
	}

	observer, err := c.DeliveryObserver()
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery observer for event publisher: %w", err)
	}

	return eventsUseCase.NewEventPublisher(
		producer,
		serializer,
		observer,
		c.config.BrokerTopic,
		c.Logger(),
	), nil
}

// initPackageEventUseCase creates the package event use case with all its dependencies.
func (c *Container) initPackageEventUseCase() (eventsUseCase.PackageEventUseCase, error) {
	packageRepository, err := c.PackageRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get package repository for package event use case: %w", err)
	}

	publisher, err := c.EventPublisher()
	if err != nil {
		return nil, fmt.Errorf("failed to get event publisher for package event use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for package event use case: %w", err)
	}

	useCase := eventsUseCase.NewPackageEventUseCase(packageRepository, publisher, c.Logger())
	return eventsUseCase.NewPackageEventUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initPackageEventHandler creates the package event HTTP handler.
func (c *Container) initPackageEventHandler() (*eventsHTTP.PackageEventHandler, error) {
	useCase, err := c.PackageEventUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get package event use case for handler: %w", err)
	}

	return eventsHTTP.NewPackageEventHandler(useCase, c.Logger()), nil
}
