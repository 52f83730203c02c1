package app

import (
	"fmt"

	"github.com/startupheroes/package-events/internal/broker"
	"github.com/startupheroes/package-events/internal/config"
	eventsService "github.com/startupheroes/package-events/internal/events/service"
)

// Producer returns the broker producer selected by BROKER_DRIVER.
func (c *Container) Producer() (broker.Producer, error) {
	var err error
	c.producerInit.Do(func() {
		c.producer, err = c.initProducer()
		if err != nil {
			c.initErrors["producer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["producer"]; exists {
		return nil, storedErr
	}
	return c.producer, nil
}

// TopicAdmin returns the topic provisioning client selected by BROKER_DRIVER.
func (c *Container) TopicAdmin() (broker.TopicAdmin, error) {
	var err error
	c.topicAdminInit.Do(func() {
		c.topicAdmin, err = c.initTopicAdmin()
		if err != nil {
			c.initErrors["topicAdmin"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["topicAdmin"]; exists {
		return nil, storedErr
	}
	return c.topicAdmin, nil
}

// Serializer returns the event encoder selected by EVENT_ENCODING.
func (c *Container) Serializer() (eventsService.Serializer, error) {
	var err error
	c.serializerInit.Do(func() {
		c.serializer, err = eventsService.NewSerializer(c.config.EventEncoding)
		if err != nil {
			c.initErrors["serializer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["serializer"]; exists {
		return nil, storedErr
	}
	return c.serializer, nil
}

// TopicSpec returns the provisioning settings of the event topic.
func (c *Container) TopicSpec() broker.TopicSpec {
	return broker.TopicSpec{
		Name:              c.config.BrokerTopic,
		Partitions:        int32(c.config.KafkaTopicPartitions),
		ReplicationFactor: int16(c.config.KafkaTopicReplicationFactor),
	}
}

// initProducer creates the producer for the configured broker driver.
func (c *Container) initProducer() (broker.Producer, error) {
	logger := c.Logger()

	switch c.config.BrokerDriver {
	case config.BrokerDriverKafka:
		producer, err := broker.NewKafkaProducer(c.kafkaConfig(), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create kafka producer: %w", err)
		}
		return producer, nil
	case config.BrokerDriverRabbitMQ:
		producer, err := broker.NewRabbitMQProducer(c.rabbitMQConfig(), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create rabbitmq producer: %w", err)
		}
		return producer, nil
	case config.BrokerDriverMemory:
		return broker.NewMemoryProducer(), nil
	default:
		return nil, fmt.Errorf("unsupported broker driver: %s", c.config.BrokerDriver)
	}
}

// initTopicAdmin creates the topic admin for the configured broker driver.
func (c *Container) initTopicAdmin() (broker.TopicAdmin, error) {
	logger := c.Logger()

	switch c.config.BrokerDriver {
	case config.BrokerDriverKafka:
		admin, err := broker.NewKafkaTopicAdmin(c.kafkaConfig(), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create kafka topic admin: %w", err)
		}
		return admin, nil
	case config.BrokerDriverRabbitMQ:
		admin, err := broker.NewRabbitMQTopicAdmin(c.rabbitMQConfig(), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create rabbitmq topic admin: %w", err)
		}
		return admin, nil
	case config.BrokerDriverMemory:
		return broker.NewMemoryTopicAdmin(), nil
	default:
		return nil, fmt.Errorf("unsupported broker driver: %s", c.config.BrokerDriver)
	}
}

func (c *Container) kafkaConfig() broker.KafkaConfig {
	return broker.KafkaConfig{
		Brokers:            c.config.KafkaSeedBrokers(),
		ClientID:           c.config.KafkaClientID,
		DeliveryTimeout:    c.config.KafkaDeliveryTimeout,
		MaxBufferedRecords: c.config.KafkaMaxBufferedRecords,
	}
}

func (c *Container) rabbitMQConfig() broker.RabbitMQConfig {
	return broker.RabbitMQConfig{
		URL:            c.config.RabbitMQURL,
		ConfirmTimeout: c.config.RabbitMQConfirmTimeout,
	}
}
