package broker

import (
	"context"
	"sync"
)

type memoryItem struct {
	msg        *Message
	onComplete CompletionFunc
}

// MemoryProducer is an in-process broker with a single partition per topic. A worker
// goroutine acknowledges messages in submission order. It backs local runs and tests.
type MemoryProducer struct {
	mu       sync.Mutex
	cond     *sync.Cond
	queue    []memoryItem
	inflight int
	drained  chan struct{}
	closed   bool
	done     chan struct{}

	offsets  map[string]int64
	messages map[string][]*Message
	failures map[string]error
}

// NewMemoryProducer creates a producer and starts its delivery worker.
func NewMemoryProducer() *MemoryProducer {
	p := &MemoryProducer{
		done:     make(chan struct{}),
		offsets:  make(map[string]int64),
		messages: make(map[string][]*Message),
		failures: make(map[string]error),
	}
	p.cond = sync.NewCond(&p.mu)

	go p.run()

	return p
}

// Produce queues msg for delivery.
func (p *MemoryProducer) Produce(_ context.Context, msg *Message, onComplete CompletionFunc) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		onComplete(nil, ErrProducerClosed)
		return
	}
	p.queue = append(p.queue, memoryItem{msg: cloneMessage(msg), onComplete: onComplete})
	p.inflight++
	p.cond.Signal()
	p.mu.Unlock()
}

// TryProduce is Produce; queueing never blocks.
func (p *MemoryProducer) TryProduce(ctx context.Context, msg *Message, onComplete CompletionFunc) {
	p.Produce(ctx, msg, onComplete)
}

func (p *MemoryProducer) run() {
	defer close(p.done)

	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}

		item := p.queue[0]
		p.queue = p.queue[1:]
		topic := item.msg.Topic

		var report *DeliveryReport
		err := p.failures[topic]
		if err == nil {
			report = &DeliveryReport{Topic: topic, Partition: 0, Offset: p.offsets[topic]}
			p.offsets[topic]++
			p.messages[topic] = append(p.messages[topic], item.msg)
		}
		p.mu.Unlock()

		item.onComplete(report, err)

		p.mu.Lock()
		p.inflight--
		if p.inflight == 0 && p.drained != nil {
			close(p.drained)
			p.drained = nil
		}
		p.mu.Unlock()
	}
}

// Flush waits until every queued message has been reported.
func (p *MemoryProducer) Flush(ctx context.Context) error {
	p.mu.Lock()
	if p.inflight == 0 {
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

// Ping fails once the producer is closed.
func (p *MemoryProducer) Ping(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrProducerClosed
	}
	return nil
}

// Close delivers what is already queued and stops the worker.
func (p *MemoryProducer) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		<-p.done
		return nil
	}
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()

	<-p.done
	return nil
}

// FailTopic makes every later delivery to topic fail with err. A nil err clears it.
func (p *MemoryProducer) FailTopic(topic string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err == nil {
		delete(p.failures, topic)
		return
	}
	p.failures[topic] = err
}

// Messages returns the messages acknowledged on topic, in offset order.
func (p *MemoryProducer) Messages(topic string) []*Message {
	p.mu.Lock()
	defer p.mu.Unlock()

	messages := make([]*Message, len(p.messages[topic]))
	copy(messages, p.messages[topic])
	return messages
}

func cloneMessage(msg *Message) *Message {
	clone := &Message{
		Topic: msg.Topic,
		Key:   msg.Key,
		Value: append([]byte(nil), msg.Value...),
	}
	if msg.Headers != nil {
		clone.Headers = make(map[string]string, len(msg.Headers))
		for key, value := range msg.Headers {
			clone.Headers[key] = value
		}
	}
	return clone
}

// MemoryTopicAdmin records provisioned topics.
type MemoryTopicAdmin struct {
	mu     sync.Mutex
	topics map[string]TopicSpec
}

// NewMemoryTopicAdmin creates an empty admin.
func NewMemoryTopicAdmin() *MemoryTopicAdmin {
	return &MemoryTopicAdmin{topics: make(map[string]TopicSpec)}
}

// CreateTopic records the topic. Recreating an existing topic keeps the first spec.
func (a *MemoryTopicAdmin) CreateTopic(_ context.Context, spec TopicSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.topics[spec.Name]; !ok {
		a.topics[spec.Name] = spec
	}
	return nil
}

// Topic returns the recorded spec for name.
func (a *MemoryTopicAdmin) Topic(name string) (TopicSpec, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	spec, ok := a.topics[name]
	return spec, ok
}

// Close is a no-op.
func (a *MemoryTopicAdmin) Close() error {
	return nil
}
