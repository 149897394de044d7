package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultTopic  string = "applytrack.events"
	defaultSource string = "applytrack.api"
)

var ErrProducerClosed = errors.New("event producer is closed")

// Writer is the interface to be implemented by the underlying writer.
type Writer interface {
	Write(ctx context.Context, topic string, e cloudevents.Event) error
	Close(ctx context.Context) error
}

// EventProducer is a wrapper around a Writer with the buffer.
// The caller never waits for the writer: events are queued and sent by a single goroutine.
type EventProducer struct {
	buffer  *buffer
	wakeCh  chan struct{}
	doneCh  chan struct{}
	stopped sync.WaitGroup
	once    sync.Once
	closed  bool
	mu      sync.RWMutex
	writer  Writer
	topic   string
	source  string
}

func NewEventProducer(w Writer, opts ...ProducerOptions) *EventProducer {
	ep := &EventProducer{
		buffer: newBuffer(),
		wakeCh: make(chan struct{}, 1),
		doneCh: make(chan struct{}),
		writer: w,
		topic:  defaultTopic,
		source: defaultSource,
	}

	for _, o := range opts {
		o(ep)
	}

	ep.stopped.Add(1)
	go ep.run()
	return ep
}

// Write queues an event of the given kind. subject is the id of the resource.
func (ep *EventProducer) Write(ctx context.Context, kind, subject string, payload any) error {
	d, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	ep.mu.RLock()
	defer ep.mu.RUnlock()
	if ep.closed {
		return ErrProducerClosed
	}

	ep.buffer.PushBack(&message{
		Kind:    kind,
		Subject: subject,
		Data:    d,
	})

	select {
	case ep.wakeCh <- struct{}{}:
	default:
	}

	return nil
}

// Close sends the pending events and closes the writer.
func (ep *EventProducer) Close() error {
	var err error
	ep.once.Do(func() {
		ep.mu.Lock()
		ep.closed = true
		ep.mu.Unlock()

		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		g, ctx := errgroup.WithContext(closeCtx)
		g.Go(func() error {
			close(ep.doneCh)
			ep.stopped.Wait()
			return ep.writer.Close(ctx)
		})
		if err = g.Wait(); err != nil {
			zap.S().Named("event_producer").Errorw("event producer closed with error", "error", err)
			return
		}

		zap.S().Named("event_producer").Info("event producer closed")
	})
	return err
}

func (ep *EventProducer) run() {
	defer ep.stopped.Done()

	for {
		for msg := ep.buffer.Pop(); msg != nil; msg = ep.buffer.Pop() {
			ep.send(msg)
		}

		select {
		case <-ep.wakeCh:
		case <-ep.doneCh:
			for msg := ep.buffer.Pop(); msg != nil; msg = ep.buffer.Pop() {
				ep.send(msg)
			}
			return
		}
	}
}

func (ep *EventProducer) send(msg *message) {
	e := cloudevents.NewEvent()
	e.SetID(uuid.NewString())
	e.SetSource(ep.source)
	e.SetType(msg.Kind)
	e.SetSubject(msg.Subject)
	e.SetTime(time.Now())
	_ = e.SetData(*cloudevents.StringOfApplicationJSON(), msg.Data)

	if err := ep.writer.Write(context.TODO(), ep.topic, e); err != nil {
		zap.S().Named("event_producer").Errorw("failed to send message", "error", err, "type", msg.Kind, "subject", msg.Subject)
	}
}
