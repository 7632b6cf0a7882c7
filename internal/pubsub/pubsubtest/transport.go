// Package pubsubtest provides an in-memory Transport for tests.
package pubsubtest

import (
	"context"
	"slices"
	"sync"

	"github.com/ComNetsHH/FlowEmu/internal/pubsub"
)

// Message is a recorded publish.
type Message struct {
	Topic   string
	Payload string
}

// Transport records calls and lets tests drive connection events.
type Transport struct {
	mu sync.Mutex

	opts      pubsub.ConnectOptions
	events    pubsub.Events
	connected bool
	closed    bool

	subscribeCalls   []string
	unsubscribeCalls []string
	published        []Message
	active           []string

	// ConnectErr and PublishErr are returned by the matching calls when set.
	ConnectErr error
	PublishErr error
}

var _ pubsub.Transport = (*Transport)(nil)

// New returns a disconnected transport.
func New() *Transport { return &Transport{} }

func (t *Transport) Connect(_ context.Context, opts pubsub.ConnectOptions, ev pubsub.Events) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ConnectErr != nil {
		return t.ConnectErr
	}
	t.opts = opts
	t.events = ev
	return nil
}

func (t *Transport) Subscribe(pattern string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subscribeCalls = append(t.subscribeCalls, pattern)
	if !slices.Contains(t.active, pattern) {
		t.active = append(t.active, pattern)
	}
	return nil
}

func (t *Transport) Unsubscribe(pattern string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.unsubscribeCalls = append(t.unsubscribeCalls, pattern)
	t.active = slices.DeleteFunc(t.active, func(p string) bool { return p == pattern })
	return nil
}

func (t *Transport) Publish(topic string, payload []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.PublishErr != nil {
		return t.PublishErr
	}
	t.published = append(t.published, Message{Topic: topic, Payload: string(payload)})
	return nil
}

func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.connected = false
	return nil
}

// Up simulates a successful (re)connection. Like a real broker connection
// with a clean session, it forgets every transport-level subscription.
func (t *Transport) Up() {
	t.mu.Lock()
	t.connected = true
	t.active = nil
	ev := t.events
	t.mu.Unlock()
	if ev.OnConnect != nil {
		ev.OnConnect()
	}
}

// Down simulates a lost connection.
func (t *Transport) Down(err error) {
	t.mu.Lock()
	t.connected = false
	ev := t.events
	t.mu.Unlock()
	if ev.OnConnectionLost != nil {
		ev.OnConnectionLost(err)
	}
}

// Deliver simulates an inbound message.
func (t *Transport) Deliver(topic, payload string) {
	t.mu.Lock()
	ev := t.events
	t.mu.Unlock()
	if ev.OnMessage != nil {
		ev.OnMessage(topic, []byte(payload))
	}
}

// Options returns the options passed to Connect.
func (t *Transport) Options() pubsub.ConnectOptions {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.opts
}

// Active returns the patterns currently subscribed at the transport.
func (t *Transport) Active() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.active)
}

// SubscribeCalls returns every pattern passed to Subscribe, in order.
func (t *Transport) SubscribeCalls() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.subscribeCalls)
}

// UnsubscribeCalls returns every pattern passed to Unsubscribe, in order.
func (t *Transport) UnsubscribeCalls() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.unsubscribeCalls)
}

// Published returns every message published so far.
func (t *Transport) Published() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.published)
}

// Closed reports whether Close was called.
func (t *Transport) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// Reset forgets recorded calls and publishes.
func (t *Transport) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subscribeCalls = nil
	t.unsubscribeCalls = nil
	t.published = nil
}
