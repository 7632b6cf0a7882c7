package pubsub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ComNetsHH/FlowEmu/internal/ctxlog"
	"github.com/ComNetsHH/FlowEmu/internal/topic"
	"github.com/sony/gobreaker"
)

var (
	// ErrStopped is returned by operations on a stopped client.
	ErrStopped = errors.New("pubsub: client stopped")
	// ErrBreakerOpen is returned by Publish while the circuit breaker is open.
	ErrBreakerOpen = gobreaker.ErrOpenState
)

// DefaultKeepAlive is the keepalive requested from the transport.
const DefaultKeepAlive = 30 * time.Second

// Handler receives a delivered message.
type Handler func(topic string, payload []byte)

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	pattern string
	handler Handler
	active  atomic.Bool
}

// Pattern returns the subscribed topic pattern.
func (s *Subscription) Pattern() string { return s.pattern }

// Active reports whether the subscription is still registered.
func (s *Subscription) Active() bool { return s.active.Load() }

// Recorder observes client activity, typically for metrics.
type Recorder interface {
	ObservePublish(topic string, size int, err error)
	ObserveDelivery(pattern string)
	ObserveConnection(connected bool)
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) Option { return func(c *Client) { c.logger = ctxlog.OrDiscard(l) } }

// WithExecutor sets where handlers run. The default runs them synchronously
// on the transport's goroutine; the application passes its event loop.
func WithExecutor(exec func(func())) Option { return func(c *Client) { c.exec = exec } }

// WithKeepAlive sets the keepalive passed to the transport.
func WithKeepAlive(d time.Duration) Option { return func(c *Client) { c.opts.KeepAlive = d } }

// WithCleanSession sets the clean-session flag passed to the transport.
func WithCleanSession(clean bool) Option { return func(c *Client) { c.opts.CleanSession = clean } }

// WithRecorder installs an activity observer.
func WithRecorder(r Recorder) Option { return func(c *Client) { c.recorder = r } }

// WithBreaker guards Publish with a circuit breaker.
func WithBreaker(cfg BreakerConfig) Option { return func(c *Client) { c.breakerCfg = &cfg } }

// Client is the pub/sub facade. It is safe for concurrent use.
type Client struct {
	transport  Transport
	opts       ConnectOptions
	logger     *slog.Logger
	exec       func(func())
	recorder   Recorder
	breakerCfg *BreakerConfig
	breaker    *gobreaker.CircuitBreaker

	mu        sync.Mutex
	subs      []*Subscription
	connected bool
	stopped   bool

	// sendMu orders transport subscribe and unsubscribe calls. Each call
	// rechecks the registry under mu once it holds sendMu.
	sendMu sync.Mutex
}

// New creates a client over t. Nothing is sent until Start.
func New(t Transport, opts ...Option) *Client {
	c := &Client{
		transport: t,
		opts:      ConnectOptions{KeepAlive: DefaultKeepAlive, CleanSession: true},
		logger:    ctxlog.OrDiscard(nil),
		exec:      func(f func()) { f() },
	}
	for _, opt := range opts {
		opt(c)
	}
	c.opts.AutoResubscribe = false
	c.logger = c.logger.With("component", "pubsub")
	if c.breakerCfg != nil {
		c.breaker = newBreaker(*c.breakerCfg, c.logger)
	}
	return c
}

// Start connects the transport. Subscriptions registered before or after
// Start are sent on every successful connection.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return ErrStopped
	}
	c.mu.Unlock()

	c.logger.Debug("Connecting transport.", "keepalive", c.opts.KeepAlive, "clean_session", c.opts.CleanSession)
	err := c.transport.Connect(ctx, c.opts, Events{
		OnConnect:        c.handleConnect,
		OnConnectionLost: c.handleConnectionLost,
		OnMessage:        c.handleMessage,
	})
	if err != nil {
		return fmt.Errorf("failed to connect transport: %w", err)
	}
	return nil
}

// Stop clears every subscription and closes the transport.
func (c *Client) Stop() error {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return nil
	}
	c.stopped = true
	c.connected = false
	for _, s := range c.subs {
		s.active.Store(false)
	}
	c.subs = nil
	c.mu.Unlock()

	c.logger.Debug("Closing transport.")
	return c.transport.Close()
}

// Connected reports whether the transport is currently connected.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Subscribe registers handler for pattern. If connected, the pattern is
// also sent to the transport right away.
func (c *Client) Subscribe(pattern string, handler Handler) *Subscription {
	s := &Subscription{pattern: pattern, handler: handler}
	s.active.Store(true)

	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		s.active.Store(false)
		return s
	}
	c.subs = append(c.subs, s)
	send := c.connected
	c.mu.Unlock()

	if send {
		c.sendSubscribe(pattern)
	}
	return s
}

// Unsubscribe removes every subscription whose pattern equals pattern
// exactly and unsubscribes the pattern at the transport.
func (c *Client) Unsubscribe(pattern string) {
	c.mu.Lock()
	removed := 0
	kept := c.subs[:0]
	for _, s := range c.subs {
		if s.pattern == pattern {
			s.active.Store(false)
			removed++
			continue
		}
		kept = append(kept, s)
	}
	clear(c.subs[len(kept):])
	c.subs = kept
	send := removed > 0 && c.connected
	c.mu.Unlock()

	if send {
		c.sendUnsubscribe(pattern)
	}
}

// UnsubscribeHandle removes exactly one subscription. The pattern is
// unsubscribed at the transport only if no other subscription uses it.
func (c *Client) UnsubscribeHandle(s *Subscription) {
	if s == nil {
		return
	}
	c.mu.Lock()
	idx := -1
	shared := false
	for i, o := range c.subs {
		switch {
		case o == s:
			idx = i
		case o.pattern == s.pattern:
			shared = true
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return
	}
	s.active.Store(false)
	c.subs = append(c.subs[:idx], c.subs[idx+1:]...)
	send := !shared && c.connected
	c.mu.Unlock()

	if send {
		c.sendUnsubscribe(s.pattern)
	}
}

// Publish encodes payload (see Encode) and sends it on topic.
func (c *Client) Publish(topic string, payload any) error {
	c.mu.Lock()
	stopped := c.stopped
	c.mu.Unlock()
	if stopped {
		return ErrStopped
	}

	b, err := Encode(payload)
	if err != nil {
		return err
	}

	send := func() (any, error) { return nil, c.transport.Publish(topic, b) }
	if c.breaker != nil {
		_, err = c.breaker.Execute(send)
	} else {
		_, err = send()
	}
	if c.recorder != nil {
		c.recorder.ObservePublish(topic, len(b), err)
	}
	if err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	c.logger.Debug("Message published.", "topic", topic, "bytes", len(b))
	return nil
}

// Patterns returns the distinct registered patterns in registration order.
func (c *Client) Patterns() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.patternsLocked()
}

func (c *Client) patternsLocked() []string {
	seen := make(map[string]struct{}, len(c.subs))
	var out []string
	for _, s := range c.subs {
		if _, ok := seen[s.pattern]; ok {
			continue
		}
		seen[s.pattern] = struct{}{}
		out = append(out, s.pattern)
	}
	return out
}

func (c *Client) handleConnect() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.connected = true
	patterns := c.patternsLocked()
	c.mu.Unlock()

	c.logger.Info("🔌 Connected to message bus, restoring subscriptions.", "patterns", len(patterns))
	if c.recorder != nil {
		c.recorder.ObserveConnection(true)
	}
	for _, p := range patterns {
		c.sendSubscribe(p)
	}
}

func (c *Client) handleConnectionLost(err error) {
	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()

	c.logger.Warn("Connection to message bus lost.", "error", err)
	if c.recorder != nil {
		c.recorder.ObserveConnection(false)
	}
}

func (c *Client) handleMessage(t string, payload []byte) {
	c.mu.Lock()
	var matched []*Subscription
	for _, s := range c.subs {
		if topic.Matches(s.pattern, t) {
			matched = append(matched, s)
		}
	}
	c.mu.Unlock()

	if len(matched) == 0 {
		c.logger.Debug("Message matched no subscription.", "topic", t)
		return
	}
	c.exec(func() {
		for _, s := range matched {
			// Skip subscriptions removed after the message arrived.
			if !s.active.Load() {
				continue
			}
			if c.recorder != nil {
				c.recorder.ObserveDelivery(s.pattern)
			}
			s.handler(t, payload)
		}
	})
}

func (c *Client) sendSubscribe(pattern string) {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.shouldSend(pattern, true) {
		return
	}
	if err := c.transport.Subscribe(pattern); err != nil {
		c.logger.Warn("Transport subscribe failed, will retry on reconnect.", "pattern", pattern, "error", err)
	}
}

func (c *Client) sendUnsubscribe(pattern string) {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.shouldSend(pattern, false) {
		return
	}
	if err := c.transport.Unsubscribe(pattern); err != nil {
		c.logger.Warn("Transport unsubscribe failed.", "pattern", pattern, "error", err)
	}
}

// shouldSend reports whether the registry still wants pattern subscribed
// (or dropped) at a connected transport.
func (c *Client) shouldSend(pattern string, subscribe bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return false
	}
	registered := slices.ContainsFunc(c.subs, func(s *Subscription) bool { return s.pattern == pattern })
	return registered == subscribe
}
