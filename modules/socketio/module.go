// Package socketio provides a transport that reaches the message bus through
// a socket.io bridge. The bridge speaks a small event protocol: the client
// emits "subscribe" and "unsubscribe" with a topic pattern and "publish" with
// a {topic, payload} frame; the bridge emits "message" with the topic and the
// payload for every delivery.
package socketio

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ComNetsHH/FlowEmu/internal/pubsub"
	"github.com/ComNetsHH/FlowEmu/internal/registry"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Bridge event names.
const (
	EventSubscribe   = "subscribe"
	EventUnsubscribe = "unsubscribe"
	EventPublish     = "publish"
	EventMessage     = "message"
)

// Schemes are the bridge URL schemes this transport accepts.
var Schemes = []string{"http", "https"}

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the transport with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTransport(&registry.RegisteredTransport{
		Name: "socketio",
		New: func(_ context.Context, cfg registry.TransportConfig) (pubsub.Transport, error) {
			return New(cfg), nil
		},
	}, Schemes...)
}

// Transport is a pubsub.Transport over a socket.io connection.
type Transport struct {
	cfg    registry.TransportConfig
	logger *slog.Logger

	mu sync.Mutex
	io *socket.Socket
}

// New creates an unconnected transport.
func New(cfg registry.TransportConfig) *Transport {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Transport{cfg: cfg, logger: logger.With("transport", "socketio")}
}

// Connect opens the socket. The socket.io manager reconnects on its own and
// every successful (re)connection fires ev.OnConnect.
func (t *Transport) Connect(_ context.Context, _ pubsub.ConnectOptions, ev pubsub.Events) error {
	if t.cfg.URL == nil {
		return fmt.Errorf("socketio: no bridge url")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.io != nil {
		return fmt.Errorf("socketio: already connected")
	}

	u := t.cfg.URL
	opts := socket.DefaultOptions()
	opts.SetPath(u.Path)
	if t.cfg.TLS != nil {
		if t.cfg.TLS.InsecureSkipVerify {
			t.logger.Warn("Skipping TLS certificate verification.")
		}
		opts.SetTLSClientConfig(t.cfg.TLS.Clone())
	} else if u.Scheme == "https" {
		opts.SetTLSClientConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))
	opts.SetReconnection(true)

	baseURL := fmt.Sprintf("%s://%s", u.Scheme, u.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(t.cfg.Namespace, opts)

	io.On(types.EventName("connect"), func(...any) {
		t.logger.Debug("Socket connected.", "sid", io.Id())
		if ev.OnConnect != nil {
			ev.OnConnect()
		}
	})
	io.On(types.EventName("disconnect"), func(args ...any) {
		if ev.OnConnectionLost != nil {
			ev.OnConnectionLost(disconnectError(args...))
		}
	})
	io.On(types.EventName("connect_error"), func(args ...any) {
		t.logger.Warn("Bridge connection attempt failed.", "error", disconnectError(args...))
	})
	io.On(types.EventName(EventMessage), func(args ...any) {
		topic, payload, err := DecodeMessage(args...)
		if err != nil {
			t.logger.Warn("Dropping malformed bridge message.", "error", err)
			return
		}
		if ev.OnMessage != nil {
			ev.OnMessage(topic, payload)
		}
	})

	t.logger.Info("Connecting to bridge.", "url", u.Redacted(), "namespace", t.cfg.Namespace)
	io.Connect()
	t.io = io
	return nil
}

func (t *Transport) emit(event string, args ...any) error {
	t.mu.Lock()
	io := t.io
	t.mu.Unlock()
	if io == nil {
		return fmt.Errorf("socketio %s: not connected", event)
	}
	if !io.Connected() {
		return fmt.Errorf("socketio %s: socket is offline", event)
	}
	io.Emit(event, args...)
	return nil
}

// Subscribe asks the bridge to forward messages matching pattern.
func (t *Transport) Subscribe(pattern string) error {
	return t.emit(EventSubscribe, pattern)
}

// Unsubscribe asks the bridge to stop forwarding pattern.
func (t *Transport) Unsubscribe(pattern string) error {
	return t.emit(EventUnsubscribe, pattern)
}

// Publish asks the bridge to publish payload on topic.
func (t *Transport) Publish(topic string, payload []byte) error {
	return t.emit(EventPublish, PublishFrame(topic, payload))
}

// Close disconnects the socket.
func (t *Transport) Close() error {
	t.mu.Lock()
	io := t.io
	t.io = nil
	t.mu.Unlock()
	if io != nil {
		t.logger.Info("Disconnecting from bridge.", "sid", io.Id())
		io.Disconnect()
	}
	return nil
}
