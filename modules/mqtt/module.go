// Package mqtt provides the MQTT broker transport, backed by the Eclipse Paho
// client. It serves the tcp, mqtt, ssl, tls, mqtts, ws and wss broker schemes.
package mqtt

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ComNetsHH/FlowEmu/internal/pubsub"
	"github.com/ComNetsHH/FlowEmu/internal/registry"
	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// Schemes are the broker URL schemes this transport accepts.
var Schemes = []string{"tcp", "mqtt", "ssl", "tls", "mqtts", "ws", "wss"}

const (
	// ClientIDPrefix prefixes generated client ids.
	ClientIDPrefix = "flowedit-"

	opTimeout = 5 * time.Second
	quiesceMs = 250
	qosAtMost = byte(0)
)

var pahoLogOnce sync.Once

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the transport with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTransport(&registry.RegisteredTransport{
		Name: "mqtt",
		New: func(_ context.Context, cfg registry.TransportConfig) (pubsub.Transport, error) {
			return New(cfg), nil
		},
	}, Schemes...)
}

// Transport is a pubsub.Transport over a Paho client.
type Transport struct {
	cfg       registry.TransportConfig
	logger    *slog.Logger
	newClient func(*paho.ClientOptions) paho.Client

	mu     sync.Mutex
	client paho.Client
	events pubsub.Events
}

// New creates an unconnected transport.
func New(cfg registry.TransportConfig) *Transport {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("transport", "mqtt")
	pahoLogOnce.Do(func() {
		paho.ERROR = slog.NewLogLogger(logger.Handler(), slog.LevelError)
		paho.CRITICAL = slog.NewLogLogger(logger.Handler(), slog.LevelError)
		paho.WARN = slog.NewLogLogger(logger.Handler(), slog.LevelWarn)
	})
	return &Transport{cfg: cfg, logger: logger, newClient: paho.NewClient}
}

// ClientID returns the configured client id, generating one when it is empty.
func ClientID(configured string) string {
	if configured != "" {
		return configured
	}
	return ClientIDPrefix + uuid.NewString()[:8]
}

// clientOptions builds the Paho options for a connection.
func (t *Transport) clientOptions(opts pubsub.ConnectOptions, ev pubsub.Events) *paho.ClientOptions {
	u := *t.cfg.URL
	o := paho.NewClientOptions()
	o.AddBroker(fmt.Sprintf("%s://%s%s", u.Scheme, u.Host, u.Path))
	o.SetClientID(ClientID(t.cfg.ClientID))
	if u.User != nil {
		o.SetUsername(u.User.Username())
		if pw, ok := u.User.Password(); ok {
			o.SetPassword(pw)
		}
	}
	if t.cfg.TLS != nil {
		o.SetTLSConfig(t.cfg.TLS)
	}
	keepAlive := opts.KeepAlive
	if keepAlive <= 0 {
		keepAlive = pubsub.DefaultKeepAlive
	}
	o.SetKeepAlive(keepAlive)
	o.SetCleanSession(opts.CleanSession)
	o.SetResumeSubs(opts.AutoResubscribe)
	o.SetAutoReconnect(true)
	o.SetConnectRetry(true)
	o.SetOrderMatters(false)

	o.SetOnConnectHandler(func(paho.Client) {
		if ev.OnConnect != nil {
			ev.OnConnect()
		}
	})
	o.SetConnectionLostHandler(func(_ paho.Client, err error) {
		if ev.OnConnectionLost != nil {
			ev.OnConnectionLost(err)
		}
	})
	o.SetDefaultPublishHandler(t.forward)
	return o
}

func (t *Transport) forward(_ paho.Client, msg paho.Message) {
	t.mu.Lock()
	onMessage := t.events.OnMessage
	t.mu.Unlock()
	if onMessage != nil {
		onMessage(msg.Topic(), msg.Payload())
	}
}

// Connect starts the Paho client. Paho keeps retrying in the background, so
// Connect returns as soon as the first attempt has been issued.
func (t *Transport) Connect(ctx context.Context, opts pubsub.ConnectOptions, ev pubsub.Events) error {
	if t.cfg.URL == nil {
		return fmt.Errorf("mqtt: no broker url")
	}
	t.mu.Lock()
	if t.client != nil {
		t.mu.Unlock()
		return fmt.Errorf("mqtt: already connected")
	}
	t.events = ev
	client := t.newClient(t.clientOptions(opts, ev))
	t.client = client
	t.mu.Unlock()

	t.logger.Info("Connecting to broker.", "broker", t.cfg.URL.Redacted())
	token := client.Connect()
	go func() {
		select {
		case <-token.Done():
			if err := token.Error(); err != nil {
				t.logger.Error("Broker connection failed.", "error", err)
			}
		case <-ctx.Done():
		}
	}()
	return nil
}

func (t *Transport) current() (paho.Client, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.client == nil {
		return nil, fmt.Errorf("mqtt: not connected")
	}
	return t.client, nil
}

// settle returns the outcome of token when Paho has already completed it,
// which is how it rejects operations while offline. Otherwise the outcome is
// logged from a goroutine so callers on the event loop never wait for the
// broker. Lost subscriptions are restored by the facade on reconnect.
func (t *Transport) settle(op, target string, token paho.Token) error {
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("mqtt %s: %w", op, err)
		}
		return nil
	default:
	}
	go func() {
		timer := time.NewTimer(opTimeout)
		defer timer.Stop()
		select {
		case <-token.Done():
			if err := token.Error(); err != nil {
				t.logger.Warn("Broker operation failed.", "op", op, "target", target, "error", err)
			}
		case <-timer.C:
			t.logger.Warn("Broker operation not acknowledged.", "op", op, "target", target, "timeout", opTimeout)
		}
	}()
	return nil
}

// Subscribe subscribes to pattern at QoS 0.
func (t *Transport) Subscribe(pattern string) error {
	client, err := t.current()
	if err != nil {
		return err
	}
	return t.settle("subscribe", pattern, client.Subscribe(pattern, qosAtMost, t.forward))
}

// Unsubscribe drops the broker subscription for pattern.
func (t *Transport) Unsubscribe(pattern string) error {
	client, err := t.current()
	if err != nil {
		return err
	}
	return t.settle("unsubscribe", pattern, client.Unsubscribe(pattern))
}

// Publish sends payload to topic at QoS 0, not retained.
func (t *Transport) Publish(topic string, payload []byte) error {
	client, err := t.current()
	if err != nil {
		return err
	}
	return t.settle("publish", topic, client.Publish(topic, qosAtMost, false, payload))
}

// Close disconnects and stops reconnecting.
func (t *Transport) Close() error {
	t.mu.Lock()
	client := t.client
	t.client = nil
	t.events = pubsub.Events{}
	t.mu.Unlock()
	if client != nil {
		client.Disconnect(quiesceMs)
		t.logger.Info("Disconnected from broker.")
	}
	return nil
}
