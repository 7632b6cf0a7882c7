package pubsub

import (
	"context"
	"time"
)

// ConnectOptions are passed to the transport on Connect.
type ConnectOptions struct {
	KeepAlive    time.Duration
	CleanSession bool
	// AutoResubscribe asks the transport to restore subscriptions itself after
	// a reconnect. The Client always sets it to false and resubscribes on its own.
	AutoResubscribe bool
}

// Events receives transport callbacks. They may arrive on any goroutine.
type Events struct {
	OnConnect        func()
	OnConnectionLost func(err error)
	OnMessage        func(topic string, payload []byte)
}

// Transport is a message-bus connection. Implementations live under modules/.
type Transport interface {
	// Connect starts connecting and keeps reconnecting until Close. Each
	// successful (re)connection is reported through Events.OnConnect.
	Connect(ctx context.Context, opts ConnectOptions, ev Events) error
	Subscribe(pattern string) error
	Unsubscribe(pattern string) error
	Publish(topic string, payload []byte) error
	Close() error
}
