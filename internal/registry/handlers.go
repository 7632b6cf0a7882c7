package registry

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/ComNetsHH/FlowEmu/internal/pubsub"
)

// TransportConfig is everything a transport module needs to dial a broker.
type TransportConfig struct {
	URL       *url.URL
	ClientID  string
	Namespace string
	KeepAlive time.Duration
	TLS       *tls.Config
	Logger    *slog.Logger
}

// RegisteredTransport holds the compiled Go parts of a transport module.
type RegisteredTransport struct {
	Name string
	New  func(ctx context.Context, cfg TransportConfig) (pubsub.Transport, error)
}

// RegisterTransport registers a transport for each of the given URL schemes.
func (r *Registry) RegisterTransport(handler *RegisteredTransport, schemes ...string) {
	for _, scheme := range schemes {
		if _, exists := r.TransportRegistry[scheme]; exists {
			panic(fmt.Sprintf("transport for scheme '%s' already registered", scheme))
		}
		slog.Debug("Registering transport.", "name", handler.Name, "scheme", scheme)
		r.TransportRegistry[scheme] = handler
	}
}

// NewTransport builds the transport registered for cfg.URL's scheme.
func (r *Registry) NewTransport(ctx context.Context, cfg TransportConfig) (pubsub.Transport, error) {
	if cfg.URL == nil {
		return nil, fmt.Errorf("%w: no broker url", ErrUnknownScheme)
	}
	handler, ok := r.TransportRegistry[cfg.URL.Scheme]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, cfg.URL.Scheme)
	}
	t, err := handler.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s transport: %w", handler.Name, err)
	}
	return t, nil
}
