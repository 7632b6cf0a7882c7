package registry

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/ComNetsHH/FlowEmu/internal/pubsub"
	"github.com/ComNetsHH/FlowEmu/internal/pubsub/pubsubtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeTransport() *RegisteredTransport {
	return &RegisteredTransport{
		Name: "fake",
		New: func(context.Context, TransportConfig) (pubsub.Transport, error) {
			return pubsubtest.New(), nil
		},
	}
}

func TestRegisterTransport_PanicsOnDuplicateScheme(t *testing.T) {
	t.Parallel()
	r := New()
	r.RegisterTransport(fakeTransport(), "tcp", "ws")

	assert.Equal(t, []string{"tcp", "ws"}, r.Schemes())
	assert.Panics(t, func() { r.RegisterTransport(fakeTransport(), "ws") })
}

func TestValidateBroker(t *testing.T) {
	t.Parallel()
	r := New()
	r.RegisterTransport(fakeTransport(), "tcp")

	testCases := []struct {
		name    string
		url     string
		wantErr error
	}{
		{"registered scheme", "tcp://localhost:1883", nil},
		{"unknown scheme", "amqp://localhost", ErrUnknownScheme},
		{"missing host", "tcp://", nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			u, err := r.ValidateBroker(context.Background(), tc.url)
			switch {
			case tc.name == "missing host":
				assert.Error(t, err)
			case tc.wantErr != nil:
				assert.ErrorIs(t, err, tc.wantErr)
			default:
				require.NoError(t, err)
				assert.Equal(t, "localhost:1883", u.Host)
			}
		})
	}
}

func TestNewTransport(t *testing.T) {
	t.Parallel()
	r := New()
	r.RegisterTransport(fakeTransport(), "tcp")
	r.RegisterTransport(&RegisteredTransport{
		Name: "broken",
		New: func(context.Context, TransportConfig) (pubsub.Transport, error) {
			return nil, errors.New("dial failed")
		},
	}, "ws")

	tr, err := r.NewTransport(context.Background(), TransportConfig{URL: &url.URL{Scheme: "tcp", Host: "x"}})
	require.NoError(t, err)
	assert.NotNil(t, tr)

	_, err = r.NewTransport(context.Background(), TransportConfig{URL: &url.URL{Scheme: "ws", Host: "x"}})
	assert.ErrorContains(t, err, "broken")

	_, err = r.NewTransport(context.Background(), TransportConfig{URL: &url.URL{Scheme: "udp", Host: "x"}})
	assert.ErrorIs(t, err, ErrUnknownScheme)
}
