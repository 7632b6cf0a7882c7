package registry

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/ComNetsHH/FlowEmu/internal/ctxlog"
)

// ErrUnknownScheme is returned when no transport handles a broker URL scheme.
var ErrUnknownScheme = errors.New("no transport registered for scheme")

// ValidateBroker checks that rawURL parses and that a transport is
// registered for its scheme.
func (r *Registry) ValidateBroker(ctx context.Context, rawURL string) (*url.URL, error) {
	logger := ctxlog.FromContext(ctx)

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid broker url %q: %w", rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid broker url %q: scheme and host are required", rawURL)
	}
	if _, ok := r.TransportRegistry[u.Scheme]; !ok {
		return nil, fmt.Errorf("%w %q (registered: %s)", ErrUnknownScheme, u.Scheme, strings.Join(r.Schemes(), ", "))
	}
	logger.Debug("Broker url validated.", "scheme", u.Scheme, "host", u.Host)
	return u, nil
}
