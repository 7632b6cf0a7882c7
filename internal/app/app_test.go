package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/ComNetsHH/FlowEmu/internal/editor"
	"github.com/ComNetsHH/FlowEmu/internal/pubsub"
	"github.com/ComNetsHH/FlowEmu/internal/pubsub/pubsubtest"
	"github.com/ComNetsHH/FlowEmu/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeModule serves the "fake" scheme from an in-memory transport.
type fakeModule struct {
	transport *pubsubtest.Transport
	got       registry.TransportConfig
}

func newFakeModule() *fakeModule { return &fakeModule{transport: pubsubtest.New()} }

func (m *fakeModule) Register(r *registry.Registry) {
	r.RegisterTransport(&registry.RegisteredTransport{
		Name: "fake",
		New: func(_ context.Context, cfg registry.TransportConfig) (pubsub.Transport, error) {
			m.got = cfg
			return m.transport, nil
		},
	}, "fake")
}

func TestNewConfig_Validation(t *testing.T) {
	t.Parallel()
	valid := Config{LogFormat: "text", LogLevel: "info"}

	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "bad format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: "LogFormat"},
		{name: "bad level", mutate: func(c *Config) { c.LogLevel = "trace" }, wantErr: "LogLevel"},
		{name: "bad port", mutate: func(c *Config) { c.HealthcheckPort = 70000 }, wantErr: "HealthcheckPort"},
		{name: "bad broker", mutate: func(c *Config) { c.BrokerURL = "not a url" }, wantErr: "BrokerURL"},
		{name: "empty path", mutate: func(c *Config) { c.ConfigPaths = []string{""} }, wantErr: "ConfigPaths"},
		{name: "watch without paths", mutate: func(c *Config) { c.Watch = true }, wantErr: "--watch"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid
			tc.mutate(&cfg)

			got, err := NewConfig(cfg)

			if tc.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, cfg, *got)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestNewApp_LoadsBuiltinLibrary(t *testing.T) {
	t.Parallel()
	// Arrange
	mod := newFakeModule()

	// Act
	a, _ := SetupAppTest(t, &Config{BrokerURL: "fake://bus"}, mod)

	// Assert
	assert.Equal(t, []string{"fake"}, a.Registry().Schemes())
	for _, typ := range []string{
		"fixed_delay", "uncorrelated_loss", "gilbert_elliot_loss", "fifo_queue", "bitrate_rate",
		"fixed_interval_rate", "trace_rate", "delay_meter", "throughput_meter", "null",
	} {
		assert.NotNil(t, a.Library().Template(typ), typ)
	}
	misc := a.Library().Group("Misc")
	require.NotNil(t, misc)
	assert.True(t, misc.Collapsed)
}

func TestNewApp_UserFilesAndFlagsOverride(t *testing.T) {
	t.Parallel()
	// Arrange
	dir := t.TempDir()
	user := `
broker {
  url       = "fake://from-file"
  client_id = "from-file"
  keepalive = "10s"
}
topics {
  get_prefix = "emu/get"
  set_prefix = "emu/set"
}
group "Delay" {
  template "fixed_delay" {
    title = "My Delay"
  }
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user.hcl"), []byte(user), 0o600))
	mod := newFakeModule()

	// Act
	a, _ := SetupAppTest(t, &Config{ConfigPaths: []string{dir}, ClientID: "from-flag"}, mod)

	// Assert
	cfg := a.Config()
	assert.Equal(t, "fake://from-file", cfg.Broker.URL)
	assert.Equal(t, "from-flag", cfg.Broker.ClientID)
	assert.Equal(t, "emu/get", cfg.Topics.GetPrefix)
	assert.Equal(t, "from-flag", mod.got.ClientID)
	assert.Equal(t, 10*time.Second, mod.got.KeepAlive)
	assert.Equal(t, "My Delay", a.Library().Template("fixed_delay").Title())
}

func TestNewApp_PanicsOnConfigurationErrors(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name string
		cfg  Config
	}{
		{name: "unknown scheme", cfg: Config{BrokerURL: "gopher://bus"}},
		{name: "missing path", cfg: Config{BrokerURL: "fake://bus", ConfigPaths: []string{"/does/not/exist"}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := tc.cfg
			assert.Panics(t, func() { SetupAppTest(t, &cfg, newFakeModule()) })
		})
	}
}

func TestHealthcheck_ReportsConnection(t *testing.T) {
	t.Parallel()
	a, _ := SetupAppTest(t, &Config{BrokerURL: "fake://bus"}, newFakeModule())
	mux := a.newHealthcheckMux()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "flowedit_")
}

func TestRun_HeadlessWritesSnapshot(t *testing.T) {
	t.Parallel()
	// Arrange
	snapshot := filepath.Join(t.TempDir(), "graph.json")
	mod := newFakeModule()
	a, _ := SetupAppTest(t, &Config{BrokerURL: "fake://bus", SnapshotPath: snapshot}, mod)
	fake := mod.transport

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- a.Run(ctx) }()

	require.Eventually(t, func() bool {
		fake.Up()
		return slices.Contains(fake.Active(), "get/module/+")
	}, 2*time.Second, 10*time.Millisecond)

	// Act
	fake.Deliver("get/module/1000", `{"type":"throughput_meter","title":"Throughput","removable":true,`+
		`"position":{"x":10,"y":20},"content":[{"type":"statistic","id":"bytes_per_second","label":"Bytes/s"}]}`)
	require.Eventually(t, func() bool {
		return slices.Contains(fake.Active(), "get/module/1000/bytes_per_second")
	}, 2*time.Second, 10*time.Millisecond)
	cancel()

	// Assert
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.True(t, fake.Closed())

	raw, err := os.ReadFile(snapshot)
	require.NoError(t, err)
	var doc editor.Document
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Contains(t, doc.Nodes, editor.NodeID("1000"))
	assert.Equal(t, "throughput_meter", doc.Nodes["1000"].Type)
	assert.Empty(t, fake.Published())
}
