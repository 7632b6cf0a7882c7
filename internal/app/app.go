package app

import (
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/ComNetsHH/FlowEmu/internal/config"
	"github.com/ComNetsHH/FlowEmu/internal/ctxlog"
	"github.com/ComNetsHH/FlowEmu/internal/editor"
	"github.com/ComNetsHH/FlowEmu/internal/eventloop"
	"github.com/ComNetsHH/FlowEmu/internal/geom"
	"github.com/ComNetsHH/FlowEmu/internal/library"
	"github.com/ComNetsHH/FlowEmu/internal/metrics"
	"github.com/ComNetsHH/FlowEmu/internal/pubsub"
	"github.com/ComNetsHH/FlowEmu/internal/registry"
	"github.com/ComNetsHH/FlowEmu/internal/session"
	"github.com/ComNetsHH/FlowEmu/internal/terminal"
	"github.com/gdamore/tcell/v2"
)

// builtins is the node library shipped with the binary.
//
//go:embed templates/*.hcl
var builtins embed.FS

// MetricsNamespace prefixes every exported metric.
const MetricsNamespace = "flowedit"

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	logFile io.Closer
	cfg     *Config

	loader   config.Loader
	config   *config.Model
	registry *registry.Registry
	broker   *url.URL
	metrics  *metrics.Collector

	loop    *eventloop.Loop
	editor  *editor.Editor
	library *library.Library
	client  *pubsub.Client
	session *session.Session

	newScreen  func() (tcell.Screen, error)
	httpServer *http.Server
}

// LoadLibrary loads the built-in templates and merges the files at paths
// over them.
func LoadLibrary(ctx context.Context, loader config.Loader, paths ...string) (*config.Model, error) {
	sub, err := fs.Sub(builtins, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to open built-in templates: %w", err)
	}
	model, err := loader.LoadFS(ctx, nil, sub)
	if err != nil {
		return nil, fmt.Errorf("failed to load built-in templates: %w", err)
	}
	if len(paths) == 0 {
		return model, nil
	}
	model, err = loader.Load(ctx, model, paths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return model, nil
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// Configuration errors are fatal and panic; the entrypoint recovers them.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, modules ...registry.Module) *App {
	logW, logFile, err := logWriter(cfg, outW)
	if err != nil {
		panic(err)
	}
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := LoadLibrary(ctx, loader, cfg.ConfigPaths...)
	if err != nil {
		panic(err)
	}
	if cfg.BrokerURL != "" {
		model.Broker.URL = cfg.BrokerURL
	}
	if cfg.ClientID != "" {
		model.Broker.ClientID = cfg.ClientID
	}
	logger.Debug("Configuration loaded and translated into unified model.", "groups", len(model.Groups))

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules), "schemes", reg.Schemes())

	broker, err := reg.ValidateBroker(ctx, model.Broker.URL)
	if err != nil {
		panic(err)
	}
	transport, err := reg.NewTransport(ctx, registry.TransportConfig{
		URL:       broker,
		ClientID:  model.Broker.ClientID,
		Namespace: model.Broker.Namespace,
		KeepAlive: model.Broker.KeepAlive,
		Logger:    logger,
	})
	if err != nil {
		panic(err)
	}

	collector := metrics.NewCollector(MetricsNamespace)
	loop := eventloop.New(logger)
	client := pubsub.New(transport,
		pubsub.WithLogger(logger),
		pubsub.WithExecutor(func(f func()) { loop.Post(f) }),
		pubsub.WithKeepAlive(model.Broker.KeepAlive),
		pubsub.WithRecorder(collector),
		pubsub.WithBreaker(pubsub.DefaultBreakerConfig("publish")),
	)

	layout := editor.CellLayout
	if cfg.Headless {
		layout = editor.DefaultLayout
	}
	ed := editor.New(
		editor.WithLogger(logger),
		editor.WithLayout(layout),
		editor.WithScheduler(loop),
		editor.WithSettleWindow(model.Editor.SettleWindow),
	)

	groups, err := library.GroupsFromConfig(model.Groups)
	if err != nil {
		panic(fmt.Errorf("failed to build node library: %w", err))
	}
	lib := library.New(ed,
		library.WithLogger(logger),
		library.WithOrigin(geom.Point{X: terminal.DefaultPaletteWidth}),
		library.WithRowHeight(layout.RowHeight),
		library.WithWidth(terminal.DefaultPaletteWidth),
	)
	lib.Replace(groups)

	sess := session.New(ed, client,
		session.WithLogger(logger),
		session.WithTopics(session.Topics{Get: model.Topics.GetPrefix, Set: model.Topics.SetPrefix}),
		session.WithRecorder(collector),
	)

	return &App{
		outW:      outW,
		logger:    logger,
		logFile:   logFile,
		cfg:       cfg,
		loader:    loader,
		config:    model,
		registry:  reg,
		broker:    broker,
		metrics:   collector,
		loop:      loop,
		editor:    ed,
		library:   lib,
		client:    client,
		session:   sess,
		newScreen: tcell.NewScreen,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Config returns the merged configuration model.
func (a *App) Config() *config.Model {
	return a.config
}

// Library returns the node library. Outside of tests it must only be used on
// the event loop.
func (a *App) Library() *library.Library {
	return a.library
}
