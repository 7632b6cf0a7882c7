package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ComNetsHH/FlowEmu/internal/ctxlog"
	"github.com/ComNetsHH/FlowEmu/internal/fsutil"
	"github.com/ComNetsHH/FlowEmu/internal/hcl"
	"github.com/ComNetsHH/FlowEmu/internal/library"
	"github.com/ComNetsHH/FlowEmu/internal/terminal"
)

// Run connects to the bus and runs the editor until ctx is cancelled or the
// user quits. Once the event loop has stopped nothing else touches editor
// state, so shutdown reads it directly.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.logger.Debug("App.Run method started.")
	defer a.closeLogFile()

	if a.cfg.HealthcheckPort > 0 {
		a.startHealthcheckServer(a.cfg.HealthcheckPort)
		defer func() { _ = a.closeHealthcheckServer() }()
	}

	if a.cfg.Watch {
		w, err := fsutil.Watch(ctx, a.cfg.ConfigPaths, hcl.Extension, fsutil.DefaultDebounce, func(changed []string) {
			a.reload(ctx, changed)
		})
		if err != nil {
			return fmt.Errorf("failed to watch configuration: %w", err)
		}
		defer w.Close()
	}

	if !a.cfg.Headless {
		screen, err := a.newScreen()
		if err != nil {
			return fmt.Errorf("failed to create terminal screen: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("failed to initialize terminal screen: %w", err)
		}
		defer screen.Fini()
		screen.EnableMouse()

		surface := terminal.New(screen, a.editor, a.library, a.loop.Post,
			terminal.WithLogger(a.logger),
			terminal.WithQuit(cancel),
			terminal.WithStatus(a.status),
		)
		a.loop.OnIdle(surface.Draw)
		a.loop.Post(surface.Draw)
		go func() {
			if err := surface.Run(ctx); err != nil {
				a.logger.Error("Terminal surface failed.", "error", err)
			}
			cancel()
		}()
	} else {
		a.logger.Info("Running headless.")
	}

	a.loop.Post(a.session.Open)
	a.logger.Info("🔌 Connecting to message bus.", "broker", a.broker.Redacted())
	if err := a.client.Start(ctx); err != nil {
		return err
	}

	err := a.loop.Run(ctx)
	a.shutdown()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

// status is shown in the terminal status line.
func (a *App) status() string {
	if a.client.Connected() {
		return "connected to " + a.broker.Redacted()
	}
	return "connecting to " + a.broker.Redacted()
}

// reload rebuilds the node library after template files changed. It runs on
// the watcher goroutine and hands the result to the loop.
func (a *App) reload(ctx context.Context, changed []string) {
	a.logger.Info("Configuration changed, reloading node library.", "files", changed)
	model, err := LoadLibrary(ctx, a.loader, a.cfg.ConfigPaths...)
	if err != nil {
		a.logger.Warn("Node library reload failed, keeping the current one.", "error", err)
		return
	}
	groups, err := library.GroupsFromConfig(model.Groups)
	if err != nil {
		a.logger.Warn("Node library reload failed, keeping the current one.", "error", err)
		return
	}
	a.loop.Post(func() { a.library.Replace(groups) })
}

func (a *App) shutdown() {
	a.session.Close()
	if a.cfg.SnapshotPath != "" {
		if err := a.writeSnapshot(a.cfg.SnapshotPath); err != nil {
			a.logger.Error("Failed to write snapshot.", "error", err)
		}
	}
	if err := a.client.Stop(); err != nil {
		a.logger.Warn("Failed to close transport.", "error", err)
	}
	a.logger.Info("🏁 Editor stopped.")
}

func (a *App) writeSnapshot(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	if err := a.session.Snapshot(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	a.logger.Info("Snapshot written.", "path", path)
	return nil
}

func (a *App) closeLogFile() {
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}
