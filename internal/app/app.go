// Package app wires the background context: message routing, action
// creators, stores, persistence, telemetry and rule metadata.
package app

import (
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/dshills/insights/internal/actions"
	"github.com/dshills/insights/internal/browser"
	"github.com/dshills/insights/internal/config"
	"github.com/dshills/insights/internal/focus"
	"github.com/dshills/insights/internal/interpreter"
	"github.com/dshills/insights/internal/messagecreator"
	"github.com/dshills/insights/internal/rules"
	"github.com/dshills/insights/internal/rules/luarules"
	"github.com/dshills/insights/internal/stores"
	"github.com/dshills/insights/internal/telemetry"
)

// Adapter is the browser surface the application persists through.
type Adapter interface {
	actions.BrowserAdapter
	LoadUserData(v any) error
}

// Stores groups the stores of the background context.
type Stores struct {
	Command       *stores.CommandStore
	LaunchPanel   *stores.LaunchPanelStore
	Scoping       *stores.ScopingStore
	UserConfig    *stores.UserConfigurationStore
	FeatureFlags  *stores.FeatureFlagStore
	Visualization *stores.VisualizationStore
}

// Application is one background context.
type Application struct {
	config config.Config
	logger *zap.Logger

	hub         *actions.GlobalActionHub
	interpreter *interpreter.Interpreter
	stores      Stores
	adapter     Adapter
	closer      func() error

	telemetrySink *telemetry.MemorySink
	rules         *rules.Provider
	luaRules      *luarules.Loader
	ruleWatcher   *luarules.Watcher
	metrics       *prometheus.Registry

	userConfigCreator *messagecreator.UserConfigMessageCreator
	targetPageCreator *messagecreator.TargetPageActionMessageCreator
	scrolling         *focus.LogScrollingController

	mu     sync.Mutex
	closed atomic.Bool
}

// Options configures the application.
type Options struct {
	// Config is the resolved configuration.
	Config config.Config

	// Logger defaults to a no-op logger.
	Logger *zap.Logger

	// Adapter overrides the adapter selected by the storage config.
	Adapter Adapter

	// Commands are served by the adapter. Defaults to browser.DefaultCommands.
	Commands []browser.Command
}

// New creates and bootstraps an application.
func New(opts Options) (*Application, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	app := &Application{
		config: opts.Config,
		logger: logger,
	}
	if err := app.bootstrap(opts); err != nil {
		app.Shutdown()
		return nil, err
	}
	return app, nil
}

// Hub returns the action hub.
func (app *Application) Hub() *actions.GlobalActionHub {
	return app.hub
}

// Interpreter returns the message interpreter.
func (app *Application) Interpreter() *interpreter.Interpreter {
	return app.interpreter
}

// Stores returns the stores.
func (app *Application) Stores() Stores {
	return app.stores
}

// Rules returns the rule information provider.
func (app *Application) Rules() *rules.Provider {
	return app.rules
}

// Metrics returns the Prometheus registry holding the interpreter collector.
func (app *Application) Metrics() *prometheus.Registry {
	return app.metrics
}

// TelemetryEvents returns the telemetry published so far.
func (app *Application) TelemetryEvents() []telemetry.Event {
	return app.telemetrySink.Events()
}

// UserConfigMessageCreator returns a creator that dispatches to this application.
func (app *Application) UserConfigMessageCreator() *messagecreator.UserConfigMessageCreator {
	return app.userConfigCreator
}

// ScrollRequests returns the scroll requests raised by focus changes.
func (app *Application) ScrollRequests() []focus.ScrollingWindowMessage {
	return app.scrolling.Requests()
}

// Shutdown releases resources. Safe to call more than once.
func (app *Application) Shutdown() {
	if !app.closed.CompareAndSwap(false, true) {
		return
	}

	app.mu.Lock()
	defer app.mu.Unlock()

	if app.ruleWatcher != nil {
		if err := app.ruleWatcher.Close(); err != nil {
			app.logger.Warn("closing rule watcher", zap.Error(err))
		}
	}
	if app.luaRules != nil {
		app.luaRules.Close()
	}
	if app.closer != nil {
		if err := app.closer(); err != nil {
			app.logger.Warn("closing storage", zap.Error(err))
		}
	}
	_ = app.logger.Sync()
}
