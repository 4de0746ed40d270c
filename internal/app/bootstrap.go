package app

import (
	"fmt"
	"os"
	"path/filepath"

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

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap(opts Options) error {
	// 1. Storage
	if err := app.openStorage(opts); err != nil {
		return &InitError{Component: "storage", Err: err}
	}

	// 2. Interpreter
	icfg, err := app.config.InterpreterSettings()
	if err != nil {
		return &InitError{Component: "interpreter", Err: err}
	}
	app.interpreter = interpreter.New(icfg, app.logger)
	if app.config.Interpreter.LogMessages {
		hook := interpreter.NewLoggingHook(app.logger)
		app.interpreter.RegisterPreHook(hook)
		app.interpreter.RegisterPostHook(hook)
	}

	app.metrics = prometheus.NewRegistry()
	if icfg.EnableMetrics {
		if err := app.metrics.Register(interpreter.NewCollector(app.interpreter)); err != nil {
			return &InitError{Component: "metrics", Err: err}
		}
	}

	// 3. Actions and stores
	app.hub = actions.NewGlobalActionHub()
	if err := app.createStores(); err != nil {
		return &InitError{Component: "stores", Err: err}
	}

	// 4. Telemetry
	app.telemetrySink = &telemetry.MemorySink{}
	sink := telemetry.MultiSink{app.telemetrySink, telemetry.NewLogSink(app.logger)}
	handler := telemetry.NewEventHandler(sink, app.telemetryEnabled, app.config.Telemetry.Source)

	// 5. Action creators
	global := actions.NewGlobalActionCreator(app.hub, app.interpreter, app.adapter, handler, app.logger)
	if err := global.RegisterCallbacks(); err != nil {
		return &InitError{Component: "action creators", Err: err}
	}
	visualization := actions.NewVisualizationActionCreator(app.hub.VisualizationActions, app.interpreter)
	if err := visualization.RegisterCallbacks(); err != nil {
		return &InitError{Component: "action creators", Err: err}
	}

	// 6. Message creators and focus handling, looped back into this context
	dispatcher := messagecreator.NewInterpreterDispatcher(app.interpreter, app.logger)
	app.userConfigCreator = messagecreator.NewUserConfigMessageCreator(dispatcher, app.logger)
	app.targetPageCreator = messagecreator.NewTargetPageActionMessageCreator(dispatcher, app.logger)
	app.scrolling = focus.NewLogScrollingController(app.logger)
	focus.NewChangeHandler(app.targetPageCreator, app.scrolling).Attach(app.stores.Visualization)

	// 7. Rules
	if err := app.loadRules(); err != nil {
		return &InitError{Component: "rules", Err: err}
	}

	app.logger.Info("background context ready",
		zap.Int("callbacks", app.interpreter.Registry().Count()),
		zap.Int("rules", len(app.rules.RuleIDs())),
		zap.String("storage", app.config.Storage.Driver),
	)
	return nil
}

func (app *Application) openStorage(opts Options) error {
	commands := opts.Commands
	if commands == nil {
		commands = browser.DefaultCommands()
	}

	if opts.Adapter != nil {
		app.adapter = opts.Adapter
		return nil
	}

	switch app.config.Storage.Driver {
	case config.DriverMemory:
		app.adapter = browser.NewMemoryAdapter(commands)
	case config.DriverSQLite:
		path := app.config.Storage.Path
		if path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("creating data dir: %w", err)
			}
		}
		db, err := browser.OpenSQLite(path, commands)
		if err != nil {
			return err
		}
		app.adapter = db
		app.closer = db.Close
	default:
		return fmt.Errorf("%w: storage.driver %q", config.ErrInvalidConfig, app.config.Storage.Driver)
	}
	return nil
}

func (app *Application) createStores() error {
	userConfig := stores.DefaultUserConfiguration()
	if err := app.adapter.LoadUserData(&userConfig); err != nil {
		return fmt.Errorf("loading user configuration: %w", err)
	}

	flags := stores.DefaultFeatureFlags()
	for name, on := range app.config.FeatureFlags {
		flags[name] = on
	}

	app.stores = Stores{
		Command:       stores.NewCommandStore(app.hub.CommandActions),
		LaunchPanel:   stores.NewLaunchPanelStore(app.hub.LaunchPanelStateActions),
		Scoping:       stores.NewScopingStore(app.hub.ScopingActions),
		UserConfig:    stores.NewUserConfigurationStore(app.hub.UserConfigurationActions, userConfig),
		FeatureFlags:  stores.NewFeatureFlagStore(app.hub.FeatureFlagActions, flags),
		Visualization: stores.NewVisualizationStore(app.hub.VisualizationActions),
	}
	app.stores.UserConfig.Subscribe(app.persistUserConfig)
	return nil
}

// persistUserConfig writes the whole configuration so cleared fields stay cleared.
func (app *Application) persistUserConfig(d actions.UserConfigurationStoreData) {
	if err := app.adapter.SetUserData(d); err != nil {
		app.logger.Warn("persisting user configuration failed", zap.Error(err))
	}
}

func (app *Application) telemetryEnabled() bool {
	return app.config.Telemetry.Enabled && app.stores.UserConfig.TelemetryEnabled()
}

func (app *Application) loadRules() error {
	app.rules = rules.NewProvider()

	dir := app.config.Rules.LuaDir
	if dir == "" {
		return nil
	}

	app.luaRules = luarules.NewLoader(app.logger)
	app.ruleWatcher = luarules.NewWatcher(app.luaRules, app.rules, app.logger)
	if err := app.ruleWatcher.LoadDir(dir); err != nil {
		return err
	}
	if !app.config.Rules.Watch {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating rule dir: %w", err)
	}
	return app.ruleWatcher.Start(dir)
}
