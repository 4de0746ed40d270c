package app

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/dshills/insights/internal/actions"
	"github.com/dshills/insights/internal/config"
	"github.com/dshills/insights/internal/rules"
	"github.com/dshills/insights/internal/stores"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.Driver = config.DriverMemory
	cfg.Rules.LuaDir = t.TempDir()
	cfg.Interpreter.Metrics = true
	return cfg
}

func newApp(t *testing.T, cfg config.Config) *Application {
	t.Helper()
	app, err := New(Options{Config: cfg, Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	t.Cleanup(app.Shutdown)
	return app
}

const session = `
{"messageType":"insights/command/get-commands","tabId":7}
{"messageType":"insights/launchPanel/set","payload":{"launchPanelType":1}}
{"messageType":"insights/scoping/add-selector","payload":{"inputType":"include","selector":["#main"]}}
{"messageType":"insights/userConfig/setUserConfig","payload":{"enableTelemetry":true,"isFirstTime":false,"enableHighContrast":false}}
{"messageType":"insights/telemetry/send","tabId":7,"payload":{"eventName":"launch-panel/open","telemetry":{"source":"popup"}}}
{"messageType":"insights/userConfig/setHighContrastConfig","payload":{"enableHighContrast":true}}

{"messageType":"insights/unknown/thing"}
not json
{"messageType":"insights/scoping/add-selector","payload":{"selector":7}}
`

func TestRunSession(t *testing.T) {
	app := newApp(t, testConfig(t))

	stats, err := app.Run(context.Background(), strings.NewReader(session))
	require.NoError(t, err)
	assert.Equal(t, Stats{Messages: 9, Handled: 6, Dropped: 1, Failed: 1, Malformed: 1}, stats)

	snap := app.Snapshot()
	assert.Equal(t, 7, snap.Commands.TabID)
	assert.NotEmpty(t, snap.Commands.Commands)
	assert.Equal(t, actions.AdhocToolsPanel, snap.LaunchPanel.LaunchPanelType)
	assert.Equal(t, [][]string{{"#main"}}, snap.Scoping.Selectors[stores.ScopingInclude])
	assert.True(t, snap.UserConfig.EnableTelemetry)
	assert.False(t, snap.UserConfig.IsFirstTime)
	assert.True(t, snap.UserConfig.EnableHighContrast)

	events := app.TelemetryEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "launch-panel/open", events[0].Name)
}

func TestTelemetryRequiresOptIn(t *testing.T) {
	app := newApp(t, testConfig(t))

	_, err := app.Run(context.Background(), strings.NewReader(
		`{"messageType":"insights/telemetry/send","payload":{"eventName":"x","telemetry":{}}}`,
	))
	require.NoError(t, err)
	assert.Empty(t, app.TelemetryEvents())
}

func TestRunCancelled(t *testing.T) {
	app := newApp(t, testConfig(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := app.Run(ctx, strings.NewReader(session))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunAfterShutdown(t *testing.T) {
	app := newApp(t, testConfig(t))
	app.Shutdown()

	_, err := app.Run(context.Background(), strings.NewReader(session))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestUserConfigMessageCreatorLoopback(t *testing.T) {
	app := newApp(t, testConfig(t))

	app.UserConfigMessageCreator().SetTelemetryState(true)
	app.UserConfigMessageCreator().SetIssueFilingService(actions.SetIssueFilingServicePayload{IssueFilingServiceName: "gitHub"})

	cfg := app.Stores().UserConfig.Config()
	assert.True(t, cfg.EnableTelemetry)
	assert.Equal(t, "gitHub", cfg.BugService)
}

func TestFocusChangeScrolls(t *testing.T) {
	app := newApp(t, testConfig(t))

	focused := `{"messageType":"insights/visualization/update-focused-instance","payload":{"target":["#frame","button"]}}`
	_, err := app.Run(context.Background(), strings.NewReader(focused+"\n"+focused+"\n"))
	require.NoError(t, err)

	require.Len(t, app.ScrollRequests(), 1)
	assert.Equal(t, []string{"#frame", "button"}, app.ScrollRequests()[0].FocusedTarget)
	assert.Equal(t, 1, app.Snapshot().Visualization.ScrollRequestCount)
}

func TestLuaRulesLoaded(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Rules.LuaDir, "extra.lua"), []byte(`
rule { id = "LabelOverlap", description = "Labels must not overlap.", how_to_fix = "Move the labels apart." }
`), 0o644))

	app := newApp(t, cfg)
	assert.NotNil(t, app.Rules().GetRuleInformation("LabelOverlap"))
	assert.NotNil(t, app.Rules().GetRuleInformation(rules.ColorContrast))
}

func TestLuaRuleConflict(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Rules.LuaDir, "dup.lua"), []byte(
		`rule { id = "ColorContrast", how_to_fix = "x" }`,
	), 0o644))

	_, err := New(Options{Config: cfg, Logger: zaptest.NewLogger(t)})
	var ierr *InitError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "rules", ierr.Component)
	assert.ErrorIs(t, err, rules.ErrDuplicateRule)
}

func TestMetricsRegistered(t *testing.T) {
	app := newApp(t, testConfig(t))
	_, err := app.Run(context.Background(), strings.NewReader(`{"messageType":"insights/launchPanel/get"}`))
	require.NoError(t, err)

	families, err := app.Metrics().Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["insights_interpreter_messages_total"], "got %v", names)
}

func sqliteConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := testConfig(t)
	cfg.Storage.Driver = config.DriverSQLite
	cfg.Storage.Path = filepath.Join(t.TempDir(), "data", "userdata.db")
	return cfg
}

// replayAndRestart runs lines against a fresh application, shuts it down and
// returns a second application opened on the same storage.
func replayAndRestart(t *testing.T, cfg config.Config, lines string) *Application {
	t.Helper()
	first, err := New(Options{Config: cfg, Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	stats, err := first.Run(context.Background(), strings.NewReader(lines))
	require.NoError(t, err)
	require.Zero(t, stats.Failed+stats.Malformed+stats.Dropped, "stats %+v", stats)
	first.Shutdown()

	return newApp(t, cfg)
}

func TestSQLiteUserConfigSurvivesRestart(t *testing.T) {
	cfg := sqliteConfig(t)

	second := replayAndRestart(t, cfg, `
{"messageType":"insights/userConfig/setUserConfig","payload":{"enableTelemetry":true,"isFirstTime":false}}
{"messageType":"insights/userConfig/setHighContrastConfig","payload":{"enableHighContrast":true}}
{"messageType":"insights/userConfig/setIssueFilingService","payload":{"issueFilingServiceName":"gitHub"}}
{"messageType":"insights/userConfig/setIssueFilingServiceProperty","payload":{"issueFilingServiceName":"gitHub","propertyName":"repository","propertyValue":"org/repo"}}
`)

	got := second.Stores().UserConfig.Config()
	assert.True(t, got.EnableTelemetry)
	assert.False(t, got.IsFirstTime)
	assert.True(t, got.EnableHighContrast)
	assert.Equal(t, "gitHub", got.BugService)
	assert.Equal(t, map[string]map[string]string{"gitHub": {"repository": "org/repo"}}, got.BugServicePropertiesMap)
}

func TestSQLiteClearedUserConfigStaysCleared(t *testing.T) {
	cfg := sqliteConfig(t)

	replayAndRestart(t, cfg, `
{"messageType":"insights/userConfig/setHighContrastConfig","payload":{"enableHighContrast":true}}
{"messageType":"insights/userConfig/setIssueFilingService","payload":{"issueFilingServiceName":"gitHub"}}
{"messageType":"insights/userConfig/setIssueFilingServiceProperty","payload":{"issueFilingServiceName":"gitHub","propertyName":"repository","propertyValue":"org/repo"}}
`).Shutdown()

	second := replayAndRestart(t, cfg, `
{"messageType":"insights/userConfig/setHighContrastConfig","payload":{"enableHighContrast":false}}
{"messageType":"insights/userConfig/saveIssueFilingSettings","payload":{"issueFilingServiceName":"gitHub","issueFilingSettings":{}}}
{"messageType":"insights/userConfig/setIssueFilingService","payload":{"issueFilingServiceName":""}}
`)

	got := second.Stores().UserConfig.Config()
	assert.False(t, got.EnableHighContrast)
	assert.Empty(t, got.BugService)
	assert.Empty(t, got.BugServicePropertiesMap["gitHub"])
}

func TestLiveAndRestoredUserConfigAgree(t *testing.T) {
	cfg := sqliteConfig(t)

	first, err := New(Options{Config: cfg, Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	_, err = first.Run(context.Background(), strings.NewReader(
		`{"messageType":"insights/userConfig/setUserConfig","payload":{"enableTelemetry":true,"isFirstTime":false,"bugService":"gitHub"}}`,
	))
	require.NoError(t, err)
	live := first.Stores().UserConfig.Config()
	first.Shutdown()

	second := newApp(t, cfg)
	assert.Equal(t, live, second.Stores().UserConfig.Config())
	assert.Equal(t, stores.NoBugService, live.BugService)
}

func TestFeatureFlagsFromConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.FeatureFlags = map[string]bool{"shadowDialog": true}

	app := newApp(t, cfg)
	assert.True(t, app.Stores().FeatureFlags.IsEnabled("shadowDialog"))
	assert.False(t, app.Stores().FeatureFlags.IsEnabled("showAllAssessments"))
}

func TestRuleDirWatched(t *testing.T) {
	cfg := testConfig(t)
	cfg.Rules.Watch = true

	app := newApp(t, cfg)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Rules.LuaDir, "live.lua"), []byte(
		`rule { id = "LiveRule", how_to_fix = "Fix it." }`,
	), 0o644))

	require.Eventually(t, func() bool {
		return app.Rules().GetRuleInformation("LiveRule") != nil
	}, 5*time.Second, 20*time.Millisecond)
}

func TestRunOversizedLineIsMalformed(t *testing.T) {
	app := newApp(t, testConfig(t))

	huge := `{"messageType":"insights/launchPanel/get","payload":"` + strings.Repeat("x", maxLineSize) + `"}`
	input := strings.Join([]string{
		`{"messageType":"insights/launchPanel/get"}`,
		huge,
		`{"messageType":"insights/launchPanel/set","payload":{"launchPanelType":1}}`,
	}, "\n")

	stats, err := app.Run(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, Stats{Messages: 3, Handled: 2, Malformed: 1}, stats)
	assert.Equal(t, actions.AdhocToolsPanel, app.Snapshot().LaunchPanel.LaunchPanelType)
}

func TestReadLine(t *testing.T) {
	r := bufio.NewReaderSize(strings.NewReader("short\r\n"+strings.Repeat("y", 40)+"\nlast"), 16)

	line, tooLong, err := readLine(r, 20)
	require.NoError(t, err)
	assert.False(t, tooLong)
	assert.Equal(t, "short", string(line))

	line, tooLong, err = readLine(r, 20)
	require.NoError(t, err)
	assert.True(t, tooLong)
	assert.Nil(t, line)

	line, tooLong, err = readLine(r, 20)
	assert.ErrorIs(t, err, io.EOF)
	assert.False(t, tooLong)
	assert.Equal(t, "last", string(line))
}
