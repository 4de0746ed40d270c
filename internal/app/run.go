package app

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/dshills/insights/internal/actions"
	"github.com/dshills/insights/internal/messages"
	"github.com/dshills/insights/internal/stores"
)

const (
	maxLineSize    = 1 << 20
	readBufferSize = 64 * 1024
)

// Stats counts the outcome of a Run.
type Stats struct {
	Messages  int `json:"messages"`
	Handled   int `json:"handled"`
	Dropped   int `json:"dropped"`
	Failed    int `json:"failed"`
	Malformed int `json:"malformed"`
}

// Run interprets newline-delimited message envelopes from r until EOF or
// cancellation. Bad lines, including lines over 1 MiB, and failing callbacks
// are logged and counted; only read errors and cancellation stop the run.
func (app *Application) Run(ctx context.Context, r io.Reader) (Stats, error) {
	var stats Stats
	if app.closed.Load() {
		return stats, ErrClosed
	}

	reader := bufio.NewReaderSize(r, readBufferSize)
	for line := 1; ; line++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		data, tooLong, readErr := readLine(reader, maxLineSize)
		if readErr != nil && readErr != io.EOF {
			return stats, fmt.Errorf("reading messages: %w", readErr)
		}

		data = bytes.TrimSpace(data)
		switch {
		case tooLong:
			stats.Messages++
			stats.Malformed++
			app.logger.Warn("malformed message", zap.Int("line", line), zap.Int("limit", maxLineSize), zap.Error(errLineTooLong))
		case len(data) > 0:
			app.interpretLine(&stats, line, data)
		}

		if readErr == io.EOF {
			return stats, nil
		}
	}
}

func (app *Application) interpretLine(stats *Stats, line int, data []byte) {
	stats.Messages++

	msg, err := messages.Decode(data)
	if err != nil {
		stats.Malformed++
		app.logger.Warn("malformed message", zap.Int("line", line), zap.Error(err))
		return
	}

	handled, err := app.interpreter.Interpret(msg)
	switch {
	case err != nil:
		stats.Failed++
		app.logger.Warn("message failed",
			zap.Int("line", line),
			zap.Stringer("type", msg.MessageType),
			zap.Error(err),
		)
	case !handled:
		stats.Dropped++
	default:
		stats.Handled++
	}
}

// readLine returns the next line without its terminator. A line longer than
// limit is consumed whole and reported as too long instead.
func readLine(r *bufio.Reader, limit int) ([]byte, bool, error) {
	var buf []byte
	tooLong := false
	for {
		chunk, err := r.ReadSlice('\n')
		if !tooLong {
			if len(buf)+len(bytes.TrimRight(chunk, "\r\n")) > limit {
				tooLong, buf = true, nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		if tooLong {
			return nil, true, err
		}
		return bytes.TrimRight(buf, "\r\n"), false, err
	}
}

// Snapshot is the state of every store.
type Snapshot struct {
	Commands      stores.CommandStoreData            `json:"commands"`
	LaunchPanel   stores.LaunchPanelStoreData        `json:"launchPanel"`
	Scoping       stores.ScopingStoreData            `json:"scoping"`
	UserConfig    actions.UserConfigurationStoreData `json:"userConfig"`
	FeatureFlags  stores.FeatureFlagStoreData        `json:"featureFlags"`
	Visualization stores.VisualizationStoreData      `json:"visualization"`
}

// Snapshot returns the current store states.
func (app *Application) Snapshot() Snapshot {
	return Snapshot{
		Commands:      app.stores.Command.State(),
		LaunchPanel:   app.stores.LaunchPanel.State(),
		Scoping:       app.stores.Scoping.State(),
		UserConfig:    app.stores.UserConfig.Config(),
		FeatureFlags:  app.stores.FeatureFlags.State(),
		Visualization: app.stores.Visualization.State(),
	}
}
