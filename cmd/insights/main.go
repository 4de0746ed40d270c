// Package main is the entry point for the insights background context.
//
// It replays newline-delimited message envelopes through the interpreter and
// prints the resulting store state.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/common/expfmt"
	"go.uber.org/zap"

	"github.com/dshills/insights/internal/app"
	"github.com/dshills/insights/internal/config"
	"github.com/dshills/insights/internal/json"
	"github.com/dshills/insights/internal/logging"
	"github.com/dshills/insights/internal/rules"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	configPath  string
	replayPath  string
	ruleID      string
	logLevel    string
	dumpMetrics bool
	watchRules  bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.watchRules {
		cfg.Rules.Watch = true
	}

	logger, err := logging.New(cfg.LoggingSettings())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create logger: %v\n", err)
		return 1
	}

	application, err := app.New(app.Options{Config: cfg, Logger: logger})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	if opts.ruleID != "" {
		return printRule(application.Rules(), rules.RuleID(opts.ruleID))
	}

	in, closeIn, err := openReplay(opts.replayPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeIn()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats, err := application.Run(ctx, in)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("replay stopped", zap.Error(err))
		return 1
	}

	out := struct {
		Stats    app.Stats    `json:"stats"`
		Snapshot app.Snapshot `json:"snapshot"`
	}{stats, application.Snapshot()}
	if err := writeJSON(os.Stdout, out); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if opts.dumpMetrics {
		if err := dumpMetrics(os.Stderr, application); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}
	return 0
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", config.DefaultPath(), "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", config.DefaultPath(), "Path to configuration file (shorthand)")
	flag.StringVar(&opts.replayPath, "replay", "-", "File of message envelopes, one per line (- for stdin)")
	flag.StringVar(&opts.ruleID, "rule", "", "Print the information of a rule and exit")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	flag.BoolVar(&opts.dumpMetrics, "metrics", false, "Write interpreter metrics to stderr after the replay")
	flag.BoolVar(&opts.watchRules, "watch-rules", false, "Reload Lua rules when they change")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "insights - accessibility insights background context\n\n")
		fmt.Fprintf(os.Stderr, "Usage: insights [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  insights < session.ndjson        Replay messages from stdin\n")
		fmt.Fprintf(os.Stderr, "  insights -replay session.ndjson  Replay messages from a file\n")
		fmt.Fprintf(os.Stderr, "  insights -rule ColorContrast     Show rule information\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("insights %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if opts.logLevel != "" {
		if _, err := logging.ParseLevel(opts.logLevel); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	return opts
}

func openReplay(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening replay file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func printRule(p *rules.Provider, id rules.RuleID) int {
	info := p.GetRuleInformation(id)
	if info == nil {
		fmt.Fprintf(os.Stderr, "Error: unknown rule %q\n", id)
		return 1
	}

	out := struct {
		RuleID          rules.RuleID `json:"ruleId"`
		RuleDescription string       `json:"ruleDescription"`
	}{info.RuleID, info.RuleDescription}
	if err := writeJSON(os.Stdout, out); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func dumpMetrics(w io.Writer, application *app.Application) error {
	families, err := application.Metrics().Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	return nil
}
