package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/eugenenazirov/flow-layout/internal/arrange"
	"github.com/eugenenazirov/flow-layout/internal/logging"
	"github.com/eugenenazirov/flow-layout/internal/tui"
)

var errTooFewItems = errors.New("--items must be at least 1")

type options struct {
	demo     tui.Config
	logFile  string
	logLevel string
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	kingpin.FatalIfError(err, "flowdemo")

	logger, err := newLogger(opts)
	kingpin.FatalIfError(err, "failed to initialize logger")
	defer func() {
		_ = logger.Sync()
	}()

	program := tea.NewProgram(tui.New(opts.demo, logger), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		logger.Error("demo exited with error", zap.Error(err))
		fmt.Fprintf(os.Stderr, "flowdemo: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	defaults := tui.DefaultConfig()

	kingpinApp := kingpin.New("flowdemo", "Terminal demo of the five arrangement algorithms")
	algorithm := kingpinApp.Flag("algorithm", "Initially selected algorithm (vstack, hstack, zstack, circle, flow)").Default(defaults.Initial.String()).String()
	spacing := kingpinApp.Flag("spacing", "Spacing between capsules, in cells").Default(fmt.Sprint(defaults.Spacing)).Float64()
	radius := kingpinApp.Flag("radius", "Circle radius in cells (0 fits the terminal)").Default("0").Float64()
	items := kingpinApp.Flag("items", "Number of capsules").Default(fmt.Sprint(defaults.ItemCount)).Int()
	inlineFirst := kingpinApp.Flag("inline-first", "Keep an oversized first flow item at the origin").Bool()
	frames := kingpinApp.Flag("frames", "Animation frames per selection change").Default(fmt.Sprint(defaults.Frames)).Int()
	logFile := kingpinApp.Flag("log-file", "Write JSON logs to this file").String()
	logLevel := kingpinApp.Flag("log-level", "Log level (debug, info, warn, error)").Default("info").String()

	if _, err := kingpinApp.Parse(args); err != nil {
		return options{}, err
	}

	alg, err := arrange.Parse(*algorithm)
	if err != nil {
		return options{}, err
	}
	if *items < 1 {
		return options{}, errTooFewItems
	}

	cfg := defaults
	cfg.Initial = alg
	cfg.Spacing = *spacing
	cfg.Radius = *radius
	cfg.ItemCount = *items
	cfg.InlineFirst = *inlineFirst
	cfg.Frames = *frames

	return options{demo: cfg, logFile: *logFile, logLevel: *logLevel}, nil
}

// newLogger discards logs unless a file is given; stdout belongs to the UI.
func newLogger(opts options) (*zap.Logger, error) {
	if opts.logFile == "" {
		return zap.NewNop(), nil
	}
	return logging.New(opts.logLevel, opts.logFile)
}
