package main

import (
	"fmt"
	"io"
	"os"

	"github.com/tturner/lingo/internal/ajax"
	"github.com/tturner/lingo/internal/config"
	"github.com/tturner/lingo/internal/errors"
	"github.com/tturner/lingo/internal/logging"
	"github.com/tturner/lingo/internal/metrics"
)

type globalFlags struct {
	configPath string
	baseURL    string
	logLevel   string
	logFile    string
}

// appEnv is what every command needs once flags and config are resolved.
type appEnv struct {
	cfg  *config.Config
	log  *logging.Logger
	sink *metrics.Sink
}

// statsFlags select what is reported about the requests a command made.
type statsFlags struct {
	stats      bool
	metricsCSV string
}

// loadEnv resolves the configuration and opens the logger. Console output
// of the logger goes to console; pass io.Discard while a full-screen UI
// owns the terminal.
func loadEnv(g *globalFlags, console io.Writer) (*appEnv, error) {
	paths := []string{config.GlobalPath(), config.ProjectPath()}
	if g.configPath != "" {
		if _, err := os.Stat(g.configPath); err != nil {
			return nil, errors.WrapConfigError(fmt.Errorf("config file not found: %s", g.configPath), g.configPath)
		}
		paths = append(paths, g.configPath)
	}
	cfg, err := config.LoadFiles(paths...)
	if err != nil {
		return nil, err
	}
	if g.baseURL != "" {
		cfg.BaseURL = g.baseURL
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	if g.logFile != "" {
		cfg.LogFile = g.logFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.WrapConfigError(err, "command line flags")
	}

	log, err := logging.NewLoggerWithOptions(cfg.Level(), cfg.LogFile, cfg.LogFormat, console, console)
	if err != nil {
		return nil, fmt.Errorf("open logger: %w", err)
	}
	return &appEnv{cfg: cfg, log: log, sink: metrics.NewSink()}, nil
}

func (e *appEnv) close() {
	_ = e.log.Close()
}

func (e *appEnv) client() (*ajax.Client, error) {
	c, err := ajax.NewClient(e.cfg.BaseURL,
		ajax.WithTimeout(e.cfg.RequestTimeout),
		ajax.WithContextPath(e.cfg.Context),
		ajax.WithLogger(e.log),
		ajax.WithMetrics(e.sink),
	)
	if err != nil {
		return nil, errors.WrapConfigError(err, "base_url")
	}
	return c, nil
}

// report writes the request summary to w and the per-request CSV, as
// selected by flags.
func (e *appEnv) report(w io.Writer, flags statsFlags) error {
	if flags.metricsCSV != "" {
		mw, err := metrics.NewWriter(flags.metricsCSV, "")
		if err != nil {
			return err
		}
		for _, m := range e.sink.GetMetrics() {
			if err := mw.WriteMetric(m); err != nil {
				mw.Close()
				return err
			}
		}
		if err := mw.Close(); err != nil {
			return err
		}
	}
	if flags.stats {
		fmt.Fprint(w, metrics.FormatSummary(e.sink.GetSummary()))
	}
	return nil
}
