package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/zunderbolt"
	"github.com/hupe1980/zunderbolt/resource"
	"github.com/hupe1980/zunderbolt/stream"
)

const version = "0.1.0"

// env is the state shared by all commands, built once in Before.
type env struct {
	cfg        zunderbolt.Config
	logger     *zunderbolt.Logger
	metrics    *zunderbolt.BasicMetricsCollector
	collector  zunderbolt.MetricsCollector
	registry   *prometheus.Registry // nil unless the prometheus backend is selected
	controller *resource.Controller
}

// newCollector always keeps in-memory stats for --stats and adds Prometheus
// instruments on a private registry when configured.
func (e *env) newCollector() error {
	e.metrics = &zunderbolt.BasicMetricsCollector{}
	e.collector = e.metrics
	if !strings.EqualFold(e.cfg.Metrics.Backend, zunderbolt.MetricsBackendPrometheus) {
		return nil
	}

	e.registry = prometheus.NewRegistry()
	prom, err := zunderbolt.NewPrometheusCollector(e.registry)
	if err != nil {
		return err
	}
	e.collector = zunderbolt.MultiMetricsCollector{e.metrics, prom}
	return nil
}

// writeTextfile exports the Prometheus registry for the textfile collector.
func (e *env) writeTextfile() error {
	if e.registry == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(e.cfg.Metrics.TextfilePath, e.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

func (e *env) streamOptions(extra ...stream.Option) []stream.Option {
	opts := append(stream.OptionsFromConfig(e.cfg),
		stream.WithLogger(e.logger),
		stream.WithMetrics(e.collector),
		stream.WithController(e.controller),
	)
	return append(opts, extra...)
}

func (e *env) copyOptions(extra ...stream.CopyOption) []stream.CopyOption {
	opts := append(stream.CopyOptionsFromConfig(e.cfg),
		stream.WithCopyLogger(e.logger),
		stream.WithCopyMetrics(e.collector),
		stream.WithCopyController(e.controller),
	)
	return append(opts, extra...)
}

func newApp() *cli.App {
	e := &env{}

	app := cli.NewApp()
	app.Name = "zunderbolt"
	app.Usage = "buffered file stream toolkit"
	app.Version = version
	app.Writer = os.Stdout
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "config",
			Usage:  "YAML config file (ZB_* environment variables override it)",
			EnvVar: "ZB_CONFIG",
		},
		cli.StringFlag{
			Name:  "log.level",
			Usage: "Log level (debug|info|warn|error)",
		},
		cli.StringFlag{
			Name:  "log.format",
			Usage: "Log format (text|json)",
		},
		cli.BoolFlag{
			Name:  "stats",
			Usage: "Print I/O statistics after the command",
		},
	}

	app.Before = func(c *cli.Context) error {
		cfg, err := zunderbolt.LoadConfig(c.GlobalString("config"))
		if err != nil {
			return err
		}
		if c.GlobalIsSet("log.level") {
			cfg.Log.Level = c.GlobalString("log.level")
		}
		if c.GlobalIsSet("log.format") {
			cfg.Log.Format = c.GlobalString("log.format")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		e.cfg = cfg
		e.logger = zunderbolt.NewLoggerFromConfig(cfg.Log)
		if err := e.newCollector(); err != nil {
			return err
		}
		e.controller = resource.NewController(resource.Config{
			BufferMemoryLimitBytes: cfg.Resource.BufferMemoryLimitBytes,
			MaxConcurrentCopies:    cfg.Resource.MaxConcurrentCopies,
			CopyBytesPerSec:        cfg.Resource.CopyBytesPerSec,
		})
		return nil
	}

	app.After = func(c *cli.Context) error {
		if err := e.writeTextfile(); err != nil {
			return err
		}
		if !c.GlobalBool("stats") || e.metrics == nil {
			return nil
		}
		out, err := yaml.Marshal(e.metrics.GetStats())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(c.App.Writer, "---\n%s", out)
		return err
	}

	app.Commands = []cli.Command{
		copyCommand(e),
		catCommand(e),
		detectCommand(e),
		compressCommand(e, true),
		compressCommand(e, false),
		configCommand(e),
	}
	return app
}
