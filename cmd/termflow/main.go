// Command termflow runs the demo counter application on the terminal
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/mattn/go-isatty"

	"github.com/lixenwraith/termflow/config"
	"github.com/lixenwraith/termflow/driver"
	errs "github.com/lixenwraith/termflow/errors"
	"github.com/lixenwraith/termflow/logging"
	"github.com/lixenwraith/termflow/metric"
	"github.com/lixenwraith/termflow/terminal"
)

var (
	configFlag  = flag.String("config", "", "Config file path (default: $XDG_CONFIG_HOME/termflow/config.yaml)")
	sceneFlag   = flag.String("scene", "", "YAML scene replacing the built-in view")
	logFlag     = flag.String("log", "", "Log file path, overrides log.path")
	levelFlag   = flag.String("log-level", "", "Log level, overrides log.level")
	metricsFlag = flag.String("metrics-addr", "", "Serve Prometheus metrics on this address, overrides metrics.addr")
	stateFlag   = flag.String("state", "", "Persist state in this bbolt file, overrides state.path")
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\n\x1b[31mTERMFLOW CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	flag.Parse()

	if !isatty.IsTerminal(os.Stdin.Fd()) || !isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Fprintln(os.Stderr, "termflow: stdin and stdout must be a terminal")
		os.Exit(2)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "termflow: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configFlag)
	if err != nil {
		return err
	}
	applyFlags(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closer, err := logging.Open(cfg.Log.Path, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer closer.Close()

	var sceneData []byte
	if path := cfg.Render.Scene; path != "" {
		if sceneData, err = os.ReadFile(path); err != nil {
			return errs.WrapInvalid(err, "termflow", "run", "read scene")
		}
	}

	metrics := metric.New()
	rt := driver.NewRuntime(driver.WithLogger(logger), driver.WithMetrics(metrics))
	if cfg.Metrics.Addr != "" {
		if err := rt.Hub.Register(metric.NewServer(cfg.Metrics.Addr, cfg.Metrics.Path, metrics, logger)); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("starting", "runtime_id", rt.ID, "scene", cfg.Render.Scene, "metrics", cfg.Metrics.Addr)
	err = rt.Run(ctx, newApp(sceneData), newDrivers(cfg, nil, cancel))
	if err != nil {
		logger.Error("stopped", "error", err, "class", errs.Classify(err).String())
		return err
	}
	logger.Info("stopped")
	return nil
}

// applyFlags lets explicit flags win over file and environment values
func applyFlags(cfg *config.Config) {
	if *sceneFlag != "" {
		cfg.Render.Scene = *sceneFlag
	}
	if *logFlag != "" {
		cfg.Log.Path = *logFlag
	}
	if *levelFlag != "" {
		cfg.Log.Level = *levelFlag
	}
	if *metricsFlag != "" {
		cfg.Metrics.Addr = *metricsFlag
	}
	if *stateFlag != "" {
		cfg.State.Path = *stateFlag
	}
}
