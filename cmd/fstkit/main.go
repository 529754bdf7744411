// Command fstkit compiles, prints, draws and combines weighted
// automata stored in the fstkit binary format.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fstkit/fstkit"
	"github.com/fstkit/fstkit/semiring"
)

// Config is the optional YAML configuration file.
type Config struct {
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
	Semiring string `yaml:"semiring"`
}

var (
	cfg      Config
	cfgPath  string
	logLevel string
	logFile  string
	ring     string

	logCloser io.Closer
)

func loadConfig() error {
	path := cfgPath
	if path == "" {
		path = "fstkit.yaml"
		if _, err := os.Stat(path); err != nil {
			return nil
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// setupLogging fans log records out to a text handler on stderr and,
// when configured, a JSON file.
func setupLogging() error {
	level := slog.LevelInfo
	name := logLevel
	if name == "" {
		name = cfg.LogLevel
	}
	switch name {
	case "debug":
		level = slog.LevelDebug
	case "", "info":
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("unknown log level %q", name)
	}
	handlers := []slog.Handler{
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	}
	path := logFile
	if path == "" {
		path = cfg.LogFile
	}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logCloser = f
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	logger := slog.New(slogmulti.Fanout(handlers...))
	slog.SetDefault(logger)
	fstkit.SetLogger(logger)
	return nil
}

func semiringName() string {
	if ring != "" {
		return ring
	}
	if cfg.Semiring != "" {
		return cfg.Semiring
	}
	return "tropical"
}

func registerReaders() {
	fstkit.RegisterVectorFst[semiring.Tropical]()
	fstkit.RegisterVectorFst[semiring.Log]()
	fstkit.RegisterVectorFst[semiring.Boolean]()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fstkit",
		Short:         "Weighted finite-state automaton toolkit",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(); err != nil {
				return err
			}
			return setupLogging()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logCloser != nil {
				logCloser.Close()
			}
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config (default fstkit.yaml if present)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&logFile, "log-file", "", "append JSON logs to this file")
	root.PersistentFlags().StringVar(&ring, "semiring", "", "weight semiring: tropical, log, boolean (default tropical)")

	root.AddCommand(
		newCompileCmd(),
		newPrintCmd(),
		newInfoCmd(),
		newDrawCmd(),
		newUnionCmd(),
		newMapCmd(),
	)
	return root
}

func main() {
	registerReaders()
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
