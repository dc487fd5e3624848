package logger

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	FieldApp     = "app"
	FieldVersion = "version"
)

// Options describe how the CLI logs. Log lines go to stderr so that tables
// and prompts on stdout stay clean.
type Options struct {
	JSON  bool
	Debug bool
	// File receives the log lines instead of stderr when set.
	File    string
	App     string
	Version string
}

// New builds the CLI logger. JSON output carries the app and version on
// every line, so entries from different builds can be told apart.
func New(opts Options) (*zap.Logger, error) {
	cfg := Config(opts)

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o700); err != nil {
			return nil, err
		}
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	defer logger.Sync()

	return logger, nil
}

// Config returns the zap config New builds from.
func Config(opts Options) zap.Config {
	level := zapcore.InfoLevel
	encoding := "console"

	if opts.JSON {
		encoding = "json"
	}

	if opts.Debug {
		level = zapcore.DebugLevel
	}

	output := "stderr"
	if file := strings.TrimSpace(opts.File); file != "" {
		output = file
	}

	cfg := zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "step",

			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,

			EncodeDuration: zapcore.StringDurationEncoder,
		},
	}

	if opts.JSON {
		cfg.InitialFields = map[string]any{}
		if opts.App != "" {
			cfg.InitialFields[FieldApp] = opts.App
		}
		if opts.Version != "" {
			cfg.InitialFields[FieldVersion] = opts.Version
		}
	}

	return cfg
}
