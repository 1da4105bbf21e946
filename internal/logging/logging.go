// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultMaxSizeMB  = 8
	defaultMaxBackups = 4
	defaultMaxAgeDays = 30
)

// Config describes where log lines go.
type Config struct {
	// Level is one of avalanchego's level names (verbo, debug, trace, info,
	// warn, error, fatal, off).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is plain, colors, json or auto.
	Format string `json:"format" yaml:"format" mapstructure:"format"`

	// File is an optional path of a rotated json log file.
	File       string `json:"file"       yaml:"file"       mapstructure:"file"`
	MaxSizeMB  int    `json:"maxSizeMB"  yaml:"maxSizeMB"  mapstructure:"max_size_mb"`
	MaxBackups int    `json:"maxBackups" yaml:"maxBackups" mapstructure:"max_backups"`
	Compress   bool   `json:"compress"   yaml:"compress"   mapstructure:"compress"`
}

func NewDefaultConfig() Config {
	return Config{
		Level:      logging.Info.String(),
		Format:     "auto",
		MaxSizeMB:  defaultMaxSizeMB,
		MaxBackups: defaultMaxBackups,
	}
}

// New returns a logger that writes to [console] and, when [cfg.File] is
// set, to a rotated file. Level "off" without a file discards everything.
func New(name string, cfg Config, console io.WriteCloser) (logging.Logger, error) {
	level, err := logging.ToLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if level == logging.Off && cfg.File == "" {
		return logging.NoLog{}, nil
	}
	fd := os.Stderr.Fd()
	if f, ok := console.(*os.File); ok {
		fd = f.Fd()
	}
	format, err := logging.ToFormat(cfg.Format, fd)
	if err != nil {
		return nil, fmt.Errorf("invalid log format %q: %w", cfg.Format, err)
	}

	cores := []logging.WrappedCore{
		logging.NewWrappedCore(level, console, format.ConsoleEncoder()),
	}
	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     defaultMaxAgeDays,
			Compress:   cfg.Compress,
		}
		cores = append(cores, logging.NewWrappedCore(level, rotator, logging.JSON.FileEncoder()))
	}
	return logging.NewLogger(name, cores...), nil
}
