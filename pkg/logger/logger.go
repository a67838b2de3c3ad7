/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package logger provides structured logging using zerolog
package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

const (
	OutputStdout  = "stdout"
	OutputStderr  = "stderr"
	OutputFile    = "file"
	OutputDiscard = "discard"

	FormatJSON    = "json"
	FormatConsole = "console"
)

var (
	errUnknownOutput = errors.New("unknown log output")
	errUnknownFormat = errors.New("unknown log format")
	errNoLogFile     = errors.New("log output is file but no file is set")
)

type Config struct {
	Level      string `koanf:"level" json:"level" yaml:"level"`
	Debug      bool   `koanf:"debug" json:"debug" yaml:"debug"`
	Output     string `koanf:"output" json:"output" yaml:"output"`
	File       string `koanf:"file" json:"file" yaml:"file"`
	Format     string `koanf:"format" json:"format" yaml:"format"`
	TimeFormat string `koanf:"time_format" json:"time_format" yaml:"time_format"`
}

func (c *Config) level() (zerolog.Level, error) {
	if c.Debug {
		return zerolog.DebugLevel, nil
	}

	if c.Level == "" {
		return zerolog.InfoLevel, nil
	}

	return zerolog.ParseLevel(c.Level)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds a Logger from config. The returned Closer releases the log file
// when Output is "file" and is a no-op otherwise.
func New(config *Config) (Logger, io.Closer, error) {
	if config == nil {
		config = DefaultConfig()
	}

	level, err := config.level()
	if err != nil {
		return nil, nil, err
	}

	var (
		output io.Writer
		closer io.Closer = nopCloser{}
	)

	switch config.Output {
	case "", OutputStdout:
		output = os.Stdout
	case OutputStderr:
		output = os.Stderr
	case OutputDiscard:
		output = io.Discard
	case OutputFile:
		if config.File == "" {
			return nil, nil, errNoLogFile
		}

		if err := os.MkdirAll(filepath.Dir(config.File), 0o750); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		f, err := os.OpenFile(config.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}

		output, closer = f, f
	default:
		return nil, nil, fmt.Errorf("%w: %q", errUnknownOutput, config.Output)
	}

	timeFormat := time.RFC3339
	if config.TimeFormat != "" {
		timeFormat = config.TimeFormat
	}

	switch config.Format {
	case "", FormatJSON:
		zerolog.TimeFieldFormat = timeFormat
	case FormatConsole:
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: timeFormat, NoColor: config.Output == OutputFile}
	default:
		_ = closer.Close()

		return nil, nil, fmt.Errorf("%w: %q", errUnknownFormat, config.Format)
	}

	zlog := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &zerologLogger{logger: zlog}, closer, nil
}
