// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package logger configures the process-wide zerolog logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New builds a logger at the given level. Development output is a
// human-readable console stream; everything else is JSON.
func New(w io.Writer, level string, dev bool) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, err
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339

	if dev {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Str("service", "techblog").
		Logger(), nil
}

// Setup installs the logger as the global log.Logger and returns it.
func Setup(level string, dev bool) (zerolog.Logger, error) {
	l, err := New(os.Stderr, level, dev)
	if err != nil {
		return zerolog.Logger{}, err
	}
	log.Logger = l
	zerolog.DefaultContextLogger = &log.Logger
	return l, nil
}
