// pdfredact - a PDF redaction engine for Go
// Copyright (C) 2026  Blackline Labs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package obslog configures the zap logger shared by the orchestrator,
// the CLI and the HTTP server.
package obslog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls logger construction; the zero value is production
// defaults (JSON, info level).
type Config struct {
	Development bool
	Level       zapcore.Level
}

// New builds a *zap.Logger from cfg. Development mode switches to a
// human-readable console encoder and debug level, matching the
// teacher's cmd-layer convention of toggling verbosity from a single
// --debug flag.
func New(cfg Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		zcfg = zap.NewProductionConfig()
		zcfg.Level = zap.NewAtomicLevelAt(cfg.Level)
	}
	return zcfg.Build()
}

// Noop returns a logger that discards everything, for tests and for
// callers that construct an Orchestrator without caring about logs.
func Noop() *zap.Logger {
	return zap.NewNop()
}
