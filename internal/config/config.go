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

// Package config loads the YAML configuration shared by redactctl and
// redact-server.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the settings both command-layer binaries read from a
// config file, overridable by flags.
type Config struct {
	RenderDPI float64 `yaml:"render_dpi"`
	LogLevel  string  `yaml:"log_level"`
	Dev       bool    `yaml:"dev"`
	Server    struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		RenderDPI: 72.0,
		LogLevel:  "info",
		Server: struct {
			Addr string `yaml:"addr"`
		}{Addr: ":8080"},
	}
}

// Load reads and parses a YAML config file, starting from Default so
// unset fields keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
