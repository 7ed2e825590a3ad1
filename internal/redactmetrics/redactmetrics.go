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

// Package redactmetrics wires the orchestrator's per-call outcomes
// into Prometheus counters and histograms.
package redactmetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder records redaction-call outcomes. The zero value is not
// usable; construct with New or NewForRegistry.
type Recorder struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New registers the recorder's collectors with prometheus's default
// registry.
func New() *Recorder {
	return NewForRegistry(prometheus.DefaultRegisterer)
}

// NewForRegistry registers against reg, useful for tests that want an
// isolated registry instead of the process-global one.
func NewForRegistry(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "redact_calls_total",
			Help: "Total number of redaction calls, by resulting mode.",
		}, []string{"mode"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "redact_duration_seconds",
			Help:    "Wall-clock time spent redacting a single area.",
			Buckets: prometheus.DefBuckets,
		}, []string{"mode"}),
	}
	reg.MustRegister(r.calls, r.duration)
	return r
}

// Observe records one redaction call's outcome and duration.
func (r *Recorder) Observe(mode string, d time.Duration) {
	r.calls.WithLabelValues(mode).Inc()
	r.duration.WithLabelValues(mode).Observe(d.Seconds())
}
