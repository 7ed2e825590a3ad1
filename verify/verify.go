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

// Package verify re-parses a redacted page and confirms that no
// surviving text intersects an opaque black rectangle — i.e. that the
// redaction is a true removal, not a decorative overlay with leakable
// text behind it.
package verify

import (
	"github.com/blackline-labs/pdfredact/contentstream"
	"github.com/blackline-labs/pdfredact/coord"
)

// ColorTolerance is how far from pure black (0,0,0) a fill color may
// be and still count as a redaction rectangle; content streams often
// round color components slightly during re-serialization.
const ColorTolerance = 0.01

// Leak is a piece of surviving content found underneath a black
// rectangle.
type Leak struct {
	Page int
	Text string
	BBox coord.TopLeftRect
}

// Report is the outcome of verifying one or more pages.
type Report struct {
	Leaks  []Leak
	Passed bool
}

// Page re-parses one page's content stream, collects the black filled
// paths it paints, and returns a Leak for every Text operation whose
// bounding box intersects one of them.
func Page(pageIndex int, buf []byte, metrics contentstream.FontMetrics, pageHeight float64) ([]Leak, error) {
	ops, err := contentstream.Parse(buf, metrics, pageHeight)
	if err != nil {
		return nil, err
	}

	var blackRects []coord.BottomLeftBox
	for _, op := range ops {
		if op.Kind != contentstream.KindPath {
			continue
		}
		if op.PathKind != contentstream.PathFill && op.PathKind != contentstream.PathFillStroke {
			continue
		}
		if !isBlack(op.FillColor.R, op.FillColor.G, op.FillColor.B) {
			continue
		}
		blackRects = append(blackRects, coord.TopLeftToBottomLeft(op.BBox, pageHeight))
	}

	var leaks []Leak
	for _, op := range ops {
		if op.Kind != contentstream.KindText {
			continue
		}
		box := coord.TopLeftToBottomLeft(op.BBox, pageHeight)
		for _, rect := range blackRects {
			if coord.Intersects(box, rect) {
				leaks = append(leaks, Leak{Page: pageIndex, Text: op.Text, BBox: op.BBox})
				break
			}
		}
	}
	return leaks, nil
}

// Document verifies every page and aggregates the result.
func Document(pages [][]byte, metrics contentstream.FontMetrics, pageHeights []float64) (Report, error) {
	var report Report
	for i, buf := range pages {
		h := 0.0
		if i < len(pageHeights) {
			h = pageHeights[i]
		}
		leaks, err := Page(i, buf, metrics, h)
		if err != nil {
			return Report{}, err
		}
		report.Leaks = append(report.Leaks, leaks...)
	}
	report.Passed = len(report.Leaks) == 0
	return report, nil
}

func isBlack(r, g, b float64) bool {
	return absf(r) <= ColorTolerance && absf(g) <= ColorTolerance && absf(b) <= ColorTolerance
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
