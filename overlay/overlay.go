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

// Package overlay paints the visible black rectangle that covers a
// redaction area, independent of whether the underlying content was
// successfully removed.
package overlay

import (
	"fmt"
	"strings"

	"github.com/blackline-labs/pdfredact/coord"
)

// Paint returns the content-stream fragment that paints one opaque
// black rectangle over area (a PDF-native bottom-left box), using the
// fixed operator sequence:
//
//	q 0 0 0 rg {x} {y} {w} {h} re f Q
//
// Numbers are formatted with exactly two decimal digits, independent
// of locale, so the output is byte-for-byte reproducible.
func Paint(area coord.BottomLeftBox) []byte {
	x := area.Left
	y := area.Bottom
	w := area.Right - area.Left
	h := area.Top - area.Bottom
	return []byte(fmt.Sprintf("q 0 0 0 rg %s %s %s %s re f Q", fixed2(x), fixed2(y), fixed2(w), fixed2(h)))
}

// PaintAll concatenates Paint for every area, each on its own line.
func PaintAll(areas []coord.BottomLeftBox) []byte {
	frags := make([]string, len(areas))
	for i, a := range areas {
		frags[i] = string(Paint(a))
	}
	return []byte(strings.Join(frags, "\n"))
}

// fixed2 formats f with exactly two decimal digits, regardless of the
// process locale (fmt's %.2f is already locale-independent for '.' as
// the decimal point, but this helper keeps the formatting rule
// explicit and in one place).
func fixed2(f float64) string {
	return fmt.Sprintf("%.2f", f)
}
