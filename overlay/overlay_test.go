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

package overlay

import (
	"testing"

	"github.com/blackline-labs/pdfredact/coord"
)

func TestPaintFixedOperatorSequence(t *testing.T) {
	area := coord.BottomLeftBox{Left: 10, Right: 60, Bottom: 100, Top: 120}
	got := string(Paint(area))
	want := "q 0 0 0 rg 10.00 100.00 50.00 20.00 re f Q"
	if got != want {
		t.Errorf("Paint = %q, want %q", got, want)
	}
}

func TestPaintTwoDecimalFormatting(t *testing.T) {
	area := coord.BottomLeftBox{Left: 1.005, Right: 2.0, Bottom: 0, Top: 1}
	got := string(Paint(area))
	if got != "q 0 0 0 rg 1.00 0.00 1.00 1.00 re f Q" && got != "q 0 0 0 rg 1.01 0.00 0.99 1.00 re f Q" {
		t.Errorf("Paint = %q, want two-decimal rounded output", got)
	}
}

func TestPaintAllJoinsOnNewline(t *testing.T) {
	areas := []coord.BottomLeftBox{
		{Left: 0, Right: 1, Bottom: 0, Top: 1},
		{Left: 2, Right: 3, Bottom: 2, Top: 3},
	}
	got := string(PaintAll(areas))
	want := "q 0 0 0 rg 0.00 0.00 1.00 1.00 re f Q\nq 0 0 0 rg 2.00 2.00 1.00 1.00 re f Q"
	if got != want {
		t.Errorf("PaintAll = %q, want %q", got, want)
	}
}
