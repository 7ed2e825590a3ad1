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

package verify

import "testing"

const pageHeight = 792.0

func TestPageNoBlackRectNoLeak(t *testing.T) {
	src := []byte("BT /F1 12 Tf 100 100 Td (hello) Tj ET")
	leaks, err := Page(0, src, nil, pageHeight)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if len(leaks) != 0 {
		t.Errorf("leaks = %v, want none", leaks)
	}
}

func TestPageDetectsLeakUnderBlackRect(t *testing.T) {
	// Text drawn after (on top of, in paint order) a black rectangle
	// that exactly covers it: the content is still parseable, so it
	// leaks.
	src := []byte("q 0 0 0 rg 90 90 100 30 re f Q BT /F1 12 Tf 100 100 Td (SECRET) Tj ET")
	leaks, err := Page(0, src, nil, pageHeight)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if len(leaks) != 1 {
		t.Fatalf("leaks = %v, want exactly one", leaks)
	}
	if leaks[0].Text != "SECRET" {
		t.Errorf("leak text = %q, want SECRET", leaks[0].Text)
	}
}

func TestPageIgnoresNonBlackRect(t *testing.T) {
	src := []byte("q 1 0 0 rg 90 90 100 30 re f Q BT /F1 12 Tf 100 100 Td (fine) Tj ET")
	leaks, err := Page(0, src, nil, pageHeight)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if len(leaks) != 0 {
		t.Errorf("leaks = %v, want none (rect is red, not black)", leaks)
	}
}

func TestDocumentPassedWhenNoLeaks(t *testing.T) {
	pages := [][]byte{[]byte("BT /F1 12 Tf 0 0 Td (ok) Tj ET")}
	report, err := Document(pages, nil, []float64{pageHeight})
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if !report.Passed {
		t.Error("Passed = false, want true")
	}
}

func TestDocumentFailsWhenAnyPageLeaks(t *testing.T) {
	pages := [][]byte{
		[]byte("BT /F1 12 Tf 0 0 Td (ok) Tj ET"),
		[]byte("q 0 0 0 rg 0 0 50 50 re f Q BT /F1 12 Tf 10 10 Td (SECRET) Tj ET"),
	}
	report, err := Document(pages, nil, []float64{pageHeight, pageHeight})
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if report.Passed {
		t.Error("Passed = true, want false")
	}
	if len(report.Leaks) != 1 || report.Leaks[0].Page != 1 {
		t.Errorf("Leaks = %+v, want one leak on page 1", report.Leaks)
	}
}
