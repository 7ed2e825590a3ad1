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

package filter

import (
	"testing"

	"github.com/blackline-labs/pdfredact/contentstream"
	"github.com/blackline-labs/pdfredact/coord"
	"github.com/blackline-labs/pdfredact/glyphindex"
)

const pageHeight = 792.0

func TestApplyKeepsOpaqueRegardlessOfArea(t *testing.T) {
	ops := []contentstream.Operation{
		{Kind: contentstream.KindOpaque, RawBytes: []byte("q")},
	}
	areas := []coord.BottomLeftBox{{Left: 0, Right: 1000, Bottom: 0, Top: 1000}}
	res := Apply(ops, areas, pageHeight, nil)
	if len(res.Kept) != 1 {
		t.Fatalf("Kept = %d ops, want 1", len(res.Kept))
	}
	if res.ContentRemoved {
		t.Error("ContentRemoved = true, want false")
	}
}

func TestApplyRemovesTextByBBoxFallback(t *testing.T) {
	// No letter index supplied: falls back to whole-op bbox intersection.
	op := contentstream.Operation{
		Kind: contentstream.KindText,
		Text: "SECRET",
		BBox: coord.TopLeftRect{X: 100, Y: 100, W: 50, H: 10},
	}
	area := coord.TopLeftToBottomLeft(op.BBox, pageHeight)
	res := Apply([]contentstream.Operation{op}, []coord.BottomLeftBox{area}, pageHeight, nil)

	if len(res.Kept) != 0 {
		t.Fatalf("Kept = %d, want 0", len(res.Kept))
	}
	if len(res.RemovedText) != 1 || res.RemovedText[0] != "SECRET" {
		t.Errorf("RemovedText = %v, want [SECRET]", res.RemovedText)
	}
}

func TestApplyKeepsTextOutsideArea(t *testing.T) {
	op := contentstream.Operation{
		Kind: contentstream.KindText,
		Text: "fine",
		BBox: coord.TopLeftRect{X: 400, Y: 400, W: 50, H: 10},
	}
	area := coord.BottomLeftBox{Left: 0, Right: 10, Bottom: 0, Top: 10}
	res := Apply([]contentstream.Operation{op}, []coord.BottomLeftBox{area}, pageHeight, nil)

	if len(res.Kept) != 1 {
		t.Fatalf("Kept = %d, want 1", len(res.Kept))
	}
	if res.ContentRemoved {
		t.Error("ContentRemoved = true, want false")
	}
}

func TestApplyTouchingEdgeIsNotRemoved(t *testing.T) {
	// Invariant: the half-open rule means an area that only touches a
	// path's bbox edge does not count as an intersection.
	op := contentstream.Operation{
		Kind: contentstream.KindPath,
		BBox: coord.TopLeftRect{X: 0, Y: 0, W: 10, H: 10},
	}
	area := coord.BottomLeftBox{Left: 10, Right: 20, Bottom: 0, Top: 10}
	res := Apply([]contentstream.Operation{op}, []coord.BottomLeftBox{area}, pageHeight, nil)
	if len(res.Kept) != 1 {
		t.Fatalf("Kept = %d, want 1 (touching edges should not remove)", len(res.Kept))
	}
}

func TestApplyUsesLetterIndexCenterInsideRule(t *testing.T) {
	// A text op spans a wide area but only its first letter's center
	// falls inside the redaction area; with a letter index wired in,
	// only operations with a matching letter are removed.
	ops := []contentstream.Operation{
		{Kind: contentstream.KindText, Text: "AB", BBox: coord.TopLeftRect{X: 0, Y: 0, W: 20, H: 10}},
	}
	letters := []glyphindex.Letter{
		{Char: 'A', GlyphRect: coord.BottomLeftBox{Left: 0, Right: 10, Bottom: 780, Top: 790}},
		{Char: 'B', GlyphRect: coord.BottomLeftBox{Left: 10, Right: 20, Bottom: 780, Top: 790}},
	}
	idx := glyphindex.New(letters)
	area := coord.BottomLeftBox{Left: 0, Right: 10, Bottom: 780, Top: 790}

	res := Apply(ops, []coord.BottomLeftBox{area}, pageHeight, idx)
	if len(res.Kept) != 0 {
		t.Fatalf("Kept = %d, want 0 (letter A's center falls in the area)", len(res.Kept))
	}
}

func TestApplyPreservesOrderOfKeptOps(t *testing.T) {
	ops := []contentstream.Operation{
		{Kind: contentstream.KindOpaque, RawBytes: []byte("1")},
		{Kind: contentstream.KindText, Text: "keep-me", BBox: coord.TopLeftRect{X: 500, Y: 500, W: 10, H: 10}},
		{Kind: contentstream.KindOpaque, RawBytes: []byte("2")},
	}
	area := coord.BottomLeftBox{Left: 0, Right: 1, Bottom: 0, Top: 1}
	res := Apply(ops, []coord.BottomLeftBox{area}, pageHeight, nil)
	if len(res.Kept) != 3 {
		t.Fatalf("Kept = %d, want 3", len(res.Kept))
	}
}
