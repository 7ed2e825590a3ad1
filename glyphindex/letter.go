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

// Package glyphindex builds and queries the per-page character table
// ("letter index") the spatial filter uses to make character-level
// keep/remove decisions for text operations that only partially
// overlap a redaction rectangle.
package glyphindex

import (
	"github.com/blackline-labs/pdfredact/contentstream"
	"github.com/blackline-labs/pdfredact/coord"
)

// Letter is a single character positioned on the page, in PDF-native
// bottom-left points.
type Letter struct {
	Char      rune
	GlyphRect coord.BottomLeftBox
	BaselineX float64
	BaselineY float64
}

// BBoxTolerance is the font-metric tolerance (in PDF points) invariant
// I4 allows between a text operation's bounding box and the letters it
// reports: a text op's bbox must strictly contain every one of its
// letters, modulo this tolerance.
const BBoxTolerance = 5.0

// Index is an ordered per-page letter table, queried by position
// rather than by an internal operation index: a TextExtractionService
// collaborator has no way to learn which index the content-stream
// parser assigned to an operation, so attribution has to work from
// where a letter sits on the page, not from a number the collaborator
// can't supply.
type Index struct {
	letters []Letter
}

// New wraps a flat list of letters (as supplied by the
// TextExtractionService collaborator) into a queryable Index.
func New(letters []Letter) *Index {
	return &Index{letters: letters}
}

// LettersFor returns every letter in the index whose center lies
// within BBoxTolerance of opBBox (a bottom-left box), the position-
// based association filter.textRemoved uses to find the letters that
// belong to one text operation.
func (idx *Index) LettersFor(opBBox coord.BottomLeftBox) []Letter {
	var matched []Letter
	for _, l := range idx.letters {
		if l.MatchesOperation(opBBox) {
			matched = append(matched, l)
		}
	}
	return matched
}

// Len reports the total number of letters in the index.
func (idx *Index) Len() int { return len(idx.letters) }

// BuildFromOperations derives a default letter index directly from
// the parser's own Text operations, spreading each operation's
// decoded characters evenly across its bounding box. This is the
// fallback used when no external TextExtractionService collaborator
// is wired in (see redact.TextExtractionService); a real text layout
// pass is strictly more accurate; a dumb equal-spacing default is
// strictly conservative, since it always stays inside the parser's own
// bbox and therefore never collides with invariant I4 by construction.
func BuildFromOperations(ops []contentstream.Operation, pageHeight float64) []Letter {
	var letters []Letter
	for _, op := range ops {
		if op.Kind != contentstream.KindText {
			continue
		}
		runes := []rune(op.Text)
		n := len(runes)
		if n == 0 {
			continue
		}
		bottomLeft := coord.TopLeftToBottomLeft(op.BBox, pageHeight)
		step := (bottomLeft.Right - bottomLeft.Left) / float64(n)
		for j, r := range runes {
			left := bottomLeft.Left + step*float64(j)
			right := left + step
			letters = append(letters, Letter{
				Char: r,
				GlyphRect: coord.BottomLeftBox{
					Left: left, Right: right,
					Bottom: bottomLeft.Bottom, Top: bottomLeft.Top,
				},
				BaselineX: left,
				BaselineY: bottomLeft.Bottom,
			})
		}
	}
	return letters
}

// center returns the center point of a glyph rectangle.
func center(r coord.BottomLeftBox) (float64, float64) {
	return (r.Left + r.Right) / 2, (r.Bottom + r.Top) / 2
}

// MatchesOperation reports whether l's center lies within the
// operation bbox (given as a bottom-left box) expanded by
// BBoxTolerance on every side — invariant I4's "modulo a ±5pt
// font-metric tolerance".
func (l Letter) MatchesOperation(opBBox coord.BottomLeftBox) bool {
	cx, cy := center(l.GlyphRect)
	return cx >= opBBox.Left-BBoxTolerance && cx <= opBBox.Right+BBoxTolerance &&
		cy >= opBBox.Bottom-BBoxTolerance && cy <= opBBox.Top+BBoxTolerance
}

// CenterInsideRect reports whether l's center lies strictly inside
// rect — the "center-inside" rule spec.md's Open Questions section
// standardizes on for redaction removal.
func (l Letter) CenterInsideRect(rect coord.BottomLeftBox) bool {
	return coord.CenterInside(coord.BottomLeftBox{Left: l.GlyphRect.Left, Right: l.GlyphRect.Right, Bottom: l.GlyphRect.Bottom, Top: l.GlyphRect.Top}, rect)
}

// Overlap50Percent reports whether at least half of l's glyph
// rectangle's area lies inside rect — the forgiving rule spec.md
// recommends for text *extraction* (not used by the redaction filter
// itself, but exposed here for the out-of-scope extraction facade to
// call against this same index).
func (l Letter) Overlap50Percent(rect coord.BottomLeftBox) bool {
	ix := minF(l.GlyphRect.Right, rect.Right) - maxF(l.GlyphRect.Left, rect.Left)
	iy := minF(l.GlyphRect.Top, rect.Top) - maxF(l.GlyphRect.Bottom, rect.Bottom)
	if ix <= 0 || iy <= 0 {
		return false
	}
	intersection := ix * iy
	area := (l.GlyphRect.Right - l.GlyphRect.Left) * (l.GlyphRect.Top - l.GlyphRect.Bottom)
	if area <= 0 {
		return false
	}
	return intersection/area >= 0.5
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
