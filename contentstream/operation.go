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

// Package contentstream lexes and interprets PDF page content streams,
// folding operators through a graphics-state interpreter and emitting
// a sequence of typed Operation records, each carrying an axis-aligned
// bounding box in top-left PDF points.
package contentstream

import (
	"github.com/blackline-labs/pdfredact/coord"
	"github.com/blackline-labs/pdfredact/gstate"
)

// PathKind classifies how a path-painting operator consumes the
// current path.
type PathKind int

const (
	PathStroke PathKind = iota
	PathFill
	PathFillStroke
	PathClipOnly
)

// Span is a (offset, length) back-pointer into the original content
// stream buffer, used to re-emit an operation's bytes verbatim.
type Span struct {
	Offset, Length int
}

// Operation is the tagged variant the parser produces. Exactly one of
// the Text/Path/Image/InlineImage/Opaque accessors is meaningful for
// any given Operation; Kind reports which.
type Kind int

const (
	KindOpaque Kind = iota
	KindText
	KindPath
	KindImageXObject
	KindInlineImage
)

// Operation is one parsed content-stream unit.
type Operation struct {
	Kind Kind
	Raw  Span // back-pointer into the source buffer for verbatim re-emission

	// KindText
	Text     string
	FontName string
	FontSize float64

	// KindPath
	PathKind  PathKind
	FillColor gstate.Color // fill color in effect when the path was painted

	// KindImageXObject
	ResourceName string

	// KindInlineImage
	ImageWidth, ImageHeight int

	// KindOpaque
	RawBytes []byte

	// BBox is populated for every non-Opaque kind: the operator's
	// native-space extent transformed through the CTM (and, for text,
	// the text matrix too) and Y-flipped into top-left PDF points.
	BBox coord.TopLeftRect
}

// IsOpaque reports whether op must always be kept by the filter.
func (op Operation) IsOpaque() bool { return op.Kind == KindOpaque }
