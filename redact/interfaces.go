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

package redact

import (
	"github.com/blackline-labs/pdfredact/coord"
	"github.com/blackline-labs/pdfredact/glyphindex"
	"github.com/blackline-labs/pdfredact/resources"
)

// Document is the full-file PDF object model the orchestrator needs:
// parsing the cross-reference table, indirect objects, and streams is
// explicitly out of scope for this module (see the Non-goals this
// package's callers are built against) and is instead the
// responsibility of whatever concrete type implements this interface
// — internal/pdfdoc's pdfcpu-backed adapter, in this repository.
type Document interface {
	PageCount() int
	Page(index int) (Page, error)
	InfoDict() (map[string]string, error)
	SetInfoDict(map[string]string) error
	XMP() ([]byte, bool, error)
	SetXMP([]byte) error
	OutlineTitles() ([]string, error)
	SetOutlineTitles([]string) error
	NamesTreeLabels() ([]string, error)
	SetNamesTreeLabels([]string) error
	EmbeddedFileNames() ([]string, error)
	SetEmbeddedFileNames([]string) error
	Save(path string) error
}

// Page is a single page's content-stream and resource surface.
type Page interface {
	ContentStreams() ([][]byte, error)
	SetContentStream([]byte) error
	Height() float64
	Width() float64
	RotationDegrees() int
	XObjectPruner() resources.Pruner
}

// TextExtractionService supplies the per-page letter index used for
// character-accurate spatial filtering. Letters only need accurate
// page positions (GlyphRect, baseline) — the filter matches them to a
// text operation by bounding-box proximity, not by any internal index
// of the content-stream parser, so an implementation never needs to
// know how the parser enumerates its operations. Building this from
// scratch — a real text layout pass including embedded font program
// parsing — is out of scope; the default orchestrator falls back to
// glyphindex.BuildFromOperations when none is wired in.
type TextExtractionService interface {
	Letters(page Page, pageIndex int) ([]glyphindex.Letter, error)
}

// RenderService rasterizes a page to an image at a given DPI. It is
// the out-of-scope collaborator that turns a user's on-screen
// rectangle selection into the image-pixel coordinates a
// RedactionRequest carries; the core redaction pipeline never calls
// it directly.
type RenderService interface {
	Render(doc Document, pageIndex int, dpi float64) (pixels []byte, width, height int, err error)
}

// FontMetricsProvider resolves a Document's fonts into the
// contentstream.FontMetrics the parser needs. A nil provider makes the
// orchestrator parse every page with contentstream.FallbackMetrics.
type FontMetricsProvider interface {
	MetricsFor(doc Document, pageIndex int) (FontMetrics, error)
}

// FontMetrics mirrors contentstream.FontMetrics so that
// FontMetricsProvider implementations don't need to import the
// contentstream package just to satisfy this interface.
type FontMetrics interface {
	AdvanceWidth(fontName string, code byte) (width float64, ok bool)
	Ascent(fontName string) (ascent float64, ok bool)
	Descent(fontName string) (descent float64, ok bool)
	Decode(fontName string, raw []byte) string
}

// areasToBoxes converts a request's image-pixel rectangles into
// PDF-native bottom-left boxes for one page.
func areasToBoxes(rects []coord.PixelRect, dpi, pageHeight float64) ([]coord.BottomLeftBox, error) {
	boxes := make([]coord.BottomLeftBox, len(rects))
	for i, r := range rects {
		b, err := coord.ImageSelectionToPDFCoords(r, pageHeight, dpi)
		if err != nil {
			return nil, err
		}
		boxes[i] = b
	}
	return boxes, nil
}
