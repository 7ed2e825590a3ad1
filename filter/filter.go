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

// Package filter applies the spatial keep/remove decision to a parsed
// operation stream, given one or more redaction areas.
package filter

import (
	"github.com/blackline-labs/pdfredact/contentstream"
	"github.com/blackline-labs/pdfredact/coord"
	"github.com/blackline-labs/pdfredact/glyphindex"
)

// Result is the outcome of filtering one page's operation stream.
type Result struct {
	Kept []contentstream.Operation

	// RemovedText holds the decoded text of every Text operation the
	// filter removed, in the order they were removed. The orchestrator
	// appends these to its redacted-terms log.
	RemovedText []string

	// RemovedOps holds every operation the filter removed, regardless
	// of kind — the resource cleaner needs the ImageXObject ones to
	// find orphaned /Resources/XObject entries.
	RemovedOps []contentstream.Operation

	// ContentRemoved reports whether anything at all was removed.
	ContentRemoved bool
}

// Apply decides, for every operation in ops, whether it survives the
// redaction. areas are PDF-native bottom-left boxes, already
// normalized from the request's image-pixel rectangles. idx is the
// page's letter index (may be nil, in which case Text operations fall
// back to whole-operation bbox intersection).
//
// Decision rules, applied in order:
//
//  1. Opaque operations are always kept (graphics-state setters carry
//     no visible content of their own).
//  2. Text operations are removed if any of the letters positioned
//     near the operation's bounding box (within
//     glyphindex.BBoxTolerance — the center-inside rule) have a
//     center lying strictly inside a redaction area. If the letter
//     index has no letters near the operation, the operation's own
//     bounding box is tested for intersection instead.
//  3. Path, ImageXObject and InlineImage operations are removed iff
//     their bounding box intersects a redaction area, using the
//     half-open rule (touching edges do not count).
func Apply(ops []contentstream.Operation, areas []coord.BottomLeftBox, pageHeight float64, idx *glyphindex.Index) Result {
	var res Result
	res.Kept = make([]contentstream.Operation, 0, len(ops))

	for _, op := range ops {
		if op.IsOpaque() {
			res.Kept = append(res.Kept, op)
			continue
		}

		remove := false
		switch op.Kind {
		case contentstream.KindText:
			remove = textRemoved(op, areas, pageHeight, idx)
		case contentstream.KindPath, contentstream.KindImageXObject, contentstream.KindInlineImage:
			remove = bboxIntersectsAny(op.BBox, areas, pageHeight)
		}

		if remove {
			res.ContentRemoved = true
			res.RemovedOps = append(res.RemovedOps, op)
			if op.Kind == contentstream.KindText {
				res.RemovedText = append(res.RemovedText, op.Text)
			}
			continue
		}
		res.Kept = append(res.Kept, op)
	}
	return res
}

func textRemoved(op contentstream.Operation, areas []coord.BottomLeftBox, pageHeight float64, idx *glyphindex.Index) bool {
	if idx != nil && idx.Len() > 0 {
		opBBox := coord.TopLeftToBottomLeft(op.BBox, pageHeight)
		if letters := idx.LettersFor(opBBox); len(letters) > 0 {
			for _, l := range letters {
				for _, area := range areas {
					if l.CenterInsideRect(area) {
						return true
					}
				}
			}
			return false
		}
	}
	return bboxIntersectsAny(op.BBox, areas, pageHeight)
}

func bboxIntersectsAny(bbox coord.TopLeftRect, areas []coord.BottomLeftBox, pageHeight float64) bool {
	box := coord.TopLeftToBottomLeft(bbox, pageHeight)
	for _, area := range areas {
		if coord.Intersects(box, area) {
			return true
		}
	}
	return false
}
