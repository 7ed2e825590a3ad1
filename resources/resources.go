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

// Package resources computes which page-resource entries a redaction
// pass made unreachable, so the Document-service collaborator can
// prune them from /Resources/XObject.
package resources

import "github.com/blackline-labs/pdfredact/contentstream"

// Pruner abstracts the subset of a /Resources/XObject dictionary the
// cleaner needs to touch. A concrete implementation backed by a real
// PDF object model lives alongside the Document-service adapter; this
// package never constructs PDF objects itself.
type Pruner interface {
	DeleteXObject(name string)
}

// UnusedXObjectNames returns the XObject resource names that some
// removed operation referenced and no kept operation still references
// — safe to delete from /Resources/XObject without breaking a
// surviving Do invocation.
func UnusedXObjectNames(removed, kept []contentstream.Operation) []string {
	stillUsed := make(map[string]bool)
	for _, op := range kept {
		if op.Kind == contentstream.KindImageXObject {
			stillUsed[op.ResourceName] = true
		}
	}

	seen := make(map[string]bool)
	var out []string
	for _, op := range removed {
		if op.Kind != contentstream.KindImageXObject {
			continue
		}
		name := op.ResourceName
		if stillUsed[name] || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// Clean deletes every name UnusedXObjectNames reports from p.
func Clean(p Pruner, removed, kept []contentstream.Operation) {
	for _, name := range UnusedXObjectNames(removed, kept) {
		p.DeleteXObject(name)
	}
}
