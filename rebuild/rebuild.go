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

// Package rebuild serializes a filtered operation stream back into a
// valid PDF content stream.
package rebuild

import (
	"bytes"

	"github.com/blackline-labs/pdfredact/contentstream"
)

// Stream re-emits kept, in order, as a single content stream. Every
// operation with a non-empty Raw span is copied verbatim from
// original; an operation with an empty Raw span (none are currently
// produced by contentstream.Parse, but synthesized operations may have
// one) falls back to Synthesize.
//
// A single space is inserted between consecutive operations rather
// than preserving the source's original inter-token whitespace: once
// operations in between have been removed, there is no single
// "original" whitespace run to preserve, and a single space is always
// a valid token separator.
func Stream(original []byte, kept []contentstream.Operation) []byte {
	var buf bytes.Buffer
	for i, op := range kept {
		if i > 0 {
			buf.WriteByte(' ')
		}
		if op.Raw.Length > 0 {
			buf.Write(original[op.Raw.Offset : op.Raw.Offset+op.Raw.Length])
			continue
		}
		buf.Write(Synthesize(op))
	}
	return buf.Bytes()
}

// Synthesize renders an operation that has no verbatim source bytes
// (i.e. was constructed rather than parsed) using canonical PDF
// content-stream syntax. Only Opaque operations carrying their own
// RawBytes are supported; every operation contentstream.Parse produces
// carries a Raw span and never reaches this path.
func Synthesize(op contentstream.Operation) []byte {
	if op.Kind == contentstream.KindOpaque && len(op.RawBytes) > 0 {
		return op.RawBytes
	}
	return nil
}

// FlattenContents concatenates multiple /Contents streams into one,
// separated by a newline, mirroring how PDF viewers treat an array of
// content streams as logically one stream. Call this before Parse when
// a page's /Contents is an array rather than a single stream.
func FlattenContents(streams [][]byte) []byte {
	var buf bytes.Buffer
	for i, s := range streams {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.Write(s)
	}
	return buf.Bytes()
}
