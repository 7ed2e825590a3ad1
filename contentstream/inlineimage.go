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

package contentstream

import (
	"fmt"

	"github.com/blackline-labs/pdfredact/pdfval"
)

// handleInlineImage parses a "BI ... ID ... EI" sequence. The
// dictionary between BI and ID is read with the ordinary token reader;
// the binary data between ID and EI is scanned byte-by-byte looking
// for a whitespace-delimited "EI", since it is not guaranteed to be
// valid content-stream syntax.
func (p *parser) handleInlineImage(biStart int) error {
	dict := pdfval.Dict{}
	var key pdfval.Name
	haveKey := false

	for {
		tok, err := p.lex.next()
		if err != nil {
			return &MalformedContentError{Err: fmt.Errorf("inline image: %w", err), Pos: p.lex.pos}
		}
		if op, ok := tok.obj.(pdfval.Operator); ok {
			if op == "ID" {
				break
			}
			if op == "<<" {
				sub, err := p.readDict()
				if err != nil {
					return &MalformedContentError{Err: err, Pos: p.lex.pos}
				}
				if haveKey {
					dict[key] = sub
					haveKey = false
				}
				continue
			}
			if op == "[" {
				sub, err := p.readArray()
				if err != nil {
					return &MalformedContentError{Err: err, Pos: p.lex.pos}
				}
				if haveKey {
					dict[key] = sub
					haveKey = false
				}
				continue
			}
			return &MalformedContentError{Err: fmt.Errorf("inline image: unexpected operator %q", string(op)), Pos: tok.start}
		}
		if !haveKey {
			name, ok := tok.obj.(pdfval.Name)
			if !ok {
				return &MalformedContentError{Err: fmt.Errorf("inline image: expected dict key, got %T", tok.obj), Pos: tok.start}
			}
			key = name
			haveKey = true
			continue
		}
		dict[key] = tok.obj
		haveKey = false
	}

	// Exactly one whitespace byte separates "ID" from the raw data.
	if b, ok := p.lex.peekByte(); ok && (b == ' ' || b == '\n' || b == '\r' || b == '\t') {
		p.lex.pos++
	}

	end, err := p.scanToEI()
	if err != nil {
		return &MalformedContentError{Err: err, Pos: p.lex.pos}
	}

	width := intFromDict(dict, "W", "Width")
	height := intFromDict(dict, "H", "Height")

	p.ops = append(p.ops, Operation{
		Kind:        KindInlineImage,
		Raw:         opaqueSpan(biStart, end),
		ImageWidth:  width,
		ImageHeight: height,
		BBox:        p.transformedBBox(textSpaceBox{minX: 0, minY: 0, maxX: 1, maxY: 1}, p.stack.Current().CTM),
	})
	return nil
}

// scanToEI advances the lexer past the binary image data, returning
// the byte offset just past the "EI" operator.
func (p *parser) scanToEI() (int, error) {
	buf := p.lex.buf
	for i := p.lex.pos; i+1 < len(buf); i++ {
		if buf[i] == 'E' && buf[i+1] == 'I' {
			before := i == 0 || isWhitespaceByte(buf[i-1])
			afterOK := i+2 >= len(buf) || isWhitespaceByte(buf[i+2]) || classify(buf[i+2]) == classDelimiter
			if before && afterOK {
				p.lex.pos = i + 2
				return p.lex.pos, nil
			}
		}
	}
	return 0, fmt.Errorf("inline image: EI not found")
}

func isWhitespaceByte(b byte) bool {
	return classify(b) == classSpace
}

func intFromDict(d pdfval.Dict, keys ...string) int {
	for _, k := range keys {
		if v, ok := d[pdfval.Name(k)]; ok {
			if n, ok := pdfval.AsFloat(v); ok {
				return int(n)
			}
		}
	}
	return 0
}
