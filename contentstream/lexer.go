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
	"io"
	"math"
	"strconv"

	"github.com/blackline-labs/pdfredact/pdfval"
)

// lexError is a lexical-level failure; it is always wrapped into a
// *MalformedContentError by the caller.
type lexError struct{ msg string }

func (e *lexError) Error() string { return e.msg }

// lexer tokenizes a content stream held entirely in memory. The whole
// byte slice is retained so that operations can keep raw_bytes
// back-pointers (offset, length) into it for byte-exact re-emission.
type lexer struct {
	buf []byte
	pos int
}

func newLexer(buf []byte) *lexer {
	return &lexer{buf: buf}
}

func (l *lexer) eof() bool { return l.pos >= len(l.buf) }

func (l *lexer) peekByte() (byte, bool) {
	if l.eof() {
		return 0, false
	}
	return l.buf[l.pos], true
}

func (l *lexer) peekN(n int) []byte {
	end := l.pos + n
	if end > len(l.buf) {
		end = len(l.buf)
	}
	return l.buf[l.pos:end]
}

func (l *lexer) nextByte() (byte, bool) {
	if l.eof() {
		return 0, false
	}
	b := l.buf[l.pos]
	l.pos++
	return b, true
}

type charClass byte

const (
	classRegular charClass = iota
	classSpace
	classDelimiter
)

func classify(b byte) charClass {
	switch b {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return classSpace
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return classDelimiter
	default:
		return classRegular
	}
}

// token is one lexical unit: either a complete pdfval.Object operand,
// or an operator keyword (including the synthetic "<<", ">>", "[",
// "]" bracket operators that the parser folds into Dict/Array).
type token struct {
	obj    pdfval.Object
	start  int // byte offset of the token in the source buffer
	end    int // one past the last byte of the token
	isOpen bool
}

func (l *lexer) skipWhiteSpace() {
	for {
		b, ok := l.peekByte()
		if !ok {
			return
		}
		if classify(b) == classSpace {
			l.pos++
		} else if b == '%' {
			l.skipComment()
		} else {
			return
		}
	}
}

func (l *lexer) skipComment() {
	for {
		b, ok := l.peekByte()
		if !ok || b == '\n' || b == '\r' {
			return
		}
		l.pos++
	}
}

// next reads the next raw token (name, number, string, operator, or
// one of the bracket pseudo-operators "<<" ">>" "[" "]").
func (l *lexer) next() (token, error) {
	l.skipWhiteSpace()
	start := l.pos
	b, ok := l.peekByte()
	if !ok {
		return token{}, io.EOF
	}

	switch b {
	case '(':
		s, err := l.readLiteralString()
		if err != nil {
			return token{}, err
		}
		return token{obj: s, start: start, end: l.pos}, nil
	case '<':
		if string(l.peekN(2)) == "<<" {
			l.pos += 2
			return token{obj: pdfval.Operator("<<"), start: start, end: l.pos}, nil
		}
		s, err := l.readHexString()
		if err != nil {
			return token{}, err
		}
		return token{obj: s, start: start, end: l.pos}, nil
	case '>':
		if string(l.peekN(2)) == ">>" {
			l.pos += 2
			return token{obj: pdfval.Operator(">>"), start: start, end: l.pos}, nil
		}
		return token{}, &lexError{"unexpected '>'"}
	case '[':
		l.pos++
		return token{obj: pdfval.Operator("["), start: start, end: l.pos}, nil
	case ']':
		l.pos++
		return token{obj: pdfval.Operator("]"), start: start, end: l.pos}, nil
	case '/':
		l.pos++
		name := l.readName()
		return token{obj: name, start: start, end: l.pos}, nil
	case '{', '}':
		// PostScript-calculator braces (used inside some function
		// dictionaries, never in ordinary page content); treated as
		// opaque single-byte operators so the lexer never aborts on them.
		l.pos++
		return token{obj: pdfval.Operator(string(b)), start: start, end: l.pos}, nil
	default:
		raw := l.readRegularRun()
		if num, err := parseNumber(raw); err == nil {
			return token{obj: num, start: start, end: l.pos}, nil
		}
		switch string(raw) {
		case "true":
			return token{obj: pdfval.Bool(true), start: start, end: l.pos}, nil
		case "false":
			return token{obj: pdfval.Bool(false), start: start, end: l.pos}, nil
		case "null":
			return token{obj: nil, start: start, end: l.pos}, nil
		}
		return token{obj: pdfval.Operator(raw), start: start, end: l.pos}, nil
	}
}

func (l *lexer) readRegularRun() string {
	start := l.pos
	b, ok := l.peekByte()
	if !ok {
		return ""
	}
	l.pos++
	if classify(b) != classRegular {
		return string(l.buf[start:l.pos])
	}
	for {
		b, ok := l.peekByte()
		if !ok || classify(b) != classRegular {
			break
		}
		l.pos++
	}
	return string(l.buf[start:l.pos])
}

func parseNumber(s string) (pdfval.Number, error) {
	if v, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(v, 0) && !math.IsNaN(v) {
		return pdfval.Number(v), nil
	}
	return 0, &lexError{fmt.Sprintf("invalid number %q", s)}
}

func (l *lexer) readLiteralString() (pdfval.String, error) {
	if b, _ := l.nextByte(); b != '(' {
		return nil, &lexError{"expected '('"}
	}
	var res []byte
	depth := 1
	for {
		b, ok := l.nextByte()
		if !ok {
			return nil, &lexError{"unterminated literal string"}
		}
		switch b {
		case '(':
			depth++
			res = append(res, b)
		case ')':
			depth--
			if depth == 0 {
				return pdfval.String(res), nil
			}
			res = append(res, b)
		case '\\':
			e, ok := l.nextByte()
			if !ok {
				return nil, &lexError{"unterminated escape in literal string"}
			}
			switch e {
			case 'n':
				res = append(res, '\n')
			case 'r':
				res = append(res, '\r')
			case 't':
				res = append(res, '\t')
			case 'b':
				res = append(res, '\b')
			case 'f':
				res = append(res, '\f')
			case '(', ')', '\\':
				res = append(res, e)
			case '\n':
				// line continuation, drop
			case '\r':
				if b2, ok := l.peekByte(); ok && b2 == '\n' {
					l.pos++
				}
			case '0', '1', '2', '3', '4', '5', '6', '7':
				oct := e - '0'
				for i := 0; i < 2; i++ {
					d, ok := l.peekByte()
					if !ok || d < '0' || d > '7' {
						break
					}
					l.pos++
					oct = oct*8 + (d - '0')
				}
				res = append(res, oct)
			default:
				res = append(res, e)
			}
		default:
			res = append(res, b)
		}
	}
}

func (l *lexer) readHexString() (pdfval.String, error) {
	if b, _ := l.nextByte(); b != '<' {
		return nil, &lexError{"expected '<'"}
	}
	var res []byte
	first := true
	var hi byte
	for {
		b, ok := l.nextByte()
		if !ok {
			return nil, &lexError{"unterminated hex string"}
		}
		var nibble byte
		switch {
		case b == '>':
			if !first {
				res = append(res, hi)
			}
			return pdfval.String(res), nil
		case b <= 32:
			continue
		case b >= '0' && b <= '9':
			nibble = b - '0'
		case b >= 'A' && b <= 'F':
			nibble = b - 'A' + 10
		case b >= 'a' && b <= 'f':
			nibble = b - 'a' + 10
		default:
			return nil, &lexError{fmt.Sprintf("invalid hex digit %q", b)}
		}
		if first {
			hi = nibble << 4
			first = false
		} else {
			res = append(res, hi|nibble)
			first = true
		}
	}
}

func (l *lexer) readName() pdfval.Name {
	var name []byte
	for {
		b, ok := l.peekByte()
		if !ok || classify(b) != classRegular {
			break
		}
		if b == '#' && l.pos+2 < len(l.buf) && isHexDigit(l.buf[l.pos+1]) && isHexDigit(l.buf[l.pos+2]) {
			hi := hexVal(l.buf[l.pos+1])
			lo := hexVal(l.buf[l.pos+2])
			name = append(name, hi<<4|lo)
			l.pos += 3
			continue
		}
		name = append(name, b)
		l.pos++
	}
	return pdfval.Name(name)
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'A' && b <= 'F') || (b >= 'a' && b <= 'f')
}

func hexVal(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	default:
		return b - 'a' + 10
	}
}
