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
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/blackline-labs/pdfredact/coord"
	"github.com/blackline-labs/pdfredact/gstate"
	"github.com/blackline-labs/pdfredact/pdfval"
)

// MalformedContentError reports that the parser could not continue:
// an unterminated string, a corrupt token, or an unbalanced graphics
// state stack. The orchestrator must treat this as a hard failure.
type MalformedContentError struct {
	Err error
	Pos int
}

func (e *MalformedContentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pdfredact: malformed content stream at byte %d: %v", e.Pos, e.Err)
	}
	return fmt.Sprintf("pdfredact: malformed content stream at byte %d", e.Pos)
}

func (e *MalformedContentError) Unwrap() error { return e.Err }

// Parse lexes and interprets buf (the concatenation of all content
// streams of a page, already filter-decoded) and returns the ordered
// list of Operations. metrics may be nil, in which case FallbackMetrics
// is used for every font. pageHeight is needed to Y-flip native PDF
// bottom-left bounding boxes into the application's top-left
// convention.
func Parse(buf []byte, metrics FontMetrics, pageHeight float64) ([]Operation, error) {
	p := &parser{
		lex:        newLexer(buf),
		buf:        buf,
		stack:      gstate.NewStack(),
		metrics:    metrics,
		pageHeight: pageHeight,
	}
	return p.run()
}

type parser struct {
	lex        *lexer
	buf        []byte
	stack      *gstate.Stack
	metrics    FontMetrics
	pageHeight float64

	operands       []pdfval.Object
	operandOffsets []int // byte offset of each entry in operands
	pathStart      int   // byte offset where the current sub-path sequence began
	pathBBox       textSpaceBox
	havePath       bool
	ops            []Operation
}

// textSpaceBox accumulates an axis-aligned box in whatever coordinate
// space it's fed (native user space for paths, glyph-local space for
// text) prior to transformation through the CTM.
type textSpaceBox struct {
	minX, minY, maxX, maxY float64
	empty                  bool
}

func newEmptyBox() textSpaceBox {
	return textSpaceBox{empty: true}
}

func (b *textSpaceBox) add(x, y float64) {
	if b.empty {
		b.minX, b.maxX, b.minY, b.maxY = x, x, y, y
		b.empty = false
		return
	}
	b.minX = math.Min(b.minX, x)
	b.maxX = math.Max(b.maxX, x)
	b.minY = math.Min(b.minY, y)
	b.maxY = math.Max(b.maxY, y)
}

func (p *parser) run() ([]Operation, error) {
	for {
		tok, err := p.lex.next()
		if err != nil {
			if isEOF(err) {
				break
			}
			return nil, &MalformedContentError{Err: err, Pos: p.lex.pos}
		}

		op, isOperator := tok.obj.(pdfval.Operator)
		if !isOperator {
			p.operands = append(p.operands, tok.obj)
			p.operandOffsets = append(p.operandOffsets, tok.start)
			continue
		}

		switch op {
		case "<<":
			d, err := p.readDict()
			if err != nil {
				return nil, &MalformedContentError{Err: err, Pos: p.lex.pos}
			}
			p.operands = append(p.operands, d)
			continue
		case "[":
			a, err := p.readArray()
			if err != nil {
				return nil, &MalformedContentError{Err: err, Pos: p.lex.pos}
			}
			p.operands = append(p.operands, a)
			continue
		case ">>", "]":
			return nil, &MalformedContentError{Err: fmt.Errorf("unexpected %q", string(op)), Pos: p.lex.pos}
		case "BI":
			if err := p.handleInlineImage(tok.start); err != nil {
				return nil, err
			}
			p.operands = nil
			p.operandOffsets = nil
			continue
		}

		if err := p.handleOperator(string(op), tok); err != nil {
			return nil, err
		}
		p.operands = nil
		p.operandOffsets = nil
	}

	if !p.stack.Balanced() {
		return nil, &MalformedContentError{Err: fmt.Errorf("unbalanced q/Q: %d unmatched save(s)", p.stack.Depth()), Pos: len(p.buf)}
	}
	return p.ops, nil
}

func isEOF(err error) bool {
	return errors.Is(err, io.EOF)
}

// readDict and readArray assemble a composite object from tokens,
// mirroring the bracket-stack approach of the teacher's scanner, but
// recursively (content streams never nest deeply enough for this to
// matter).
func (p *parser) readDict() (pdfval.Dict, error) {
	d := pdfval.Dict{}
	var key pdfval.Name
	haveKey := false
	for {
		tok, err := p.lex.next()
		if err != nil {
			return nil, err
		}
		if op, ok := tok.obj.(pdfval.Operator); ok {
			switch op {
			case ">>":
				return d, nil
			case "<<":
				sub, err := p.readDict()
				if err != nil {
					return nil, err
				}
				if haveKey {
					d[key] = sub
					haveKey = false
				}
				continue
			case "[":
				sub, err := p.readArray()
				if err != nil {
					return nil, err
				}
				if haveKey {
					d[key] = sub
					haveKey = false
				}
				continue
			default:
				return nil, fmt.Errorf("unexpected operator %q in dict", string(op))
			}
		}
		if !haveKey {
			name, ok := tok.obj.(pdfval.Name)
			if !ok {
				return nil, fmt.Errorf("expected dict key, got %T", tok.obj)
			}
			key = name
			haveKey = true
			continue
		}
		d[key] = tok.obj
		haveKey = false
	}
}

func (p *parser) readArray() (pdfval.Array, error) {
	var a pdfval.Array
	for {
		tok, err := p.lex.next()
		if err != nil {
			return nil, err
		}
		if op, ok := tok.obj.(pdfval.Operator); ok {
			switch op {
			case "]":
				return a, nil
			case "<<":
				sub, err := p.readDict()
				if err != nil {
					return nil, err
				}
				a = append(a, sub)
				continue
			case "[":
				sub, err := p.readArray()
				if err != nil {
					return nil, err
				}
				a = append(a, sub)
				continue
			default:
				return nil, fmt.Errorf("unexpected operator %q in array", string(op))
			}
		}
		a = append(a, tok.obj)
	}
}

func opaqueSpan(start, end int) Span {
	return Span{Offset: start, Length: end - start}
}

func (p *parser) emitOpaque(startOffset int, endOffset int) {
	p.ops = append(p.ops, Operation{
		Kind:     KindOpaque,
		Raw:      opaqueSpan(startOffset, endOffset),
		RawBytes: p.buf[startOffset:endOffset],
	})
}


func (p *parser) handleOperator(op string, opTok token) error {
	g := p.stack.Current()
	nums := make([]float64, len(p.operands))
	for i, o := range p.operands {
		if n, ok := pdfval.AsFloat(o); ok {
			nums[i] = n
		}
	}

	switch op {
	case "q":
		p.stack.Save()
		p.emitOpaque(opTok.start, opTok.end)
	case "Q":
		if err := p.stack.Restore(); err != nil {
			return &MalformedContentError{Err: err, Pos: opTok.start}
		}
		p.emitOpaque(opTok.start, opTok.end)
	case "cm":
		if len(nums) < 6 {
			return &MalformedContentError{Err: fmt.Errorf("cm: too few operands"), Pos: opTok.start}
		}
		m := gstate.Matrix{nums[0], nums[1], nums[2], nums[3], nums[4], nums[5]}
		g.CTM = m.Mul(g.CTM)
		p.emitOpaque(p.argStart(opTok), opTok.end)

	// Path construction.
	case "m", "l":
		if len(nums) < 2 {
			return &MalformedContentError{Err: fmt.Errorf("%s: too few operands", op), Pos: opTok.start}
		}
		p.beginPathIfNeeded(p.argStart(opTok))
		p.pathBBox.add(nums[0], nums[1])
	case "c":
		if len(nums) < 6 {
			return &MalformedContentError{Err: fmt.Errorf("c: too few operands"), Pos: opTok.start}
		}
		p.beginPathIfNeeded(p.argStart(opTok))
		for i := 0; i < 6; i += 2 {
			p.pathBBox.add(nums[i], nums[i+1])
		}
	case "v", "y":
		if len(nums) < 4 {
			return &MalformedContentError{Err: fmt.Errorf("%s: too few operands", op), Pos: opTok.start}
		}
		p.beginPathIfNeeded(p.argStart(opTok))
		for i := 0; i < 4; i += 2 {
			p.pathBBox.add(nums[i], nums[i+1])
		}
	case "h":
		if !p.havePath {
			p.emitOpaque(p.argStart(opTok), opTok.end)
		}
	case "re":
		if len(nums) < 4 {
			return &MalformedContentError{Err: fmt.Errorf("re: too few operands"), Pos: opTok.start}
		}
		p.beginPathIfNeeded(p.argStart(opTok))
		x, y, w, h := nums[0], nums[1], nums[2], nums[3]
		p.pathBBox.add(x, y)
		p.pathBBox.add(x+w, y+h)

	// Path painting.
	case "S", "s", "f", "F", "f*", "B", "B*", "b", "b*", "n":
		kind := PathFill
		switch op {
		case "S", "s":
			kind = PathStroke
		case "B", "B*", "b", "b*":
			kind = PathFillStroke
		case "n":
			kind = PathClipOnly
		}
		p.endPath(opTok, kind)

	case "W", "W*":
		if !p.havePath {
			p.emitOpaque(p.argStart(opTok), opTok.end)
		}

	// Color operators: tracked only so path-painting operations can
	// record the fill color in effect, which the verifier needs to
	// tell an opaque redaction rectangle apart from any other filled
	// shape.
	case "g":
		if len(nums) >= 1 {
			g.FillColor = gstate.Color{R: nums[0], G: nums[0], B: nums[0]}
		}
		p.emitOpaque(p.argStart(opTok), opTok.end)
	case "rg":
		if len(nums) >= 3 {
			g.FillColor = gstate.Color{R: nums[0], G: nums[1], B: nums[2]}
		}
		p.emitOpaque(p.argStart(opTok), opTok.end)
	case "k":
		if len(nums) >= 4 {
			g.FillColor = cmykToRGB(nums[0], nums[1], nums[2], nums[3])
		}
		p.emitOpaque(p.argStart(opTok), opTok.end)
	case "G", "RG", "K":
		// Stroke-color equivalents of g/rg/k; tracked on StrokeColor for
		// completeness, though the verifier only inspects fills.
		switch op {
		case "G":
			if len(nums) >= 1 {
				g.StrokeColor = gstate.Color{R: nums[0], G: nums[0], B: nums[0]}
			}
		case "RG":
			if len(nums) >= 3 {
				g.StrokeColor = gstate.Color{R: nums[0], G: nums[1], B: nums[2]}
			}
		case "K":
			if len(nums) >= 4 {
				g.StrokeColor = cmykToRGB(nums[0], nums[1], nums[2], nums[3])
			}
		}
		p.emitOpaque(p.argStart(opTok), opTok.end)

	// Text objects.
	case "BT":
		g.TextMatrix = gstate.IdentityMatrix
		g.TextLineMatrix = gstate.IdentityMatrix
		g.InTextObject = true
		p.emitOpaque(opTok.start, opTok.end)
	case "ET":
		g.InTextObject = false
		p.emitOpaque(opTok.start, opTok.end)

	// Text state.
	case "Tc":
		if len(nums) >= 1 {
			g.CharSpacing = nums[0]
		}
		p.emitOpaque(p.argStart(opTok), opTok.end)
	case "Tw":
		if len(nums) >= 1 {
			g.WordSpacing = nums[0]
		}
		p.emitOpaque(p.argStart(opTok), opTok.end)
	case "Tz":
		if len(nums) >= 1 {
			g.HorizScaling = nums[0]
		}
		p.emitOpaque(p.argStart(opTok), opTok.end)
	case "TL":
		if len(nums) >= 1 {
			g.Leading = nums[0]
		}
		p.emitOpaque(p.argStart(opTok), opTok.end)
	case "Ts":
		if len(nums) >= 1 {
			g.Rise = nums[0]
		}
		p.emitOpaque(p.argStart(opTok), opTok.end)
	case "Tr":
		p.emitOpaque(p.argStart(opTok), opTok.end)
	case "Tf":
		if len(p.operands) >= 2 {
			if name, ok := p.operands[0].(pdfval.Name); ok {
				g.FontName = string(name)
			}
			if size, ok := pdfval.AsFloat(p.operands[1]); ok {
				g.FontSize = size
			}
		}
		p.emitOpaque(p.argStart(opTok), opTok.end)

	// Text positioning.
	case "Td":
		if len(nums) < 2 {
			return &MalformedContentError{Err: fmt.Errorf("Td: too few operands"), Pos: opTok.start}
		}
		m := gstate.Matrix{1, 0, 0, 1, nums[0], nums[1]}
		g.TextLineMatrix = m.Mul(g.TextLineMatrix)
		g.TextMatrix = g.TextLineMatrix
		p.emitOpaque(p.argStart(opTok), opTok.end)
	case "TD":
		if len(nums) < 2 {
			return &MalformedContentError{Err: fmt.Errorf("TD: too few operands"), Pos: opTok.start}
		}
		g.Leading = -nums[1]
		m := gstate.Matrix{1, 0, 0, 1, nums[0], nums[1]}
		g.TextLineMatrix = m.Mul(g.TextLineMatrix)
		g.TextMatrix = g.TextLineMatrix
		p.emitOpaque(p.argStart(opTok), opTok.end)
	case "Tm":
		if len(nums) < 6 {
			return &MalformedContentError{Err: fmt.Errorf("Tm: too few operands"), Pos: opTok.start}
		}
		m := gstate.Matrix{nums[0], nums[1], nums[2], nums[3], nums[4], nums[5]}
		g.TextMatrix = m
		g.TextLineMatrix = m
		p.emitOpaque(p.argStart(opTok), opTok.end)
	case "T*":
		m := gstate.Matrix{1, 0, 0, 1, 0, -g.Leading}
		g.TextLineMatrix = m.Mul(g.TextLineMatrix)
		g.TextMatrix = g.TextLineMatrix
		p.emitOpaque(opTok.start, opTok.end)

	// Text showing.
	case "Tj":
		if len(p.operands) < 1 {
			return &MalformedContentError{Err: fmt.Errorf("Tj: missing operand"), Pos: opTok.start}
		}
		s, ok := p.operands[0].(pdfval.String)
		if !ok {
			return &MalformedContentError{Err: fmt.Errorf("Tj: operand is not a string"), Pos: opTok.start}
		}
		p.showText(s, p.argStart(opTok), opTok.end)
	case "'":
		if len(p.operands) < 1 {
			return &MalformedContentError{Err: fmt.Errorf("': missing operand"), Pos: opTok.start}
		}
		s, ok := p.operands[0].(pdfval.String)
		if !ok {
			return &MalformedContentError{Err: fmt.Errorf("': operand is not a string"), Pos: opTok.start}
		}
		m := gstate.Matrix{1, 0, 0, 1, 0, -g.Leading}
		g.TextLineMatrix = m.Mul(g.TextLineMatrix)
		g.TextMatrix = g.TextLineMatrix
		p.showText(s, p.argStart(opTok), opTok.end)
	case `"`:
		if len(p.operands) < 3 {
			return &MalformedContentError{Err: fmt.Errorf(`": too few operands`), Pos: opTok.start}
		}
		if aw, ok := pdfval.AsFloat(p.operands[0]); ok {
			g.WordSpacing = aw
		}
		if ac, ok := pdfval.AsFloat(p.operands[1]); ok {
			g.CharSpacing = ac
		}
		s, ok := p.operands[2].(pdfval.String)
		if !ok {
			return &MalformedContentError{Err: fmt.Errorf(`": operand is not a string`), Pos: opTok.start}
		}
		m := gstate.Matrix{1, 0, 0, 1, 0, -g.Leading}
		g.TextLineMatrix = m.Mul(g.TextLineMatrix)
		g.TextMatrix = g.TextLineMatrix
		p.showText(s, p.argStart(opTok), opTok.end)
	case "TJ":
		if len(p.operands) < 1 {
			return &MalformedContentError{Err: fmt.Errorf("TJ: missing operand"), Pos: opTok.start}
		}
		arr, ok := p.operands[0].(pdfval.Array)
		if !ok {
			return &MalformedContentError{Err: fmt.Errorf("TJ: operand is not an array"), Pos: opTok.start}
		}
		p.showTextArray(arr, p.argStart(opTok), opTok.end)

	// XObjects.
	case "Do":
		if len(p.operands) < 1 {
			return &MalformedContentError{Err: fmt.Errorf("Do: missing operand"), Pos: opTok.start}
		}
		name, ok := p.operands[0].(pdfval.Name)
		if !ok {
			return &MalformedContentError{Err: fmt.Errorf("Do: operand is not a name"), Pos: opTok.start}
		}
		p.emitImageXObject(string(name), p.argStart(opTok), opTok.end)

	default:
		// Unknown or benign graphics-state/color operator: preserved
		// verbatim, per spec §4.2's "emit Opaque and continue" rule.
		p.emitOpaque(p.argStart(opTok), opTok.end)
	}
	return nil
}

// argStart returns the byte offset where the current operator's
// operand list began (or the operator's own start, if it had none).
func (p *parser) argStart(opTok token) int {
	if len(p.operandOffsets) == 0 {
		return opTok.start
	}
	return p.operandOffsets[0]
}

func (p *parser) beginPathIfNeeded(firstOpOffset int) {
	if !p.havePath {
		p.havePath = true
		p.pathStart = firstOpOffset
		p.pathBBox = newEmptyBox()
	}
}

func (p *parser) endPath(opTok token, kind PathKind) {
	start := p.pathStart
	if !p.havePath {
		start = p.argStart(opTok)
	}
	bbox := p.transformedBBox(p.pathBBox, p.stack.Current().CTM)
	p.havePath = false
	p.pathBBox = newEmptyBox()

	if kind == PathClipOnly {
		// "n" still consumes the sub-path but paints nothing, and per
		// spec §4.2 is emitted as a no-op path consumption: we keep it
		// opaque since there is nothing visible to redact.
		p.emitOpaque(start, opTok.end)
		return
	}

	p.ops = append(p.ops, Operation{
		Kind:      KindPath,
		Raw:       opaqueSpan(start, opTok.end),
		PathKind:  kind,
		FillColor: p.stack.Current().FillColor,
		BBox:      bbox,
	})
}

// cmykToRGB is the standard naive conversion, good enough for telling
// an intentionally black fill apart from any other color; PDF never
// requires perceptual color accuracy from a redaction verifier.
func cmykToRGB(c, m, y, k float64) gstate.Color {
	return gstate.Color{
		R: (1 - c) * (1 - k),
		G: (1 - m) * (1 - k),
		B: (1 - y) * (1 - k),
	}
}

func (p *parser) transformedBBox(box textSpaceBox, m gstate.Matrix) coord.TopLeftRect {
	if box.empty {
		return coord.TopLeftRect{}
	}
	corners := [4][2]float64{
		{box.minX, box.minY}, {box.maxX, box.minY},
		{box.minX, box.maxY}, {box.maxX, box.maxY},
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		x, y := m.Apply(c[0], c[1])
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	// Y-flip from PDF-native bottom-left into top-left PDF points.
	return coord.TopLeftRect{
		X: minX,
		Y: p.pageHeight - maxY,
		W: maxX - minX,
		H: maxY - minY,
	}
}

func (p *parser) emitImageXObject(name string, start, end int) {
	bbox := p.transformedBBox(textSpaceBox{minX: 0, minY: 0, maxX: 1, maxY: 1}, p.stack.Current().CTM)
	p.ops = append(p.ops, Operation{
		Kind:         KindImageXObject,
		Raw:          opaqueSpan(start, end),
		ResourceName: name,
		BBox:         bbox,
	})
}

func (p *parser) showText(s pdfval.String, start, end int) {
	g := p.stack.Current()
	box, advance := p.glyphBox(s)
	render := g.TextMatrix.Mul(g.CTM)
	bbox := p.transformedBBox(box, render)

	p.ops = append(p.ops, Operation{
		Kind:     KindText,
		Raw:      opaqueSpan(start, end),
		Text:     decodeText(p.metrics, g.FontName, s),
		FontName: g.FontName,
		FontSize: g.FontSize,
		BBox:     bbox,
	})

	adv := gstate.Matrix{1, 0, 0, 1, advance, 0}
	g.TextMatrix = adv.Mul(g.TextMatrix)
}

func (p *parser) showTextArray(arr pdfval.Array, start, end int) {
	g := p.stack.Current()
	box := newEmptyBox()
	var totalAdvance float64
	var text string
	any := false

	for _, frag := range arr {
		switch v := frag.(type) {
		case pdfval.String:
			any = true
			fragBox, advance := p.glyphBox(v)
			fragBox.minX += totalAdvance
			fragBox.maxX += totalAdvance
			mergeBox(&box, fragBox)
			totalAdvance += advance
			text += decodeText(p.metrics, g.FontName, v)
		case pdfval.Number:
			h := g.HorizScaling / 100
			totalAdvance -= (float64(v) / 1000) * g.FontSize * h
		}
	}
	if !any {
		p.emitOpaque(start, end)
		return
	}

	render := g.TextMatrix.Mul(g.CTM)
	bbox := p.transformedBBox(box, render)
	p.ops = append(p.ops, Operation{
		Kind:     KindText,
		Raw:      opaqueSpan(start, end),
		Text:     text,
		FontName: g.FontName,
		FontSize: g.FontSize,
		BBox:     bbox,
	})

	adv := gstate.Matrix{1, 0, 0, 1, totalAdvance, 0}
	g.TextMatrix = adv.Mul(g.TextMatrix)
}

func mergeBox(dst *textSpaceBox, src textSpaceBox) {
	if src.empty {
		return
	}
	dst.add(src.minX, src.minY)
	dst.add(src.maxX, src.maxY)
}

// glyphBox computes the glyph-local bounding box (in the text-matrix
// coordinate frame, before Tm/CTM) for string s, and the total
// horizontal advance it produces, per spec §4.2.
func (p *parser) glyphBox(s pdfval.String) (textSpaceBox, float64) {
	g := p.stack.Current()
	ascent, descent := ascentDescent(p.metrics, g.FontName)
	h := g.HorizScaling / 100

	var advance float64
	for _, code := range s {
		w0 := advanceWidth(p.metrics, g.FontName, code)
		tx := (w0*g.FontSize + g.CharSpacing + wordSpacingFor(code, g.WordSpacing)) * h
		advance += tx
	}

	box := textSpaceBox{
		minX: 0, maxX: advance,
		minY: descent*g.FontSize + g.Rise,
		maxY: ascent*g.FontSize + g.Rise,
	}
	return box, advance
}

func wordSpacingFor(code byte, wordSpacing float64) float64 {
	if code == 0x20 {
		return wordSpacing
	}
	return 0
}
