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
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const pageHeight = 792 // US Letter, points

func TestParseSingleTextOp(t *testing.T) {
	src := []byte("BT /F1 12 Tf 100 700 Td (SECRET) Tj ET")
	ops, err := Parse(src, nil, pageHeight)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var text []Operation
	for _, op := range ops {
		if op.Kind == KindText {
			text = append(text, op)
		}
	}
	if len(text) != 1 {
		t.Fatalf("want exactly one text op, got %d", len(text))
	}
	if text[0].Text != "SECRET" {
		t.Errorf("Text = %q, want %q", text[0].Text, "SECRET")
	}
	if text[0].FontName != "F1" || text[0].FontSize != 12 {
		t.Errorf("FontName/FontSize = %q/%v, want F1/12", text[0].FontName, text[0].FontSize)
	}
	// The text sits near y=700 in native PDF space; after the Y-flip
	// into top-left points it should land near pageHeight-700.
	if text[0].BBox.Y < 70 || text[0].BBox.Y > 100 {
		t.Errorf("BBox.Y = %v, want roughly in [70,100]", text[0].BBox.Y)
	}
	if text[0].BBox.X != 100 {
		t.Errorf("BBox.X = %v, want 100", text[0].BBox.X)
	}
}

func TestParsePreservesPrefixOrder(t *testing.T) {
	// Invariant I3: operations appear in the same relative order as in
	// the source, across opaque/path/text kinds.
	src := []byte("q 1 0 0 1 0 0 cm 0 0 100 50 re f BT /F1 10 Tf (hi) Tj ET Q")
	ops, err := Parse(src, nil, pageHeight)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var kinds []Kind
	for _, op := range ops {
		kinds = append(kinds, op.Kind)
	}
	want := []Kind{KindOpaque, KindOpaque, KindPath, KindOpaque, KindOpaque, KindText, KindOpaque, KindOpaque}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("operation kind order mismatch (-want +got):\n%s", diff)
	}
}

func TestUnbalancedQQReturnsMalformedContentError(t *testing.T) {
	// Invariant I2: an unbalanced save/restore stack is a hard failure.
	src := []byte("q q 1 0 0 1 0 0 cm Q")
	_, err := Parse(src, nil, pageHeight)
	if err == nil {
		t.Fatal("Parse: want error for unbalanced q/Q, got nil")
	}
	var malformed *MalformedContentError
	if !asMalformed(err, &malformed) {
		t.Fatalf("Parse error = %v (%T), want *MalformedContentError", err, err)
	}
}

func TestExtraRestoreReturnsMalformedContentError(t *testing.T) {
	src := []byte("q Q Q")
	_, err := Parse(src, nil, pageHeight)
	if err == nil {
		t.Fatal("Parse: want error for extra Q, got nil")
	}
}

func asMalformed(err error, target **MalformedContentError) bool {
	m, ok := err.(*MalformedContentError)
	if ok {
		*target = m
	}
	return ok
}

func TestParseRebuildsOpaqueBytesVerbatim(t *testing.T) {
	src := []byte("2 J 0.5 w q Q")
	ops, err := Parse(src, nil, pageHeight)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var rebuilt []byte
	for i, op := range ops {
		if i > 0 {
			rebuilt = append(rebuilt, ' ')
		}
		rebuilt = append(rebuilt, src[op.Raw.Offset:op.Raw.Offset+op.Raw.Length]...)
	}
	if string(rebuilt) != string(src) {
		t.Errorf("rebuilt = %q, want %q", rebuilt, src)
	}
}

func TestParseMixedContentScenario(t *testing.T) {
	// Scenario S4: a page combining opaque graphics-state ops, a filled
	// rectangle, a text run, and an image XObject invocation, all
	// inside a single q/Q pair.
	src := []byte(strings.Join([]string{
		"q",
		"1 0 0 1 0 0 cm",
		"0 0 0 rg",
		"50 50 200 20 re",
		"f",
		"BT /F1 12 Tf 60 60 Td (Hello World) Tj ET",
		"/Im0 Do",
		"Q",
	}, "\n"))

	ops, err := Parse(src, nil, pageHeight)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var sawPath, sawText, sawImage bool
	for _, op := range ops {
		switch op.Kind {
		case KindPath:
			sawPath = true
		case KindText:
			sawText = true
			if op.Text != "Hello World" {
				t.Errorf("text = %q, want %q", op.Text, "Hello World")
			}
		case KindImageXObject:
			sawImage = true
			if op.ResourceName != "Im0" {
				t.Errorf("ResourceName = %q, want Im0", op.ResourceName)
			}
		}
	}
	if !sawPath || !sawText || !sawImage {
		t.Fatalf("missing expected op kinds: path=%v text=%v image=%v", sawPath, sawText, sawImage)
	}
}

func TestParseTJArrayIsSingleTextOp(t *testing.T) {
	src := []byte(`BT /F1 12 Tf 0 0 Td [(Hel) -250 (lo)] TJ ET`)
	ops, err := Parse(src, nil, pageHeight)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var n int
	var text string
	for _, op := range ops {
		if op.Kind == KindText {
			n++
			text = op.Text
		}
	}
	if n != 1 {
		t.Fatalf("TJ should produce exactly one text op, got %d", n)
	}
	if text != "Hello" {
		t.Errorf("text = %q, want %q", text, "Hello")
	}
}

func TestParseInlineImage(t *testing.T) {
	src := append([]byte("BI /W 2 /H 2 /BPC 8 /CS /G ID "), append(make([]byte, 4), []byte(" EI")...)...)
	ops, err := Parse(src, nil, pageHeight)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(ops) != 1 || ops[0].Kind != KindInlineImage {
		t.Fatalf("ops = %+v, want single InlineImage op", ops)
	}
	if ops[0].ImageWidth != 2 || ops[0].ImageHeight != 2 {
		t.Errorf("ImageWidth/Height = %d/%d, want 2/2", ops[0].ImageWidth, ops[0].ImageHeight)
	}
}

func TestParseBalancedStackAcrossNesting(t *testing.T) {
	src := []byte("q q q Q Q Q")
	_, err := Parse(src, nil, pageHeight)
	if err != nil {
		t.Fatalf("Parse: unexpected error for balanced nested q/Q: %v", err)
	}
}

func TestGlyphBoxWithinToleranceOfFallbackMetrics(t *testing.T) {
	src := []byte("BT /F1 10 Tf 0 0 Td (A) Tj ET")
	ops, err := Parse(src, nil, pageHeight)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var text Operation
	for _, op := range ops {
		if op.Kind == KindText {
			text = op
		}
	}
	wantWidth := FallbackMetrics.AdvanceWidth * 10
	if diff := cmp.Diff(wantWidth, text.BBox.W, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("glyph width mismatch (-want +got):\n%s", diff)
	}
}
