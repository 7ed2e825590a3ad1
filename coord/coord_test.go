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

package coord

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var testDPIs = []float64{72, 96, 150, 300, 600}

// TestInvolution checks invariant I5: image -> pdf points -> image is
// the identity within 1 ULP of the DPI ratio.
func TestInvolution(t *testing.T) {
	for _, dpi := range testDPIs {
		px := PixelRect{X: 208, Y: 191, W: 125, H: 25}
		pt, err := RectImagePxToPDFPtTL(px, dpi)
		if err != nil {
			t.Fatal(err)
		}
		back, err := RectPDFPtTLToImagePx(pt, dpi)
		if err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff(px, back, cmpopts.EquateApprox(0, 1e-9)); d != "" {
			t.Errorf("dpi=%g: involution broken: %s", dpi, d)
		}
	}
}

func TestInvalidDPI(t *testing.T) {
	if _, err := ImagePxToPDFPtTL(10, 0); err == nil {
		t.Error("expected error for dpi=0")
	}
	if _, err := ImagePxToPDFPtTL(10, -5); err == nil {
		t.Error("expected error for negative dpi")
	}
}

// TestTopLeftBottomLeftRoundTrip checks invariant I6.
func TestTopLeftBottomLeftRoundTrip(t *testing.T) {
	const H = 792.0
	r := TopLeftRect{X: 100, Y: 50, W: 200, H: 30}
	b := TopLeftToBottomLeft(r, H)

	wantBottom := H - r.Y - r.H
	wantTop := H - r.Y
	if b.Bottom != wantBottom || b.Top != wantTop {
		t.Errorf("got bottom=%g top=%g, want bottom=%g top=%g", b.Bottom, b.Top, wantBottom, wantTop)
	}

	back := BottomLeftToTopLeft(b, H)
	if d := cmp.Diff(r, back, cmpopts.EquateApprox(0, 1e-9)); d != "" {
		t.Errorf("round trip mismatch: %s", d)
	}
}

func TestYFlipInverse(t *testing.T) {
	const H = 792.0
	y := 123.456
	if got := YAvaloniaToYPDF(YPDFToYAvalonia(y, H), H); got != y {
		t.Errorf("y-flip not involutive: got %g, want %g", got, y)
	}
}

func TestIsValidForPage(t *testing.T) {
	cases := []struct {
		name string
		r    TopLeftRect
		want bool
	}{
		{"inside", TopLeftRect{X: 10, Y: 10, W: 100, H: 50}, true},
		{"zero width", TopLeftRect{X: 10, Y: 10, W: 0, H: 50}, false},
		{"negative height", TopLeftRect{X: 10, Y: 10, W: 10, H: -1}, false},
		{"far outside", TopLeftRect{X: 10000, Y: 10000, W: 50, H: 50}, false},
		{"within tolerance", TopLeftRect{X: -40, Y: -40, W: 100, H: 50}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := IsValidForPage(c.r, 612, 792, DefaultValidationTolerance)
			if got != c.want {
				t.Errorf("IsValidForPage(%+v) = %v, want %v", c.r, got, c.want)
			}
		})
	}
}

func TestIntersectsHalfOpen(t *testing.T) {
	a := BottomLeftBox{Left: 0, Bottom: 0, Right: 10, Top: 10}
	touching := BottomLeftBox{Left: 10, Bottom: 0, Right: 20, Top: 10}
	if Intersects(a, touching) {
		t.Error("touching edges should not count as intersecting")
	}
	overlapping := BottomLeftBox{Left: 5, Bottom: 5, Right: 20, Top: 20}
	if !Intersects(a, overlapping) {
		t.Error("overlapping boxes should intersect")
	}
}

func TestCenterInside(t *testing.T) {
	b := BottomLeftBox{Left: 0, Bottom: 0, Right: 10, Top: 10}
	inside := BottomLeftBox{Left: 4, Bottom: 4, Right: 6, Top: 6}
	if !CenterInside(inside, b) {
		t.Error("center of inside box should be inside b")
	}
	outside := BottomLeftBox{Left: 20, Bottom: 20, Right: 22, Top: 22}
	if CenterInside(outside, b) {
		t.Error("center of outside box should not be inside b")
	}
}

func TestTransformForRotation90(t *testing.T) {
	const W, H = 612.0, 792.0
	r := TopLeftRect{X: 100, Y: 50, W: 40, H: 20}
	got := TransformForRotation(r, Rotate90, W, H)
	want := TopLeftRect{X: r.Y, Y: W - r.X - r.W, W: r.H, H: r.W}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("TransformForRotation(90): %s", d)
	}
}

func TestTransformForRotationIdentity(t *testing.T) {
	r := TopLeftRect{X: 1, Y: 2, W: 3, H: 4}
	if got := TransformForRotation(r, Rotate0, 612, 792); got != r {
		t.Errorf("Rotate0 should be identity, got %+v", got)
	}
}

func TestNormalizeRotation(t *testing.T) {
	cases := map[int]Rotation{0: Rotate0, 90: Rotate90, 180: Rotate180, 270: Rotate270, 360: Rotate0, -90: Rotate270, 450: Rotate90}
	for in, want := range cases {
		if got := NormalizeRotation(in); got != want {
			t.Errorf("NormalizeRotation(%d) = %v, want %v", in, got, want)
		}
	}
}
