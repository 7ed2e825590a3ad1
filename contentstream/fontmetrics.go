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

// FontMetrics supplies the per-font data the interpreter needs to turn
// a shown string into a baseline advance and a glyph bounding box:
// per-code advance widths (in 1/1000 text space units, as PDF font
// dictionaries express them), the font's ascent/descent (in text space
// units, i.e. already divided by 1000), and a best-effort decoder to
// Unicode text for metadata sanitization.
//
// Re-encoding or parsing embedded font programs is out of scope (see
// spec Non-goals); a nil FontMetrics, or one that returns ok=false,
// makes the parser fall back to FallbackMetrics.
type FontMetrics interface {
	AdvanceWidth(fontName string, code byte) (width float64, ok bool)
	Ascent(fontName string) (ascent float64, ok bool)
	Descent(fontName string) (descent float64, ok bool)
	Decode(fontName string, raw []byte) string
}

// FallbackMetrics is used whenever no FontMetrics is supplied, or it
// doesn't know about a particular font: a size-scaled approximation
// using typical Latin-text proportions, per spec §4.2.
var FallbackMetrics = struct {
	AdvanceWidth float64 // fraction of font size, per character
	Ascent       float64 // fraction of font size above baseline
	Descent      float64 // fraction of font size below baseline (negative)
}{
	AdvanceWidth: 0.5,
	Ascent:       0.718,
	Descent:      -0.207,
}

func advanceWidth(m FontMetrics, fontName string, code byte) float64 {
	if m != nil {
		if w, ok := m.AdvanceWidth(fontName, code); ok {
			return w / 1000
		}
	}
	return FallbackMetrics.AdvanceWidth
}

func ascentDescent(m FontMetrics, fontName string) (ascent, descent float64) {
	ascent, descent = FallbackMetrics.Ascent, FallbackMetrics.Descent
	if m == nil {
		return
	}
	if a, ok := m.Ascent(fontName); ok {
		ascent = a
	}
	if d, ok := m.Descent(fontName); ok {
		descent = d
	}
	return
}

func decodeText(m FontMetrics, fontName string, raw []byte) string {
	if m != nil {
		return m.Decode(fontName, raw)
	}
	return bestEffortASCII(raw)
}

// bestEffortASCII is the decoding path used for fonts without
// available ToUnicode information: the raw bytes, rendered as a
// best-effort ASCII string (non-printable bytes replaced by '?').
// This is the documented Open Question in spec §9 — implementers
// should not guess at font-specific encodings here.
func bestEffortASCII(raw []byte) string {
	out := make([]byte, len(raw))
	for i, b := range raw {
		if b >= 0x20 && b < 0x7f {
			out[i] = b
		} else {
			out[i] = '?'
		}
	}
	return string(out)
}
