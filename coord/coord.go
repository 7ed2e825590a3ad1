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

// Package coord converts rectangles and scalars between the coordinate
// spaces a redaction request passes through: image pixels (top-left
// origin, at a fixed render DPI), PDF points in the application's
// top-left convention, and PDF-native points with a bottom-left
// origin. Every function is pure and the coordinate space is encoded
// in the type name, never left to a comment.
package coord

import (
	"fmt"
)

// PixelRect is a rectangle in image-pixel space, origin top-left,
// as produced by rendering a page at a given DPI.
type PixelRect struct {
	X, Y, W, H float64
}

// TopLeftRect is a rectangle in PDF points, using the application's
// top-left convention (Y grows downward).
type TopLeftRect struct {
	X, Y, W, H float64
}

// BottomLeftBox is an axis-aligned box in PDF-native points, origin
// bottom-left (Y grows upward). Left <= Right and Bottom <= Top hold
// whenever the box was built from a non-degenerate rectangle.
type BottomLeftBox struct {
	Left, Bottom, Right, Top float64
}

// InvalidArgumentError reports a rejected coordinate-conversion input,
// such as a non-positive DPI.
type InvalidArgumentError struct {
	Field string
	Value float64
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("pdfredact: invalid argument %s=%g", e.Field, e.Value)
}

// ImagePxToPDFPtTL converts a single scalar from image pixels at the
// given render DPI to PDF points.
func ImagePxToPDFPtTL(px, dpi float64) (float64, error) {
	if dpi <= 0 {
		return 0, &InvalidArgumentError{Field: "render_dpi", Value: dpi}
	}
	return px * 72.0 / dpi, nil
}

// PDFPtTLToImagePx converts a single scalar from PDF points to image
// pixels at the given render DPI.
func PDFPtTLToImagePx(pt, dpi float64) (float64, error) {
	if dpi <= 0 {
		return 0, &InvalidArgumentError{Field: "render_dpi", Value: dpi}
	}
	return pt * dpi / 72.0, nil
}

// RectImagePxToPDFPtTL scales all four components of an image-pixel
// rectangle into top-left PDF points. The origin does not move: both
// spaces share the top-left convention.
func RectImagePxToPDFPtTL(r PixelRect, dpi float64) (TopLeftRect, error) {
	if dpi <= 0 {
		return TopLeftRect{}, &InvalidArgumentError{Field: "render_dpi", Value: dpi}
	}
	scale := 72.0 / dpi
	return TopLeftRect{X: r.X * scale, Y: r.Y * scale, W: r.W * scale, H: r.H * scale}, nil
}

// RectPDFPtTLToImagePx is the inverse of RectImagePxToPDFPtTL.
func RectPDFPtTLToImagePx(r TopLeftRect, dpi float64) (PixelRect, error) {
	if dpi <= 0 {
		return PixelRect{}, &InvalidArgumentError{Field: "render_dpi", Value: dpi}
	}
	scale := dpi / 72.0
	return PixelRect{X: r.X * scale, Y: r.Y * scale, W: r.W * scale, H: r.H * scale}, nil
}

// YPDFToYAvalonia flips a single Y coordinate from PDF-native
// (bottom-left, Y grows up) into the application's top-left
// convention, given the page height H.
func YPDFToYAvalonia(y, pageHeight float64) float64 {
	return pageHeight - y
}

// YAvaloniaToYPDF is the inverse of YPDFToYAvalonia.
func YAvaloniaToYPDF(y, pageHeight float64) float64 {
	return pageHeight - y
}

// TopLeftToBottomLeft converts a top-left PDF-point rectangle into a
// PDF-native bottom-left box, given the page height H.
//
//	bottom = H - r.Y - r.H
//	top    = H - r.Y
func TopLeftToBottomLeft(r TopLeftRect, pageHeight float64) BottomLeftBox {
	return BottomLeftBox{
		Left:   r.X,
		Right:  r.X + r.W,
		Bottom: pageHeight - r.Y - r.H,
		Top:    pageHeight - r.Y,
	}
}

// BottomLeftToTopLeft is the inverse of TopLeftToBottomLeft.
func BottomLeftToTopLeft(b BottomLeftBox, pageHeight float64) TopLeftRect {
	return TopLeftRect{
		X: b.Left,
		Y: pageHeight - b.Top,
		W: b.Right - b.Left,
		H: b.Top - b.Bottom,
	}
}

// ImageSelectionToPDFCoords composes the DPI scale and the Y-flip,
// taking an image-pixel selection rectangle straight to a PDF-native
// bottom-left box.
func ImageSelectionToPDFCoords(rectPx PixelRect, pageHeight, dpi float64) (BottomLeftBox, error) {
	tl, err := RectImagePxToPDFPtTL(rectPx, dpi)
	if err != nil {
		return BottomLeftBox{}, err
	}
	return TopLeftToBottomLeft(tl, pageHeight), nil
}

// Rotation is a page /Rotate value, normalized to one of 0, 90, 180, 270.
type Rotation int

const (
	Rotate0   Rotation = 0
	Rotate90  Rotation = 90
	Rotate180 Rotation = 180
	Rotate270 Rotation = 270
)

// NormalizeRotation folds an arbitrary /Rotate integer onto the
// {0,90,180,270} domain.
func NormalizeRotation(deg int) Rotation {
	m := ((deg % 360) + 360) % 360
	switch {
	case m < 45:
		return Rotate0
	case m < 135:
		return Rotate90
	case m < 225:
		return Rotate180
	default:
		return Rotate270
	}
}

// TransformForRotation pre-rotates a top-left rectangle so that a
// selection made against a rendered (already-rotated) view still lands
// on the same visible content once the un-rotated /Rotate page's
// coordinates are used by the content-stream parser. W and H are the
// un-rotated page's width/height in points.
func TransformForRotation(r TopLeftRect, rot Rotation, pageWidth, pageHeight float64) TopLeftRect {
	switch rot {
	case Rotate90:
		// The rendered view is pageHeight wide, pageWidth tall.
		return TopLeftRect{
			X: r.Y,
			Y: pageWidth - r.X - r.W,
			W: r.H,
			H: r.W,
		}
	case Rotate180:
		return TopLeftRect{
			X: pageWidth - r.X - r.W,
			Y: pageHeight - r.Y - r.H,
			W: r.W,
			H: r.H,
		}
	case Rotate270:
		return TopLeftRect{
			X: pageHeight - r.Y - r.H,
			Y: r.X,
			W: r.H,
			H: r.W,
		}
	default:
		return r
	}
}

// IsValidForPage is a sanity predicate, not a gate: true iff the
// rectangle lies within [-tol, W+tol] x [-tol, H+tol] and has strictly
// positive width and height.
func IsValidForPage(r TopLeftRect, pageWidth, pageHeight, tol float64) bool {
	if r.W <= 0 || r.H <= 0 {
		return false
	}
	if r.X < -tol || r.Y < -tol {
		return false
	}
	if r.X+r.W > pageWidth+tol || r.Y+r.H > pageHeight+tol {
		return false
	}
	return true
}

// DefaultValidationTolerance is the tolerance IsValidForPage is
// typically called with, in PDF points.
const DefaultValidationTolerance = 50.0

// Intersects reports whether two bottom-left boxes overlap using the
// half-open rule: touching edges do not count as an intersection.
func Intersects(a, b BottomLeftBox) bool {
	return a.Left < b.Right && a.Right > b.Left && a.Bottom < b.Top && a.Top > b.Bottom
}

// CenterInside reports whether the center of box a lies strictly
// inside box b.
func CenterInside(a, b BottomLeftBox) bool {
	cx := (a.Left + a.Right) / 2
	cy := (a.Bottom + a.Top) / 2
	return cx > b.Left && cx < b.Right && cy > b.Bottom && cy < b.Top
}
