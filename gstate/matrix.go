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

package gstate

// Matrix is a 2x3 PDF transformation matrix [a b c d e f] representing
//
//	| a b 0 |
//	| c d 0 |
//	| e f 1 |
//
// Points are row vectors; Apply computes p*M.
type Matrix [6]float64

// IdentityMatrix is the identity transform.
var IdentityMatrix = Matrix{1, 0, 0, 1, 0, 0}

// Mul returns the matrix representing "self followed by other":
// applying the result to a point is the same as applying self, then
// other. This matches the PDF "cm" operator, where the new CTM is
// cmMatrix.Mul(oldCTM).
func (m Matrix) Mul(other Matrix) Matrix {
	return Matrix{
		m[0]*other[0] + m[1]*other[2],
		m[0]*other[1] + m[1]*other[3],
		m[2]*other[0] + m[3]*other[2],
		m[2]*other[1] + m[3]*other[3],
		m[4]*other[0] + m[5]*other[2] + other[4],
		m[4]*other[1] + m[5]*other[3] + other[5],
	}
}

// Apply transforms the point (x, y) by m.
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// Inv returns the inverse of m. The result is unspecified if m is
// singular (determinant 0).
func (m Matrix) Inv() Matrix {
	det := m[0]*m[3] - m[1]*m[2]
	if det == 0 {
		return IdentityMatrix
	}
	invDet := 1 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	e := -(m[4]*a + m[5]*c)
	f := -(m[4]*b + m[5]*d)
	return Matrix{a, b, c, d, e, f}
}
