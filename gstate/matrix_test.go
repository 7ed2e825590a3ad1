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

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var testMatrices = []Matrix{
	IdentityMatrix,
	{1, 0, 0, 1, 10, 20},
	{2, 0, 0, 2, 0, 0},
	{0, 1, -1, 0, 5, 5},
	{1, 0.5, 0.25, 1, 3, -4},
}

func TestIdentityMatrix(t *testing.T) {
	for i, A := range testMatrices {
		t.Run(fmt.Sprintf("mat%d", i), func(t *testing.T) {
			if d := cmp.Diff(A, A.Mul(IdentityMatrix)); d != "" {
				t.Error(d)
			}
			if d := cmp.Diff(A, IdentityMatrix.Mul(A)); d != "" {
				t.Error(d)
			}
		})
	}
}

func TestMatrixInverse(t *testing.T) {
	for i, A := range testMatrices {
		t.Run(fmt.Sprintf("mat%d", i), func(t *testing.T) {
			inv := A.Inv()
			if d := cmp.Diff(IdentityMatrix, inv.Mul(A), cmpopts.EquateApprox(1e-9, 1e-9)); d != "" {
				t.Error(d)
			}
			if d := cmp.Diff(IdentityMatrix, A.Mul(inv), cmpopts.EquateApprox(1e-9, 1e-9)); d != "" {
				t.Error(d)
			}
		})
	}
}

func TestApplyTranslation(t *testing.T) {
	m := Matrix{1, 0, 0, 1, 10, 20}
	x, y := m.Apply(1, 2)
	if x != 11 || y != 22 {
		t.Errorf("Apply = (%g, %g), want (11, 22)", x, y)
	}
}
