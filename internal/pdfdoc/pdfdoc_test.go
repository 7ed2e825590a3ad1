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

package pdfdoc

import (
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/stretchr/testify/assert"
)

// The rest of this package talks to a real pdfcpu cross-reference
// table and is exercised at the integration level against fixture
// PDFs rather than here; stringValue is the one pure piece worth unit
// testing in isolation.

func TestStringValueLiteral(t *testing.T) {
	s, ok := stringValue(types.StringLiteral("hello"))
	assert.True(t, ok)
	assert.Equal(t, "hello", s)
}

func TestStringValueHex(t *testing.T) {
	// "6869" is the hex encoding of the ASCII bytes "hi".
	s, ok := stringValue(types.HexLiteral("6869"))
	assert.True(t, ok)
	assert.Equal(t, "hi", s)
}

func TestStringValueRejectsNonString(t *testing.T) {
	_, ok := stringValue(types.Integer(42))
	assert.False(t, ok)
}
