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

package resources

import (
	"sort"
	"testing"

	"github.com/blackline-labs/pdfredact/contentstream"
)

func TestUnusedXObjectNamesDropsOnlyOrphans(t *testing.T) {
	removed := []contentstream.Operation{
		{Kind: contentstream.KindImageXObject, ResourceName: "Im0"},
		{Kind: contentstream.KindImageXObject, ResourceName: "Im1"},
	}
	kept := []contentstream.Operation{
		{Kind: contentstream.KindImageXObject, ResourceName: "Im1"},
	}
	got := UnusedXObjectNames(removed, kept)
	sort.Strings(got)
	if len(got) != 1 || got[0] != "Im0" {
		t.Errorf("UnusedXObjectNames = %v, want [Im0]", got)
	}
}

func TestUnusedXObjectNamesDeduplicates(t *testing.T) {
	removed := []contentstream.Operation{
		{Kind: contentstream.KindImageXObject, ResourceName: "Im0"},
		{Kind: contentstream.KindImageXObject, ResourceName: "Im0"},
	}
	got := UnusedXObjectNames(removed, nil)
	if len(got) != 1 {
		t.Errorf("UnusedXObjectNames = %v, want exactly one entry", got)
	}
}

type fakePruner struct{ deleted []string }

func (f *fakePruner) DeleteXObject(name string) { f.deleted = append(f.deleted, name) }

func TestCleanInvokesPrunerForEachOrphan(t *testing.T) {
	removed := []contentstream.Operation{{Kind: contentstream.KindImageXObject, ResourceName: "Im0"}}
	p := &fakePruner{}
	Clean(p, removed, nil)
	if len(p.deleted) != 1 || p.deleted[0] != "Im0" {
		t.Errorf("deleted = %v, want [Im0]", p.deleted)
	}
}
