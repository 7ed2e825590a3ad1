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

package metasan

import "testing"

func TestRedactTermsInTextReplacesAllOccurrences(t *testing.T) {
	got, changed := RedactTermsInText("SSN 123-45-6789 belongs to 123-45-6789", []string{"123-45-6789"})
	if !changed {
		t.Fatal("changed = false, want true")
	}
	want := "SSN [REDACTED] belongs to [REDACTED]"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRedactTermsInTextLongestFirst(t *testing.T) {
	// "Jane" is a prefix of "Jane Doe"; without longest-first ordering
	// the match on "Jane" would corrupt the later match on "Jane Doe".
	got, _ := RedactTermsInText("Jane Doe signed the form", []string{"Jane", "Jane Doe"})
	if got != "[REDACTED] signed the form" {
		t.Errorf("got %q, want %q", got, "[REDACTED] signed the form")
	}
}

func TestRedactTermsInTextNoMatch(t *testing.T) {
	got, changed := RedactTermsInText("nothing sensitive here", []string{"SECRET"})
	if changed {
		t.Error("changed = true, want false")
	}
	if got != "nothing sensitive here" {
		t.Errorf("got %q, want unchanged text", got)
	}
}

func TestSanitizeInfoDict(t *testing.T) {
	info := map[string]string{"Title": "Report for SECRET Project", "Producer": "Acme"}
	out, changed := SanitizeInfoDict(info, []string{"SECRET Project"})
	if !changed {
		t.Fatal("changed = false, want true")
	}
	if out["Title"] != "Report for [REDACTED]" {
		t.Errorf("Title = %q, want redacted", out["Title"])
	}
	if out["Producer"] != "Acme" {
		t.Errorf("Producer = %q, want unchanged", out["Producer"])
	}
}

func TestClearSensitiveInfoFields(t *testing.T) {
	info := map[string]string{"Title": "x", "Author": "y", "CustomField": "z"}
	out := ClearSensitiveInfoFields(info)
	if _, ok := out["Title"]; ok {
		t.Error("Title should have been cleared")
	}
	if _, ok := out["Author"]; ok {
		t.Error("Author should have been cleared")
	}
	if out["CustomField"] != "z" {
		t.Errorf("CustomField = %q, want preserved", out["CustomField"])
	}
}

func TestDeleteXMPAlwaysRemoves(t *testing.T) {
	if got := DeleteXMP(); got != nil {
		t.Errorf("DeleteXMP() = %v, want nil", got)
	}
}

func TestRedactXMPNoTermsIsNoop(t *testing.T) {
	data := []byte("not even well-formed XMP")
	out, changed, err := RedactXMP(data, nil)
	if err != nil {
		t.Fatalf("RedactXMP with no terms returned an error: %v", err)
	}
	if changed {
		t.Error("changed = true, want false")
	}
	if string(out) != string(data) {
		t.Errorf("out = %q, want unchanged input", out)
	}
}

func TestRedactXMPMalformedPacketFallsBackUnchanged(t *testing.T) {
	data := []byte("this is not an XMP packet")
	out, changed, err := RedactXMP(data, []string{"SECRET"})
	if err == nil {
		t.Fatal("expected a parse error for malformed XMP")
	}
	if changed {
		t.Error("changed = true, want false on parse failure")
	}
	if string(out) != string(data) {
		t.Errorf("out = %q, want unchanged input on parse failure", out)
	}
}
