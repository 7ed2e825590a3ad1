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

// Package metasan scrubs the redacted session's terms from the
// document-level metadata surfaces a redacted page's content isn't
// the only place they can leak from: the Info dictionary, XMP, outline
// titles, the names tree, and embedded-file names.
package metasan

import (
	"bytes"
	"strings"

	"seehuhn.de/go/xmp"
)

// RedactedPlaceholder replaces a matched term wherever metasan finds
// it outside the page content stream.
const RedactedPlaceholder = "[REDACTED]"

// SensitiveInfoFields are the /Info dictionary keys remove_all_metadata
// mode clears unconditionally.
var SensitiveInfoFields = []string{"Title", "Author", "Subject", "Keywords", "Producer", "Creator"}

// RedactTermsInText replaces every case-sensitive occurrence of each
// term with RedactedPlaceholder, longest term first so that one term
// being a prefix of another doesn't leave a partial match behind.
func RedactTermsInText(text string, terms []string) (string, bool) {
	if text == "" || len(terms) == 0 {
		return text, false
	}
	ordered := append([]string(nil), terms...)
	sortByLengthDesc(ordered)

	changed := false
	for _, term := range ordered {
		if term == "" {
			continue
		}
		if strings.Contains(text, term) {
			text = strings.ReplaceAll(text, term, RedactedPlaceholder)
			changed = true
		}
	}
	return text, changed
}

func sortByLengthDesc(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && len(s[j-1]) < len(s[j]); j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// SanitizeInfoDict applies RedactTermsInText to every value in info,
// returning a new map and whether anything changed.
func SanitizeInfoDict(info map[string]string, terms []string) (map[string]string, bool) {
	out := make(map[string]string, len(info))
	anyChanged := false
	for k, v := range info {
		sanitized, changed := RedactTermsInText(v, terms)
		out[k] = sanitized
		anyChanged = anyChanged || changed
	}
	return out, anyChanged
}

// ClearSensitiveInfoFields removes every field named in
// SensitiveInfoFields from info, for remove_all_metadata mode.
func ClearSensitiveInfoFields(info map[string]string) map[string]string {
	out := make(map[string]string, len(info))
	for k, v := range info {
		out[k] = v
	}
	for _, f := range SensitiveInfoFields {
		delete(out, f)
	}
	return out
}

// SanitizeStrings applies RedactTermsInText to every element of
// values, in place, used for outline titles, names-tree destination
// labels, and embedded-file display names alike — none of these carry
// document-specific structure metasan needs to understand beyond
// "it's a string that might contain a redacted term".
func SanitizeStrings(values []string, terms []string) ([]string, bool) {
	out := make([]string, len(values))
	anyChanged := false
	for i, v := range values {
		sanitized, changed := RedactTermsInText(v, terms)
		out[i] = sanitized
		anyChanged = anyChanged || changed
	}
	return out, anyChanged
}

// RedactXMP parses data as an XMP packet with seehuhn.de/go/xmp and
// replaces every redacted term found in its property values, leaving
// every other property — unrelated languages, custom namespaces,
// qualifiers — untouched. This is the sanitize_metadata mode's
// counterpart to RedactTermsInText for the Info dict: it edits the
// packet in place instead of deleting it, since the normal mode must
// not destroy XMP content that never contained a redacted term.
//
// If data does not parse as a well-formed XMP packet, it is returned
// unchanged alongside the parse error; callers fall back to leaving
// the stream untouched rather than losing it.
func RedactXMP(data []byte, terms []string) ([]byte, bool, error) {
	if len(data) == 0 || len(terms) == 0 {
		return data, false, nil
	}
	packet, err := xmp.Read(bytes.NewReader(data))
	if err != nil {
		return data, false, err
	}

	changed := false
	for name, raw := range packet.Properties {
		redacted, didChange := redactRaw(raw, terms)
		if didChange {
			packet.Properties[name] = redacted
			changed = true
		}
	}
	if !changed {
		return data, false, nil
	}

	var buf bytes.Buffer
	if err := packet.Write(&buf, &xmp.PacketOptions{Pretty: true}); err != nil {
		return data, false, err
	}
	return buf.Bytes(), true, nil
}

// redactRaw walks one XMP property value, redacting term occurrences
// in every RawText leaf it finds and recursing into RawStruct/RawArray
// containers. RawURI values are left alone: URIs aren't the kind of
// free text the redacted-terms log is built from.
func redactRaw(v xmp.Raw, terms []string) (xmp.Raw, bool) {
	switch val := v.(type) {
	case xmp.RawText:
		redacted, changed := RedactTermsInText(val.Value, terms)
		if !changed {
			return val, false
		}
		val.Value = redacted
		return val, true

	case xmp.RawStruct:
		changed := false
		out := make(map[xmp.Name]xmp.Raw, len(val.Value))
		for k, elem := range val.Value {
			redacted, didChange := redactRaw(elem, terms)
			out[k] = redacted
			changed = changed || didChange
		}
		if !changed {
			return val, false
		}
		val.Value = out
		return val, true

	case xmp.RawArray:
		changed := false
		out := make([]xmp.Raw, len(val.Value))
		for i, elem := range val.Value {
			redacted, didChange := redactRaw(elem, terms)
			out[i] = redacted
			changed = changed || didChange
		}
		if !changed {
			return val, false
		}
		val.Value = out
		return val, true

	default:
		return v, false
	}
}

// DeleteXMP removes an XMP metadata stream wholesale. Reserved for
// remove_all_metadata, which clears every metadata surface
// unconditionally; the normal sanitize_metadata mode uses RedactXMP
// instead so unrelated XMP content survives.
func DeleteXMP() []byte {
	return nil
}
