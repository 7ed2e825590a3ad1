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

// Package pdfdoc is the pdfcpu-backed implementation of redact.Document
// and redact.Page: the cross-reference table, object graph and stream
// codec live entirely inside pdfcpu, and this package adapts that
// object model onto the narrow surface the orchestrator needs.
package pdfdoc

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/blackline-labs/pdfredact/redact"
	"github.com/blackline-labs/pdfredact/resources"
)

var (
	_ redact.Document  = (*Document)(nil)
	_ redact.Page      = (*Page)(nil)
	_ resources.Pruner = (*xobjectPruner)(nil)
)

// Document wraps a pdfcpu *model.Context for one open file.
type Document struct {
	ctx  *model.Context
	path string
}

// Open reads and validates path with pdfcpu's default configuration.
func Open(path string) (*Document, error) {
	cfg := model.NewDefaultConfiguration()
	if err := api.ValidateFile(path, cfg); err != nil {
		return nil, fmt.Errorf("pdfdoc: validate %s: %w", path, err)
	}
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, fmt.Errorf("pdfdoc: read %s: %w", path, err)
	}
	return &Document{ctx: ctx, path: path}, nil
}

// PageCount implements redact.Document.
func (d *Document) PageCount() int {
	return d.ctx.PageCount
}

// Page implements redact.Document. pdfcpu numbers pages from 1.
func (d *Document) Page(index int) (redact.Page, error) {
	pageNr := index + 1
	dict, inh, err := d.ctx.XRefTable.PageDict(pageNr)
	if err != nil {
		return nil, fmt.Errorf("pdfdoc: page %d: %w", index, err)
	}
	if dict == nil {
		return nil, fmt.Errorf("pdfdoc: page %d: not found", index)
	}
	return &Page{ctx: d.ctx, dict: dict, inh: inh, pageNr: pageNr}, nil
}

// InfoDict implements redact.Document. Only string-valued entries of
// the document information dictionary are surfaced; arrays and nested
// dicts don't occur in practice for these fields.
func (d *Document) InfoDict() (map[string]string, error) {
	out := map[string]string{}
	infoDict, err := d.ctx.XRefTable.DereferenceDict(*d.ctx.Info)
	if err != nil || infoDict == nil {
		return out, nil
	}
	for key, obj := range infoDict {
		obj, err := d.ctx.XRefTable.Dereference(obj)
		if err != nil {
			continue
		}
		if s, ok := stringValue(obj); ok {
			out[key] = s
		}
	}
	return out, nil
}

// SetInfoDict implements redact.Document.
func (d *Document) SetInfoDict(m map[string]string) error {
	infoDict, err := d.ctx.XRefTable.DereferenceDict(*d.ctx.Info)
	if err != nil {
		return err
	}
	if infoDict == nil {
		infoDict = types.NewDict()
	}
	for key := range infoDict {
		if _, ok := m[key]; !ok {
			delete(infoDict, key)
		}
	}
	for key, val := range m {
		infoDict[key] = types.StringLiteral(val)
	}
	return nil
}

// XMP implements redact.Document. pdfcpu exposes the catalog's
// /Metadata entry as a plain stream; this returns its decoded bytes
// unparsed, and metasan does any parsing of the packet.
func (d *Document) XMP() ([]byte, bool, error) {
	root, err := d.ctx.XRefTable.Catalog()
	if err != nil {
		return nil, false, err
	}
	obj, found := root.Find("Metadata")
	if !found {
		return nil, false, nil
	}
	sd, err := d.ctx.XRefTable.DereferenceStreamDict(obj)
	if err != nil || sd == nil {
		return nil, false, err
	}
	if err := sd.Decode(); err != nil {
		return nil, false, err
	}
	return sd.Content, true, nil
}

// SetXMP implements redact.Document. A nil value removes the entry
// entirely, matching metasan.DeleteXMP's full-removal behavior.
func (d *Document) SetXMP(b []byte) error {
	root, err := d.ctx.XRefTable.Catalog()
	if err != nil {
		return err
	}
	if b == nil {
		root.Delete("Metadata")
		return nil
	}
	ir, err := newEncodedStreamObject(d.ctx, b)
	if err != nil {
		return err
	}
	root["Metadata"] = *ir
	return nil
}

// newEncodedStreamObject builds a fresh, encoded stream object holding
// b and registers it, the same sequence pdfcpu itself uses when it
// synthesizes new content (a watermark form, a new /Contents stream):
// build the dict, attach raw content, encode, then register the
// object and get back an indirect reference to it.
func newEncodedStreamObject(ctx *model.Context, b []byte) (*types.IndirectRef, error) {
	sd := types.StreamDict{Dict: types.NewDict(), Content: b}
	if err := sd.Encode(); err != nil {
		return nil, err
	}
	return ctx.XRefTable.IndRefForNewObject(sd)
}

// OutlineTitles implements redact.Document, walking the /Outlines tree
// via its /First, /Next sibling chain.
func (d *Document) OutlineTitles() ([]string, error) {
	root, err := d.ctx.XRefTable.Catalog()
	if err != nil {
		return nil, err
	}
	obj, found := root.Find("Outlines")
	if !found {
		return nil, nil
	}
	var titles []string
	if err := d.walkOutline(obj, &titles); err != nil {
		return nil, err
	}
	return titles, nil
}

func (d *Document) walkOutline(obj types.Object, titles *[]string) error {
	dict, err := d.ctx.XRefTable.DereferenceDict(obj)
	if err != nil || dict == nil {
		return err
	}
	if t, found := dict.Find("Title"); found {
		if s, ok := stringValue(t); ok {
			*titles = append(*titles, s)
		}
	}
	if first, found := dict.Find("First"); found {
		if err := d.walkOutline(first, titles); err != nil {
			return err
		}
	}
	if next, found := dict.Find("Next"); found {
		if err := d.walkOutline(next, titles); err != nil {
			return err
		}
	}
	return nil
}

// SetOutlineTitles implements redact.Document, rewriting titles in the
// same order OutlineTitles traversed them. It is the caller's
// responsibility not to change the slice's length.
func (d *Document) SetOutlineTitles(titles []string) error {
	root, err := d.ctx.XRefTable.Catalog()
	if err != nil {
		return err
	}
	obj, found := root.Find("Outlines")
	if !found {
		return nil
	}
	i := 0
	return d.rewriteOutline(obj, titles, &i)
}

func (d *Document) rewriteOutline(obj types.Object, titles []string, i *int) error {
	dict, err := d.ctx.XRefTable.DereferenceDict(obj)
	if err != nil || dict == nil {
		return err
	}
	if _, found := dict.Find("Title"); found && *i < len(titles) {
		dict["Title"] = types.StringLiteral(titles[*i])
		*i++
	}
	if first, found := dict.Find("First"); found {
		if err := d.rewriteOutline(first, titles, i); err != nil {
			return err
		}
	}
	if next, found := dict.Find("Next"); found {
		if err := d.rewriteOutline(next, titles, i); err != nil {
			return err
		}
	}
	return nil
}

// NamesTreeLabels implements redact.Document. The /Names tree is a
// balanced tree of /Kids or a leaf of /Names key-value pairs; /Kids
// are descended into, and labels are collected only from the
// key-value arrays.
func (d *Document) NamesTreeLabels() ([]string, error) {
	root, err := d.ctx.XRefTable.Catalog()
	if err != nil {
		return nil, err
	}
	obj, found := root.Find("Names")
	if !found {
		return nil, nil
	}
	var labels []string
	if err := d.walkNamesTree(obj, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

func (d *Document) walkNamesTree(obj types.Object, labels *[]string) error {
	dict, err := d.ctx.XRefTable.DereferenceDict(obj)
	if err != nil || dict == nil {
		return err
	}
	for key, sub := range dict {
		if key == "Kids" {
			kids, err := d.ctx.XRefTable.DereferenceArray(sub)
			if err != nil {
				return err
			}
			for _, kid := range kids {
				if err := d.walkNamesTree(kid, labels); err != nil {
					return err
				}
			}
			continue
		}
		arr, err := d.ctx.XRefTable.DereferenceArray(sub)
		if err != nil || arr == nil {
			continue
		}
		for i := 0; i+1 < len(arr); i += 2 {
			if s, ok := stringValue(arr[i]); ok {
				*labels = append(*labels, s)
			}
		}
	}
	return nil
}

// SetNamesTreeLabels implements redact.Document, in the same traversal
// order walkNamesTree produced.
func (d *Document) SetNamesTreeLabels(labels []string) error {
	root, err := d.ctx.XRefTable.Catalog()
	if err != nil {
		return err
	}
	obj, found := root.Find("Names")
	if !found {
		return nil
	}
	i := 0
	return d.rewriteNamesTree(obj, labels, &i)
}

func (d *Document) rewriteNamesTree(obj types.Object, labels []string, i *int) error {
	dict, err := d.ctx.XRefTable.DereferenceDict(obj)
	if err != nil || dict == nil {
		return err
	}
	for key, sub := range dict {
		if key == "Kids" {
			kids, err := d.ctx.XRefTable.DereferenceArray(sub)
			if err != nil {
				return err
			}
			for _, kid := range kids {
				if err := d.rewriteNamesTree(kid, labels, i); err != nil {
					return err
				}
			}
			continue
		}
		arr, err := d.ctx.XRefTable.DereferenceArray(sub)
		if err != nil || arr == nil {
			continue
		}
		for j := 0; j+1 < len(arr); j += 2 {
			if *i >= len(labels) {
				break
			}
			if _, ok := stringValue(arr[j]); ok {
				arr[j] = types.StringLiteral(labels[*i])
				*i++
			}
		}
	}
	return nil
}

// EmbeddedFileNames implements redact.Document by reusing the names
// tree walker against the /EmbeddedFiles name tree.
func (d *Document) EmbeddedFileNames() ([]string, error) {
	root, err := d.ctx.XRefTable.Catalog()
	if err != nil {
		return nil, err
	}
	names, found := root.Find("Names")
	if !found {
		return nil, nil
	}
	namesDict, err := d.ctx.XRefTable.DereferenceDict(names)
	if err != nil || namesDict == nil {
		return nil, err
	}
	obj, found := namesDict.Find("EmbeddedFiles")
	if !found {
		return nil, nil
	}
	var labels []string
	if err := d.walkNamesTree(obj, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

// SetEmbeddedFileNames implements redact.Document.
func (d *Document) SetEmbeddedFileNames(names []string) error {
	root, err := d.ctx.XRefTable.Catalog()
	if err != nil {
		return err
	}
	namesObj, found := root.Find("Names")
	if !found {
		return nil
	}
	namesDict, err := d.ctx.XRefTable.DereferenceDict(namesObj)
	if err != nil || namesDict == nil {
		return err
	}
	obj, found := namesDict.Find("EmbeddedFiles")
	if !found {
		return nil
	}
	i := 0
	return d.rewriteNamesTree(obj, names, &i)
}

// Save implements redact.Document, writing the mutated context back
// out via pdfcpu's own incremental-or-full writer.
func (d *Document) Save(path string) error {
	return api.WriteContextFile(d.ctx, path)
}

// Page is one page's content-stream and resource surface, backed by
// the page dictionary pdfcpu resolved for us including inherited
// attributes (MediaBox, Resources, Rotate).
type Page struct {
	ctx    *model.Context
	dict   types.Dict
	inh    *model.InheritedPageAttrs
	pageNr int
}

// ContentStreams implements redact.Page, decoding every stream filter
// pdfcpu supports and returning each stream's raw bytes in document
// order. A page's /Contents may be a single stream or an array of
// streams; both are handled.
func (p *Page) ContentStreams() ([][]byte, error) {
	obj, found := p.dict.Find("Contents")
	if !found {
		return nil, nil
	}
	obj, err := p.ctx.XRefTable.Dereference(obj)
	if err != nil {
		return nil, err
	}
	switch o := obj.(type) {
	case types.StreamDict:
		if err := o.Decode(); err != nil {
			return nil, err
		}
		return [][]byte{o.Content}, nil
	case types.Array:
		var out [][]byte
		for _, entry := range o {
			sd, err := p.ctx.XRefTable.DereferenceStreamDict(entry)
			if err != nil {
				return nil, err
			}
			if sd == nil {
				continue
			}
			if err := sd.Decode(); err != nil {
				return nil, err
			}
			out = append(out, sd.Content)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("pdfdoc: page %d: unsupported /Contents type %T", p.pageNr, obj)
	}
}

// SetContentStream implements redact.Page, replacing /Contents with a
// single new stream built from the rebuilt, filtered content plus any
// overlay bytes the orchestrator appended. Multiple input streams
// always collapse into one output stream since rebuild.FlattenContents
// already merged them before the orchestrator calls back in here.
func (p *Page) SetContentStream(b []byte) error {
	ir, err := newEncodedStreamObject(p.ctx, b)
	if err != nil {
		return err
	}
	p.dict["Contents"] = *ir
	return nil
}

// Height implements redact.Page from the inherited MediaBox.
func (p *Page) Height() float64 {
	return p.inh.MediaBox.Height()
}

// Width implements redact.Page from the inherited MediaBox.
func (p *Page) Width() float64 {
	return p.inh.MediaBox.Width()
}

// RotationDegrees implements redact.Page from the inherited /Rotate.
func (p *Page) RotationDegrees() int {
	return p.inh.Rotate
}

// XObjectPruner implements redact.Page.
func (p *Page) XObjectPruner() resources.Pruner {
	return &xobjectPruner{ctx: p.ctx, dict: p.dict}
}

type xobjectPruner struct {
	ctx  *model.Context
	dict types.Dict
}

// DeleteXObject implements resources.Pruner by removing name from the
// page's /Resources/XObject dict, and deleting the resource dict
// entirely if it was the last entry.
func (x *xobjectPruner) DeleteXObject(name string) {
	obj, found := x.dict.Find("Resources")
	if !found {
		return
	}
	resDict, err := x.ctx.XRefTable.DereferenceDict(obj)
	if err != nil || resDict == nil {
		return
	}
	xobjObj, found := resDict.Find("XObject")
	if !found {
		return
	}
	xobjDict, err := x.ctx.XRefTable.DereferenceDict(xobjObj)
	if err != nil || xobjDict == nil {
		return
	}
	delete(xobjDict, name)
	if len(xobjDict) == 0 {
		delete(resDict, "XObject")
	}
}

// stringValue extracts a Go string from a pdfcpu string-like object,
// accepting either literal or hex PDF string encodings.
func stringValue(obj types.Object) (string, bool) {
	switch s := obj.(type) {
	case types.StringLiteral:
		return string(s), true
	case types.HexLiteral:
		b, err := s.Bytes()
		if err != nil {
			return "", false
		}
		return string(b), true
	default:
		return "", false
	}
}
