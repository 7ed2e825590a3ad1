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

// Package redact orchestrates the full area-redaction pipeline: parse,
// filter, rebuild, overlay, clean resources, and (on request) verify —
// owning the session-scoped log of terms it has redacted.
package redact

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blackline-labs/pdfredact/contentstream"
	"github.com/blackline-labs/pdfredact/coord"
	"github.com/blackline-labs/pdfredact/filter"
	"github.com/blackline-labs/pdfredact/glyphindex"
	"github.com/blackline-labs/pdfredact/internal/obslog"
	"github.com/blackline-labs/pdfredact/internal/redactmetrics"
	"github.com/blackline-labs/pdfredact/metasan"
	"github.com/blackline-labs/pdfredact/overlay"
	"github.com/blackline-labs/pdfredact/rebuild"
	"github.com/blackline-labs/pdfredact/resources"
	"github.com/blackline-labs/pdfredact/verify"
)

// Mode classifies how a single redaction call ended.
type Mode int

const (
	ModeTrueRedaction Mode = iota
	ModeVisualOnly
	ModeFailed
)

func (m Mode) String() string {
	switch m {
	case ModeTrueRedaction:
		return "true_redaction"
	case ModeVisualOnly:
		return "visual_only"
	default:
		return "failed"
	}
}

// RedactionRequest names the area to remove: a page, one or more
// image-pixel rectangles, and the DPI they were rendered at.
type RedactionRequest struct {
	ID        string
	PageIndex int
	Areas     []coord.PixelRect
	RenderDPI float64
}

// RedactionResult reports what actually happened for one request.
type RedactionResult struct {
	PageIndex        int
	Mode             Mode
	ContentRemoved   bool
	VisualDrawn      bool
	TextRemoved      bool
	ImageRemoved     bool
	GraphicsRemoved  bool
}

// Options configures an Orchestrator.
type Options struct {
	Logger      *zap.Logger
	Metrics     *redactmetrics.Recorder
	TextService TextExtractionService
	FontMetrics FontMetricsProvider
}

// Orchestrator drives the redaction pipeline against a single
// Document, accumulating the terms it has redacted across calls.
type Orchestrator struct {
	doc         Document
	logger      *zap.Logger
	metrics     *redactmetrics.Recorder
	textService TextExtractionService
	fontMetrics FontMetricsProvider

	mu             sync.Mutex
	redactedTerms  []string
}

// New constructs an Orchestrator for doc. A zero Options leaves the
// logger silent and metrics unregistered — fine for one-shot CLI runs
// that don't need a live registry.
func New(doc Document, opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = obslog.Noop()
	}
	return &Orchestrator{
		doc:         doc,
		logger:      logger,
		metrics:     opts.Metrics,
		textService: opts.TextService,
		fontMetrics: opts.FontMetrics,
	}
}

// RedactArea runs the full pipeline for a single request.
func (o *Orchestrator) RedactArea(req RedactionRequest) (RedactionResult, error) {
	start := time.Now()
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	log := o.logger.With(zap.String("request_id", req.ID), zap.Int("page", req.PageIndex))

	result, err := o.redactPage(req, log)
	if o.metrics != nil {
		o.metrics.Observe(result.Mode.String(), time.Since(start))
	}
	return result, err
}

// RedactAreas runs RedactArea for every request, returning a
// PartialSuccessError if some but not all of them succeeded; a
// request succeeds when it returns no error and does not end in
// ModeFailed (ModeVisualOnly counts as success).
func (o *Orchestrator) RedactAreas(reqs []RedactionRequest) ([]RedactionResult, error) {
	results := make([]RedactionResult, 0, len(reqs))
	succeeded, failed := 0, 0
	for _, req := range reqs {
		res, err := o.RedactArea(req)
		results = append(results, res)
		if err != nil || res.Mode == ModeFailed {
			failed++
			continue
		}
		succeeded++
	}
	if failed > 0 && succeeded > 0 {
		return results, &PartialSuccessError{Succeeded: succeeded, Failed: failed}
	}
	return results, nil
}

func (o *Orchestrator) redactPage(req RedactionRequest, log *zap.Logger) (RedactionResult, error) {
	result := RedactionResult{PageIndex: req.PageIndex, Mode: ModeFailed}

	page, err := o.doc.Page(req.PageIndex)
	if err != nil {
		return result, &RedactionFailedError{PageIndex: req.PageIndex, Err: err}
	}

	streams, err := page.ContentStreams()
	if err != nil {
		return result, &RedactionFailedError{PageIndex: req.PageIndex, Err: err}
	}
	buf := rebuild.FlattenContents(streams)

	metrics, err := o.resolveFontMetrics(req.PageIndex)
	if err != nil {
		return result, &RedactionFailedError{PageIndex: req.PageIndex, Err: err}
	}

	pageHeight := page.Height()
	ops, err := contentstream.Parse(buf, metrics, pageHeight)
	if err != nil {
		log.Error("content stream parse failed", zap.Error(err))
		return result, &RedactionFailedError{PageIndex: req.PageIndex, Err: err}
	}

	boxes, err := areasToBoxes(req.Areas, req.RenderDPI, pageHeight)
	if err != nil {
		return result, &RedactionFailedError{PageIndex: req.PageIndex, Err: err}
	}

	letters, err := o.resolveLetters(page, req.PageIndex, ops, pageHeight)
	if err != nil {
		log.Warn("letter index unavailable, falling back to letters built from parsed operations", zap.Error(err))
	}
	idx := glyphindex.New(letters)

	fres := filter.Apply(ops, boxes, pageHeight, idx)

	newContent := rebuild.Stream(buf, fres.Kept)
	overlayBytes := overlay.PaintAll(boxes)
	final := append(append([]byte{}, newContent...), append([]byte(" "), overlayBytes...)...)

	if err := page.SetContentStream(final); err != nil {
		log.Warn("overlay write failed, falling back to content-only redaction", zap.Error(err))
		if !fres.ContentRemoved {
			return result, &RedactionFailedError{PageIndex: req.PageIndex, Err: err}
		}
		if err := page.SetContentStream(newContent); err != nil {
			return result, &RedactionFailedError{PageIndex: req.PageIndex, Err: err}
		}
		result.Mode = ModeTrueRedaction
		result.ContentRemoved = true
		result.VisualDrawn = false
		o.recordRemovedTerms(fres.RemovedText)
		o.classify(&result, fres)
		return result, nil
	}

	resources.Clean(page.XObjectPruner(), fres.RemovedOps, fres.Kept)
	o.recordRemovedTerms(fres.RemovedText)
	o.classify(&result, fres)
	result.VisualDrawn = true

	if !fres.ContentRemoved {
		log.Warn("no content matched the requested area; drawing overlay only")
		result.Mode = ModeVisualOnly
		return result, nil
	}
	result.Mode = ModeTrueRedaction
	return result, nil
}

func (o *Orchestrator) classify(result *RedactionResult, fres filter.Result) {
	result.ContentRemoved = fres.ContentRemoved
	for _, op := range fres.RemovedOps {
		switch op.Kind {
		case contentstream.KindText:
			result.TextRemoved = true
		case contentstream.KindImageXObject, contentstream.KindInlineImage:
			result.ImageRemoved = true
		case contentstream.KindPath:
			result.GraphicsRemoved = true
		}
	}
}

func (o *Orchestrator) resolveFontMetrics(pageIndex int) (contentstream.FontMetrics, error) {
	if o.fontMetrics == nil {
		return nil, nil
	}
	fm, err := o.fontMetrics.MetricsFor(o.doc, pageIndex)
	if err != nil {
		return nil, err
	}
	return fm, nil
}

func (o *Orchestrator) resolveLetters(page Page, pageIndex int, ops []contentstream.Operation, pageHeight float64) ([]glyphindex.Letter, error) {
	if o.textService != nil {
		letters, err := o.textService.Letters(page, pageIndex)
		if err == nil {
			return letters, nil
		}
		return glyphindex.BuildFromOperations(ops, pageHeight), err
	}
	return glyphindex.BuildFromOperations(ops, pageHeight), nil
}

func (o *Orchestrator) recordRemovedTerms(terms []string) {
	if len(terms) == 0 {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.redactedTerms = append(o.redactedTerms, terms...)
}

// RedactedTerms returns every term this Orchestrator has removed so
// far, across all RedactArea/RedactAreas calls.
func (o *Orchestrator) RedactedTerms() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.redactedTerms))
	copy(out, o.redactedTerms)
	return out
}

// ClearRedactedTerms empties the session log.
func (o *Orchestrator) ClearRedactedTerms() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.redactedTerms = nil
}

// SanitizeDocumentMetadata scrubs every redacted term (recorded so
// far) from the Info dict, XMP, outline titles, names-tree labels, and
// embedded-file names.
func (o *Orchestrator) SanitizeDocumentMetadata() error {
	terms := o.RedactedTerms()

	info, err := o.doc.InfoDict()
	if err != nil {
		return err
	}
	sanitizedInfo, _ := metasan.SanitizeInfoDict(info, terms)
	if err := o.doc.SetInfoDict(sanitizedInfo); err != nil {
		return err
	}

	if raw, ok, err := o.doc.XMP(); err != nil {
		return err
	} else if ok && raw != nil {
		redacted, changed, err := metasan.RedactXMP(raw, terms)
		if err != nil {
			log := o.logger.With(zap.String("step", "sanitize_metadata"))
			log.Warn("XMP packet did not parse, leaving it untouched", zap.Error(err))
		} else if changed {
			if err := o.doc.SetXMP(redacted); err != nil {
				return err
			}
		}
	}

	if err := o.sanitizeStringList(o.doc.OutlineTitles, o.doc.SetOutlineTitles, terms); err != nil {
		return err
	}
	if err := o.sanitizeStringList(o.doc.NamesTreeLabels, o.doc.SetNamesTreeLabels, terms); err != nil {
		return err
	}
	return o.sanitizeStringList(o.doc.EmbeddedFileNames, o.doc.SetEmbeddedFileNames, terms)
}

func (o *Orchestrator) sanitizeStringList(get func() ([]string, error), set func([]string) error, terms []string) error {
	values, err := get()
	if err != nil {
		return err
	}
	sanitized, changed := metasan.SanitizeStrings(values, terms)
	if !changed {
		return nil
	}
	return set(sanitized)
}

// RemoveAllMetadata clears the sensitive Info dict fields and the XMP
// stream unconditionally, independent of the redacted-terms log.
func (o *Orchestrator) RemoveAllMetadata() error {
	info, err := o.doc.InfoDict()
	if err != nil {
		return err
	}
	if err := o.doc.SetInfoDict(metasan.ClearSensitiveInfoFields(info)); err != nil {
		return err
	}
	if raw, ok, err := o.doc.XMP(); err != nil {
		return err
	} else if ok && raw != nil {
		if err := o.doc.SetXMP(metasan.DeleteXMP()); err != nil {
			return err
		}
	}
	return nil
}

// Verify re-parses every page and reports any surviving content found
// underneath an opaque black rectangle.
func (o *Orchestrator) Verify() (verify.Report, error) {
	pageCount := o.doc.PageCount()
	streams := make([][]byte, pageCount)
	heights := make([]float64, pageCount)
	for i := 0; i < pageCount; i++ {
		page, err := o.doc.Page(i)
		if err != nil {
			return verify.Report{}, err
		}
		pageStreams, err := page.ContentStreams()
		if err != nil {
			return verify.Report{}, err
		}
		streams[i] = rebuild.FlattenContents(pageStreams)
		heights[i] = page.Height()
	}

	metrics, err := o.resolveFontMetrics(0)
	if err != nil {
		metrics = nil
	}
	return verify.Document(streams, metrics, heights)
}
