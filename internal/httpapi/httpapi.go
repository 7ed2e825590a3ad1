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

// Package httpapi wires the redact package onto an HTTP surface for
// redact-server: multipart PDF upload in, redacted PDF (or a JSON
// verification report) out.
package httpapi

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/blackline-labs/pdfredact/coord"
	"github.com/blackline-labs/pdfredact/internal/pdfdoc"
	"github.com/blackline-labs/pdfredact/internal/redactmetrics"
	"github.com/blackline-labs/pdfredact/redact"
)

// Server holds the collaborators every handler needs.
type Server struct {
	logger  *zap.Logger
	metrics *redactmetrics.Recorder
}

// New constructs a Server. A nil logger falls back to a no-op logger.
func New(logger *zap.Logger, metrics *redactmetrics.Recorder) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{logger: logger, metrics: metrics}
}

// RegisterRoutes wires up the API routes onto router, mirroring the
// flat /api/v1 grouping convention used elsewhere in this stack.
func (s *Server) RegisterRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		v1.POST("/redact", s.handleRedact)
		v1.POST("/verify", s.handleVerify)
	}
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

type areaParam struct {
	X float64 `form:"x" binding:"required"`
	Y float64 `form:"y" binding:"required"`
	W float64 `form:"w" binding:"required"`
	H float64 `form:"h" binding:"required"`
}

// handleRedact accepts a multipart form: the PDF under field "file",
// a 1-based "page" field, a "dpi" field, and one or more "rect" fields
// each holding "x,y,w,h" in image pixels. It responds with the
// redacted PDF bytes.
func (s *Server) handleRedact(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field: " + err.Error()})
		return
	}

	tmpIn, err := saveUpload(fileHeader)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer os.Remove(tmpIn)

	page, err := formInt(c, "page", 1)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dpi, err := formFloat(c, "dpi", 72.0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	areas, err := parseRects(c.PostFormArray("rect"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(areas) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one rect field is required"})
		return
	}

	doc, err := pdfdoc.Open(tmpIn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid PDF: " + err.Error()})
		return
	}

	orch := redact.New(doc, redact.Options{Logger: s.logger, Metrics: s.metrics})
	result, err := orch.RedactArea(redact.RedactionRequest{
		PageIndex: page - 1,
		Areas:     areas,
		RenderDPI: dpi,
	})
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "mode": result.Mode.String()})
		return
	}

	tmpOut := tmpIn + ".out.pdf"
	defer os.Remove(tmpOut)
	if err := doc.Save(tmpOut); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("X-Redaction-Mode", result.Mode.String())
	c.FileAttachment(tmpOut, "redacted.pdf")
}

// handleVerify re-parses an uploaded PDF and reports leaks found under
// its existing overlay rectangles, without mutating the file.
func (s *Server) handleVerify(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field: " + err.Error()})
		return
	}
	tmpIn, err := saveUpload(fileHeader)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer os.Remove(tmpIn)

	doc, err := pdfdoc.Open(tmpIn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid PDF: " + err.Error()})
		return
	}

	orch := redact.New(doc, redact.Options{Logger: s.logger})
	report, err := orch.Verify()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}
