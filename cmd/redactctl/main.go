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

// Command redactctl applies redactions to a PDF file from the command
// line: a thin wrapper over the redact package for scripting and
// one-off use, as opposed to redact-server's long-running HTTP facade.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/blackline-labs/pdfredact/coord"
	"github.com/blackline-labs/pdfredact/internal/config"
	"github.com/blackline-labs/pdfredact/internal/obslog"
	"github.com/blackline-labs/pdfredact/internal/pdfdoc"
	"github.com/blackline-labs/pdfredact/internal/redactmetrics"
	"github.com/blackline-labs/pdfredact/redact"
)

var (
	cfgPath string
	debug   bool
	noColor bool
)

func main() {
	root := &cobra.Command{
		Use:   "redactctl",
		Short: "Redact and verify sensitive regions in PDF files",
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a redactctl.yaml config file")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose logging")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	root.AddCommand(newRedactCmd(), newVerifyCmd(), newSanitizeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadLogger(cfg config.Config) *zap.Logger {
	level := zapcore.InfoLevel
	_ = level.UnmarshalText([]byte(cfg.LogLevel))
	logger, err := obslog.New(obslog.Config{Development: debug || cfg.Dev, Level: level})
	if err != nil {
		return obslog.Noop()
	}
	return logger
}

type rectFlag struct {
	X, Y, W, H float64
}

func parseRect(s string) (rectFlag, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return rectFlag{}, fmt.Errorf("rect %q: expected 4 comma-separated values x,y,w,h", s)
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return rectFlag{}, fmt.Errorf("rect %q: %w", s, err)
		}
		vals[i] = v
	}
	return rectFlag{X: vals[0], Y: vals[1], W: vals[2], H: vals[3]}, nil
}

func newRedactCmd() *cobra.Command {
	var (
		input, output string
		page          int
		rects         []string
		dpi           float64
	)
	cmd := &cobra.Command{
		Use:   "redact",
		Short: "Remove content and paint an opaque overlay over one or more rectangles",
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				color.NoColor = true
			}
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if dpi == 0 {
				dpi = cfg.RenderDPI
			}
			logger := loadLogger(cfg)
			defer logger.Sync()

			doc, err := pdfdoc.Open(input)
			if err != nil {
				return err
			}

			areas := make([]coord.PixelRect, 0, len(rects))
			for _, s := range rects {
				r, err := parseRect(s)
				if err != nil {
					return err
				}
				areas = append(areas, coord.PixelRect{X: r.X, Y: r.Y, W: r.W, H: r.H})
			}

			orch := redact.New(doc, redact.Options{
				Logger:  logger,
				Metrics: redactmetrics.New(),
			})

			result, err := orch.RedactArea(redact.RedactionRequest{
				PageIndex: page - 1,
				Areas:     areas,
				RenderDPI: dpi,
			})
			if err != nil {
				return err
			}
			printResult(result)

			if output == "" {
				output = input
			}
			return doc.Save(output)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "input PDF path")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output PDF path (defaults to overwriting input)")
	cmd.Flags().IntVar(&page, "page", 1, "1-based page number")
	cmd.Flags().StringArrayVar(&rects, "rect", nil, "redaction rectangle as x,y,w,h in image pixels; repeatable")
	cmd.Flags().Float64Var(&dpi, "dpi", 0, "DPI the rectangles were selected at (defaults to config render_dpi)")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("rect")
	return cmd
}

func printResult(r redact.RedactionResult) {
	var c *color.Color
	switch r.Mode {
	case redact.ModeTrueRedaction:
		c = color.New(color.FgGreen, color.Bold)
	case redact.ModeVisualOnly:
		c = color.New(color.FgYellow, color.Bold)
	default:
		c = color.New(color.FgRed, color.Bold)
	}
	c.Printf("page %d: %s", r.PageIndex+1, r.Mode)
	fmt.Printf(" (content_removed=%v text=%v image=%v graphics=%v visual=%v)\n",
		r.ContentRemoved, r.TextRemoved, r.ImageRemoved, r.GraphicsRemoved, r.VisualDrawn)
}

func newVerifyCmd() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Re-parse a redacted PDF and check for text surviving under an overlay",
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				color.NoColor = true
			}
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			logger := loadLogger(cfg)
			defer logger.Sync()

			doc, err := pdfdoc.Open(input)
			if err != nil {
				return err
			}
			orch := redact.New(doc, redact.Options{Logger: logger})
			report, err := orch.Verify()
			if err != nil {
				return err
			}
			if report.Passed {
				color.New(color.FgGreen, color.Bold).Println("PASS: no leaks found")
				return nil
			}
			color.New(color.FgRed, color.Bold).Printf("FAIL: %d leak(s) found\n", len(report.Leaks))
			for _, l := range report.Leaks {
				fmt.Printf("  page %d: %q under redaction rectangle\n", l.Page+1, l.Text)
			}
			return fmt.Errorf("verification failed: %d leak(s)", len(report.Leaks))
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "redacted PDF path to verify")
	cmd.MarkFlagRequired("input")
	return cmd
}

func newSanitizeCmd() *cobra.Command {
	var (
		input, output string
		removeAll     bool
	)
	cmd := &cobra.Command{
		Use:   "sanitize",
		Short: "Scrub redacted terms (or all sensitive fields) from document metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			logger := loadLogger(cfg)
			defer logger.Sync()

			doc, err := pdfdoc.Open(input)
			if err != nil {
				return err
			}
			orch := redact.New(doc, redact.Options{Logger: logger})

			if removeAll {
				if err := orch.RemoveAllMetadata(); err != nil {
					return err
				}
			} else if err := orch.SanitizeDocumentMetadata(); err != nil {
				return err
			}

			if output == "" {
				output = input
			}
			return doc.Save(output)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "input PDF path")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output PDF path (defaults to overwriting input)")
	cmd.Flags().BoolVar(&removeAll, "remove-all-metadata", false, "clear every sensitive Info field and the XMP stream, instead of term substitution")
	cmd.MarkFlagRequired("input")
	return cmd
}
