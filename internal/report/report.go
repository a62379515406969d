// Package report turns an analysis aggregate into its two consumer views:
// a lossless structured view for display consumers and a flattened text
// report inside a success/error envelope for the automated tool surface.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/visiontools/vision-analyze-mcp/internal/vision"
)

// DefaultMaxObjectResults caps object/scene entries in the text report.
// Truncation is purely presentational; the aggregate keeps everything.
const DefaultMaxObjectResults = 10

// StructuredView is the display-consumer contract: the aggregate passed
// through unchanged plus convenience counts. NormalizedRect values keep their
// bottom-left-origin unit convention; consumers convert for rendering.
type StructuredView struct {
	Aggregate  *vision.Aggregate `json:"aggregate"`
	Counts     map[string]int    `json:"counts"`
	TotalItems int               `json:"total_items"`
	HasResults bool              `json:"has_results"`
}

// Structured builds the display-consumer view.
func Structured(agg *vision.Aggregate) StructuredView {
	counts := make(map[string]int, len(agg.Requested))
	for _, c := range agg.Requested {
		counts[string(c)] = agg.Count(c)
	}
	return StructuredView{
		Aggregate:  agg,
		Counts:     counts,
		TotalItems: agg.TotalItems(),
		HasResults: agg.HasResults(),
	}
}

// Envelope is the tool-surface result. Exactly one of Report and Error is
// populated; a failed analysis carries zero results.
type Envelope struct {
	Success    bool   `json:"success"`
	Report     string `json:"report,omitempty"`
	Error      string `json:"error,omitempty"`
	TotalItems int    `json:"total_items"`
}

// Options controls report rendering only; it never changes what the
// aggregate retains.
type Options struct {
	// IncludeConfidence renders "% confidence" suffixes on per-item lines.
	IncludeConfidence bool

	// MaxObjectResults bounds object/scene entries; <= 0 selects the default.
	MaxObjectResults int
}

// Failure converts any pipeline error into an error envelope. The tool
// surface never raises; every failure becomes a descriptive message here.
func Failure(err error) Envelope {
	return Envelope{Success: false, Error: err.Error()}
}

// Render produces the success envelope: one summary line per non-empty
// category, a stable line-oriented detail section per category, and the total
// item count across requested categories.
func Render(agg *vision.Aggregate, opts Options) Envelope {
	maxObjects := opts.MaxObjectResults
	if maxObjects <= 0 {
		maxObjects = DefaultMaxObjectResults
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Image analysis results (%dx%d):\n", agg.Size.Width, agg.Size.Height)

	for _, c := range agg.Requested {
		if n := agg.Count(c); n > 0 {
			fmt.Fprintf(&b, "%s: %d found\n", c.DisplayName(), n)
		}
	}

	for _, c := range agg.Requested {
		if agg.Count(c) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n== %s ==\n", c.DisplayName())
		switch c {
		case vision.CategoryText:
			writeTextSection(&b, agg.Text, opts.IncludeConfidence)
		case vision.CategoryFaces:
			writeFaceSection(&b, agg.Faces)
		case vision.CategoryObjectsScenes:
			writeObjectSection(&b, agg.Objects, maxObjects, opts.IncludeConfidence)
		case vision.CategoryBarcodes:
			writeBarcodeSection(&b, agg.Barcodes)
		case vision.CategorySaliency:
			writeSaliencySection(&b, agg.Saliency)
		}
	}

	for _, c := range agg.Requested {
		if msg, ok := agg.Failures[c]; ok {
			fmt.Fprintf(&b, "\nWarning: %s analysis failed: %s\n", strings.ToLower(c.DisplayName()), msg)
		}
	}

	total := agg.TotalItems()
	fmt.Fprintf(&b, "\nTotal items: %d\n", total)

	return Envelope{Success: true, Report: b.String(), TotalItems: total}
}

func writeTextSection(b *strings.Builder, results []vision.TextResult, withConfidence bool) {
	for i, t := range results {
		fmt.Fprintf(b, "%d. %q (priority %d, ~%.0fpt", i+1, t.Text, t.Priority, t.EstimatedPointSize)
		if withConfidence {
			fmt.Fprintf(b, ", %.0f%% confidence", t.Confidence*100)
		}
		b.WriteString(")\n")
	}
}

func writeFaceSection(b *strings.Builder, faces []vision.FaceResult) {
	for i, f := range faces {
		fmt.Fprintf(b, "%d. face at %s", i+1, formatRect(f.Box))
		if f.CaptureQuality != nil {
			fmt.Fprintf(b, ", capture quality %.0f%%", *f.CaptureQuality*100)
		}
		if f.Landmarks != nil {
			b.WriteString(", landmarks detected")
		}
		b.WriteString("\n")
	}
}

func writeObjectSection(b *strings.Builder, objects []vision.ObjectResult, max int, withConfidence bool) {
	sorted := make([]vision.ObjectResult, len(objects))
	copy(sorted, objects)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})
	if len(sorted) > max {
		sorted = sorted[:max]
	}
	for i, o := range sorted {
		fmt.Fprintf(b, "%d. %s", i+1, o.Identifier)
		if withConfidence {
			fmt.Fprintf(b, " (%.0f%% confidence)", o.Confidence*100)
		}
		b.WriteString("\n")
	}
}

func writeBarcodeSection(b *strings.Builder, barcodes []vision.BarcodeResult) {
	for i, bc := range barcodes {
		fmt.Fprintf(b, "%d. %s: %q at %s\n", i+1, bc.Symbology, bc.Payload, formatRect(bc.Box))
	}
}

func writeSaliencySection(b *strings.Builder, s *vision.SaliencyResult) {
	if s == nil {
		return
	}
	for i, box := range s.Boxes {
		fmt.Fprintf(b, "%d. region at %s\n", i+1, formatRect(box))
	}
}

func formatRect(r vision.NormalizedRect) string {
	return fmt.Sprintf("[x=%.2f y=%.2f w=%.2f h=%.2f]", r.X, r.Y, r.W, r.H)
}
