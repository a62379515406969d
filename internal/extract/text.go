package extract

import (
	"context"
	"fmt"
	"image"

	"github.com/otiai10/gosseract/v2"

	"github.com/visiontools/vision-analyze-mcp/internal/preprocess"
	"github.com/visiontools/vision-analyze-mcp/internal/vision"
)

// TesseractText recognizes text via Tesseract at word granularity. Each word
// carries its own confidence and bounding box; empty words are dropped.
type TesseractText struct {
	Language string
}

// ExtractText runs OCR against the artifact file. A fresh client is created
// per call; gosseract clients are not safe for concurrent reuse.
func (t *TesseractText) ExtractText(ctx context.Context, a preprocess.Artifact, orient Orientation) ([]vision.TextResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	lang := t.Language
	if lang == "" {
		lang = "eng"
	}
	if err := client.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}
	if err := client.SetImage(a.Path); err != nil {
		return nil, fmt.Errorf("failed to set OCR image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	size := image.Pt(a.Size.Width, a.Size.Height)
	results := make([]vision.TextResult, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		results = append(results, vision.TextResult{
			Text:       box.Word,
			Confidence: float64(box.Confidence) / 100.0,
			Box:        vision.RectFromPixels(box.Box, size),
		})
	}
	return results, nil
}
