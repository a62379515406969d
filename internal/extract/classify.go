package extract

import (
	"context"
	"image"
	"math"
	"sort"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/visiontools/vision-analyze-mcp/internal/preprocess"
	"github.com/visiontools/vision-analyze-mcp/internal/vision"
)

// classifySample bounds the longer edge of the image statistics pass.
// Classification only needs global color structure, not full resolution.
const classifySample = 192

// hueNames maps 45-degree hue sectors to color family labels.
var hueNames = [8]string{
	"red", "orange and yellow", "green", "teal",
	"cyan and blue", "blue", "purple", "magenta",
}

// ColorStatsClassifier labels objects/scenes from global color statistics:
// luminance, saturation, contrast and the dominant hue family. It is a
// deterministic, local heuristic; labels describe the scene character rather
// than named object instances.
type ColorStatsClassifier struct{}

// ExtractObjects computes scene labels with confidences in [0,1].
func (c *ColorStatsClassifier) ExtractObjects(ctx context.Context, a preprocess.Artifact, orient Orientation) ([]vision.ObjectResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := preprocess.Decode(a)
	if err != nil {
		// Pixel data that cannot be decoded breaks every category.
		return nil, Fatal(err)
	}
	small := imaging.Fit(img, classifySample, classifySample, imaging.Box)

	stats := sampleStats(small)
	labels := make([]vision.ObjectResult, 0, 6)

	switch {
	case stats.meanLum >= 0.78:
		labels = append(labels, vision.ObjectResult{
			Identifier: "bright scene",
			Confidence: clamp01(0.5 + (stats.meanLum-0.78)*2),
		})
	case stats.meanLum <= 0.25:
		labels = append(labels, vision.ObjectResult{
			Identifier: "dark scene",
			Confidence: clamp01(0.5 + (0.25-stats.meanLum)*2),
		})
	}

	switch {
	case stats.meanSat <= 0.08:
		labels = append(labels, vision.ObjectResult{
			Identifier: "monochrome",
			Confidence: clamp01(1 - stats.meanSat*8),
		})
	case stats.meanSat >= 0.45:
		labels = append(labels, vision.ObjectResult{
			Identifier: "vibrant colors",
			Confidence: clamp01(0.5 + (stats.meanSat-0.45)),
		})
	}

	if stats.meanSat > 0.08 && stats.domHueWeight > 0.35 {
		labels = append(labels, vision.ObjectResult{
			Identifier: "predominantly " + hueNames[stats.domHue],
			Confidence: clamp01(stats.domHueWeight),
		})
	}

	switch {
	case stats.lumStddev >= 0.30:
		labels = append(labels, vision.ObjectResult{
			Identifier: "high contrast",
			Confidence: clamp01(0.5 + (stats.lumStddev-0.30)*2),
		})
	case stats.lumStddev <= 0.06:
		labels = append(labels, vision.ObjectResult{
			Identifier: "flat lighting",
			Confidence: clamp01(1 - stats.lumStddev*10),
		})
	}

	// Light, desaturated, high-contrast images read as scanned pages.
	if stats.meanLum >= 0.7 && stats.meanSat <= 0.15 && stats.lumStddev >= 0.2 {
		labels = append(labels, vision.ObjectResult{
			Identifier: "document page",
			Confidence: clamp01(0.4 + stats.lumStddev),
		})
	}

	sort.SliceStable(labels, func(i, j int) bool {
		return labels[i].Confidence > labels[j].Confidence
	})
	return labels, nil
}

type colorStats struct {
	meanLum      float64
	lumStddev    float64
	meanSat      float64
	domHue       int
	domHueWeight float64
}

func sampleStats(img image.Image) colorStats {
	bounds := img.Bounds()
	var (
		n         float64
		sumLum    float64
		sumLumSq  float64
		sumSat    float64
		hueWeight [8]float64
		satTotal  float64
	)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			cf, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				continue
			}
			h, s, v := cf.Hsv()
			lum := v
			n++
			sumLum += lum
			sumLumSq += lum * lum
			sumSat += s
			if s > 0.05 {
				sector := int(h/45.0) % 8
				if sector < 0 {
					sector += 8
				}
				hueWeight[sector] += s
				satTotal += s
			}
		}
	}

	if n == 0 {
		return colorStats{}
	}

	st := colorStats{
		meanLum: sumLum / n,
		meanSat: sumSat / n,
	}
	variance := sumLumSq/n - st.meanLum*st.meanLum
	if variance > 0 {
		st.lumStddev = math.Sqrt(variance)
	}
	for i, w := range hueWeight {
		if w > hueWeight[st.domHue] {
			st.domHue = i
		}
	}
	if satTotal > 0 {
		st.domHueWeight = hueWeight[st.domHue] / satTotal
	}
	return st
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
