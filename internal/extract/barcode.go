package extract

import (
	"context"
	"image"
	"math"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"

	"github.com/visiontools/vision-analyze-mcp/internal/preprocess"
	"github.com/visiontools/vision-analyze-mcp/internal/vision"
)

// ZXingBarcodes decodes machine-readable codes with the pure-Go ZXing port.
// A fixed reader chain covers QR plus the common 1D symbologies; each reader
// that finds a code contributes one result.
type ZXingBarcodes struct{}

// ExtractBarcodes scans the artifact for codes. Finding none is a successful
// empty result, not an error.
func (z *ZXingBarcodes) ExtractBarcodes(ctx context.Context, a preprocess.Artifact, orient Orientation) ([]vision.BarcodeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := preprocess.Decode(a)
	if err != nil {
		return nil, Fatal(err)
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, Fatal(err)
	}

	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	readers := []gozxing.Reader{
		qrcode.NewQRCodeReader(),
		oned.NewMultiFormatUPCEANReader(hints),
		oned.NewCode128Reader(),
		oned.NewCode39Reader(),
		oned.NewITFReader(),
	}

	size := image.Pt(a.Size.Width, a.Size.Height)
	results := make([]vision.BarcodeResult, 0, 1)
	for _, reader := range readers {
		res, err := reader.Decode(bmp, hints)
		if err != nil {
			// NotFoundException and friends: this symbology is absent.
			continue
		}
		results = append(results, vision.BarcodeResult{
			Payload:   res.GetText(),
			Symbology: res.GetBarcodeFormat().String(),
			Box:       pointsToRect(res.GetResultPoints(), size),
		})
	}
	return results, nil
}

// pointsToRect builds a normalized box around the decoder's finder points.
// 1D symbologies yield a zero-height span; the box degenerates accordingly.
func pointsToRect(points []gozxing.ResultPoint, size image.Point) vision.NormalizedRect {
	if len(points) == 0 {
		return vision.NormalizedRect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX = math.Min(minX, p.GetX())
		maxX = math.Max(maxX, p.GetX())
		minY = math.Min(minY, p.GetY())
		maxY = math.Max(maxY, p.GetY())
	}
	px := image.Rect(int(minX), int(minY), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
	return vision.RectFromPixels(px, size)
}
