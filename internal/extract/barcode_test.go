package extract

import (
	"context"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"

	"github.com/visiontools/vision-analyze-mcp/internal/preprocess"
	"github.com/visiontools/vision-analyze-mcp/internal/vision"
)

func qrArtifact(t *testing.T, payload string, size int) preprocess.Artifact {
	t.Helper()
	matrix, err := qrcode.NewQRCodeWriter().Encode(payload, gozxing.BarcodeFormat_QR_CODE, size, size, nil)
	if err != nil {
		t.Fatalf("QR encode failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "qr.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, matrix); err != nil {
		t.Fatal(err)
	}
	return preprocess.Artifact{
		Kind:   preprocess.ArtifactOriginal,
		Path:   path,
		Size:   vision.ImageSize{Width: size, Height: size},
		Format: "png",
	}
}

func TestBarcodeQRRoundTrip(t *testing.T) {
	const payload = "https://example.com/menu"
	a := qrArtifact(t, payload, 256)

	z := &ZXingBarcodes{}
	results, err := z.ExtractBarcodes(context.Background(), a, OrientationUp)
	if err != nil {
		t.Fatalf("ExtractBarcodes failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1: %+v", len(results), results)
	}

	r := results[0]
	if r.Payload != payload {
		t.Errorf("payload = %q, want %q", r.Payload, payload)
	}
	if r.Symbology != "QR_CODE" {
		t.Errorf("symbology = %q", r.Symbology)
	}
	if r.Box.W <= 0 || r.Box.H < 0 {
		t.Errorf("box = %+v", r.Box)
	}
	if r.Box.X < 0 || r.Box.Y < 0 || r.Box.X+r.Box.W > 1 || r.Box.Y+r.Box.H > 1 {
		t.Errorf("box outside unit space: %+v", r.Box)
	}
}

func TestBarcodeNoneFound(t *testing.T) {
	a := writeArtifact(t, solidImage(64, 64, color.RGBA{255, 255, 255, 255}))

	z := &ZXingBarcodes{}
	results, err := z.ExtractBarcodes(context.Background(), a, OrientationUp)
	if err != nil {
		t.Fatalf("absence of codes must not be an error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("blank image decoded %d codes", len(results))
	}
}

func TestBarcodeUnreadableArtifactIsFatal(t *testing.T) {
	a := preprocess.Artifact{Kind: preprocess.ArtifactOriginal, Path: "/nonexistent.png"}

	z := &ZXingBarcodes{}
	_, err := z.ExtractBarcodes(context.Background(), a, OrientationUp)
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsFatal(err) {
		t.Errorf("undecodable pixel data must be fatal, got %v", err)
	}
}
