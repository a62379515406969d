package extract

import (
	"context"
	"errors"

	"github.com/visiontools/vision-analyze-mcp/internal/preprocess"
	"github.com/visiontools/vision-analyze-mcp/internal/vision"
)

// Orientation is an EXIF-style orientation hint (1 = upright) passed to every
// capability. The pipeline itself never rotates pixels; capabilities that are
// orientation-sensitive interpret the hint themselves.
type Orientation int

// OrientationUp is the default hint for images stored upright.
const OrientationUp Orientation = 1

// TextCapability recognizes text with word-level geometry and confidence.
type TextCapability interface {
	ExtractText(ctx context.Context, a preprocess.Artifact, orient Orientation) ([]vision.TextResult, error)
}

// FaceCapability detects faces with optional landmarks.
type FaceCapability interface {
	ExtractFaces(ctx context.Context, a preprocess.Artifact, orient Orientation) ([]vision.FaceResult, error)
}

// ObjectCapability produces object/scene classification labels.
type ObjectCapability interface {
	ExtractObjects(ctx context.Context, a preprocess.Artifact, orient Orientation) ([]vision.ObjectResult, error)
}

// BarcodeCapability decodes machine-readable codes.
type BarcodeCapability interface {
	ExtractBarcodes(ctx context.Context, a preprocess.Artifact, orient Orientation) ([]vision.BarcodeResult, error)
}

// SaliencyCapability finds visually salient regions in one pass.
type SaliencyCapability interface {
	ExtractSaliency(ctx context.Context, a preprocess.Artifact, orient Orientation) (*vision.SaliencyResult, error)
}

// Set bundles one capability per analysis category. Nil entries make the
// corresponding category fail with a recorded per-category error rather than
// aborting the whole analysis.
type Set struct {
	Text     TextCapability
	Faces    FaceCapability
	Objects  ObjectCapability
	Barcodes BarcodeCapability
	Saliency SaliencyCapability
}

// Config carries the knobs the default capabilities need.
type Config struct {
	// OCRLanguage is the Tesseract language code, e.g. "eng".
	OCRLanguage string

	// FaceCascadePath is the Haar cascade file for the gocv face detector.
	FaceCascadePath string
}

// DefaultSet wires the built-in capability implementations.
func DefaultSet(cfg Config) Set {
	if cfg.OCRLanguage == "" {
		cfg.OCRLanguage = "eng"
	}
	return Set{
		Text:     &TesseractText{Language: cfg.OCRLanguage},
		Faces:    NewFaceDetector(cfg.FaceCascadePath),
		Objects:  &ColorStatsClassifier{},
		Barcodes: &ZXingBarcodes{},
		Saliency: &SobelSaliency{},
	}
}

// fatalError marks a whole-image failure (e.g. corrupt pixel data) that must
// abort the entire analysis rather than be recorded as a per-category miss.
type fatalError struct {
	err error
}

func (e *fatalError) Error() string { return e.err.Error() }
func (e *fatalError) Unwrap() error { return e.err }

// Fatal wraps an error as a whole-image failure.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &fatalError{err: err}
}

// IsFatal reports whether an error was marked as a whole-image failure.
func IsFatal(err error) bool {
	var fe *fatalError
	return errors.As(err, &fe)
}
