//go:build !gocv

package extract

import (
	"context"
	"errors"

	"github.com/visiontools/vision-analyze-mcp/internal/preprocess"
	"github.com/visiontools/vision-analyze-mcp/internal/vision"
)

// FaceDetector is the no-OpenCV stand-in. Face requests fail as a recorded
// per-category error; the other categories still run.
type FaceDetector struct {
	CascadePath string
}

// NewFaceDetector creates the stub detector.
func NewFaceDetector(cascadePath string) *FaceDetector {
	return &FaceDetector{CascadePath: cascadePath}
}

// ExtractFaces reports that face detection needs the gocv build tag.
func (d *FaceDetector) ExtractFaces(ctx context.Context, a preprocess.Artifact, orient Orientation) ([]vision.FaceResult, error) {
	return nil, errors.New("face detection requires a build with the gocv tag")
}
