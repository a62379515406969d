//go:build gocv

package extract

import (
	"context"
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/visiontools/vision-analyze-mcp/internal/preprocess"
	"github.com/visiontools/vision-analyze-mcp/internal/vision"
)

// FaceDetector finds faces with an OpenCV Haar cascade. Built only under the
// gocv tag; the default build uses the stub in face_stub.go.
type FaceDetector struct {
	CascadePath string
}

// NewFaceDetector creates a cascade-backed face detector.
func NewFaceDetector(cascadePath string) *FaceDetector {
	return &FaceDetector{CascadePath: cascadePath}
}

// ExtractFaces detects face bounding boxes. Landmarks are not produced by the
// cascade detector and stay nil.
func (d *FaceDetector) ExtractFaces(ctx context.Context, a preprocess.Artifact, orient Orientation) ([]vision.FaceResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d.CascadePath == "" {
		return nil, errors.New("face cascade path is not configured")
	}

	mat := gocv.IMRead(a.Path, gocv.IMReadColor)
	if mat.Empty() {
		return nil, Fatal(fmt.Errorf("cannot decode artifact %s", a.Path))
	}
	defer mat.Close()

	classifier := gocv.NewCascadeClassifier()
	defer classifier.Close()
	if !classifier.Load(d.CascadePath) {
		return nil, fmt.Errorf("cannot load face cascade %s", d.CascadePath)
	}

	size := image.Pt(a.Size.Width, a.Size.Height)
	rects := classifier.DetectMultiScale(mat)
	faces := make([]vision.FaceResult, 0, len(rects))
	for _, r := range rects {
		faces = append(faces, vision.FaceResult{
			Box: vision.RectFromPixels(r, size),
		})
	}
	return faces, nil
}
