package vision

import "image"

// NormalizedRect is a bounding box in unit coordinates. Both axes span [0,1]
// with the origin at the bottom-left corner of the image, regardless of the
// source image orientation. Consumers that render with a top-left origin are
// responsible for flipping Y themselves; the pipeline never pre-flips.
type NormalizedRect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// NormalizedPoint is a point in unit coordinates, bottom-left origin.
type NormalizedPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RectFromPixels converts a pixel-space rectangle (top-left origin, as used by
// image.Rectangle) into a NormalizedRect for an image of the given size.
func RectFromPixels(r image.Rectangle, size image.Point) NormalizedRect {
	if size.X <= 0 || size.Y <= 0 {
		return NormalizedRect{}
	}
	w := float64(size.X)
	h := float64(size.Y)
	return NormalizedRect{
		X: float64(r.Min.X) / w,
		// Pixel Y grows downward; unit Y grows upward from the bottom edge.
		Y: (h - float64(r.Max.Y)) / h,
		W: float64(r.Dx()) / w,
		H: float64(r.Dy()) / h,
	}
}

// TextResult is one recognized text string. Priority and EstimatedPointSize
// are zero until the ranker has run; Priority 1 marks the most visually
// prominent text and ties share a value.
type TextResult struct {
	Text               string         `json:"text"`
	Confidence         float64        `json:"confidence"`
	Box                NormalizedRect `json:"box"`
	Priority           int            `json:"priority,omitempty"`
	EstimatedPointSize float64        `json:"estimated_point_size,omitempty"`
}

// FaceLandmarks locates facial features in face-box-relative unit
// coordinates. Every point is optional; absent landmarks are nil.
type FaceLandmarks struct {
	LeftEye  *NormalizedPoint `json:"left_eye,omitempty"`
	RightEye *NormalizedPoint `json:"right_eye,omitempty"`
	Nose     *NormalizedPoint `json:"nose,omitempty"`
	Mouth    *NormalizedPoint `json:"mouth,omitempty"`
}

// FaceResult is one detected face.
type FaceResult struct {
	Box            NormalizedRect `json:"box"`
	Landmarks      *FaceLandmarks `json:"landmarks,omitempty"`
	CaptureQuality *float64       `json:"capture_quality,omitempty"`
}

// ObjectResult is one object or scene classification label.
type ObjectResult struct {
	Identifier string  `json:"identifier"`
	Confidence float64 `json:"confidence"`
}

// BarcodeResult is one decoded machine-readable code.
type BarcodeResult struct {
	Payload   string         `json:"payload"`
	Symbology string         `json:"symbology"`
	Box       NormalizedRect `json:"box"`
}

// SaliencyResult is the outcome of a single saliency pass: zero or more
// visually salient regions.
type SaliencyResult struct {
	Boxes []NormalizedRect `json:"boxes"`
}

// ImageSize is the pixel dimensions of the analyzed artifact.
type ImageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Aggregate holds the consolidated results of one analysis call, one slot per
// category. It is immutable once returned by the orchestrator; display
// consumers may retain a copy but the pipeline never mutates it afterwards.
//
// Failures records per-category extraction errors that did not abort the
// call. A category appears either in its result slot or in Failures, never a
// partial mix.
type Aggregate struct {
	Size     ImageSize       `json:"image_size"`
	Text     []TextResult    `json:"text,omitempty"`
	Faces    []FaceResult    `json:"faces,omitempty"`
	Objects  []ObjectResult  `json:"objects,omitempty"`
	Barcodes []BarcodeResult `json:"barcodes,omitempty"`
	Saliency *SaliencyResult `json:"saliency,omitempty"`

	Requested []Category          `json:"requested"`
	Failures  map[Category]string `json:"failures,omitempty"`
}

// Count returns the number of result items recorded for one category.
func (a *Aggregate) Count(c Category) int {
	switch c {
	case CategoryText:
		return len(a.Text)
	case CategoryFaces:
		return len(a.Faces)
	case CategoryObjectsScenes:
		return len(a.Objects)
	case CategoryBarcodes:
		return len(a.Barcodes)
	case CategorySaliency:
		if a.Saliency == nil {
			return 0
		}
		return len(a.Saliency.Boxes)
	default:
		return 0
	}
}

// TotalItems sums result items across every requested category.
func (a *Aggregate) TotalItems() int {
	total := 0
	for _, c := range a.Requested {
		total += a.Count(c)
	}
	return total
}

// HasResults reports whether any requested category produced at least one item.
func (a *Aggregate) HasResults() bool {
	return a.TotalItems() > 0
}
