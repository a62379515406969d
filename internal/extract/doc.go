// Package extract defines the extraction-capability boundary and the default
// per-category implementations.
//
// A capability accepts an analyzable artifact plus an orientation hint and
// returns category-specific observations with confidence and bottom-left
// origin unit geometry. The orchestrator treats capabilities as black boxes:
// it selects, invokes and merges, never detects.
//
// Errors come in two severities. A plain error is scoped to its category and
// is recorded in the aggregate without aborting sibling categories. An error
// wrapped with Fatal signals a whole-image failure (corrupt pixel data) and
// aborts the entire analysis.
//
// Default implementations:
//   - text: Tesseract word-level OCR (gosseract)
//   - faces: OpenCV Haar cascade (gocv, behind the gocv build tag)
//   - objects/scenes: global color-statistics labeling
//   - barcodes: ZXing reader chain (gozxing)
//   - saliency: Sobel edge-energy grid clustering (bild)
package extract
