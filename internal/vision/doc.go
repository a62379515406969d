// Package vision defines the shared data model for the image analysis
// pipeline: analysis categories, normalized geometry, per-category result
// types, the consolidated result aggregate, and the error taxonomy.
//
// # Coordinate System
//
// All bounding boxes and points use unit coordinates in [0,1] on both axes
// with the origin at the BOTTOM-LEFT corner of the image. This is the
// convention produced by every extraction capability and passed through to
// visualization consumers unchanged. Pixel-space geometry (top-left origin,
// as used by the standard image package) is converted at the capability
// boundary via RectFromPixels.
//
// # Categories
//
// The canonical categories are text, faces, objects-and-scenes, barcodes and
// saliency. "objects" and "scenes" are two historical request tokens for the
// same category; ParseCategories canonicalizes them so the orchestrator never
// dispatches the underlying capability twice for one call.
package vision
