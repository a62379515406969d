// Package preprocess turns caller-supplied image references into analyzable
// artifacts.
//
// A reference is a filesystem path or a file:// URI. Prepare validates that
// the reference decodes as an image and, when its longer edge exceeds the
// configured bound, resizes it into a derived temporary copy. The returned
// Artifact records whether it is the caller's original or a derived copy;
// Release deletes derived copies and never touches originals.
package preprocess
