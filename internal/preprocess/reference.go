package preprocess

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/visiontools/vision-analyze-mcp/internal/vision"
)

// ResolveReference turns a caller-supplied image reference into a local file
// path. Accepted forms are an absolute local path, a file:// URI, and a
// local-path-like string without a scheme. Remote URLs are rejected; the
// pipeline never fetches over the network.
func ResolveReference(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", vision.NewError(vision.ErrInvalidReference, "empty image reference")
	}

	if strings.Contains(ref, "://") {
		u, err := url.Parse(ref)
		if err != nil {
			return "", vision.WrapError(vision.ErrInvalidReference, err, "malformed image reference %q", ref)
		}
		if u.Scheme != "file" {
			return "", vision.NewError(vision.ErrInvalidReference, "unsupported scheme %q (only file:// and local paths are accepted)", u.Scheme)
		}
		if u.Path == "" {
			return "", vision.NewError(vision.ErrInvalidReference, "file URI %q has no path", ref)
		}
		return filepath.FromSlash(u.Path), nil
	}

	return ref, nil
}
