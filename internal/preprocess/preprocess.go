package preprocess

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	"image/png"
	"io/fs"
	"os"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/visiontools/vision-analyze-mcp/internal/vision"
)

// DefaultMaxDimension bounds the longer edge of an analyzable artifact.
// Images within the bound are analyzed in place; larger ones are resized
// into a derived temporary copy first.
const DefaultMaxDimension = 4096

// ArtifactKind distinguishes caller-owned originals from pipeline-owned
// derived copies. The kind is the sole signal Release uses to decide whether
// a file may be deleted.
type ArtifactKind int

const (
	// ArtifactOriginal is the caller's own reference, analyzed in place.
	// Release never touches it.
	ArtifactOriginal ArtifactKind = iota

	// ArtifactDerived is a resized temporary copy owned by the pipeline.
	// Release deletes it.
	ArtifactDerived
)

// Artifact is an image reference that is safe to hand to extraction
// capabilities: its pixel data decodes and its longer edge is within the
// configured bound.
type Artifact struct {
	Kind   ArtifactKind
	Path   string
	Size   vision.ImageSize
	Format string
}

// Derived reports whether the artifact is a pipeline-owned temporary copy.
func (a Artifact) Derived() bool { return a.Kind == ArtifactDerived }

// Preprocessor normalizes image references into analyzable artifacts and
// owns the derived-artifact lifecycle.
type Preprocessor struct {
	maxDimension int
	tempDir      string
	log          *logrus.Logger
}

// New creates a Preprocessor. maxDimension <= 0 selects DefaultMaxDimension;
// an empty tempDir selects the system temp directory.
func New(maxDimension int, tempDir string, log *logrus.Logger) *Preprocessor {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Preprocessor{maxDimension: maxDimension, tempDir: tempDir, log: log}
}

// Prepare resolves a reference and returns an artifact ready for extraction.
//
// If both pixel dimensions are within the configured maximum the original
// reference is returned unmodified as an ArtifactOriginal and no file is
// created. If either dimension exceeds the maximum, the image is uniformly
// scaled so the longer edge equals the maximum and written to a fresh,
// uniquely-named temporary file returned as an ArtifactDerived.
func (p *Preprocessor) Prepare(ref string) (Artifact, error) {
	path, err := ResolveReference(ref)
	if err != nil {
		return Artifact{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return Artifact{}, vision.WrapError(vision.ErrInvalidReference, err, "cannot open image reference %q", ref)
	}

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		f.Close()
		return Artifact{}, vision.WrapError(vision.ErrUnreadableData, err, "cannot decode image header of %q", ref)
	}

	if cfg.Width <= p.maxDimension && cfg.Height <= p.maxDimension {
		f.Close()
		return Artifact{
			Kind:   ArtifactOriginal,
			Path:   path,
			Size:   vision.ImageSize{Width: cfg.Width, Height: cfg.Height},
			Format: format,
		}, nil
	}

	if _, err := f.Seek(0, 0); err != nil {
		f.Close()
		return Artifact{}, vision.WrapError(vision.ErrUnreadableData, err, "cannot rewind %q", ref)
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return Artifact{}, vision.WrapError(vision.ErrUnreadableData, err, "cannot decode pixel data of %q", ref)
	}

	// Fit scales uniformly so the longer edge lands exactly on the bound.
	resized := imaging.Fit(img, p.maxDimension, p.maxDimension, imaging.Lanczos)

	artifact, err := p.writeDerived(resized, format)
	if err != nil {
		return Artifact{}, err
	}

	p.log.WithFields(logrus.Fields{
		"source":  path,
		"derived": artifact.Path,
		"width":   artifact.Size.Width,
		"height":  artifact.Size.Height,
	}).Debug("created derived artifact")

	return artifact, nil
}

// writeDerived encodes a resized copy to a uniquely-named temp file. WebP
// sources stay WebP; everything else is written as PNG. No partial file is
// left behind on a write failure.
func (p *Preprocessor) writeDerived(img image.Image, format string) (Artifact, error) {
	ext := ".png"
	if format == "webp" {
		ext = ".webp"
	}

	tmp, err := os.CreateTemp(p.tempDir, "vision-derived-*"+ext)
	if err != nil {
		return Artifact{}, vision.WrapError(vision.ErrExtractionFailure, err, "cannot create derived artifact")
	}
	tmpPath := tmp.Name()

	if format == "webp" {
		err = webp.Encode(tmp, img, &webp.Options{Quality: 90})
	} else {
		err = png.Encode(tmp, img)
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpPath)
		return Artifact{}, vision.WrapError(vision.ErrExtractionFailure, err, "cannot write derived artifact")
	}

	bounds := img.Bounds()
	return Artifact{
		Kind:   ArtifactDerived,
		Path:   tmpPath,
		Size:   vision.ImageSize{Width: bounds.Dx(), Height: bounds.Dy()},
		Format: format,
	}, nil
}

// Release deletes a derived artifact. It is a no-op for originals, safe to
// call repeatedly, and treats an already-removed file as success.
func (p *Preprocessor) Release(a Artifact) error {
	if !a.Derived() {
		return nil
	}
	if err := os.Remove(a.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to release derived artifact %s: %w", a.Path, err)
	}
	return nil
}

// Decode loads the full pixel data of an artifact. Capabilities that operate
// on decoded pixels share this instead of re-implementing file handling.
func Decode(a Artifact) (image.Image, error) {
	f, err := os.Open(a.Path)
	if err != nil {
		return nil, vision.WrapError(vision.ErrInvalidReference, err, "cannot open artifact %s", a.Path)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, vision.WrapError(vision.ErrUnreadableData, err, "cannot decode artifact %s", a.Path)
	}
	return img, nil
}

// Info is file-level metadata for a resolvable image reference.
type Info struct {
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Format        string `json:"format"`
	FileSizeBytes int64  `json:"file_size_bytes"`
}

// Inspect resolves a reference and reads its header without decoding pixels.
func Inspect(ref string) (*Info, error) {
	path, err := ResolveReference(ref)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, vision.WrapError(vision.ErrInvalidReference, err, "cannot open image reference %q", ref)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, vision.WrapError(vision.ErrUnreadableData, err, "cannot decode image header of %q", ref)
	}

	stat, err := f.Stat()
	if err != nil {
		return nil, vision.WrapError(vision.ErrInvalidReference, err, "cannot stat %q", ref)
	}

	return &Info{
		Width:         cfg.Width,
		Height:        cfg.Height,
		Format:        format,
		FileSizeBytes: stat.Size(),
	}, nil
}
