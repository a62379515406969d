// Package analyze coordinates the analysis pipeline: preprocessing, per
// category capability fan-out, failure consolidation and text ranking.
package analyze

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/visiontools/vision-analyze-mcp/internal/extract"
	"github.com/visiontools/vision-analyze-mcp/internal/preprocess"
	"github.com/visiontools/vision-analyze-mcp/internal/rank"
	"github.com/visiontools/vision-analyze-mcp/internal/vision"
)

// Analyzer runs requested analysis categories against one image and merges
// the outcomes into a single aggregate. Each Analyze call is independent; no
// state is carried between calls.
type Analyzer struct {
	pre  *preprocess.Preprocessor
	caps extract.Set
	log  *logrus.Logger
}

// New creates an Analyzer over a preprocessor and a capability set.
func New(pre *preprocess.Preprocessor, caps extract.Set, log *logrus.Logger) *Analyzer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Analyzer{pre: pre, caps: caps, log: log}
}

// AnalyzeReference is the full caller-facing pipeline: prepare the reference,
// analyze the artifact, and release any derived copy. Release runs on every
// path, including analysis failure and caller cancellation, so an abandoned
// call never leaks its temporary file.
func (a *Analyzer) AnalyzeReference(ctx context.Context, ref string, categories []vision.Category) (*vision.Aggregate, error) {
	if len(categories) == 0 {
		return nil, vision.NewError(vision.ErrNoCategoriesRequested, "no valid analysis categories requested")
	}

	artifact, err := a.pre.Prepare(ref)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rerr := a.pre.Release(artifact); rerr != nil {
			a.log.WithError(rerr).Warn("failed to release derived artifact")
		}
	}()

	return a.Analyze(ctx, artifact, categories)
}

// Analyze dispatches one extraction per requested category and merges the
// results. Categories run concurrently; each task writes only its own slot of
// the aggregate, so no slot is shared between goroutines. The aggregate is
// complete only after every category has returned.
//
// A category-scoped extraction error is recorded in Aggregate.Failures and
// does not abort the other categories. A whole-image failure (extract.Fatal)
// aborts the call with an extraction-failure error.
func (a *Analyzer) Analyze(ctx context.Context, artifact preprocess.Artifact, categories []vision.Category) (*vision.Aggregate, error) {
	cats := dedupe(categories)
	if len(cats) == 0 {
		return nil, vision.NewError(vision.ErrNoCategoriesRequested, "no valid analysis categories requested")
	}

	agg := &vision.Aggregate{
		Size:      artifact.Size,
		Requested: cats,
	}
	partial := make([]error, len(cats))

	g, gctx := errgroup.WithContext(ctx)
	for i, cat := range cats {
		i, cat := i, cat
		g.Go(func() error {
			err := a.runCategory(gctx, artifact, cat, agg)
			if err == nil {
				return nil
			}
			if extract.IsFatal(err) {
				return vision.ExtractionError(cat, err)
			}
			partial[i] = err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var verr *vision.Error
		if errors.As(err, &verr) {
			return nil, verr
		}
		return nil, vision.ExtractionError("", err)
	}

	for i, cat := range cats {
		if partial[i] == nil {
			continue
		}
		a.log.WithField("category", cat).WithError(partial[i]).Debug("category extraction failed")
		if agg.Failures == nil {
			agg.Failures = make(map[vision.Category]string)
		}
		agg.Failures[cat] = partial[i].Error()
	}

	agg.Text = rank.Rank(agg.Text, artifact.Size)
	return agg, nil
}

// runCategory invokes the capability for one category and fills its slot.
func (a *Analyzer) runCategory(ctx context.Context, artifact preprocess.Artifact, cat vision.Category, agg *vision.Aggregate) error {
	orient := extract.OrientationUp

	switch cat {
	case vision.CategoryText:
		if a.caps.Text == nil {
			return fmt.Errorf("no text capability configured")
		}
		results, err := a.caps.Text.ExtractText(ctx, artifact, orient)
		if err != nil {
			return err
		}
		agg.Text = results
	case vision.CategoryFaces:
		if a.caps.Faces == nil {
			return fmt.Errorf("no face capability configured")
		}
		results, err := a.caps.Faces.ExtractFaces(ctx, artifact, orient)
		if err != nil {
			return err
		}
		agg.Faces = results
	case vision.CategoryObjectsScenes:
		if a.caps.Objects == nil {
			return fmt.Errorf("no object capability configured")
		}
		results, err := a.caps.Objects.ExtractObjects(ctx, artifact, orient)
		if err != nil {
			return err
		}
		agg.Objects = results
	case vision.CategoryBarcodes:
		if a.caps.Barcodes == nil {
			return fmt.Errorf("no barcode capability configured")
		}
		results, err := a.caps.Barcodes.ExtractBarcodes(ctx, artifact, orient)
		if err != nil {
			return err
		}
		agg.Barcodes = results
	case vision.CategorySaliency:
		if a.caps.Saliency == nil {
			return fmt.Errorf("no saliency capability configured")
		}
		result, err := a.caps.Saliency.ExtractSaliency(ctx, artifact, orient)
		if err != nil {
			return err
		}
		agg.Saliency = result
	default:
		return fmt.Errorf("unknown category %q", cat)
	}
	return nil
}

// dedupe preserves first-seen order while dropping repeated categories.
func dedupe(categories []vision.Category) []vision.Category {
	seen := make(map[vision.Category]bool, len(categories))
	out := make([]vision.Category, 0, len(categories))
	for _, c := range categories {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
