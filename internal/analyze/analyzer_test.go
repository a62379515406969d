package analyze

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/visiontools/vision-analyze-mcp/internal/extract"
	"github.com/visiontools/vision-analyze-mcp/internal/preprocess"
	"github.com/visiontools/vision-analyze-mcp/internal/vision"
)

// fakeCapabilities implements every capability interface with canned results
// and invocation counters.
type fakeCapabilities struct {
	textCalls    atomic.Int64
	faceCalls    atomic.Int64
	objectCalls  atomic.Int64
	barcodeCalls atomic.Int64
	salientCalls atomic.Int64

	textErr   error
	objectErr error
}

func (f *fakeCapabilities) ExtractText(ctx context.Context, a preprocess.Artifact, o extract.Orientation) ([]vision.TextResult, error) {
	f.textCalls.Add(1)
	if f.textErr != nil {
		return nil, f.textErr
	}
	return []vision.TextResult{
		{Text: "BIG", Confidence: 0.95, Box: vision.NormalizedRect{H: 0.2}},
		{Text: "small", Confidence: 0.9, Box: vision.NormalizedRect{H: 0.05}},
	}, nil
}

func (f *fakeCapabilities) ExtractFaces(ctx context.Context, a preprocess.Artifact, o extract.Orientation) ([]vision.FaceResult, error) {
	f.faceCalls.Add(1)
	q := 0.8
	return []vision.FaceResult{{
		Box:            vision.NormalizedRect{X: 0.1, Y: 0.1, W: 0.2, H: 0.2},
		CaptureQuality: &q,
		Landmarks: &vision.FaceLandmarks{
			LeftEye: &vision.NormalizedPoint{X: 0.3, Y: 0.6},
		},
	}}, nil
}

func (f *fakeCapabilities) ExtractObjects(ctx context.Context, a preprocess.Artifact, o extract.Orientation) ([]vision.ObjectResult, error) {
	f.objectCalls.Add(1)
	if f.objectErr != nil {
		return nil, f.objectErr
	}
	return []vision.ObjectResult{{Identifier: "outdoor", Confidence: 0.7}}, nil
}

func (f *fakeCapabilities) ExtractBarcodes(ctx context.Context, a preprocess.Artifact, o extract.Orientation) ([]vision.BarcodeResult, error) {
	f.barcodeCalls.Add(1)
	return []vision.BarcodeResult{}, nil
}

func (f *fakeCapabilities) ExtractSaliency(ctx context.Context, a preprocess.Artifact, o extract.Orientation) (*vision.SaliencyResult, error) {
	f.salientCalls.Add(1)
	return &vision.SaliencyResult{Boxes: []vision.NormalizedRect{{W: 0.5, H: 0.5}}}, nil
}

func (f *fakeCapabilities) set() extract.Set {
	return extract.Set{Text: f, Faces: f, Objects: f, Barcodes: f, Saliency: f}
}

func writeTestImage(t *testing.T, dir string, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{200, 200, 200, 255})
		}
	}
	path := filepath.Join(dir, "input.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestAnalyzer(t *testing.T, fakes *fakeCapabilities, maxDim int) (*Analyzer, string) {
	t.Helper()
	tempDir := t.TempDir()
	pre := preprocess.New(maxDim, tempDir, nil)
	return New(pre, fakes.set(), nil), tempDir
}

func TestAnalyze_EmptyCategories(t *testing.T) {
	fakes := &fakeCapabilities{}
	a, _ := newTestAnalyzer(t, fakes, 4096)
	path := writeTestImage(t, t.TempDir(), 50, 50)

	_, err := a.AnalyzeReference(context.Background(), path, nil)
	if err == nil {
		t.Fatal("expected error for empty category list")
	}
	var verr *vision.Error
	if !errors.As(err, &verr) || verr.Kind != vision.ErrNoCategoriesRequested {
		t.Errorf("err = %v, want no-categories-requested", err)
	}
	if fakes.textCalls.Load() != 0 || fakes.faceCalls.Load() != 0 {
		t.Error("no extractor may run for an empty request")
	}
}

func TestAnalyze_ObjectsScenesSingleInvocation(t *testing.T) {
	fakes := &fakeCapabilities{}
	a, _ := newTestAnalyzer(t, fakes, 4096)
	path := writeTestImage(t, t.TempDir(), 50, 50)

	cats := vision.ParseCategories([]string{"objects", "scenes"})
	agg, err := a.AnalyzeReference(context.Background(), path, cats)
	if err != nil {
		t.Fatalf("AnalyzeReference failed: %v", err)
	}

	if got := fakes.objectCalls.Load(); got != 1 {
		t.Errorf("object capability invoked %d times, want exactly 1", got)
	}
	if len(agg.Objects) != 1 {
		t.Errorf("objects = %v", agg.Objects)
	}
}

func TestAnalyze_AllCategories(t *testing.T) {
	fakes := &fakeCapabilities{}
	a, _ := newTestAnalyzer(t, fakes, 4096)
	path := writeTestImage(t, t.TempDir(), 50, 50)

	agg, err := a.AnalyzeReference(context.Background(), path, vision.AllCategories())
	if err != nil {
		t.Fatalf("AnalyzeReference failed: %v", err)
	}

	if len(agg.Text) != 2 || len(agg.Faces) != 1 || len(agg.Objects) != 1 {
		t.Errorf("unexpected aggregate: %+v", agg)
	}
	if agg.Saliency == nil || len(agg.Saliency.Boxes) != 1 {
		t.Errorf("saliency = %+v", agg.Saliency)
	}
	if agg.TotalItems() != 5 {
		t.Errorf("TotalItems = %d, want 5", agg.TotalItems())
	}

	// Text comes back ranked: the taller box holds priority 1.
	if agg.Text[0].Text != "BIG" || agg.Text[0].Priority != 1 {
		t.Errorf("ranked text = %+v", agg.Text)
	}
	if agg.Text[1].Priority != 2 {
		t.Errorf("second priority = %d", agg.Text[1].Priority)
	}
}

func TestAnalyze_PartialFailureRecorded(t *testing.T) {
	fakes := &fakeCapabilities{textErr: errors.New("ocr engine unavailable")}
	a, _ := newTestAnalyzer(t, fakes, 4096)
	path := writeTestImage(t, t.TempDir(), 50, 50)

	cats := []vision.Category{vision.CategoryText, vision.CategoryFaces}
	agg, err := a.AnalyzeReference(context.Background(), path, cats)
	if err != nil {
		t.Fatalf("category-scoped failure must not abort the call: %v", err)
	}

	if len(agg.Faces) != 1 {
		t.Error("sibling category should still produce results")
	}
	if msg, ok := agg.Failures[vision.CategoryText]; !ok || msg == "" {
		t.Errorf("text failure not recorded: %+v", agg.Failures)
	}
}

func TestAnalyze_FatalFailureAborts(t *testing.T) {
	fakes := &fakeCapabilities{objectErr: extract.Fatal(errors.New("corrupt pixel data"))}
	a, _ := newTestAnalyzer(t, fakes, 4096)
	path := writeTestImage(t, t.TempDir(), 50, 50)

	cats := []vision.Category{vision.CategoryObjectsScenes, vision.CategoryFaces}
	_, err := a.AnalyzeReference(context.Background(), path, cats)
	if err == nil {
		t.Fatal("fatal whole-image failure must abort the call")
	}
	var verr *vision.Error
	if !errors.As(err, &verr) || verr.Kind != vision.ErrExtractionFailure {
		t.Errorf("err = %v, want extraction-failure", err)
	}
}

func TestAnalyzeReference_DerivedCleanupOnSuccessAndFailure(t *testing.T) {
	imgDir := t.TempDir()
	path := writeTestImage(t, imgDir, 200, 100)

	fakes := &fakeCapabilities{}
	a, tempDir := newTestAnalyzer(t, fakes, 64)

	if _, err := a.AnalyzeReference(context.Background(), path, []vision.Category{vision.CategoryFaces}); err != nil {
		t.Fatalf("AnalyzeReference failed: %v", err)
	}
	assertNoLeftoverFiles(t, tempDir)

	// Fatal failure path still cleans up the derived artifact.
	fakes.objectErr = extract.Fatal(errors.New("corrupt"))
	if _, err := a.AnalyzeReference(context.Background(), path, []vision.Category{vision.CategoryObjectsScenes}); err == nil {
		t.Fatal("expected failure")
	}
	assertNoLeftoverFiles(t, tempDir)

	if _, err := os.Stat(path); err != nil {
		t.Error("original reference must survive analysis")
	}
}

func TestAnalyzeReference_RepeatAnalysisStable(t *testing.T) {
	path := writeTestImage(t, t.TempDir(), 200, 100)
	fakes := &fakeCapabilities{}
	a, _ := newTestAnalyzer(t, fakes, 64)
	cats := []vision.Category{vision.CategoryText, vision.CategorySaliency}

	first, err := a.AnalyzeReference(context.Background(), path, cats)
	if err != nil {
		t.Fatalf("first analysis failed: %v", err)
	}

	// A failed run in between must not disturb the source image.
	fakes.textErr = extract.Fatal(errors.New("transient corruption"))
	if _, err := a.AnalyzeReference(context.Background(), path, cats); err == nil {
		t.Fatal("expected failure")
	}
	fakes.textErr = nil

	second, err := a.AnalyzeReference(context.Background(), path, cats)
	if err != nil {
		t.Fatalf("repeat analysis failed: %v", err)
	}
	if second.TotalItems() != first.TotalItems() {
		t.Errorf("repeat analysis diverged: %d vs %d items", second.TotalItems(), first.TotalItems())
	}
}

func TestAnalyzeReference_CanceledContextStillCleansUp(t *testing.T) {
	path := writeTestImage(t, t.TempDir(), 200, 100)
	fakes := &fakeCapabilities{}
	a, tempDir := newTestAnalyzer(t, fakes, 64)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _ = a.AnalyzeReference(ctx, path, []vision.Category{vision.CategoryText})

	assertNoLeftoverFiles(t, tempDir)
}

func assertNoLeftoverFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("derived artifacts leaked: %v", names)
	}
}
