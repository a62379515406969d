package extract

import (
	"context"
	"image"
	"math"
	"sort"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"

	"github.com/visiontools/vision-analyze-mcp/internal/preprocess"
	"github.com/visiontools/vision-analyze-mcp/internal/vision"
)

const (
	// saliencyGrid is the number of cells per axis in the energy grid.
	saliencyGrid = 16

	// maxSalientRegions caps the number of regions a single pass yields.
	maxSalientRegions = 10
)

// SobelSaliency finds visually salient regions from edge energy: grayscale,
// Gaussian blur, Sobel gradient, then grid-cell energy grouping. Cells whose
// energy exceeds mean + stddev are clustered into rectangular regions.
type SobelSaliency struct{}

// ExtractSaliency performs one saliency pass over the artifact.
func (s *SobelSaliency) ExtractSaliency(ctx context.Context, a preprocess.Artifact, orient Orientation) (*vision.SaliencyResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := preprocess.Decode(a)
	if err != nil {
		return nil, Fatal(err)
	}

	edges := effect.Sobel(blur.Gaussian(effect.Grayscale(img), 2.0))
	bounds := edges.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w < saliencyGrid || h < saliencyGrid {
		return &vision.SaliencyResult{Boxes: []vision.NormalizedRect{}}, nil
	}

	energy := cellEnergy(edges)

	mean, stddev := meanStddev(energy)
	threshold := mean + stddev

	hot := make([][]bool, saliencyGrid)
	for y := range hot {
		hot[y] = make([]bool, saliencyGrid)
		for x := range hot[y] {
			hot[y][x] = energy[y][x] > threshold
		}
	}

	regions := groupCells(hot, energy)
	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].score > regions[j].score
	})
	if len(regions) > maxSalientRegions {
		regions = regions[:maxSalientRegions]
	}

	cellW := w / saliencyGrid
	cellH := h / saliencyGrid
	size := image.Pt(w, h)
	boxes := make([]vision.NormalizedRect, 0, len(regions))
	for _, r := range regions {
		px := image.Rect(r.x0*cellW, r.y0*cellH, (r.x1+1)*cellW, (r.y1+1)*cellH)
		boxes = append(boxes, vision.RectFromPixels(px, size))
	}

	return &vision.SaliencyResult{Boxes: boxes}, nil
}

// cellEnergy sums gradient magnitude per grid cell, normalized by cell area.
func cellEnergy(edges *image.RGBA) [saliencyGrid][saliencyGrid]float64 {
	bounds := edges.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	cellW := w / saliencyGrid
	cellH := h / saliencyGrid

	var energy [saliencyGrid][saliencyGrid]float64
	for cy := 0; cy < saliencyGrid; cy++ {
		for cx := 0; cx < saliencyGrid; cx++ {
			var sum float64
			for y := cy * cellH; y < (cy+1)*cellH; y++ {
				for x := cx * cellW; x < (cx+1)*cellW; x++ {
					r, _, _, _ := edges.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
					sum += float64(r >> 8)
				}
			}
			energy[cy][cx] = sum / float64(cellW*cellH)
		}
	}
	return energy
}

func meanStddev(energy [saliencyGrid][saliencyGrid]float64) (float64, float64) {
	var sum, sumSq float64
	n := float64(saliencyGrid * saliencyGrid)
	for y := 0; y < saliencyGrid; y++ {
		for x := 0; x < saliencyGrid; x++ {
			sum += energy[y][x]
			sumSq += energy[y][x] * energy[y][x]
		}
	}
	mean := sum / n
	variance := sumSq/n - mean*mean
	if variance < 0 {
		variance = 0
	}
	return mean, math.Sqrt(variance)
}

type cellRegion struct {
	x0, y0, x1, y1 int
	score          float64
}

// groupCells flood-fills 4-connected hot cells into bounding rectangles.
func groupCells(hot [][]bool, energy [saliencyGrid][saliencyGrid]float64) []cellRegion {
	visited := make([][]bool, saliencyGrid)
	for y := range visited {
		visited[y] = make([]bool, saliencyGrid)
	}

	var regions []cellRegion
	for y := 0; y < saliencyGrid; y++ {
		for x := 0; x < saliencyGrid; x++ {
			if !hot[y][x] || visited[y][x] {
				continue
			}
			region := cellRegion{x0: x, y0: y, x1: x, y1: y}
			stack := []image.Point{{X: x, Y: y}}
			visited[y][x] = true
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				region.score += energy[p.Y][p.X]
				if p.X < region.x0 {
					region.x0 = p.X
				}
				if p.X > region.x1 {
					region.x1 = p.X
				}
				if p.Y < region.y0 {
					region.y0 = p.Y
				}
				if p.Y > region.y1 {
					region.y1 = p.Y
				}
				for _, d := range [4]image.Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
					nx, ny := p.X+d.X, p.Y+d.Y
					if nx < 0 || ny < 0 || nx >= saliencyGrid || ny >= saliencyGrid {
						continue
					}
					if hot[ny][nx] && !visited[ny][nx] {
						visited[ny][nx] = true
						stack = append(stack, image.Point{X: nx, Y: ny})
					}
				}
			}
			regions = append(regions, region)
		}
	}
	return regions
}
