// Package rank orders recognized text by visual prominence.
package rank

import (
	"sort"

	"github.com/visiontools/vision-analyze-mcp/internal/vision"
)

// pointSizeFactor converts pixel height to an estimated point size against an
// assumed 72-DPI baseline. The estimate is a relative ranking aid only.
const pointSizeFactor = 0.75

// Rank enriches text results with a priority (1 = most prominent) and an
// estimated point size, both derived from the box height in pixels. The input
// is not mutated; the returned slice has the same cardinality, ordered by
// priority.
//
// Priority assignment walks the height-descending sequence: the first element
// gets priority 1, an element whose height exactly equals its predecessor's
// keeps the predecessor's priority, and any other element takes its 1-based
// position in the sorted sequence. Priorities therefore skip after a tie
// group: heights 10,10,8,8,8,5 yield priorities 1,1,3,3,3,6.
//
// The result depends only on geometry, never on input order, and is scoped to
// the single image described by size.
func Rank(results []vision.TextResult, size vision.ImageSize) []vision.TextResult {
	if len(results) == 0 {
		return results
	}

	ranked := make([]vision.TextResult, len(results))
	copy(ranked, results)

	height := func(t vision.TextResult) float64 {
		return t.Box.H * float64(size.Height)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return height(ranked[i]) > height(ranked[j])
	})

	priority := 1
	for i := range ranked {
		h := height(ranked[i])
		if i > 0 && h != height(ranked[i-1]) {
			priority = i + 1
		}
		ranked[i].Priority = priority
		ranked[i].EstimatedPointSize = h * pointSizeFactor
	}
	return ranked
}
