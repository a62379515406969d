package vision

import "strings"

// Category identifies one independent analysis dimension of an image.
type Category string

const (
	// CategoryText is recognized text with word-level geometry.
	CategoryText Category = "text"

	// CategoryFaces is detected faces with optional landmarks.
	CategoryFaces Category = "faces"

	// CategoryObjectsScenes is object/scene classification labels. The legacy
	// request tokens "objects" and "scenes" both canonicalize to this single
	// category; the underlying capability runs at most once per analysis.
	CategoryObjectsScenes Category = "objects-and-scenes"

	// CategoryBarcodes is machine-readable codes (QR, EAN, Code128, ...).
	CategoryBarcodes Category = "barcodes"

	// CategorySaliency is visually-salient regions.
	CategorySaliency Category = "saliency"
)

// AllCategories lists every canonical category in presentation order.
func AllCategories() []Category {
	return []Category{
		CategoryText,
		CategoryFaces,
		CategoryObjectsScenes,
		CategoryBarcodes,
		CategorySaliency,
	}
}

// CategoryTokens maps accepted request tokens to canonical categories.
// "objects" and "scenes" are historical names for the same category.
func CategoryTokens() map[string]Category {
	return map[string]Category{
		"text":               CategoryText,
		"faces":              CategoryFaces,
		"objects":            CategoryObjectsScenes,
		"scenes":             CategoryObjectsScenes,
		"objects-and-scenes": CategoryObjectsScenes,
		"barcodes":           CategoryBarcodes,
		"saliency":           CategorySaliency,
	}
}

// ParseCategories converts caller-supplied tokens into a deduplicated set of
// canonical categories. Parsing is lenient: unrecognized tokens are dropped.
// If no token survives, the returned slice is empty and the caller must treat
// the request as no-categories-requested.
//
// The returned order follows AllCategories, independent of token order, so
// downstream dispatch and reporting are deterministic.
func ParseCategories(tokens []string) []Category {
	known := CategoryTokens()
	seen := make(map[Category]bool, len(tokens))
	for _, tok := range tokens {
		c, ok := known[strings.ToLower(strings.TrimSpace(tok))]
		if !ok {
			continue
		}
		seen[c] = true
	}

	out := make([]Category, 0, len(seen))
	for _, c := range AllCategories() {
		if seen[c] {
			out = append(out, c)
		}
	}
	return out
}

// DisplayName returns the human-readable section heading for a category.
func (c Category) DisplayName() string {
	switch c {
	case CategoryText:
		return "Text"
	case CategoryFaces:
		return "Faces"
	case CategoryObjectsScenes:
		return "Objects & Scenes"
	case CategoryBarcodes:
		return "Barcodes"
	case CategorySaliency:
		return "Salient Regions"
	default:
		return string(c)
	}
}
