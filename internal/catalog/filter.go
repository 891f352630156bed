// Package catalog filters full artwork and exhibition collections in memory.
package catalog

import (
	"strings"

	"gallery-storefront/internal/model"
)

// ArtworkFilter narrows an artwork list. Zero values match everything; a nil
// bound leaves that side of the price range open.
type ArtworkFilter struct {
	Query    string
	MinPrice *float64
	MaxPrice *float64
	Status   model.ArtworkStatus
}

type ExhibitionFilter struct {
	Query  string
	Status model.ExhibitionStatus
}

func (f *ArtworkFilter) Match(a *model.Artwork) bool {
	if q := normalizeQuery(f.Query); q != "" && !strings.Contains(a.Searchable(), q) {
		return false
	}
	if f.MinPrice != nil && a.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && a.Price > *f.MaxPrice {
		return false
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	return true
}

func (f *ExhibitionFilter) Match(e *model.Exhibition) bool {
	if q := normalizeQuery(f.Query); q != "" && !strings.Contains(e.Searchable(), q) {
		return false
	}
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	return true
}

// FilterArtworks keeps the input order. The result is never nil.
func FilterArtworks(artworks []*model.Artwork, f *ArtworkFilter) []*model.Artwork {
	return filter(artworks, f.Match)
}

func FilterExhibitions(exhibitions []*model.Exhibition, f *ExhibitionFilter) []*model.Exhibition {
	return filter(exhibitions, f.Match)
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}
