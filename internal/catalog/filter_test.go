package catalog

import (
	"testing"

	"gallery-storefront/internal/model"

	"github.com/stretchr/testify/assert"
)

func ptr(f float64) *float64 { return &f }

var artworks = []*model.Artwork{
	{ID: "1", Title: "Maasai Dawn", Artist: "Wanjiru Kamau", Description: "Oil on canvas", Price: 45000, Status: model.ArtworkAvailable},
	{ID: "2", Title: "Lamu Doors", Artist: "Omar Said", Description: "Carved wood and light", Price: 12000, Status: model.ArtworkSold},
	{ID: "3", Title: "City Rain", Artist: "Achieng Otieno", Description: "Nairobi at dusk", Price: 30000, Status: model.ArtworkAvailable},
}

func ids(items []*model.Artwork) []model.ID {
	out := make([]model.ID, 0, len(items))
	for _, a := range items {
		out = append(out, a.ID)
	}
	return out
}

func TestFilterArtworks(t *testing.T) {
	tests := []struct {
		name   string
		filter ArtworkFilter
		want   []model.ID
	}{
		{"no filter", ArtworkFilter{}, []model.ID{"1", "2", "3"}},
		{"title case insensitive", ArtworkFilter{Query: "  MAASAI "}, []model.ID{"1"}},
		{"artist", ArtworkFilter{Query: "otieno"}, []model.ID{"3"}},
		{"description", ArtworkFilter{Query: "wood"}, []model.ID{"2"}},
		{"min only", ArtworkFilter{MinPrice: ptr(30000)}, []model.ID{"1", "3"}},
		{"max only", ArtworkFilter{MaxPrice: ptr(30000)}, []model.ID{"2", "3"}},
		{"range", ArtworkFilter{MinPrice: ptr(20000), MaxPrice: ptr(40000)}, []model.ID{"3"}},
		{"status", ArtworkFilter{Status: model.ArtworkSold}, []model.ID{"2"}},
		{"no match", ArtworkFilter{Query: "sculpture"}, []model.ID{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterArtworks(artworks, &tt.filter)))
		})
	}
}

func TestFilterExhibitions(t *testing.T) {
	exhibitions := []*model.Exhibition{
		{ID: "1", Title: "Nairobi Light", Location: "Main Hall", Status: model.ExhibitionOngoing},
		{ID: "2", Title: "Coastal Forms", Location: "Mombasa Annex", Description: "Sculpture", Status: model.ExhibitionUpcoming},
	}

	got := FilterExhibitions(exhibitions, &ExhibitionFilter{Query: "mombasa"})
	assert.Len(t, got, 1)
	assert.Equal(t, model.ID("2"), got[0].ID)

	got = FilterExhibitions(exhibitions, &ExhibitionFilter{Status: model.ExhibitionOngoing})
	assert.Len(t, got, 1)
	assert.Equal(t, model.ID("1"), got[0].ID)

	assert.NotNil(t, FilterExhibitions(nil, &ExhibitionFilter{}))
}
