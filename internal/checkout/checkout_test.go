package checkout

import (
	"net/http"
	"testing"

	"gallery-storefront/internal/apperror"
	"gallery-storefront/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotals(t *testing.T) {
	assert.Equal(t, int64(46000), ArtworkTotal(45000, 1000))
	assert.Equal(t, int64(4500), ExhibitionTotal(1500, 3))
	assert.Equal(t, int64(1001), ArtworkTotal(0.6, 1000))
}

func TestNewArtworkIntent(t *testing.T) {
	artwork := &model.Artwork{ID: "7", Title: "Maasai Dawn", Price: 45000, Status: model.ArtworkAvailable}

	intent, err := NewArtworkIntent(artwork, &ArtworkForm{
		Name:            "Amani",
		Email:           "amani@example.com",
		Phone:           " 0712345678 ",
		DeliveryAddress: "Ngong Rd, Nairobi",
	}, 1000)
	require.NoError(t, err)

	assert.Equal(t, model.ItemTypeArtwork, intent.Type)
	assert.Equal(t, model.ID("7"), intent.ItemID)
	assert.Equal(t, int64(45000), intent.UnitAmount)
	assert.Equal(t, int64(1000), intent.DeliveryFee)
	assert.Equal(t, int64(46000), intent.TotalAmount)
	assert.Equal(t, "0712345678", intent.Buyer.Phone)
	assert.Equal(t, "ART-7", intent.AccountReference())
}

func TestNewArtworkIntent_Validation(t *testing.T) {
	available := &model.Artwork{ID: "1", Price: 100, Status: model.ArtworkAvailable}

	_, err := NewArtworkIntent(available, &ArtworkForm{DeliveryAddress: "x"}, 1000)
	assert.Equal(t, http.StatusBadRequest, apperror.Code(err))

	_, err = NewArtworkIntent(available, &ArtworkForm{Phone: "0712345678"}, 1000)
	assert.Equal(t, http.StatusBadRequest, apperror.Code(err))

	sold := &model.Artwork{ID: "1", Price: 100, Status: model.ArtworkSold}
	_, err = NewArtworkIntent(sold, &ArtworkForm{Phone: "0712345678", DeliveryAddress: "x"}, 1000)
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.Code(err))
}

func TestNewExhibitionIntent(t *testing.T) {
	exhibition := &model.Exhibition{ID: "3", Title: "Nairobi Light", TicketPrice: 1500, AvailableSlots: 5}

	intent, err := NewExhibitionIntent(exhibition, &ExhibitionForm{Name: "Njeri", Email: "n@example.com", Phone: "0712345678", Slots: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, intent.Slots)
	assert.Equal(t, int64(4500), intent.TotalAmount)
	assert.Equal(t, "EXH-3", intent.AccountReference())

	_, err = NewExhibitionIntent(exhibition, &ExhibitionForm{Slots: 6})
	require.Error(t, err)
	assert.Equal(t, "only 5 slots available", apperror.Message(err))

	_, err = NewExhibitionIntent(exhibition, &ExhibitionForm{Slots: 0})
	assert.Equal(t, http.StatusBadRequest, apperror.Code(err))

	intent, err = NewExhibitionIntent(exhibition, &ExhibitionForm{Slots: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(7500), intent.TotalAmount)
}

func TestFormatKES(t *testing.T) {
	assert.Equal(t, "KES 0", FormatKES(0))
	assert.Equal(t, "KES 500", FormatKES(500))
	assert.Equal(t, "KES 4,500", FormatKES(4500))
	assert.Equal(t, "KES 46,000", FormatKES(46000))
	assert.Equal(t, "KES 1,234,567", FormatKES(1234567))
	assert.Equal(t, "-KES 1,000", FormatKES(-1000))
}
