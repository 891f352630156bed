// Package checkout computes totals and builds the order intent a buyer stages
// before paying.
package checkout

import (
	"fmt"
	"strings"

	"gallery-storefront/internal/apperror"
	"gallery-storefront/internal/model"

	"github.com/shopspring/decimal"
)

const PaymentPath = "/payment"

type ArtworkForm struct {
	Name            string
	Email           string
	Phone           string
	DeliveryAddress string
	Notes           string
}

type ExhibitionForm struct {
	Name  string
	Email string
	Phone string
	Slots int
	Notes string
}

// wholeUnits rounds a backend price to whole shillings.
func wholeUnits(price float64) decimal.Decimal {
	return decimal.NewFromFloat(price).Round(0)
}

// ArtworkTotal is price plus the fixed delivery fee.
func ArtworkTotal(price float64, deliveryFee int64) int64 {
	return wholeUnits(price).Add(decimal.NewFromInt(deliveryFee)).IntPart()
}

// ExhibitionTotal is ticket price times slots.
func ExhibitionTotal(ticketPrice float64, slots int) int64 {
	return wholeUnits(ticketPrice).Mul(decimal.NewFromInt(int64(slots))).IntPart()
}

func NewArtworkIntent(a *model.Artwork, form *ArtworkForm, deliveryFee int64) (*model.OrderIntent, error) {
	if strings.TrimSpace(form.Phone) == "" {
		return nil, apperror.Validation("please enter your phone number for delivery coordination")
	}
	if strings.TrimSpace(form.DeliveryAddress) == "" {
		return nil, apperror.Validation("please enter your delivery address")
	}
	if a.Status == model.ArtworkSold {
		return nil, apperror.BusinessRule("this artwork has already been sold")
	}

	return &model.OrderIntent{
		Type:        model.ItemTypeArtwork,
		ItemID:      a.ID,
		Title:       a.Title,
		UnitAmount:  wholeUnits(a.Price).IntPart(),
		DeliveryFee: deliveryFee,
		TotalAmount: ArtworkTotal(a.Price, deliveryFee),
		Buyer: model.Buyer{
			Name:  strings.TrimSpace(form.Name),
			Email: strings.TrimSpace(form.Email),
			Phone: strings.TrimSpace(form.Phone),
		},
		DeliveryAddress: strings.TrimSpace(form.DeliveryAddress),
		Notes:           form.Notes,
	}, nil
}

func NewExhibitionIntent(e *model.Exhibition, form *ExhibitionForm) (*model.OrderIntent, error) {
	if form.Slots < 1 {
		return nil, apperror.Validation("please book at least one slot")
	}
	if form.Slots > e.AvailableSlots {
		return nil, apperror.BusinessRule(fmt.Sprintf("only %d slots available", e.AvailableSlots))
	}

	return &model.OrderIntent{
		Type:        model.ItemTypeExhibition,
		ItemID:      e.ID,
		Title:       e.Title,
		UnitAmount:  wholeUnits(e.TicketPrice).IntPart(),
		Slots:       form.Slots,
		TotalAmount: ExhibitionTotal(e.TicketPrice, form.Slots),
		Buyer: model.Buyer{
			Name:  strings.TrimSpace(form.Name),
			Email: strings.TrimSpace(form.Email),
			Phone: strings.TrimSpace(form.Phone),
		},
		Notes: form.Notes,
	}, nil
}

// FormatKES renders whole shillings the way the storefront shows prices, e.g.
// "KES 46,000".
func FormatKES(amount int64) string {
	s := decimal.NewFromInt(amount).Abs().String()

	var b strings.Builder
	if amount < 0 {
		b.WriteByte('-')
	}
	b.WriteString("KES ")
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}
