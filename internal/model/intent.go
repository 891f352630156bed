package model

// Buyer is who pays and who the gallery contacts about the order.
type Buyer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// OrderIntent is the single staged, not yet paid purchase of a client. For
// artworks Slots is zero and DeliveryFee/DeliveryAddress are set; for exhibitions
// it is the other way round.
type OrderIntent struct {
	Type            ItemType `json:"type"`
	ItemID          ID       `json:"itemId"`
	Title           string   `json:"title"`
	UnitAmount      int64    `json:"unitAmount"`
	DeliveryFee     int64    `json:"deliveryFee,omitempty"`
	Slots           int      `json:"slots,omitempty"`
	TotalAmount     int64    `json:"totalAmount"`
	Buyer           Buyer    `json:"buyer"`
	DeliveryAddress string   `json:"deliveryAddress,omitempty"`
	Notes           string   `json:"notes,omitempty"`
}

// AccountReference is the reference the buyer sees on the push prompt.
func (o *OrderIntent) AccountReference() string {
	if o.Type == ItemTypeExhibition {
		return "EXH-" + o.ItemID.String()
	}
	return "ART-" + o.ItemID.String()
}
