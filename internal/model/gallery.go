package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ID is a backend identifier. The backend emits both numeric and string ids,
// so it decodes from either.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

type ItemType string

const (
	ItemTypeArtwork    ItemType = "artwork"
	ItemTypeExhibition ItemType = "exhibition"
)

func (t ItemType) Valid() bool {
	return t == ItemTypeArtwork || t == ItemTypeExhibition
}

type User struct {
	ID      ID     `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	IsAdmin bool   `json:"isAdmin"`
}

type ArtworkStatus string

const (
	ArtworkAvailable ArtworkStatus = "available"
	ArtworkSold      ArtworkStatus = "sold"
)

type Artwork struct {
	ID          ID            `json:"id,omitempty"`
	Title       string        `json:"title"`
	Artist      string        `json:"artist"`
	Description string        `json:"description"`
	Price       float64       `json:"price"`
	ImageURL    string        `json:"imageUrl"`
	Dimensions  string        `json:"dimensions,omitempty"`
	Medium      string        `json:"medium,omitempty"`
	Year        int           `json:"year,omitempty"`
	Status      ArtworkStatus `json:"status"`
}

type ExhibitionStatus string

const (
	ExhibitionUpcoming ExhibitionStatus = "upcoming"
	ExhibitionOngoing  ExhibitionStatus = "ongoing"
	ExhibitionPast     ExhibitionStatus = "past"
)

type Exhibition struct {
	ID             ID               `json:"id,omitempty"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Location       string           `json:"location"`
	StartDate      string           `json:"startDate"`
	EndDate        string           `json:"endDate"`
	TicketPrice    float64          `json:"ticketPrice"`
	ImageURL       string           `json:"imageUrl"`
	TotalSlots     int              `json:"totalSlots"`
	AvailableSlots int              `json:"availableSlots"`
	Status         ExhibitionStatus `json:"status"`
}

type MessageSource string

const (
	SourceContactForm     MessageSource = "contact_form"
	SourceChatBot         MessageSource = "chat_bot"
	SourceWhatsAppService MessageSource = "whatsapp_service"
)

type MessageStatus string

const (
	MessageNew     MessageStatus = "new"
	MessageRead    MessageStatus = "read"
	MessageReplied MessageStatus = "replied"
)

func (s MessageStatus) Valid() bool {
	switch s {
	case MessageNew, MessageRead, MessageReplied:
		return true
	}
	return false
}

type ContactMessage struct {
	ID      ID            `json:"id,omitempty"`
	Name    string        `json:"name"`
	Email   string        `json:"email"`
	Phone   string        `json:"phone,omitempty"`
	Message string        `json:"message"`
	Source  MessageSource `json:"source,omitempty"`
	Date    string        `json:"date,omitempty"`
	Status  MessageStatus `json:"status,omitempty"`
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Order is a confirmed artwork order or exhibition booking as the backend reports it.
type Order struct {
	ID                ID            `json:"id"`
	UserID            ID            `json:"user_id,omitempty"`
	OrderType         ItemType      `json:"order_type,omitempty"`
	ItemID            ID            `json:"item_id,omitempty"`
	ItemTitle         string        `json:"item_title,omitempty"`
	Name              string        `json:"name,omitempty"`
	Email             string        `json:"email,omitempty"`
	Phone             string        `json:"phone,omitempty"`
	Amount            float64       `json:"amount"`
	PaymentStatus     PaymentStatus `json:"payment_status,omitempty"`
	CheckoutRequestID string        `json:"checkout_request_id,omitempty"`
	CreatedAt         string        `json:"created_at,omitempty"`
}

type Ticket struct {
	ID              ID     `json:"id"`
	OrderID         ID     `json:"order_id,omitempty"`
	UserID          ID     `json:"user_id,omitempty"`
	ExhibitionID    ID     `json:"exhibition_id,omitempty"`
	ExhibitionTitle string `json:"exhibition_title,omitempty"`
	TicketCode      string `json:"ticket_code"`
	Slots           int    `json:"slots"`
	CreatedAt       string `json:"created_at,omitempty"`
}

// Searchable returns the lower-cased text a catalog search matches against.
func (a *Artwork) Searchable() string {
	return strings.ToLower(strings.Join([]string{a.Title, a.Artist, a.Description}, "\n"))
}

func (e *Exhibition) Searchable() string {
	return strings.ToLower(strings.Join([]string{e.Title, e.Location, e.Description}, "\n"))
}
