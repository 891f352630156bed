package dto

import (
	"gallery-storefront/internal/model"
	"gallery-storefront/internal/payment"
)

// ---- auth ----

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"required"`
}

type SessionResponse struct {
	Authenticated bool        `json:"authenticated"`
	IsAdmin       bool        `json:"isAdmin"`
	User          *model.User `json:"user,omitempty"`
}

// ---- catalog ----

type ArtworkQuery struct {
	Query    string   `query:"q"`
	MinPrice *float64 `query:"minPrice" validate:"omitempty,gte=0"`
	MaxPrice *float64 `query:"maxPrice" validate:"omitempty,gte=0"`
	Status   string   `query:"status" validate:"omitempty,oneof=available sold"`
}

type ExhibitionQuery struct {
	Query  string `query:"q"`
	Status string `query:"status" validate:"omitempty,oneof=upcoming ongoing past"`
}

type ArtworkListResponse struct {
	Artworks []*model.Artwork `json:"artworks"`
	Total    int              `json:"total"`
	Empty    bool             `json:"empty"`
}

type ExhibitionListResponse struct {
	Exhibitions []*model.Exhibition `json:"exhibitions"`
	Total       int                 `json:"total"`
	Empty       bool                `json:"empty"`
}

// ---- checkout ----

type ArtworkCheckoutRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone"`
	DeliveryAddress string `json:"deliveryAddress"`
	Notes           string `json:"notes" validate:"max=1000"`
}

type ExhibitionCheckoutRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone"`
	Slots int    `json:"slots"`
	Notes string `json:"notes" validate:"max=1000"`
}

type CheckoutResponse struct {
	Intent         *model.OrderIntent `json:"intent"`
	TotalFormatted string             `json:"totalFormatted"`
	Next           string             `json:"next"`
}

// ---- payment ----

type PaymentRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

type PaymentResponse struct {
	payment.View
	Active bool `json:"active"`
}

// ---- admin ----

type ArtworkRequest struct {
	Title       string  `json:"title" validate:"required"`
	Artist      string  `json:"artist" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	ImageURL    string  `json:"imageUrl" validate:"omitempty,url"`
	Dimensions  string  `json:"dimensions"`
	Medium      string  `json:"medium"`
	Year        int     `json:"year" validate:"omitempty,gte=0"`
	Status      string  `json:"status" validate:"omitempty,oneof=available sold"`
}

func (r *ArtworkRequest) Model() *model.Artwork {
	status := model.ArtworkStatus(r.Status)
	if status == "" {
		status = model.ArtworkAvailable
	}
	return &model.Artwork{
		Title:       r.Title,
		Artist:      r.Artist,
		Description: r.Description,
		Price:       r.Price,
		ImageURL:    r.ImageURL,
		Dimensions:  r.Dimensions,
		Medium:      r.Medium,
		Year:        r.Year,
		Status:      status,
	}
}

type ExhibitionRequest struct {
	Title          string  `json:"title" validate:"required"`
	Description    string  `json:"description"`
	Location       string  `json:"location" validate:"required"`
	StartDate      string  `json:"startDate" validate:"required"`
	EndDate        string  `json:"endDate" validate:"required"`
	TicketPrice    float64 `json:"ticketPrice" validate:"gte=0"`
	ImageURL       string  `json:"imageUrl" validate:"omitempty,url"`
	TotalSlots     int     `json:"totalSlots" validate:"gte=0"`
	AvailableSlots int     `json:"availableSlots" validate:"gte=0,ltefield=TotalSlots"`
	Status         string  `json:"status" validate:"omitempty,oneof=upcoming ongoing past"`
}

func (r *ExhibitionRequest) Model() *model.Exhibition {
	status := model.ExhibitionStatus(r.Status)
	if status == "" {
		status = model.ExhibitionUpcoming
	}
	return &model.Exhibition{
		Title:          r.Title,
		Description:    r.Description,
		Location:       r.Location,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		TicketPrice:    r.TicketPrice,
		ImageURL:       r.ImageURL,
		TotalSlots:     r.TotalSlots,
		AvailableSlots: r.AvailableSlots,
		Status:         status,
	}
}

type OrdersResponse struct {
	Orders  []*model.Order `json:"orders"`
	Offline bool           `json:"offline"`
}

type TicketsResponse struct {
	Tickets []*model.Ticket `json:"tickets"`
}

type MessagesResponse struct {
	Messages []*model.ContactMessage `json:"messages"`
}

type MessageStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new read replied"`
}

// ---- contact & chat ----

type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone"`
	Message string `json:"message" validate:"required,max=5000"`
}

// HandoffRequest is the contact form the chat shows when it has no answer.
// Every field is required.
type HandoffRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
	Message string `json:"message" validate:"required,max=5000"`
}

type ChatRequest struct {
	Message string `json:"message" validate:"required,max=1000"`
}

type ChatReply struct {
	ID       string `json:"id"`
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer"`
	Matched  bool   `json:"matched"`
	Handoff  bool   `json:"handoff"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ---- profile ----

type ProfileOrdersResponse struct {
	Orders []*model.Order `json:"orders"`
}

type ConfirmationQuery struct {
	Type    string `query:"type" validate:"required,oneof=artwork exhibition"`
	OrderID string `query:"orderId" validate:"required"`
	Title   string `query:"title"`
}

type ConfirmationResponse struct {
	Type       model.ItemType `json:"type"`
	OrderID    model.ID       `json:"orderId"`
	Title      string         `json:"title"`
	TicketCode string         `json:"ticketCode,omitempty"`
	Order      *model.Order   `json:"order,omitempty"`
	Ticket     *model.Ticket  `json:"ticket,omitempty"`
}
