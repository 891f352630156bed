package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gallery-storefront/internal/apperror"
	"gallery-storefront/internal/config"
	"gallery-storefront/internal/model"
)

// Credentials supplies the bearer token for authenticated calls. Expire is the
// implicit logout the gateway performs when the backend answers 401.
type Credentials interface {
	Token(ctx context.Context) (string, error)
	Expire(ctx context.Context) error
}

type GalleryClient interface {
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	AdminLogin(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error)
	Register(ctx context.Context, req *SignupRequest) (*AuthResponse, error)

	ListArtworks(ctx context.Context) ([]*model.Artwork, error)
	GetArtwork(ctx context.Context, id model.ID) (*model.Artwork, error)
	CreateArtwork(ctx context.Context, creds Credentials, artwork *model.Artwork) error
	UpdateArtwork(ctx context.Context, creds Credentials, id model.ID, artwork *model.Artwork) error
	DeleteArtwork(ctx context.Context, creds Credentials, id model.ID) error

	ListExhibitions(ctx context.Context) ([]*model.Exhibition, error)
	GetExhibition(ctx context.Context, id model.ID) (*model.Exhibition, error)
	CreateExhibition(ctx context.Context, creds Credentials, exhibition *model.Exhibition) error
	UpdateExhibition(ctx context.Context, creds Credentials, id model.ID, exhibition *model.Exhibition) error
	DeleteExhibition(ctx context.Context, creds Credentials, id model.ID) error

	SubmitContact(ctx context.Context, msg *model.ContactMessage) error
	ListMessages(ctx context.Context, creds Credentials) ([]*model.ContactMessage, error)
	UpdateMessageStatus(ctx context.Context, creds Credentials, id model.ID, status model.MessageStatus) error

	AdminListOrders(ctx context.Context, creds Credentials) ([]*model.Order, error)
	ListOrders(ctx context.Context, creds Credentials) ([]*model.Order, error)
	GetOrder(ctx context.Context, creds Credentials, id model.ID, itemType model.ItemType) (*model.Order, error)
	ListUserOrders(ctx context.Context, creds Credentials, userID model.ID) ([]*model.Order, error)
	FinalizeOrder(ctx context.Context, creds Credentials, req *FinalizeRequest) (*FinalizeResponse, error)

	ListTickets(ctx context.Context, creds Credentials) ([]*model.Ticket, error)
	ListUserTickets(ctx context.Context, creds Credentials, userID model.ID) ([]*model.Ticket, error)
	GenerateTicket(ctx context.Context, creds Credentials, bookingID model.ID) (*model.Ticket, error)
	FinalizeTicket(ctx context.Context, creds Credentials, req *FinalizeRequest) (*FinalizeResponse, error)

	InitiatePush(ctx context.Context, req *PushRequest) (*PushResponse, error)
	CheckStatus(ctx context.Context, checkoutRequestID string) (*StatusResponse, error)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type AuthResponse struct {
	Token   string      `json:"token"`
	User    *model.User `json:"user,omitempty"`
	UserID  model.ID    `json:"user_id,omitempty"`
	AdminID model.ID    `json:"admin_id,omitempty"`
	Name    string      `json:"name,omitempty"`
}

type PushRequest struct {
	PhoneNumber      string         `json:"phoneNumber"`
	Amount           int64          `json:"amount"`
	OrderType        model.ItemType `json:"orderType"`
	OrderID          model.ID       `json:"orderId"`
	AccountReference string         `json:"accountReference"`
	CallbackURL      string         `json:"callbackUrl"`
}

type PushResponse struct {
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	CheckoutRequestIDv2 string `json:"checkoutRequestId"`
	MerchantRequestID   string `json:"MerchantRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	CustomerMessage     string `json:"CustomerMessage"`
}

// RequestID returns the checkout-request id whichever casing the backend used.
func (r *PushResponse) RequestID() string {
	if r.CheckoutRequestID != "" {
		return r.CheckoutRequestID
	}
	return r.CheckoutRequestIDv2
}

// ResultCode decodes from a JSON string or number.
type ResultCode string

func (c *ResultCode) UnmarshalJSON(b []byte) error {
	var id model.ID
	if err := id.UnmarshalJSON(b); err != nil {
		return err
	}
	*c = ResultCode(id)
	return nil
}

type StatusResponse struct {
	ResultCode   ResultCode `json:"ResultCode"`
	ResultDesc   string     `json:"ResultDesc"`
	ErrorCode    string     `json:"errorCode"`
	ErrorMessage string     `json:"errorMessage"`
}

type FinalizeRequest struct {
	CheckoutRequestID string             `json:"checkoutRequestId"`
	ItemType          model.ItemType     `json:"type"`
	OrderDetails      *model.OrderIntent `json:"orderDetails"`
	UserID            model.ID           `json:"userId"`
	PhoneNumber       string             `json:"phoneNumber"`
}

type FinalizeResponse struct {
	OrderID    model.ID `json:"orderId"`
	TicketID   model.ID `json:"ticketId"`
	ID         model.ID `json:"id"`
	TicketCode string   `json:"ticketCode,omitempty"`
}

// Ref is the id the confirmation view is built from.
func (r *FinalizeResponse) Ref() model.ID {
	switch {
	case r.OrderID != "":
		return r.OrderID
	case r.TicketID != "":
		return r.TicketID
	}
	return r.ID
}

type galleryClientImpl struct {
	httpClient  *http.Client
	baseURL     string
	timeout     time.Duration
	authTimeout time.Duration
}

func NewGalleryClient(cfg *config.GalleryAPI) GalleryClient {
	return &galleryClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		timeout:     cfg.Timeout,
		authTimeout: cfg.AuthTimeout,
	}
}

// ---- auth ----

func (c *galleryClientImpl) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	return c.authenticate(ctx, "/auth/login", req)
}

func (c *galleryClientImpl) AdminLogin(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	return c.authenticate(ctx, "/auth/admin-login", req)
}

func (c *galleryClientImpl) Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error) {
	return c.authenticate(ctx, "/auth/signup", req)
}

func (c *galleryClientImpl) Register(ctx context.Context, req *SignupRequest) (*AuthResponse, error) {
	return c.authenticate(ctx, "/auth/register", req)
}

func (c *galleryClientImpl) authenticate(ctx context.Context, path string, body any) (*AuthResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.authTimeout)
	defer cancel()

	raw, err := c.call(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return nil, err
	}

	var resp AuthResponse
	if err := decodeInto(raw, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ---- artworks ----

func (c *galleryClientImpl) ListArtworks(ctx context.Context) ([]*model.Artwork, error) {
	raw, err := c.request(ctx, http.MethodGet, "/artworks", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("list artworks: %w", err)
	}

	var artworks []*model.Artwork
	if err := decodeList(raw, "artworks", &artworks); err != nil {
		return nil, err
	}
	return artworks, nil
}

func (c *galleryClientImpl) GetArtwork(ctx context.Context, id model.ID) (*model.Artwork, error) {
	raw, err := c.request(ctx, http.MethodGet, "/artworks/"+url.PathEscape(id.String()), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("get artwork %s: %w", id, err)
	}

	var artwork model.Artwork
	if err := decodeInto(raw, &artwork); err != nil {
		return nil, err
	}
	return &artwork, nil
}

func (c *galleryClientImpl) CreateArtwork(ctx context.Context, creds Credentials, artwork *model.Artwork) error {
	_, err := c.request(ctx, http.MethodPost, "/artworks", creds, artwork)
	return err
}

func (c *galleryClientImpl) UpdateArtwork(ctx context.Context, creds Credentials, id model.ID, artwork *model.Artwork) error {
	_, err := c.request(ctx, http.MethodPut, "/artworks/"+url.PathEscape(id.String()), creds, artwork)
	return err
}

func (c *galleryClientImpl) DeleteArtwork(ctx context.Context, creds Credentials, id model.ID) error {
	_, err := c.request(ctx, http.MethodDelete, "/artworks/"+url.PathEscape(id.String()), creds, nil)
	return err
}

// ---- exhibitions ----

func (c *galleryClientImpl) ListExhibitions(ctx context.Context) ([]*model.Exhibition, error) {
	raw, err := c.request(ctx, http.MethodGet, "/exhibitions", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("list exhibitions: %w", err)
	}

	var exhibitions []*model.Exhibition
	if err := decodeList(raw, "exhibitions", &exhibitions); err != nil {
		return nil, err
	}
	return exhibitions, nil
}

func (c *galleryClientImpl) GetExhibition(ctx context.Context, id model.ID) (*model.Exhibition, error) {
	raw, err := c.request(ctx, http.MethodGet, "/exhibitions/"+url.PathEscape(id.String()), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("get exhibition %s: %w", id, err)
	}

	var exhibition model.Exhibition
	if err := decodeInto(raw, &exhibition); err != nil {
		return nil, err
	}
	return &exhibition, nil
}

func (c *galleryClientImpl) CreateExhibition(ctx context.Context, creds Credentials, exhibition *model.Exhibition) error {
	_, err := c.request(ctx, http.MethodPost, "/exhibitions", creds, exhibition)
	return err
}

func (c *galleryClientImpl) UpdateExhibition(ctx context.Context, creds Credentials, id model.ID, exhibition *model.Exhibition) error {
	_, err := c.request(ctx, http.MethodPut, "/exhibitions/"+url.PathEscape(id.String()), creds, exhibition)
	return err
}

func (c *galleryClientImpl) DeleteExhibition(ctx context.Context, creds Credentials, id model.ID) error {
	_, err := c.request(ctx, http.MethodDelete, "/exhibitions/"+url.PathEscape(id.String()), creds, nil)
	return err
}

// ---- contact messages ----

func (c *galleryClientImpl) SubmitContact(ctx context.Context, msg *model.ContactMessage) error {
	if msg.Source == "" {
		msg.Source = model.SourceContactForm
	}
	_, err := c.request(ctx, http.MethodPost, "/contact", nil, msg)
	if err != nil {
		return fmt.Errorf("submit contact message: %w", err)
	}
	return nil
}

func (c *galleryClientImpl) ListMessages(ctx context.Context, creds Credentials) ([]*model.ContactMessage, error) {
	raw, err := c.request(ctx, http.MethodGet, "/messages", creds, nil)
	if err != nil {
		return nil, err
	}

	var messages []*model.ContactMessage
	if err := decodeList(raw, "messages", &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (c *galleryClientImpl) UpdateMessageStatus(ctx context.Context, creds Credentials, id model.ID, status model.MessageStatus) error {
	body := map[string]model.MessageStatus{"status": status}
	_, err := c.request(ctx, http.MethodPut, "/messages/"+url.PathEscape(id.String()), creds, body)
	return err
}

// ---- orders ----

func (c *galleryClientImpl) AdminListOrders(ctx context.Context, creds Credentials) ([]*model.Order, error) {
	return c.listOrders(ctx, creds, "/admin/orders")
}

func (c *galleryClientImpl) ListOrders(ctx context.Context, creds Credentials) ([]*model.Order, error) {
	return c.listOrders(ctx, creds, "/orders")
}

func (c *galleryClientImpl) ListUserOrders(ctx context.Context, creds Credentials, userID model.ID) ([]*model.Order, error) {
	return c.listOrders(ctx, creds, "/orders/user/"+url.PathEscape(userID.String()))
}

func (c *galleryClientImpl) listOrders(ctx context.Context, creds Credentials, path string) ([]*model.Order, error) {
	raw, err := c.request(ctx, http.MethodGet, path, creds, nil)
	if err != nil {
		return nil, err
	}

	var orders []*model.Order
	if err := decodeList(raw, "orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *galleryClientImpl) GetOrder(ctx context.Context, creds Credentials, id model.ID, itemType model.ItemType) (*model.Order, error) {
	path := "/orders/" + url.PathEscape(id.String()) + "?" + url.Values{"type": {string(itemType)}}.Encode()
	raw, err := c.request(ctx, http.MethodGet, path, creds, nil)
	if err != nil {
		return nil, err
	}

	var order model.Order
	if err := decodeInto(raw, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *galleryClientImpl) FinalizeOrder(ctx context.Context, creds Credentials, req *FinalizeRequest) (*FinalizeResponse, error) {
	return c.finalize(ctx, creds, "/orders/finalize", req)
}

// ---- tickets ----

func (c *galleryClientImpl) ListTickets(ctx context.Context, creds Credentials) ([]*model.Ticket, error) {
	return c.listTickets(ctx, creds, "/tickets")
}

func (c *galleryClientImpl) ListUserTickets(ctx context.Context, creds Credentials, userID model.ID) ([]*model.Ticket, error) {
	return c.listTickets(ctx, creds, "/tickets/user/"+url.PathEscape(userID.String()))
}

func (c *galleryClientImpl) listTickets(ctx context.Context, creds Credentials, path string) ([]*model.Ticket, error) {
	raw, err := c.request(ctx, http.MethodGet, path, creds, nil)
	if err != nil {
		return nil, err
	}

	var tickets []*model.Ticket
	if err := decodeList(raw, "tickets", &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (c *galleryClientImpl) GenerateTicket(ctx context.Context, creds Credentials, bookingID model.ID) (*model.Ticket, error) {
	raw, err := c.request(ctx, http.MethodGet, "/tickets/generate/"+url.PathEscape(bookingID.String()), creds, nil)
	if err != nil {
		return nil, fmt.Errorf("generate ticket: %w", err)
	}

	var ticket model.Ticket
	if err := decodeInto(raw, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (c *galleryClientImpl) FinalizeTicket(ctx context.Context, creds Credentials, req *FinalizeRequest) (*FinalizeResponse, error) {
	return c.finalize(ctx, creds, "/tickets/finalize", req)
}

func (c *galleryClientImpl) finalize(ctx context.Context, creds Credentials, path string, req *FinalizeRequest) (*FinalizeResponse, error) {
	raw, err := c.request(ctx, http.MethodPost, path, creds, req)
	if err != nil {
		return nil, err
	}

	var resp FinalizeResponse
	if err := decodeInto(raw, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ---- mpesa ----

func (c *galleryClientImpl) InitiatePush(ctx context.Context, req *PushRequest) (*PushResponse, error) {
	raw, err := c.request(ctx, http.MethodPost, "/mpesa/stk-push", nil, req)
	if err != nil {
		return nil, err
	}

	var resp PushResponse
	if err := decodeInto(raw, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CheckStatus returns the provider's verdict even when it comes with an error
// status: a definite errorCode or ResultCode in the body is an answer, not a
// failed call.
func (c *galleryClientImpl) CheckStatus(ctx context.Context, checkoutRequestID string) (*StatusResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	status, raw, err := c.exchange(ctx, http.MethodGet, "/mpesa/status/"+url.PathEscape(checkoutRequestID), nil, nil)
	if err != nil {
		return nil, err
	}

	var resp StatusResponse
	if err := json.Unmarshal(bytes.TrimSpace(raw), &resp); err == nil && resp.decided() {
		return &resp, nil
	}

	if err := checkStatus(status, raw); err != nil {
		return nil, err
	}
	if err := decodeInto(raw, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *StatusResponse) decided() bool {
	return r.ResultCode != "" || r.ErrorCode != ""
}

// ---- transport ----

func (c *galleryClientImpl) request(ctx context.Context, method, path string, creds Credentials, body any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.call(ctx, method, path, creds, body)
}

func (c *galleryClientImpl) call(ctx context.Context, method, path string, creds Credentials, body any) ([]byte, error) {
	status, raw, err := c.exchange(ctx, method, path, creds, body)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(status, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// exchange performs one round trip. It fails only on transport errors, a
// missing token or a 401, and leaves every other status to the caller.
func (c *galleryClientImpl) exchange(ctx context.Context, method, path string, creds Credentials, body any) (int, []byte, error) {
	var token string
	if creds != nil {
		var err error
		token, err = creds.Token(ctx)
		if err != nil {
			return 0, nil, fmt.Errorf("read token: %w", err)
		}
		if token == "" {
			return 0, nil, apperror.ErrNotLoggedIn
		}
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal req payload: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return 0, nil, apperror.Upstream("connection timeout. server may be down or unreachable", err)
		}
		return 0, nil, apperror.Upstream("network error. please try again", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, apperror.Upstream("read response body", err)
	}

	if resp.StatusCode == http.StatusUnauthorized && creds != nil {
		if err := creds.Expire(ctx); err != nil {
			return 0, nil, errors.Join(apperror.ErrSessionExpired, err)
		}
		return 0, nil, apperror.ErrSessionExpired
	}

	return resp.StatusCode, raw, nil
}

// checkStatus turns a non-2xx status, or a 2xx body carrying an error field,
// into an error.
func checkStatus(status int, raw []byte) error {
	msg := backendError(raw)
	if status < 200 || status >= 300 {
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", status)
		}
		code := status
		if code >= http.StatusInternalServerError {
			code = http.StatusBadGateway
		}
		return apperror.New(code, msg, nil)
	}
	if msg != "" {
		return apperror.BusinessRule(msg)
	}
	return nil
}

func backendError(raw []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return ""
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return body.Error
}

func decodeInto(raw []byte, out any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperror.Upstream("decode backend response", err)
	}
	return nil
}

// decodeList accepts either a bare array or an object wrapping it under key.
func decodeList(raw []byte, key string, out any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	if trimmed[0] == '[' {
		return decodeInto(trimmed, out)
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return apperror.Upstream("decode backend response", err)
	}
	inner, ok := wrapped[key]
	if !ok {
		return nil
	}
	return decodeInto(inner, out)
}
