package payment

import (
	"fmt"
	"net/url"

	"gallery-storefront/internal/model"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusSuccess    Status = "success"
	StatusFailed     Status = "failed"
)

// State is one of Pending, Processing, Succeeded or Failed.
type State interface {
	Status() Status
	isState()
}

// Attempt is one initiated push-payment.
type Attempt struct {
	CheckoutRequestID string `json:"checkoutRequestId"`
	PhoneNumber       string `json:"phoneNumber"`
	Amount            int64  `json:"amount"`
	Count             int    `json:"attempts"`
}

// Confirmation is what the confirmation view is built from.
type Confirmation struct {
	Type    model.ItemType `json:"type"`
	OrderID model.ID       `json:"orderId"`
	Title   string         `json:"title"`
	URL     string         `json:"url"`
}

func NewConfirmation(itemType model.ItemType, orderID model.ID, title string) Confirmation {
	return Confirmation{
		Type:    itemType,
		OrderID: orderID,
		Title:   title,
		URL: fmt.Sprintf("/payment-success?type=%s&orderId=%s&title=%s",
			url.QueryEscape(string(itemType)),
			url.QueryEscape(orderID.String()),
			url.QueryEscape(title),
		),
	}
}

type Pending struct {
	FieldError string
}

// Processing has a nil Attempt while the push is being initiated.
type Processing struct {
	Attempt *Attempt
}

type Succeeded struct {
	Attempt      Attempt
	Confirmation Confirmation
}

// Failed carries the attempt that failed, if one was initiated. PaymentConfirmed
// is set when the buyer paid but the order could not be recorded.
type Failed struct {
	Reason           string
	Attempt          *Attempt
	PaymentConfirmed bool
}

func (Pending) Status() Status    { return StatusPending }
func (Processing) Status() Status { return StatusProcessing }
func (Succeeded) Status() Status  { return StatusSuccess }
func (Failed) Status() Status     { return StatusFailed }

func (Pending) isState()    {}
func (Processing) isState() {}
func (Succeeded) isState()  {}
func (Failed) isState()     {}

// View is the flat JSON rendering of a State.
type View struct {
	Status            Status        `json:"status"`
	FieldError        string        `json:"fieldError,omitempty"`
	CheckoutRequestID string        `json:"checkoutRequestId,omitempty"`
	PhoneNumber       string        `json:"phoneNumber,omitempty"`
	Amount            int64         `json:"amount,omitempty"`
	Attempts          int           `json:"attempts"`
	Reason            string        `json:"reason,omitempty"`
	PaymentConfirmed  bool          `json:"paymentConfirmed,omitempty"`
	CanRetry          bool          `json:"canRetry"`
	Confirmation      *Confirmation `json:"confirmation,omitempty"`
}

func ViewOf(s State) View {
	v := View{Status: s.Status()}
	withAttempt := func(a *Attempt) {
		if a == nil {
			return
		}
		v.CheckoutRequestID = a.CheckoutRequestID
		v.PhoneNumber = a.PhoneNumber
		v.Amount = a.Amount
		v.Attempts = a.Count
	}

	switch st := s.(type) {
	case Pending:
		v.FieldError = st.FieldError
	case Processing:
		withAttempt(st.Attempt)
	case Succeeded:
		withAttempt(&st.Attempt)
		c := st.Confirmation
		v.Confirmation = &c
	case Failed:
		withAttempt(st.Attempt)
		v.Reason = st.Reason
		v.PaymentConfirmed = st.PaymentConfirmed
		v.CanRetry = !st.PaymentConfirmed
	}
	return v
}
