// Package payment turns a staged order intent into a confirmed order: it
// initiates a push-payment, polls its status until terminal and finalizes the
// order exactly once.
package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"gallery-storefront/internal/apperror"
	"gallery-storefront/internal/client"
	"gallery-storefront/internal/model"
	"gallery-storefront/internal/repository"

	"go.uber.org/zap"
)

// Gateway is the part of the backend the workflow talks to.
type Gateway interface {
	InitiatePush(ctx context.Context, req *client.PushRequest) (*client.PushResponse, error)
	CheckStatus(ctx context.Context, checkoutRequestID string) (*client.StatusResponse, error)
	FinalizeOrder(ctx context.Context, creds client.Credentials, req *client.FinalizeRequest) (*client.FinalizeResponse, error)
	FinalizeTicket(ctx context.Context, creds client.Credentials, req *client.FinalizeRequest) (*client.FinalizeResponse, error)
}

// IntentStore is where the staged order intent lives.
type IntentStore interface {
	PendingOrder(ctx context.Context) (*model.OrderIntent, error)
	ClearPendingOrder(ctx context.Context) error
}

// Customer is who pays: the credentials finalize is sent with and the user it
// is recorded against.
type Customer interface {
	client.Credentials
	User(ctx context.Context) (*model.User, error)
}

type Options struct {
	ClientID        string
	CallbackURL     string
	PollInterval    time.Duration
	MaxAttempts     int
	FinalizeTimeout time.Duration
}

var (
	ErrClosed      = apperror.BusinessRule("payment session closed")
	ErrInProgress  = apperror.BusinessRule("a payment is already in progress")
	ErrNoIntent    = apperror.NotFound("no pending order found")
	ErrNotRetrying = apperror.BusinessRule("payment can only be retried after it failed")
	ErrConfirmed   = apperror.BusinessRule("payment was received but the order was not recorded. please contact the gallery")
)

const (
	reasonTimeout   = "payment timed out. please try again"
	reasonCancelled = "payment cancelled"
)

type Workflow struct {
	gateway  Gateway
	intents  IntentStore
	customer Customer
	audit    repository.PaymentAttemptRepository
	log      *zap.Logger
	opts     Options

	lifetime context.Context
	shutdown context.CancelFunc

	mu         sync.Mutex
	state      State
	intent     *model.OrderIntent
	auditID    uint
	stopPoll   context.CancelFunc
	pollDone   chan struct{}
	finalizing bool
	closed     bool
	subs       map[int]func(State)
	nextSub    int

	busy atomic.Bool
}

// NewWorkflow starts in Pending. audit may be nil.
func NewWorkflow(gateway Gateway, intents IntentStore, customer Customer, audit repository.PaymentAttemptRepository, log *zap.Logger, opts Options) *Workflow {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 5 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 10
	}
	if opts.FinalizeTimeout <= 0 {
		opts.FinalizeTimeout = 30 * time.Second
	}

	lifetime, shutdown := context.WithCancel(context.Background())
	return &Workflow{
		gateway:  gateway,
		intents:  intents,
		customer: customer,
		audit:    audit,
		log:      log.With(zap.String("client_id", opts.ClientID)),
		opts:     opts,
		lifetime: lifetime,
		shutdown: shutdown,
		state:    Pending{},
		subs:     make(map[int]func(State)),
	}
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Active reports whether the status poll loop is running.
func (w *Workflow) Active() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stopPoll != nil
}

// Subscribe registers fn for every state change and returns the function that
// removes it.
func (w *Workflow) Subscribe(fn func(State)) func() {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.nextSub
	w.nextSub++
	w.subs[id] = fn

	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.subs, id)
	}
}

// Submit validates phone and initiates the push for the staged intent. An
// invalid phone leaves the workflow in Pending with a field error and makes no
// backend call. A failed initiation is reported through the Failed state, not
// the returned error.
func (w *Workflow) Submit(ctx context.Context, phone string) (State, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, ErrClosed
	}
	if _, ok := w.state.(Pending); !ok {
		w.mu.Unlock()
		return nil, ErrInProgress
	}

	if err := ValidatePhone(phone); err != nil {
		st := w.setLocked(Pending{FieldError: err.Error()})
		w.mu.Unlock()
		w.notify(st)
		return st, apperror.Validation(err.Error())
	}

	intent, err := w.intents.PendingOrder(ctx)
	if err != nil {
		w.mu.Unlock()
		return nil, fmt.Errorf("load pending order: %w", err)
	}
	if intent == nil {
		w.mu.Unlock()
		return nil, ErrNoIntent
	}

	w.intent = intent
	st := w.setLocked(Processing{})
	w.mu.Unlock()
	w.notify(st)

	return w.initiate(ctx, intent, NormalizePhone(phone)), nil
}

func (w *Workflow) initiate(ctx context.Context, intent *model.OrderIntent, phone string) State {
	row := &model.PaymentAttempt{
		ClientID:    w.opts.ClientID,
		ItemType:    string(intent.Type),
		ItemID:      intent.ItemID.String(),
		PhoneNumber: phone,
		Amount:      intent.TotalAmount,
		Status:      string(model.AttemptInitiated),
	}
	w.record(func(ctx context.Context) error {
		return w.audit.Create(ctx, row)
	})

	resp, err := w.gateway.InitiatePush(ctx, &client.PushRequest{
		PhoneNumber:      phone,
		Amount:           intent.TotalAmount,
		OrderType:        intent.Type,
		OrderID:          intent.ItemID,
		AccountReference: intent.AccountReference(),
		CallbackURL:      w.opts.CallbackURL,
	})

	var reason string
	switch {
	case err != nil:
		reason = apperror.Message(err)
		w.log.Warn("push initiation failed", zap.Error(err))
	case resp.RequestID() == "":
		reason = "failed to initiate payment"
		w.log.Warn("push initiation returned no checkout request id")
	}
	if reason == "" && row.ID != 0 {
		w.record(func(ctx context.Context) error {
			return w.audit.MarkInitiated(ctx, row.ID, resp.RequestID())
		})
	}

	w.mu.Lock()
	w.auditID = row.ID
	if _, ok := w.state.(Processing); !ok || w.closed {
		// closed while initiating
		st := w.state
		w.mu.Unlock()
		w.recordStatus(row.ID, model.AttemptFailed, 0, reasonCancelled)
		return st
	}

	if reason != "" {
		st := w.setLocked(Failed{Reason: reason})
		w.mu.Unlock()
		w.notify(st)
		w.recordStatus(row.ID, model.AttemptFailed, 0, reason)
		return st
	}

	attempt := &Attempt{
		CheckoutRequestID: resp.RequestID(),
		PhoneNumber:       phone,
		Amount:            intent.TotalAmount,
	}
	st := w.setLocked(Processing{Attempt: attempt})
	w.startPollingLocked(attempt.CheckoutRequestID)
	w.mu.Unlock()

	w.log.Info("push initiated", zap.String("checkout_request_id", attempt.CheckoutRequestID))
	w.notify(st)
	return st
}

func (w *Workflow) startPollingLocked(checkoutRequestID string) {
	ctx, cancel := context.WithCancel(w.lifetime)
	done := make(chan struct{})
	w.stopPoll = cancel
	w.pollDone = done

	go w.poll(ctx, done, checkoutRequestID)
}

// stopPollingLocked cancels the loop and returns the channel closed once the
// loop goroutine has exited.
func (w *Workflow) stopPollingLocked() <-chan struct{} {
	if w.stopPoll == nil {
		return nil
	}
	w.stopPoll()
	w.stopPoll = nil
	done := w.pollDone
	w.pollDone = nil
	return done
}

func (w *Workflow) poll(ctx context.Context, done chan struct{}, checkoutRequestID string) {
	defer close(done)

	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	w.tick(ctx, checkoutRequestID)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.tick(ctx, checkoutRequestID)
		}
	}
}

// tick starts a status check unless one is still outstanding.
func (w *Workflow) tick(ctx context.Context, checkoutRequestID string) {
	if ctx.Err() != nil {
		return
	}
	if !w.busy.CompareAndSwap(false, true) {
		w.log.Debug("status check still outstanding, tick skipped")
		return
	}
	go func() {
		defer w.busy.Store(false)
		w.check(ctx, checkoutRequestID)
	}()
}

func (w *Workflow) check(ctx context.Context, checkoutRequestID string) {
	resp, err := w.gateway.CheckStatus(ctx, checkoutRequestID)
	if ctx.Err() != nil {
		return
	}

	outcome, reason := OutcomePending, ""
	if err != nil {
		w.log.Warn("status check failed", zap.String("checkout_request_id", checkoutRequestID), zap.Error(err))
	} else {
		outcome, reason = Classify(resp)
	}

	switch outcome {
	case OutcomeSuccess:
		w.succeed(checkoutRequestID)
	case OutcomeFailed:
		w.fail(checkoutRequestID, reason)
	default:
		w.stillProcessing(checkoutRequestID)
	}
}

// currentLocked returns the attempt being polled when it is checkoutRequestID.
func (w *Workflow) currentLocked(checkoutRequestID string) (*Attempt, bool) {
	p, ok := w.state.(Processing)
	if !ok || p.Attempt == nil || p.Attempt.CheckoutRequestID != checkoutRequestID || w.finalizing {
		return nil, false
	}
	return p.Attempt, true
}

func (w *Workflow) stillProcessing(checkoutRequestID string) {
	w.mu.Lock()
	cur, ok := w.currentLocked(checkoutRequestID)
	if !ok {
		w.mu.Unlock()
		return
	}

	next := *cur
	next.Count++

	var st State
	var done <-chan struct{}
	status := model.AttemptProcessing
	reason := ""
	if next.Count >= w.opts.MaxAttempts {
		done = w.stopPollingLocked()
		st = w.setLocked(Failed{Reason: reasonTimeout, Attempt: &next})
		status = model.AttemptFailed
		reason = reasonTimeout
		w.log.Info("payment timed out", zap.String("checkout_request_id", checkoutRequestID), zap.Int("attempts", next.Count))
	} else {
		st = w.setLocked(Processing{Attempt: &next})
	}
	auditID := w.auditID
	w.mu.Unlock()

	waitStopped(done)
	w.notify(st)
	w.recordStatus(auditID, status, next.Count, reason)
}

func (w *Workflow) fail(checkoutRequestID, reason string) {
	w.mu.Lock()
	cur, ok := w.currentLocked(checkoutRequestID)
	if !ok {
		w.mu.Unlock()
		return
	}
	done := w.stopPollingLocked()
	attempt := *cur
	st := w.setLocked(Failed{Reason: reason, Attempt: &attempt})
	auditID := w.auditID
	w.mu.Unlock()

	waitStopped(done)
	w.log.Info("payment failed", zap.String("checkout_request_id", checkoutRequestID), zap.String("reason", reason))
	w.notify(st)
	w.recordStatus(auditID, model.AttemptFailed, attempt.Count, reason)
}

// succeed stops the loop and then finalizes. finalizing guards the single
// finalize per attempt.
func (w *Workflow) succeed(checkoutRequestID string) {
	w.mu.Lock()
	cur, ok := w.currentLocked(checkoutRequestID)
	if !ok {
		w.mu.Unlock()
		return
	}
	w.finalizing = true
	done := w.stopPollingLocked()
	attempt := *cur
	intent := w.intent
	auditID := w.auditID
	w.mu.Unlock()

	waitStopped(done)
	w.log.Info("payment confirmed, finalizing", zap.String("checkout_request_id", checkoutRequestID))

	ctx, cancel := context.WithTimeout(context.WithoutCancel(w.lifetime), w.opts.FinalizeTimeout)
	defer cancel()

	resp, err := w.finalize(ctx, intent, &attempt)
	if err != nil {
		w.log.Error("finalize failed after confirmed payment",
			zap.String("checkout_request_id", checkoutRequestID),
			zap.String("item_type", string(intent.Type)),
			zap.String("item_id", intent.ItemID.String()),
			zap.Error(err),
		)
		st := w.finish(Failed{
			Reason:           "payment received but the order could not be recorded: " + apperror.Message(err),
			Attempt:          &attempt,
			PaymentConfirmed: true,
		})
		w.notify(st)
		w.recordStatus(auditID, model.AttemptFinalizeFailed, attempt.Count, apperror.Message(err))
		return
	}

	if err := w.intents.ClearPendingOrder(ctx); err != nil {
		w.log.Warn("clear pending order", zap.Error(err))
	}
	st := w.finish(Succeeded{
		Attempt:      attempt,
		Confirmation: NewConfirmation(intent.Type, resp.Ref(), intent.Title),
	})
	w.notify(st)
	if auditID != 0 {
		w.record(func(ctx context.Context) error {
			return w.audit.MarkSucceeded(ctx, auditID, resp.Ref().String(), attempt.Count)
		})
	}
}

func (w *Workflow) finish(st State) State {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.finalizing = false
	return w.setLocked(st)
}

func (w *Workflow) finalize(ctx context.Context, intent *model.OrderIntent, attempt *Attempt) (*client.FinalizeResponse, error) {
	req := &client.FinalizeRequest{
		CheckoutRequestID: attempt.CheckoutRequestID,
		ItemType:          intent.Type,
		OrderDetails:      intent,
		PhoneNumber:       attempt.PhoneNumber,
	}

	var creds client.Credentials
	token, err := w.customer.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	if token != "" {
		creds = w.customer
		user, err := w.customer.User(ctx)
		if err != nil {
			return nil, fmt.Errorf("load user: %w", err)
		}
		if user != nil {
			req.UserID = user.ID
		}
	}

	if intent.Type == model.ItemTypeExhibition {
		return w.gateway.FinalizeTicket(ctx, creds, req)
	}
	return w.gateway.FinalizeOrder(ctx, creds, req)
}

// TryAgain returns a failed workflow to Pending with a clean attempt.
func (w *Workflow) TryAgain() (State, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, ErrClosed
	}
	f, ok := w.state.(Failed)
	if !ok {
		w.mu.Unlock()
		return nil, ErrNotRetrying
	}
	if f.PaymentConfirmed {
		w.mu.Unlock()
		return nil, ErrConfirmed
	}

	w.intent = nil
	w.auditID = 0
	st := w.setLocked(Pending{})
	w.mu.Unlock()

	w.notify(st)
	return st, nil
}

// Close stops polling and releases the workflow. A payment still in flight is
// marked cancelled; a finalize already under way is left to complete. Close is
// idempotent.
func (w *Workflow) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true

	done := w.stopPollingLocked()
	var st State
	p, processing := w.state.(Processing)
	if processing && !w.finalizing {
		st = w.setLocked(Failed{Reason: reasonCancelled, Attempt: p.Attempt})
	}
	auditID := w.auditID
	w.mu.Unlock()

	w.shutdown()
	waitStopped(done)

	if st != nil {
		count := 0
		if p.Attempt != nil {
			count = p.Attempt.Count
		}
		w.notify(st)
		w.recordStatus(auditID, model.AttemptFailed, count, reasonCancelled)
	}
}

func (w *Workflow) setLocked(st State) State {
	w.state = st
	return st
}

func (w *Workflow) notify(st State) {
	w.mu.Lock()
	fns := make([]func(State), 0, len(w.subs))
	for _, fn := range w.subs {
		fns = append(fns, fn)
	}
	w.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}

func (w *Workflow) recordStatus(id uint, status model.AttemptStatus, attempts int, reason string) {
	if id == 0 {
		return
	}
	w.record(func(ctx context.Context) error {
		return w.audit.UpdateStatus(ctx, id, status, attempts, reason)
	})
}

// record writes to the audit log. Audit failures are logged and never change
// the payment state.
func (w *Workflow) record(fn func(ctx context.Context) error) {
	if w.audit == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(w.lifetime), 5*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil && !errors.Is(err, context.Canceled) {
		w.log.Warn("payment audit write failed", zap.Error(err))
	}
}

func waitStopped(done <-chan struct{}) {
	if done != nil {
		<-done
	}
}
