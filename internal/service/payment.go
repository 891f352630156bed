package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"gallery-storefront/internal/apperror"
	"gallery-storefront/internal/config"
	"gallery-storefront/internal/dto"
	"gallery-storefront/internal/model"
	"gallery-storefront/internal/payment"
	"gallery-storefront/internal/repository"
	"gallery-storefront/internal/session"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var errAttemptNotFound = apperror.NotFound("payment attempt not found")

type PaymentService interface {
	Submit(ctx context.Context, clientID, phone string) (*dto.PaymentResponse, error)
	Status(ctx context.Context, clientID string) (*dto.PaymentResponse, error)
	TryAgain(ctx context.Context, clientID string) (*dto.PaymentResponse, error)
	Cancel(ctx context.Context, clientID string) (*dto.PaymentResponse, error)
	History(ctx context.Context, clientID string) ([]*model.PaymentAttempt, error)
	Attempt(ctx context.Context, clientID, checkoutRequestID string) (*model.PaymentAttempt, error)
	Close()
}

type paymentServiceImpl struct {
	gateway  payment.Gateway
	sessions *session.Registry
	audit    repository.PaymentAttemptRepository
	cfg      *config.Mpesa
	log      *zap.Logger

	mu          sync.Mutex
	workflows   map[string]*tracked
	unsubscribe func()
}

// tracked is a workflow plus the time it reached Succeeded or Failed, in unix
// nanoseconds, or zero while it is still open.
type tracked struct {
	wf         *payment.Workflow
	finishedAt atomic.Int64
}

func (t *tracked) observe(st payment.State) {
	switch st.(type) {
	case payment.Succeeded, payment.Failed:
		t.finishedAt.Store(time.Now().UnixNano())
	default:
		t.finishedAt.Store(0)
	}
}

// NewPaymentService keeps one workflow per client. It is torn down on cancel,
// on logout, or once it has been finished for longer than cfg.Retention.
func NewPaymentService(gateway payment.Gateway, sessions *session.Registry, audit repository.PaymentAttemptRepository, cfg *config.Mpesa, log *zap.Logger) PaymentService {
	s := &paymentServiceImpl{
		gateway:   gateway,
		sessions:  sessions,
		audit:     audit,
		cfg:       cfg,
		log:       log.Named("payment"),
		workflows: make(map[string]*tracked),
	}
	s.unsubscribe = sessions.Subscribe(func(e session.Event) {
		if e.Kind == session.LoggedOut {
			s.discard(e.ClientID)
		}
	})
	return s
}

// workflow returns the client's workflow, starting a fresh one when there is
// none or the last one finished.
func (s *paymentServiceImpl) workflow(clientID string) *payment.Workflow {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(time.Now())

	if t, ok := s.workflows[clientID]; ok {
		if _, done := t.wf.State().(payment.Succeeded); !done {
			return t.wf
		}
		t.wf.Close()
	}

	sess := s.sessions.Get(clientID)
	wf := payment.NewWorkflow(s.gateway, sess.Store(), sess, s.audit, s.log, payment.Options{
		ClientID:        clientID,
		CallbackURL:     s.cfg.CallbackURL,
		PollInterval:    s.cfg.PollInterval,
		MaxAttempts:     s.cfg.MaxPollAttempts,
		FinalizeTimeout: s.cfg.FinalizeTimeout,
	})
	t := &tracked{wf: wf}
	wf.Subscribe(t.observe)
	s.workflows[clientID] = t
	return wf
}

func (s *paymentServiceImpl) lookup(clientID string) (*payment.Workflow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(time.Now())

	t, ok := s.workflows[clientID]
	if !ok {
		return nil, false
	}
	return t.wf, true
}

// pruneLocked drops every workflow that finished more than cfg.Retention ago.
func (s *paymentServiceImpl) pruneLocked(now time.Time) {
	if s.cfg.Retention <= 0 {
		return
	}
	for clientID, t := range s.workflows {
		at := t.finishedAt.Load()
		if at == 0 || now.Sub(time.Unix(0, at)) <= s.cfg.Retention {
			continue
		}
		delete(s.workflows, clientID)
		t.wf.Close()
		s.log.Debug("finished payment workflow dropped", zap.String("client_id", clientID))
	}
}

func (s *paymentServiceImpl) discard(clientID string) *payment.Workflow {
	s.mu.Lock()
	t, ok := s.workflows[clientID]
	delete(s.workflows, clientID)
	s.mu.Unlock()

	if !ok {
		return nil
	}
	t.wf.Close()
	s.log.Info("payment workflow closed", zap.String("client_id", clientID))
	return t.wf
}

func (s *paymentServiceImpl) Submit(ctx context.Context, clientID, phone string) (*dto.PaymentResponse, error) {
	wf := s.workflow(clientID)

	// A confirmed payment is never started again; TryAgain refuses it.
	if _, ok := wf.State().(payment.Failed); ok {
		if _, err := wf.TryAgain(); err != nil {
			return nil, err
		}
	}

	if _, err := wf.Submit(ctx, phone); err != nil {
		return nil, err
	}
	return response(wf), nil
}

func (s *paymentServiceImpl) Status(_ context.Context, clientID string) (*dto.PaymentResponse, error) {
	wf, ok := s.lookup(clientID)
	if !ok {
		return &dto.PaymentResponse{View: payment.ViewOf(payment.Pending{})}, nil
	}
	return response(wf), nil
}

func (s *paymentServiceImpl) TryAgain(_ context.Context, clientID string) (*dto.PaymentResponse, error) {
	wf, ok := s.lookup(clientID)
	if !ok {
		return nil, payment.ErrNotRetrying
	}
	if _, err := wf.TryAgain(); err != nil {
		return nil, err
	}
	return response(wf), nil
}

func (s *paymentServiceImpl) Cancel(_ context.Context, clientID string) (*dto.PaymentResponse, error) {
	wf := s.discard(clientID)
	if wf == nil {
		return &dto.PaymentResponse{View: payment.ViewOf(payment.Pending{})}, nil
	}
	return response(wf), nil
}

func (s *paymentServiceImpl) History(ctx context.Context, clientID string) ([]*model.PaymentAttempt, error) {
	return s.audit.ListByClient(ctx, clientID)
}

// Attempt returns one audited attempt by its checkout request id. Attempts of
// other clients are reported as not found.
func (s *paymentServiceImpl) Attempt(ctx context.Context, clientID, checkoutRequestID string) (*model.PaymentAttempt, error) {
	attempt, err := s.audit.FindByCheckoutRequestID(ctx, checkoutRequestID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errAttemptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find payment attempt: %w", err)
	}
	if attempt.ClientID != clientID {
		return nil, errAttemptNotFound
	}
	return attempt, nil
}

// Close stops every running workflow.
func (s *paymentServiceImpl) Close() {
	s.unsubscribe()

	s.mu.Lock()
	workflows := s.workflows
	s.workflows = make(map[string]*tracked)
	s.mu.Unlock()

	for _, t := range workflows {
		t.wf.Close()
	}
}

func response(wf *payment.Workflow) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		View:   payment.ViewOf(wf.State()),
		Active: wf.Active(),
	}
}
