package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gallery-storefront/internal/client"
	"gallery-storefront/internal/dto"
	"gallery-storefront/internal/faq"
	"gallery-storefront/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ChatService interface {
	Greeting() *dto.ChatReply
	Ask(ctx context.Context, req *dto.ChatRequest) *dto.ChatReply
	Handoff(ctx context.Context, req *dto.HandoffRequest) (*dto.MessageResponse, error)
}

type chatServiceImpl struct {
	matcher     *faq.Matcher
	relay       client.RelayClient
	gallery     client.GalleryClient
	adminNumber string
	log         *zap.Logger
}

func NewChatService(matcher *faq.Matcher, relay client.RelayClient, gallery client.GalleryClient, adminNumber string, log *zap.Logger) ChatService {
	return &chatServiceImpl{
		matcher:     matcher,
		relay:       relay,
		gallery:     gallery,
		adminNumber: adminNumber,
		log:         log.Named("chat"),
	}
}

func (s *chatServiceImpl) Greeting() *dto.ChatReply {
	return &dto.ChatReply{
		ID:      uuid.NewString(),
		Answer:  faq.Greeting,
		Matched: true,
	}
}

func (s *chatServiceImpl) Ask(_ context.Context, req *dto.ChatRequest) *dto.ChatReply {
	entry, ok := s.matcher.Match(req.Message)
	if !ok {
		return &dto.ChatReply{
			ID:      uuid.NewString(),
			Answer:  faq.HandoffPrompt,
			Handoff: true,
		}
	}
	return &dto.ChatReply{
		ID:       uuid.NewString(),
		Question: entry.Question,
		Answer:   entry.Answer,
		Matched:  true,
	}
}

// Handoff sends the visitor's details to the gallery's WhatsApp inbox and to
// the backend message list. Both are attempted even if one fails.
func (s *chatServiceImpl) Handoff(ctx context.Context, req *dto.HandoffRequest) (*dto.MessageResponse, error) {
	var errs []error

	if err := s.relay.Send(ctx, handoffMessage(req)); err != nil {
		s.log.Error("relay handoff", zap.String("email", req.Email), zap.Error(err))
		errs = append(errs, fmt.Errorf("send to whatsapp: %w", err))
	}

	err := s.gallery.SubmitContact(ctx, &model.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
		Source:  model.SourceChatBot,
	})
	if err != nil {
		s.log.Error("store handoff", zap.String("email", req.Email), zap.Error(err))
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	s.log.Info("chat handed off", zap.String("email", req.Email))
	return &dto.MessageResponse{
		Message: fmt.Sprintf("Thank you! Your information has been sent to our team. We'll get back to you as soon as possible via WhatsApp (%s) or email.", s.adminNumber),
	}, nil
}

func handoffMessage(req *dto.HandoffRequest) string {
	var b strings.Builder
	b.WriteString("New customer inquiry:\n")
	fmt.Fprintf(&b, "Name: %s\n", req.Name)
	fmt.Fprintf(&b, "Email: %s\n", req.Email)
	fmt.Fprintf(&b, "Phone: %s\n", req.Phone)
	fmt.Fprintf(&b, "Message: %s", req.Message)
	return b.String()
}
