package service

import (
	"context"

	"gallery-storefront/internal/client"
	"gallery-storefront/internal/dto"
	"gallery-storefront/internal/model"

	"go.uber.org/zap"
)

type ContactService interface {
	Submit(ctx context.Context, req *dto.ContactRequest) (*dto.MessageResponse, error)
}

type contactServiceImpl struct {
	gallery client.GalleryClient
	log     *zap.Logger
}

func NewContactService(gallery client.GalleryClient, log *zap.Logger) ContactService {
	return &contactServiceImpl{
		gallery: gallery,
		log:     log.Named("contact"),
	}
}

func (s *contactServiceImpl) Submit(ctx context.Context, req *dto.ContactRequest) (*dto.MessageResponse, error) {
	err := s.gallery.SubmitContact(ctx, &model.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
		Source:  model.SourceContactForm,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("contact message submitted", zap.String("email", req.Email))
	return &dto.MessageResponse{Message: "Thank you for your message. We'll get back to you soon."}, nil
}
