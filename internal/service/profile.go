package service

import (
	"context"

	"gallery-storefront/internal/apperror"
	"gallery-storefront/internal/client"
	"gallery-storefront/internal/dto"
	"gallery-storefront/internal/model"
	"gallery-storefront/internal/session"
)

type ProfileService interface {
	Orders(ctx context.Context, clientID string) ([]*model.Order, error)
	Tickets(ctx context.Context, clientID string) ([]*model.Ticket, error)
	Confirmation(ctx context.Context, clientID string, q *dto.ConfirmationQuery) (*dto.ConfirmationResponse, error)
}

type profileServiceImpl struct {
	gallery  client.GalleryClient
	sessions *session.Registry
}

func NewProfileService(gallery client.GalleryClient, sessions *session.Registry) ProfileService {
	return &profileServiceImpl{
		gallery:  gallery,
		sessions: sessions,
	}
}

func (s *profileServiceImpl) Orders(ctx context.Context, clientID string) ([]*model.Order, error) {
	sess := s.sessions.Get(clientID)
	userID, err := s.userID(ctx, sess)
	if err != nil {
		return nil, err
	}

	var orders []*model.Order
	if userID == "" {
		orders, err = s.gallery.ListOrders(ctx, sess)
	} else {
		orders, err = s.gallery.ListUserOrders(ctx, sess, userID)
	}
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []*model.Order{}
	}
	return orders, nil
}

func (s *profileServiceImpl) Tickets(ctx context.Context, clientID string) ([]*model.Ticket, error) {
	sess := s.sessions.Get(clientID)
	userID, err := s.userID(ctx, sess)
	if err != nil {
		return nil, err
	}

	var tickets []*model.Ticket
	if userID == "" {
		tickets, err = s.gallery.ListTickets(ctx, sess)
	} else {
		tickets, err = s.gallery.ListUserTickets(ctx, sess, userID)
	}
	if err != nil {
		return nil, err
	}
	if tickets == nil {
		tickets = []*model.Ticket{}
	}
	return tickets, nil
}

// userID fails with ErrNotLoggedIn for anonymous clients.
func (s *profileServiceImpl) userID(ctx context.Context, sess *session.Session) (model.ID, error) {
	authed, err := sess.Authenticated(ctx)
	if err != nil {
		return "", err
	}
	if !authed {
		return "", apperror.ErrNotLoggedIn
	}
	return sess.Store().UserID(ctx)
}

// Confirmation fills the success page. The extra lookup is best effort: a
// guest checkout has no token, so the page still renders from the query alone.
func (s *profileServiceImpl) Confirmation(ctx context.Context, clientID string, q *dto.ConfirmationQuery) (*dto.ConfirmationResponse, error) {
	resp := &dto.ConfirmationResponse{
		Type:    model.ItemType(q.Type),
		OrderID: model.ID(q.OrderID),
		Title:   q.Title,
	}

	sess := s.sessions.Get(clientID)
	authed, err := sess.Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	if !authed {
		return resp, nil
	}

	switch resp.Type {
	case model.ItemTypeExhibition:
		ticket, err := s.gallery.GenerateTicket(ctx, sess, resp.OrderID)
		if err != nil {
			return nil, err
		}
		resp.Ticket = ticket
		resp.TicketCode = ticket.TicketCode
	default:
		order, err := s.gallery.GetOrder(ctx, sess, resp.OrderID, model.ItemTypeArtwork)
		if err != nil {
			return nil, err
		}
		resp.Order = order
		if resp.Title == "" {
			resp.Title = order.ItemTitle
		}
	}
	return resp, nil
}
