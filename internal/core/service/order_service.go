package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/foodapp/storefront/internal/core/domain"
	"github.com/foodapp/storefront/internal/core/ports"
)

type orderService struct {
	orders ports.OrderBackend
	log    zerolog.Logger
}

// NewOrderService returns the OrderService.
func NewOrderService(orders ports.OrderBackend, log zerolog.Logger) ports.OrderService {
	return &orderService{orders: orders, log: log}
}

func isStaff(sess *domain.Session) bool { return sess.User.Role.CanAccess(domain.RoleStaff) }

func (s *orderService) Mine(ctx context.Context, sess *domain.Session) ([]domain.Order, error) {
	orders, err := s.orders.ListByUser(ctx, sess.UpstreamToken, sess.User.ID)
	if err != nil {
		return nil, fmt.Errorf("list my orders: %w", err)
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

func (s *orderService) Get(ctx context.Context, sess *domain.Session, id int64) (*domain.Order, error) {
	o, err := s.orders.Get(ctx, sess.UpstreamToken, id)
	if err != nil {
		return nil, translateNotFound(err, domain.ErrOrderNotFound)
	}
	if !isStaff(sess) && o.UserID != sess.User.ID {
		return nil, domain.ErrForbidden
	}
	return o, nil
}

func (s *orderService) Cancel(ctx context.Context, sess *domain.Session, id int64) (*domain.Order, error) {
	o, err := s.Get(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanTransitionTo(domain.StatusCancelled) {
		return nil, fmt.Errorf("cancel order %d: %w (from %s)", id, domain.ErrInvalidTransition, o.Status)
	}

	cancelled, err := s.orders.Cancel(ctx, sess.UpstreamToken, id)
	if err != nil {
		return nil, fmt.Errorf("cancel order %d: %w", id, err)
	}
	s.log.Info().Int64("order_id", id).Int64("user_id", sess.User.ID).Msg("order cancelled")
	return cancelled, nil
}

func (s *orderService) List(ctx context.Context, sess *domain.Session, status domain.OrderStatus) ([]domain.Order, error) {
	if !isStaff(sess) {
		return nil, domain.ErrForbidden
	}
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown order status %q", domain.ErrValidation, status)
	}
	orders, err := s.orders.List(ctx, sess.UpstreamToken, status)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, sess *domain.Session, id int64, status domain.OrderStatus) (*domain.Order, error) {
	if !isStaff(sess) {
		return nil, domain.ErrForbidden
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown order status %q", domain.ErrValidation, status)
	}

	o, err := s.Get(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("update order %d: %w (from %s to %s)", id, domain.ErrInvalidTransition, o.Status, status)
	}

	updated, err := s.orders.UpdateStatus(ctx, sess.UpstreamToken, id, status)
	if err != nil {
		return nil, fmt.Errorf("update order %d: %w", id, err)
	}
	s.log.Info().
		Int64("order_id", id).
		Int64("staff_id", sess.User.ID).
		Str("from", string(o.Status)).
		Str("to", string(status)).
		Msg("order status updated")
	return updated, nil
}
