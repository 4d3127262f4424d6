package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/foodapp/storefront/internal/core/domain"
	"github.com/foodapp/storefront/internal/core/ports"
)

const (
	defaultUserPage  = 1
	defaultUserLimit = 50
	noReasonGiven    = "No reason provided"
)

type adminUserService struct {
	users ports.UserDirectory
	audit ports.AuditLog
	now   func() time.Time
	log   zerolog.Logger
}

// NewAdminUserService returns the AdminUserService.
func NewAdminUserService(users ports.UserDirectory, audit ports.AuditLog, log zerolog.Logger) ports.AdminUserService {
	return &adminUserService{
		users: users,
		audit: audit,
		now:   func() time.Time { return time.Now().UTC() },
		log:   log,
	}
}

// List forwards the filter to the user service. Pagination totals are derived
// from the returned list, not from the upstream's own paging.
func (s *adminUserService) List(ctx context.Context, token string, f ports.UserFilter) (*ports.UserPage, error) {
	if f.Page < 1 {
		f.Page = defaultUserPage
	}
	if f.Limit < 1 {
		f.Limit = defaultUserLimit
	}
	if strings.EqualFold(f.Role, "all") {
		f.Role = ""
	}
	if strings.EqualFold(f.Status, "all") {
		f.Status = ""
	}

	users, err := s.users.ListUsers(ctx, token, f)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []domain.User{}
	}

	total := len(users)
	return &ports.UserPage{
		Users: users,
		Pagination: ports.Pagination{
			CurrentPage:  f.Page,
			TotalPages:   (total + f.Limit - 1) / f.Limit,
			TotalItems:   total,
			ItemsPerPage: f.Limit,
		},
	}, nil
}

func (s *adminUserService) SetStatus(ctx context.Context, actor *domain.Session, in ports.StatusUpdateInput) (*domain.User, error) {
	if in.UserID < 1 {
		return nil, fmt.Errorf("%w: userId must be a positive number", domain.ErrValidation)
	}
	if !in.Status.Valid() {
		return nil, fmt.Errorf("%w: status must be ACTIVE or BLOCKED", domain.ErrValidation)
	}

	current, err := s.users.GetUser(ctx, actor.UpstreamToken, in.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("fetch user %d: %w", in.UserID, err)
	}

	if current.Role == domain.RoleAdmin && in.Status == domain.UserBlocked {
		return nil, domain.ErrCannotBlockAdmin
	}
	previous := current.EffectiveStatus()
	if previous == in.Status {
		return current, domain.ErrNoChangeNeeded
	}

	now := s.now()
	updated, err := s.users.UpdateStatus(ctx, actor.UpstreamToken, in.UserID, ports.StatusChange{
		Status:    in.Status,
		Reason:    in.Reason,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("update user %d status: %w", in.UserID, err)
	}

	reason := in.Reason
	if reason == "" {
		reason = noReasonGiven
	}
	s.audit.Record(ctx, domain.StatusAudit{
		UserID:         current.ID,
		UserEmail:      current.Email,
		PreviousStatus: previous,
		NewStatus:      in.Status,
		Reason:         reason,
		ActorID:        actor.User.ID,
		Timestamp:      now,
	})

	if updated == nil {
		u := *current
		u.Status = in.Status
		updated = &u
	}
	return updated, nil
}
