package service

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/hkdf"

	"github.com/foodapp/storefront/internal/core/domain"
	"github.com/foodapp/storefront/internal/core/ports"
)

const tokenKeyInfo = "storefront/session-token/v1"

// sessionClaims are the claims of the client-facing session token.
type sessionClaims struct {
	SessionID string      `json:"sid"`
	Role      domain.Role `json:"role"`
	jwt.RegisteredClaims
}

type sessionService struct {
	users ports.UserDirectory
	store ports.SessionStore
	key   []byte
	ttl   time.Duration
	now   func() time.Time
	log   zerolog.Logger
}

// NewSessionService returns a SessionService signing tokens with a key
// derived from secret.
func NewSessionService(users ports.UserDirectory, store ports.SessionStore, secret string, ttl time.Duration, log zerolog.Logger) ports.SessionService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &sessionService{
		users: users,
		store: store,
		key:   deriveTokenKey(secret),
		ttl:   ttl,
		now:   func() time.Time { return time.Now().UTC() },
		log:   log,
	}
}

func deriveTokenKey(secret string) []byte {
	key := make([]byte, 32)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(tokenKeyInfo))
	if _, err := io.ReadFull(r, key); err != nil {
		panic(fmt.Sprintf("derive token key: %v", err))
	}
	return key
}

func (s *sessionService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	user, upstreamToken, err := s.users.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if user.EffectiveStatus() == domain.UserBlocked {
		return nil, fmt.Errorf("login: %w: account is blocked", domain.ErrForbidden)
	}
	return s.open(ctx, user, upstreamToken)
}

func (s *sessionService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	if _, err := s.users.Register(ctx, in); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return s.Login(ctx, in.Email, in.Password)
}

// open stores a new session and signs its token.
func (s *sessionService) open(ctx context.Context, user *domain.User, upstreamToken string) (*ports.AuthResult, error) {
	now := s.now()
	sess := &domain.Session{
		ID:            uuid.NewString(),
		User:          *user,
		UpstreamToken: upstreamToken,
		CreatedAt:     now,
		ExpiresAt:     now.Add(s.ttl),
	}
	if err := s.store.Save(ctx, sess, s.ttl); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	claims := sessionClaims{
		SessionID: sess.ID,
		Role:      user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	s.log.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("session opened")
	return &ports.AuthResult{Token: token, ExpiresAt: sess.ExpiresAt, Session: sess}, nil
}

func (s *sessionService) Logout(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (s *sessionService) Current(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Expired(s.now()) {
		return nil, domain.ErrSessionExpired
	}
	return sess, nil
}

func (s *sessionService) Validate(ctx context.Context, token string) (*domain.Session, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid || claims.SessionID == "" {
		return nil, domain.ErrUnauthorized
	}

	sess, err := s.Current(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if strconv.FormatInt(sess.User.ID, 10) != claims.Subject {
		return nil, domain.ErrUnauthorized
	}
	return sess, nil
}

func (s *sessionService) UpdateProfile(ctx context.Context, sess *domain.Session, in ports.ProfileInput) (*domain.Session, error) {
	updated, err := s.users.UpdateProfile(ctx, sess.UpstreamToken, sess.User.ID, in)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	next := *sess
	next.User = *updated
	ttl := next.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil, domain.ErrSessionExpired
	}
	if err := s.store.Save(ctx, &next, ttl); err != nil {
		return nil, fmt.Errorf("update profile: save session: %w", err)
	}
	return &next, nil
}

func (s *sessionService) Watch(ctx context.Context, sessionID string, interval time.Duration, onGone func()) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, err := s.Current(ctx, sessionID)
			switch {
			case errors.Is(err, domain.ErrSessionExpired):
				s.log.Info().Str("session", sessionID).Msg("session gone, closing watcher")
				onGone()
				return
			case err != nil && ctx.Err() == nil:
				s.log.Warn().Err(err).Str("session", sessionID).Msg("session check failed")
			}
		}
	}
}
