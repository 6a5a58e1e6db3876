package auth

import (
	"context"
	"log/slog"
	"time"

	jwttoken "nidbridge/internal/jwt_token"
	"nidbridge/internal/platform/metrics"
	"nidbridge/internal/session"
	dErrors "nidbridge/pkg/domain-errors"
)

// LoginResult is what a successful local login yields.
type LoginResult struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// Service verifies operator credentials and manages the session lifecycle.
// The JWT is a bearer proof only; the session store stays authoritative, so
// logout takes effect immediately regardless of token expiry.
type Service struct {
	users      *UserStore
	sessions   *session.Store
	tokens     *jwttoken.JWTService
	sessionTTL time.Duration
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

func NewService(users *UserStore, sessions *session.Store, tokens *jwttoken.JWTService, sessionTTL time.Duration, logger *slog.Logger, m *metrics.Metrics) *Service {
	if sessionTTL <= 0 {
		sessionTTL = session.DefaultTTL
	}
	return &Service{
		users:      users,
		sessions:   sessions,
		tokens:     tokens,
		sessionTTL: sessionTTL,
		logger:     logger,
		metrics:    m,
	}
}

// Login verifies credentials, records a session and mints a token bound to
// the same lifetime. A repeat login replaces the existing session.
func (s *Service) Login(ctx context.Context, username, password, rawUserAgent string) (LoginResult, error) {
	if err := s.users.Verify(username, password); err != nil {
		s.metrics.LoginsTotal.WithLabelValues("denied").Inc()
		s.logger.WarnContext(ctx, "login denied", "username", username)
		return LoginResult{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := s.tokens.GenerateSessionToken(username, s.sessionTTL)
	if err != nil {
		s.metrics.LoginsTotal.WithLabelValues("error").Inc()
		return LoginResult{}, dErrors.Wrap(dErrors.CodeInternal, "mint session token", err)
	}

	s.sessions.Create(username, s.sessionTTL, rawUserAgent)
	s.metrics.LoginsTotal.WithLabelValues("ok").Inc()
	s.metrics.ActiveSessions.Set(float64(s.sessions.Len()))
	s.logger.InfoContext(ctx, "login", "username", username)

	return LoginResult{
		Token:     token,
		ExpiresIn: int(s.sessionTTL.Seconds()),
	}, nil
}

// Logout removes the session for username. Idempotent; logging out twice is
// not an error.
func (s *Service) Logout(ctx context.Context, username string) {
	s.sessions.Remove(username)
	s.metrics.ActiveSessions.Set(float64(s.sessions.Len()))
	s.logger.InfoContext(ctx, "logout", "username", username)
}
