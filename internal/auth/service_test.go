package auth

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	jwttoken "nidbridge/internal/jwt_token"
	"nidbridge/internal/platform/metrics"
	"nidbridge/internal/session"
	dErrors "nidbridge/pkg/domain-errors"
)

var testMetrics = metrics.New()

type AuthServiceSuite struct {
	suite.Suite
	sessions *session.Store
	service  *Service
}

func (s *AuthServiceSuite) SetupTest() {
	users := NewUserStore()
	s.Require().NoError(users.Add("operator", "hunter2-but-longer"))

	s.sessions = session.New()
	tokens := jwttoken.NewJWTService("test-signing-key", "nidbridge-test")
	s.service = NewService(users, s.sessions, tokens, time.Hour, slog.New(slog.DiscardHandler), testMetrics)
}

func (s *AuthServiceSuite) TestLoginCreatesSessionAndToken() {
	result, err := s.service.Login(context.Background(), "operator", "hunter2-but-longer", "Mozilla/5.0")

	s.Require().NoError(err)
	s.Require().NotEmpty(result.Token)
	s.Require().Equal(3600, result.ExpiresIn)
	s.Require().True(s.sessions.IsValid("operator"))
}

func (s *AuthServiceSuite) TestLoginWrongPassword() {
	_, err := s.service.Login(context.Background(), "operator", "wrong", "")

	s.Require().Error(err)
	s.Require().Equal(dErrors.CodeUnauthorized, dErrors.CodeOf(err))
	s.Require().False(s.sessions.IsValid("operator"))
}

func (s *AuthServiceSuite) TestLoginUnknownUserSameError() {
	_, knownErr := s.service.Login(context.Background(), "operator", "wrong", "")
	_, unknownErr := s.service.Login(context.Background(), "nobody", "wrong", "")

	s.Require().EqualError(unknownErr, knownErr.Error())
}

func (s *AuthServiceSuite) TestLogoutInvalidatesImmediately() {
	_, err := s.service.Login(context.Background(), "operator", "hunter2-but-longer", "")
	s.Require().NoError(err)

	s.service.Logout(context.Background(), "operator")

	s.Require().False(s.sessions.IsValid("operator"))
	// idempotent
	s.service.Logout(context.Background(), "operator")
}

func (s *AuthServiceSuite) TestRepeatLoginReplacesSession() {
	_, err := s.service.Login(context.Background(), "operator", "hunter2-but-longer", "")
	s.Require().NoError(err)
	_, err = s.service.Login(context.Background(), "operator", "hunter2-but-longer", "")
	s.Require().NoError(err)

	s.Require().Equal(1, s.sessions.Len())
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

func TestUserStoreVerify(t *testing.T) {
	users := NewUserStore()
	require.NoError(t, users.Add("alice", "correct horse battery staple"))

	require.NoError(t, users.Verify("alice", "correct horse battery staple"))
	require.Error(t, users.Verify("alice", "incorrect"))
	require.Error(t, users.Verify("bob", "anything"))
	require.Equal(t, 1, users.Len())
}
