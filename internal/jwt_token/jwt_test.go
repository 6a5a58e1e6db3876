package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	dErrors "nidbridge/pkg/domain-errors"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-signing-key", "nidbridge")

	token, err := svc.GenerateSessionToken("operator1", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "operator1", claims.Username)
	require.Equal(t, "nidbridge", claims.Issuer)
	require.NotEmpty(t, claims.ID)
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := NewJWTService("test-signing-key", "nidbridge")

	token, err := svc.GenerateSessionToken("operator1", -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	require.Equal(t, dErrors.CodeUnauthorized, dErrors.CodeOf(err))
}

func TestForeignKeyRejected(t *testing.T) {
	minter := NewJWTService("key-a", "nidbridge")
	verifier := NewJWTService("key-b", "nidbridge")

	token, err := minter.GenerateSessionToken("operator1", time.Hour)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	require.Error(t, err)
	require.Equal(t, dErrors.CodeUnauthorized, dErrors.CodeOf(err))
}
