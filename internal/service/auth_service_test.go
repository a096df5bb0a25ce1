package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	t.Setenv("REVIEWER_USERNAME", "reviewer")
	t.Setenv("REVIEWER_PASSWORD", "letmein")
	t.Setenv("JWT_SECRET", "test-secret")
	svc := NewAuthService()

	t.Run("valid credentials issue a token", func(t *testing.T) {
		resp, err := svc.Login("reviewer", "letmein")
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.NotEmpty(t, resp.ReviewerID)

		claims, err := svc.ValidateToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, resp.ReviewerID, claims.ReviewerID)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		_, err := svc.Login("reviewer", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
