package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyo/product-approval/internal/adapter/auth"
	"github.com/moyo/product-approval/internal/core/domain"
)

const signingKey = "test-signing-key"

func newService(t *testing.T) auth.Service {
	t.Helper()
	s, err := auth.NewService(signingKey)
	require.NoError(t, err)
	return s
}

func TestNewService(t *testing.T) {
	t.Run("EmptyKey", func(t *testing.T) {
		_, err := auth.NewService("")
		require.Error(t, err)
	})
}

func TestLogin(t *testing.T) {
	s := newService(t)

	t.Run("Capturer", func(t *testing.T) {
		session, err := s.Login(t.Context(), "capturer@test.com", "test123")
		require.NoError(t, err)
		assert.Equal(t, "capturer@test.com", session.Email)
		assert.Equal(t, domain.RoleCapturer, session.Role)
		assert.NotEmpty(t, session.Token)
	})

	t.Run("Manager", func(t *testing.T) {
		session, err := s.Login(t.Context(), "manager@test.com", "test123")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleManager, session.Role)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		_, err := s.Login(t.Context(), "stranger@test.com", "test123")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, err := s.Login(t.Context(), "capturer@test.com", "nope")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestResolveRole(t *testing.T) {
	s := newService(t)

	t.Run("RoundTrip", func(t *testing.T) {
		session, err := s.Login(t.Context(), "manager@test.com", "test123")
		require.NoError(t, err)

		role, err := s.ResolveRole(session.Token)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleManager, role)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := s.ResolveRole("not-a-token")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("WrongKey", func(t *testing.T) {
		other, err := auth.NewService("another-key")
		require.NoError(t, err)

		session, err := other.Login(t.Context(), "capturer@test.com", "test123")
		require.NoError(t, err)

		_, err = s.ResolveRole(session.Token)
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}
