package jwt_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/ysaito/personal-calendar/internal/pkg/jwt"
)

func TestTokenRoundTrip(t *testing.T) {
	m := jwt.NewManager("test-secret", time.Minute)

	token, err := m.CreateToken(42)
	require.NoError(t, err)

	id, err := m.GetIdFromToken(token)
	require.NoError(t, err)
	require.EqualValues(t, 42, id)
}

func TestInvalidTokens(t *testing.T) {
	m := jwt.NewManager("test-secret", time.Minute)

	t.Run("garbage", func(t *testing.T) {
		_, err := m.GetIdFromToken("not-a-token")
		requireInvalid(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := jwt.NewManager("other-secret", time.Minute).CreateToken(42)
		require.NoError(t, err)

		_, err = m.GetIdFromToken(token)
		requireInvalid(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := jwt.NewManager("test-secret", -time.Minute).CreateToken(42)
		require.NoError(t, err)

		_, err = m.GetIdFromToken(token)
		requireInvalid(t, err)
	})
}

func requireInvalid(t *testing.T, err error) {
	t.Helper()

	invalidTokenErr := &jwt.InvalidTokenError{}
	require.True(t, errors.As(err, &invalidTokenErr), "expected InvalidTokenError, got %v", err)
}
