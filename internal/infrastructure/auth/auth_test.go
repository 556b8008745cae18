package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tjrates-service/internal/domain"
)

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	tokens := NewTokens("test-secret", time.Hour)
	u := domain.User{ID: 7, Username: "worker", Role: domain.RoleCityWorker, CityName: "Худжанд"}

	raw, err := tokens.Issue(u)
	require.NoError(t, err)

	claims, err := tokens.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, int64(7), claims.UserID)
	require.Equal(t, "city_worker", claims.Role)
	require.Equal(t, "Худжанд", claims.City)
	require.Equal(t, "worker", claims.Subject)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	raw, err := NewTokens("secret-a", time.Hour).Issue(domain.User{ID: 1})
	require.NoError(t, err)

	_, err = NewTokens("secret-b", time.Hour).Verify(raw)
	require.Error(t, err)
}

func TestVerifyRejectsExpired(t *testing.T) {
	t.Parallel()

	tokens := NewTokens("test-secret", -time.Minute)
	raw, err := tokens.Issue(domain.User{ID: 1})
	require.NoError(t, err)

	_, err = tokens.Verify(raw)
	require.Error(t, err)
}

func TestBcryptHasher(t *testing.T) {
	t.Parallel()

	h := BcryptHasher{}
	hash, err := h.Hash("s3cretpass")
	require.NoError(t, err)
	require.NotEqual(t, "s3cretpass", hash)

	require.NoError(t, h.Verify(hash, "s3cretpass"))
	require.Error(t, h.Verify(hash, "wrong"))
}
