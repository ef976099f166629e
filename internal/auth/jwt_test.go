package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yuqie6/trainerhub/internal/errors"
)

func TestIssueAndVerify(t *testing.T) {
	issuer, err := NewIssuer("test-secret", "trainerhub", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue(42)
	require.NoError(t, err)

	userID, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	issuer, err := NewIssuer("test-secret", "trainerhub", time.Hour)
	require.NoError(t, err)
	good, err := issuer.Issue(1)
	require.NoError(t, err)

	other, err := NewIssuer("other-secret", "trainerhub", time.Hour)
	require.NoError(t, err)
	wrongKey, err := other.Issue(1)
	require.NoError(t, err)

	foreign, err := NewIssuer("test-secret", "someone-else", time.Hour)
	require.NoError(t, err)
	wrongIssuer, err := foreign.Issue(1)
	require.NoError(t, err)

	expiredIssuer, err := NewIssuer("test-secret", "trainerhub", time.Hour)
	require.NoError(t, err)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredIssuer.Issue(1)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "1",
		Issuer:    "trainerhub",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "ash",
		Issuer:    "trainerhub",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	cases := map[string]string{
		"empty":        "",
		"garbage":      "not-a-token",
		"wrong key":    wrongKey,
		"wrong issuer": wrongIssuer,
		"expired":      expired,
		"alg none":     unsigned,
		"bad subject":  badSubject,
		"truncated":    good[:len(good)-4],
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := issuer.Verify(token)
			require.Error(t, err)
			assert.Equal(t, apperrors.CodeUnauthenticated, apperrors.GetCode(err))
		})
	}
}

func TestIssueRejectsInvalidUser(t *testing.T) {
	issuer, err := NewIssuer("test-secret", "trainerhub", 0)
	require.NoError(t, err)
	_, err = issuer.Issue(0)
	assert.True(t, apperrors.IsInvalidArgument(err))

	_, err = NewIssuer("", "trainerhub", time.Hour)
	assert.Error(t, err)
}

func TestEphemeralIssuer(t *testing.T) {
	a, err := NewEphemeralIssuer("trainerhub", time.Hour)
	require.NoError(t, err)
	b, err := NewEphemeralIssuer("trainerhub", time.Hour)
	require.NoError(t, err)

	token, err := a.Issue(5)
	require.NoError(t, err)
	_, err = b.Verify(token)
	assert.Error(t, err, "tokens must not verify across random keys")
}

func TestOwnerContext(t *testing.T) {
	_, ok := OwnerFromContext(context.Background())
	assert.False(t, ok)

	id, ok := OwnerFromContext(WithOwner(context.Background(), 9))
	assert.True(t, ok)
	assert.Equal(t, int64(9), id)
}
