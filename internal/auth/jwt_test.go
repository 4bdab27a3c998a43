package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kvcache/internal/config"
)

func testIssuer() *Issuer {
	return NewIssuer(config.AuthConfig{
		Secret:   "test-secret",
		Issuer:   "kvcache",
		Audience: "kvcache-clients",
		TokenTTL: time.Hour,
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	issuer := testIssuer()

	token, err := issuer.GenerateToken("svc-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "svc-1", claims.ClientID)
	require.Equal(t, "svc-1", claims.Subject)
}

func TestValidateToken_Invalid(t *testing.T) {
	_, err := testIssuer().ValidateToken("invalid.token")
	require.Error(t, err)
}

func TestValidateToken_WrongAudience(t *testing.T) {
	other := NewIssuer(config.AuthConfig{
		Secret:   "test-secret",
		Issuer:   "kvcache",
		Audience: "someone-else",
		TokenTTL: time.Hour,
	})

	token, err := other.GenerateToken("svc-1")
	require.NoError(t, err)

	_, err = testIssuer().ValidateToken(token)
	require.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	issuer := testIssuer()
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := issuer.GenerateToken("svc-1")
	require.NoError(t, err)

	_, err = testIssuer().ValidateToken(token)
	require.Error(t, err)
}

func TestIssuer_Disabled(t *testing.T) {
	issuer := NewIssuer(config.AuthConfig{Issuer: "kvcache", Audience: "x", TokenTTL: time.Hour})

	_, err := issuer.GenerateToken("svc-1")
	require.ErrorIs(t, err, ErrAuthDisabled)

	_, err = issuer.ValidateToken("whatever")
	require.ErrorIs(t, err, ErrAuthDisabled)
}
