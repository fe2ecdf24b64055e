package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-jwt-secret"

type stubResolver struct {
	calls  int
	userID string
	err    error
}

func (s *stubResolver) ResolveUser(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.userID, s.err
}

func signedToken(t *testing.T, secret, subject string, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

// unverifiableToken builds a syntactically valid JWT declaring an
// arbitrary algorithm, with a garbage signature. Only the header needs
// to parse: these tokens must always take the delegated path.
func unverifiableToken(t *testing.T, alg, subject string) string {
	t.Helper()
	encode := func(v any) string {
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		return base64.RawURLEncoding.EncodeToString(raw)
	}
	header := encode(map[string]string{"alg": alg, "typ": "JWT"})
	body := encode(map[string]any{"sub": subject, "exp": time.Now().Add(time.Hour).Unix()})
	return header + "." + body + "." + base64.RawURLEncoding.EncodeToString([]byte("sig"))
}

func TestVerifyLocalHS256(t *testing.T) {
	verifier := NewVerifier(testSecret)
	resolver := &stubResolver{userID: "should-not-be-used"}
	token := signedToken(t, testSecret, "user-123", time.Now().Add(time.Hour))

	principal, err := verifier.Verify(context.Background(), token, resolver)
	require.NoError(t, err)
	require.Equal(t, "user-123", principal.UserID)
	require.Equal(t, token, principal.AccessToken)
	require.Zero(t, resolver.calls, "local verification must not hit the identity provider")
}

func TestVerifyExpiredHS256(t *testing.T) {
	verifier := NewVerifier(testSecret)
	token := signedToken(t, testSecret, "user-123", time.Now().Add(-time.Minute))

	_, err := verifier.Verify(context.Background(), token, &stubResolver{})
	require.ErrorIs(t, err, ErrInvalidToken)
	require.Contains(t, err.Error(), "expired")
}

func TestVerifyWrongSecret(t *testing.T) {
	verifier := NewVerifier(testSecret)
	token := signedToken(t, "other-secret", "user-123", time.Now().Add(time.Hour))

	_, err := verifier.Verify(context.Background(), token, &stubResolver{})
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMissingSubject(t *testing.T) {
	verifier := NewVerifier(testSecret)
	token := signedToken(t, testSecret, "", time.Now().Add(time.Hour))

	_, err := verifier.Verify(context.Background(), token, &stubResolver{})
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyDelegatesNonSymmetricAlgorithms(t *testing.T) {
	verifier := NewVerifier(testSecret)
	for _, alg := range []string{"RS256", "ES256", "none"} {
		t.Run(alg, func(t *testing.T) {
			resolver := &stubResolver{userID: "remote-user"}
			token := unverifiableToken(t, alg, "ignored-subject")

			principal, err := verifier.Verify(context.Background(), token, resolver)
			require.NoError(t, err)
			require.Equal(t, "remote-user", principal.UserID)
			require.Equal(t, token, principal.AccessToken)
			require.Equal(t, 1, resolver.calls)
		})
	}
}

func TestVerifyRemoteRejections(t *testing.T) {
	verifier := NewVerifier(testSecret)
	token := unverifiableToken(t, "RS256", "subject")

	t.Run("resolver error", func(t *testing.T) {
		resolver := &stubResolver{err: errors.New("gotrue says no")}
		_, err := verifier.Verify(context.Background(), token, resolver)
		require.ErrorIs(t, err, ErrInvalidToken)
		require.Equal(t, 1, resolver.calls)
	})

	t.Run("empty user id", func(t *testing.T) {
		resolver := &stubResolver{userID: ""}
		_, err := verifier.Verify(context.Background(), token, resolver)
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestVerifyMalformedToken(t *testing.T) {
	verifier := NewVerifier(testSecret)
	for _, token := range []string{"garbage", "a.b", "!!!.###.$$$"} {
		resolver := &stubResolver{}
		_, err := verifier.Verify(context.Background(), token, resolver)
		require.ErrorIs(t, err, ErrInvalidToken)
		require.Zero(t, resolver.calls)
	}
}

func TestVerifyEmptyToken(t *testing.T) {
	verifier := NewVerifier(testSecret)
	_, err := verifier.Verify(context.Background(), "  ", &stubResolver{})
	require.ErrorIs(t, err, ErrMissingToken)
}

func TestTokenFromHeader(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
		ok     bool
	}{
		{"standard", "Bearer abc123", "abc123", true},
		{"lowercase scheme", "bearer abc123", "abc123", true},
		{"mixed case scheme", "BeArEr abc123", "abc123", true},
		{"empty", "", "", false},
		{"scheme only", "Bearer", "", false},
		{"wrong scheme", "Basic abc123", "", false},
		{"extra fields", "Bearer abc 123", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			token, err := TokenFromHeader(tc.header)
			if tc.ok {
				require.NoError(t, err)
				require.Equal(t, tc.want, token)
				return
			}
			require.ErrorIs(t, err, ErrMissingToken)
		})
	}
}
