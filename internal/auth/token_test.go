package auth

import (
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "s3cr3t"

var mintInstant = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newManager(t *testing.T, secret string) *TokenManager {
	t.Helper()
	tm, err := NewTokenManager(secret)
	require.NoError(t, err)
	return tm
}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	_, err := NewTokenManager("")
	require.ErrorIs(t, err, ErrSecretRequired)

	_, err = NewTokenManager("   ")
	require.ErrorIs(t, err, ErrSecretRequired)
}

func TestMintRoundTrip(t *testing.T) {
	tm := newManager(t, testSecret)

	token, claims, err := tm.Mint(DefaultSubject, DefaultIssuer, DefaultHorizonDays, mintInstant)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.True(t, strings.HasPrefix(token, "eyJ"))

	assert.Equal(t, DefaultSubject, claims.Subject)
	assert.Equal(t, DefaultIssuer, claims.Issuer)
	assert.WithinDuration(t, mintInstant, claims.IssuedAt.Time, 0)
	assert.WithinDuration(t, mintInstant.Add(365*24*time.Hour), claims.ExpiresAt.Time, 0)

	result := tm.Authenticate("Bearer "+token, mintInstant.Add(time.Hour))
	require.Equal(t, StatusValid, result.Status)
	require.NotNil(t, result.Claims)
	assert.Equal(t, DefaultSubject, result.Claims.Subject)
	assert.Equal(t, DefaultIssuer, result.Claims.Issuer)
	assert.WithinDuration(t, claims.ExpiresAt.Time, result.Claims.ExpiresAt.Time, 0)
}

func TestMintRejectsNonPositiveHorizon(t *testing.T) {
	tm := newManager(t, testSecret)

	for _, days := range []int{0, -1} {
		_, _, err := tm.Mint(DefaultSubject, DefaultIssuer, days, mintInstant)
		require.ErrorIs(t, err, ErrHorizonInvalid)
	}
}

func TestAuthenticateHeaderParsing(t *testing.T) {
	tm := newManager(t, testSecret)
	token, _, err := tm.Mint(DefaultSubject, DefaultIssuer, 1, mintInstant)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   Status
	}{
		{"empty header", "", StatusMissing},
		{"scheme only", "Bearer", StatusMalformed},
		{"too many parts", "Bearer " + token + " extra", StatusMalformed},
		{"basic scheme", "Basic dXNlcjpwYXNz", StatusWrongScheme},
		{"token scheme", "Token " + token, StatusWrongScheme},
		{"lowercase scheme", "bearer " + token, StatusValid},
		{"uppercase scheme", "BEARER " + token, StatusValid},
		{"canonical", "Bearer " + token, StatusValid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tm.Authenticate(tt.header, mintInstant.Add(time.Hour))
			assert.Equal(t, tt.want, result.Status)
		})
	}
}

func TestAuthenticateExpiryBoundary(t *testing.T) {
	tm := newManager(t, testSecret)
	token, claims, err := tm.Mint(DefaultSubject, DefaultIssuer, 1, mintInstant)
	require.NoError(t, err)

	expiry := claims.ExpiresAt.Time

	// Valid strictly before and exactly at the expiry instant.
	assert.Equal(t, StatusValid, tm.Authenticate("Bearer "+token, expiry.Add(-time.Second)).Status)
	assert.Equal(t, StatusValid, tm.Authenticate("Bearer "+token, expiry).Status)

	// One second past it the token is dead.
	result := tm.Authenticate("Bearer "+token, expiry.Add(time.Second))
	assert.Equal(t, StatusExpired, result.Status)
	assert.Equal(t, "Token has expired", result.Message())
	assert.Nil(t, result.Claims)
}

func TestAuthenticateRejectsTamperedSignature(t *testing.T) {
	tm := newManager(t, testSecret)
	token, _, err := tm.Mint(DefaultSubject, DefaultIssuer, 1, mintInstant)
	require.NoError(t, err)

	// Swap one character in the middle of the signature segment.
	pos := strings.LastIndex(token, ".") + 5
	replacement := byte('A')
	if token[pos] == replacement {
		replacement = 'B'
	}
	tampered := token[:pos] + string(replacement) + token[pos+1:]

	result := tm.Authenticate("Bearer "+tampered, mintInstant.Add(time.Hour))
	assert.Equal(t, StatusSignatureInvalid, result.Status)
	assert.Equal(t, "Invalid token: signature verification failed", result.Message())
}

func TestAuthenticateRejectsSplicedClaims(t *testing.T) {
	tm := newManager(t, testSecret)
	tokenA, _, err := tm.Mint("alice", DefaultIssuer, 1, mintInstant)
	require.NoError(t, err)
	tokenB, _, err := tm.Mint("mallory", DefaultIssuer, 30, mintInstant)
	require.NoError(t, err)

	// Claims from one token stitched onto another's signature must not verify.
	partsA := strings.Split(tokenA, ".")
	partsB := strings.Split(tokenB, ".")
	spliced := partsA[0] + "." + partsB[1] + "." + partsA[2]

	result := tm.Authenticate("Bearer "+spliced, mintInstant.Add(time.Hour))
	assert.Equal(t, StatusSignatureInvalid, result.Status)
}

func TestAuthenticateRejectsForeignSecret(t *testing.T) {
	minter := newManager(t, "secret-one")
	verifier := newManager(t, "secret-two")

	token, _, err := minter.Mint(DefaultSubject, DefaultIssuer, 1, mintInstant)
	require.NoError(t, err)

	assert.Equal(t, StatusSignatureInvalid, verifier.Authenticate("Bearer "+token, mintInstant).Status)
	assert.Equal(t, StatusValid, minter.Authenticate("Bearer "+token, mintInstant).Status)
}

func TestAuthenticateRejectsGarbageTokens(t *testing.T) {
	tm := newManager(t, testSecret)

	tests := []struct {
		name       string
		credential string
		want       Status
	}{
		{"no dots", "notatoken", StatusSignatureInvalid},
		{"two segments", "abc.def", StatusSignatureInvalid},
		{"four segments", "a.b.c.d", StatusSignatureInvalid},
		{"undecodable signature", "eyJh.eyJh.%%%", StatusSignatureInvalid},
		{"undecodable header", "xxx.yyy.zzz", StatusDecodeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tm.Authenticate("Bearer "+tt.credential, mintInstant)
			assert.Equal(t, tt.want, result.Status)
			if tt.want == StatusDecodeError {
				assert.NotEmpty(t, result.Detail)
				assert.True(t, strings.HasPrefix(result.Message(), "Invalid token: "))
			}
		})
	}
}

func TestAuthenticateRejectsWrongAlgorithm(t *testing.T) {
	tm := newManager(t, testSecret)

	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   DefaultSubject,
		ExpiresAt: jwt.NewNumericDate(mintInstant.Add(24 * time.Hour)),
	}}

	hs384, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	assert.Equal(t, StatusSignatureInvalid, tm.Authenticate("Bearer "+hs384, mintInstant).Status)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	assert.Equal(t, StatusSignatureInvalid, tm.Authenticate("Bearer "+unsigned, mintInstant).Status)
}

func TestAuthenticateRejectsMissingExpiry(t *testing.T) {
	tm := newManager(t, testSecret)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": DefaultSubject}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	result := tm.Authenticate("Bearer "+noExpiry, mintInstant)
	assert.Equal(t, StatusDecodeError, result.Status)
	assert.Equal(t, "Invalid token: missing expiration claim", result.Message())
}

func TestStatusIdentifiers(t *testing.T) {
	// These strings feed metrics and audit rows and must stay stable.
	assert.Equal(t, "valid", StatusValid.String())
	assert.Equal(t, "missing", StatusMissing.String())
	assert.Equal(t, "malformed", StatusMalformed.String())
	assert.Equal(t, "wrong_scheme", StatusWrongScheme.String())
	assert.Equal(t, "signature_invalid", StatusSignatureInvalid.String())
	assert.Equal(t, "decode_error", StatusDecodeError.String())
	assert.Equal(t, "expired", StatusExpired.String())

	assert.Empty(t, Result{Status: StatusValid}.Message())
}
