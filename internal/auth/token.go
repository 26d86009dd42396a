package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Claim defaults for minted tokens.
const (
	DefaultSubject     = "storage-client"
	DefaultIssuer      = "storage-gateway"
	DefaultHorizonDays = 365
)

const schemeBearer = "Bearer"

var (
	// ErrSecretRequired is returned when a token manager is built without a secret.
	ErrSecretRequired = errors.New("signing secret required")
	// ErrHorizonInvalid is returned when minting with a non-positive horizon.
	ErrHorizonInvalid = errors.New("token horizon must be a positive number of days")
)

// Claims describes the JWT payload carried by an access token.
type Claims struct {
	jwt.RegisteredClaims
}

// Status classifies the outcome of authenticating a request.
type Status int

const (
	StatusValid Status = iota
	StatusMissing
	StatusMalformed
	StatusWrongScheme
	StatusSignatureInvalid
	StatusDecodeError
	StatusExpired
)

// String returns the stable identifier used in logs, metrics and audit rows.
func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusMissing:
		return "missing"
	case StatusMalformed:
		return "malformed"
	case StatusWrongScheme:
		return "wrong_scheme"
	case StatusSignatureInvalid:
		return "signature_invalid"
	case StatusDecodeError:
		return "decode_error"
	case StatusExpired:
		return "expired"
	}
	return "unknown"
}

// Result is the outcome of verifying the Authorization header of one request.
type Result struct {
	Status Status
	Claims *Claims
	Detail string
}

// Message returns the user-visible rejection text for a non-valid result.
func (r Result) Message() string {
	switch r.Status {
	case StatusMissing:
		return "Authorization header required"
	case StatusMalformed:
		return "Invalid Authorization header format"
	case StatusWrongScheme:
		return "Invalid authentication scheme"
	case StatusSignatureInvalid:
		return "Invalid token: signature verification failed"
	case StatusDecodeError:
		return "Invalid token: " + r.Detail
	case StatusExpired:
		return "Token has expired"
	}
	return ""
}

// TokenManager signs and verifies bearer tokens under a single HS256 secret.
type TokenManager struct {
	secret []byte
}

// NewTokenManager builds a new manager. The secret must be non-empty; there
// is deliberately no fallback value.
func NewTokenManager(secret string) (*TokenManager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrSecretRequired
	}
	return &TokenManager{secret: []byte(secret)}, nil
}

// Mint builds and signs a token whose validity starts at now and ends
// horizonDays later. The returned claims mirror what was signed.
func (tm *TokenManager) Mint(subject, issuer string, horizonDays int, now time.Time) (string, *Claims, error) {
	if horizonDays <= 0 {
		return "", nil, ErrHorizonInvalid
	}

	issuedAt := now.UTC()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Duration(horizonDays) * 24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Authenticate classifies the Authorization header of a request against the
// configured secret at the given instant. The checks run in a fixed order and
// the first failing check determines the result.
func (tm *TokenManager) Authenticate(authHeader string, now time.Time) Result {
	if authHeader == "" {
		return Result{Status: StatusMissing}
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 {
		return Result{Status: StatusMalformed}
	}
	if !strings.EqualFold(parts[0], schemeBearer) {
		return Result{Status: StatusWrongScheme}
	}

	return tm.verify(parts[1], now)
}

// verify checks the credential itself: signature first, then claim decoding,
// then expiry. Tokens remain valid through their expiry instant inclusive.
func (tm *TokenManager) verify(credential string, now time.Time) Result {
	// Anything that cannot yield a verifiable signature is a signature
	// failure: wrong segment count or an undecodable signature segment.
	segments := strings.Split(credential, ".")
	if len(segments) != 3 {
		return Result{Status: StatusSignatureInvalid}
	}
	if _, err := base64.RawURLEncoding.DecodeString(segments[2]); err != nil {
		return Result{Status: StatusSignatureInvalid}
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(credential, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		return tm.secret, nil
	}, jwt.WithoutClaimsValidation())

	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return Result{Status: StatusSignatureInvalid}
	default:
		return Result{Status: StatusDecodeError, Detail: err.Error()}
	}

	if claims.ExpiresAt == nil {
		return Result{Status: StatusDecodeError, Detail: "missing expiration claim"}
	}
	if now.After(claims.ExpiresAt.Time) {
		return Result{Status: StatusExpired}
	}
	return Result{Status: StatusValid, Claims: claims}
}
