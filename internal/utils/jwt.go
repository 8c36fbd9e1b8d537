package utils

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/imagehub/image-hub/models"
)

// Token validation errors, surfaced in a strict order: signature and
// structural problems first, then expiry, then claim presence and type. The
// first failure wins; there is no partial success.
var (
	// ErrInvalidToken is returned when the token is structurally malformed
	// or its signature does not verify.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when the signature verifies but the "exp"
	// claim is in the past.
	ErrExpiredToken = errors.New("token has expired")

	// ErrInvalidDecodedToken is returned when the token verifies and is not
	// expired but a required claim is missing or has the wrong type. The
	// wrapped message names the offending claim.
	ErrInvalidDecodedToken = errors.New("invalid decoded token")
)

// GenerateJWTToken creates a signed HMAC-SHA256 JWT carrying the identity
// claims consumed by this service:
//   - "sub"      the user ID, encoded as a JSON number
//   - "is_admin" the admin flag
//   - "exp"      the current time plus tokenDuration
//   - "iss"      the issuing service name
//
// The "sub" claim is intentionally numeric rather than the string form RFC
// 7519 suggests; validation accepts only an integral number there.
//
// Returns the compact serialized token or an error if the parameters are
// invalid or signing fails.
func GenerateJWTToken(issuer string, identity models.Identity, tokenDuration time.Duration, signKey string) (string, error) {
	if issuer == "" || tokenDuration == 0 || signKey == "" {
		return "", errors.New("invalid params for generating JWT token")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":      issuer,
		"sub":      identity.UserID,
		"is_admin": identity.IsAdmin,
		"iat":      jwt.NewNumericDate(now),
		"exp":      jwt.NewNumericDate(now.Add(tokenDuration)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return "", fmt.Errorf("error occurred during signing JWT token: %w", err)
	}

	return tokenString, nil
}

// ValidateAndParseJWTToken validates the given JWT token string and derives
// the caller's [models.Identity] from its claims.
//
// Checks run in this order, and the first failure is terminal:
//  1. Structural/signature verification failure → [ErrInvalidToken].
//  2. Valid signature but expired "exp" claim → [ErrExpiredToken].
//  3. Missing "sub" claim → [ErrInvalidDecodedToken] ("subject missing").
//  4. "sub" not an integral number → [ErrInvalidDecodedToken] ("subject wrong type").
//  5. Missing "is_admin" claim → [ErrInvalidDecodedToken] ("is_admin missing").
//  6. "is_admin" neither bool nor integral number → [ErrInvalidDecodedToken]
//     ("is_admin wrong type").
//
// A numeric "is_admin" is treated as boolean-compatible (non-zero is true).
func ValidateAndParseJWTToken(tokenString, signKey string) (models.Identity, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	claims := jwt.MapClaims{}
	_, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(signKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Identity{}, ErrExpiredToken
		}
		return models.Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	userID, err := subjectFromClaims(claims)
	if err != nil {
		return models.Identity{}, err
	}

	isAdmin, err := adminFlagFromClaims(claims)
	if err != nil {
		return models.Identity{}, err
	}

	return models.Identity{UserID: userID, IsAdmin: isAdmin}, nil
}

// subjectFromClaims extracts the numeric "sub" claim. JSON numbers decode as
// float64, so an integral float64 is the only accepted representation.
func subjectFromClaims(claims jwt.MapClaims) (int64, error) {
	raw, ok := claims["sub"]
	if !ok {
		return 0, fmt.Errorf("%w: subject missing", ErrInvalidDecodedToken)
	}

	sub, ok := raw.(float64)
	if !ok || sub != math.Trunc(sub) {
		return 0, fmt.Errorf("%w: subject wrong type", ErrInvalidDecodedToken)
	}

	return int64(sub), nil
}

// adminFlagFromClaims extracts the "is_admin" claim, accepting a bool or an
// integral number (non-zero meaning true).
func adminFlagFromClaims(claims jwt.MapClaims) (bool, error) {
	raw, ok := claims["is_admin"]
	if !ok {
		return false, fmt.Errorf("%w: is_admin missing", ErrInvalidDecodedToken)
	}

	switch v := raw.(type) {
	case bool:
		return v, nil
	case float64:
		if v != math.Trunc(v) {
			return false, fmt.Errorf("%w: is_admin wrong type", ErrInvalidDecodedToken)
		}
		return v != 0, nil
	default:
		return false, fmt.Errorf("%w: is_admin wrong type", ErrInvalidDecodedToken)
	}
}

// Authorization-header parsing errors. These are transport-contract
// failures, distinct from the token-content errors above, and each is a
// sentinel so callers can match them with [errors.Is].
var (
	// ErrInvalidAuthorizationHeader is returned when the header value does
	// not split into a scheme and a credential.
	ErrInvalidAuthorizationHeader = errors.New("invalid authorization header")

	// ErrEmptyToken is returned when the bearer scheme is present but the
	// credential after it is missing.
	ErrEmptyToken = errors.New("empty token")

	// ErrInvalidTokenScheme is returned when the scheme is not "Bearer".
	ErrInvalidTokenScheme = errors.New("invalid token scheme")
)

// ParseBearerToken extracts the credential from a raw "Authorization" header
// value. The header must use the bearer scheme:
//
//	Authorization: Bearer <token>
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Split(strings.TrimSpace(authorizationHeader), " ")
	switch {
	case len(parts) == 1 && parts[0] == "Bearer":
		return "", ErrEmptyToken
	case len(parts) != 2:
		return "", ErrInvalidAuthorizationHeader
	case parts[0] != "Bearer":
		return "", ErrInvalidTokenScheme
	}

	return parts[1], nil
}
