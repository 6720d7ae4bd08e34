package utils // package utils provides helper functions for token creation and verification

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// Issuer is the fixed `iss` claim stamped into every access token.
const Issuer = "fitness-tracker-api"

// AccessTokenTTL is the fixed lifetime of an access token.  There is no
// refresh flow and no server-side revocation: a token stays valid for its
// full two hours even if the account is deactivated or deleted in the
// meantime.
const AccessTokenTTL = 2 * time.Hour

// ErrMissingSecret reports that the signing secret is absent from the
// process configuration.  Callers treat it as a server misconfiguration and
// answer with a generic 500, never with detail.
var ErrMissingSecret = errors.New("jwt signing secret is not configured")

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the serialized JWT string.  Access tokens are
// sent in the Authorization header when calling protected endpoints.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// Claims are the identity facts reconstructed from a verified token.  They
// are snapshots taken at issue time: no database lookup re-checks that the
// account still exists or is still active.
type Claims struct {
	UserID uint64
	Email  string
	Role   string
}

// NewAccessToken builds and signs an HS256 JWT for a user.  The claims are
// userId, email, role, plus the fixed issuer, issued-at and a two hour
// expiry.  An empty secret yields ErrMissingSecret.
func NewAccessToken(secret string, userID uint64, email, role string) (AccessToken, error) {
	if secret == "" {
		return AccessToken{}, ErrMissingSecret
	}
	now := time.Now().UTC()
	exp := now.Add(AccessTokenTTL)
	claims := jwt.MapClaims{
		"userId": userID,
		"email":  email,
		"role":   role,
		"iss":    Issuer,
		"iat":    now.Unix(),
		"exp":    exp.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken validates signature and expiry of a raw token string and
// returns the embedded claims.  Any failure (bad signature, expired,
// malformed, wrong algorithm) is returned as an error; callers map it to an
// invalid-credential response without distinguishing the cause.
func ParseAccessToken(secret, raw string) (Claims, error) {
	if secret == "" {
		return Claims{}, ErrMissingSecret
	}
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		if err == nil {
			err = errors.New("invalid token")
		}
		return Claims{}, err
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errors.New("invalid claims")
	}
	var out Claims
	switch v := mc["userId"].(type) {
	case float64:
		out.UserID = uint64(v)
	default:
		return Claims{}, errors.New("missing userId claim")
	}
	if v, ok := mc["email"].(string); ok {
		out.Email = v
	}
	if v, ok := mc["role"].(string); ok {
		out.Role = v
	}
	if out.Role == "" {
		out.Role = "user"
	}
	return out, nil
}
