package security

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"elivtory/inventory-api/config"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidSession = errors.New("invalid session")

type SessionClaims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// SessionIssuer mints and verifies the signed session tokens that are
// handed to clients in an HTTP-only cookie
type SessionIssuer struct {
	secret       []byte
	ttl          time.Duration
	cookieName   string
	cookieSecure bool
	now          func() time.Time
}

func NewSessionIssuer(c config.Session) *SessionIssuer {
	return &SessionIssuer{
		secret:       []byte(c.Secret),
		ttl:          c.TTL,
		cookieName:   c.CookieName,
		cookieSecure: c.CookieSecure,
		now:          time.Now,
	}
}

func (s *SessionIssuer) CookieName() string {
	return s.cookieName
}

// Issue returns a signed token for userID and the time it stops being valid
func (s *SessionIssuer) Issue(userID string) (string, time.Time, error) {
	if userID == "" {
		return "", time.Time{}, errors.New("no user ID provided")
	}

	now := s.now()
	exp := now.Add(s.ttl)

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token, %w", err)
	}

	return signed, exp, nil
}

// Verify checks the signature and expiry of token and returns the user ID it
// was issued for. Every failure is reported as ErrInvalidSession.
func (s *SessionIssuer) Verify(token string) (string, error) {
	if token == "" {
		return "", ErrInvalidSession
	}

	var claims SessionClaims

	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}

	if !parsed.Valid || claims.UserID == "" {
		return "", ErrInvalidSession
	}

	return claims.UserID, nil
}

// Cookie builds the session cookie for token. SameSite=None is required
// because the front end is served from a different origin.
func (s *SessionIssuer) Cookie(token string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(expiresAt.Sub(s.now()).Seconds()),
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteNoneMode,
	}
}

// ExpiredCookie overwrites the session cookie with an empty value that
// expires immediately
func (s *SessionIssuer) ExpiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteNoneMode,
	}
}
