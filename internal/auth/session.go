package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/desertthunder/mise/internal/shared"
)

// DefaultLifetime is used when a session lifetime is not configured.
const DefaultLifetime = 7 * 24 * time.Hour

// Sessions issues and verifies signed session tokens carried in a cookie.
type Sessions struct {
	secret     []byte
	cookieName string
	lifetime   time.Duration
	secure     bool
	now        func() time.Time
}

// NewSessions creates [Sessions] from the session section of the configuration.
func NewSessions(cfg shared.SessionConfig) (*Sessions, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("%w: session secret is empty", shared.ErrInvalidConfig)
	}

	s := &Sessions{
		secret:     []byte(cfg.Secret),
		cookieName: cfg.CookieName,
		lifetime:   cfg.Lifetime.Duration,
		secure:     cfg.Secure,
		now:        time.Now,
	}
	if s.cookieName == "" {
		s.cookieName = "mise_session"
	}
	if s.lifetime <= 0 {
		s.lifetime = DefaultLifetime
	}
	return s, nil
}

// Issue signs a token for userID.
func (s *Sessions) Issue(userID string) (string, time.Time, error) {
	now := s.now()
	expires := now.Add(s.lifetime)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, expires, nil
}

// Verify checks the signature and expiry of a token and returns its claims.
func (s *Sessions) Verify(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, shared.ErrSessionExpired
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrNotAuthenticated, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: session has no subject", shared.ErrNotAuthenticated)
	}
	return claims, nil
}

// needsRenewal reports whether more than half of the session lifetime has elapsed.
func (s *Sessions) needsRenewal(claims *jwt.RegisteredClaims) bool {
	if claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.Sub(s.now()) < s.lifetime/2
}

// SignIn issues a token for userID and writes it as the session cookie.
func (s *Sessions) SignIn(w http.ResponseWriter, userID string) error {
	token, expires, err := s.Issue(userID)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// SignOut expires the session cookie.
func (s *Sessions) SignOut(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Middleware resolves the session cookie and stores the user ID in the request context.
//
// Requests without a valid session pass through anonymously; handlers decide whether that is allowed.
// Banned flags are not re-checked here.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(s.cookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := s.Verify(cookie.Value)
		if err != nil {
			s.SignOut(w)
			next.ServeHTTP(w, r)
			return
		}

		if s.needsRenewal(claims) {
			// a failed renewal keeps the current, still valid token
			_ = s.SignIn(w, claims.Subject)
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.Subject)))
	})
}
