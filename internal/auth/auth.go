// Package auth issues and checks the admin session token that gates every mutating
// catalog route.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mugiliam/notecatalogsrv/internal/apperrors"
	"github.com/mugiliam/notecatalogsrv/internal/httpx"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUnauthorized       apperrors.Error = apperrors.New("unauthorized").SetStatusCode(http.StatusUnauthorized)
	ErrInvalidCredentials apperrors.Error = ErrUnauthorized.New("invalid username or password")
	ErrInvalidToken       apperrors.Error = ErrUnauthorized.New("invalid or expired token")
	ErrMissingToken       apperrors.Error = ErrUnauthorized.New("missing bearer token")
	ErrNotConfigured      apperrors.Error = apperrors.New("admin login is not configured").SetStatusCode(http.StatusServiceUnavailable)
)

const issuer = "notesrv"

type Options struct {
	Username     string
	PasswordHash string
	TokenSecret  string
	TokenTTL     time.Duration
}

type Claims struct {
	jwt.RegisteredClaims
}

// Session is the verified identity of a request.
type Session struct {
	Username  string
	ExpiresAt time.Time
}

type Authenticator struct {
	username     string
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

func New(opts Options) *Authenticator {
	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Authenticator{
		username:     opts.Username,
		passwordHash: []byte(opts.PasswordHash),
		secret:       []byte(opts.TokenSecret),
		ttl:          ttl,
		now:          time.Now,
	}
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (a *Authenticator) configured() bool {
	return a.username != "" && len(a.passwordHash) > 0 && len(a.secret) > 0
}

// Login checks the admin credentials and returns a signed token with its expiry.
func (a *Authenticator) Login(ctx context.Context, username, password string) (string, time.Time, apperrors.Error) {
	if !a.configured() {
		return "", time.Time{}, ErrNotConfigured
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	pwErr := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password))
	if !userOK || pwErr != nil {
		log.Ctx(ctx).Warn().Str("username", username).Msg("admin login failed")
		return "", time.Time{}, ErrInvalidCredentials
	}

	now := a.now()
	expiresAt := now.Add(a.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   a.username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("unable to sign token")
		return "", time.Time{}, apperrors.New("unable to sign token").SetStatusCode(http.StatusInternalServerError).Err(err)
	}
	log.Ctx(ctx).Info().Str("username", a.username).Msg("admin logged in")
	return token, expiresAt.UTC(), nil
}

// Verify parses the token and returns the session it carries.
func (a *Authenticator) Verify(token string) (*Session, apperrors.Error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	if !a.configured() {
		return nil, ErrInvalidToken
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithSubject(a.username),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	var claims Claims
	_, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken.Err(err)
	}
	return &Session{Username: claims.Subject, ExpiresAt: claims.ExpiresAt.Time.UTC()}, nil
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// SessionFromRequest verifies the bearer token of r.
func (a *Authenticator) SessionFromRequest(r *http.Request) (*Session, apperrors.Error) {
	return a.Verify(bearerToken(r))
}

type ctxSessionKeyType string

const ctxSessionKey ctxSessionKeyType = "AdminSession"

func SessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxSessionKey).(*Session)
	return s
}

// RequireAdmin rejects requests without a valid admin bearer token with 401.
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := a.SessionFromRequest(r)
		if err != nil {
			log.Ctx(r.Context()).Debug().Err(err).Msg("admin token rejected")
			httpx.ErrorFrom(err).Send(w)
			return
		}
		ctx := context.WithValue(r.Context(), ctxSessionKey, s)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IsUnauthorized reports whether err is an authentication failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
