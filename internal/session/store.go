package session

import (
	"errors"
	"net/http"
	"time"

	"kidofood-web/internal/model"
)

var (
	ErrInvalidSession = errors.New("invalid session")
	ErrExpiredSession = errors.New("session expired")
)

// Store persists the session between requests of the same browser.
// Load returns a nil user when the browser has no session.
type Store interface {
	Load(r *http.Request) (*model.User, error)
	Save(w http.ResponseWriter, r *http.Request, user model.User) error
	Delete(w http.ResponseWriter, r *http.Request) error
}

// CookieOptions are shared by every store that keeps something in a cookie.
type CookieOptions struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

func (o CookieOptions) cookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     o.Name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(o.TTL.Seconds()),
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (o CookieOptions) expired() *http.Cookie {
	return &http.Cookie{
		Name:     o.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
