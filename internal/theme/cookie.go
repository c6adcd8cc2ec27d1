package theme

import (
	"net/http"
	"strings"
	"time"
)

const cookieTTL = 365 * 24 * time.Hour

// CookieStorage stores the preference in a browser cookie.
type CookieStorage struct {
	w       http.ResponseWriter
	r       *http.Request
	secure  bool
	pending map[string]string
}

// NewCookieStorage returns nil outside of an interactive request, which
// Read and Write report as ErrStorageUnavailable.
func NewCookieStorage(w http.ResponseWriter, r *http.Request, secure bool) Storage {
	if w == nil || r == nil {
		return nil
	}
	return &CookieStorage{w: w, r: r, secure: secure, pending: map[string]string{}}
}

func (c *CookieStorage) Get(key string) (string, bool, error) {
	if v, ok := c.pending[key]; ok {
		return v, true, nil
	}
	ck, err := c.r.Cookie(key)
	if err != nil {
		return "", false, nil
	}
	return ck.Value, true, nil
}

// Set replaces any earlier Set-Cookie for the same key, so writing the
// same value twice leaves a single header behind.
func (c *CookieStorage) Set(key, value string) error {
	ck := &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		MaxAge:   int(cookieTTL.Seconds()),
		Expires:  time.Now().Add(cookieTTL),
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if err := ck.Valid(); err != nil {
		return err
	}

	h := c.w.Header()
	var kept []string
	for _, line := range h.Values("Set-Cookie") {
		if !strings.HasPrefix(line, key+"=") {
			kept = append(kept, line)
		}
	}
	h.Del("Set-Cookie")
	for _, line := range kept {
		h.Add("Set-Cookie", line)
	}
	h.Add("Set-Cookie", ck.String())

	c.pending[key] = value
	return nil
}
