package guard

import "net/http"

// Redirect tells the browser to go elsewhere instead of rendering the page.
type Redirect struct {
	Destination string
	Permanent   bool
}

// StatusCode keeps the request method on the follow-up request.
func (r Redirect) StatusCode() int {
	if r.Permanent {
		return http.StatusPermanentRedirect
	}
	return http.StatusTemporaryRedirect
}

// Decision is the outcome of one stage: continue, or redirect.
type Decision struct {
	redirect *Redirect

	// fallback marks redirects caused by a failed or anonymous lookup
	// rather than by a role or login check.
	fallback bool
}

func Continue() Decision {
	return Decision{}
}

// RedirectTo is a non-permanent redirect: the condition behind it (login,
// claim state) is expected to change.
func RedirectTo(destination string) Decision {
	return Decision{redirect: &Redirect{Destination: destination}}
}

// fallbackTo is the redirect for an undeterminable or anonymous state.
func fallbackTo(destination string) Decision {
	return Decision{redirect: &Redirect{Destination: destination}, fallback: true}
}

func (d Decision) Proceed() bool {
	return d.redirect == nil
}

func (d Decision) Redirect() (Redirect, bool) {
	if d.redirect == nil {
		return Redirect{}, false
	}
	return *d.redirect, true
}

func (d Decision) String() string {
	if d.redirect == nil {
		return "continue"
	}
	return "redirect " + d.redirect.Destination
}
