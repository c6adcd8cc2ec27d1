package guard

import (
	"context"
	"net/http"

	"kidofood-web/internal/api"
	"kidofood-web/internal/model"
)

// Redirect targets.
const (
	LoginPath    = "/login"
	RegisterPath = "/register"
	ClaimPath    = "/claim"
	HomePath     = "/"
)

// Backend is the part of the API client the guards need.
type Backend interface {
	ClaimStatus(ctx context.Context) api.Result[model.User]
	Me(ctx context.Context) api.Result[model.User]
}

// Stage inspects the request and decides whether the page may load.
type Stage interface {
	Name() string
	Check(r *http.Request) Decision
}

type serverClaimed struct {
	backend Backend
}

// ServerClaimed sends visitors to /claim until an admin claimed the server.
func ServerClaimed(b Backend) Stage {
	return &serverClaimed{backend: b}
}

func (s *serverClaimed) Name() string { return "server_claimed" }

func (s *serverClaimed) Check(r *http.Request) Decision {
	res := s.backend.ClaimStatus(r.Context())
	if res.IsError() {
		return fallbackTo(LoginPath)
	}
	if _, claimed := res.Data(); !claimed {
		return fallbackTo(ClaimPath)
	}
	return Continue()
}

type UserOptions struct {
	AdminOnly    bool
	MerchantOnly bool
}

type userGuard struct {
	backend Backend
	opts    UserOptions
}

// User requires a logged-in user, optionally with a specific role.
func User(b Backend, opts UserOptions) Stage {
	return &userGuard{backend: b, opts: opts}
}

func (u *userGuard) Name() string { return "user" }

func (u *userGuard) Check(r *http.Request) Decision {
	res := u.backend.Me(r.Context())
	if res.IsError() {
		return fallbackTo(LoginPath)
	}
	user, ok := res.Data()
	if !ok {
		return fallbackTo(LoginPath)
	}
	if u.opts.AdminOnly && user.Role != model.RoleAdmin {
		return RedirectTo(HomePath)
	}
	if u.opts.MerchantOnly && user.Role != model.RoleMerchant {
		return RedirectTo(HomePath)
	}
	return Continue()
}

type UserCheckOptions struct {
	// RedirectTo is where logged-in users go; defaults to "/".
	RedirectTo string
}

type userCheck struct {
	backend Backend
	opts    UserCheckOptions
}

// UserCheck keeps logged-in users away from anonymous-only pages such as
// login and register. An undeterminable session still goes to /login.
func UserCheck(b Backend, opts UserCheckOptions) Stage {
	return &userCheck{backend: b, opts: opts}
}

func (u *userCheck) Name() string { return "user_check" }

func (u *userCheck) Check(r *http.Request) Decision {
	res := u.backend.Me(r.Context())
	if res.IsError() {
		return fallbackTo(LoginPath)
	}
	if _, loggedIn := res.Data(); loggedIn {
		if u.opts.RedirectTo != "" {
			return RedirectTo(u.opts.RedirectTo)
		}
		return RedirectTo(HomePath)
	}
	return Continue()
}
