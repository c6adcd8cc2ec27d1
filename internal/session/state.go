// Package session keeps the logged-in KidoFood user for one browser.
//
// A State lives for a single request. The Manager loads it from a Store
// before the handler runs and, when a handler calls Commit, writes changes
// back. Guards never write the state; only the login and logout handlers do.
package session

import (
	"context"

	"kidofood-web/internal/model"
)

// State is the request-scoped session: at most one user, absent by default.
type State struct {
	user  *model.User
	dirty bool
}

func NewState(user *model.User) *State {
	s := &State{}
	if user != nil {
		u := *user
		s.user = &u
	}
	return s
}

// User reports the stored identity; ok is false for anonymous visitors.
func (s *State) User() (model.User, bool) {
	if s == nil || s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

// Set replaces the identity with a freshly authenticated user.
func (s *State) Set(user model.User) {
	s.user = &user
	s.dirty = true
}

// Clear resets the state to anonymous.
func (s *State) Clear() {
	s.user = nil
	s.dirty = true
}

func (s *State) Dirty() bool {
	return s != nil && s.dirty
}

type ctxKey string

const stateKey ctxKey = "session"

func WithState(ctx context.Context, s *State) context.Context {
	return context.WithValue(ctx, stateKey, s)
}

// FromContext never returns nil; without a loaded session it hands out a
// fresh anonymous state.
func FromContext(ctx context.Context) *State {
	if s, ok := ctx.Value(stateKey).(*State); ok && s != nil {
		return s
	}
	return NewState(nil)
}
