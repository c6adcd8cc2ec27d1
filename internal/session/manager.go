package session

import (
	"errors"
	"net/http"

	"kidofood-web/internal/logger"

	"go.uber.org/zap"
)

type Manager struct {
	store Store
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Middleware loads the session into the request context. A broken or
// expired session is treated as anonymous.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		user, err := m.store.Load(r)
		if err != nil {
			log := logger.FromCtx(ctx)
			if errors.Is(err, ErrExpiredSession) {
				log.Debug("session expired")
			} else {
				log.Warn("failed to load session", zap.Error(err))
			}
			user = nil
		}

		state := NewState(user)
		ctx = WithState(ctx, state)
		if user != nil {
			ctx = logger.WithUserID(ctx, user.ID)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Commit writes Set/Clear changes of the request's state. It must run
// before the handler writes its response status.
func (m *Manager) Commit(w http.ResponseWriter, r *http.Request) error {
	state := FromContext(r.Context())
	if !state.Dirty() {
		return nil
	}

	var err error
	if user, ok := state.User(); ok {
		err = m.store.Save(w, r, user)
	} else {
		err = m.store.Delete(w, r)
	}
	if err != nil {
		return err
	}

	state.dirty = false
	return nil
}
