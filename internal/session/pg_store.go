package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"kidofood-web/internal/logger"
	"kidofood-web/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultIDCookieName = "kidofood_web_sid"

// PostgresStore keeps only an opaque session id in the browser.
type PostgresStore struct {
	repo Repository
	opts CookieOptions
	now  func() time.Time
}

func NewPostgresStore(repo Repository, opts CookieOptions) *PostgresStore {
	if opts.Name == "" {
		opts.Name = DefaultIDCookieName
	}
	return &PostgresStore{repo: repo, opts: opts, now: time.Now}
}

func (s *PostgresStore) sessionID(r *http.Request) (uuid.UUID, bool) {
	c, err := r.Cookie(s.opts.Name)
	if err != nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (s *PostgresStore) Load(r *http.Request) (*model.User, error) {
	id, ok := s.sessionID(r)
	if !ok {
		return nil, nil
	}

	rec, err := s.repo.Find(r.Context(), id)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if !rec.ExpiresAt.After(s.now()) {
		if err := s.repo.Delete(r.Context(), id); err != nil {
			logger.FromCtx(r.Context()).Warn("failed to drop expired session", zap.Error(err))
		}
		return nil, ErrExpiredSession
	}
	return &rec.User, nil
}

// Save always issues a new id so a session cookie planted before login
// cannot be reused afterwards.
func (s *PostgresStore) Save(w http.ResponseWriter, r *http.Request, user model.User) error {
	if old, ok := s.sessionID(r); ok {
		if err := s.repo.Delete(r.Context(), old); err != nil {
			return err
		}
	}

	rec := Record{
		ID:        uuid.New(),
		User:      user,
		ExpiresAt: s.now().Add(s.opts.TTL),
	}
	if err := s.repo.Create(r.Context(), rec); err != nil {
		return err
	}

	http.SetCookie(w, s.opts.cookie(rec.ID.String(), rec.ExpiresAt))
	return nil
}

func (s *PostgresStore) Delete(w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, s.opts.expired())
	if id, ok := s.sessionID(r); ok {
		return s.repo.Delete(r.Context(), id)
	}
	return nil
}

// PurgeExpired removes stale rows every interval until ctx is done.
func (s *PostgresStore) PurgeExpired(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.repo.DeleteExpired(ctx, s.now())
			if err != nil {
				logger.L().Warn("failed to purge expired sessions", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.L().Info("purged expired sessions", zap.Int64("count", n))
			}
		}
	}
}
