package session

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"kidofood-web/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

const DefaultCookieName = "kidofood_web"

type userClaims struct {
	Email string     `json:"email"`
	Name  string     `json:"name"`
	Role  model.Role `json:"role"`
	jwt.RegisteredClaims
}

// CookieStore keeps the whole session in a signed JWT cookie.
type CookieStore struct {
	opts CookieOptions
	key  []byte
	now  func() time.Time
}

// NewCookieStore derives the signing key from the application secret so
// the raw secret never signs anything directly.
func NewCookieStore(secret string, opts CookieOptions) (*CookieStore, error) {
	if secret == "" {
		return nil, errors.New("session secret is empty")
	}
	if opts.Name == "" {
		opts.Name = DefaultCookieName
	}

	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("kidofood-web session"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("deriving session key: %w", err)
	}

	return &CookieStore{opts: opts, key: key, now: time.Now}, nil
}

func (s *CookieStore) Load(r *http.Request) (*model.User, error) {
	c, err := r.Cookie(s.opts.Name)
	if err != nil || c.Value == "" {
		return nil, nil
	}

	claims := &userClaims{}
	_, err = jwt.ParseWithClaims(c.Value, claims,
		func(t *jwt.Token) (interface{}, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, ErrExpiredSession
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if claims.Subject == "" {
		return nil, ErrInvalidSession
	}

	return &model.User{
		ID:    claims.Subject,
		Email: claims.Email,
		Name:  claims.Name,
		Role:  claims.Role,
	}, nil
}

func (s *CookieStore) Save(w http.ResponseWriter, r *http.Request, user model.User) error {
	now := s.now()
	expires := now.Add(s.opts.TTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, userClaims{
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	signed, err := token.SignedString(s.key)
	if err != nil {
		return fmt.Errorf("signing session: %w", err)
	}

	http.SetCookie(w, s.opts.cookie(signed, expires))
	return nil
}

func (s *CookieStore) Delete(w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, s.opts.expired())
	return nil
}
