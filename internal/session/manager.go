package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_backoffice/internal/logging"
)

const (
	DefaultCookieName = "backoffice_sid"
	DefaultTTL        = 24 * time.Hour

	contextKey = "session"
)

type Manager struct {
	Store      Store
	Secret     []byte
	TTL        time.Duration
	CookieName string
	Secure     bool
	Now        func() time.Time
}

func NewManager(store Store, secret []byte, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		Store:      store,
		Secret:     secret,
		TTL:        ttl,
		CookieName: DefaultCookieName,
		Now:        time.Now,
	}
}

// FromContext returns the session attached by Middleware. Handlers mounted
// without the middleware get an anonymous throwaway session.
func FromContext(c echo.Context) *Session {
	if s, ok := c.Get(contextKey).(*Session); ok {
		return s
	}
	return &Session{}
}

// Attach makes s the request's session.
func Attach(c echo.Context, s *Session) { c.Set(contextKey, s) }

func (m *Manager) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("component", "session")

		sess, err := m.load(ctx, c)
		if err != nil {
			l.Error("session_load_failed", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot start session")
		}
		Attach(c, sess)

		persisted := false
		persist := func() {
			if persisted {
				return
			}
			persisted = true
			if err := m.persist(context.WithoutCancel(ctx), sess); err != nil {
				l.Error("session_save_failed", "error", err)
			}
		}

		c.Response().Before(func() {
			persist()
			c.SetCookie(m.cookie(sess))
		})

		err = next(c)
		persist()
		return err
	}
}

func (m *Manager) load(ctx context.Context, c echo.Context) (*Session, error) {
	if ck, err := c.Cookie(m.CookieName); err == nil && ck.Value != "" {
		if id, err := m.parse(ck.Value); err == nil {
			s, err := m.Store.Load(ctx, id)
			switch {
			case err == nil:
				return s, nil
			case !errors.Is(err, ErrNotFound):
				logging.FromContext(ctx).Warn("session_lookup_failed", "error", err)
			}
		}
	}

	id, err := NewID()
	if err != nil {
		return nil, fmt.Errorf("new session id: %w", err)
	}
	return &Session{ID: id}, nil
}

func (m *Manager) persist(ctx context.Context, s *Session) error {
	if s.previous != "" {
		if err := m.Store.Delete(ctx, s.previous); err != nil {
			return err
		}
		s.previous = ""
	}
	if s.destroyed {
		return m.Store.Delete(ctx, s.ID)
	}
	return m.Store.Save(ctx, s, m.TTL)
}

func (m *Manager) cookie(s *Session) *http.Cookie {
	if s.destroyed {
		return &http.Cookie{
			Name:     m.CookieName,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   m.Secure,
			SameSite: http.SameSiteLaxMode,
		}
	}

	exp := m.Now().Add(m.TTL)
	value, err := m.sign(s.ID, exp)
	if err != nil {
		// without a signature the browser just starts over next request
		value = ""
	}
	return &http.Cookie{
		Name:     m.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		MaxAge:   int(m.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (m *Manager) sign(id string, exp time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        id,
		IssuedAt:  jwt.NewNumericDate(m.Now()),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.Secret)
}

func (m *Manager) parse(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return m.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.Now),
	)
	if err != nil {
		return "", err
	}
	if claims.ID == "" {
		return "", errors.New("session cookie without id")
	}
	return claims.ID, nil
}
