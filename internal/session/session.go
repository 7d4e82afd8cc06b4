// Package session строит для каждого запроса accessor к сессии пользователя,
// привязанный к cookies запроса и к ответу.
package session

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/GoArmGo/FilmFeed/internal/core/ports"
	"github.com/GoArmGo/FilmFeed/internal/domain"
)

// expirySkew — запас, с которым access token считается истёкшим
const expirySkew = 10 * time.Second

// Options — настройки auth-cookie
type Options struct {
	CookieName string
	Secure     bool
}

// Bootstrap создаёт Accessor для каждого запроса
type Bootstrap struct {
	auth   ports.Authenticator
	opts   Options
	logger *slog.Logger
	now    func() time.Time
}

// NewBootstrap создаёт Bootstrap
func NewBootstrap(auth ports.Authenticator, opts Options, logger *slog.Logger) *Bootstrap {
	return &Bootstrap{auth: auth, opts: opts, logger: logger, now: time.Now}
}

// Middleware кладёт Accessor в контекст запроса
func (b *Bootstrap) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a := b.NewAccessor(w, r)
		next.ServeHTTP(w, r.WithContext(WithAccessor(r.Context(), a)))
	})
}

// NewAccessor создаёт Accessor для одного запроса
func (b *Bootstrap) NewAccessor(w http.ResponseWriter, r *http.Request) *Accessor {
	return &Accessor{b: b, w: w, r: r}
}

// Accessor даёт доступ к сессии текущего запроса.
// Результаты кешируются только в пределах запроса.
type Accessor struct {
	b *Bootstrap
	w http.ResponseWriter
	r *http.Request

	sessionOnce sync.Once
	session     *domain.Session

	verifiedOnce sync.Once
	verified     domain.VerifiedSession
}

// GetSession возвращает сессию из cookie, не проверяя пользователя.
// Истёкший access token обновляется, а cookie в ответе перезаписывается.
func (a *Accessor) GetSession(ctx context.Context) *domain.Session {
	if a == nil || a.b == nil {
		return nil
	}
	a.sessionOnce.Do(func() {
		a.session = a.loadSession(ctx)
	})
	return a.session
}

// GetVerifiedSession возвращает сессию и пользователя, подтверждённого auth-сервисом,
// или пустой результат для анонимного запроса. Ошибки проверки не пробрасываются.
func (a *Accessor) GetVerifiedSession(ctx context.Context) domain.VerifiedSession {
	if a == nil || a.b == nil {
		return domain.VerifiedSession{}
	}
	a.verifiedOnce.Do(func() {
		sess := a.GetSession(ctx)
		if sess == nil {
			return
		}
		user, err := a.b.auth.GetUser(ctx, sess.AccessToken)
		if err != nil || user == nil {
			a.b.logger.Warn("session verification failed, treating request as anonymous", "error", err)
			return
		}
		a.verified = domain.VerifiedSession{Session: sess, User: user}
	})
	return a.verified
}

func (a *Accessor) loadSession(ctx context.Context) *domain.Session {
	c, err := a.r.Cookie(a.b.opts.CookieName)
	if err != nil {
		return nil
	}

	sess, err := DecodeCookie(c.Value)
	if err != nil {
		a.b.logger.Warn("invalid auth cookie", "error", err)
		a.clearCookie()
		return nil
	}

	if !sess.Expired(a.b.now(), expirySkew) {
		return sess
	}

	refreshed, err := a.b.auth.RefreshSession(ctx, sess.RefreshToken)
	if err != nil {
		a.b.logger.Warn("session refresh failed", "error", err)
		a.clearCookie()
		return nil
	}
	a.writeCookie(refreshed)
	return refreshed
}

func (a *Accessor) writeCookie(sess *domain.Session) {
	value, err := EncodeCookie(sess)
	if err != nil {
		a.b.logger.Error("failed to encode auth cookie", "error", err)
		return
	}

	cookie := a.baseCookie()
	cookie.Value = value
	if sess.ExpiresAt > 0 {
		// cookie живёт дольше access token: по нему ещё можно обновить сессию
		cookie.MaxAge = int((400 * 24 * time.Hour).Seconds())
	}
	http.SetCookie(a.w, cookie)
}

func (a *Accessor) clearCookie() {
	cookie := a.baseCookie()
	cookie.MaxAge = -1
	http.SetCookie(a.w, cookie)
}

func (a *Accessor) baseCookie() *http.Cookie {
	return &http.Cookie{
		Name:     a.b.opts.CookieName,
		Path:     "/",
		HttpOnly: true,
		Secure:   a.b.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

type accessorKeyType struct{}

var accessorKey = accessorKeyType{}

// WithAccessor кладёт Accessor в контекст
func WithAccessor(ctx context.Context, a *Accessor) context.Context {
	return context.WithValue(ctx, accessorKey, a)
}

// FromContext достаёт Accessor из контекста.
// Если его нет, возвращается анонимный Accessor.
func FromContext(ctx context.Context) *Accessor {
	if a, ok := ctx.Value(accessorKey).(*Accessor); ok && a != nil {
		return a
	}
	return &Accessor{}
}
