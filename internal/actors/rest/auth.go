package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
	log "github.com/sirupsen/logrus"
)

const sessionUserKey = "user_id"

type viewerKey struct{}

// AuthenticatorArgs are the arguments for building an Authenticator.
type AuthenticatorArgs struct {
	// Secret signs the session cookie.
	Secret []byte

	// Name is the name of the session cookie.
	Name string

	// Secure restricts the cookie to https.
	Secure bool
}

// Authenticator resolves the user behind a request from its session cookie.
type Authenticator struct {
	store *sessions.CookieStore
	name  string
}

// NewAuthenticator creates a new cookie session Authenticator.
func NewAuthenticator(args AuthenticatorArgs) *Authenticator {
	store := sessions.NewCookieStore(args.Secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   args.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Authenticator{store: store, name: args.Name}
}

// Middleware puts the id of the session user, if any, in the request context. Anonymous requests
// go through: the use cases decide whether an identity is required.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := a.store.Get(r, a.name)
		if err != nil {
			// tampered or expired cookies resolve to nobody
			log.WithError(err).Debug("ignoring invalid session cookie")
			next.ServeHTTP(w, r)
			return
		}
		userID, _ := session.Values[sessionUserKey].(string)
		next.ServeHTTP(w, r.WithContext(WithViewer(r.Context(), userID)))
	})
}

// Issue starts a session for userID on the response.
func (a *Authenticator) Issue(w http.ResponseWriter, r *http.Request, userID string) error {
	session, _ := a.store.Get(r, a.name)
	session.Values[sessionUserKey] = userID
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("error saving session: %w", err)
	}
	return nil
}

// WithViewer returns a copy of ctx carrying the authenticated user id.
func WithViewer(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, viewerKey{}, userID)
}

// Viewer returns the authenticated user id of ctx, or "" for anonymous requests.
func Viewer(ctx context.Context) string {
	userID, _ := ctx.Value(viewerKey{}).(string)
	return userID
}
