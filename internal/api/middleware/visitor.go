package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

type contextKey string

const (
	// SessionName is the cookie holding the visitor session.
	SessionName = "scribe_session"

	visitorIDKey contextKey = "visitor_id"

	sessionVisitorField = "visitor_id"
)

// Visitor gives every browser an anonymous, session-scoped identity.
// Like state is remembered per visitor; a visitor whose cookie is lost or
// expired starts over with nothing liked.
type Visitor struct {
	store sessions.Store
}

// NewVisitor creates the visitor middleware on top of a session store.
func NewVisitor(store sessions.Store) *Visitor {
	return &Visitor{store: store}
}

// Middleware loads or assigns the visitor id and stores it in the request
// context. A tampered or undecodable cookie is replaced with a new session.
func (v *Visitor) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := v.store.Get(r, SessionName)
		if err != nil {
			slog.Debug("[WEB] discarding invalid session cookie", "error", err)
		}

		visitorID, _ := session.Values[sessionVisitorField].(string)
		if visitorID == "" {
			visitorID = uuid.NewString()
			session.Values[sessionVisitorField] = visitorID
			if err := session.Save(r, w); err != nil {
				slog.Error("[WEB] failed to save visitor session", "error", err)
			}
		}

		ctx := context.WithValue(r.Context(), visitorIDKey, visitorID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetVisitorID extracts the visitor id from the request context.
// Returns empty string if the visitor middleware did not run.
func GetVisitorID(r *http.Request) string {
	id, _ := r.Context().Value(visitorIDKey).(string)
	return id
}

// SetTestVisitorID sets a visitor id in the context for testing purposes.
func SetTestVisitorID(ctx context.Context, visitorID string) context.Context {
	return context.WithValue(ctx, visitorIDKey, visitorID)
}

// NewCookieStore creates the cookie-backed session store used for visitor
// sessions and flash messages.
func NewCookieStore(secret []byte, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}
