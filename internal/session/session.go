// Package session derives the per-request identity from a signed session
// cookie and manages the cookie lifecycle. The token is an HMAC-signed JWT
// carrying only the user id; it has no expiry, so a session lasts until
// explicit logout or cookie loss. No server-side session state exists.
package session

import (
	"context"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/tinyapp-web/tinyapp/internal/logger"
	"github.com/tinyapp-web/tinyapp/internal/user"
)

type userKeeper interface {
	FindUserByID(ctx context.Context, userID string) (*user.User, bool, error)
}

// Manager signs, verifies and clears the session cookie.
type Manager struct {
	db userKeeper

	// cookieName is the name of the cookie used to store the signed token.
	cookieName string

	// signingSecretKey is the key used to sign session tokens.
	signingSecretKey []byte
}

// Claims represents the session token claims.
// It embeds standard JWT claims and adds a user-specific identifier.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// ContextKey is a custom type for storing values in context to avoid collisions.
type ContextKey string

// UserKey is the context key under which ResolveUser stores the
// authenticated *user.User.
const UserKey ContextKey = "currentUser"

// New creates a session Manager backed by the given identity store.
func New(db userKeeper, cookieName string, signingSecretKey []byte) *Manager {
	return &Manager{
		db:               db,
		cookieName:       cookieName,
		signingSecretKey: signingSecretKey,
	}
}

// CurrentUserID extracts the user id bound to the request's session cookie.
// A missing cookie, an invalid signature or a malformed token all yield "".
func (m *Manager) CurrentUserID(request *http.Request) string {
	cookie, err := request.Cookie(m.cookieName)
	if err != nil {
		return ""
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		cookie.Value,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return m.signingSecretKey, nil
		},
	)
	if err != nil || !token.Valid {
		return ""
	}

	return claims.UserID
}

// Start attaches a new signed session cookie binding userID to the response.
func (m *Manager) Start(response http.ResponseWriter, userID string) error {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: userID})

	tokenString, err := token.SignedString(m.signingSecretKey)
	if err != nil {
		return err
	}

	http.SetCookie(
		response,
		&http.Cookie{
			Name:     m.cookieName,
			Value:    tokenString,
			Path:     "/",
			HttpOnly: true,
		},
	)

	return nil
}

// End clears the session cookie on the response.
func (m *Manager) End(response http.ResponseWriter) {
	http.SetCookie(
		response,
		&http.Cookie{
			Name:     m.cookieName,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			MaxAge:   -1,
		},
	)
}

// ResolveUser is an HTTP middleware that resolves the session cookie to a
// user record and stores it in the request context. A token whose user id
// has no matching record is treated the same as no session at all.
func (m *Manager) ResolveUser(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		userID := m.CurrentUserID(request)
		if userID == "" {
			h.ServeHTTP(response, request)

			return
		}

		usr, found, err := m.db.FindUserByID(request.Context(), userID)
		if err != nil {
			logger.Log.Debugln("Error calling the `m.db.FindUserByID()`: ", zap.Error(err))
			response.WriteHeader(http.StatusInternalServerError)

			return
		}
		if !found {
			h.ServeHTTP(response, request)

			return
		}

		ctx := context.WithValue(request.Context(), UserKey, usr)
		h.ServeHTTP(response, request.WithContext(ctx))
	}

	return http.HandlerFunc(middleware)
}

// UserFromContext returns the authenticated user stored by ResolveUser,
// or nil when the request is anonymous.
func UserFromContext(ctx context.Context) *user.User {
	usr, ok := ctx.Value(UserKey).(*user.User)
	if !ok {
		return nil
	}

	return usr
}
