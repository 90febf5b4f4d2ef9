package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/clerk/clerk-sdk-go/v2/jwt"
)

type contextKey string

const SessionKey contextKey = "session"

// Session is the resolved caller identity: the Clerk user plus whether they
// are a challenge admin. Resolved once per request so handlers and services
// never query admin status themselves.
type Session struct {
	ClerkID string
	IsAdmin bool
}

// AdminChecker answers "is this caller privileged". Backed by the admins
// table; injected from main to keep this package off the database.
type AdminChecker interface {
	IsAdmin(ctx context.Context, clerkID string) (bool, error)
}

// ClerkAuthMiddleware validates the Clerk JWT and puts a Session in the
// request context. Admin lookup failures degrade to a non-admin session.
func ClerkAuthMiddleware(admins AdminChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondWithError(w, http.StatusUnauthorized, "Authorization header required")
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == authHeader {
				respondWithError(w, http.StatusUnauthorized, "Invalid authorization format. Use 'Bearer <token>'")
				return
			}

			claims, err := jwt.Verify(r.Context(), &jwt.VerifyParams{
				Token: token,
			})
			if err != nil {
				log.Printf("Token verification failed: %v", err)
				respondWithError(w, http.StatusUnauthorized, fmt.Sprintf("Invalid token: %v", err))
				return
			}

			session := Session{ClerkID: claims.Subject}
			isAdmin, err := admins.IsAdmin(r.Context(), claims.Subject)
			if err != nil {
				log.Printf("Admin lookup failed for %s: %v", claims.Subject, err)
			} else {
				session.IsAdmin = isAdmin
			}

			ctx := context.WithValue(r.Context(), SessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnlyMiddleware rejects callers whose session is not an admin. Must run
// after ClerkAuthMiddleware.
func AdminOnlyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := GetSession(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "User not authenticated")
			return
		}
		if !session.IsAdmin {
			respondWithError(w, http.StatusForbidden, "Admins only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSession extracts the caller session from context.
func GetSession(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(SessionKey).(Session)
	return session, ok
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write([]byte(fmt.Sprintf(`{"error": "%s"}`, message)))
}
