package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type sessionKey struct{}

// AuthRequired turns the token verified by jwtauth.Verifier into an
// auth.Session stored on the request context.
func AuthRequired(next http.Handler) http.Handler {
	hfn := func(w http.ResponseWriter, r *http.Request) {
		token, _, err := jwtauth.FromContext(r.Context())
		if err != nil {
			if errors.Is(err, jwtauth.ErrExpired) {
				response.HandleError(w, auth.ErrTokenExpired)
				return
			}
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		session, err := jwt.SessionFromToken(token)
		if err != nil {
			response.HandleError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	}
	return http.HandlerFunc(hfn)
}

func WithSession(ctx context.Context, session *auth.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFrom returns the session set by AuthRequired, or nil.
func SessionFrom(ctx context.Context) *auth.Session {
	session, _ := ctx.Value(sessionKey{}).(*auth.Session)
	return session
}
