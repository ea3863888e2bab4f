package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
)

// RequireBranch lets only branch admin sessions through.
func RequireBranch(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := SessionFrom(r.Context()).RequireBranch(); err != nil {
			response.HandleError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireEmployee lets only employee sessions through.
func RequireEmployee(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := SessionFrom(r.Context()).RequireEmployee(); err != nil {
			response.HandleError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
