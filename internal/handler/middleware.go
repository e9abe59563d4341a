package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"tush00nka/marketplace_chat/internal/model"
	"tush00nka/marketplace_chat/internal/pkg/auth"
	"tush00nka/marketplace_chat/internal/pkg/httputils"
	"tush00nka/marketplace_chat/internal/service"
)

type contextKey struct{}

// RequireUser rejects requests without a valid bearer token and stores the
// authenticated user in the request context. The token is read from the
// Authorization header or, for older clients, from a bare "Bearer" header.
func RequireUser(users service.UserService) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			token := auth.TokenFromHeader(r.Header.Get("Authorization"))
			if token == "" {
				token = r.Header.Get("Bearer")
			}
			if token == "" {
				httputils.ResponseError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			claims, err := auth.ValidateToken(token)
			if err != nil {
				httputils.ResponseError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			user, err := users.GetUserByID(r.Context(), claims.UserID)
			if err != nil {
				httputils.ResponseError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, user)))
		})
	}
}

// CurrentUser returns the user stored by RequireUser.
func CurrentUser(r *http.Request) *model.User {
	user, _ := r.Context().Value(contextKey{}).(*model.User)
	return user
}
