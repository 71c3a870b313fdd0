package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/absensi-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired rejects requests without a verified access token. It must run
// after jwtauth.Verifier.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			response.Unauthorized(w, "Invalid or missing token")
			return
		}

		if tokenType, _ := claims["type"].(string); tokenType != "access" {
			response.Unauthorized(w, "Invalid token type")
			return
		}

		if _, err := jwt.ClaimsFromContext(r.Context()); err != nil {
			response.HandleError(w, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}
