package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS wraps handler so browsers on the given origins may call the API.
// An empty origin list allows every origin.
func CORS(handler http.Handler, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Accept", "X-Requested-With"},
		MaxAge:         86400,
	})

	return c.Handler(handler)
}
