package middleware

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/rs/xid"
	"instaclone/internal/config"
	handlers "instaclone/internal/handler"
	"instaclone/internal/service"
)

type Middleware func(http.Handler) http.Handler

const (
	HeaderApplicationID = "X-Application-Id"
	HeaderClientKey     = "X-Client-Key"
	HeaderRequestID     = "X-Request-Id"
)

// AuthMiddleware verifies the bearer token and adds the user to the context
func AuthMiddleware(authService service.AuthService) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extracting the token from the header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				handlers.WriteError(w, "Требуется авторизация", http.StatusUnauthorized)
				return
			}

			// Checking the "Bearer <token>" format
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				handlers.WriteError(w, "Неверный формат токена", http.StatusUnauthorized)
				return
			}

			user, err := authService.GetUserFromToken(parts[1])
			if err != nil {
				handlers.WriteError(w, "Недействительный токен", http.StatusUnauthorized)
				return
			}

			// Passing the updated context on
			ctx := handlers.ContextWithUser(r.Context(), user.UserID, user.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AppKeyMiddleware rejects requests that do not present the configured application id and client key
func AppKeyMiddleware(app config.App) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get(HeaderApplicationID) != app.ApplicationID {
				handlers.WriteError(w, "Неизвестное приложение", http.StatusUnauthorized)
				return
			}

			if app.ClientKey != "" && r.Header.Get(HeaderClientKey) != app.ClientKey {
				handlers.WriteError(w, "Неверный ключ клиента", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers",
			"Content-Type, Authorization, "+HeaderApplicationID+", "+HeaderClientKey)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = xid.New().String()
		}
		w.Header().Set(HeaderRequestID, requestID)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.Printf("[%s] %s %s %d %s", requestID, r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

// Chain applies middlewares so that the first one listed runs first
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
