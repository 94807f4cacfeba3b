package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter registers every endpoint. api is wrapped by the caller's app-key and auth middleware.
func NewRouter(h *Handlers, api func(http.Handler) http.Handler, public func(http.Handler) http.Handler) *mux.Router {
	router := mux.NewRouter()

	router.Handle("/health", http.HandlerFunc(h.HealthHandler)).Methods(http.MethodGet)
	router.Handle("/tables", http.HandlerFunc(h.TablesHandler)).Methods(http.MethodGet)

	auth := router.PathPrefix("/api/auth").Subrouter()
	auth.Use(mux.MiddlewareFunc(public))
	auth.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", h.RefreshToken).Methods(http.MethodPost)

	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(mux.MiddlewareFunc(api))
	protected.HandleFunc("/auth/logout", h.Logout).Methods(http.MethodPost)

	protected.HandleFunc("/me", h.GetCurrentUser).Methods(http.MethodGet)
	protected.HandleFunc("/me/avatar", h.UpdateAvatar).Methods(http.MethodPut)
	protected.HandleFunc("/users/{id}", h.GetUser).Methods(http.MethodGet)

	protected.HandleFunc("/posts", h.GetPosts).Methods(http.MethodGet)
	protected.HandleFunc("/posts", h.CreatePost).Methods(http.MethodPost)
	protected.HandleFunc("/posts/{id}", h.GetPost).Methods(http.MethodGet)
	protected.HandleFunc("/posts/{id}/likes", h.AddLike).Methods(http.MethodPut)
	protected.HandleFunc("/posts/{id}/likes", h.RemoveLike).Methods(http.MethodDelete)

	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, "Не найдено", http.StatusNotFound)
	})

	return router
}
