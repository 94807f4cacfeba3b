package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (h *Handlers) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	// get user by id
	user, err := h.UserService.GetUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "Пользователь не найден")
		return
	}

	WriteSuccess(w, newUserResponse(user), http.StatusOK)
}

func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	if userID == "" {
		WriteError(w, "Неверный URL", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.GetUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "Пользователь не найден")
		return
	}

	WriteSuccess(w, newUserResponse(user), http.StatusOK)
}

func (h *Handlers) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	image, cleanup, ok := h.readImage(w, r)
	if !ok {
		return
	}
	defer cleanup()

	user, err := h.UserService.UpdateAvatar(r.Context(), userID, image)
	if err != nil {
		writeServiceError(w, err, "Пользователь не найден")
		return
	}

	WriteSuccess(w, newUserResponse(user), http.StatusOK)
}
