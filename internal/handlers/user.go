package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/mohammedALrabeai/salon-sub001/internal/handlers/render"
)

func handleUserMe() http.Handler {
	type response struct {
		ID       uuid.UUID `json:"id"`
		Username string    `json:"username"`
		Status   string    `json:"status"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())
		render.JSON(w, response{ID: user.ID, Username: user.Username, Status: user.Status})
	})
}
