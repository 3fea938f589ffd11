package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/tsanfield/stackpot-backend/internal/registry"
)

// CreateGame allocates a session and returns its join code.
func CreateGame(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan registry.Created, 1)
		reg.Inbox() <- registry.CreateSession{Reply: reply}
		created := <-reply

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(struct {
			Code string `json:"code"`
		}{Code: created.Code})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
