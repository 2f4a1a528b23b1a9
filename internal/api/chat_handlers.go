package api

import (
	"encoding/json"
	"net/http"

	"github.com/Mirxa893/zola/internal/apperr"
	"github.com/Mirxa893/zola/internal/schema"
)

const maxChatBody = 4 << 20

// Chat serves POST /chat. Failures are logged by the gateway; the handler only
// renders them.
func Chat(gw ChatHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req schema.ChatRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBody)).Decode(&req); err != nil {
			writeError(w, apperr.BadRequest("Invalid request body"))
			return
		}
		resp, err := gw.Handle(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
