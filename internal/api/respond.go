package api

import (
	"encoding/json"
	"net/http"

	"github.com/Mirxa893/zola/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError sends the client-safe form of err.
func writeError(w http.ResponseWriter, err error) {
	status, body := apperr.Map(err)
	writeJSON(w, status, body)
}
