package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Mirxa893/zola/internal/apperr"
	"github.com/Mirxa893/zola/internal/middleware"
)

// UserKeyStatus serves GET /user-key-status for the authenticated user.
func UserKeyStatus(keys KeyStatuser, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := middleware.UserIDFrom(r.Context())
		status, err := keys.KeyStatus(r.Context(), uid)
		if err != nil {
			logger.Error().Err(err).
				Str("rid", middleware.RequestIDFrom(r.Context())).
				Str("user_id", uid).
				Msg("key status lookup failed")
			writeError(w, apperr.Collaborator("key status lookup", err))
			return
		}
		writeJSON(w, http.StatusOK, status)
	}
}
