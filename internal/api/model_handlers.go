package api

import (
	"net/http"
	"strings"

	"github.com/Mirxa893/zola/internal/registry"
)

type ModelsResponse struct {
	Models []registry.AccessibleModel `json:"models"`
}

// ListModels serves GET /models, optionally narrowed with ?providers=a,b.
func ListModels(reg ModelLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var list []registry.AccessibleModel
		if ids := splitList(r.URL.Query().Get("providers")); len(ids) > 0 {
			list = reg.ForProviders(r.Context(), ids)
		} else {
			list = reg.AllWithAccessFlags(r.Context())
		}
		writeJSON(w, http.StatusOK, ModelsResponse{Models: nonNil(list)})
	}
}

// RefreshModels drops the cached snapshot and returns the freshly loaded list.
func RefreshModels(reg ModelLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reg.Invalidate()
		writeJSON(w, http.StatusOK, ModelsResponse{Models: nonNil(reg.AllWithAccessFlags(r.Context()))})
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func nonNil(list []registry.AccessibleModel) []registry.AccessibleModel {
	if list == nil {
		return []registry.AccessibleModel{}
	}
	return list
}
