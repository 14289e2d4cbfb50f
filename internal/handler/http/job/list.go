package job

import (
	"net/http"
	"strconv"

	"newsreel/internal/handler/http/respond"
	jobUC "newsreel/internal/usecase/job"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type ListHandler struct{ Svc *jobUC.Service }

// ServeHTTP lists recent jobs, newest first. The limit query parameter
// caps the page size at 100.
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respond.SafeError(w, http.StatusBadRequest, errInvalidLimit)
			return
		}
		limit = n
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	jobs, err := h.Svc.List(r.Context(), limit)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	out := make([]DTO, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, toDTO(j))
	}
	respond.JSON(w, http.StatusOK, out)
}
