package job

import (
	"errors"
	"net/http"

	"newsreel/internal/handler/http/pathutil"
	"newsreel/internal/handler/http/respond"
	jobUC "newsreel/internal/usecase/job"
)

type GetHandler struct{ Svc *jobUC.Service }

// ServeHTTP returns the full state of one job: status, progress, error
// log, and metrics. Callers poll this endpoint to follow a run.
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/jobs/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	j, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, jobUC.ErrJobNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}

	respond.JSON(w, http.StatusOK, toDTO(j))
}
