package job

import (
	"errors"
	"net/http"
	"strings"

	"newsreel/internal/domain/entity"
	"newsreel/internal/handler/http/pathutil"
	"newsreel/internal/handler/http/respond"
	jobUC "newsreel/internal/usecase/job"
)

var (
	errInvalidLimit  = errors.New("limit must be a positive integer")
	errInvalidAction = errors.New("invalid action, expected pause or resume")
)

// ControlHandler handles POST /jobs/{id}/pause and /jobs/{id}/resume.
// Pausing writes the status to the store; the owning run polls it at
// task boundaries and stops at the next one. Resuming re-enters
// processing.
type ControlHandler struct{ Svc *jobUC.Service }

func (h ControlHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

	switch {
	case strings.HasSuffix(r.URL.Path, "/pause"):
		err = h.Svc.Pause(r.Context(), j)
	case strings.HasSuffix(r.URL.Path, "/resume"):
		err = h.Svc.Resume(r.Context(), j)
	default:
		respond.SafeError(w, http.StatusBadRequest, errInvalidAction)
		return
	}
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, entity.ErrInvalidTransition) {
			code = http.StatusConflict
		}
		respond.SafeError(w, code, err)
		return
	}

	respond.JSON(w, http.StatusOK, toDTO(j))
}
