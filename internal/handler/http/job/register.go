package job

import (
	"net/http"

	jobUC "newsreel/internal/usecase/job"
)

// Register registers the job HTTP handlers with the given mux: listing,
// status polling, and pause/resume control.
func Register(mux *http.ServeMux, svc *jobUC.Service) {
	mux.Handle("GET    /jobs", ListHandler{Svc: svc})
	mux.Handle("GET    /jobs/", GetHandler{Svc: svc})
	mux.Handle("POST   /jobs/", ControlHandler{Svc: svc})
}
