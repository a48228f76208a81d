package server

import (
	"net/http"

	"github.com/kaholo/kansible/internal/api"
	"github.com/kaholo/kansible/internal/constants"
)

// handleHealth returns a simple health check response.
func (r *Router) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, api.HealthResponse{
		Status:  "ok",
		Version: *constants.GetVersion(),
	})
}

// handleRunPlaybook handles POST /api/v1/playbooks/run.
func (r *Router) handleRunPlaybook(w http.ResponseWriter, req *http.Request) {
	var runReq api.RunPlaybookRequest
	if err := decodeRequestBody(w, req, &runReq); err != nil {
		return
	}

	resp, err := r.svc.RunPlaybook(req.Context(), &runReq, nil)
	if err != nil {
		r.handleAndLogError(w, req, err, "run playbook")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleRunCommand handles POST /api/v1/commands/run.
func (r *Router) handleRunCommand(w http.ResponseWriter, req *http.Request) {
	var runReq api.RunCommandRequest
	if err := decodeRequestBody(w, req, &runReq); err != nil {
		return
	}

	resp, err := r.svc.RunCommand(req.Context(), &runReq, nil)
	if err != nil {
		r.handleAndLogError(w, req, err, "run command")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
