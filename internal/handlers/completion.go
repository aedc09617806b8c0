package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/solverhub/apiserver/internal/services"
	"github.com/solverhub/apiserver/types"
)

// CompletionHandler provides HTTP handlers for project completion
// requests.
type CompletionHandler struct {
	completionService *services.CompletionService
}

// CompletionRouter registers completion-request routes on the given
// router.
func CompletionRouter(r chi.Router, completionService *services.CompletionService) {
	handler := &CompletionHandler{completionService: completionService}

	r.Post("/", handler.RequestCompletion)
	r.Get("/", handler.ListCompletions)
	r.Route("/{completionID}", func(r chi.Router) {
		r.Get("/", handler.GetCompletion)
		r.Post("/approve", handler.ApproveCompletion)
		r.Post("/request-revision", handler.RequestRevision)
		r.Post("/cancel", handler.CancelCompletion)
		r.Delete("/", handler.DeleteCompletion)
	})
}

// CompletionCreateRequest carries a solver's request to close out a
// project.
type CompletionCreateRequest struct {
	ProjectID        int64   `json:"project_id"`
	CompletionRemark string  `json:"completion_remark"`
	SolverRating     float64 `json:"solver_rating"`
}

func (h *CompletionHandler) RequestCompletion(w http.ResponseWriter, r *http.Request) {
	var req CompletionCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.ProjectID < 1 {
		writeError(w, http.StatusBadRequest, "project_id is required")
		return
	}
	if req.SolverRating < 0 {
		writeError(w, http.StatusBadRequest, "invalid solver_rating")
		return
	}

	request, err := h.completionService.Request(r.Context(), types.ProjectCompletionRequest{
		ProjectID:        req.ProjectID,
		CompletionRemark: req.CompletionRemark,
		SolverRating:     req.SolverRating,
	})
	if err != nil {
		writeServiceError(w, err, "failed to request completion")
		return
	}

	writeJSON(w, http.StatusCreated, request)
}

func (h *CompletionHandler) ListCompletions(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseQueryInt64(r, "project_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	requests, err := h.completionService.ListByProject(r.Context(), projectID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list completion requests")
		return
	}

	writeJSON(w, http.StatusOK, requests)
}

func (h *CompletionHandler) GetCompletion(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "completionID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	request, err := h.completionService.Get(r.Context(), ident)
	if err != nil {
		writeServiceError(w, err, "failed to fetch completion request")
		return
	}

	writeJSON(w, http.StatusOK, request)
}

// ApproveCompletion accepts the request and closes out its project.
func (h *CompletionHandler) ApproveCompletion(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "completionID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	request, err := h.completionService.Approve(r.Context(), ident)
	if err != nil {
		writeServiceError(w, err, "failed to approve completion request")
		return
	}

	writeJSON(w, http.StatusOK, request)
}

func (h *CompletionHandler) RequestRevision(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "completionID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	request, err := h.completionService.RequestRevision(r.Context(), ident)
	if err != nil {
		writeServiceError(w, err, "failed to request revision")
		return
	}

	writeJSON(w, http.StatusOK, request)
}

func (h *CompletionHandler) CancelCompletion(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "completionID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	request, err := h.completionService.Cancel(r.Context(), ident)
	if err != nil {
		writeServiceError(w, err, "failed to cancel completion request")
		return
	}

	writeJSON(w, http.StatusOK, request)
}

func (h *CompletionHandler) DeleteCompletion(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "completionID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := h.completionService.SoftDelete(r.Context(), ident)
	if err != nil {
		writeServiceError(w, err, "failed to delete completion request")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
