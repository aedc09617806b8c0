package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/solverhub/apiserver/internal/services"
	"github.com/solverhub/apiserver/types"
)

// ProjectHandler provides HTTP handlers for projects.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// ProjectRouter registers project routes on the given router.
func ProjectRouter(r chi.Router, projectService *services.ProjectService) {
	handler := &ProjectHandler{projectService: projectService}

	r.Post("/", handler.CreateProject)
	r.Get("/", handler.ListProjects)
	r.Route("/{projectID}", func(r chi.Router) {
		r.Get("/", handler.GetProject)
		r.Patch("/", handler.UpdateProject)
		r.Patch("/status", handler.UpdateProjectStatus)
		r.Post("/solver", handler.AssignSolver)
		r.Delete("/", handler.DeleteProject)
	})
}

// ProjectCreateRequest carries the data to post a project.
type ProjectCreateRequest struct {
	BuyerID      int64   `json:"buyer_id"`
	Name         string  `json:"project_name"`
	Description  string  `json:"project_description"`
	Budget       float64 `json:"project_budget"`
	DurationDays int     `json:"project_duration_days"`
}

// ProjectListResponse is the paginated list response payload.
type ProjectListResponse struct {
	Items []types.Project `json:"items"`
	Skip  int             `json:"skip"`
	Limit int             `json:"limit"`
	Total int             `json:"total"`
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req ProjectCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.BuyerID < 1 {
		writeError(w, http.StatusBadRequest, "buyer_id is required")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "project_name is required")
		return
	}
	if req.Budget < 0 {
		writeError(w, http.StatusBadRequest, "invalid project_budget")
		return
	}
	if req.DurationDays < 0 {
		writeError(w, http.StatusBadRequest, "invalid project_duration_days")
		return
	}

	project, err := h.projectService.Create(r.Context(), types.Project{
		BuyerID:      req.BuyerID,
		Name:         req.Name,
		Description:  req.Description,
		Budget:       req.Budget,
		DurationDays: req.DurationDays,
	})
	if err != nil {
		writeServiceError(w, err, "failed to create project")
		return
	}

	writeJSON(w, http.StatusCreated, project)
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var buyerID *int64
	if raw := strings.TrimSpace(r.URL.Query().Get("buyer_id")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "invalid buyer_id")
			return
		}
		buyerID = &parsed
	}

	var status *types.ProjectStatus
	if raw := strings.TrimSpace(r.URL.Query().Get("project_status")); raw != "" {
		parsed := types.ProjectStatus(raw)
		if !parsed.Valid() {
			writeError(w, http.StatusBadRequest, "invalid project status")
			return
		}
		status = &parsed
	}

	projects, total, err := h.projectService.List(r.Context(), skip, limit, buyerID, status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list projects")
		return
	}

	writeJSON(w, http.StatusOK, ProjectListResponse{
		Items: projects,
		Skip:  skip,
		Limit: limit,
		Total: total,
	})
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "projectID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	project, err := h.projectService.Get(r.Context(), ident)
	if err != nil {
		writeServiceError(w, err, "failed to fetch project")
		return
	}

	writeJSON(w, http.StatusOK, project)
}

// ProjectUpdateRequest is the project patch surface. Only non-nil fields apply.
type ProjectUpdateRequest struct {
	Name         *string  `json:"project_name"`
	Description  *string  `json:"project_description"`
	Budget       *float64 `json:"project_budget"`
	DurationDays *int     `json:"project_duration_days"`
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "projectID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req ProjectUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		writeError(w, http.StatusBadRequest, "project_name must not be empty")
		return
	}
	if req.Budget != nil && *req.Budget < 0 {
		writeError(w, http.StatusBadRequest, "invalid project_budget")
		return
	}
	if req.DurationDays != nil && *req.DurationDays < 0 {
		writeError(w, http.StatusBadRequest, "invalid project_duration_days")
		return
	}

	project, err := h.projectService.Update(r.Context(), ident, req.Name, req.Description, req.Budget, req.DurationDays)
	if err != nil {
		writeServiceError(w, err, "failed to update project")
		return
	}

	writeJSON(w, http.StatusOK, project)
}

// ProjectStatusRequest carries a status change request.
type ProjectStatusRequest struct {
	Status types.ProjectStatus `json:"project_status"`
}

func (h *ProjectHandler) UpdateProjectStatus(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "projectID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req ProjectStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid project status")
		return
	}

	project, err := h.projectService.UpdateStatus(r.Context(), ident, req.Status)
	if err != nil {
		writeServiceError(w, err, "failed to update project status")
		return
	}

	writeJSON(w, http.StatusOK, project)
}

// AssignSolverRequest carries a direct solver assignment.
type AssignSolverRequest struct {
	SolverID int64 `json:"solver_id"`
}

func (h *ProjectHandler) AssignSolver(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "projectID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req AssignSolverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.SolverID < 1 {
		writeError(w, http.StatusBadRequest, "solver_id is required")
		return
	}

	project, err := h.projectService.AssignSolver(r.Context(), ident, req.SolverID)
	if err != nil {
		writeServiceError(w, err, "failed to assign solver")
		return
	}

	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "projectID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := h.projectService.SoftDelete(r.Context(), ident)
	if err != nil {
		writeServiceError(w, err, "failed to delete project")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
