package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/solverhub/apiserver/internal/services"
	"github.com/solverhub/apiserver/types"
)

// TaskHandler provides HTTP handlers for tasks.
type TaskHandler struct {
	taskService *services.TaskService
}

// TaskRouter registers task routes on the given router.
func TaskRouter(r chi.Router, taskService *services.TaskService) {
	handler := &TaskHandler{taskService: taskService}

	r.Post("/", handler.CreateTask)
	r.Get("/", handler.ListTasks)
	r.Route("/{taskID}", func(r chi.Router) {
		r.Get("/", handler.GetTask)
		r.Patch("/", handler.UpdateTask)
		r.Patch("/status", handler.UpdateTaskStatus)
		r.Delete("/", handler.DeleteTask)
	})
}

// TaskCreateRequest carries the data to open a task under a project.
type TaskCreateRequest struct {
	ProjectID   int64  `json:"project_id"`
	Description string `json:"task_description"`
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req TaskCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Description = strings.TrimSpace(req.Description)
	if req.ProjectID < 1 {
		writeError(w, http.StatusBadRequest, "project_id is required")
		return
	}
	if req.Description == "" {
		writeError(w, http.StatusBadRequest, "task_description is required")
		return
	}

	task, err := h.taskService.Create(r.Context(), types.Task{
		ProjectID:   req.ProjectID,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, err, "failed to create task")
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseQueryInt64(r, "project_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tasks, err := h.taskService.ListByProject(r.Context(), projectID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "taskID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.taskService.Get(r.Context(), ident)
	if err != nil {
		writeServiceError(w, err, "failed to fetch task")
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// TaskUpdateRequest carries a description change.
type TaskUpdateRequest struct {
	Description string `json:"task_description"`
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "taskID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req TaskUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		writeError(w, http.StatusBadRequest, "task_description is required")
		return
	}

	task, err := h.taskService.Update(r.Context(), ident, req.Description)
	if err != nil {
		writeServiceError(w, err, "failed to update task")
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// TaskStatusRequest carries a status change request.
type TaskStatusRequest struct {
	Status types.TaskStatus `json:"task_status"`
}

func (h *TaskHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "taskID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req TaskStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid task status")
		return
	}

	task, err := h.taskService.UpdateStatus(r.Context(), ident, req.Status)
	if err != nil {
		writeServiceError(w, err, "failed to update task status")
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "taskID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := h.taskService.SoftDelete(r.Context(), ident)
	if err != nil {
		writeServiceError(w, err, "failed to delete task")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
