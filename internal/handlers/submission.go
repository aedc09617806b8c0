package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/solverhub/apiserver/internal/services"
	"github.com/solverhub/apiserver/types"
)

const (
	maxMultipartMemory   = 32 << 20
	maxDeliverableBytes  = 256 << 20
	formFieldTaskID      = "task_id"
	formFieldDeliverable = "file"
)

// SubmissionHandler provides HTTP handlers for task submissions.
type SubmissionHandler struct {
	submissionService *services.TaskSubmissionService
}

// SubmissionRouter registers submission routes on the given router.
func SubmissionRouter(r chi.Router, submissionService *services.TaskSubmissionService) {
	handler := &SubmissionHandler{submissionService: submissionService}

	r.Post("/", handler.SubmitDeliverable)
	r.Get("/", handler.ListSubmissions)
	r.Route("/{submissionID}", func(r chi.Router) {
		r.Get("/", handler.GetSubmission)
		r.Get("/download", handler.DownloadDeliverable)
		r.Patch("/feedback", handler.ReviewSubmission)
		r.Delete("/", handler.DeleteSubmission)
	})
}

// SubmitDeliverable accepts a multipart upload and records it as the
// next version for the task.
func (h *SubmissionHandler) SubmitDeliverable(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	taskID, err := strconv.ParseInt(strings.TrimSpace(r.FormValue(formFieldTaskID)), 10, 64)
	if err != nil || taskID < 1 {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	file, header, err := r.FormFile(formFieldDeliverable)
	if err != nil {
		writeError(w, http.StatusBadRequest, "deliverable file is required")
		return
	}
	defer file.Close()

	if header.Size > maxDeliverableBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "deliverable too large")
		return
	}

	filename := path.Base(strings.TrimSpace(header.Filename))
	if filename == "" || filename == "." || filename == "/" {
		writeError(w, http.StatusBadRequest, "invalid filename")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	submission, err := h.submissionService.Submit(r.Context(), taskID, filename, file, header.Size, contentType)
	if err != nil {
		writeServiceError(w, err, "failed to submit deliverable")
		return
	}

	writeJSON(w, http.StatusCreated, submission)
}

func (h *SubmissionHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	taskID, err := parseQueryInt64(r, "task_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	submissions, err := h.submissionService.ListByTask(r.Context(), taskID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list submissions")
		return
	}

	writeJSON(w, http.StatusOK, submissions)
}

func (h *SubmissionHandler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "submissionID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	submission, err := h.submissionService.Get(r.Context(), ident)
	if err != nil {
		writeServiceError(w, err, "failed to fetch submission")
		return
	}

	writeJSON(w, http.StatusOK, submission)
}

// DownloadDeliverable streams the stored deliverable file.
func (h *SubmissionHandler) DownloadDeliverable(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "submissionID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	submission, err := h.submissionService.Get(r.Context(), ident)
	if err != nil {
		writeServiceError(w, err, "failed to fetch submission")
		return
	}

	reader, err := h.submissionService.Download(r.Context(), ident)
	if err != nil {
		writeServiceError(w, err, "failed to fetch deliverable")
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(path.Base(submission.ObjectKey)))
	if _, err := io.Copy(w, reader); err != nil && !errors.Is(err, io.EOF) {
		// Headers are already sent, nothing left to report to the client.
		return
	}
}

// SubmissionFeedbackRequest carries the buyer's verdict.
type SubmissionFeedbackRequest struct {
	Feedback types.BuyerFeedback `json:"buyer_feedback"`
}

func (h *SubmissionHandler) ReviewSubmission(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "submissionID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req SubmissionFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if !req.Feedback.Valid() {
		writeError(w, http.StatusBadRequest, "invalid buyer feedback")
		return
	}

	submission, err := h.submissionService.Review(r.Context(), ident, req.Feedback)
	if err != nil {
		writeServiceError(w, err, "failed to review submission")
		return
	}

	writeJSON(w, http.StatusOK, submission)
}

func (h *SubmissionHandler) DeleteSubmission(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "submissionID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := h.submissionService.SoftDelete(r.Context(), ident)
	if err != nil {
		writeServiceError(w, err, "failed to delete submission")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
