package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/solverhub/apiserver/internal/services"
	"github.com/solverhub/apiserver/types"
)

// ProposalHandler provides HTTP handlers for proposals.
type ProposalHandler struct {
	proposalService *services.ProposalService
}

// ProposalRouter registers proposal routes on the given router.
func ProposalRouter(r chi.Router, proposalService *services.ProposalService) {
	handler := &ProposalHandler{proposalService: proposalService}

	r.Post("/", handler.SubmitProposal)
	r.Get("/", handler.ListProposals)
	r.Route("/{proposalID}", func(r chi.Router) {
		r.Get("/", handler.GetProposal)
		r.Post("/approve", handler.ApproveProposal)
		r.Post("/reject", handler.RejectProposal)
		r.Delete("/", handler.DeleteProposal)
	})
}

// ProposalCreateRequest carries a solver's bid on a project.
type ProposalCreateRequest struct {
	ProjectID     int64   `json:"project_id"`
	SolverID      int64   `json:"solver_id"`
	ProposedPrice float64 `json:"proposed_price"`
	CoverLetter   string  `json:"cover_letter"`
}

func (h *ProposalHandler) SubmitProposal(w http.ResponseWriter, r *http.Request) {
	var req ProposalCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.ProjectID < 1 {
		writeError(w, http.StatusBadRequest, "project_id is required")
		return
	}
	if req.SolverID < 1 {
		writeError(w, http.StatusBadRequest, "solver_id is required")
		return
	}
	if req.ProposedPrice < 0 {
		writeError(w, http.StatusBadRequest, "invalid proposed_price")
		return
	}

	proposal, err := h.proposalService.Submit(r.Context(), types.Proposal{
		ProjectID:     req.ProjectID,
		SolverID:      req.SolverID,
		ProposedPrice: req.ProposedPrice,
		CoverLetter:   req.CoverLetter,
	})
	if err != nil {
		writeServiceError(w, err, "failed to submit proposal")
		return
	}

	writeJSON(w, http.StatusCreated, proposal)
}

func (h *ProposalHandler) ListProposals(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseQueryInt64(r, "project_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	proposals, err := h.proposalService.ListByProject(r.Context(), projectID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list proposals")
		return
	}

	writeJSON(w, http.StatusOK, proposals)
}

func (h *ProposalHandler) GetProposal(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "proposalID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	proposal, err := h.proposalService.Get(r.Context(), ident)
	if err != nil {
		writeServiceError(w, err, "failed to fetch proposal")
		return
	}

	writeJSON(w, http.StatusOK, proposal)
}

// ApproveProposal accepts the bid, assigns the solver to the project,
// and rejects the project's other pending proposals.
func (h *ProposalHandler) ApproveProposal(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "proposalID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	proposal, err := h.proposalService.Approve(r.Context(), ident)
	if err != nil {
		writeServiceError(w, err, "failed to approve proposal")
		return
	}

	writeJSON(w, http.StatusOK, proposal)
}

func (h *ProposalHandler) RejectProposal(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "proposalID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	proposal, err := h.proposalService.Reject(r.Context(), ident)
	if err != nil {
		writeServiceError(w, err, "failed to reject proposal")
		return
	}

	writeJSON(w, http.StatusOK, proposal)
}

func (h *ProposalHandler) DeleteProposal(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "proposalID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := h.proposalService.SoftDelete(r.Context(), ident)
	if err != nil {
		writeServiceError(w, err, "failed to delete proposal")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
