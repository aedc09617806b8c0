package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/solverhub/apiserver/internal/services"
	"github.com/solverhub/apiserver/types"
)

// BuyerHandler provides HTTP handlers for buyer profiles.
type BuyerHandler struct {
	buyerService *services.BuyerService
}

// BuyerRouter registers buyer routes on the given router.
func BuyerRouter(r chi.Router, buyerService *services.BuyerService) {
	handler := &BuyerHandler{buyerService: buyerService}

	r.Post("/", handler.CreateBuyer)
	r.Route("/{buyerID}", func(r chi.Router) {
		r.Get("/", handler.GetBuyer)
		r.Patch("/", handler.UpdateBuyer)
		r.Delete("/", handler.DeleteBuyer)
	})
}

// BuyerCreateRequest carries the data to open a buyer profile.
type BuyerCreateRequest struct {
	UserID      int64  `json:"user_id"`
	Bio         string `json:"bio"`
	BusinessURL string `json:"business_url"`
}

func (h *BuyerHandler) CreateBuyer(w http.ResponseWriter, r *http.Request) {
	var req BuyerCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.UserID < 1 {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	buyer, err := h.buyerService.Create(r.Context(), types.Buyer{
		UserID:      req.UserID,
		Bio:         req.Bio,
		BusinessURL: req.BusinessURL,
	})
	if err != nil {
		writeServiceError(w, err, "failed to create buyer")
		return
	}

	writeJSON(w, http.StatusCreated, buyer)
}

func (h *BuyerHandler) GetBuyer(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "buyerID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	buyer, err := h.buyerService.Get(r.Context(), ident)
	if err != nil {
		writeServiceError(w, err, "failed to fetch buyer")
		return
	}

	writeJSON(w, http.StatusOK, buyer)
}

// BuyerUpdateRequest is the buyer patch surface. Only non-nil fields apply.
type BuyerUpdateRequest struct {
	Bio         *string             `json:"bio"`
	BusinessURL *string             `json:"business_url"`
	Hiring      *types.HiringStatus `json:"is_hiring"`
	Meta        map[string]string   `json:"meta"`
}

func (h *BuyerHandler) UpdateBuyer(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "buyerID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req BuyerUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Hiring != nil && !req.Hiring.Valid() {
		writeError(w, http.StatusBadRequest, "invalid hiring status")
		return
	}

	buyer, err := h.buyerService.Get(r.Context(), ident)
	if err != nil {
		writeServiceError(w, err, "failed to fetch buyer")
		return
	}

	if req.Bio != nil {
		buyer.Bio = *req.Bio
	}
	if req.BusinessURL != nil {
		buyer.BusinessURL = *req.BusinessURL
	}
	if req.Hiring != nil {
		buyer.Hiring = *req.Hiring
	}
	if req.Meta != nil {
		buyer.Meta = req.Meta
	}

	updated, err := h.buyerService.Update(r.Context(), buyer)
	if err != nil {
		writeServiceError(w, err, "failed to update buyer")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *BuyerHandler) DeleteBuyer(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "buyerID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := h.buyerService.SoftDelete(r.Context(), ident)
	if err != nil {
		writeServiceError(w, err, "failed to delete buyer")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SolverHandler provides HTTP handlers for solver profiles.
type SolverHandler struct {
	solverService *services.SolverService
}

// SolverRouter registers solver routes on the given router.
func SolverRouter(r chi.Router, solverService *services.SolverService) {
	handler := &SolverHandler{solverService: solverService}

	r.Post("/", handler.CreateSolver)
	r.Route("/{solverID}", func(r chi.Router) {
		r.Get("/", handler.GetSolver)
		r.Patch("/", handler.UpdateSolver)
		r.Delete("/", handler.DeleteSolver)
	})
}

// SolverCreateRequest carries the data to open a solver profile.
type SolverCreateRequest struct {
	UserID       int64    `json:"user_id"`
	FullName     string   `json:"full_name"`
	Bio          string   `json:"bio"`
	PortfolioURL string   `json:"portfolio_url"`
	HourlyRate   float64  `json:"hourly_rate"`
	Skills       []string `json:"skills"`
}

func (h *SolverHandler) CreateSolver(w http.ResponseWriter, r *http.Request) {
	var req SolverCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.UserID < 1 {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	solver, err := h.solverService.Create(r.Context(), types.Solver{
		UserID:       req.UserID,
		FullName:     req.FullName,
		Bio:          req.Bio,
		PortfolioURL: req.PortfolioURL,
		HourlyRate:   req.HourlyRate,
		Skills:       req.Skills,
	})
	if err != nil {
		writeServiceError(w, err, "failed to create solver")
		return
	}

	writeJSON(w, http.StatusCreated, solver)
}

func (h *SolverHandler) GetSolver(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "solverID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	solver, err := h.solverService.Get(r.Context(), ident)
	if err != nil {
		writeServiceError(w, err, "failed to fetch solver")
		return
	}

	writeJSON(w, http.StatusOK, solver)
}

// SolverUpdateRequest is the solver patch surface. Only non-nil fields apply.
type SolverUpdateRequest struct {
	FullName     *string             `json:"full_name"`
	Bio          *string             `json:"bio"`
	PortfolioURL *string             `json:"portfolio_url"`
	HourlyRate   *float64            `json:"hourly_rate"`
	Availability *types.Availability `json:"is_available"`
	Skills       []string            `json:"skills"`
	Meta         map[string]string   `json:"meta"`
}

func (h *SolverHandler) UpdateSolver(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "solverID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req SolverUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Availability != nil && !req.Availability.Valid() {
		writeError(w, http.StatusBadRequest, "invalid availability")
		return
	}

	solver, err := h.solverService.Get(r.Context(), ident)
	if err != nil {
		writeServiceError(w, err, "failed to fetch solver")
		return
	}

	if req.FullName != nil {
		solver.FullName = *req.FullName
	}
	if req.Bio != nil {
		solver.Bio = *req.Bio
	}
	if req.PortfolioURL != nil {
		solver.PortfolioURL = *req.PortfolioURL
	}
	if req.HourlyRate != nil {
		solver.HourlyRate = *req.HourlyRate
	}
	if req.Availability != nil {
		solver.Availability = *req.Availability
	}
	if req.Skills != nil {
		solver.Skills = req.Skills
	}
	if req.Meta != nil {
		solver.Meta = req.Meta
	}

	updated, err := h.solverService.Update(r.Context(), solver)
	if err != nil {
		writeServiceError(w, err, "failed to update solver")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *SolverHandler) DeleteSolver(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "solverID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := h.solverService.SoftDelete(r.Context(), ident)
	if err != nil {
		writeServiceError(w, err, "failed to delete solver")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// StaffHandler provides HTTP handlers for staff profiles.
type StaffHandler struct {
	staffService *services.StaffService
}

// StaffRouter registers staff routes on the given router. All staff
// routes are admin-gated.
func StaffRouter(r chi.Router, staffService *services.StaffService, userService *services.UserService, jwtSecret string) {
	handler := &StaffHandler{staffService: staffService}
	adminOnly := RequireRole(userService, types.RoleAdmin, types.RoleSuperAdmin)

	r.Use(RequireAuth(jwtSecret), adminOnly)
	r.Post("/", handler.CreateStaff)
	r.Route("/{staffID}", func(r chi.Router) {
		r.Get("/", handler.GetStaff)
		r.Patch("/", handler.UpdateStaff)
		r.Delete("/", handler.DeleteStaff)
	})
}

// StaffCreateRequest carries the data to open a staff profile.
type StaffCreateRequest struct {
	UserID           int64            `json:"user_id"`
	FullName         string           `json:"full_name"`
	Responsibilities string           `json:"responsibilities"`
	HourlyRate       float64          `json:"hourly_rate"`
	Department       types.Department `json:"department"`
}

func (h *StaffHandler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req StaffCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.UserID < 1 {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if req.Department != "" && !req.Department.Valid() {
		writeError(w, http.StatusBadRequest, "invalid department")
		return
	}

	staff, err := h.staffService.Create(r.Context(), types.Staff{
		UserID:           req.UserID,
		FullName:         req.FullName,
		Responsibilities: req.Responsibilities,
		HourlyRate:       req.HourlyRate,
		Department:       req.Department,
	})
	if err != nil {
		writeServiceError(w, err, "failed to create staff")
		return
	}

	writeJSON(w, http.StatusCreated, staff)
}

func (h *StaffHandler) GetStaff(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "staffID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	staff, err := h.staffService.Get(r.Context(), ident)
	if err != nil {
		writeServiceError(w, err, "failed to fetch staff")
		return
	}

	writeJSON(w, http.StatusOK, staff)
}

// StaffUpdateRequest is the staff patch surface. Only non-nil fields apply.
type StaffUpdateRequest struct {
	FullName         *string             `json:"full_name"`
	Responsibilities *string             `json:"responsibilities"`
	HourlyRate       *float64            `json:"hourly_rate"`
	Department       *types.Department   `json:"department"`
	Availability     *types.Availability `json:"is_available"`
	Meta             map[string]string   `json:"meta"`
}

func (h *StaffHandler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "staffID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req StaffUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Department != nil && !req.Department.Valid() {
		writeError(w, http.StatusBadRequest, "invalid department")
		return
	}
	if req.Availability != nil && !req.Availability.Valid() {
		writeError(w, http.StatusBadRequest, "invalid availability")
		return
	}

	staff, err := h.staffService.Get(r.Context(), ident)
	if err != nil {
		writeServiceError(w, err, "failed to fetch staff")
		return
	}

	if req.FullName != nil {
		staff.FullName = *req.FullName
	}
	if req.Responsibilities != nil {
		staff.Responsibilities = *req.Responsibilities
	}
	if req.HourlyRate != nil {
		staff.HourlyRate = *req.HourlyRate
	}
	if req.Department != nil {
		staff.Department = *req.Department
	}
	if req.Availability != nil {
		staff.Availability = *req.Availability
	}
	if req.Meta != nil {
		staff.Meta = req.Meta
	}

	updated, err := h.staffService.Update(r.Context(), staff)
	if err != nil {
		writeServiceError(w, err, "failed to update staff")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *StaffHandler) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "staffID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := h.staffService.SoftDelete(r.Context(), ident)
	if err != nil {
		writeServiceError(w, err, "failed to delete staff")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
