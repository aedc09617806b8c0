package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/solverhub/apiserver/internal/services"
	"github.com/solverhub/apiserver/types"
)

// UserHandler provides HTTP handlers for user accounts.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler constructs a handler with the provided service.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UserRouter registers user routes on the given router.
func UserRouter(r chi.Router, userService *services.UserService, jwtSecret string) {
	handler := NewUserHandler(userService)
	adminOnly := RequireRole(userService, types.RoleAdmin, types.RoleSuperAdmin)

	r.Post("/", handler.Register)
	r.Get("/", handler.ListUsers)
	r.Route("/{userID}", func(r chi.Router) {
		r.Get("/", handler.GetUser)
		r.Patch("/", handler.UpdateUser)
		r.Patch("/status", handler.UpdateUserStatus)
		r.Delete("/", handler.DeleteUser)
		r.With(RequireAuth(jwtSecret), adminOnly).Delete("/prune", handler.PruneUser)
	})
}

// UserResponse is the public projection of a user account. The
// database-local id and the password hash stay server-side.
type UserResponse struct {
	UUID      uuid.UUID        `json:"uuid"`
	Username  string           `json:"user_name"`
	Email     string           `json:"email"`
	Phone     string           `json:"phone"`
	Role      types.UserRole   `json:"user_role"`
	Status    types.UserStatus `json:"user_status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	DeletedAt *time.Time       `json:"deleted_at"`
}

func newUserResponse(user types.User) UserResponse {
	return UserResponse{
		UUID:      user.UUID,
		Username:  user.Username,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      user.Role,
		Status:    user.Status,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
		DeletedAt: user.DeletedAt,
	}
}

// UserListResponse is the paginated list response payload.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Skip  int            `json:"skip"`
	Limit int            `json:"limit"`
	Total int            `json:"total"`
}

// Register creates a new user account.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.UserRegistration
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}
	if !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusBadRequest, "invalid email")
		return
	}
	if req.Role != "" && !req.Role.Valid() {
		writeError(w, http.StatusBadRequest, "invalid user role")
		return
	}

	user, err := h.userService.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "failed to create user")
		return
	}

	writeJSON(w, http.StatusCreated, newUserResponse(user))
}

// ListUsers returns a page of users, optionally filtered by role and status.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var role *types.UserRole
	if raw := strings.TrimSpace(r.URL.Query().Get("user_role")); raw != "" {
		parsed := types.UserRole(raw)
		if !parsed.Valid() {
			writeError(w, http.StatusBadRequest, "invalid user role")
			return
		}
		role = &parsed
	}

	var status *types.UserStatus
	if raw := strings.TrimSpace(r.URL.Query().Get("user_status")); raw != "" {
		parsed := types.UserStatus(raw)
		if !parsed.Valid() {
			writeError(w, http.StatusBadRequest, "invalid user status")
			return
		}
		status = &parsed
	}

	users, total, err := h.userService.List(r.Context(), skip, limit, role, status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	items := make([]UserResponse, 0, len(users))
	for _, user := range users {
		items = append(items, newUserResponse(user))
	}

	writeJSON(w, http.StatusOK, UserListResponse{
		Items: items,
		Skip:  skip,
		Limit: limit,
		Total: total,
	})
}

// GetUser returns a single user addressed by id or uuid.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userService.Get(r.Context(), ident)
	if err != nil {
		writeServiceError(w, err, "failed to fetch user")
		return
	}

	writeJSON(w, http.StatusOK, newUserResponse(user))
}

// UpdateUser applies a partial update to a user.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var patch types.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if patch.Username != nil && strings.TrimSpace(*patch.Username) == "" {
		writeError(w, http.StatusBadRequest, "user_name must not be empty")
		return
	}

	user, err := h.userService.Update(r.Context(), ident, patch)
	if err != nil {
		writeServiceError(w, err, "failed to update user")
		return
	}

	writeJSON(w, http.StatusOK, newUserResponse(user))
}

// UserStatusRequest carries a status change request.
type UserStatusRequest struct {
	Status types.UserStatus `json:"user_status"`
}

// UpdateUserStatus moves a user through its status machine.
func (h *UserHandler) UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req UserStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid user status")
		return
	}

	user, err := h.userService.UpdateStatus(r.Context(), ident, req.Status)
	if err != nil {
		writeServiceError(w, err, "failed to update user status")
		return
	}

	writeJSON(w, http.StatusOK, newUserResponse(user))
}

// DeleteUser soft-deletes a user. Deleting an already deleted or unknown
// user reports not found.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := h.userService.SoftDelete(r.Context(), ident)
	if err != nil {
		writeServiceError(w, err, "failed to delete user")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PruneUser permanently removes a user row, soft-deleted or not.
func (h *UserHandler) PruneUser(w http.ResponseWriter, r *http.Request) {
	ident, err := parseIdentifierParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	pruned, err := h.userService.Prune(r.Context(), ident)
	if err != nil {
		writeServiceError(w, err, "failed to prune user")
		return
	}
	if !pruned {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
