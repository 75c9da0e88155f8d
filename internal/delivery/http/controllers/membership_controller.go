package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"sharedliving/internal/delivery/http/helpers"
	"sharedliving/internal/delivery/http/middleware"
	"sharedliving/internal/domain"
)

// AddMemberRequest is the request body for POST /households/{householdID}/members.
type AddMemberRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// Validate implements Validator.
func (a AddMemberRequest) Validate() []string {
	var errs []string
	if a.UserID == "" {
		errs = append(errs, "user_id is required")
	} else if uuid.Validate(a.UserID) != nil {
		errs = append(errs, "user_id must be a UUID")
	}
	if strings.TrimSpace(a.Role) == "" {
		errs = append(errs, "role is required")
	}
	return errs
}

// UpdateRoleRequest is the request body for PATCH /households/{householdID}/members/{userID}.
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// Validate implements Validator.
func (u UpdateRoleRequest) Validate() []string {
	if strings.TrimSpace(u.Role) == "" {
		return []string{"role is required"}
	}
	return nil
}

// MembershipSuccessResponse is the success envelope for endpoints returning one membership.
type MembershipSuccessResponse struct {
	Data  *domain.Membership `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ListMembersSuccessResponse is the success envelope for GET /households/{householdID}/members.
type ListMembersSuccessResponse struct {
	Data  []*domain.Membership `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

type MembershipController struct {
	Logger     *slog.Logger
	Authorizer domain.MembershipAuthorizer
}

func NewMembershipController(logger *slog.Logger, authorizer domain.MembershipAuthorizer) *MembershipController {
	return &MembershipController{
		Logger:     logger,
		Authorizer: authorizer,
	}
}

// ListMembers godoc
// @Summary List household members
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param householdID path string true "Household ID"
// @Success 200 {object} controllers.ListMembersSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /households/{householdID}/members [get]
func (c *MembershipController) ListMembers(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	householdID, ok := helpers.PathUUID(w, r, "householdID")
	if !ok {
		return
	}
	members, err := c.Authorizer.ListMembers(r.Context(), userID, householdID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, members)
}

// AddMember godoc
// @Summary Add a user to a household directly
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param householdID path string true "Household ID"
// @Param member body AddMemberRequest true "User and role"
// @Success 201 {object} controllers.MembershipSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /households/{householdID}/members [post]
func (c *MembershipController) AddMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	householdID, ok := helpers.PathUUID(w, r, "householdID")
	if !ok {
		return
	}
	var req AddMemberRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	m, err := c.Authorizer.AddMember(r.Context(), userID, req.UserID, householdID, domain.Role(req.Role))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, m)
}

// UpdateRole godoc
// @Summary Change a member's role
// @Description Admins only. Admins cannot change their own role, and the last admin cannot be demoted.
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param householdID path string true "Household ID"
// @Param userID path string true "Member user ID"
// @Param role body UpdateRoleRequest true "New role"
// @Success 200 {object} controllers.MembershipSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or last_admin_violation"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /households/{householdID}/members/{userID} [patch]
func (c *MembershipController) UpdateRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	householdID, ok := helpers.PathUUID(w, r, "householdID")
	if !ok {
		return
	}
	targetID, ok := helpers.PathUUID(w, r, "userID")
	if !ok {
		return
	}
	var req UpdateRoleRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	m, err := c.Authorizer.UpdateRole(r.Context(), userID, targetID, householdID, domain.Role(req.Role))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, m)
}

// RemoveMember godoc
// @Summary Remove a member or leave a household
// @Description Members may remove themselves; removing someone else requires admin. The last admin cannot be removed.
// @Tags members
// @Security BearerAuth
// @Param householdID path string true "Household ID"
// @Param userID path string true "Member user ID"
// @Success 204 "No Content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or last_admin_violation"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /households/{householdID}/members/{userID} [delete]
func (c *MembershipController) RemoveMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	householdID, ok := helpers.PathUUID(w, r, "householdID")
	if !ok {
		return
	}
	targetID, ok := helpers.PathUUID(w, r, "userID")
	if !ok {
		return
	}
	if err := c.Authorizer.RemoveMember(r.Context(), userID, targetID, householdID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
