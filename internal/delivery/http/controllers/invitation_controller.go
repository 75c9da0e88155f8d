package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"sharedliving/internal/delivery/http/helpers"
	"sharedliving/internal/delivery/http/middleware"
	"sharedliving/internal/domain"
)

// CreateInvitationRequest is the request body for POST /households/{householdID}/invitations.
type CreateInvitationRequest struct {
	Email          string `json:"email"`
	Role           string `json:"role"`
	Message        string `json:"message"`
	ExpirationDays int    `json:"expiration_days"`
}

// Validate implements Validator. Format rules beyond presence are enforced by the service.
func (c CreateInvitationRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Email) == "" {
		errs = append(errs, "email is required")
	}
	if strings.TrimSpace(c.Role) == "" {
		errs = append(errs, "role is required")
	}
	if c.ExpirationDays < 0 {
		errs = append(errs, "expiration_days must not be negative")
	}
	return errs
}

// RespondInvitationRequest is the request body for POST /invitations/{token}/respond.
type RespondInvitationRequest struct {
	Action                  string `json:"action"`
	ClaimWithDifferentEmail bool   `json:"claim_with_different_email"`
}

// Validate implements Validator.
func (r RespondInvitationRequest) Validate() []string {
	if strings.TrimSpace(r.Action) == "" {
		return []string{"action is required"}
	}
	return nil
}

// InvitationSuccessResponse is the success envelope for endpoints returning one invitation.
type InvitationSuccessResponse struct {
	Data  *domain.Invitation `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// RespondInvitationSuccessResponse is the success envelope for POST /invitations/{token}/respond.
type RespondInvitationSuccessResponse struct {
	Data  *domain.InvitationResponse `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

// ListInvitationsResponse is the data payload for GET /households/{householdID}/invitations.
type ListInvitationsResponse struct {
	Items      []*domain.Invitation   `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListInvitationsSuccessResponse is the success envelope for GET /households/{householdID}/invitations.
type ListInvitationsSuccessResponse struct {
	Data  ListInvitationsResponse `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

type InvitationController struct {
	Logger  *slog.Logger
	Service domain.InvitationService
}

func NewInvitationController(logger *slog.Logger, svc domain.InvitationService) *InvitationController {
	return &InvitationController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateInvitation godoc
// @Summary Invite someone to a household
// @Description Creates a pending invitation for the email with a preset role and sends the notice. Admins only.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param householdID path string true "Household ID"
// @Param invitation body CreateInvitationRequest true "Invitation data"
// @Success 201 {object} controllers.InvitationSuccessResponse "data contains the created invitation"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /households/{householdID}/invitations [post]
func (c *InvitationController) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	householdID, ok := helpers.PathUUID(w, r, "householdID")
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req CreateInvitationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	inv, err := c.Service.CreateInvitation(r.Context(), domain.CreateInvitationInput{
		InviterID:      userID,
		Email:          req.Email,
		HouseholdID:    householdID,
		Role:           domain.Role(req.Role),
		Message:        req.Message,
		ExpirationDays: req.ExpirationDays,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, inv)
}

// ListInvitations godoc
// @Summary List a household's invitations
// @Description Paginated, newest first, optionally filtered by status. Admins only.
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param householdID path string true "Household ID"
// @Param status query string false "pending, accepted, declined or expired"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListInvitationsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /households/{householdID}/invitations [get]
func (c *InvitationController) ListInvitations(w http.ResponseWriter, r *http.Request) {
	householdID, ok := helpers.PathUUID(w, r, "householdID")
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	status, params, err := helpers.ParseInvitationListQuery(r)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	items, total, err := c.Service.ListHouseholdInvitations(r.Context(), userID, householdID, status, params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListInvitationsResponse{
		Items:      items,
		Pagination: helpers.NewPaginationMeta(params, total),
	})
}

// GetInvitation godoc
// @Summary Look up an invitation by token
// @Description Public. A pending invitation past its expiry is reported (and stored) as expired.
// @Tags invitations
// @Produce json
// @Param token path string true "Invitation token"
// @Success 200 {object} controllers.InvitationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations/{token} [get]
func (c *InvitationController) GetInvitation(w http.ResponseWriter, r *http.Request) {
	inv, err := c.Service.GetInvitationByToken(r.Context(), r.PathValue("token"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, inv)
}

// RespondToInvitation godoc
// @Summary Accept or decline an invitation
// @Description Accepting creates the membership. Repeating an accept that already succeeded returns 200 with already_processed set.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param token path string true "Invitation token"
// @Param response body RespondInvitationRequest true "accept or decline"
// @Success 200 {object} controllers.RespondInvitationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 410 {object} helpers.APIResponse "error.code: gone"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations/{token}/respond [post]
func (c *InvitationController) RespondToInvitation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req RespondInvitationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	resp, err := c.Service.RespondToInvitation(r.Context(), domain.RespondInput{
		Token:                   r.PathValue("token"),
		ActingUserID:            userID,
		Action:                  domain.ResponseAction(req.Action),
		ClaimWithDifferentEmail: req.ClaimWithDifferentEmail,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, resp)
}
