package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharedliving/internal/delivery/http/helpers"
	"sharedliving/internal/domain"
)

const (
	bobID           = "6f1c2a0e-3b4d-4e5f-8a9b-0c1d2e3f4a5b"
	testHouseholdID = "0b6f3c5e-1d2a-4f7b-9c8e-2a1b3c4d5e6f"
)

// fakeAuthorizer implements domain.MembershipAuthorizer for handler tests.
type fakeAuthorizer struct {
	err        error
	membership *domain.Membership
	members    []*domain.Membership
	lastActing string
	lastTarget string
	lastRole   domain.Role
}

func (f *fakeAuthorizer) CheckMembership(context.Context, string, string) (*domain.Membership, error) {
	return f.membership, f.err
}

func (f *fakeAuthorizer) RequireAdmin(context.Context, string, string) (*domain.Membership, error) {
	return f.membership, f.err
}

func (f *fakeAuthorizer) CountAdmins(context.Context, string) (int, error) { return 1, f.err }

func (f *fakeAuthorizer) AddMember(_ context.Context, acting, target, _ string, role domain.Role) (*domain.Membership, error) {
	f.lastActing, f.lastTarget, f.lastRole = acting, target, role
	if f.err != nil {
		return nil, f.err
	}
	return f.membership, nil
}

func (f *fakeAuthorizer) ListMembers(_ context.Context, acting, _ string) ([]*domain.Membership, error) {
	f.lastActing = acting
	if f.err != nil {
		return nil, f.err
	}
	return f.members, nil
}

func (f *fakeAuthorizer) RemoveMember(_ context.Context, acting, target, _ string) error {
	f.lastActing, f.lastTarget = acting, target
	return f.err
}

func (f *fakeAuthorizer) UpdateRole(_ context.Context, acting, target, _ string, role domain.Role) (*domain.Membership, error) {
	f.lastActing, f.lastTarget, f.lastRole = acting, target, role
	if f.err != nil {
		return nil, f.err
	}
	return f.membership, nil
}

func TestMembershipController_RemoveMember(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		authz      *fakeAuthorizer
		wantStatus int
		wantCode   string
	}{
		{name: "removed", userID: "u-admin", authz: &fakeAuthorizer{}, wantStatus: http.StatusNoContent},
		{name: "last admin", userID: "u-admin", authz: &fakeAuthorizer{err: domain.ErrLastAdmin}, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeLastAdminViolation},
		{name: "not admin", userID: "u-member", authz: &fakeAuthorizer{err: domain.ErrForbidden}, wantStatus: http.StatusForbidden, wantCode: helpers.ErrCodeForbidden},
		{name: "unknown member", userID: "u-admin", authz: &fakeAuthorizer{err: domain.ErrNotFound}, wantStatus: http.StatusNotFound, wantCode: helpers.ErrCodeNotFound},
		{name: "no auth", authz: &fakeAuthorizer{}, wantStatus: http.StatusUnauthorized, wantCode: helpers.ErrCodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewMembershipController(testLogger, tt.authz)
			req := newRequest(http.MethodDelete, "/households/"+testHouseholdID+"/members/"+bobID, "", tt.userID,
				map[string]string{"householdID": testHouseholdID, "userID": bobID})
			rr := httptest.NewRecorder()

			ctrl.RemoveMember(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCode != "" {
				env := decodeEnvelope(t, rr)
				require.NotNil(t, env.Error)
				assert.Equal(t, tt.wantCode, env.Error.Code)
				return
			}
			assert.Equal(t, bobID, tt.authz.lastTarget)
			assert.Empty(t, rr.Body.String())
		})
	}
}

func TestMembershipController_UpdateRole(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		authz      *fakeAuthorizer
		wantStatus int
	}{
		{name: "updated", body: `{"role":"admin"}`, authz: &fakeAuthorizer{membership: &domain.Membership{HouseholdID: "h-1", UserID: bobID, Role: domain.RoleAdmin}}, wantStatus: http.StatusOK},
		{name: "missing role", body: `{}`, authz: &fakeAuthorizer{}, wantStatus: http.StatusBadRequest},
		{name: "own role", body: `{"role":"member"}`, authz: &fakeAuthorizer{err: domain.ErrForbidden}, wantStatus: http.StatusForbidden},
		{name: "invalid role", body: `{"role":"owner"}`, authz: &fakeAuthorizer{err: domain.ErrValidation}, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewMembershipController(testLogger, tt.authz)
			req := newRequest(http.MethodPatch, "/households/"+testHouseholdID+"/members/"+bobID, tt.body, "u-admin",
				map[string]string{"householdID": testHouseholdID, "userID": bobID})
			rr := httptest.NewRecorder()

			ctrl.UpdateRole(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, domain.RoleAdmin, tt.authz.lastRole)
				assert.Equal(t, "u-admin", tt.authz.lastActing)
			}
		})
	}
}

func TestMembershipController_AddMember(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		authz      *fakeAuthorizer
		wantStatus int
	}{
		{name: "added", body: `{"user_id":"` + bobID + `","role":"guest"}`, authz: &fakeAuthorizer{membership: &domain.Membership{HouseholdID: "h-1", UserID: bobID, Role: domain.RoleGuest}}, wantStatus: http.StatusCreated},
		{name: "user id not uuid", body: `{"user_id":"bob","role":"guest"}`, authz: &fakeAuthorizer{}, wantStatus: http.StatusBadRequest},
		{name: "already member", body: `{"user_id":"` + bobID + `","role":"guest"}`, authz: &fakeAuthorizer{err: domain.ErrConflict}, wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewMembershipController(testLogger, tt.authz)
			req := newRequest(http.MethodPost, "/households/"+testHouseholdID+"/members", tt.body, "u-admin", map[string]string{"householdID": testHouseholdID})
			rr := httptest.NewRecorder()

			ctrl.AddMember(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestMembershipController_ListMembers(t *testing.T) {
	authz := &fakeAuthorizer{members: []*domain.Membership{{HouseholdID: "h-1", UserID: "u-admin", Role: domain.RoleAdmin}}}
	ctrl := NewMembershipController(testLogger, authz)

	rr := httptest.NewRecorder()
	ctrl.ListMembers(rr, newRequest(http.MethodGet, "/households/"+testHouseholdID+"/members", "", "u-admin", map[string]string{"householdID": testHouseholdID}))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "u-admin", authz.lastActing)

	authz.err = domain.ErrForbidden
	rr = httptest.NewRecorder()
	ctrl.ListMembers(rr, newRequest(http.MethodGet, "/households/"+testHouseholdID+"/members", "", "u-outsider", map[string]string{"householdID": testHouseholdID}))
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestControllers_reject_malformed_path_ids(t *testing.T) {
	authz := &fakeAuthorizer{}
	members := NewMembershipController(testLogger, authz)
	invitations := NewInvitationController(testLogger, &fakeInvitationService{})

	tests := []struct {
		name    string
		handler http.HandlerFunc
		method  string
		body    string
		path    map[string]string
	}{
		{name: "list members", handler: members.ListMembers, method: http.MethodGet, path: map[string]string{"householdID": "abc"}},
		{name: "add member", handler: members.AddMember, method: http.MethodPost, body: `{"user_id":"` + bobID + `","role":"guest"}`, path: map[string]string{"householdID": "abc"}},
		{name: "update role bad household", handler: members.UpdateRole, method: http.MethodPatch, body: `{"role":"admin"}`, path: map[string]string{"householdID": "abc", "userID": bobID}},
		{name: "update role bad user", handler: members.UpdateRole, method: http.MethodPatch, body: `{"role":"admin"}`, path: map[string]string{"householdID": testHouseholdID, "userID": "bob"}},
		{name: "remove member bad user", handler: members.RemoveMember, method: http.MethodDelete, path: map[string]string{"householdID": testHouseholdID, "userID": "bob"}},
		{name: "remove member missing household", handler: members.RemoveMember, method: http.MethodDelete, path: map[string]string{"userID": bobID}},
		{name: "create invitation", handler: invitations.CreateInvitation, method: http.MethodPost, body: `{"email":"bob@x.com","role":"member"}`, path: map[string]string{"householdID": "abc"}},
		{name: "list invitations", handler: invitations.ListInvitations, method: http.MethodGet, path: map[string]string{"householdID": "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tt.handler(rr, newRequest(tt.method, "/households/abc/members", tt.body, "u-admin", tt.path))

			require.Equal(t, http.StatusBadRequest, rr.Code)
			env := decodeEnvelope(t, rr)
			require.NotNil(t, env.Error)
			assert.Equal(t, helpers.ErrCodeBadRequest, env.Error.Code)
		})
	}
	assert.Empty(t, authz.lastActing, "authorizer must not be reached with a malformed id")
}
