package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharedliving/internal/domain"
)

func TestWriteServiceError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{name: "validation", err: fmt.Errorf("%w: invalid email format", domain.ErrValidation), wantStatus: http.StatusBadRequest, wantCode: ErrCodeBadRequest, wantMessage: "invalid input: invalid email format"},
		{name: "last admin", err: domain.ErrLastAdmin, wantStatus: http.StatusBadRequest, wantCode: ErrCodeLastAdminViolation},
		{name: "unauthenticated", err: domain.ErrUnauthenticated, wantStatus: http.StatusUnauthorized, wantCode: ErrCodeUnauthorized},
		{name: "forbidden", err: fmt.Errorf("%w: admin role required", domain.ErrForbidden), wantStatus: http.StatusForbidden, wantCode: ErrCodeForbidden},
		{name: "not found", err: domain.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: ErrCodeNotFound},
		{name: "conflict", err: domain.ErrConflict, wantStatus: http.StatusConflict, wantCode: ErrCodeConflict},
		{name: "already member", err: domain.ErrAlreadyMember, wantStatus: http.StatusConflict, wantCode: ErrCodeConflict},
		{name: "gone", err: fmt.Errorf("%w: invitation is expired", domain.ErrGone), wantStatus: http.StatusGone, wantCode: ErrCodeGone},
		{name: "internal hides detail", err: fmt.Errorf("create invitation: %w", errors.New("pq: connection refused")), wantStatus: http.StatusInternalServerError, wantCode: ErrCodeInternalError, wantMessage: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			WriteServiceError(rec, req, logger, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body APIResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, body.Error.Message)
			}
			assert.Nil(t, body.Data)
		})
	}
}

type sampleRequest struct {
	Name string `json:"name"`
}

func (s sampleRequest) Validate() []string {
	if s.Name == "" {
		return []string{"name is required"}
	}
	return nil
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		wantOK bool
	}{
		{name: "valid", body: `{"name":"x"}`, wantOK: true},
		{name: "unknown field", body: `{"name":"x","extra":1}`},
		{name: "malformed", body: `{"name":`},
		{name: "fails validation", body: `{"name":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(tt.body))
			var dest sampleRequest
			ok := DecodeAndValidate(rec, req, &dest)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
			}
		})
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query string
		want  domain.PaginationParams
	}{
		{query: "", want: domain.PaginationParams{Page: 1, PageSize: DefaultPageSize}},
		{query: "page=3&page_size=5", want: domain.PaginationParams{Page: 3, PageSize: 5}},
		{query: "page=0&page_size=1000", want: domain.PaginationParams{Page: 1, PageSize: MaxPageSize}},
		{query: "page=abc&page_size=-2", want: domain.PaginationParams{Page: 1, PageSize: DefaultPageSize}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x?"+tt.query, nil)
			assert.Equal(t, tt.want, ParsePagination(req))
		})
	}
	assert.Equal(t, PaginationMeta{Page: 2, PageSize: 10, Total: 21, TotalPages: 3}, NewPaginationMeta(domain.PaginationParams{Page: 2, PageSize: 10}, 21))
	assert.Zero(t, NewPaginationMeta(domain.PaginationParams{Page: 1}, 5).TotalPages)
}

func TestPathUUID(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		wantOK bool
	}{
		{name: "uuid", value: "0b6f3c5e-1d2a-4f7b-9c8e-2a1b3c4d5e6f", wantOK: true},
		{name: "not a uuid", value: "abc"},
		{name: "missing", value: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/households/x", nil)
			req.SetPathValue("householdID", tt.value)
			rr := httptest.NewRecorder()

			got, ok := PathUUID(rr, req, "householdID")
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.value, got)
				return
			}
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			var env APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
			assert.Equal(t, ErrCodeBadRequest, env.Error.Code)
		})
	}
}

func TestParseInvitationListQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x?status=Expired&page=2", nil)
	status, params, err := ParseInvitationListQuery(req)
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, domain.InvitationExpired, *status)
	assert.Equal(t, domain.PaginationParams{Page: 2, PageSize: DefaultPageSize}, params)

	status, _, err = ParseInvitationListQuery(httptest.NewRequest(http.MethodGet, "/x", nil))
	require.NoError(t, err)
	assert.Nil(t, status)

	_, _, err = ParseInvitationListQuery(httptest.NewRequest(http.MethodGet, "/x?status=lost", nil))
	require.ErrorIs(t, err, domain.ErrValidation)
}
