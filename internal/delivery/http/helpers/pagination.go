package helpers

import (
	"net/http"
	"strconv"

	"sharedliving/internal/domain"
)

// Listing defaults. page_size is clamped to MaxPageSize.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ParsePagination reads page and page_size from the query string. Missing, malformed or
// non-positive values fall back to the defaults.
func ParsePagination(r *http.Request) domain.PaginationParams {
	q := r.URL.Query()
	return domain.PaginationParams{
		Page:     positiveInt(q.Get("page"), DefaultPage),
		PageSize: min(positiveInt(q.Get("page_size"), DefaultPageSize), MaxPageSize),
	}
}

// ParseInvitationListQuery reads the optional status filter and pagination for an invitation
// listing. An empty status means every status; an unknown one is an ErrValidation.
func ParseInvitationListQuery(r *http.Request) (*domain.InvitationStatus, domain.PaginationParams, error) {
	params := ParsePagination(r)
	s := r.URL.Query().Get("status")
	if s == "" {
		return nil, params, nil
	}
	status, err := domain.ParseInvitationStatus(s)
	if err != nil {
		return nil, params, err
	}
	return &status, params, nil
}

func positiveInt(s string, fallback int) int {
	if v, err := strconv.Atoi(s); err == nil && v >= 1 {
		return v
	}
	return fallback
}

// PaginationMeta accompanies every paginated listing.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPaginationMeta describes the page params selected out of total rows.
func NewPaginationMeta(params domain.PaginationParams, total int) PaginationMeta {
	meta := PaginationMeta{Page: params.Page, PageSize: params.PageSize, Total: total}
	if params.PageSize > 0 {
		meta.TotalPages = (total + params.PageSize - 1) / params.PageSize
	}
	return meta
}
