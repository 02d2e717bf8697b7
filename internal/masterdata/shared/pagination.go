package shared

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100

	SortAsc  = "asc"
	SortDesc = "desc"
)

// ListFilters represents standard list query filters.
type ListFilters struct {
	Page    int
	Limit   int
	Search  string
	SortBy  string
	SortDir string

	// Entity specific filters
	SupplierID *uuid.UUID
	ClientID   *uuid.UUID
	Sold       *bool
}

// FiltersFromQuery reads the common filters out of a list request.
func FiltersFromQuery(r *http.Request) ListFilters {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = DefaultPage
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	filters := ListFilters{
		Page:    page,
		Limit:   limit,
		Search:  q.Get("search"),
		SortBy:  q.Get("sort"),
		SortDir: q.Get("dir"),
	}
	if id, err := uuid.Parse(q.Get("supplier_id")); err == nil {
		filters.SupplierID = &id
	}
	if id, err := uuid.Parse(q.Get("client_id")); err == nil {
		filters.ClientID = &id
	}
	if raw := q.Get("sold"); raw != "" {
		sold := raw == "true" || raw == "1"
		filters.Sold = &sold
	}
	return filters
}

// Offset converts page and limit into the query offset.
func (f ListFilters) Offset() int {
	offset := (f.Page - 1) * f.Limit
	if offset < 0 {
		return 0
	}
	return offset
}
