package paging

import (
	"fmt"
	"math"
	"strings"
)

const (
	DefaultSize = 10
	MaxSize     = 100
)

// Status selects records by their active flag.
type Status int

const (
	Active Status = iota
	Inactive
	All
)

// ParseStatus maps a status keyword to a Status. Matching is case-insensitive
// and anything other than "inactive" or "all" selects active records.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inactive":
		return Inactive
	case "all":
		return All
	default:
		return Active
	}
}

// Known reports whether s is one of the three status keywords (or empty).
func Known(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "active", "inactive", "all":
		return true
	}
	return false
}

func (s Status) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case All:
		return "all"
	default:
		return "active"
	}
}

// Predicate returns the required value of the active flag, or nil when
// every record matches.
func (s Status) Predicate() *bool {
	switch s {
	case All:
		return nil
	case Inactive:
		v := false
		return &v
	default:
		v := true
		return &v
	}
}

// Matches reports whether a record with the given active flag is selected.
func (s Status) Matches(active bool) bool {
	p := s.Predicate()
	return p == nil || *p == active
}

// Request is a zero-based page request.
type Request struct {
	Page   int
	Size   int
	Status Status
}

// Normalize applies the default size and caps it at MaxSize. Page is capped
// so that Offset cannot overflow; such a page is always past the end.
func (r Request) Normalize() Request {
	if r.Page < 0 {
		r.Page = 0
	}
	if r.Size <= 0 {
		r.Size = DefaultSize
	}
	if r.Size > MaxSize {
		r.Size = MaxSize
	}
	if maxPage := math.MaxInt / r.Size; r.Page > maxPage {
		r.Page = maxPage
	}
	return r
}

func (r Request) Offset() int {
	return r.Page * r.Size
}

func (r Request) Limit() int {
	return r.Size
}

// WhereActive renders the status predicate against column as a SQL
// fragment with a positional placeholder starting at argPos. It returns an
// empty clause for All.
func WhereActive(column string, s Status, argPos int) (string, []any) {
	p := s.Predicate()
	if p == nil {
		return "", nil
	}
	return fmt.Sprintf(" WHERE %s = $%d", column, argPos), []any{*p}
}

// OrderBy is the listing order shared by every resource: newest first, ties
// broken by identity so the order is total.
func OrderBy(createdColumn, idColumn string) string {
	return fmt.Sprintf(" ORDER BY %s DESC, %s ASC", createdColumn, idColumn)
}

// Page is a slice of results plus enough metadata to compute the page count
// without another round trip.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

func NewPage[T any](content []T, req Request, total int64) Page[T] {
	if content == nil {
		content = make([]T, 0)
	}
	return Page[T]{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    TotalPages(total, req.Size),
	}
}

// TotalPages is ceil(total/size).
func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
