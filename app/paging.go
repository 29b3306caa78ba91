package app

import (
	"catalog/pkg/paging"

	"go.uber.org/zap"
)

// ParseStatus maps the status query parameter, logging values that fall
// back to active.
func ParseStatus(status string) paging.Status {
	if !paging.Known(status) {
		zap.L().Debug("Unknown status filter, using active", zap.String("status", status))
	}
	return paging.ParseStatus(status)
}

// PageRequest builds a listing request from query parameters. Range checks
// happen in request validation before this is called.
func PageRequest(page, size int, status string) paging.Request {
	return paging.Request{
		Page:   page,
		Size:   size,
		Status: ParseStatus(status),
	}.Normalize()
}
