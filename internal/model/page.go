package model

import (
	"fmt"
	"math"
	"strings"
)

// Sort directions accepted by PageRequest.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Paging defaults applied by the services.
const (
	DefaultPageSize = 12
	MaxPageSize     = 100

	// MaxPage bounds Page so Offset stays within int32 for any valid size.
	MaxPage = math.MaxInt32 / MaxPageSize
)

// SortOrder orders a page by a single property.
type SortOrder struct {
	Property  string
	Direction string
}

// PageRequest selects one page of a sorted result set. Page is zero-based.
type PageRequest struct {
	Page int
	Size int
	Sort []SortOrder
}

// Offset returns the number of rows to skip.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// ParseSort parses a "property,direction" expression such as "name,asc".
// The direction is optional and defaults to ascending.
func ParseSort(expr string) (SortOrder, error) {
	parts := strings.Split(expr, ",")
	property := strings.TrimSpace(parts[0])
	if property == "" {
		return SortOrder{}, NewValidationError("sort", "sort property is required")
	}

	order := SortOrder{Property: property, Direction: SortAsc}
	if len(parts) > 1 {
		direction := strings.ToLower(strings.TrimSpace(parts[1]))
		switch direction {
		case SortAsc, SortDesc:
			order.Direction = direction
		default:
			return SortOrder{}, NewValidationError("sort", fmt.Sprintf("invalid sort direction: %s", parts[1]))
		}
	}
	if len(parts) > 2 {
		return SortOrder{}, NewValidationError("sort", fmt.Sprintf("invalid sort expression: %s", expr))
	}

	return order, nil
}

// Page is a slice of a sorted result set plus the totals needed to navigate it.
type Page[T any] struct {
	Content          []T   `json:"content"`
	TotalElements    int64 `json:"totalElements"`
	TotalPages       int   `json:"totalPages"`
	Number           int   `json:"number"`
	Size             int   `json:"size"`
	NumberOfElements int   `json:"numberOfElements"`
	First            bool  `json:"first"`
	Last             bool  `json:"last"`
	Empty            bool  `json:"empty"`
}

// NewPage builds a page and computes its derived fields.
func NewPage[T any](content []T, req PageRequest, total int64) *Page[T] {
	if content == nil {
		content = []T{}
	}

	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}

	return &Page[T]{
		Content:          content,
		TotalElements:    total,
		TotalPages:       totalPages,
		Number:           req.Page,
		Size:             req.Size,
		NumberOfElements: len(content),
		First:            req.Page == 0,
		Last:             req.Page >= totalPages-1,
		Empty:            len(content) == 0,
	}
}
