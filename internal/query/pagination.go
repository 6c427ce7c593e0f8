package query

import (
	"fmt"
	"math"
	"strconv"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page describes the requested slice of a result set.
type Page struct {
	Page     int
	PageSize int
}

// ParsePage normalizes raw page parameters, applying defaults for
// missing values and rejecting out-of-range input.
func ParsePage(pageStr, sizeStr string) (Page, error) {
	p := Page{Page: 1, PageSize: DefaultPageSize}

	if pageStr != "" {
		n, err := strconv.Atoi(pageStr)
		if err != nil {
			return Page{}, &ValidationError{
				Field:   "page",
				Kind:    KindFormat,
				Message: fmt.Sprintf("%q is not an integer", pageStr),
			}
		}
		if n < 1 {
			return Page{}, &ValidationError{
				Field:   "page",
				Kind:    KindRange,
				Message: "page must be at least 1",
			}
		}
		p.Page = n
	}

	if sizeStr != "" {
		n, err := strconv.Atoi(sizeStr)
		if err != nil {
			return Page{}, &ValidationError{
				Field:   "page_size",
				Kind:    KindFormat,
				Message: fmt.Sprintf("%q is not an integer", sizeStr),
			}
		}
		if n < 1 || n > MaxPageSize {
			return Page{}, &ValidationError{
				Field:   "page_size",
				Kind:    KindRange,
				Message: fmt.Sprintf("page_size must be between 1 and %d", MaxPageSize),
			}
		}
		p.PageSize = n
	}

	return p, nil
}

// Paginated is the envelope returned by every list-style report.
type Paginated[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// NewPaginated slices items down to the requested page. An empty result
// set still reports one page; a page past the end carries no items.
func NewPaginated[T any](items []T, p Page) Paginated[T] {
	total := len(items)

	pages := int(math.Ceil(float64(total) / float64(p.PageSize)))
	if pages < 1 {
		pages = 1
	}

	start := (p.Page - 1) * p.PageSize
	if start > total {
		start = total
	}
	end := start + p.PageSize
	if end > total {
		end = total
	}

	return Paginated[T]{
		Items:      items[start:end],
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalItems: total,
		TotalPages: pages,
	}
}
