// Package pagination provides optional page/page_size handling for list endpoints.
package pagination

import (
	"math"

	"gorm.io/gorm"
)

// DefaultPageSize applies when only page is given.
const DefaultPageSize = 20

// PageRequest holds pagination parameters parsed from query strings.
// A zero PageRequest means "no pagination": the full list is returned.
type PageRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Requested reports whether the client asked for a page at all.
func (p *PageRequest) Requested() bool {
	return p != nil && (p.Page > 0 || p.PageSize > 0)
}

// Defaults fills in default values when page or page_size are not provided.
func (p *PageRequest) Defaults() {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.PageSize == 0 {
		p.PageSize = DefaultPageSize
	}
}

// Offset returns the SQL OFFSET for the current page.
func (p *PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// TotalPages returns the number of pages needed for totalItems.
func (p *PageRequest) TotalPages(totalItems int64) int {
	if p.PageSize <= 0 {
		return 1
	}
	return int(math.Ceil(float64(totalItems) / float64(p.PageSize)))
}

// Paginate returns a GORM scope that applies OFFSET and LIMIT for the given
// page request. A nil or empty request leaves the query untouched.
func Paginate(req *PageRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !req.Requested() {
			return db
		}
		req.Defaults()
		return db.Offset(req.Offset()).Limit(req.PageSize)
	}
}
