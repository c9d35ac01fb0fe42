package pagination

// Default values.
const (
	DefaultPage     = 1
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Pagination holds page parameters bound from the query string.
type Pagination struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// New creates pagination with default values.
func New() *Pagination {
	return &Pagination{Page: DefaultPage, PageSize: DefaultPageSize}
}

// Normalize clamps out of range values to the defaults and limits.
func (p *Pagination) Normalize() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	switch {
	case p.PageSize < 1:
		p.PageSize = DefaultPageSize
	case p.PageSize > MaxPageSize:
		p.PageSize = MaxPageSize
	}
}

// Offset returns the offset for database queries.
func (p *Pagination) Offset() int {
	p.Normalize()
	return (p.Page - 1) * p.PageSize
}

// Limit returns the limit for database queries.
func (p *Pagination) Limit() int {
	p.Normalize()
	return p.PageSize
}

// PageInfo represents pagination info in API responses.
type PageInfo struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// Info returns pagination info for a result of total rows.
func (p *Pagination) Info(total int64) PageInfo {
	size := p.Limit()
	pages := int((total + int64(size) - 1) / int64(size))
	return PageInfo{
		Page:       p.Page,
		PageSize:   size,
		Total:      total,
		TotalPages: pages,
	}
}
