package response

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int64 `json:"total_pages"`
	TotalItems int64 `json:"total_items"`
	HasMore    bool  `json:"has_more"`
	From       int   `json:"from"`
	To         int   `json:"to"`
}

// ClampPage normalizes 1-based page parameters coming from a query string.
func ClampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// Offset is the number of rows to skip for page.
func Offset(page, pageSize int) int {
	return (page - 1) * pageSize
}

// NewPagination describes page out of totalItems. itemCount is the number of
// rows actually returned for this page.
func NewPagination(page, pageSize int, totalItems int64, itemCount int) *Pagination {
	p := &Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
	}
	if pageSize > 0 {
		p.TotalPages = (totalItems + int64(pageSize) - 1) / int64(pageSize)
	}
	p.HasMore = int64(page) < p.TotalPages
	if itemCount > 0 {
		p.From = Offset(page, pageSize) + 1
		p.To = p.From + itemCount - 1
	}
	return p
}
