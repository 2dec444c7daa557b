package util

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// PageRequest is a clamped page/per_page pair.
type PageRequest struct {
	Page    int
	PerPage int
}

// NewPageRequest clamps page to >= 1 and per_page to [1, MaxPerPage], defaulting to DefaultPerPage.
func NewPageRequest(page, perPage int) PageRequest {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return PageRequest{Page: page, PerPage: perPage}
}

// Offset returns the SQL offset for the page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Pagination is the metadata block of a paginated envelope.
type Pagination struct {
	CurrentPage  int   `json:"current_page"`
	PerPage      int   `json:"per_page"`
	TotalRecords int64 `json:"total_records"`
	TotalPages   int   `json:"total_pages"`
	HasNext      bool  `json:"has_next"`
	HasPrev      bool  `json:"has_prev"`
}

// NewPagination computes the pagination block for total records.
func NewPagination(req PageRequest, total int64) Pagination {
	pages := 0
	if total > 0 {
		pages = int((total + int64(req.PerPage) - 1) / int64(req.PerPage))
	}
	return Pagination{
		CurrentPage:  req.Page,
		PerPage:      req.PerPage,
		TotalRecords: total,
		TotalPages:   pages,
		HasNext:      req.Page < pages,
		HasPrev:      req.Page > 1,
	}
}
