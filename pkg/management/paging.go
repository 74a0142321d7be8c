package management

import (
	"net/url"
	"strconv"
)

// Pagination defaults and per-endpoint page size caps.
const (
	DefaultPage     = 1
	DefaultPageSize = 10

	MaxOrdersPageSize = 10
	MaxSIMsPageSize   = 100
	MaxEventsPageSize = 1000
)

// Page selects one page of a listing. Zero fields take the defaults.
type Page struct {
	Page     int
	PageSize int
}

// values encodes page and pageSize, clamping pageSize to limit. Sizes at or
// below the limit are sent unchanged.
func (p Page) values(limit int) url.Values {
	page := p.Page
	if page == 0 {
		page = DefaultPage
	}

	size := p.PageSize
	if size == 0 {
		size = DefaultPageSize
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(min(size, limit)))

	return q
}
