package pagination

const (
	// DefaultPage is the first page; pages are 1-based.
	DefaultPage = 1
	// DefaultPageSize applies to products and carts alike.
	DefaultPageSize = 9
	// MaxPageSize caps how many rows any page query can request.
	MaxPageSize = 100
)

// Params holds page inputs from handlers or resolvers.
type Params struct {
	Page     int
	PageSize int
}

// Normalize fills defaults and clamps the page size.
func Normalize(page, pageSize int) Params {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Params{Page: page, PageSize: pageSize}
}

// Offset returns the number of rows to skip.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}
