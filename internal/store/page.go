package store

// Default and maximum page sizes for list queries.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page selects a 1-based page of a list query.
type Page struct {
	Number int
	Size   int
}

// NewPage normalizes number and size into range.
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

// Offset is the number of rows skipped before the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// PageCount returns how many pages of p.Size cover total items.
func (p Page) PageCount(total int) int {
	if total == 0 || p.Size == 0 {
		return 0
	}
	return (total + p.Size - 1) / p.Size
}
