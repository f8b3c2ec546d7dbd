package mocks

import "github.com/phrazzld/account-api/internal/store"

// paginate returns the slice of items selected by page.
func paginate[T any](items []T, page store.Page) []T {
	if page.Size == 0 {
		return items
	}
	start := page.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + page.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
