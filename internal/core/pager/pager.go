// Package pager splits ordered lists into fixed-size pages.
package pager

// DefaultPageSize is the number of projects shown per kiosk panel
const DefaultPageSize = 9

// Page is one fixed-size slice of an ordered list
type Page[T any] []T

// Paginate splits items into pages of at most size elements, preserving order.
// Empty input yields zero pages. A non-positive size puts everything on one page.
func Paginate[T any](items []T, size int) []Page[T] {
	if len(items) == 0 {
		return []Page[T]{}
	}
	if size <= 0 {
		size = len(items)
	}

	pages := make([]Page[T], 0, PageCount(len(items), size))
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		// Full slice expression so appends on a page never bleed into the next
		pages = append(pages, Page[T](items[start:end:end]))
	}
	return pages
}

// PageCount returns ceil(n/size)
func PageCount(n, size int) int {
	if n <= 0 {
		return 0
	}
	if size <= 0 {
		return 1
	}
	return (n + size - 1) / size
}
