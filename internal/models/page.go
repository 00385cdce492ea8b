package models

// Page is one page of a list endpoint. Cursor is echoed back to fetch the next page.
type Page[T any] struct {
	Cursor int
	Items  []T
}

// Len returns the number of items on the page.
func (p Page[T]) Len() int { return len(p.Items) }
