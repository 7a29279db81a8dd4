package domain

// Page is one fetched page of a cursor-paginated collection. EndCursor is
// opaque and only meaningful when HasNextPage is true.
type Page[T any] struct {
	Items       []T
	EndCursor   string
	HasNextPage bool
}

// CanAdvance reports whether the page may be used to request the next one.
func (p Page[T]) CanAdvance() bool {
	return p.HasNextPage
}
