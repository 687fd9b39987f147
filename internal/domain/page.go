package domain

import "math"

// PerPage is the fixed page size for post and comment listings.
const PerPage = 10

// MaxPage bounds requested page numbers so offsets never overflow.
const MaxPage = math.MaxInt32

// Page is one slice of a newest-first listing.
type Page[T any] struct {
	Items       []T
	Total       int
	CurrentPage int
	PerPage     int
}

// LastPage returns the number of the final page, never less than 1.
func (p Page[T]) LastPage() int {
	if p.PerPage <= 0 || p.Total == 0 {
		return 1
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}

// NormalizePage clamps a requested page number into [1, MaxPage].
func NormalizePage(page int) int {
	switch {
	case page < 1:
		return 1
	case page > MaxPage:
		return MaxPage
	}
	return page
}

// Offset returns the row offset of the given page.
func Offset(page, perPage int) int {
	return (NormalizePage(page) - 1) * perPage
}
