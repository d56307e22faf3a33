package domain

import "math"

// Page selects a 1-based page of a collection.
type Page struct {
	Number int
	Size   int
}

// NewPage validates and builds a Page.
func NewPage(number, size int) (Page, error) {
	p := Page{Number: number, Size: size}
	if err := p.Validate(); err != nil {
		return Page{}, err
	}
	return p, nil
}

// Validate rejects non-positive page numbers and sizes.
func (p Page) Validate() error {
	if p.Number <= 0 {
		return NewInvalidArgument("page number must be greater than zero, got %d", p.Number)
	}
	if p.Size <= 0 {
		return NewInvalidArgument("page size must be greater than zero, got %d", p.Size)
	}
	return nil
}

// Skip is the number of items preceding the page. It saturates at
// math.MaxInt64, which every backend reads as past the end.
func (p Page) Skip() int64 {
	if p.Number <= 1 || p.Size <= 0 {
		return 0
	}
	n, size := int64(p.Number-1), int64(p.Size)
	if n > math.MaxInt64/size {
		return math.MaxInt64
	}
	return n * size
}

// Limit is the maximum number of items on the page.
func (p Page) Limit() int64 { return int64(p.Size) }
