package query

import "fmt"

// Pageable is a window over an ordered result: skip Offset rows, return at most Size.
type Pageable struct {
	Offset int64
	Size   int
	Sort   []OrderSpecifier
}

// PageOf addresses page number page (zero based) of the given size.
func PageOf(page, size int) Pageable {
	return Pageable{Offset: int64(page) * int64(size), Size: size}
}

// OffsetOf addresses size rows starting at offset.
func OffsetOf(offset int64, size int) Pageable {
	return Pageable{Offset: offset, Size: size}
}

func (p Pageable) WithSort(orders ...OrderSpecifier) Pageable {
	p.Sort = append(append([]OrderSpecifier(nil), p.Sort...), orders...)
	return p
}

// PageNumber is the zero based page the offset falls into.
func (p Pageable) PageNumber() int {
	if p.Size <= 0 {
		return 0
	}
	return int(p.Offset / int64(p.Size))
}

func (p Pageable) Validate() error {
	if p.Offset < 0 {
		return fmt.Errorf("%w: offset %d is negative", ErrInvalidPageable, p.Offset)
	}
	if p.Size <= 0 {
		return fmt.Errorf("%w: size %d must be positive", ErrInvalidPageable, p.Size)
	}
	return nil
}

// Page is one window of content plus the total row count.
type Page[T any] struct {
	Content    []T   `json:"content"`
	Offset     int64 `json:"offset"`
	Size       int   `json:"size"`
	Number     int   `json:"number"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func NewPage[T any](content []T, p Pageable, total int64) *Page[T] {
	if content == nil {
		content = []T{}
	}
	pages := 0
	if p.Size > 0 {
		pages = int((total + int64(p.Size) - 1) / int64(p.Size))
	}
	return &Page[T]{
		Content:    content,
		Offset:     p.Offset,
		Size:       p.Size,
		Number:     p.PageNumber(),
		Total:      total,
		TotalPages: pages,
	}
}

// NewPageLazy builds a page, calling count only when the total does not follow
// from the content itself: a short first page, or a short non-empty later
// page, already tells where the result ends.
func NewPageLazy[T any](content []T, p Pageable, count func() (int64, error)) (*Page[T], error) {
	n := int64(len(content))
	if p.Offset == 0 {
		if p.Size > len(content) {
			return NewPage(content, p, n), nil
		}
	} else if n != 0 && p.Size > len(content) {
		return NewPage(content, p, p.Offset+n), nil
	}

	total, err := count()
	if err != nil {
		return nil, err
	}
	return NewPage(content, p, total), nil
}

// HasNext reports whether rows follow this window. Offsets need not be a
// multiple of Size, so Number and TotalPages cannot decide it.
func (p *Page[T]) HasNext() bool {
	return p.Offset+int64(len(p.Content)) < p.Total
}

func (p *Page[T]) IsLast() bool {
	return !p.HasNext()
}

func (p *Page[T]) NumberOfElements() int {
	return len(p.Content)
}
