//go:build unit

package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageable(t *testing.T) {
	t.Run("page of", func(t *testing.T) {
		p := PageOf(2, 10)
		assert.Equal(t, int64(20), p.Offset)
		assert.Equal(t, 10, p.Size)
		assert.Equal(t, 2, p.PageNumber())
	})

	t.Run("offset of", func(t *testing.T) {
		p := OffsetOf(15, 10)
		assert.Equal(t, 1, p.PageNumber())
		assert.NoError(t, p.Validate())
	})

	t.Run("invalid", func(t *testing.T) {
		assert.ErrorIs(t, OffsetOf(-1, 10).Validate(), ErrInvalidPageable)
		assert.ErrorIs(t, OffsetOf(0, 0).Validate(), ErrInvalidPageable)
	})

	t.Run("with sort does not alias", func(t *testing.T) {
		base := PageOf(0, 5).WithSort(member.Age.Asc())
		a := base.WithSort(member.Username.Asc())
		b := base.WithSort(member.ID.Desc())
		assert.Len(t, base.Sort, 1)
		assert.Len(t, a.Sort, 2)
		assert.Len(t, b.Sort, 2)
	})
}

func TestNewPage(t *testing.T) {
	page := NewPage([]int{1, 2, 3}, PageOf(1, 3), 7)

	assert.Equal(t, int64(7), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 3, page.NumberOfElements())
	assert.True(t, page.HasNext())

	empty := NewPage[int](nil, PageOf(0, 3), 0)
	assert.NotNil(t, empty.Content)
	assert.Equal(t, 0, empty.TotalPages)
	assert.True(t, empty.IsLast())
}

func TestPage_HasNextUnalignedOffset(t *testing.T) {
	tests := []struct {
		name     string
		content  []int
		pageable Pageable
		total    int64
		wantNext bool
	}{
		{"window reaches the end", []int{2, 3}, OffsetOf(1, 2), 3, false},
		{"rows remain after window", []int{2, 3}, OffsetOf(1, 2), 4, true},
		{"short tail", []int{5}, OffsetOf(4, 2), 5, false},
		{"offset past the end", []int{}, OffsetOf(9, 2), 5, false},
		{"aligned middle page", []int{3, 4}, PageOf(1, 2), 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := NewPage(tt.content, tt.pageable, tt.total)
			assert.Equal(t, tt.wantNext, page.HasNext())
			assert.Equal(t, !tt.wantNext, page.IsLast())
		})
	}
}

func TestNewPageLazy(t *testing.T) {
	counter := func(total int64, calls *int) func() (int64, error) {
		return func() (int64, error) {
			*calls++
			return total, nil
		}
	}

	tests := []struct {
		name      string
		content   []int
		pageable  Pageable
		wantTotal int64
		wantCalls int
	}{
		{"short first page", []int{1, 2}, PageOf(0, 3), 2, 0},
		{"full first page", []int{1, 2, 3}, PageOf(0, 3), 10, 1},
		{"short later page", []int{7}, PageOf(2, 3), 7, 0},
		{"full later page", []int{4, 5, 6}, PageOf(1, 3), 10, 1},
		{"empty later page", []int{}, PageOf(5, 3), 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			page, err := NewPageLazy(tt.content, tt.pageable, counter(10, &calls))
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, page.Total)
			assert.Equal(t, tt.wantCalls, calls)
		})
	}

	t.Run("count error", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := NewPageLazy([]int{1, 2, 3}, PageOf(0, 3), func() (int64, error) { return 0, boom })
		assert.ErrorIs(t, err, boom)
	})
}
