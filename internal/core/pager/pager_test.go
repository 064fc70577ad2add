package pager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestPaginate_PageCounts(t *testing.T) {
	tests := []struct {
		items     int
		wantPages int
		lastLen   int
	}{
		{0, 0, 0},
		{1, 1, 1},
		{8, 1, 8},
		{9, 1, 9},
		{10, 2, 1},
		{18, 2, 9},
		{23, 3, 5},
		{100, 12, 1},
	}

	for _, tt := range tests {
		pages := Paginate(seq(tt.items), DefaultPageSize)
		require.Len(t, pages, tt.wantPages, "items=%d", tt.items)
		assert.Equal(t, tt.wantPages, PageCount(tt.items, DefaultPageSize))
		if tt.wantPages > 0 {
			assert.Len(t, pages[len(pages)-1], tt.lastLen, "items=%d", tt.items)
		}
	}
}

func TestPaginate_ConcatenationPreservesOrder(t *testing.T) {
	for n := 0; n <= 40; n++ {
		items := seq(n)
		var joined []int
		for _, p := range Paginate(items, DefaultPageSize) {
			assert.LessOrEqual(t, len(p), DefaultPageSize)
			assert.NotEmpty(t, p)
			joined = append(joined, p...)
		}
		if n == 0 {
			assert.Empty(t, joined)
			continue
		}
		assert.Equal(t, items, joined)
	}
}

func TestPaginate_EmptyIsZeroPagesNotNil(t *testing.T) {
	pages := Paginate[string](nil, DefaultPageSize)
	assert.NotNil(t, pages)
	assert.Empty(t, pages)
}

func TestPaginate_NonPositiveSize(t *testing.T) {
	pages := Paginate(seq(5), 0)
	require.Len(t, pages, 1)
	assert.Len(t, pages[0], 5)
	assert.Equal(t, 1, PageCount(5, -3))
}

func TestPaginate_PagesDoNotAlias(t *testing.T) {
	items := seq(18)
	pages := Paginate(items, DefaultPageSize)

	grown := append(pages[0], 999)
	assert.Equal(t, 9, pages[1][0], "appending to page 0 must not overwrite page 1")
	assert.Len(t, grown, 10)
}

func TestPaginate_ScenarioCounts(t *testing.T) {
	got := []int{}
	for _, n := range []int{23, 0, 9, 10} {
		got = append(got, len(Paginate(seq(n), DefaultPageSize)))
	}
	assert.Equal(t, []int{3, 0, 1, 2}, got)
}
