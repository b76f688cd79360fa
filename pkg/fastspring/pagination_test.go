package fastspring_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errPageUnavailable = errors.New("page unavailable")

type testPage struct {
	ids  []string
	next int
	more bool
}

// mockPager serves fixed pages and records the requested page numbers.
type mockPager struct {
	pages     map[int]testPage
	requested []int
	limits    []int
	failAt    int
}

func (m *mockPager) fetch(_ context.Context, page, limit int) ([]string, fastspring.Page, error) {
	m.requested = append(m.requested, page)
	m.limits = append(m.limits, limit)

	if m.failAt == page {
		return nil, fastspring.Page{}, errPageUnavailable
	}

	p, ok := m.pages[page]
	if !ok {
		return nil, fastspring.Page{Page: page}, nil
	}

	meta := fastspring.Page{Page: page, More: p.more}
	if p.next > 0 {
		next := p.next
		meta.NextPage = &next
	}

	return p.ids, meta, nil
}

func threePages() *mockPager {
	return &mockPager{
		pages: map[int]testPage{
			1: {ids: []string{"1", "2"}, next: 2},
			2: {ids: []string{"3", "4"}, more: true},
			3: {ids: []string{"5"}},
		},
	}
}

func TestPaginationIterator_HasNext(t *testing.T) {
	t.Parallel()

	pager := &mockPager{
		pages: map[int]testPage{
			1: {ids: []string{"1", "2"}, next: 2},
			2: {ids: []string{"3"}},
		},
	}

	iterator := fastspring.NewPaginationIterator[string](context.Background(), pager.fetch, nil)

	assert.True(t, iterator.HasNext())

	item1, err := iterator.Next()
	require.NoError(t, err)
	assert.Equal(t, "1", item1)
	assert.True(t, iterator.HasNext())

	item2, err := iterator.Next()
	require.NoError(t, err)
	assert.Equal(t, "2", item2)
	assert.True(t, iterator.HasNext())

	item3, err := iterator.Next()
	require.NoError(t, err)
	assert.Equal(t, "3", item3)
	assert.False(t, iterator.HasNext())

	_, err = iterator.Next()
	require.ErrorIs(t, err, fastspring.ErrNoMoreItems)
}

func TestPaginationIterator_All(t *testing.T) {
	t.Parallel()

	pager := threePages()
	iterator := fastspring.NewPaginationIterator[string](context.Background(), pager.fetch, nil)

	all, err := iterator.All()
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, all)
	assert.Equal(t, []int{1, 2, 3}, pager.requested)
}

func TestPaginationIterator_ForEach(t *testing.T) {
	t.Parallel()

	pager := &mockPager{
		pages: map[int]testPage{
			1: {ids: []string{"1", "2"}},
		},
	}

	iterator := fastspring.NewPaginationIterator[string](context.Background(), pager.fetch, nil)

	var collected []string

	err := iterator.ForEach(func(id string) error {
		collected = append(collected, id)

		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, collected)
}

func TestFetchAllPages(t *testing.T) {
	t.Parallel()

	pager := threePages()

	ids, err := fastspring.FetchAllPages[string](context.Background(), pager.fetch, nil)
	require.NoError(t, err)
	assert.Len(t, ids, 5)
	assert.Equal(t, []int{50, 50, 50}, pager.limits)
}

func TestFetchAllPages_WithMaxPages(t *testing.T) {
	t.Parallel()

	pager := threePages()
	options := &fastspring.PaginationOptions{
		PageSize: 2,
		MaxPages: 2,
	}

	ids, err := fastspring.FetchAllPages[string](context.Background(), pager.fetch, options)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids)
	assert.Equal(t, []int{2, 2}, pager.limits)
}

func TestFetchAllPages_PageSizeCapped(t *testing.T) {
	t.Parallel()

	pager := threePages()

	_, err := fastspring.FetchAllPages[string](context.Background(), pager.fetch, &fastspring.PaginationOptions{PageSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, 250, pager.limits[0])
}

func TestFetchAllPages_Error(t *testing.T) {
	t.Parallel()

	pager := threePages()
	pager.failAt = 2

	ids, err := fastspring.FetchAllPages[string](context.Background(), pager.fetch, nil)
	require.ErrorIs(t, err, errPageUnavailable)
	assert.Nil(t, ids)
}

func TestStreamPages(t *testing.T) {
	t.Parallel()

	pager := &mockPager{
		pages: map[int]testPage{
			1: {ids: []string{"1", "2"}, next: 2},
			2: {ids: []string{"3"}},
		},
	}

	var all []string

	pageCount := 0

	for result := range fastspring.StreamPages[string](context.Background(), pager.fetch, nil) {
		require.NoError(t, result.Err)

		all = append(all, result.Items...)
		pageCount++
	}

	assert.Equal(t, 2, pageCount)
	assert.Len(t, all, 3)
}

func TestFetchAllPages_FollowsNextPageHints(t *testing.T) {
	t.Parallel()

	pager := &mockPager{
		pages: map[int]testPage{
			1: {ids: []string{"1"}, next: 3},
			3: {ids: []string{"2"}, next: 3, more: true},
			4: {ids: []string{"3"}},
		},
	}

	items, err := fastspring.FetchAllPages[string](context.Background(), pager.fetch, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, items)
	assert.Equal(t, []int{1, 3, 4}, pager.requested, "a nextPage that does not advance falls back to the following page")
}
