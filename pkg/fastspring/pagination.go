package fastspring

import (
	"context"
	"errors"

	"github.com/fivetwenty-io/fastspring-client/internal/constants"
)

// PageFunc fetches one page of a list endpoint. page starts at 1.
type PageFunc[T any] func(ctx context.Context, page, limit int) ([]T, Page, error)

// PaginationOptions bounds a multi-page fetch.
type PaginationOptions struct {
	PageSize int
	MaxPages int
}

// PageResult is one page delivered by StreamPages.
type PageResult[T any] struct {
	Items []T
	Page  int
	Err   error
}

func (o *PaginationOptions) pageSize() int {
	if o == nil || o.PageSize <= 0 {
		return constants.DefaultPageSize
	}

	if o.PageSize > constants.MaxPageSize {
		return constants.MaxPageSize
	}

	return o.PageSize
}

func (o *PaginationOptions) maxPages() int {
	if o == nil {
		return 0
	}

	return o.MaxPages
}

// nextPage returns the page after current according to meta, or 0 when the
// listing is exhausted.
func nextPage(current int, meta Page, fetched int) int {
	if fetched == 0 || !meta.HasMore() {
		return 0
	}

	if meta.NextPage != nil && *meta.NextPage > current {
		return *meta.NextPage
	}

	return current + 1
}

// PaginationIterator walks a paged listing one item at a time.
type PaginationIterator[T any] struct {
	ctx      context.Context //nolint:containedctx
	fetch    PageFunc[T]
	options  *PaginationOptions
	items    []T
	index    int
	page     int
	fetched  int
	finished bool
}

// NewPaginationIterator creates an iterator that starts at page 1.
func NewPaginationIterator[T any](ctx context.Context, fetch PageFunc[T], options *PaginationOptions) *PaginationIterator[T] {
	return &PaginationIterator[T]{
		ctx:     ctx,
		fetch:   fetch,
		options: options,
		page:    1,
	}
}

// HasNext reports whether Next can return another item.
func (it *PaginationIterator[T]) HasNext() bool {
	if it.index < len(it.items) {
		return true
	}

	return !it.finished
}

// Next returns the next item, fetching the following page when needed.
func (it *PaginationIterator[T]) Next() (T, error) {
	var zero T

	for it.index >= len(it.items) {
		if it.finished {
			return zero, ErrNoMoreItems
		}

		err := it.fetchPage()
		if err != nil {
			return zero, err
		}
	}

	item := it.items[it.index]
	it.index++

	return item, nil
}

// All collects every remaining item.
func (it *PaginationIterator[T]) All() ([]T, error) {
	var all []T

	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			if errors.Is(err, ErrNoMoreItems) {
				break
			}

			return nil, err
		}

		all = append(all, item)
	}

	return all, nil
}

// ForEach calls fn for every remaining item and stops at the first error.
func (it *PaginationIterator[T]) ForEach(fn func(T) error) error {
	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			if errors.Is(err, ErrNoMoreItems) {
				return nil
			}

			return err
		}

		err = fn(item)
		if err != nil {
			return err
		}
	}

	return nil
}

func (it *PaginationIterator[T]) fetchPage() error {
	items, meta, err := it.fetch(it.ctx, it.page, it.options.pageSize())
	if err != nil {
		return err
	}

	it.fetched++
	it.items = items
	it.index = 0

	next := nextPage(it.page, meta, len(items))
	if next == 0 || (it.options.maxPages() > 0 && it.fetched >= it.options.maxPages()) {
		it.finished = true
	} else {
		it.page = next
	}

	return nil
}

// FetchAllPages fetches pages until the listing is exhausted or MaxPages is reached.
func FetchAllPages[T any](ctx context.Context, fetch PageFunc[T], options *PaginationOptions) ([]T, error) {
	var all []T

	page := 1
	for fetched := 0; page > 0; fetched++ {
		if options.maxPages() > 0 && fetched >= options.maxPages() {
			break
		}

		items, meta, err := fetch(ctx, page, options.pageSize())
		if err != nil {
			return nil, err
		}

		all = append(all, items...)
		page = nextPage(page, meta, len(items))
	}

	return all, nil
}

// StreamPages delivers pages on a channel that is closed after the last page,
// the first error, or cancellation of ctx.
func StreamPages[T any](ctx context.Context, fetch PageFunc[T], options *PaginationOptions) <-chan PageResult[T] {
	results := make(chan PageResult[T], 1)

	go func() {
		defer close(results)

		page := 1
		for fetched := 0; page > 0; fetched++ {
			if options.maxPages() > 0 && fetched >= options.maxPages() {
				return
			}

			items, meta, err := fetch(ctx, page, options.pageSize())

			select {
			case results <- PageResult[T]{Items: items, Page: page, Err: err}:
			case <-ctx.Done():
				return
			}

			if err != nil {
				return
			}

			page = nextPage(page, meta, len(items))
		}
	}()

	return results
}
