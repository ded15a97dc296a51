// Package fetch provides stateful accessors over the listing and lookup
// services: a cursor pager that accumulates pages and single-value
// fetchers with loading and error state. Consumers poll the accessors
// instead of handling errors inline; a failed load keeps the previously
// loaded data visible.
package fetch

import (
	"context"
	"sync"

	"github.com/promptart/backend/internal/models"
)

// PageFunc fetches one page of art pieces. It returns the page, the
// continuation cursor for the next page (empty when exhausted) and an
// error.
type PageFunc func(ctx context.Context, pageSize int, cursor string) ([]*models.ArtPiece, string, error)

// Pager accumulates pages from a PageFunc. Loaded items are only ever
// appended or wholly replaced by a successful refresh; a failed load
// never discards them. HasMore is keyed off the continuation cursor, not
// the size of the last page, because server-side filtering can return a
// short page with more data behind it.
type Pager struct {
	mu       sync.Mutex
	fetch    PageFunc
	pageSize int

	items       []*models.ArtPiece
	cursor      string
	hasMore     bool
	loaded      bool
	loading     bool
	loadingMore bool
	err         error
}

func NewPager(fetch PageFunc, pageSize int) *Pager {
	return &Pager{
		fetch:    fetch,
		pageSize: pageSize,
		hasMore:  true,
	}
}

// Load fetches the first page. On success it replaces the accumulated
// items; on failure the previous items and cursor stay intact and the
// error is held for Err.
func (p *Pager) Load(ctx context.Context) {
	p.mu.Lock()
	if p.loading {
		p.mu.Unlock()
		return
	}
	p.loading = true
	p.err = nil
	p.mu.Unlock()

	items, next, err := p.fetch(ctx, p.pageSize, "")

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false
	if err != nil {
		p.err = err
		return
	}
	p.items = items
	p.cursor = next
	p.hasMore = next != ""
	p.loaded = true
}

// LoadMore fetches the next page and appends it. It is a no-op when the
// listing is exhausted, when the first page has not loaded yet, or while
// another load is in flight.
func (p *Pager) LoadMore(ctx context.Context) {
	p.mu.Lock()
	if !p.loaded || !p.hasMore || p.loading || p.loadingMore {
		p.mu.Unlock()
		return
	}
	cursor := p.cursor
	p.loadingMore = true
	p.err = nil
	p.mu.Unlock()

	items, next, err := p.fetch(ctx, p.pageSize, cursor)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loadingMore = false
	if err != nil {
		p.err = err
		return
	}
	p.items = append(p.items, items...)
	p.cursor = next
	p.hasMore = next != ""
}

// Refresh refetches from the beginning. Equivalent to Load; the name
// records intent at call sites.
func (p *Pager) Refresh(ctx context.Context) {
	p.Load(ctx)
}

// Items returns the accumulated items. The returned slice is shared;
// callers must not mutate it.
func (p *Pager) Items() []*models.ArtPiece {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.items
}

// HasMore reports whether a continuation cursor is outstanding.
func (p *Pager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

// Loading reports whether a first-page load is in flight.
func (p *Pager) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// LoadingMore reports whether a continuation load is in flight.
func (p *Pager) LoadingMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loadingMore
}

// Err returns the error from the most recent load, or nil after a
// successful one.
func (p *Pager) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}
