package fetch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptart/backend/internal/models"
)

// pagedBackend serves fixed-size pages from an in-memory slice, the way
// the listing service does: the cursor is the index of the last item
// handed out, and it is empty once a short page is produced.
type pagedBackend struct {
	pieces []*models.ArtPiece
	calls  int
}

func (b *pagedBackend) page(ctx context.Context, pageSize int, cursor string) ([]*models.ArtPiece, string, error) {
	b.calls++
	start := 0
	if cursor != "" {
		fmt.Sscanf(cursor, "%d", &start)
	}
	end := start + pageSize
	if end > len(b.pieces) {
		end = len(b.pieces)
	}
	page := b.pieces[start:end]
	next := ""
	if len(page) == pageSize {
		next = fmt.Sprintf("%d", end)
	}
	return page, next, nil
}

func makePieces(n int) []*models.ArtPiece {
	pieces := make([]*models.ArtPiece, n)
	for i := range pieces {
		pieces[i] = &models.ArtPiece{ID: fmt.Sprintf("art-%d", i)}
	}
	return pieces
}

func TestPagerAccumulatesPages(t *testing.T) {
	backend := &pagedBackend{pieces: makePieces(5)}
	pager := NewPager(backend.page, 2)
	ctx := context.Background()

	pager.Load(ctx)
	require.NoError(t, pager.Err())
	assert.Len(t, pager.Items(), 2)
	assert.True(t, pager.HasMore())

	pager.LoadMore(ctx)
	require.NoError(t, pager.Err())
	assert.Len(t, pager.Items(), 4)
	assert.True(t, pager.HasMore())

	pager.LoadMore(ctx)
	require.NoError(t, pager.Err())
	assert.Len(t, pager.Items(), 5)
	assert.False(t, pager.HasMore())

	assert.Equal(t, "art-0", pager.Items()[0].ID)
	assert.Equal(t, "art-4", pager.Items()[4].ID)
}

func TestPagerLoadMoreIsNoopWhenExhausted(t *testing.T) {
	backend := &pagedBackend{pieces: makePieces(1)}
	pager := NewPager(backend.page, 2)
	ctx := context.Background()

	pager.Load(ctx)
	assert.False(t, pager.HasMore())

	calls := backend.calls
	pager.LoadMore(ctx)
	assert.Equal(t, calls, backend.calls, "exhausted pager must not fetch")
}

func TestPagerLoadMoreRequiresInitialLoad(t *testing.T) {
	backend := &pagedBackend{pieces: makePieces(3)}
	pager := NewPager(backend.page, 2)

	pager.LoadMore(context.Background())
	assert.Zero(t, backend.calls)
	assert.Empty(t, pager.Items())
}

func TestPagerHasMoreKeyedOffCursor(t *testing.T) {
	// A filtered page can come back short while the cursor still points at
	// more data. HasMore must follow the cursor, not the item count.
	fetch := func(ctx context.Context, pageSize int, cursor string) ([]*models.ArtPiece, string, error) {
		if cursor == "" {
			return []*models.ArtPiece{{ID: "only-visible"}}, "next", nil
		}
		return nil, "", nil
	}

	pager := NewPager(fetch, 5)
	ctx := context.Background()

	pager.Load(ctx)
	assert.Len(t, pager.Items(), 1)
	assert.True(t, pager.HasMore(), "short page with a cursor still has more")

	pager.LoadMore(ctx)
	assert.Len(t, pager.Items(), 1)
	assert.False(t, pager.HasMore())
}

func TestPagerFailedLoadKeepsItems(t *testing.T) {
	fail := false
	backend := &pagedBackend{pieces: makePieces(4)}
	fetch := func(ctx context.Context, pageSize int, cursor string) ([]*models.ArtPiece, string, error) {
		if fail {
			return nil, "", errors.New("backend down")
		}
		return backend.page(ctx, pageSize, cursor)
	}

	pager := NewPager(fetch, 2)
	ctx := context.Background()

	pager.Load(ctx)
	require.NoError(t, pager.Err())
	require.Len(t, pager.Items(), 2)

	fail = true
	pager.LoadMore(ctx)
	assert.Error(t, pager.Err())
	assert.Len(t, pager.Items(), 2, "failed load keeps accumulated items")
	assert.True(t, pager.HasMore(), "cursor survives a failed load")

	// The next attempt picks up where the failure left off.
	fail = false
	pager.LoadMore(ctx)
	require.NoError(t, pager.Err())
	assert.Len(t, pager.Items(), 4)
}

func TestPagerRefreshReplacesItems(t *testing.T) {
	backend := &pagedBackend{pieces: makePieces(4)}
	pager := NewPager(backend.page, 2)
	ctx := context.Background()

	pager.Load(ctx)
	pager.LoadMore(ctx)
	require.Len(t, pager.Items(), 4)

	pager.Refresh(ctx)
	require.NoError(t, pager.Err())
	assert.Len(t, pager.Items(), 2, "refresh restarts from the first page")
	assert.True(t, pager.HasMore())
}
