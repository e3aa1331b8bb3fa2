package cursor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/carebridge/carebridge/pkg/encoder"
	"github.com/carebridge/carebridge/pkg/storage"
)

type item string

func (i item) CursorID() string { return string(i) }

func newItems(n int) []item {
	items := make([]item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, item(fmt.Sprintf("id-%03d", i)))
	}
	return items
}

func TestPaginateFirstPage(t *testing.T) {
	enc := encoder.NewBase64Encoder()

	page, err := Paginate(newItems(5), 2, "", enc)
	require.NoError(t, err)
	require.Equal(t, []item{"id-000", "id-001"}, page.Items)
	require.True(t, page.HasMore)
	require.NotEmpty(t, page.NextCursor)
}

func TestPaginateLastPageHasEmptyCursor(t *testing.T) {
	enc := encoder.NewBase64Encoder()

	page, err := Paginate(newItems(2), 5, "", enc)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.False(t, page.HasMore)
	require.Empty(t, page.NextCursor)
}

func TestPaginateWalkReproducesList(t *testing.T) {
	enc := encoder.NewBase64Encoder()
	items := newItems(23)

	var walked []item
	from := ""
	for {
		page, err := Paginate(items, 5, from, enc)
		require.NoError(t, err)
		walked = append(walked, page.Items...)
		if !page.HasMore {
			require.Empty(t, page.NextCursor)
			break
		}
		require.NotEmpty(t, page.NextCursor)
		from = page.NextCursor
	}

	require.Equal(t, items, walked)
}

func TestPaginateUnknownCursorIsClientError(t *testing.T) {
	enc := encoder.NewBase64Encoder()

	stale, err := enc.Encode([]byte("id-999"))
	require.NoError(t, err)

	_, err = Paginate(newItems(5), 2, stale, enc)
	require.ErrorIs(t, err, storage.ErrInvalidContinuationToken)
}

func TestPaginateMalformedCursor(t *testing.T) {
	enc := encoder.NewBase64Encoder()

	_, err := Paginate(newItems(5), 2, "garbage !!!", enc)
	require.ErrorIs(t, err, storage.ErrInvalidContinuationToken)
}

func TestPaginateZeroLimitUsesDefault(t *testing.T) {
	enc := encoder.NewNoopEncoder()

	page, err := Paginate(newItems(storage.DefaultPageSize+1), 0, "", enc)
	require.NoError(t, err)
	require.Len(t, page.Items, storage.DefaultPageSize)
	require.True(t, page.HasMore)
	require.Equal(t, fmt.Sprintf("id-%03d", storage.DefaultPageSize-1), page.NextCursor)
}
