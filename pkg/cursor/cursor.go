// Package cursor applies opaque pagination cursors to already-sorted listings.
// The cursor encodes the id of the last record the caller has seen.
package cursor

import (
	"github.com/carebridge/carebridge/pkg/encoder"
	"github.com/carebridge/carebridge/pkg/storage"
)

// Identifiable is any record with a stable id usable as a cursor position.
type Identifiable interface {
	CursorID() string
}

// Page is the result of applying a cursor to a sorted list.
type Page[T Identifiable] struct {
	Items []T

	// HasMore is true when records remain past this page.
	HasMore bool

	// NextCursor identifies the last item of this page, empty when HasMore
	// is false.
	NextCursor string
}

// Paginate slices the sorted list after the position the cursor marks,
// truncated to limit. An unknown cursor means the list changed underneath
// the caller and is surfaced as storage.ErrInvalidContinuationToken, never
// as an empty page.
func Paginate[T Identifiable](sorted []T, limit int, from string, enc encoder.Encoder) (Page[T], error) {
	if limit <= 0 {
		limit = storage.DefaultPageSize
	}

	start := 0
	if from != "" {
		lastSeen, err := enc.Decode(from)
		if err != nil {
			return Page[T]{}, storage.ErrInvalidContinuationToken
		}

		found := false
		for i, item := range sorted {
			if item.CursorID() == string(lastSeen) {
				start = i + 1
				found = true
				break
			}
		}
		if !found {
			return Page[T]{}, storage.ErrInvalidContinuationToken
		}
	}

	end := start + limit
	hasMore := end < len(sorted)
	if !hasMore {
		end = len(sorted)
	}

	page := Page[T]{
		Items:   sorted[start:end],
		HasMore: hasMore,
	}
	if hasMore && len(page.Items) > 0 {
		next, err := enc.Encode([]byte(page.Items[len(page.Items)-1].CursorID()))
		if err != nil {
			return Page[T]{}, err
		}
		page.NextCursor = next
	}

	return page, nil
}
