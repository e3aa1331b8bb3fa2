package cache

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/carebridge/carebridge/pkg/grant"
	"github.com/carebridge/carebridge/pkg/storage"
)

// LookupCache maps a caregiver id to the caregiver's accepted shares. It is
// populated lazily from the datastore and invalidated explicitly by every
// mutation that changes a grant's status or caregiver id. Invalidation is
// best-effort: a concurrent read may repopulate from a stale store view, so
// callers must tolerate bounded staleness.
type LookupCache struct {
	cache  Cache[[]*grant.Share]
	reader storage.ShareBackend
	group  singleflight.Group
}

// NewLookupCache builds a LookupCache over the given backend.
func NewLookupCache(reader storage.ShareBackend, cache Cache[[]*grant.Share]) *LookupCache {
	return &LookupCache{
		cache:  cache,
		reader: reader,
	}
}

// AcceptedShares returns the caregiver's accepted shares, loading them from
// the datastore on a miss. Concurrent misses for the same caregiver are
// collapsed into a single datastore query.
func (c *LookupCache) AcceptedShares(ctx context.Context, caregiverID string) ([]*grant.Share, error) {
	if shares, ok := c.cache.Get(caregiverID); ok {
		return shares, nil
	}

	res, err, _ := c.group.Do(caregiverID, func() (any, error) {
		all, err := c.reader.ListSharesByCaregiver(ctx, caregiverID)
		if err != nil {
			return nil, err
		}

		accepted := make([]*grant.Share, 0, len(all))
		for _, share := range all {
			if share.Status == grant.StatusAccepted {
				accepted = append(accepted, share)
			}
		}

		c.cache.Set(caregiverID, accepted)
		return accepted, nil
	})
	if err != nil {
		return nil, err
	}

	return res.([]*grant.Share), nil
}

// Invalidate drops the cached entries for the given caregiver ids. Mutations
// must pass every caregiver id they could have affected, including both sides
// of an identity migration.
func (c *LookupCache) Invalidate(caregiverIDs ...string) {
	for _, caregiverID := range caregiverIDs {
		if caregiverID == "" {
			continue
		}
		c.cache.Delete(caregiverID)
	}
}

// Close releases the underlying cache.
func (c *LookupCache) Close() {
	c.cache.Close()
}
