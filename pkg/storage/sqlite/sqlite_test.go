package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/carebridge/carebridge/pkg/grant"
	"github.com/carebridge/carebridge/pkg/storage"
	"github.com/carebridge/carebridge/pkg/storage/sqlcommon"
)

func TestPrepareDSN(t *testing.T) {
	t.Run("adds_default_pragmas", func(t *testing.T) {
		uri, err := PrepareDSN("test.db")
		require.NoError(t, err)
		require.Contains(t, uri, "journal_mode%28WAL%29")
		require.Contains(t, uri, "busy_timeout%28100%29")
		require.Contains(t, uri, "_txlock=immediate")
	})

	t.Run("keeps_existing_pragmas", func(t *testing.T) {
		uri, err := PrepareDSN("test.db?_pragma=busy_timeout%28500%29")
		require.NoError(t, err)
		require.Contains(t, uri, "busy_timeout%28500%29")
		require.NotContains(t, uri, "busy_timeout%28100%29")
	})
}

func newDatastore(t *testing.T) *Datastore {
	t.Helper()

	uri := filepath.Join(t.TempDir(), "grants.db")

	err := NewMigrationProvider().RunMigrations(context.Background(), storage.MigrationConfig{
		URI:     uri,
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)

	ds, err := New(uri, sqlcommon.NewConfig())
	require.NoError(t, err)
	t.Cleanup(ds.Close)
	return ds
}

func TestSQLiteDatastore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("share_round_trip", func(t *testing.T) {
		ds := newDatastore(t)

		accepted := now.Add(time.Minute)
		share := &grant.Share{
			ID:             "01HQZS0001",
			OwnerID:        "p1",
			OwnerName:      "Pat",
			OwnerEmail:     "pat@ex.com",
			CaregiverID:    "c1",
			CaregiverEmail: "care@ex.com",
			Role:           grant.RoleViewer,
			Status:         grant.StatusAccepted,
			Message:        "hi",
			CreatedAt:      now,
			UpdatedAt:      now,
			AcceptedAt:     &accepted,
		}
		require.NoError(t, ds.PutShare(ctx, share, false))

		got, err := ds.GetShare(ctx, "p1_c1")
		require.NoError(t, err)
		require.Equal(t, share.ID, got.ID)
		require.Equal(t, grant.StatusAccepted, got.Status)
		require.Equal(t, "care@ex.com", got.CaregiverEmail)
		require.NotNil(t, got.AcceptedAt)
		require.True(t, got.AcceptedAt.Equal(accepted))
	})

	t.Run("get_missing_share_is_not_found", func(t *testing.T) {
		ds := newDatastore(t)

		_, err := ds.GetShare(ctx, "nope")
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("merge_preserves_identity_fields", func(t *testing.T) {
		ds := newDatastore(t)

		require.NoError(t, ds.PutShare(ctx, &grant.Share{
			ID:          "01HQZS0001",
			OwnerID:     "p1",
			OwnerName:   "Pat",
			CaregiverID: "c1",
			Status:      grant.StatusPending,
			Message:     "original",
			CreatedAt:   now,
			UpdatedAt:   now,
		}, false))

		require.NoError(t, ds.PutShare(ctx, &grant.Share{
			ID:          "01HQZS0002",
			OwnerID:     "p1",
			CaregiverID: "c1",
			Status:      grant.StatusAccepted,
			CreatedAt:   now.Add(time.Hour),
			UpdatedAt:   now.Add(time.Hour),
		}, true))

		got, err := ds.GetShare(ctx, "p1_c1")
		require.NoError(t, err)
		require.Equal(t, "01HQZS0001", got.ID)
		require.True(t, got.CreatedAt.Equal(now))
		require.Equal(t, "Pat", got.OwnerName)
		require.Equal(t, "original", got.Message)
		require.Equal(t, grant.StatusAccepted, got.Status)
	})

	t.Run("delete_is_replayable", func(t *testing.T) {
		ds := newDatastore(t)

		require.NoError(t, ds.DeleteShare(ctx, "absent"))
	})

	t.Run("lists_ordered_by_ulid", func(t *testing.T) {
		ds := newDatastore(t)

		for i, id := range []string{"01HQZS0002", "01HQZS0001", "01HQZS0003"} {
			require.NoError(t, ds.PutShare(ctx, &grant.Share{
				ID:          id,
				OwnerID:     "p1",
				CaregiverID: []string{"c2", "c1", "c3"}[i],
				Status:      grant.StatusPending,
				CreatedAt:   now,
				UpdatedAt:   now,
			}, false))
		}

		shares, err := ds.ListSharesByOwner(ctx, "p1")
		require.NoError(t, err)
		require.Len(t, shares, 3)
		require.Equal(t, "01HQZS0001", shares[0].ID)
		require.Equal(t, "01HQZS0003", shares[2].ID)

		mine, err := ds.ListSharesByCaregiver(ctx, "c2")
		require.NoError(t, err)
		require.Len(t, mine, 1)
	})

	t.Run("invite_round_trip_with_legacy_email", func(t *testing.T) {
		ds := newDatastore(t)

		invite := &grant.Invite{
			Token:       "tok1",
			ID:          "01HQZI0001",
			OwnerID:     "p1",
			LegacyEmail: "old@ex.com",
			Role:        grant.RoleViewer,
			Status:      grant.StatusPending,
			CreatedAt:   now,
			ExpiresAt:   now.Add(grant.InviteTTL),
		}
		require.NoError(t, ds.PutInvite(ctx, invite))

		got, err := ds.GetInvite(ctx, "tok1")
		require.NoError(t, err)
		require.Equal(t, "old@ex.com", got.RecipientEmail())

		pending, err := ds.FindPendingInvite(ctx, "p1", "old@ex.com")
		require.NoError(t, err)
		require.Equal(t, "tok1", pending.Token)

		byEmail, err := ds.ListInvitesByEmail(ctx, "old@ex.com")
		require.NoError(t, err)
		require.Len(t, byEmail, 1)
	})

	t.Run("find_share_by_owner_and_email", func(t *testing.T) {
		ds := newDatastore(t)

		require.NoError(t, ds.PutShare(ctx, &grant.Share{
			ID:             "01HQZS0001",
			OwnerID:        "p1",
			CaregiverID:    "c1",
			CaregiverEmail: "care@ex.com",
			Status:         grant.StatusAccepted,
			CreatedAt:      now,
			UpdatedAt:      now,
		}, false))

		got, err := ds.FindShareByOwnerAndEmail(ctx, "p1", "CARE@ex.com ")
		require.NoError(t, err)
		require.Equal(t, "c1", got.CaregiverID)

		_, err = ds.FindShareByOwnerAndEmail(ctx, "p1", "other@ex.com")
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("find_share_prefers_live_record", func(t *testing.T) {
		ds := newDatastore(t)

		// Revoked leftover sorts after the accepted record for the same email
		// even though its ULID is lower.
		require.NoError(t, ds.PutShare(ctx, &grant.Share{
			ID:             "01HQZS0001",
			OwnerID:        "p1",
			CaregiverID:    "cOld",
			CaregiverEmail: "care@ex.com",
			Status:         grant.StatusRevoked,
			CreatedAt:      now,
			UpdatedAt:      now,
		}, false))
		require.NoError(t, ds.PutShare(ctx, &grant.Share{
			ID:             "01HQZS0002",
			OwnerID:        "p1",
			CaregiverID:    "cNew",
			CaregiverEmail: "care@ex.com",
			Status:         grant.StatusAccepted,
			CreatedAt:      now,
			UpdatedAt:      now,
		}, false))

		got, err := ds.FindShareByOwnerAndEmail(ctx, "p1", "care@ex.com")
		require.NoError(t, err)
		require.Equal(t, "cNew", got.CaregiverID)
		require.Equal(t, grant.StatusAccepted, got.Status)
	})

	t.Run("is_ready_after_migrations", func(t *testing.T) {
		ds := newDatastore(t)

		status, err := ds.IsReady(ctx)
		require.NoError(t, err)
		require.True(t, status.IsReady)
	})
}
