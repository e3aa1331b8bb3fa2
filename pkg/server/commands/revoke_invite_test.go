package commands

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/carebridge/carebridge/pkg/grant"
	serverErrors "github.com/carebridge/carebridge/pkg/server/errors"
)

func TestRevokeInvite(t *testing.T) {
	ctx := context.Background()

	newCmd := func(f *fixture) *RevokeInviteCommand {
		return NewRevokeInviteCommand(f.ds, f.resolver, f.lookup,
			WithRevokeInviteCommandClock(f.clock),
		)
	}

	t.Run("owner_revokes_pending_invite", func(t *testing.T) {
		f := newFixture(t)
		f.user("p1", "pat@ex.com")

		require.NoError(t, f.ds.PutInvite(ctx, pendingInvite("tok1", "p1", "case@ex.com", f.now.Add(-time.Hour))))

		res, err := newCmd(f).Execute(ctx, &RevokeInviteRequest{Token: "tok1", UserID: "p1"})
		require.NoError(t, err)
		require.Equal(t, "revoked", res.Invite.Status)
		require.Equal(t, grant.StatusRevoked, f.mustGetInvite(t, "tok1").Status)
	})

	t.Run("non_owner_is_forbidden", func(t *testing.T) {
		f := newFixture(t)
		f.user("x1", "other@ex.com")

		require.NoError(t, f.ds.PutInvite(ctx, pendingInvite("tok1", "p1", "case@ex.com", f.now.Add(-time.Hour))))

		_, err := newCmd(f).Execute(ctx, &RevokeInviteRequest{Token: "tok1", UserID: "x1"})
		require.ErrorIs(t, err, serverErrors.ErrForbidden)
	})

	t.Run("revoking_consumed_invite_cascades_to_share", func(t *testing.T) {
		f := newFixture(t)
		f.user("p1", "pat@ex.com")

		invite := pendingInvite("tok1", "p1", "case@ex.com", f.now.Add(-time.Hour))
		invite.Status = grant.StatusAccepted
		invite.CaregiverID = "c9"
		require.NoError(t, f.ds.PutInvite(ctx, invite))
		require.NoError(t, f.ds.PutShare(ctx, &grant.Share{
			ID:             "01HQZS0001",
			OwnerID:        "p1",
			CaregiverID:    "c9",
			CaregiverEmail: "case@ex.com",
			Status:         grant.StatusAccepted,
		}, false))

		_, err := newCmd(f).Execute(ctx, &RevokeInviteRequest{Token: "tok1", UserID: "p1"})
		require.NoError(t, err)

		require.Equal(t, grant.StatusRevoked, f.mustGetInvite(t, "tok1").Status)
		require.Equal(t, grant.StatusRevoked, f.mustGetShare(t, "p1_c9").Status)
	})

	t.Run("cascade_tolerates_missing_share", func(t *testing.T) {
		f := newFixture(t)
		f.user("p1", "pat@ex.com")

		invite := pendingInvite("tok1", "p1", "case@ex.com", f.now.Add(-time.Hour))
		invite.Status = grant.StatusAccepted
		invite.CaregiverID = "c9"
		require.NoError(t, f.ds.PutInvite(ctx, invite))

		_, err := newCmd(f).Execute(ctx, &RevokeInviteRequest{Token: "tok1", UserID: "p1"})
		require.NoError(t, err)
		require.Equal(t, grant.StatusRevoked, f.mustGetInvite(t, "tok1").Status)
	})

	t.Run("second_revoke_is_idempotent", func(t *testing.T) {
		f := newFixture(t)
		f.user("p1", "pat@ex.com")

		require.NoError(t, f.ds.PutInvite(ctx, pendingInvite("tok1", "p1", "case@ex.com", f.now.Add(-time.Hour))))

		cmd := newCmd(f)
		_, err := cmd.Execute(ctx, &RevokeInviteRequest{Token: "tok1", UserID: "p1"})
		require.NoError(t, err)

		res, err := cmd.Execute(ctx, &RevokeInviteRequest{Token: "tok1", UserID: "p1"})
		require.NoError(t, err)
		require.Equal(t, "revoked", res.Invite.Status)
	})

	t.Run("expired_invite_cannot_be_revoked", func(t *testing.T) {
		f := newFixture(t)
		f.user("p1", "pat@ex.com")

		invite := pendingInvite("tok1", "p1", "case@ex.com", f.now.Add(-time.Hour))
		invite.Status = grant.StatusExpired
		require.NoError(t, f.ds.PutInvite(ctx, invite))

		_, err := newCmd(f).Execute(ctx, &RevokeInviteRequest{Token: "tok1", UserID: "p1"})
		require.ErrorIs(t, err, serverErrors.ErrInvalidTransition)
	})

	t.Run("cascade_invalidates_caregiver_cache", func(t *testing.T) {
		f := newFixture(t)
		f.user("p1", "pat@ex.com")

		invite := pendingInvite("tok1", "p1", "case@ex.com", f.now.Add(-time.Hour))
		invite.Status = grant.StatusAccepted
		invite.CaregiverID = "c9"
		require.NoError(t, f.ds.PutInvite(ctx, invite))
		require.NoError(t, f.ds.PutShare(ctx, &grant.Share{
			ID:          "01HQZS0001",
			OwnerID:     "p1",
			CaregiverID: "c9",
			Status:      grant.StatusAccepted,
		}, false))

		warm, err := f.lookup.AcceptedShares(ctx, "c9")
		require.NoError(t, err)
		require.Len(t, warm, 1)

		_, err = newCmd(f).Execute(ctx, &RevokeInviteRequest{Token: "tok1", UserID: "p1"})
		require.NoError(t, err)

		after, err := f.lookup.AcceptedShares(ctx, "c9")
		require.NoError(t, err)
		require.Empty(t, after)
	})
}
