package commands

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carebridge/carebridge/pkg/grant"
	serverErrors "github.com/carebridge/carebridge/pkg/server/errors"
)

func pendingInvite(token, ownerID, email string, createdAt time.Time) *grant.Invite {
	return &grant.Invite{
		Token:          token,
		ID:             "01HQZI" + token[:4],
		OwnerID:        ownerID,
		OwnerName:      "Pat",
		OwnerEmail:     "pat@ex.com",
		CaregiverEmail: email,
		Role:           grant.RoleViewer,
		Status:         grant.StatusPending,
		Message:        "please help",
		CreatedAt:      createdAt,
		ExpiresAt:      createdAt.Add(grant.InviteTTL),
	}
}

func TestAcceptInvite(t *testing.T) {
	ctx := context.Background()

	newCmd := func(f *fixture) *AcceptInviteCommand {
		return NewAcceptInviteCommand(f.ds, f.resolver, f.granter, f.lookup,
			WithAcceptInviteCommandClock(f.clock),
		)
	}

	t.Run("fresh_accept_creates_share_and_flips_invite", func(t *testing.T) {
		f := newFixture(t)
		f.user("c9", "Case@Ex.com")
		f.granter.EXPECT().EnsureCaregiverRole(gomock.Any(), "c9").Return(nil)

		require.NoError(t, f.ds.PutInvite(ctx, pendingInvite("tok1", "p1", "case@ex.com", f.now.Add(-time.Hour))))

		res, err := newCmd(f).Execute(ctx, &AcceptInviteRequest{Token: "tok1", UserID: "c9"})
		require.NoError(t, err)

		require.Equal(t, "accepted", res.Invite.Status)
		require.Equal(t, "c9", res.Invite.CaregiverID)
		require.Equal(t, "p1_c9", res.Share.Key)
		require.Equal(t, "accepted", res.Share.Status)
		require.Equal(t, "please help", res.Share.Message)

		stored := f.mustGetShare(t, "p1_c9")
		require.Equal(t, grant.StatusAccepted, stored.Status)
		require.Equal(t, "c9", stored.CaregiverID)
		require.NotNil(t, stored.AcceptedAt)

		invite := f.mustGetInvite(t, "tok1")
		require.Equal(t, grant.StatusAccepted, invite.Status)
		require.Equal(t, "c9", invite.CaregiverID)
	})

	t.Run("second_accept_is_idempotent", func(t *testing.T) {
		f := newFixture(t)
		f.user("c9", "case@ex.com")
		f.granter.EXPECT().EnsureCaregiverRole(gomock.Any(), "c9").Return(nil).Times(2)

		require.NoError(t, f.ds.PutInvite(ctx, pendingInvite("tok1", "p1", "case@ex.com", f.now.Add(-time.Hour))))

		cmd := newCmd(f)
		first, err := cmd.Execute(ctx, &AcceptInviteRequest{Token: "tok1", UserID: "c9"})
		require.NoError(t, err)

		second, err := cmd.Execute(ctx, &AcceptInviteRequest{Token: "tok1", UserID: "c9"})
		require.NoError(t, err)

		require.Equal(t, first.Invite, second.Invite)
		require.Equal(t, first.Share.ID, second.Share.ID)

		shares, err := f.ds.ListSharesByCaregiver(ctx, "c9")
		require.NoError(t, err)
		require.Len(t, shares, 1)
	})

	t.Run("replay_repairs_missing_share", func(t *testing.T) {
		f := newFixture(t)
		f.user("c9", "case@ex.com")
		f.granter.EXPECT().EnsureCaregiverRole(gomock.Any(), "c9").Return(nil)

		// An accepted invite whose share write never landed.
		accepted := pendingInvite("tok1", "p1", "case@ex.com", f.now.Add(-time.Hour))
		accepted.Status = grant.StatusAccepted
		accepted.CaregiverID = "c9"
		acceptedAt := f.now.Add(-30 * time.Minute)
		accepted.AcceptedAt = &acceptedAt
		require.NoError(t, f.ds.PutInvite(ctx, accepted))

		res, err := newCmd(f).Execute(ctx, &AcceptInviteRequest{Token: "tok1", UserID: "c9"})
		require.NoError(t, err)
		require.Equal(t, "accepted", res.Share.Status)

		stored := f.mustGetShare(t, "p1_c9")
		require.Equal(t, grant.StatusAccepted, stored.Status)
	})

	t.Run("email_mismatch_rejected_without_mutation", func(t *testing.T) {
		f := newFixture(t)
		f.user("x1", "other@ex.com")

		require.NoError(t, f.ds.PutInvite(ctx, pendingInvite("tok1", "p1", "case@ex.com", f.now.Add(-time.Hour))))

		_, err := newCmd(f).Execute(ctx, &AcceptInviteRequest{Token: "tok1", UserID: "x1"})
		require.ErrorIs(t, err, serverErrors.ErrEmailMismatch)

		require.Equal(t, grant.StatusPending, f.mustGetInvite(t, "tok1").Status)
	})

	t.Run("email_match_is_case_and_space_insensitive", func(t *testing.T) {
		f := newFixture(t)
		f.user("c9", " CASE@EX.COM ")
		f.granter.EXPECT().EnsureCaregiverRole(gomock.Any(), "c9").Return(nil)

		require.NoError(t, f.ds.PutInvite(ctx, pendingInvite("tok1", "p1", "case@ex.com", f.now.Add(-time.Hour))))

		res, err := newCmd(f).Execute(ctx, &AcceptInviteRequest{Token: "tok1", UserID: "c9"})
		require.NoError(t, err)
		require.Equal(t, "case@ex.com", res.Share.CaregiverEmail)
	})

	t.Run("legacy_email_field_satisfies_the_match", func(t *testing.T) {
		f := newFixture(t)
		f.user("c9", "case@ex.com")
		f.granter.EXPECT().EnsureCaregiverRole(gomock.Any(), "c9").Return(nil)

		invite := pendingInvite("tok1", "p1", "", f.now.Add(-time.Hour))
		invite.LegacyEmail = "case@ex.com"
		require.NoError(t, f.ds.PutInvite(ctx, invite))

		_, err := newCmd(f).Execute(ctx, &AcceptInviteRequest{Token: "tok1", UserID: "c9"})
		require.NoError(t, err)
	})

	t.Run("expired_invite_rejected_and_expiry_persisted", func(t *testing.T) {
		f := newFixture(t)
		f.user("c9", "case@ex.com")

		require.NoError(t, f.ds.PutInvite(ctx, pendingInvite("tok1", "p1", "case@ex.com", f.now.Add(-8*24*time.Hour))))

		_, err := newCmd(f).Execute(ctx, &AcceptInviteRequest{Token: "tok1", UserID: "c9"})
		require.ErrorIs(t, err, serverErrors.ErrInviteExpired)

		require.Equal(t, grant.StatusExpired, f.mustGetInvite(t, "tok1").Status)
	})

	t.Run("revoked_invite_is_terminal", func(t *testing.T) {
		f := newFixture(t)
		f.user("c9", "case@ex.com")

		invite := pendingInvite("tok1", "p1", "case@ex.com", f.now.Add(-time.Hour))
		invite.Status = grant.StatusRevoked
		require.NoError(t, f.ds.PutInvite(ctx, invite))

		_, err := newCmd(f).Execute(ctx, &AcceptInviteRequest{Token: "tok1", UserID: "c9"})
		require.ErrorIs(t, err, serverErrors.ErrInviteRevoked)
	})

	t.Run("unknown_token_is_not_found", func(t *testing.T) {
		f := newFixture(t)
		f.user("c9", "case@ex.com")

		_, err := newCmd(f).Execute(ctx, &AcceptInviteRequest{Token: "missing", UserID: "c9"})
		require.ErrorIs(t, err, serverErrors.ErrNotFound)
	})

	t.Run("role_grant_failure_does_not_fail_acceptance", func(t *testing.T) {
		f := newFixture(t)
		f.user("c9", "case@ex.com")
		f.granter.EXPECT().EnsureCaregiverRole(gomock.Any(), "c9").Return(context.DeadlineExceeded)

		require.NoError(t, f.ds.PutInvite(ctx, pendingInvite("tok1", "p1", "case@ex.com", f.now.Add(-time.Hour))))

		_, err := newCmd(f).Execute(ctx, &AcceptInviteRequest{Token: "tok1", UserID: "c9"})
		require.NoError(t, err)
	})

	t.Run("acceptance_invalidates_cached_listing", func(t *testing.T) {
		f := newFixture(t)
		f.user("c9", "case@ex.com")
		f.granter.EXPECT().EnsureCaregiverRole(gomock.Any(), "c9").Return(nil)

		// Warm the cache while the caregiver has nothing.
		shares, err := f.lookup.AcceptedShares(ctx, "c9")
		require.NoError(t, err)
		require.Empty(t, shares)

		require.NoError(t, f.ds.PutInvite(ctx, pendingInvite("tok1", "p1", "case@ex.com", f.now.Add(-time.Hour))))
		_, err = newCmd(f).Execute(ctx, &AcceptInviteRequest{Token: "tok1", UserID: "c9"})
		require.NoError(t, err)

		shares, err = f.lookup.AcceptedShares(ctx, "c9")
		require.NoError(t, err)
		require.Len(t, shares, 1)
	})
}
