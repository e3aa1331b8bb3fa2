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

func TestIssueShare(t *testing.T) {
	ctx := context.Background()

	newCmd := func(f *fixture) *IssueShareCommand {
		return NewIssueShareCommand(f.ds, f.resolver, f.dispatcher,
			WithIssueShareCommandClock(f.clock),
		)
	}

	t.Run("creates_pending_share_for_resolvable_account", func(t *testing.T) {
		f := newFixture(t)
		f.user("p1", "pat@ex.com")
		f.user("c1", "care@ex.com")
		f.dispatcher.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil)

		res, err := newCmd(f).Execute(ctx, &IssueShareRequest{
			OwnerID:        "p1",
			OwnerName:      "Pat",
			CaregiverEmail: "Care@Ex.com",
			Message:        "please  help\n",
		})
		require.NoError(t, err)

		require.Equal(t, "p1_c1", res.Share.Key)
		require.Equal(t, "pending", res.Share.Status)
		require.Equal(t, "care@ex.com", res.Share.CaregiverEmail)
		require.Equal(t, "viewer", res.Share.Role)
		require.Equal(t, "please help", res.Share.Message)

		stored := f.mustGetShare(t, "p1_c1")
		require.Equal(t, grant.StatusPending, stored.Status)
		require.Equal(t, "c1", stored.CaregiverID)
	})

	t.Run("rejects_self_share", func(t *testing.T) {
		f := newFixture(t)
		f.user("p1", "pat@ex.com")

		_, err := newCmd(f).Execute(ctx, &IssueShareRequest{
			OwnerID:        "p1",
			CaregiverEmail: "Pat@Ex.com",
		})
		require.ErrorIs(t, err, serverErrors.ErrInvalidShare)
	})

	t.Run("rejects_empty_email", func(t *testing.T) {
		f := newFixture(t)

		_, err := newCmd(f).Execute(ctx, &IssueShareRequest{
			OwnerID:        "p1",
			CaregiverEmail: "   ",
		})
		require.ErrorIs(t, err, serverErrors.ErrInvalidShare)
	})

	t.Run("unknown_owner_is_not_found", func(t *testing.T) {
		f := newFixture(t)
		f.noAccount("ghost")

		_, err := newCmd(f).Execute(ctx, &IssueShareRequest{
			OwnerID:        "ghost",
			CaregiverEmail: "care@ex.com",
		})
		require.ErrorIs(t, err, serverErrors.ErrNotFound)
	})

	t.Run("unresolvable_recipient_is_not_found", func(t *testing.T) {
		f := newFixture(t)
		f.user("p1", "pat@ex.com")
		f.noAccount("nobody@ex.com")

		_, err := newCmd(f).Execute(ctx, &IssueShareRequest{
			OwnerID:        "p1",
			CaregiverEmail: "nobody@ex.com",
		})
		require.ErrorIs(t, err, serverErrors.ErrNotFound)
	})

	t.Run("pending_invite_blocks_direct_share", func(t *testing.T) {
		f := newFixture(t)
		f.user("p1", "pat@ex.com")
		f.user("c1", "care@ex.com")

		require.NoError(t, f.ds.PutInvite(ctx, &grant.Invite{
			Token:          "t1",
			ID:             "01HQZX",
			OwnerID:        "p1",
			CaregiverEmail: "care@ex.com",
			Status:         grant.StatusPending,
		}))

		_, err := newCmd(f).Execute(ctx, &IssueShareRequest{
			OwnerID:        "p1",
			CaregiverEmail: "care@ex.com",
		})
		require.ErrorIs(t, err, serverErrors.ErrInviteExists)
	})

	t.Run("legacy_email_field_blocks_duplicates_too", func(t *testing.T) {
		f := newFixture(t)
		f.user("p1", "pat@ex.com")
		f.user("c1", "care@ex.com")

		require.NoError(t, f.ds.PutInvite(ctx, &grant.Invite{
			Token:       "t1",
			ID:          "01HQZX",
			OwnerID:     "p1",
			LegacyEmail: "care@ex.com",
			Status:      grant.StatusPending,
		}))

		_, err := newCmd(f).Execute(ctx, &IssueShareRequest{
			OwnerID:        "p1",
			CaregiverEmail: "care@ex.com",
		})
		require.ErrorIs(t, err, serverErrors.ErrInviteExists)
	})

	t.Run("live_share_blocks_reissue", func(t *testing.T) {
		f := newFixture(t)
		f.user("p1", "pat@ex.com")
		f.user("c1", "care@ex.com")

		for _, status := range []grant.Status{grant.StatusPending, grant.StatusAccepted} {
			require.NoError(t, f.ds.PutShare(ctx, &grant.Share{
				ID:          "01HQZY",
				OwnerID:     "p1",
				CaregiverID: "c1",
				Status:      status,
			}, false))

			_, err := newCmd(f).Execute(ctx, &IssueShareRequest{
				OwnerID:        "p1",
				CaregiverEmail: "care@ex.com",
			})
			require.ErrorIs(t, err, serverErrors.ErrShareExists)
		}
	})

	t.Run("revoked_share_is_overwritten", func(t *testing.T) {
		f := newFixture(t)
		f.user("p1", "pat@ex.com")
		f.user("c1", "care@ex.com")
		f.dispatcher.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil)

		require.NoError(t, f.ds.PutShare(ctx, &grant.Share{
			ID:          "01HQZY",
			OwnerID:     "p1",
			CaregiverID: "c1",
			Status:      grant.StatusRevoked,
			CreatedAt:   f.now.Add(-48 * time.Hour),
		}, false))

		res, err := newCmd(f).Execute(ctx, &IssueShareRequest{
			OwnerID:        "p1",
			CaregiverEmail: "care@ex.com",
		})
		require.NoError(t, err)
		require.Equal(t, "pending", res.Share.Status)

		stored := f.mustGetShare(t, "p1_c1")
		require.Equal(t, grant.StatusPending, stored.Status)
		require.NotEqual(t, "01HQZY", stored.ID)
	})

	t.Run("notification_failure_does_not_fail_issuance", func(t *testing.T) {
		f := newFixture(t)
		f.user("p1", "pat@ex.com")
		f.user("c1", "care@ex.com")
		f.dispatcher.EXPECT().Send(gomock.Any(), gomock.Any()).Return(context.DeadlineExceeded)

		_, err := newCmd(f).Execute(ctx, &IssueShareRequest{
			OwnerID:        "p1",
			CaregiverEmail: "care@ex.com",
		})
		require.NoError(t, err)
	})
}
