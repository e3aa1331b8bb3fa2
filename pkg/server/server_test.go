package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carebridge/carebridge/internal/mocks"
	"github.com/carebridge/carebridge/pkg/grant"
	"github.com/carebridge/carebridge/pkg/identity"
	"github.com/carebridge/carebridge/pkg/logger"
	"github.com/carebridge/carebridge/pkg/server/commands"
	serverErrors "github.com/carebridge/carebridge/pkg/server/errors"
	"github.com/carebridge/carebridge/pkg/storage/memory"
)

func TestNewServerWithOpts(t *testing.T) {
	t.Run("requires_a_datastore", func(t *testing.T) {
		_, err := NewServerWithOpts(
			WithIdentityResolver(mocks.NewMockResolver(gomock.NewController(t))),
		)
		require.Error(t, err)
	})

	t.Run("requires_a_resolver", func(t *testing.T) {
		_, err := NewServerWithOpts(WithDatastore(memory.New()))
		require.Error(t, err)
	})
}

func TestServerLifecycle(t *testing.T) {
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	resolver := mocks.NewMockResolver(ctrl)

	users := map[string]*identity.User{
		"p1": {ID: "p1", Email: "pat@ex.com"},
		"c9": {ID: "c9", Email: "case@ex.com"},
	}
	resolver.EXPECT().ByID(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, id string) (*identity.User, error) {
			return users[id], nil
		}).AnyTimes()
	resolver.EXPECT().ByEmail(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, email string) (*identity.User, error) {
			for _, u := range users {
				if grant.SameEmail(u.Email, email) {
					return u, nil
				}
			}
			return nil, nil
		}).AnyTimes()

	observed, logs := logger.NewObserverLogger("debug")

	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := MustNewServerWithOpts(
		WithDatastore(memory.New()),
		WithIdentityResolver(resolver),
		WithLogger(observed),
		WithEmailFallbackOnAccept(true),
		WithClock(func() time.Time { return clock }),
	)
	t.Cleanup(s.Close)

	ready, err := s.IsReady(ctx)
	require.NoError(t, err)
	require.True(t, ready)

	// Unknown email routes to the invite flow.
	issued, err := s.IssueGrant(ctx, &IssueGrantRequest{
		OwnerID:        "p1",
		OwnerName:      "Pat",
		CaregiverEmail: "New@Ex.com",
	})
	require.NoError(t, err)
	require.Nil(t, issued.Share)
	require.NotNil(t, issued.Invite)

	fetched, err := s.GetInvite(ctx, &commands.GetInviteRequest{Token: issued.Invite.Token})
	require.NoError(t, err)
	require.Equal(t, "pending", fetched.Invite.Status)

	_, err = s.RevokeInvite(ctx, &commands.RevokeInviteRequest{
		Token:  issued.Invite.Token,
		UserID: "p1",
	})
	require.NoError(t, err)

	// Known email routes to the direct share flow.
	issued, err = s.IssueGrant(ctx, &IssueGrantRequest{
		OwnerID:        "p1",
		OwnerName:      "Pat",
		CaregiverEmail: "case@ex.com",
	})
	require.NoError(t, err)
	require.NotNil(t, issued.Share)
	require.Nil(t, issued.Invite)

	accepted, err := s.AcceptGrant(ctx, &commands.AcceptGrantRequest{
		IDOrToken: issued.Share.Key,
		UserID:    "c9",
	})
	require.NoError(t, err)
	require.Equal(t, "accepted", accepted.Share.Status)

	listing, err := s.ListGrants(ctx, &commands.ListGrantsRequest{UserID: "c9"})
	require.NoError(t, err)
	require.Len(t, listing.Grants, 1)
	require.Equal(t, commands.DirectionIncoming, listing.Grants[0].Direction)

	cached, err := s.AcceptedShares(ctx, "c9")
	require.NoError(t, err)
	require.Len(t, cached, 1)

	_, err = s.TransitionShare(ctx, &commands.TransitionShareRequest{
		ShareKey: issued.Share.Key,
		UserID:   "p1",
		Status:   "revoked",
	})
	require.NoError(t, err)

	_, err = s.AcceptGrant(ctx, &commands.AcceptGrantRequest{
		IDOrToken: issued.Share.Key,
		UserID:    "c9",
	})
	require.ErrorIs(t, err, serverErrors.ErrInvalidTransition)

	require.NotEmpty(t, logs.All())
}
