package commands

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/carebridge/carebridge/pkg/cache"
	"github.com/carebridge/carebridge/pkg/grant"
	"github.com/carebridge/carebridge/pkg/identity"
	"github.com/carebridge/carebridge/pkg/logger"
	serverErrors "github.com/carebridge/carebridge/pkg/server/errors"
	"github.com/carebridge/carebridge/pkg/storage"
)

// RevokeInviteCommand revokes a token-addressed invite. Revoking an invite
// that was already consumed cascades to the canonical share; the share, being
// the authoritative record, is revoked before the invite so a partial failure
// never leaves access granted by a revoked invite.
type RevokeInviteCommand struct {
	datastore storage.GrantDatastore
	resolver  identity.Resolver
	lookup    *cache.LookupCache
	logger    logger.Logger
	now       func() time.Time
}

type RevokeInviteCommandOption func(*RevokeInviteCommand)

func WithRevokeInviteCommandLogger(l logger.Logger) RevokeInviteCommandOption {
	return func(c *RevokeInviteCommand) {
		c.logger = l
	}
}

func WithRevokeInviteCommandClock(now func() time.Time) RevokeInviteCommandOption {
	return func(c *RevokeInviteCommand) {
		c.now = now
	}
}

func NewRevokeInviteCommand(
	datastore storage.GrantDatastore,
	resolver identity.Resolver,
	lookup *cache.LookupCache,
	opts ...RevokeInviteCommandOption,
) *RevokeInviteCommand {
	c := &RevokeInviteCommand{
		datastore: datastore,
		resolver:  resolver,
		lookup:    lookup,
		logger:    logger.NewNoopLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

type RevokeInviteRequest struct {
	Token  string
	UserID string
}

type RevokeInviteResponse struct {
	Invite *grant.InvitePayload
}

func (c *RevokeInviteCommand) Execute(ctx context.Context, req *RevokeInviteRequest) (*RevokeInviteResponse, error) {
	actor, err := resolveActor(ctx, c.resolver, req.UserID)
	if err != nil {
		return nil, err
	}

	invite, err := c.datastore.GetInvite(ctx, req.Token)
	if err != nil {
		return nil, serverErrors.HandleError("", err)
	}

	if actor.ID != invite.OwnerID {
		return nil, serverErrors.ErrForbidden
	}

	switch invite.Status {
	case grant.StatusRevoked:
		// Replays converge without a second write.
		return &RevokeInviteResponse{Invite: invite.AsPayload()}, nil
	case grant.StatusExpired:
		return nil, serverErrors.ErrInvalidTransition
	case grant.StatusAccepted:
		if err := c.revokeShare(ctx, invite); err != nil {
			return nil, err
		}
	}

	invite.Status = grant.StatusRevoked
	if err := c.datastore.PutInvite(ctx, invite); err != nil {
		return nil, serverErrors.HandleError("", err)
	}

	c.lookup.Invalidate(invite.CaregiverID)

	c.logger.Info("invite revoked",
		zap.String("invite_id", invite.ID),
		zap.String("owner_id", invite.OwnerID),
	)

	return &RevokeInviteResponse{Invite: invite.AsPayload()}, nil
}

// revokeShare cascades the revocation to the share the invite produced. A
// missing share is tolerated: the acceptance saga may have been interrupted
// before the repair ran.
func (c *RevokeInviteCommand) revokeShare(ctx context.Context, invite *grant.Invite) error {
	key := grant.ShareKey(invite.OwnerID, invite.CaregiverID)
	share, err := c.datastore.GetShare(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return serverErrors.HandleError("", err)
	}

	if share.Status == grant.StatusRevoked {
		return nil
	}

	share.Status = grant.StatusRevoked
	share.UpdatedAt = utcNow(c.now)
	if err := c.datastore.PutShare(ctx, share, true); err != nil {
		return serverErrors.HandleError("", err)
	}
	return nil
}
