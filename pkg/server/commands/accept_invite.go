package commands

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/carebridge/carebridge/pkg/cache"
	"github.com/carebridge/carebridge/pkg/grant"
	"github.com/carebridge/carebridge/pkg/id"
	"github.com/carebridge/carebridge/pkg/identity"
	"github.com/carebridge/carebridge/pkg/logger"
	"github.com/carebridge/carebridge/pkg/roles"
	serverErrors "github.com/carebridge/carebridge/pkg/server/errors"
	"github.com/carebridge/carebridge/pkg/storage"
)

// AcceptInviteCommand consumes a token-addressed invite and materializes the
// canonical share.
//
// The acceptance is a saga over two documents with no cross-document
// transaction: the share is written before the invite so that a replay of the
// whole sequence converges. An invite observed as accepted therefore implies
// the share write already happened; if it did not (a crash between steps of a
// previous run that still flipped the invite), the idempotent branch repairs
// the share before returning.
type AcceptInviteCommand struct {
	datastore storage.GrantDatastore
	resolver  identity.Resolver
	granter   roles.Granter
	lookup    *cache.LookupCache
	logger    logger.Logger
	now       func() time.Time
}

type AcceptInviteCommandOption func(*AcceptInviteCommand)

func WithAcceptInviteCommandLogger(l logger.Logger) AcceptInviteCommandOption {
	return func(c *AcceptInviteCommand) {
		c.logger = l
	}
}

func WithAcceptInviteCommandClock(now func() time.Time) AcceptInviteCommandOption {
	return func(c *AcceptInviteCommand) {
		c.now = now
	}
}

func NewAcceptInviteCommand(
	datastore storage.GrantDatastore,
	resolver identity.Resolver,
	granter roles.Granter,
	lookup *cache.LookupCache,
	opts ...AcceptInviteCommandOption,
) *AcceptInviteCommand {
	c := &AcceptInviteCommand{
		datastore: datastore,
		resolver:  resolver,
		granter:   granter,
		lookup:    lookup,
		logger:    logger.NewNoopLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

type AcceptInviteRequest struct {
	Token  string
	UserID string
}

type AcceptInviteResponse struct {
	Invite *grant.InvitePayload
	Share  *grant.SharePayload
}

func (c *AcceptInviteCommand) Execute(ctx context.Context, req *AcceptInviteRequest) (*AcceptInviteResponse, error) {
	actor, err := resolveActor(ctx, c.resolver, req.UserID)
	if err != nil {
		return nil, err
	}

	invite, err := c.datastore.GetInvite(ctx, req.Token)
	if err != nil {
		return nil, serverErrors.HandleError("", err)
	}

	now := utcNow(c.now)

	switch invite.Status {
	case grant.StatusRevoked:
		return nil, serverErrors.ErrInviteRevoked
	case grant.StatusExpired:
		return nil, serverErrors.ErrInviteExpired
	}

	if invite.Status == grant.StatusPending && invite.Expired(now) {
		return nil, c.expire(ctx, invite)
	}

	// Checked before any mutation, including the idempotent replay below.
	if !grant.SameEmail(actor.Email, invite.RecipientEmail()) {
		return nil, serverErrors.ErrEmailMismatch
	}

	if invite.Status == grant.StatusAccepted {
		return c.replay(ctx, invite, actor)
	}

	share := &grant.Share{
		ID:             id.MustNewString(),
		OwnerID:        invite.OwnerID,
		OwnerName:      invite.OwnerName,
		OwnerEmail:     invite.OwnerEmail,
		CaregiverID:    actor.ID,
		CaregiverEmail: grant.NormalizeEmail(actor.Email),
		Role:           invite.Role,
		Status:         grant.StatusAccepted,
		Message:        invite.Message,
		CreatedAt:      now,
		UpdatedAt:      now,
		AcceptedAt:     &now,
	}

	// Share first: a retry after a partial failure re-enters here with the
	// invite still pending and upserts the same share again.
	if err := c.datastore.PutShare(ctx, share, true); err != nil {
		return nil, serverErrors.HandleError("", err)
	}

	invite.Status = grant.StatusAccepted
	invite.CaregiverID = actor.ID
	invite.AcceptedAt = &now
	if err := c.datastore.PutInvite(ctx, invite); err != nil {
		return nil, serverErrors.HandleError("", err)
	}

	c.finish(ctx, actor.ID)

	c.logger.Info("invite accepted",
		zap.String("invite_id", invite.ID),
		zap.String("share_key", share.Key()),
	)

	return &AcceptInviteResponse{
		Invite: invite.AsPayload(),
		Share:  share.AsPayload(),
	}, nil
}

// expire persists the lazy expiry transition and reports the invite as
// expired. The overall operation fails either way.
func (c *AcceptInviteCommand) expire(ctx context.Context, invite *grant.Invite) error {
	invite.Status = grant.StatusExpired
	if err := c.datastore.PutInvite(ctx, invite); err != nil {
		c.logger.Warn("persisting lazy expiry failed",
			zap.String("invite_id", invite.ID),
			zap.Error(err),
		)
	}
	return serverErrors.ErrInviteExpired
}

// replay handles an invite already accepted: a double-submitted link or a
// retry of a partially failed run. It returns the current state unchanged,
// repairing the share if the prior run never wrote it.
func (c *AcceptInviteCommand) replay(ctx context.Context, invite *grant.Invite, actor *identity.User) (*AcceptInviteResponse, error) {
	key := grant.ShareKey(invite.OwnerID, invite.CaregiverID)
	share, err := c.datastore.GetShare(ctx, key)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, serverErrors.HandleError("", err)
	}

	if share == nil {
		share = &grant.Share{
			ID:             id.MustNewString(),
			OwnerID:        invite.OwnerID,
			OwnerName:      invite.OwnerName,
			OwnerEmail:     invite.OwnerEmail,
			CaregiverID:    invite.CaregiverID,
			CaregiverEmail: invite.RecipientEmail(),
			Role:           invite.Role,
			Status:         grant.StatusAccepted,
			Message:        invite.Message,
			CreatedAt:      invite.CreatedAt,
			UpdatedAt:      utcNow(c.now),
			AcceptedAt:     invite.AcceptedAt,
		}
		if err := c.datastore.PutShare(ctx, share, true); err != nil {
			return nil, serverErrors.HandleError("", err)
		}

		c.logger.Warn("repaired missing share for accepted invite",
			zap.String("invite_id", invite.ID),
			zap.String("share_key", key),
		)
	}

	c.finish(ctx, actor.ID)

	return &AcceptInviteResponse{
		Invite: invite.AsPayload(),
		Share:  share.AsPayload(),
	}, nil
}

// finish runs the post-acceptance side effects: the idempotent role grant,
// fire-and-forget, and the cache invalidation for the accepting caregiver.
func (c *AcceptInviteCommand) finish(ctx context.Context, caregiverID string) {
	if err := c.granter.EnsureCaregiverRole(ctx, caregiverID); err != nil {
		c.logger.Warn("caregiver role grant failed",
			zap.String("caregiver_id", caregiverID),
			zap.Error(err),
		)
	}

	c.lookup.Invalidate(caregiverID)
}
