package commands

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/carebridge/carebridge/pkg/cache"
	"github.com/carebridge/carebridge/pkg/grant"
	"github.com/carebridge/carebridge/pkg/identity"
	"github.com/carebridge/carebridge/pkg/logger"
	"github.com/carebridge/carebridge/pkg/roles"
	serverErrors "github.com/carebridge/carebridge/pkg/server/errors"
	"github.com/carebridge/carebridge/pkg/storage"
)

// TransitionShareCommand applies a direct status transition to a share. Only
// two transitions are permitted: the owner revoking a non-terminal share, and
// the recorded caregiver accepting a pending one. Every other combination of
// actor, current status and requested status is rejected identically, so the
// response does not reveal whether the actor is a party to the share.
type TransitionShareCommand struct {
	datastore storage.GrantDatastore
	resolver  identity.Resolver
	granter   roles.Granter
	lookup    *cache.LookupCache
	logger    logger.Logger
	now       func() time.Time
}

type TransitionShareCommandOption func(*TransitionShareCommand)

func WithTransitionShareCommandLogger(l logger.Logger) TransitionShareCommandOption {
	return func(c *TransitionShareCommand) {
		c.logger = l
	}
}

func WithTransitionShareCommandClock(now func() time.Time) TransitionShareCommandOption {
	return func(c *TransitionShareCommand) {
		c.now = now
	}
}

func NewTransitionShareCommand(
	datastore storage.GrantDatastore,
	resolver identity.Resolver,
	granter roles.Granter,
	lookup *cache.LookupCache,
	opts ...TransitionShareCommandOption,
) *TransitionShareCommand {
	c := &TransitionShareCommand{
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

type TransitionShareRequest struct {
	// ShareKey is the composite store key of the share.
	ShareKey string
	UserID   string
	Status   string
}

type TransitionShareResponse struct {
	Share *grant.SharePayload
}

func (c *TransitionShareCommand) Execute(ctx context.Context, req *TransitionShareRequest) (*TransitionShareResponse, error) {
	actor, err := resolveActor(ctx, c.resolver, req.UserID)
	if err != nil {
		return nil, err
	}

	share, err := c.datastore.GetShare(ctx, req.ShareKey)
	if err != nil {
		return nil, serverErrors.HandleError("", err)
	}

	target := grant.Status(req.Status)
	if !allowedTransition(share, actor.ID, target) {
		return nil, serverErrors.ErrInvalidTransition
	}

	now := utcNow(c.now)
	share.Status = target
	share.UpdatedAt = now
	if target == grant.StatusAccepted {
		share.AcceptedAt = &now
	}

	if err := c.datastore.PutShare(ctx, share, true); err != nil {
		return nil, serverErrors.HandleError("", err)
	}

	if target == grant.StatusAccepted {
		if err := c.granter.EnsureCaregiverRole(ctx, share.CaregiverID); err != nil {
			c.logger.Warn("caregiver role grant failed",
				zap.String("caregiver_id", share.CaregiverID),
				zap.Error(err),
			)
		}
	}

	c.lookup.Invalidate(share.CaregiverID)

	c.logger.Info("share transitioned",
		zap.String("share_key", share.Key()),
		zap.String("status", string(target)),
	)

	return &TransitionShareResponse{Share: share.AsPayload()}, nil
}

// allowedTransition encodes the full transition authorization table.
func allowedTransition(share *grant.Share, actorID string, target grant.Status) bool {
	switch target {
	case grant.StatusRevoked:
		return actorID == share.OwnerID && !share.Status.Terminal()
	case grant.StatusAccepted:
		return actorID == share.CaregiverID && share.Status == grant.StatusPending
	}
	return false
}
