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
	"github.com/carebridge/carebridge/pkg/roles"
	serverErrors "github.com/carebridge/carebridge/pkg/server/errors"
	"github.com/carebridge/carebridge/pkg/storage"
)

// AcceptGrantCommand is the unified acceptance entry point. Older clients
// address an invitation by share key rather than token, so the given value is
// tried as an invite token first and as a share key second.
//
// The share path applies identity reconciliation: an actor whose user id
// differs from the recorded caregiver id may still take the grant when the
// emails match, by relocating the record to the key derived from the actor's
// id. Email fallback is opt-in per endpoint.
type AcceptGrantCommand struct {
	datastore     storage.GrantDatastore
	resolver      identity.Resolver
	granter       roles.Granter
	lookup        *cache.LookupCache
	invites       *AcceptInviteCommand
	logger        logger.Logger
	now           func() time.Time
	emailFallback bool
}

type AcceptGrantCommandOption func(*AcceptGrantCommand)

func WithAcceptGrantCommandLogger(l logger.Logger) AcceptGrantCommandOption {
	return func(c *AcceptGrantCommand) {
		c.logger = l
	}
}

func WithAcceptGrantCommandClock(now func() time.Time) AcceptGrantCommandOption {
	return func(c *AcceptGrantCommand) {
		c.now = now
	}
}

// WithEmailFallback enables the migration path: actors matching a share only
// by email may take it over under their own user id.
func WithEmailFallback(enabled bool) AcceptGrantCommandOption {
	return func(c *AcceptGrantCommand) {
		c.emailFallback = enabled
	}
}

func NewAcceptGrantCommand(
	datastore storage.GrantDatastore,
	resolver identity.Resolver,
	granter roles.Granter,
	lookup *cache.LookupCache,
	invites *AcceptInviteCommand,
	opts ...AcceptGrantCommandOption,
) *AcceptGrantCommand {
	c := &AcceptGrantCommand{
		datastore: datastore,
		resolver:  resolver,
		granter:   granter,
		lookup:    lookup,
		invites:   invites,
		logger:    logger.NewNoopLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

type AcceptGrantRequest struct {
	// IDOrToken is an invite token or, from older clients, a share key.
	IDOrToken string
	UserID    string
}

type AcceptGrantResponse struct {
	Share *grant.SharePayload

	// Invite is set when the value resolved to an invite token.
	Invite *grant.InvitePayload
}

func (c *AcceptGrantCommand) Execute(ctx context.Context, req *AcceptGrantRequest) (*AcceptGrantResponse, error) {
	if _, err := c.datastore.GetInvite(ctx, req.IDOrToken); err == nil {
		res, err := c.invites.Execute(ctx, &AcceptInviteRequest{
			Token:  req.IDOrToken,
			UserID: req.UserID,
		})
		if err != nil {
			return nil, err
		}
		return &AcceptGrantResponse{Share: res.Share, Invite: res.Invite}, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, serverErrors.HandleError("", err)
	}

	actor, err := resolveActor(ctx, c.resolver, req.UserID)
	if err != nil {
		return nil, err
	}

	share, err := c.datastore.GetShare(ctx, req.IDOrToken)
	if err != nil {
		return nil, serverErrors.HandleError("", err)
	}

	decision := grant.Reconcile(share, actor.ID, actor.Email)
	if !decision.Allow || (decision.Migrate && !c.emailFallback) {
		return nil, serverErrors.ErrForbidden
	}

	if share.Status == grant.StatusRevoked {
		return nil, serverErrors.ErrInvalidTransition
	}

	if decision.Migrate {
		return c.migrate(ctx, share, actor)
	}

	if share.Status == grant.StatusAccepted {
		// Repeat submission: return the current record unchanged.
		c.finish(ctx, actor.ID)
		return &AcceptGrantResponse{Share: share.AsPayload()}, nil
	}

	now := utcNow(c.now)
	share.Status = grant.StatusAccepted
	share.CaregiverEmail = grant.NormalizeEmail(actor.Email)
	share.UpdatedAt = now
	share.AcceptedAt = &now

	if err := c.datastore.PutShare(ctx, share, true); err != nil {
		return nil, serverErrors.HandleError("", err)
	}

	c.finish(ctx, actor.ID)

	c.logger.Info("grant accepted",
		zap.String("share_key", share.Key()),
	)

	return &AcceptGrantResponse{Share: share.AsPayload()}, nil
}

// migrate relocates the share to the key derived from the actor's user id.
// The new record is durably written before the stale one is deleted; a
// failure between the two leaves both records visible, which a retry cleans
// up, rather than a window where the grant is visible to neither identity.
func (c *AcceptGrantCommand) migrate(ctx context.Context, share *grant.Share, actor *identity.User) (*AcceptGrantResponse, error) {
	staleKey := share.Key()
	staleCaregiverID := share.CaregiverID

	now := utcNow(c.now)
	moved := share.Clone()
	moved.CaregiverID = actor.ID
	moved.CaregiverEmail = grant.NormalizeEmail(actor.Email)
	moved.Status = grant.StatusAccepted
	moved.UpdatedAt = now
	if moved.AcceptedAt == nil {
		moved.AcceptedAt = &now
	}

	if err := c.datastore.PutShare(ctx, moved, false); err != nil {
		return nil, serverErrors.HandleError("", err)
	}

	if err := c.datastore.DeleteShare(ctx, staleKey); err != nil {
		return nil, serverErrors.HandleError("", err)
	}

	if err := c.granter.EnsureCaregiverRole(ctx, actor.ID); err != nil {
		c.logger.Warn("caregiver role grant failed",
			zap.String("caregiver_id", actor.ID),
			zap.Error(err),
		)
	}

	// Both sides of the migration can hold stale cached listings.
	c.lookup.Invalidate(staleCaregiverID, actor.ID)

	c.logger.Info("grant migrated on accept",
		zap.String("stale_key", staleKey),
		zap.String("share_key", moved.Key()),
	)

	return &AcceptGrantResponse{Share: moved.AsPayload()}, nil
}

func (c *AcceptGrantCommand) finish(ctx context.Context, caregiverID string) {
	if err := c.granter.EnsureCaregiverRole(ctx, caregiverID); err != nil {
		c.logger.Warn("caregiver role grant failed",
			zap.String("caregiver_id", caregiverID),
			zap.Error(err),
		)
	}

	c.lookup.Invalidate(caregiverID)
}
