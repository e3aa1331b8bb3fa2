package commands

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/carebridge/carebridge/pkg/grant"
	"github.com/carebridge/carebridge/pkg/id"
	"github.com/carebridge/carebridge/pkg/identity"
	"github.com/carebridge/carebridge/pkg/logger"
	"github.com/carebridge/carebridge/pkg/notify"
	serverErrors "github.com/carebridge/carebridge/pkg/server/errors"
	"github.com/carebridge/carebridge/pkg/storage"
)

// IssueShareCommand creates a pending share addressed directly to an existing
// caregiver account. Used when the recipient email resolves to an account.
type IssueShareCommand struct {
	datastore  storage.GrantDatastore
	resolver   identity.Resolver
	dispatcher notify.Dispatcher
	logger     logger.Logger
	now        func() time.Time
}

type IssueShareCommandOption func(*IssueShareCommand)

func WithIssueShareCommandLogger(l logger.Logger) IssueShareCommandOption {
	return func(c *IssueShareCommand) {
		c.logger = l
	}
}

func WithIssueShareCommandClock(now func() time.Time) IssueShareCommandOption {
	return func(c *IssueShareCommand) {
		c.now = now
	}
}

func NewIssueShareCommand(
	datastore storage.GrantDatastore,
	resolver identity.Resolver,
	dispatcher notify.Dispatcher,
	opts ...IssueShareCommandOption,
) *IssueShareCommand {
	c := &IssueShareCommand{
		datastore:  datastore,
		resolver:   resolver,
		dispatcher: dispatcher,
		logger:     logger.NewNoopLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

type IssueShareRequest struct {
	OwnerID        string
	OwnerName      string
	CaregiverEmail string
	Role           string
	Message        string
}

type IssueShareResponse struct {
	Share *grant.SharePayload
}

func (c *IssueShareCommand) Execute(ctx context.Context, req *IssueShareRequest) (*IssueShareResponse, error) {
	email := grant.NormalizeEmail(req.CaregiverEmail)
	if email == "" {
		return nil, serverErrors.ErrInvalidShare
	}
	role, ok := validRole(req.Role)
	if !ok {
		return nil, serverErrors.ErrInvalidShare
	}

	owner, err := resolveActor(ctx, c.resolver, req.OwnerID)
	if err != nil {
		return nil, err
	}
	if grant.SameEmail(owner.Email, email) {
		return nil, serverErrors.ErrInvalidShare
	}

	caregiver, err := c.resolver.ByEmail(ctx, email)
	if err != nil {
		return nil, serverErrors.HandleError("", err)
	}
	if caregiver == nil {
		// Direct issuance requires a resolvable account; callers fall back
		// to the invite flow otherwise.
		return nil, serverErrors.ErrNotFound
	}

	if invite, err := findPendingInvite(ctx, c.datastore, owner.ID, email); err != nil {
		return nil, err
	} else if invite != nil {
		return nil, serverErrors.ErrInviteExists
	}

	existing, err := c.datastore.GetShare(ctx, grant.ShareKey(owner.ID, caregiver.ID))
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, serverErrors.HandleError("", err)
	}
	if existing != nil && !existing.Status.Terminal() {
		return nil, serverErrors.ErrShareExists
	}

	now := utcNow(c.now)
	share := &grant.Share{
		ID:             id.MustNewString(),
		OwnerID:        owner.ID,
		OwnerName:      req.OwnerName,
		OwnerEmail:     grant.NormalizeEmail(owner.Email),
		CaregiverID:    caregiver.ID,
		CaregiverEmail: email,
		Role:           role,
		Status:         grant.StatusPending,
		Message:        grant.SanitizeMessage(req.Message),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// A prior revoked record at the same key is overwritten, not merged.
	if err := c.datastore.PutShare(ctx, share, false); err != nil {
		return nil, serverErrors.HandleError("", err)
	}

	if err := c.dispatcher.Send(ctx, notify.Message{
		Kind: notify.KindShareIssued,
		To:   email,
	}); err != nil {
		c.logger.Warn("share notification failed",
			zap.String("share_key", share.Key()),
			zap.Error(err),
		)
	}

	c.logger.Info("share issued",
		zap.String("share_key", share.Key()),
		zap.String("owner_id", owner.ID),
	)

	return &IssueShareResponse{Share: share.AsPayload()}, nil
}
