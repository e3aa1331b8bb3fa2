package commands

import (
	"context"
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

// IssueInviteCommand creates a token-addressed invitation. Used when the
// recipient has no resolvable account, and by the unified invite endpoint
// unconditionally.
type IssueInviteCommand struct {
	datastore  storage.GrantDatastore
	resolver   identity.Resolver
	dispatcher notify.Dispatcher
	logger     logger.Logger
	now        func() time.Time
}

type IssueInviteCommandOption func(*IssueInviteCommand)

func WithIssueInviteCommandLogger(l logger.Logger) IssueInviteCommandOption {
	return func(c *IssueInviteCommand) {
		c.logger = l
	}
}

func WithIssueInviteCommandClock(now func() time.Time) IssueInviteCommandOption {
	return func(c *IssueInviteCommand) {
		c.now = now
	}
}

func NewIssueInviteCommand(
	datastore storage.GrantDatastore,
	resolver identity.Resolver,
	dispatcher notify.Dispatcher,
	opts ...IssueInviteCommandOption,
) *IssueInviteCommand {
	c := &IssueInviteCommand{
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

type IssueInviteRequest struct {
	OwnerID        string
	OwnerName      string
	CaregiverEmail string
	Role           string
	Message        string
}

type IssueInviteResponse struct {
	Invite *grant.InvitePayload
}

func (c *IssueInviteCommand) Execute(ctx context.Context, req *IssueInviteRequest) (*IssueInviteResponse, error) {
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

	if invite, err := findPendingInvite(ctx, c.datastore, owner.ID, email); err != nil {
		return nil, err
	} else if invite != nil {
		return nil, serverErrors.ErrInviteExists
	}

	// An already-connected caregiver must not be re-invited, and a pending
	// direct share blocks a parallel invite for the same email.
	if share, err := findShareByEmail(ctx, c.datastore, owner.ID, email); err != nil {
		return nil, err
	} else if share != nil && !share.Status.Terminal() {
		return nil, serverErrors.ErrShareExists
	}

	token, err := grant.NewInviteToken()
	if err != nil {
		return nil, serverErrors.NewInternalError("", err)
	}

	now := utcNow(c.now)
	invite := &grant.Invite{
		Token:          token,
		ID:             id.MustNewString(),
		OwnerID:        owner.ID,
		OwnerName:      req.OwnerName,
		OwnerEmail:     grant.NormalizeEmail(owner.Email),
		CaregiverEmail: email,
		Role:           role,
		Status:         grant.StatusPending,
		Message:        grant.SanitizeMessage(req.Message),
		CreatedAt:      now,
		ExpiresAt:      now.Add(grant.InviteTTL),
	}

	if err := c.datastore.PutInvite(ctx, invite); err != nil {
		return nil, serverErrors.HandleError("", err)
	}

	if err := c.dispatcher.Send(ctx, notify.Message{
		Kind:      notify.KindInviteIssued,
		To:        email,
		OwnerName: req.OwnerName,
		Token:     token,
	}); err != nil {
		c.logger.Warn("invite notification failed",
			zap.String("invite_id", invite.ID),
			zap.Error(err),
		)
	}

	c.logger.Info("invite issued",
		zap.String("invite_id", invite.ID),
		zap.String("owner_id", owner.ID),
	)

	return &IssueInviteResponse{Invite: invite.AsPayload()}, nil
}
