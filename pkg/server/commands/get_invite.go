package commands

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/carebridge/carebridge/pkg/grant"
	"github.com/carebridge/carebridge/pkg/logger"
	serverErrors "github.com/carebridge/carebridge/pkg/server/errors"
	"github.com/carebridge/carebridge/pkg/storage"
)

// GetInviteQuery fetches an invite by token. The signup flow uses it to show
// the invitation before the recipient has an account, so it takes no acting
// identity; the unguessable token is the capability.
type GetInviteQuery struct {
	datastore storage.GrantDatastore
	logger    logger.Logger
	now       func() time.Time
}

type GetInviteQueryOption func(*GetInviteQuery)

func WithGetInviteQueryLogger(l logger.Logger) GetInviteQueryOption {
	return func(q *GetInviteQuery) {
		q.logger = l
	}
}

func WithGetInviteQueryClock(now func() time.Time) GetInviteQueryOption {
	return func(q *GetInviteQuery) {
		q.now = now
	}
}

func NewGetInviteQuery(datastore storage.GrantDatastore, opts ...GetInviteQueryOption) *GetInviteQuery {
	q := &GetInviteQuery{
		datastore: datastore,
		logger:    logger.NewNoopLogger(),
	}

	for _, opt := range opts {
		opt(q)
	}
	return q
}

type GetInviteRequest struct {
	Token string
}

type GetInviteResponse struct {
	Invite *grant.InvitePayload
}

func (q *GetInviteQuery) Execute(ctx context.Context, req *GetInviteRequest) (*GetInviteResponse, error) {
	invite, err := q.datastore.GetInvite(ctx, req.Token)
	if err != nil {
		return nil, serverErrors.HandleError("", err)
	}

	// Expiry is detected lazily on this read and persisted so later reads
	// observe the terminal status.
	if invite.Status == grant.StatusPending && invite.Expired(utcNow(q.now)) {
		invite.Status = grant.StatusExpired
		if err := q.datastore.PutInvite(ctx, invite); err != nil {
			q.logger.Warn("persisting lazy expiry failed",
				zap.String("invite_id", invite.ID),
				zap.Error(err),
			)
		}
	}

	return &GetInviteResponse{Invite: invite.AsPayload()}, nil
}
