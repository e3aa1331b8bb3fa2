package commands

import (
	"context"
	"sort"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/carebridge/carebridge/pkg/cursor"
	"github.com/carebridge/carebridge/pkg/encoder"
	"github.com/carebridge/carebridge/pkg/grant"
	"github.com/carebridge/carebridge/pkg/identity"
	"github.com/carebridge/carebridge/pkg/logger"
	serverErrors "github.com/carebridge/carebridge/pkg/server/errors"
	"github.com/carebridge/carebridge/pkg/storage"
)

// Direction tags a listed grant relative to the requesting party.
type Direction string

const (
	DirectionOutgoing Direction = "outgoing"
	DirectionIncoming Direction = "incoming"
)

// GrantView is one row of a grant listing: a share or an invite, tagged with
// its direction. Exactly one of Share and Invite is set.
type GrantView struct {
	Direction Direction            `json:"direction"`
	Share     *grant.SharePayload  `json:"share,omitempty"`
	Invite    *grant.InvitePayload `json:"invite,omitempty"`

	id        string
	createdAt time.Time
}

func (v *GrantView) CursorID() string {
	return v.id
}

// ListGrantsQuery returns every grant a party is involved in: shares and
// invites they issued, and shares and pending invites addressed to them.
// Results are merged across both record kinds, ordered by creation time
// descending with id as the tie-breaker, and paginated with an opaque cursor.
type ListGrantsQuery struct {
	datastore storage.GrantDatastore
	resolver  identity.Resolver
	encoder   encoder.Encoder
	logger    logger.Logger
	now       func() time.Time
}

type ListGrantsQueryOption func(*ListGrantsQuery)

func WithListGrantsQueryLogger(l logger.Logger) ListGrantsQueryOption {
	return func(q *ListGrantsQuery) {
		q.logger = l
	}
}

func WithListGrantsQueryClock(now func() time.Time) ListGrantsQueryOption {
	return func(q *ListGrantsQuery) {
		q.now = now
	}
}

func WithListGrantsQueryEncoder(e encoder.Encoder) ListGrantsQueryOption {
	return func(q *ListGrantsQuery) {
		q.encoder = e
	}
}

func NewListGrantsQuery(
	datastore storage.GrantDatastore,
	resolver identity.Resolver,
	opts ...ListGrantsQueryOption,
) *ListGrantsQuery {
	q := &ListGrantsQuery{
		datastore: datastore,
		resolver:  resolver,
		encoder:   encoder.NewBase64Encoder(),
		logger:    logger.NewNoopLogger(),
	}

	for _, opt := range opts {
		opt(q)
	}
	return q
}

type ListGrantsRequest struct {
	UserID string

	// Role filters the listing to a single role when set.
	Role string

	PageSize          int32
	ContinuationToken string
}

type ListGrantsResponse struct {
	Grants            []*GrantView
	HasMore           bool
	ContinuationToken string
}

func (q *ListGrantsQuery) Execute(ctx context.Context, req *ListGrantsRequest) (*ListGrantsResponse, error) {
	actor, err := resolveActor(ctx, q.resolver, req.UserID)
	if err != nil {
		return nil, err
	}

	var (
		ownedShares     []*grant.Share
		receivedShares  []*grant.Share
		ownedInvites    []*grant.Invite
		receivedInvites []*grant.Invite
	)

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		var err error
		ownedShares, err = q.datastore.ListSharesByOwner(ctx, actor.ID)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		receivedShares, err = q.datastore.ListSharesByCaregiver(ctx, actor.ID)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		ownedInvites, err = q.datastore.ListInvitesByOwner(ctx, actor.ID)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		receivedInvites, err = q.datastore.ListInvitesByEmail(ctx, grant.NormalizeEmail(actor.Email))
		return err
	})
	if err := p.Wait(); err != nil {
		return nil, serverErrors.HandleError("", err)
	}

	now := utcNow(q.now)
	role := grant.Role(req.Role)

	views := make([]*GrantView, 0, len(ownedShares)+len(receivedShares)+len(ownedInvites)+len(receivedInvites))
	for _, s := range ownedShares {
		views = appendShareView(views, s, DirectionOutgoing, role)
	}
	for _, s := range receivedShares {
		views = appendShareView(views, s, DirectionIncoming, role)
	}
	for _, i := range ownedInvites {
		views = appendInviteView(views, i, DirectionOutgoing, role, now)
	}
	for _, i := range receivedInvites {
		// Incoming invites are an offer, not a relationship: only pending
		// ones are the recipient's business.
		if i.Status != grant.StatusPending || i.Expired(now) {
			continue
		}
		views = appendInviteView(views, i, DirectionIncoming, role, now)
	}

	sort.Slice(views, func(a, b int) bool {
		if !views[a].createdAt.Equal(views[b].createdAt) {
			return views[a].createdAt.After(views[b].createdAt)
		}
		return views[a].id < views[b].id
	})

	page, err := cursor.Paginate(views, int(req.PageSize), req.ContinuationToken, q.encoder)
	if err != nil {
		return nil, serverErrors.HandleError("", err)
	}

	return &ListGrantsResponse{
		Grants:            page.Items,
		HasMore:           page.HasMore,
		ContinuationToken: page.NextCursor,
	}, nil
}

func appendShareView(views []*GrantView, s *grant.Share, d Direction, role grant.Role) []*GrantView {
	if role != "" && s.Role != role {
		return views
	}
	return append(views, &GrantView{
		Direction: d,
		Share:     s.AsPayload(),
		id:        s.ID,
		createdAt: s.CreatedAt,
	})
}

func appendInviteView(views []*GrantView, i *grant.Invite, d Direction, role grant.Role, now time.Time) []*GrantView {
	if role != "" && i.Role != role {
		return views
	}

	// Expiry is detected on read. The listing reports the effective status
	// without persisting it; the token-addressed reads do the write.
	if i.Status == grant.StatusPending && i.Expired(now) {
		i = i.Clone()
		i.Status = grant.StatusExpired
	}

	return append(views, &GrantView{
		Direction: d,
		Invite:    i.AsPayload(),
		id:        i.ID,
		createdAt: i.CreatedAt,
	})
}
