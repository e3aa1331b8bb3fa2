// Package server wires the grant lifecycle commands into a single service
// façade. It owns the lookup cache and routes the unified issuance entry
// point to the direct or invite flow based on whether the recipient email
// resolves to an account.
package server

import (
	"context"
	"errors"
	"time"

	"github.com/carebridge/carebridge/pkg/cache"
	"github.com/carebridge/carebridge/pkg/encoder"
	"github.com/carebridge/carebridge/pkg/grant"
	"github.com/carebridge/carebridge/pkg/identity"
	"github.com/carebridge/carebridge/pkg/logger"
	"github.com/carebridge/carebridge/pkg/notify"
	"github.com/carebridge/carebridge/pkg/roles"
	"github.com/carebridge/carebridge/pkg/server/commands"
	serverErrors "github.com/carebridge/carebridge/pkg/server/errors"
	"github.com/carebridge/carebridge/pkg/storage"
)

// A Server orchestrates the grant lifecycle over a datastore and the external
// collaborators. Construct one per process with NewServerWithOpts and close
// it when done.
type Server struct {
	datastore  storage.GrantDatastore
	resolver   identity.Resolver
	granter    roles.Granter
	dispatcher notify.Dispatcher
	encoder    encoder.Encoder
	logger     logger.Logger
	lookup     *cache.LookupCache
	now        func() time.Time

	maxCacheSize  int64
	emailFallback bool

	issueShare      *commands.IssueShareCommand
	issueInvite     *commands.IssueInviteCommand
	acceptInvite    *commands.AcceptInviteCommand
	acceptGrant     *commands.AcceptGrantCommand
	transitionShare *commands.TransitionShareCommand
	revokeInvite    *commands.RevokeInviteCommand
	listGrants      *commands.ListGrantsQuery
	getInvite       *commands.GetInviteQuery
}

// ServerOption configures a Server at construction time.
type ServerOption func(s *Server)

// WithDatastore sets the datastore. Required.
func WithDatastore(ds storage.GrantDatastore) ServerOption {
	return func(s *Server) {
		s.datastore = ds
	}
}

// WithIdentityResolver sets the account resolver. Required.
func WithIdentityResolver(r identity.Resolver) ServerOption {
	return func(s *Server) {
		s.resolver = r
	}
}

// WithRoleGranter sets the role-grant collaborator called after acceptance.
func WithRoleGranter(g roles.Granter) ServerOption {
	return func(s *Server) {
		s.granter = g
	}
}

// WithNotifyDispatcher sets the outbound notification dispatcher.
func WithNotifyDispatcher(d notify.Dispatcher) ServerOption {
	return func(s *Server) {
		s.dispatcher = d
	}
}

func WithLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		s.logger = l
	}
}

// WithTokenEncoder sets the encoder for pagination cursors.
func WithTokenEncoder(e encoder.Encoder) ServerOption {
	return func(s *Server) {
		s.encoder = e
	}
}

// WithMaxCacheSize bounds the accepted-share lookup cache.
func WithMaxCacheSize(size int64) ServerOption {
	return func(s *Server) {
		s.maxCacheSize = size
	}
}

// WithEmailFallbackOnAccept controls identity migration on the unified accept
// endpoint: an actor matching a share only by email may take it over.
// Enabled by default.
func WithEmailFallbackOnAccept(enabled bool) ServerOption {
	return func(s *Server) {
		s.emailFallback = enabled
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) ServerOption {
	return func(s *Server) {
		s.now = now
	}
}

// MustNewServerWithOpts panics if server creation fails.
func MustNewServerWithOpts(opts ...ServerOption) *Server {
	s, err := NewServerWithOpts(opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// NewServerWithOpts builds a Server from the given options.
func NewServerWithOpts(opts ...ServerOption) (*Server, error) {
	s := &Server{
		granter:       roles.NewNoopGranter(),
		dispatcher:    notify.NewNoopDispatcher(),
		encoder:       encoder.NewBase64Encoder(),
		logger:        logger.NewNoopLogger(),
		emailFallback: true,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.datastore == nil {
		return nil, errors.New("a datastore option must be provided")
	}
	if s.resolver == nil {
		return nil, errors.New("an identity resolver option must be provided")
	}

	cacheOpts := []cache.InMemoryCacheOpt[[]*grant.Share]{}
	if s.maxCacheSize > 0 {
		cacheOpts = append(cacheOpts, cache.WithMaxCacheSize[[]*grant.Share](s.maxCacheSize))
	}
	inmem, err := cache.NewInMemoryCache(cacheOpts...)
	if err != nil {
		return nil, err
	}
	s.lookup = cache.NewLookupCache(s.datastore, inmem)

	s.issueShare = commands.NewIssueShareCommand(s.datastore, s.resolver, s.dispatcher,
		commands.WithIssueShareCommandLogger(s.logger),
		commands.WithIssueShareCommandClock(s.now),
	)
	s.issueInvite = commands.NewIssueInviteCommand(s.datastore, s.resolver, s.dispatcher,
		commands.WithIssueInviteCommandLogger(s.logger),
		commands.WithIssueInviteCommandClock(s.now),
	)
	s.acceptInvite = commands.NewAcceptInviteCommand(s.datastore, s.resolver, s.granter, s.lookup,
		commands.WithAcceptInviteCommandLogger(s.logger),
		commands.WithAcceptInviteCommandClock(s.now),
	)
	s.acceptGrant = commands.NewAcceptGrantCommand(s.datastore, s.resolver, s.granter, s.lookup, s.acceptInvite,
		commands.WithAcceptGrantCommandLogger(s.logger),
		commands.WithAcceptGrantCommandClock(s.now),
		commands.WithEmailFallback(s.emailFallback),
	)
	s.transitionShare = commands.NewTransitionShareCommand(s.datastore, s.resolver, s.granter, s.lookup,
		commands.WithTransitionShareCommandLogger(s.logger),
		commands.WithTransitionShareCommandClock(s.now),
	)
	s.revokeInvite = commands.NewRevokeInviteCommand(s.datastore, s.resolver, s.lookup,
		commands.WithRevokeInviteCommandLogger(s.logger),
		commands.WithRevokeInviteCommandClock(s.now),
	)
	s.listGrants = commands.NewListGrantsQuery(s.datastore, s.resolver,
		commands.WithListGrantsQueryLogger(s.logger),
		commands.WithListGrantsQueryClock(s.now),
		commands.WithListGrantsQueryEncoder(s.encoder),
	)
	s.getInvite = commands.NewGetInviteQuery(s.datastore,
		commands.WithGetInviteQueryLogger(s.logger),
		commands.WithGetInviteQueryClock(s.now),
	)

	return s, nil
}

// Close releases resources held by the server. It does not close the
// datastore; the caller owns it.
func (s *Server) Close() {
	s.lookup.Close()
}

// IssueGrantRequest is the unified issuance input.
type IssueGrantRequest struct {
	OwnerID        string
	OwnerName      string
	CaregiverEmail string
	Role           string
	Message        string
}

// IssueGrantResponse carries the created record: a share when the recipient
// already has an account, an invite otherwise.
type IssueGrantResponse struct {
	Share  *grant.SharePayload
	Invite *grant.InvitePayload
}

// IssueGrant creates a grant for the recipient email, routing to the direct
// share flow when the email resolves to an account and to the token-addressed
// invite flow when it does not.
func (s *Server) IssueGrant(ctx context.Context, req *IssueGrantRequest) (*IssueGrantResponse, error) {
	email := grant.NormalizeEmail(req.CaregiverEmail)
	if email == "" {
		return nil, serverErrors.ErrInvalidShare
	}

	caregiver, err := s.resolver.ByEmail(ctx, email)
	if err != nil {
		return nil, serverErrors.HandleError("", err)
	}

	if caregiver != nil {
		res, err := s.issueShare.Execute(ctx, &commands.IssueShareRequest{
			OwnerID:        req.OwnerID,
			OwnerName:      req.OwnerName,
			CaregiverEmail: email,
			Role:           req.Role,
			Message:        req.Message,
		})
		if err != nil {
			return nil, err
		}
		return &IssueGrantResponse{Share: res.Share}, nil
	}

	res, err := s.issueInvite.Execute(ctx, &commands.IssueInviteRequest{
		OwnerID:        req.OwnerID,
		OwnerName:      req.OwnerName,
		CaregiverEmail: email,
		Role:           req.Role,
		Message:        req.Message,
	})
	if err != nil {
		return nil, err
	}
	return &IssueGrantResponse{Invite: res.Invite}, nil
}

// IssueInvite creates a token-addressed invite regardless of whether the
// recipient has an account.
func (s *Server) IssueInvite(ctx context.Context, req *commands.IssueInviteRequest) (*commands.IssueInviteResponse, error) {
	return s.issueInvite.Execute(ctx, req)
}

// AcceptInvite consumes an invite by token.
func (s *Server) AcceptInvite(ctx context.Context, req *commands.AcceptInviteRequest) (*commands.AcceptInviteResponse, error) {
	return s.acceptInvite.Execute(ctx, req)
}

// AcceptGrant is the unified acceptance entry point taking an invite token or
// a share key.
func (s *Server) AcceptGrant(ctx context.Context, req *commands.AcceptGrantRequest) (*commands.AcceptGrantResponse, error) {
	return s.acceptGrant.Execute(ctx, req)
}

// TransitionShare applies a direct status transition to a share.
func (s *Server) TransitionShare(ctx context.Context, req *commands.TransitionShareRequest) (*commands.TransitionShareResponse, error) {
	return s.transitionShare.Execute(ctx, req)
}

// RevokeInvite revokes an invite, cascading to the share it produced.
func (s *Server) RevokeInvite(ctx context.Context, req *commands.RevokeInviteRequest) (*commands.RevokeInviteResponse, error) {
	return s.revokeInvite.Execute(ctx, req)
}

// ListGrants lists a party's grants in both directions.
func (s *Server) ListGrants(ctx context.Context, req *commands.ListGrantsRequest) (*commands.ListGrantsResponse, error) {
	return s.listGrants.Execute(ctx, req)
}

// GetInvite fetches an invite by token.
func (s *Server) GetInvite(ctx context.Context, req *commands.GetInviteRequest) (*commands.GetInviteResponse, error) {
	return s.getInvite.Execute(ctx, req)
}

// AcceptedShares returns the caregiver's accepted shares through the lookup
// cache.
func (s *Server) AcceptedShares(ctx context.Context, caregiverID string) ([]*grant.SharePayload, error) {
	shares, err := s.lookup.AcceptedShares(ctx, caregiverID)
	if err != nil {
		return nil, serverErrors.HandleError("", err)
	}

	payloads := make([]*grant.SharePayload, 0, len(shares))
	for _, share := range shares {
		payloads = append(payloads, share.AsPayload())
	}
	return payloads, nil
}

// IsReady reports whether the server's datastore is ready to serve traffic.
func (s *Server) IsReady(ctx context.Context) (bool, error) {
	status, err := s.datastore.IsReady(ctx)
	if err != nil {
		return false, err
	}
	return status.IsReady, nil
}
