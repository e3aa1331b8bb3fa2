// Package storage contains the grant datastore interfaces and shared types.
//
//go:generate mockgen -source storage.go -destination ../../internal/mocks/mock_storage.go -package mocks GrantDatastore
package storage

import (
	"context"
	"time"

	"github.com/carebridge/carebridge/pkg/grant"
)

const DefaultPageSize = 50

// PaginationOptions carries the page size and the opaque cursor for list
// operations. From is the encoded cursor as received from the caller.
type PaginationOptions struct {
	PageSize int
	From     string
}

func NewPaginationOptions(ps int32, cursor string) PaginationOptions {
	pageSize := DefaultPageSize
	if ps != 0 {
		pageSize = int(ps)
	}

	return PaginationOptions{
		PageSize: pageSize,
		From:     cursor,
	}
}

// ShareBackend provides an R/W interface for canonical share records.
//
// All operations are atomic per document only. Callers needing consistency
// across documents must sequence their writes so a replay from the start
// converges (see the lifecycle commands).
type ShareBackend interface {
	// GetShare returns the share at the derived key, or ErrNotFound.
	GetShare(ctx context.Context, key string) (*grant.Share, error)

	// PutShare writes the share at its derived key. With merge set, an
	// existing record's ID and CreatedAt are preserved and missing fields
	// keep their stored values; without it the record is replaced.
	PutShare(ctx context.Context, share *grant.Share, merge bool) error

	// DeleteShare removes the record at key. Deleting a missing record is
	// not an error: the migration cleanup step must be replayable.
	DeleteShare(ctx context.Context, key string) error

	// ListSharesByOwner returns all shares owned by ownerID, ordered by
	// record ULID.
	ListSharesByOwner(ctx context.Context, ownerID string) ([]*grant.Share, error)

	// ListSharesByCaregiver returns all shares where caregiverID is the
	// grantee, ordered by record ULID.
	ListSharesByCaregiver(ctx context.Context, caregiverID string) ([]*grant.Share, error)

	// FindShareByOwnerAndEmail returns the share for the owner whose
	// caregiver email matches the normalized email, or ErrNotFound. When
	// several records match, non-terminal records win over terminal ones,
	// then the lowest ULID.
	FindShareByOwnerAndEmail(ctx context.Context, ownerID, email string) (*grant.Share, error)
}

// InviteBackend provides an R/W interface for token-addressed invites.
type InviteBackend interface {
	// GetInvite returns the invite for the token, or ErrNotFound.
	GetInvite(ctx context.Context, token string) (*grant.Invite, error)

	// PutInvite upserts the invite at its token.
	PutInvite(ctx context.Context, invite *grant.Invite) error

	// ListInvitesByOwner returns all invites issued by ownerID, ordered by
	// record ULID.
	ListInvitesByOwner(ctx context.Context, ownerID string) ([]*grant.Invite, error)

	// ListInvitesByEmail returns all invites addressed to the normalized
	// email under either the current or the legacy email field, ordered by
	// record ULID.
	ListInvitesByEmail(ctx context.Context, email string) ([]*grant.Invite, error)

	// FindPendingInvite returns a pending invite from ownerID to the
	// normalized email, matching either email field, or ErrNotFound.
	FindPendingInvite(ctx context.Context, ownerID, email string) (*grant.Invite, error)
}

// MergeShare overlays the update onto the stored record, keeping the stored
// identity fields and any field the update left empty. Every engine's merge
// write goes through here so merge semantics cannot drift between them.
func MergeShare(existing, update *grant.Share) *grant.Share {
	merged := update.Clone()
	merged.ID = existing.ID
	merged.CreatedAt = existing.CreatedAt
	if merged.OwnerName == "" {
		merged.OwnerName = existing.OwnerName
	}
	if merged.OwnerEmail == "" {
		merged.OwnerEmail = existing.OwnerEmail
	}
	if merged.Message == "" {
		merged.Message = existing.Message
	}
	if merged.AcceptedAt == nil {
		merged.AcceptedAt = existing.AcceptedAt
	}
	return merged
}

// GrantDatastore is the full storage contract the lifecycle service depends on.
type GrantDatastore interface {
	ShareBackend
	InviteBackend

	// IsReady reports whether the datastore is ready to accept traffic.
	IsReady(ctx context.Context) (ReadinessStatus, error)

	// Close closes the datastore and cleans up any residual resources.
	Close()
}

// ReadinessStatus represents the readiness status of the datastore.
type ReadinessStatus struct {
	// Message is a human-friendly status message for the current datastore status.
	Message string

	IsReady bool
}

// MigrationConfig carries the parameters for running schema migrations.
type MigrationConfig struct {
	URI           string
	TargetVersion uint
	Timeout       time.Duration
	Verbose       bool
}

// MigrationProvider runs schema migrations for one database engine.
type MigrationProvider interface {
	GetSupportedEngine() string
	RunMigrations(ctx context.Context, config MigrationConfig) error
	GetCurrentVersion(ctx context.Context, config MigrationConfig) (int64, error)
}
