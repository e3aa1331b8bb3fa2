// Package memory provides an ephemeral, map-backed grant datastore. It is the
// default engine for tests and local development.
package memory

import (
	"context"
	"sort"
	"sync"

	"go.opentelemetry.io/otel"

	"github.com/carebridge/carebridge/pkg/grant"
	"github.com/carebridge/carebridge/pkg/storage"
)

var tracer = otel.Tracer("carebridge/pkg/storage/memory")

// Datastore provides a memory-backed implementation of [storage.GrantDatastore].
// Instances may be safely shared by multiple goroutines.
type Datastore struct {
	shares      map[string]*grant.Share // keyed by derived share key; GUARDED_BY(mutexShares)
	mutexShares sync.RWMutex

	invites      map[string]*grant.Invite // keyed by token; GUARDED_BY(mutexInvites)
	mutexInvites sync.RWMutex
}

var _ storage.GrantDatastore = (*Datastore)(nil)

// New creates a new memory-backed [Datastore].
func New() *Datastore {
	return &Datastore{
		shares:  make(map[string]*grant.Share),
		invites: make(map[string]*grant.Invite),
	}
}

// Close does not do anything for the memory datastore.
func (s *Datastore) Close() {}

// IsReady see [storage.GrantDatastore].IsReady.
func (s *Datastore) IsReady(ctx context.Context) (storage.ReadinessStatus, error) {
	if ctx.Err() != nil {
		return storage.ReadinessStatus{}, ctx.Err()
	}
	return storage.ReadinessStatus{IsReady: true}, nil
}

// GetShare see [storage.ShareBackend].GetShare.
func (s *Datastore) GetShare(ctx context.Context, key string) (*grant.Share, error) {
	_, span := tracer.Start(ctx, "memory.GetShare")
	defer span.End()

	s.mutexShares.RLock()
	defer s.mutexShares.RUnlock()

	share, ok := s.shares[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return share.Clone(), nil
}

// PutShare see [storage.ShareBackend].PutShare.
func (s *Datastore) PutShare(ctx context.Context, share *grant.Share, merge bool) error {
	_, span := tracer.Start(ctx, "memory.PutShare")
	defer span.End()

	s.mutexShares.Lock()
	defer s.mutexShares.Unlock()

	record := share.Clone()
	if existing, ok := s.shares[record.Key()]; ok && merge {
		record = storage.MergeShare(existing, record)
	}

	s.shares[record.Key()] = record
	return nil
}

// DeleteShare see [storage.ShareBackend].DeleteShare.
func (s *Datastore) DeleteShare(ctx context.Context, key string) error {
	_, span := tracer.Start(ctx, "memory.DeleteShare")
	defer span.End()

	s.mutexShares.Lock()
	defer s.mutexShares.Unlock()

	delete(s.shares, key)
	return nil
}

// ListSharesByOwner see [storage.ShareBackend].ListSharesByOwner.
func (s *Datastore) ListSharesByOwner(ctx context.Context, ownerID string) ([]*grant.Share, error) {
	_, span := tracer.Start(ctx, "memory.ListSharesByOwner")
	defer span.End()

	return s.listShares(func(share *grant.Share) bool {
		return share.OwnerID == ownerID
	})
}

// ListSharesByCaregiver see [storage.ShareBackend].ListSharesByCaregiver.
func (s *Datastore) ListSharesByCaregiver(ctx context.Context, caregiverID string) ([]*grant.Share, error) {
	_, span := tracer.Start(ctx, "memory.ListSharesByCaregiver")
	defer span.End()

	return s.listShares(func(share *grant.Share) bool {
		return share.CaregiverID == caregiverID
	})
}

func (s *Datastore) listShares(match func(*grant.Share) bool) ([]*grant.Share, error) {
	s.mutexShares.RLock()
	defer s.mutexShares.RUnlock()

	var res []*grant.Share
	for _, share := range s.shares {
		if match(share) {
			res = append(res, share.Clone())
		}
	}

	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

// FindShareByOwnerAndEmail see [storage.ShareBackend].FindShareByOwnerAndEmail.
func (s *Datastore) FindShareByOwnerAndEmail(ctx context.Context, ownerID, email string) (*grant.Share, error) {
	_, span := tracer.Start(ctx, "memory.FindShareByOwnerAndEmail")
	defer span.End()

	s.mutexShares.RLock()
	defer s.mutexShares.RUnlock()

	// Non-terminal records win over terminal ones so duplicate checks see a
	// still-live relationship; ULID order breaks the remaining ties.
	email = grant.NormalizeEmail(email)
	var found *grant.Share
	for _, share := range s.shares {
		if share.OwnerID != ownerID || grant.NormalizeEmail(share.CaregiverEmail) != email {
			continue
		}
		if found == nil || better(share, found) {
			found = share
		}
	}
	if found == nil {
		return nil, storage.ErrNotFound
	}
	return found.Clone(), nil
}

func better(candidate, current *grant.Share) bool {
	if candidate.Status.Terminal() != current.Status.Terminal() {
		return !candidate.Status.Terminal()
	}
	return candidate.ID < current.ID
}

// GetInvite see [storage.InviteBackend].GetInvite.
func (s *Datastore) GetInvite(ctx context.Context, token string) (*grant.Invite, error) {
	_, span := tracer.Start(ctx, "memory.GetInvite")
	defer span.End()

	s.mutexInvites.RLock()
	defer s.mutexInvites.RUnlock()

	invite, ok := s.invites[token]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return invite.Clone(), nil
}

// PutInvite see [storage.InviteBackend].PutInvite.
func (s *Datastore) PutInvite(ctx context.Context, invite *grant.Invite) error {
	_, span := tracer.Start(ctx, "memory.PutInvite")
	defer span.End()

	s.mutexInvites.Lock()
	defer s.mutexInvites.Unlock()

	s.invites[invite.Token] = invite.Clone()
	return nil
}

// ListInvitesByOwner see [storage.InviteBackend].ListInvitesByOwner.
func (s *Datastore) ListInvitesByOwner(ctx context.Context, ownerID string) ([]*grant.Invite, error) {
	_, span := tracer.Start(ctx, "memory.ListInvitesByOwner")
	defer span.End()

	return s.listInvites(func(invite *grant.Invite) bool {
		return invite.OwnerID == ownerID
	})
}

// ListInvitesByEmail see [storage.InviteBackend].ListInvitesByEmail.
func (s *Datastore) ListInvitesByEmail(ctx context.Context, email string) ([]*grant.Invite, error) {
	_, span := tracer.Start(ctx, "memory.ListInvitesByEmail")
	defer span.End()

	email = grant.NormalizeEmail(email)
	return s.listInvites(func(invite *grant.Invite) bool {
		return matchesEitherEmail(invite, email)
	})
}

// matchesEitherEmail reports whether the normalized email matches the
// invite's canonical or legacy recipient field.
func matchesEitherEmail(invite *grant.Invite, email string) bool {
	return grant.NormalizeEmail(invite.CaregiverEmail) == email ||
		grant.NormalizeEmail(invite.LegacyEmail) == email
}

func (s *Datastore) listInvites(match func(*grant.Invite) bool) ([]*grant.Invite, error) {
	s.mutexInvites.RLock()
	defer s.mutexInvites.RUnlock()

	var res []*grant.Invite
	for _, invite := range s.invites {
		if match(invite) {
			res = append(res, invite.Clone())
		}
	}

	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

// FindPendingInvite see [storage.InviteBackend].FindPendingInvite.
func (s *Datastore) FindPendingInvite(ctx context.Context, ownerID, email string) (*grant.Invite, error) {
	_, span := tracer.Start(ctx, "memory.FindPendingInvite")
	defer span.End()

	s.mutexInvites.RLock()
	defer s.mutexInvites.RUnlock()

	email = grant.NormalizeEmail(email)
	for _, invite := range s.invites {
		if invite.OwnerID != ownerID || invite.Status != grant.StatusPending {
			continue
		}
		if matchesEitherEmail(invite, email) {
			return invite.Clone(), nil
		}
	}
	return nil, storage.ErrNotFound
}
