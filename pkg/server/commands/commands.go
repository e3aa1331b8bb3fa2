// Package commands implements the grant lifecycle operations, one command per
// operation. Commands are constructed with their dependencies and executed
// with a request; they return payload-shaped responses or tagged errors from
// pkg/server/errors.
package commands

import (
	"context"
	"errors"
	"time"

	"github.com/carebridge/carebridge/pkg/grant"
	"github.com/carebridge/carebridge/pkg/identity"
	serverErrors "github.com/carebridge/carebridge/pkg/server/errors"
	"github.com/carebridge/carebridge/pkg/storage"
)

// resolveActor resolves the acting identity. A missing account maps to
// not_found: every lifecycle operation requires an existing actor.
func resolveActor(ctx context.Context, resolver identity.Resolver, userID string) (*identity.User, error) {
	if userID == "" {
		return nil, serverErrors.ErrNotFound
	}

	user, err := resolver.ByID(ctx, userID)
	if err != nil {
		return nil, serverErrors.HandleError("", err)
	}
	if user == nil {
		return nil, serverErrors.ErrNotFound
	}
	return user, nil
}

// findPendingInvite wraps the duplicate-check read, treating a miss as nil.
func findPendingInvite(ctx context.Context, ds storage.InviteBackend, ownerID, email string) (*grant.Invite, error) {
	invite, err := ds.FindPendingInvite(ctx, ownerID, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, serverErrors.HandleError("", err)
	}
	return invite, nil
}

// findShareByEmail wraps the duplicate-check read, treating a miss as nil.
func findShareByEmail(ctx context.Context, ds storage.ShareBackend, ownerID, email string) (*grant.Share, error) {
	share, err := ds.FindShareByOwnerAndEmail(ctx, ownerID, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, serverErrors.HandleError("", err)
	}
	return share, nil
}

// validRole normalizes the requested role, defaulting to viewer.
func validRole(role string) (grant.Role, bool) {
	if role == "" {
		return grant.RoleViewer, true
	}
	r := grant.Role(role)
	return r, r.IsValid()
}

func utcNow(now func() time.Time) time.Time {
	if now == nil {
		return time.Now().UTC()
	}
	return now().UTC()
}
