// Package identity defines the external identity service contract. The
// lifecycle service only needs identity facts: a stable user id and email.
//
//go:generate mockgen -source identity.go -destination ../../internal/mocks/mock_identity.go -package mocks Resolver
package identity

import "context"

// User is the identity fact pair the resolver returns.
type User struct {
	ID    string
	Email string
}

// Resolver resolves identity facts. Both lookups return (nil, nil) when no
// account exists: at invite-issuance time a missing account is the expected,
// common case and must not be treated as a fault.
type Resolver interface {
	// ByID resolves a user id to its identity facts.
	ByID(ctx context.Context, userID string) (*User, error)

	// ByEmail resolves a normalized email to its identity facts.
	ByEmail(ctx context.Context, email string) (*User, error)
}
