// Package roles defines the role-grant collaborator called after every
// successful acceptance.
//
//go:generate mockgen -source roles.go -destination ../../internal/mocks/mock_roles.go -package mocks Granter
package roles

import "context"

// Granter grants platform roles. EnsureCaregiverRole is idempotent; the
// lifecycle service calls it fire-and-forget and never fails an acceptance
// on a grant error.
type Granter interface {
	EnsureCaregiverRole(ctx context.Context, userID string) error
}

// NoopGranter satisfies Granter for deployments without a role service.
type NoopGranter struct{}

var _ Granter = (*NoopGranter)(nil)

func NewNoopGranter() *NoopGranter {
	return &NoopGranter{}
}

func (g *NoopGranter) EnsureCaregiverRole(ctx context.Context, userID string) error {
	return nil
}
