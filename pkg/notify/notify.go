// Package notify defines the outbound email collaborator. Delivery is
// fire-and-forget: failures are logged by the caller and never fail a grant
// operation.
//
//go:generate mockgen -source notify.go -destination ../../internal/mocks/mock_notify.go -package mocks Dispatcher
package notify

import "context"

// Kind identifies the notification template.
type Kind string

const (
	KindShareIssued  Kind = "share_issued"
	KindInviteIssued Kind = "invite_issued"
)

// Message is an outbound notification.
type Message struct {
	Kind      Kind
	To        string
	OwnerName string

	// Token is set for invite notifications so the template can build the
	// claim link.
	Token string
}

// Dispatcher sends notifications.
type Dispatcher interface {
	Send(ctx context.Context, msg Message) error
}

// NoopDispatcher drops all notifications.
type NoopDispatcher struct{}

var _ Dispatcher = (*NoopDispatcher)(nil)

func NewNoopDispatcher() *NoopDispatcher {
	return &NoopDispatcher{}
}

func (d *NoopDispatcher) Send(ctx context.Context, msg Message) error {
	return nil
}
