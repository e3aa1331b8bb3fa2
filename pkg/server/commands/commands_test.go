package commands

import (
	"context"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/carebridge/carebridge/internal/mocks"
	"github.com/carebridge/carebridge/pkg/cache"
	"github.com/carebridge/carebridge/pkg/grant"
	"github.com/carebridge/carebridge/pkg/identity"
	"github.com/carebridge/carebridge/pkg/storage/memory"
)

// fixture bundles the real in-memory datastore with mocked collaborators and
// a fixed clock.
type fixture struct {
	ds         *memory.Datastore
	resolver   *mocks.MockResolver
	granter    *mocks.MockGranter
	dispatcher *mocks.MockDispatcher
	lookup     *cache.LookupCache
	now        time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	ds := memory.New()

	inmem, err := cache.NewInMemoryCache[[]*grant.Share]()
	if err != nil {
		t.Fatal(err)
	}
	lookup := cache.NewLookupCache(ds, inmem)
	t.Cleanup(lookup.Close)

	return &fixture{
		ds:         ds,
		resolver:   mocks.NewMockResolver(ctrl),
		granter:    mocks.NewMockGranter(ctrl),
		dispatcher: mocks.NewMockDispatcher(ctrl),
		lookup:     lookup,
		now:        time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) clock() time.Time {
	return f.now
}

// user registers an account with the resolver under both lookups.
func (f *fixture) user(id, email string) *identity.User {
	u := &identity.User{ID: id, Email: email}
	f.resolver.EXPECT().ByID(gomock.Any(), id).Return(u, nil).AnyTimes()
	f.resolver.EXPECT().ByEmail(gomock.Any(), grant.NormalizeEmail(email)).Return(u, nil).AnyTimes()
	return u
}

// noAccount registers an id or email as unresolvable.
func (f *fixture) noAccount(idOrEmail string) {
	f.resolver.EXPECT().ByID(gomock.Any(), idOrEmail).Return(nil, nil).AnyTimes()
	f.resolver.EXPECT().ByEmail(gomock.Any(), idOrEmail).Return(nil, nil).AnyTimes()
}

func (f *fixture) mustGetShare(t *testing.T, key string) *grant.Share {
	t.Helper()
	share, err := f.ds.GetShare(context.Background(), key)
	if err != nil {
		t.Fatalf("share %s: %v", key, err)
	}
	return share
}

func (f *fixture) mustGetInvite(t *testing.T, token string) *grant.Invite {
	t.Helper()
	invite, err := f.ds.GetInvite(context.Background(), token)
	if err != nil {
		t.Fatalf("invite %s: %v", token, err)
	}
	return invite
}
