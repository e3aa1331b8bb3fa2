// Package sqlite provides a SQLite-backed grant datastore, suitable for
// single-node deployments and integration tests that need durability without
// an external database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/carebridge/carebridge/pkg/grant"
	"github.com/carebridge/carebridge/pkg/logger"
	"github.com/carebridge/carebridge/pkg/storage"
	"github.com/carebridge/carebridge/pkg/storage/sqlcommon"
)

// Datastore provides a SQLite based implementation of [storage.GrantDatastore].
type Datastore struct {
	stbl             sq.StatementBuilderType
	db               *sql.DB
	dbInfo           *sqlcommon.DBInfo
	logger           logger.Logger
	dbStatsCollector prometheus.Collector
}

var _ storage.GrantDatastore = (*Datastore)(nil)

// PrepareDSN prepares a raw DSN for use with SQLite, specifying defaults for
// journal mode and busy timeout.
func PrepareDSN(uri string) (string, error) {
	query := url.Values{}
	var err error

	if i := strings.Index(uri, "?"); i != -1 {
		query, err = url.ParseQuery(uri[i+1:])
		if err != nil {
			return uri, fmt.Errorf("error parsing dsn: %w", err)
		}

		uri = uri[:i]
	}

	foundJournalMode := false
	foundBusyTimeout := false
	for _, val := range query["_pragma"] {
		if strings.HasPrefix(val, "journal_mode") {
			foundJournalMode = true
		} else if strings.HasPrefix(val, "busy_timeout") {
			foundBusyTimeout = true
		}
	}

	if !foundJournalMode {
		query.Add("_pragma", "journal_mode(WAL)")
	}
	if !foundBusyTimeout {
		query.Add("_pragma", "busy_timeout(100)")
	}

	if !query.Has("_txlock") {
		query.Set("_txlock", "immediate")
	}

	uri += "?" + query.Encode()

	return uri, nil
}

// New creates a new [Datastore] storage.
func New(uri string, cfg *sqlcommon.Config) (*Datastore, error) {
	uri, err := PrepareDSN(uri)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", uri)
	if err != nil {
		return nil, fmt.Errorf("initialize sqlite connection: %w", err)
	}

	if cfg.MaxOpenConns != 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns != 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxIdleTime != 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
	if cfg.ConnMaxLifetime != 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	var collector prometheus.Collector
	if cfg.ExportMetrics {
		collector = collectors.NewDBStatsCollector(db, "carebridge")
		if err := prometheus.Register(collector); err != nil {
			return nil, fmt.Errorf("initialize metrics: %w", err)
		}
	}

	stbl := sq.StatementBuilder.RunWith(db)

	return &Datastore{
		stbl:             stbl,
		db:               db,
		dbInfo:           sqlcommon.NewDBInfo(db, stbl, HandleSQLError, "sqlite"),
		logger:           cfg.Logger,
		dbStatsCollector: collector,
	}, nil
}

// Close see [storage.GrantDatastore].Close.
func (s *Datastore) Close() {
	if s.dbStatsCollector != nil {
		prometheus.Unregister(s.dbStatsCollector)
	}
	s.db.Close()
}

// IsReady see [storage.GrantDatastore].IsReady.
func (s *Datastore) IsReady(ctx context.Context) (storage.ReadinessStatus, error) {
	return sqlcommon.IsReady(ctx, s.db)
}

// GetShare see [storage.ShareBackend].GetShare.
func (s *Datastore) GetShare(ctx context.Context, key string) (*grant.Share, error) {
	return sqlcommon.GetShare(ctx, s.dbInfo, key)
}

// PutShare see [storage.ShareBackend].PutShare.
func (s *Datastore) PutShare(ctx context.Context, share *grant.Share, merge bool) error {
	return sqlcommon.PutShare(ctx, s.dbInfo, share, merge)
}

// DeleteShare see [storage.ShareBackend].DeleteShare.
func (s *Datastore) DeleteShare(ctx context.Context, key string) error {
	return sqlcommon.DeleteShare(ctx, s.dbInfo, key)
}

// ListSharesByOwner see [storage.ShareBackend].ListSharesByOwner.
func (s *Datastore) ListSharesByOwner(ctx context.Context, ownerID string) ([]*grant.Share, error) {
	return sqlcommon.ListSharesByOwner(ctx, s.dbInfo, ownerID)
}

// ListSharesByCaregiver see [storage.ShareBackend].ListSharesByCaregiver.
func (s *Datastore) ListSharesByCaregiver(ctx context.Context, caregiverID string) ([]*grant.Share, error) {
	return sqlcommon.ListSharesByCaregiver(ctx, s.dbInfo, caregiverID)
}

// FindShareByOwnerAndEmail see [storage.ShareBackend].FindShareByOwnerAndEmail.
func (s *Datastore) FindShareByOwnerAndEmail(ctx context.Context, ownerID, email string) (*grant.Share, error) {
	return sqlcommon.FindShareByOwnerAndEmail(ctx, s.dbInfo, ownerID, email)
}

// GetInvite see [storage.InviteBackend].GetInvite.
func (s *Datastore) GetInvite(ctx context.Context, token string) (*grant.Invite, error) {
	return sqlcommon.GetInvite(ctx, s.dbInfo, token)
}

// PutInvite see [storage.InviteBackend].PutInvite.
func (s *Datastore) PutInvite(ctx context.Context, invite *grant.Invite) error {
	return sqlcommon.PutInvite(ctx, s.dbInfo, invite)
}

// ListInvitesByOwner see [storage.InviteBackend].ListInvitesByOwner.
func (s *Datastore) ListInvitesByOwner(ctx context.Context, ownerID string) ([]*grant.Invite, error) {
	return sqlcommon.ListInvitesByOwner(ctx, s.dbInfo, ownerID)
}

// ListInvitesByEmail see [storage.InviteBackend].ListInvitesByEmail.
func (s *Datastore) ListInvitesByEmail(ctx context.Context, email string) ([]*grant.Invite, error) {
	return sqlcommon.ListInvitesByEmail(ctx, s.dbInfo, email)
}

// FindPendingInvite see [storage.InviteBackend].FindPendingInvite.
func (s *Datastore) FindPendingInvite(ctx context.Context, ownerID, email string) (*grant.Invite, error) {
	return sqlcommon.FindPendingInvite(ctx, s.dbInfo, ownerID, email)
}

// HandleSQLError processes a SQLite error into a storage error.
func HandleSQLError(err error, args ...interface{}) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	if errors.Is(err, context.Canceled) {
		return storage.ErrCancelled
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code()&0xFF == sqlite3.SQLITE_CONSTRAINT {
			return storage.ErrCollision
		}
	}

	return fmt.Errorf("sql error: %w", err)
}
