// Package postgres provides a PostgreSQL-backed grant datastore, the engine
// for multi-node production deployments.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver.
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/carebridge/carebridge/pkg/grant"
	"github.com/carebridge/carebridge/pkg/logger"
	"github.com/carebridge/carebridge/pkg/storage"
	"github.com/carebridge/carebridge/pkg/storage/sqlcommon"
)

// Datastore provides a PostgreSQL based implementation of [storage.GrantDatastore].
type Datastore struct {
	stbl             sq.StatementBuilderType
	db               *sql.DB
	dbInfo           *sqlcommon.DBInfo
	logger           logger.Logger
	dbStatsCollector prometheus.Collector
}

var _ storage.GrantDatastore = (*Datastore)(nil)

// New creates a new [Datastore] storage.
func New(uri string, cfg *sqlcommon.Config) (*Datastore, error) {
	if cfg.Username != "" || cfg.Password != "" {
		parsed, err := url.Parse(uri)
		if err != nil {
			return nil, fmt.Errorf("parse postgres connection uri: %w", err)
		}

		username := cfg.Username
		if username == "" && parsed.User != nil {
			username = parsed.User.Username()
		}
		password := cfg.Password
		if password == "" && parsed.User != nil {
			password, _ = parsed.User.Password()
		}
		parsed.User = url.UserPassword(username, password)

		uri = parsed.String()
	}

	db, err := sql.Open("pgx", uri)
	if err != nil {
		return nil, fmt.Errorf("initialize postgres connection: %w", err)
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

	stbl := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).RunWith(db)

	return &Datastore{
		stbl:             stbl,
		db:               db,
		dbInfo:           sqlcommon.NewDBInfo(db, stbl, HandleSQLError, "postgres"),
		logger:           cfg.Logger,
		dbStatsCollector: collector,
	}, nil
}

// Close see [storage.GrantDatastore].Close.
func (p *Datastore) Close() {
	if p.dbStatsCollector != nil {
		prometheus.Unregister(p.dbStatsCollector)
	}
	p.db.Close()
}

// IsReady see [storage.GrantDatastore].IsReady.
func (p *Datastore) IsReady(ctx context.Context) (storage.ReadinessStatus, error) {
	return sqlcommon.IsReady(ctx, p.db)
}

// GetShare see [storage.ShareBackend].GetShare.
func (p *Datastore) GetShare(ctx context.Context, key string) (*grant.Share, error) {
	return sqlcommon.GetShare(ctx, p.dbInfo, key)
}

// PutShare see [storage.ShareBackend].PutShare.
func (p *Datastore) PutShare(ctx context.Context, share *grant.Share, merge bool) error {
	return sqlcommon.PutShare(ctx, p.dbInfo, share, merge)
}

// DeleteShare see [storage.ShareBackend].DeleteShare.
func (p *Datastore) DeleteShare(ctx context.Context, key string) error {
	return sqlcommon.DeleteShare(ctx, p.dbInfo, key)
}

// ListSharesByOwner see [storage.ShareBackend].ListSharesByOwner.
func (p *Datastore) ListSharesByOwner(ctx context.Context, ownerID string) ([]*grant.Share, error) {
	return sqlcommon.ListSharesByOwner(ctx, p.dbInfo, ownerID)
}

// ListSharesByCaregiver see [storage.ShareBackend].ListSharesByCaregiver.
func (p *Datastore) ListSharesByCaregiver(ctx context.Context, caregiverID string) ([]*grant.Share, error) {
	return sqlcommon.ListSharesByCaregiver(ctx, p.dbInfo, caregiverID)
}

// FindShareByOwnerAndEmail see [storage.ShareBackend].FindShareByOwnerAndEmail.
func (p *Datastore) FindShareByOwnerAndEmail(ctx context.Context, ownerID, email string) (*grant.Share, error) {
	return sqlcommon.FindShareByOwnerAndEmail(ctx, p.dbInfo, ownerID, email)
}

// GetInvite see [storage.InviteBackend].GetInvite.
func (p *Datastore) GetInvite(ctx context.Context, token string) (*grant.Invite, error) {
	return sqlcommon.GetInvite(ctx, p.dbInfo, token)
}

// PutInvite see [storage.InviteBackend].PutInvite.
func (p *Datastore) PutInvite(ctx context.Context, invite *grant.Invite) error {
	return sqlcommon.PutInvite(ctx, p.dbInfo, invite)
}

// ListInvitesByOwner see [storage.InviteBackend].ListInvitesByOwner.
func (p *Datastore) ListInvitesByOwner(ctx context.Context, ownerID string) ([]*grant.Invite, error) {
	return sqlcommon.ListInvitesByOwner(ctx, p.dbInfo, ownerID)
}

// ListInvitesByEmail see [storage.InviteBackend].ListInvitesByEmail.
func (p *Datastore) ListInvitesByEmail(ctx context.Context, email string) ([]*grant.Invite, error) {
	return sqlcommon.ListInvitesByEmail(ctx, p.dbInfo, email)
}

// FindPendingInvite see [storage.InviteBackend].FindPendingInvite.
func (p *Datastore) FindPendingInvite(ctx context.Context, ownerID, email string) (*grant.Invite, error) {
	return sqlcommon.FindPendingInvite(ctx, p.dbInfo, ownerID, email)
}

// HandleSQLError processes a PostgreSQL error into a storage error.
func HandleSQLError(err error, args ...interface{}) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	if errors.Is(err, context.Canceled) {
		return storage.ErrCancelled
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return storage.ErrCollision
		}
	}

	return fmt.Errorf("sql error: %w", err)
}
