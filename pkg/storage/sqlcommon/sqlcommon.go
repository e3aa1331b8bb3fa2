// Package sqlcommon holds the configuration plumbing and the record CRUD
// shared by every SQL-backed grant datastore. Engine packages own connection
// setup, DSN preparation and driver error translation; everything that speaks
// plain SQL lives here so the engines cannot diverge.
package sqlcommon

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pressly/goose/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/carebridge/carebridge/internal/build"
	"github.com/carebridge/carebridge/pkg/grant"
	"github.com/carebridge/carebridge/pkg/logger"
	"github.com/carebridge/carebridge/pkg/storage"
)

var tracer = otel.Tracer("carebridge/pkg/storage/sqlcommon")

func startTrace(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "sqlcommon."+name)
}

// Config defines the configuration parameters
// for setting up and managing a sql connection.
type Config struct {
	Username string
	Password string
	Logger   logger.Logger

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration

	ExportMetrics bool
}

// DatastoreOption defines a function type
// used for configuring a Config object.
type DatastoreOption func(*Config)

// WithUsername returns a DatastoreOption that sets the username in the Config.
func WithUsername(username string) DatastoreOption {
	return func(config *Config) {
		config.Username = username
	}
}

// WithPassword returns a DatastoreOption that sets the password in the Config.
func WithPassword(password string) DatastoreOption {
	return func(config *Config) {
		config.Password = password
	}
}

// WithLogger returns a DatastoreOption that sets the Logger in the Config.
func WithLogger(l logger.Logger) DatastoreOption {
	return func(config *Config) {
		config.Logger = l
	}
}

// WithMaxOpenConns returns a DatastoreOption that sets the number of maximum
// open connections in the Config.
func WithMaxOpenConns(c int) DatastoreOption {
	return func(config *Config) {
		config.MaxOpenConns = c
	}
}

// WithMaxIdleConns returns a DatastoreOption that sets the maximum number of
// idle connections in the Config.
func WithMaxIdleConns(c int) DatastoreOption {
	return func(config *Config) {
		config.MaxIdleConns = c
	}
}

// WithConnMaxIdleTime returns a DatastoreOption that sets the maximum idle
// time for a connection in the Config.
func WithConnMaxIdleTime(d time.Duration) DatastoreOption {
	return func(config *Config) {
		config.ConnMaxIdleTime = d
	}
}

// WithConnMaxLifetime returns a DatastoreOption that sets the maximum
// lifetime for a connection in the Config.
func WithConnMaxLifetime(d time.Duration) DatastoreOption {
	return func(config *Config) {
		config.ConnMaxLifetime = d
	}
}

// WithMetrics returns a DatastoreOption that enables the export of metrics.
func WithMetrics() DatastoreOption {
	return func(config *Config) {
		config.ExportMetrics = true
	}
}

// NewConfig returns a Config with the given options applied.
func NewConfig(opts ...DatastoreOption) *Config {
	cfg := &Config{}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = logger.NewNoopLogger()
	}

	return cfg
}

type errorHandlerFn func(error, ...interface{}) error

// DBInfo encapsulates DB information for use in common method.
type DBInfo struct {
	db             *sql.DB
	stbl           sq.StatementBuilderType
	HandleSQLError errorHandlerFn
}

// NewDBInfo constructs a [DBInfo] object.
func NewDBInfo(db *sql.DB, stbl sq.StatementBuilderType, errorHandler errorHandlerFn, dialect string) *DBInfo {
	if err := goose.SetDialect(dialect); err != nil {
		panic("failed to set database dialect: " + err.Error())
	}

	return &DBInfo{
		db:             db,
		stbl:           stbl,
		HandleSQLError: errorHandler,
	}
}

// IsReady returns true if the connection pool is usable and the schema
// revision is at least the minimum the server supports.
func IsReady(ctx context.Context, db *sql.DB) (storage.ReadinessStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	// do ping first to ensure we have better error message
	// if error is due to connection issue.
	if pingErr := db.PingContext(ctx); pingErr != nil {
		return storage.ReadinessStatus{}, pingErr
	}

	revision, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return storage.ReadinessStatus{}, err
	}

	if revision < build.MinimumSupportedDatastoreSchemaRevision {
		return storage.ReadinessStatus{
			Message: "datastore requires migrations: at revision '" +
				strconv.FormatInt(revision, 10) +
				"', but requires '" +
				strconv.FormatInt(build.MinimumSupportedDatastoreSchemaRevision, 10) +
				"'. Run 'carebridge migrate'.",
			IsReady: false,
		}, nil
	}
	return storage.ReadinessStatus{
		IsReady: true,
	}, nil
}

var shareColumns = []string{
	"share_key", "ulid", "owner_id", "owner_name", "owner_email",
	"caregiver_id", "caregiver_email", "role", "status", "message",
	"created_at", "updated_at", "accepted_at",
}

var inviteColumns = []string{
	"token", "ulid", "owner_id", "owner_name", "owner_email",
	"caregiver_email", "legacy_email", "caregiver_id", "role", "status",
	"message", "created_at", "expires_at", "accepted_at",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShare(row rowScanner) (*grant.Share, error) {
	var share grant.Share
	var key string
	var acceptedAt sql.NullTime

	err := row.Scan(
		&key, &share.ID, &share.OwnerID, &share.OwnerName, &share.OwnerEmail,
		&share.CaregiverID, &share.CaregiverEmail, &share.Role, &share.Status,
		&share.Message, &share.CreatedAt, &share.UpdatedAt, &acceptedAt,
	)
	if err != nil {
		return nil, err
	}

	if acceptedAt.Valid {
		t := acceptedAt.Time.UTC()
		share.AcceptedAt = &t
	}
	share.CreatedAt = share.CreatedAt.UTC()
	share.UpdatedAt = share.UpdatedAt.UTC()
	return &share, nil
}

func scanInvite(row rowScanner) (*grant.Invite, error) {
	var invite grant.Invite
	var acceptedAt sql.NullTime

	err := row.Scan(
		&invite.Token, &invite.ID, &invite.OwnerID, &invite.OwnerName,
		&invite.OwnerEmail, &invite.CaregiverEmail, &invite.LegacyEmail,
		&invite.CaregiverID, &invite.Role, &invite.Status, &invite.Message,
		&invite.CreatedAt, &invite.ExpiresAt, &acceptedAt,
	)
	if err != nil {
		return nil, err
	}

	if acceptedAt.Valid {
		t := acceptedAt.Time.UTC()
		invite.AcceptedAt = &t
	}
	invite.CreatedAt = invite.CreatedAt.UTC()
	invite.ExpiresAt = invite.ExpiresAt.UTC()
	return &invite, nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

// GetShare reads the share at the derived key.
func GetShare(ctx context.Context, dbInfo *DBInfo, key string) (*grant.Share, error) {
	ctx, span := startTrace(ctx, "GetShare")
	defer span.End()

	row := dbInfo.stbl.
		Select(shareColumns...).
		From("shares").
		Where(sq.Eq{"share_key": key}).
		QueryRowContext(ctx)

	share, err := scanShare(row)
	if err != nil {
		return nil, dbInfo.HandleSQLError(err)
	}
	return share, nil
}

// PutShare upserts the share at its derived key. Merge semantics require a
// read first; the upsert itself is a single statement, so concurrent writers
// converge on a last-write-wins record rather than erroring.
func PutShare(ctx context.Context, dbInfo *DBInfo, share *grant.Share, merge bool) error {
	ctx, span := startTrace(ctx, "PutShare")
	defer span.End()

	record := share.Clone()
	if merge {
		existing, err := GetShare(ctx, dbInfo, record.Key())
		switch {
		case err == nil:
			record = storage.MergeShare(existing, record)
		case !errors.Is(err, storage.ErrNotFound):
			return err
		}
	}

	_, err := dbInfo.stbl.
		Insert("shares").
		Columns(shareColumns...).
		Values(
			record.Key(), record.ID, record.OwnerID, record.OwnerName,
			record.OwnerEmail, record.CaregiverID, record.CaregiverEmail,
			record.Role, record.Status, record.Message,
			record.CreatedAt.UTC(), record.UpdatedAt.UTC(), nullableTime(record.AcceptedAt),
		).
		Suffix(`ON CONFLICT (share_key) DO UPDATE SET
			ulid = excluded.ulid,
			owner_name = excluded.owner_name,
			owner_email = excluded.owner_email,
			caregiver_id = excluded.caregiver_id,
			caregiver_email = excluded.caregiver_email,
			role = excluded.role,
			status = excluded.status,
			message = excluded.message,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			accepted_at = excluded.accepted_at`).
		ExecContext(ctx)
	if err != nil {
		return dbInfo.HandleSQLError(err)
	}
	return nil
}

// DeleteShare removes the record at key. Deleting a missing record is not an
// error.
func DeleteShare(ctx context.Context, dbInfo *DBInfo, key string) error {
	ctx, span := startTrace(ctx, "DeleteShare")
	defer span.End()

	_, err := dbInfo.stbl.
		Delete("shares").
		Where(sq.Eq{"share_key": key}).
		ExecContext(ctx)
	if err != nil {
		return dbInfo.HandleSQLError(err)
	}
	return nil
}

func listShares(ctx context.Context, dbInfo *DBInfo, pred any) ([]*grant.Share, error) {
	rows, err := dbInfo.stbl.
		Select(shareColumns...).
		From("shares").
		Where(pred).
		OrderBy("ulid").
		QueryContext(ctx)
	if err != nil {
		return nil, dbInfo.HandleSQLError(err)
	}
	defer rows.Close()

	var res []*grant.Share
	for rows.Next() {
		share, err := scanShare(rows)
		if err != nil {
			return nil, dbInfo.HandleSQLError(err)
		}
		res = append(res, share)
	}
	if err := rows.Err(); err != nil {
		return nil, dbInfo.HandleSQLError(err)
	}
	return res, nil
}

// ListSharesByOwner reads all shares owned by ownerID, ordered by record ULID.
func ListSharesByOwner(ctx context.Context, dbInfo *DBInfo, ownerID string) ([]*grant.Share, error) {
	ctx, span := startTrace(ctx, "ListSharesByOwner")
	defer span.End()

	return listShares(ctx, dbInfo, sq.Eq{"owner_id": ownerID})
}

// ListSharesByCaregiver reads all shares granted to caregiverID, ordered by
// record ULID.
func ListSharesByCaregiver(ctx context.Context, dbInfo *DBInfo, caregiverID string) ([]*grant.Share, error) {
	ctx, span := startTrace(ctx, "ListSharesByCaregiver")
	defer span.End()

	return listShares(ctx, dbInfo, sq.Eq{"caregiver_id": caregiverID})
}

// FindShareByOwnerAndEmail reads the owner's share whose caregiver email
// matches the normalized email. Non-terminal records win over terminal ones
// so duplicate checks see a still-live relationship.
func FindShareByOwnerAndEmail(ctx context.Context, dbInfo *DBInfo, ownerID, email string) (*grant.Share, error) {
	ctx, span := startTrace(ctx, "FindShareByOwnerAndEmail")
	defer span.End()

	row := dbInfo.stbl.
		Select(shareColumns...).
		From("shares").
		Where(sq.Eq{"owner_id": ownerID, "caregiver_email": grant.NormalizeEmail(email)}).
		OrderBy("CASE WHEN status IN ('pending','accepted') THEN 0 ELSE 1 END", "ulid").
		Limit(1).
		QueryRowContext(ctx)

	share, err := scanShare(row)
	if err != nil {
		return nil, dbInfo.HandleSQLError(err)
	}
	return share, nil
}

// GetInvite reads the invite for the token.
func GetInvite(ctx context.Context, dbInfo *DBInfo, token string) (*grant.Invite, error) {
	ctx, span := startTrace(ctx, "GetInvite")
	defer span.End()

	row := dbInfo.stbl.
		Select(inviteColumns...).
		From("invites").
		Where(sq.Eq{"token": token}).
		QueryRowContext(ctx)

	invite, err := scanInvite(row)
	if err != nil {
		return nil, dbInfo.HandleSQLError(err)
	}
	return invite, nil
}

// PutInvite upserts the invite at its token.
func PutInvite(ctx context.Context, dbInfo *DBInfo, invite *grant.Invite) error {
	ctx, span := startTrace(ctx, "PutInvite")
	defer span.End()

	_, err := dbInfo.stbl.
		Insert("invites").
		Columns(inviteColumns...).
		Values(
			invite.Token, invite.ID, invite.OwnerID, invite.OwnerName,
			invite.OwnerEmail, invite.CaregiverEmail, invite.LegacyEmail,
			invite.CaregiverID, invite.Role, invite.Status, invite.Message,
			invite.CreatedAt.UTC(), invite.ExpiresAt.UTC(), nullableTime(invite.AcceptedAt),
		).
		Suffix(`ON CONFLICT (token) DO UPDATE SET
			ulid = excluded.ulid,
			owner_name = excluded.owner_name,
			owner_email = excluded.owner_email,
			caregiver_email = excluded.caregiver_email,
			legacy_email = excluded.legacy_email,
			caregiver_id = excluded.caregiver_id,
			role = excluded.role,
			status = excluded.status,
			message = excluded.message,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at,
			accepted_at = excluded.accepted_at`).
		ExecContext(ctx)
	if err != nil {
		return dbInfo.HandleSQLError(err)
	}
	return nil
}

func listInvites(ctx context.Context, dbInfo *DBInfo, pred any) ([]*grant.Invite, error) {
	rows, err := dbInfo.stbl.
		Select(inviteColumns...).
		From("invites").
		Where(pred).
		OrderBy("ulid").
		QueryContext(ctx)
	if err != nil {
		return nil, dbInfo.HandleSQLError(err)
	}
	defer rows.Close()

	var res []*grant.Invite
	for rows.Next() {
		invite, err := scanInvite(rows)
		if err != nil {
			return nil, dbInfo.HandleSQLError(err)
		}
		res = append(res, invite)
	}
	if err := rows.Err(); err != nil {
		return nil, dbInfo.HandleSQLError(err)
	}
	return res, nil
}

// ListInvitesByOwner reads all invites issued by ownerID, ordered by record
// ULID.
func ListInvitesByOwner(ctx context.Context, dbInfo *DBInfo, ownerID string) ([]*grant.Invite, error) {
	ctx, span := startTrace(ctx, "ListInvitesByOwner")
	defer span.End()

	return listInvites(ctx, dbInfo, sq.Eq{"owner_id": ownerID})
}

// ListInvitesByEmail reads all invites addressed to the normalized email
// under either email column, ordered by record ULID.
func ListInvitesByEmail(ctx context.Context, dbInfo *DBInfo, email string) ([]*grant.Invite, error) {
	ctx, span := startTrace(ctx, "ListInvitesByEmail")
	defer span.End()

	email = grant.NormalizeEmail(email)
	return listInvites(ctx, dbInfo, sq.Or{
		sq.Eq{"caregiver_email": email},
		sq.Eq{"legacy_email": email},
	})
}

// FindPendingInvite reads a pending invite from ownerID to the normalized
// email, matching either email column.
func FindPendingInvite(ctx context.Context, dbInfo *DBInfo, ownerID, email string) (*grant.Invite, error) {
	ctx, span := startTrace(ctx, "FindPendingInvite")
	defer span.End()

	email = grant.NormalizeEmail(email)
	row := dbInfo.stbl.
		Select(inviteColumns...).
		From("invites").
		Where(sq.Eq{"owner_id": ownerID, "status": grant.StatusPending}).
		Where(sq.Or{
			sq.Eq{"caregiver_email": email},
			sq.Eq{"legacy_email": email},
		}).
		Limit(1).
		QueryRowContext(ctx)

	invite, err := scanInvite(row)
	if err != nil {
		return nil, dbInfo.HandleSQLError(err)
	}
	return invite, nil
}
