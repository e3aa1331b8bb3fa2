package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"github.com/pressly/goose/v3"

	"github.com/carebridge/carebridge/assets"
	"github.com/carebridge/carebridge/pkg/storage"
)

// MigrationProvider implements [storage.MigrationProvider] for SQLite.
type MigrationProvider struct{}

// NewMigrationProvider creates a new SQLite migration provider.
func NewMigrationProvider() *MigrationProvider {
	return &MigrationProvider{}
}

var _ storage.MigrationProvider = (*MigrationProvider)(nil)

// GetSupportedEngine returns the database engine this provider supports.
func (p *MigrationProvider) GetSupportedEngine() string {
	return "sqlite"
}

// RunMigrations executes SQLite database migrations.
func (p *MigrationProvider) RunMigrations(ctx context.Context, config storage.MigrationConfig) error {
	db, err := p.open(ctx, config)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(assets.EmbedMigrations)

	currentVersion, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get current sqlite schema version: %w", err)
	}

	targetVersion := int64(config.TargetVersion)
	switch {
	case config.TargetVersion == 0:
		return goose.UpContext(ctx, db, assets.SqliteMigrationDir)
	case targetVersion < currentVersion:
		return goose.DownToContext(ctx, db, assets.SqliteMigrationDir, targetVersion)
	default:
		return goose.UpToContext(ctx, db, assets.SqliteMigrationDir, targetVersion)
	}
}

// GetCurrentVersion returns the current schema version.
func (p *MigrationProvider) GetCurrentVersion(ctx context.Context, config storage.MigrationConfig) (int64, error) {
	db, err := p.open(ctx, config)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	return goose.GetDBVersionContext(ctx, db)
}

func (p *MigrationProvider) open(ctx context.Context, config storage.MigrationConfig) (*sql.DB, error) {
	goose.SetLogger(goose.NopLogger())
	goose.SetVerbose(config.Verbose)

	if err := goose.SetDialect("sqlite"); err != nil {
		return nil, fmt.Errorf("failed to set sqlite dialect: %w", err)
	}

	uri, err := PrepareDSN(config.URI)
	if err != nil {
		return nil, err
	}

	db, err := goose.OpenDBWithDriver("sqlite", uri)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite connection: %w", err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = config.Timeout
	err = backoff.Retry(func() error {
		return db.PingContext(ctx)
	}, policy)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize sqlite connection: %w", err)
	}

	return db, nil
}
