package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"github.com/pressly/goose/v3"

	"github.com/carebridge/carebridge/assets"
	"github.com/carebridge/carebridge/pkg/storage"
)

// MigrationProvider implements [storage.MigrationProvider] for PostgreSQL.
type MigrationProvider struct{}

// NewMigrationProvider creates a new PostgreSQL migration provider.
func NewMigrationProvider() *MigrationProvider {
	return &MigrationProvider{}
}

var _ storage.MigrationProvider = (*MigrationProvider)(nil)

// GetSupportedEngine returns the database engine this provider supports.
func (p *MigrationProvider) GetSupportedEngine() string {
	return "postgres"
}

// RunMigrations executes PostgreSQL database migrations.
func (p *MigrationProvider) RunMigrations(ctx context.Context, config storage.MigrationConfig) error {
	db, err := p.open(ctx, config)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(assets.EmbedMigrations)

	currentVersion, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get current postgres schema version: %w", err)
	}

	targetVersion := int64(config.TargetVersion)
	switch {
	case config.TargetVersion == 0:
		return goose.UpContext(ctx, db, assets.PostgresMigrationDir)
	case targetVersion < currentVersion:
		return goose.DownToContext(ctx, db, assets.PostgresMigrationDir, targetVersion)
	default:
		return goose.UpToContext(ctx, db, assets.PostgresMigrationDir, targetVersion)
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

	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("failed to set postgres dialect: %w", err)
	}

	db, err := goose.OpenDBWithDriver("pgx", config.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = config.Timeout
	err = backoff.Retry(func() error {
		return db.PingContext(ctx)
	}, policy)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize postgres connection: %w", err)
	}

	return db, nil
}
