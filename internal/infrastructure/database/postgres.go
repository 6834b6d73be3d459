package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	migrate "github.com/rubenv/sql-migrate"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/johnquangdev/meeting-intel/migrations"
	"github.com/johnquangdev/meeting-intel/pkg/config"
)

const migrationTable = "schema_migrations"

// NewPostgresDB creates a new PostgreSQL database connection using GORM
func NewPostgresDB(cfg *config.Config) (*gorm.DB, error) {
	return Open(cfg.GetDatabaseDSN(), cfg.IsProduction(), cfg.Database.MaxConns, cfg.Database.MinConns)
}

// Open connects to dsn and configures the pool
func Open(dsn string, quiet bool, maxConns, minConns int) (*gorm.DB, error) {
	// Configure GORM logger
	gormLogger := logger.Default.LogMode(logger.Info)
	if quiet {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	// Open connection
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get generic database object to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	// Connection pool settings
	if maxConns > 0 {
		sqlDB.SetMaxOpenConns(maxConns)
	}
	if minConns > 0 {
		sqlDB.SetMaxIdleConns(minConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Database connected successfully")

	return db, nil
}

// MigrationSource returns the embedded SQL migrations
func MigrationSource() migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrations.FS,
		Root:       ".",
	}
}

// Migrate applies migrations in the given direction. max limits the number
// of steps, 0 means all.
func Migrate(sqlDB *sql.DB, direction migrate.MigrationDirection, max int) (int, error) {
	migrate.SetTable(migrationTable)
	n, err := migrate.ExecMax(sqlDB, "postgres", MigrationSource(), direction, max)
	if err != nil {
		return n, fmt.Errorf("failed to apply migration, error: %v", err)
	}
	return n, nil
}

// AutoMigrate applies all pending up migrations
func AutoMigrate(db *gorm.DB) error {
	log.Println("🔄 Applying embedded migrations using sql-migrate...")

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get db connection during migrate up, error: %v", err)
	}

	n, err := Migrate(sqlDB, migrate.Up, 0)
	if err != nil {
		return err
	}

	log.Printf("✅ Applied %d migrations!\n", n)
	return nil
}

// MigrationStatus lists every known migration and when it was applied
func MigrationStatus(sqlDB *sql.DB) ([]MigrationRecord, error) {
	migrate.SetTable(migrationTable)
	known, err := MigrationSource().FindMigrations()
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}
	applied, err := migrate.GetMigrationRecords(sqlDB, "postgres")
	if err != nil {
		return nil, fmt.Errorf("failed to read migration records: %w", err)
	}

	appliedAt := make(map[string]time.Time, len(applied))
	for _, r := range applied {
		appliedAt[r.Id] = r.AppliedAt
	}

	out := make([]MigrationRecord, 0, len(known))
	for _, m := range known {
		rec := MigrationRecord{ID: m.Id}
		if at, ok := appliedAt[m.Id]; ok {
			at := at
			rec.AppliedAt = &at
		}
		out = append(out, rec)
	}
	return out, nil
}

// MigrationRecord is one row of migration status output
type MigrationRecord struct {
	ID        string
	AppliedAt *time.Time
}

// Pinger returns a connectivity check for the health endpoint
func Pinger(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

// CloseDB closes the database connection
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	log.Println("✅ Database connection closed")
	return nil
}
