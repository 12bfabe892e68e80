package database

import (
	"context"
	"embed"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	"github.com/collegedesk/console/core"
)

//go:embed migrations/*.sql
var migrations embed.FS

// URL builds the connection string of the configured database.
func URL(conf *core.Config) string {
	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   conf.Database.Engine,
		User:     url.UserPassword(conf.Database.User, conf.Database.Password),
		Host:     conf.Database.Address(),
		Path:     conf.Database.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// Open connects to the audit database and waits for it to answer.
func Open(ctx context.Context, conf *core.Config) (*sqlx.DB, error) {
	db, err := sqlx.Open(conf.Database.Engine, URL(conf))
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err = ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(ctx context.Context, db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "DB ping")
		case <-time.After(time.Duration(attempts) * 100 * time.Millisecond):
		}
	}
	return errors.Wrap(err, "DB ping timeout")
}

// MigrationsDir is the directory of the embedded migrations, as goose sees it.
const MigrationsDir = "migrations"

// PrepareMigrations points goose at the embedded migrations.
func PrepareMigrations() error {
	goose.SetBaseFS(migrations)
	return errors.Wrap(goose.SetDialect("postgres"), "setting migration dialect")
}

// Migrate applies the embedded migrations.
func Migrate(db *sqlx.DB) error {
	if err := PrepareMigrations(); err != nil {
		return err
	}
	if err := goose.Up(db.DB, MigrationsDir); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}
