package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"go.opentelemetry.io/otel"
)

//go:embed migrations/*.sql
var migrations embed.FS

type DB struct {
	*sql.DB
	QueryBuilder *squirrel.StatementBuilderType
}

type Options struct {
	Path       string
	LogQueries bool
	QueryLog   io.Writer
}

// NewDB opens a traced sqlite handle and brings the schema up to date.
func NewDB(opts Options) (*DB, error) {
	if opts.Path == "" {
		opts.Path = "tasks.db"
	}

	sqlDB, err := otelsql.Open("sqlite3", opts.Path,
		otelsql.WithDBSystem("sqlite"),
		otelsql.WithDBName("taskapp"),
		otelsql.WithTracerProvider(otel.GetTracerProvider()),
	)

	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if opts.LogQueries {
		out := opts.QueryLog

		if out == nil {
			out = io.Discard
		}

		logger := zerolog.New(out).With().Timestamp().Logger().Level(zerolog.DebugLevel)
		logged := sqldblogger.OpenDriver(opts.Path, sqlDB.Driver(), zerologadapter.New(logger))

		sqlDB.Close()
		sqlDB = logged
	}

	db := Wrap(sqlDB)

	if err := RunMigrations(db.DB); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Wrap attaches the query builder to an already opened handle.
func Wrap(sqlDB *sql.DB) *DB {
	// :memory: databases live per connection, so every caller must share one.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	queryBuilder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

	return &DB{
		DB:           sqlDB,
		QueryBuilder: &queryBuilder,
	}
}

func RunMigrations(db *sql.DB) error {
	source, err := iofs.New(migrations, "migrations")

	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})

	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	// Closing m would close db as well.
	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)

	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
