package internal

import (
	"context"
	"database/sql"
	"embed"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

// DialectFromURI picks postgres for postgres urls and keyword dsns, sqlite otherwise.
func DialectFromURI(uri string) Dialect {
	if strings.HasPrefix(uri, "postgres://") || strings.HasPrefix(uri, "postgresql://") || strings.HasPrefix(uri, "host=") {
		return DialectPostgres
	}
	return DialectSQLite
}

func (d Dialect) driverName() string {
	if d == DialectPostgres {
		return "pgx"
	}
	return "sqlite"
}

func (d Dialect) gooseDialect() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite3"
}

// Rebind turns ? placeholders into $n for postgres.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// OpenDB opens the database behind uri and brings the schema up to date.
func OpenDB(ctx context.Context, uri string, logger *zap.SugaredLogger) (*sql.DB, Dialect, error) {
	dialect := DialectFromURI(uri)

	db, err := sql.Open(dialect.driverName(), uri)
	if err != nil {
		return nil, dialect, errors.Wrap(err, "open database")
	}

	// sqlite allows a single writer
	if dialect == DialectSQLite {
		db.SetMaxOpenConns(1)
	}

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, dialect, errors.Wrap(err, "ping database")
	}

	if err = migrate(db, dialect); err != nil {
		db.Close()
		return nil, dialect, err
	}

	logger.Infow("database ready", "dialect", dialect)
	return db, dialect, nil
}

func migrate(db *sql.DB, dialect Dialect) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(dialect.gooseDialect()); err != nil {
		return errors.Wrap(err, "set migration dialect")
	}
	if err := goose.Up(db, "migrations/"+string(dialect)); err != nil {
		return errors.Wrap(err, "apply migrations")
	}
	return nil
}
