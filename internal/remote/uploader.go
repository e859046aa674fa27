package remote

import (
	"context"
	"fmt"
	"io"

	"github.com/huangsam/slippistats/internal/contract"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGUploader loads CSV tables into PostgreSQL with COPY, one transaction per table.
type PGUploader struct {
	pool     *pgxpool.Pool
	role     string
	truncate bool
}

var _ contract.RemoteUploader = &PGUploader{} // Compile-time check

// NewUploader connects to the remote store. connStr names the host and database;
// user and password come from creds when set.
func NewUploader(ctx context.Context, connStr string, creds Credentials, truncate bool) (*PGUploader, error) {
	if connStr == "" {
		return nil, &contract.RemoteStoreError{Op: "connect", Err: fmt.Errorf("--remote-db-connect is required for upload")}
	}

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, &contract.RemoteStoreError{Op: "connect", Err: fmt.Errorf("invalid connection string: %w", err)}
	}
	if creds.User != "" {
		poolCfg.ConnConfig.User = creds.User
	}
	if creds.Password != "" {
		poolCfg.ConnConfig.Password = creds.Password
	}
	poolCfg.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, &contract.RemoteStoreError{Op: "connect", Err: fmt.Errorf("failed to create pool: %w", err)}
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, &contract.RemoteStoreError{Op: "connect", Err: fmt.Errorf("failed to ping database: %w", err)}
	}

	return &PGUploader{pool: pool, role: creds.Role, truncate: truncate}, nil
}

// copyStatement returns the COPY statement for a CSV stream with a header row.
func copyStatement(table string) string {
	return fmt.Sprintf("COPY %s FROM STDIN WITH (FORMAT csv, HEADER true)", pgx.Identifier{table}.Sanitize())
}

// Upload replaces or appends the table contents with the CSV stream and
// returns the number of rows copied. Nothing is committed on failure.
func (u *PGUploader) Upload(ctx context.Context, table string, csv io.Reader) (int64, error) {
	fail := func(op string, err error) (int64, error) {
		return 0, &contract.RemoteStoreError{Table: table, Op: op, Err: err}
	}

	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return fail("connect", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if u.role != "" {
		if _, err := tx.Exec(ctx, "SET LOCAL ROLE "+pgx.Identifier{u.role}.Sanitize()); err != nil {
			return fail("role", err)
		}
	}
	if u.truncate {
		if _, err := tx.Exec(ctx, "TRUNCATE TABLE "+pgx.Identifier{table}.Sanitize()); err != nil {
			return fail("truncate", err)
		}
	}

	tag, err := tx.Conn().PgConn().CopyFrom(ctx, csv, copyStatement(table))
	if err != nil {
		return fail("copy", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fail("commit", err)
	}
	return tag.RowsAffected(), nil
}

// Close releases the connection pool.
func (u *PGUploader) Close() {
	u.pool.Close()
}
