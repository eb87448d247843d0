// Package postgres implementa los repositorios de medicinas, dosis y
// adherencia sobre pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPool es lo mínimo que usan los repos. Lo implementan *pgxpool.Pool y
// pgxmock.PgxPoolIface.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Close()
}

// execer lo cumplen tanto el pool como una pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type DB struct{ Pool PgxPool }

// Options del pool. Cero en MaxConns deja el default de pgxpool.
type Options struct {
	DSN      string
	MaxConns int32
}

// New abre el pool y verifica la conexión.
func New(ctx context.Context, opts Options) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &DB{Pool: pool}, nil
}

func (db *DB) Close() { db.Pool.Close() }

const insertSlotsSQL = `
INSERT INTO doses (id, medicine_id, date, time_label)
SELECT s.id, $1, $2, s.label
FROM unnest($3::text[], $4::text[]) AS s(id, label)
ON CONFLICT (medicine_id, date, time_label) DO NOTHING`

// insertSlots crea los slots que falten en un único statement; los que ya
// existen no se tocan. Devuelve cuántos se crearon.
func insertSlots(ctx context.Context, q execer, medicineID, date string, labels []string) (int, error) {
	if len(labels) == 0 {
		return 0, nil
	}
	ids := make([]string, len(labels))
	for i := range labels {
		ids[i] = uuid.NewString()
	}
	tag, err := q.Exec(ctx, insertSlotsSQL, medicineID, date, ids, labels)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func pgCode(err error) string {
	var pg *pgconn.PgError
	if errors.As(err, &pg) {
		return pg.Code
	}
	return ""
}

func isUniqueViolation(err error) bool { return pgCode(err) == "23505" }

func isForeignKeyViolation(err error) bool { return pgCode(err) == "23503" }
