// Package migrate aplica las migraciones SQL embebidas con goose.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"daily-medicine-reminder/internal/platform/logger"
	"daily-medicine-reminder/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// goose guarda base FS, dialecto y logger en variables globales.
var mu sync.Mutex

// Postgres abre una conexión database/sql sobre pgx y aplica las
// migraciones pendientes.
func Postgres(ctx context.Context, dsn string, log logger.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	return up(ctx, db, "postgres", "postgres", log)
}

// SQLite migra una base ya abierta (ver sqlite.Open).
func SQLite(ctx context.Context, db *sql.DB, log logger.Logger) error {
	return up(ctx, db, "sqlite3", "sqlite", log)
}

func up(ctx context.Context, db *sql.DB, dialect, dir string, log logger.Logger) error {
	mu.Lock()
	defer mu.Unlock()

	if log == nil {
		log = logger.Nop()
	}
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{log: log.With(map[string]any{"component": "migrate", "dialect": dialect})})
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("migrate %s: %w", dialect, err)
	}
	return nil
}

// gooseLogger adapta logger.Logger a goose.Logger.
type gooseLogger struct {
	log logger.Logger
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.log.Info(strings.TrimSpace(fmt.Sprintf(format, v...)), nil)
}

// Fatalf no termina el proceso; goose igual devuelve el error.
func (g gooseLogger) Fatalf(format string, v ...any) {
	g.log.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), nil)
}
