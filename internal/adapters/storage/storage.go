// Package storage elige el backend de persistencia (memory, sqlite o
// postgres) y arma los repositorios de cada módulo.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	mem "daily-medicine-reminder/internal/adapters/storage/memory"
	pg "daily-medicine-reminder/internal/adapters/storage/postgres"
	"daily-medicine-reminder/internal/adapters/storage/sqlite"
	"daily-medicine-reminder/internal/domain/adherence"
	"daily-medicine-reminder/internal/domain/doses"
	"daily-medicine-reminder/internal/domain/medicines"
	"daily-medicine-reminder/internal/migrate"
	"daily-medicine-reminder/internal/platform/logger"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Options struct {
	Driver     string
	DSN        string // postgres
	SQLitePath string
	MaxConns   int32

	// AutoMigrate aplica las migraciones pendientes al abrir.
	AutoMigrate bool
}

// Repositories agrupa los repos de un mismo backend.
type Repositories struct {
	Driver string

	Medicines medicines.Repository
	Doses     doses.Repository
	Adherence adherence.Repository

	close func() error
}

func (r *Repositories) Close() error {
	if r == nil || r.close == nil {
		return nil
	}
	return r.close()
}

// Memory devuelve repos in-memory sobre un único Store.
func Memory() *Repositories {
	s := mem.NewStore()
	return &Repositories{
		Driver:    DriverMemory,
		Medicines: mem.NewMedicinesRepo(s),
		Doses:     mem.NewDosesRepo(s),
		Adherence: mem.NewAdherenceRepo(s),
	}
}

func Open(ctx context.Context, opts Options, log logger.Logger) (*Repositories, error) {
	if log == nil {
		log = logger.Nop()
	}
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "", DriverMemory:
		log.Warn("using in-memory storage; data is lost on restart", nil)
		return Memory(), nil
	case DriverSQLite:
		return openSQLite(ctx, opts, log)
	case DriverPostgres:
		return openPostgres(ctx, opts, log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}

func openSQLite(ctx context.Context, opts Options, log logger.Logger) (*Repositories, error) {
	db, err := sqlite.Open(opts.SQLitePath)
	if err != nil {
		return nil, err
	}
	if opts.AutoMigrate {
		if err := migrate.SQLite(ctx, db, log); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	log.Info("sqlite storage ready", map[string]any{"path": opts.SQLitePath})
	return sqliteRepos(db), nil
}

func sqliteRepos(db *sql.DB) *Repositories {
	return &Repositories{
		Driver:    DriverSQLite,
		Medicines: sqlite.NewMedicinesRepo(db),
		Doses:     sqlite.NewDosesRepo(db),
		Adherence: sqlite.NewAdherenceRepo(db),
		close:     db.Close,
	}
}

func openPostgres(ctx context.Context, opts Options, log logger.Logger) (*Repositories, error) {
	if opts.DSN == "" {
		return nil, fmt.Errorf("postgres driver requires a dsn")
	}
	if opts.AutoMigrate {
		if err := migrate.Postgres(ctx, opts.DSN, log); err != nil {
			return nil, err
		}
	}
	db, err := pg.New(ctx, pg.Options{DSN: opts.DSN, MaxConns: opts.MaxConns})
	if err != nil {
		return nil, err
	}
	log.Info("postgres storage ready", nil)
	return &Repositories{
		Driver:    DriverPostgres,
		Medicines: pg.NewMedicinesRepo(db),
		Doses:     pg.NewDosesRepo(db),
		Adherence: pg.NewAdherenceRepo(db),
		close: func() error {
			db.Close()
			return nil
		},
	}, nil
}
