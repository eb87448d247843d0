package medicines

import (
	"context"
	"time"
)

type Repository interface {
	// Create persiste la medicina y sus slots de date en una sola unidad atómica.
	Create(ctx context.Context, m Medicine, date string, labels []string) error

	GetByID(ctx context.Context, id string) (Medicine, error)

	// ListAll: activas primero, luego created_at DESC.
	ListAll(ctx context.Context) ([]Medicine, error)

	// ListDay: medicinas activas (created_at DESC) con sus dosis de date.
	ListDay(ctx context.Context, date string) ([]DayEntry, error)

	// Archive/Reactivate son updates condicionales; si no cambia ninguna
	// fila devuelven errs.ErrNotFoundOrConflict.
	Archive(ctx context.Context, id string, at time.Time) error
	Reactivate(ctx context.Context, id string) error

	// Delete borra dosis y medicina en una transacción y devuelve el nombre.
	// errs.ErrNotFound si no existe.
	Delete(ctx context.Context, id string) (string, error)
}
