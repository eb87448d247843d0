package doses

import (
	"context"
	"time"
)

type Repository interface {
	// InsertMissing crea los slots (medicineID, date, label) que no existan.
	// Un slot existente no se toca ni es error. Devuelve cuántos insertó.
	InsertMissing(ctx context.Context, medicineID, date string, labels []string) (int, error)

	// GetByID incluye MedicineName. errs.ErrNotFound si no existe.
	GetByID(ctx context.Context, id string) (Dose, error)

	// SetTaken actualiza taken/taken_at. errs.ErrNotFound si no existe.
	SetTaken(ctx context.Context, id string, taken bool, takenAt *time.Time) error

	// ListActiveTargets devuelve las medicinas no archivadas.
	ListActiveTargets(ctx context.Context) ([]Target, error)
}
