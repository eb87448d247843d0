package adherence

import "context"

// Repository cuenta "taken" con un conteo condicional explícito,
// nunca sumando booleanos.
type Repository interface {
	// MedicineTotals: activas primero, luego created_at DESC.
	MedicineTotals(ctx context.Context) ([]MedicineTotals, error)

	// DailyTotals agrupa por fecha en [from, toExclusive).
	DailyTotals(ctx context.Context, from, toExclusive string) ([]DayTotals, error)

	// PeriodTotals incluye todas las medicinas (0 si no tienen dosis en
	// [from, to]), ordenadas por nombre.
	PeriodTotals(ctx context.Context, from, to string) ([]PeriodTotals, error)
}
