package postgres

import (
	"context"

	"daily-medicine-reminder/internal/domain/adherence"
	"daily-medicine-reminder/internal/errs"
)

// AdherenceRepo cuenta tomas con COUNT(*) FILTER (WHERE taken).
type AdherenceRepo struct {
	db *DB
}

func NewAdherenceRepo(db *DB) *AdherenceRepo {
	return &AdherenceRepo{db: db}
}

func (r *AdherenceRepo) MedicineTotals(ctx context.Context) ([]adherence.MedicineTotals, error) {
	const q = `
SELECT m.id, m.name, m.frequency, m.created_at, m.archived, m.archived_at,
       COUNT(d.id) FILTER (WHERE d.taken) AS taken_doses,
       COALESCE(MIN(d.date), '') AS first_dose_date
FROM medicines m
LEFT JOIN doses d ON d.medicine_id = m.id
GROUP BY m.id
ORDER BY m.archived ASC, m.created_at DESC, m.id`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, errs.Storage("medicine totals", err)
	}
	defer rows.Close()

	out := []adherence.MedicineTotals{}
	for rows.Next() {
		var t adherence.MedicineTotals
		if err := rows.Scan(&t.MedicineID, &t.Name, &t.Frequency, &t.CreatedAt, &t.Archived, &t.ArchivedAt,
			&t.TakenDoses, &t.FirstDoseDate); err != nil {
			return nil, errs.Storage("scan medicine totals", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Storage("medicine totals", err)
	}
	return out, nil
}

func (r *AdherenceRepo) DailyTotals(ctx context.Context, from, toExclusive string) ([]adherence.DayTotals, error) {
	const q = `
SELECT date, COUNT(*) AS total, COUNT(*) FILTER (WHERE taken) AS taken
FROM doses
WHERE date >= $1 AND date < $2
GROUP BY date
ORDER BY date`
	rows, err := r.db.Pool.Query(ctx, q, from, toExclusive)
	if err != nil {
		return nil, errs.Storage("daily totals", err)
	}
	defer rows.Close()

	out := []adherence.DayTotals{}
	for rows.Next() {
		var t adherence.DayTotals
		if err := rows.Scan(&t.Date, &t.Total, &t.Taken); err != nil {
			return nil, errs.Storage("scan daily totals", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Storage("daily totals", err)
	}
	return out, nil
}

func (r *AdherenceRepo) PeriodTotals(ctx context.Context, from, to string) ([]adherence.PeriodTotals, error) {
	const q = `
SELECT m.id, m.name, m.frequency,
       COUNT(d.id) AS total,
       COUNT(d.id) FILTER (WHERE d.taken) AS taken
FROM medicines m
LEFT JOIN doses d ON d.medicine_id = m.id AND d.date >= $1 AND d.date <= $2
GROUP BY m.id
ORDER BY m.name, m.id`
	rows, err := r.db.Pool.Query(ctx, q, from, to)
	if err != nil {
		return nil, errs.Storage("period totals", err)
	}
	defer rows.Close()

	out := []adherence.PeriodTotals{}
	for rows.Next() {
		var t adherence.PeriodTotals
		if err := rows.Scan(&t.MedicineID, &t.Name, &t.Frequency, &t.Total, &t.Taken); err != nil {
			return nil, errs.Storage("scan period totals", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Storage("period totals", err)
	}
	return out, nil
}
