package sqlite

import (
	"context"
	"database/sql"

	"daily-medicine-reminder/internal/domain/adherence"
	"daily-medicine-reminder/internal/errs"
)

// AdherenceRepo cuenta tomas con COUNT(CASE WHEN taken = 1 THEN 1 END).
type AdherenceRepo struct {
	db *sql.DB
}

func NewAdherenceRepo(db *sql.DB) *AdherenceRepo {
	return &AdherenceRepo{db: db}
}

func (r *AdherenceRepo) MedicineTotals(ctx context.Context) ([]adherence.MedicineTotals, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.id, m.name, m.frequency, m.created_at, m.archived, m.archived_at,
		       COUNT(CASE WHEN d.taken = 1 THEN 1 END) AS taken_doses,
		       COALESCE(MIN(d.date), '') AS first_dose_date
		FROM medicines m
		LEFT JOIN doses d ON d.medicine_id = m.id
		GROUP BY m.id
		ORDER BY m.archived ASC, m.created_at DESC, m.rowid DESC
	`)
	if err != nil {
		return nil, errs.Storage("medicine totals", err)
	}
	defer rows.Close()

	out := []adherence.MedicineTotals{}
	for rows.Next() {
		var (
			t          adherence.MedicineTotals
			createdAt  int64
			archived   int
			archivedAt sql.NullInt64
		)
		if err := rows.Scan(&t.MedicineID, &t.Name, &t.Frequency, &createdAt, &archived, &archivedAt,
			&t.TakenDoses, &t.FirstDoseDate); err != nil {
			return nil, errs.Storage("scan medicine totals", err)
		}
		t.CreatedAt = fromUnix(createdAt)
		t.Archived = archived == 1
		t.ArchivedAt = fromNullUnix(archivedAt)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Storage("medicine totals", err)
	}
	return out, nil
}

func (r *AdherenceRepo) DailyTotals(ctx context.Context, from, toExclusive string) ([]adherence.DayTotals, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT date, COUNT(*) AS total, COUNT(CASE WHEN taken = 1 THEN 1 END) AS taken
		FROM doses
		WHERE date >= ? AND date < ?
		GROUP BY date
		ORDER BY date
	`, from, toExclusive)
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
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.id, m.name, m.frequency,
		       COUNT(d.id) AS total,
		       COUNT(CASE WHEN d.taken = 1 THEN 1 END) AS taken
		FROM medicines m
		LEFT JOIN doses d ON d.medicine_id = m.id AND d.date >= ? AND d.date <= ?
		GROUP BY m.id
		ORDER BY m.name, m.id
	`, from, to)
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
