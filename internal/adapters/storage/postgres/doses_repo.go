package postgres

import (
	"context"
	"errors"
	"time"

	"daily-medicine-reminder/internal/domain/doses"
	"daily-medicine-reminder/internal/domain/schedule"
	"daily-medicine-reminder/internal/errs"

	"github.com/jackc/pgx/v5"
)

type DosesRepo struct {
	db *DB
}

func NewDosesRepo(db *DB) *DosesRepo {
	return &DosesRepo{db: db}
}

func (r *DosesRepo) InsertMissing(ctx context.Context, medicineID, date string, labels []string) (int, error) {
	n, err := insertSlots(ctx, r.db.Pool, medicineID, date, labels)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, errs.ErrNotFound
		}
		return 0, errs.Storage("insert doses", err)
	}
	return n, nil
}

func (r *DosesRepo) GetByID(ctx context.Context, id string) (doses.Dose, error) {
	const q = `
SELECT d.id, d.medicine_id, d.date, d.time_label, d.taken, d.taken_at, m.name
FROM doses d
JOIN medicines m ON m.id = d.medicine_id
WHERE d.id = $1`
	var d doses.Dose
	err := r.db.Pool.QueryRow(ctx, q, id).
		Scan(&d.ID, &d.MedicineID, &d.Date, &d.TimeLabel, &d.Taken, &d.TakenAt, &d.MedicineName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return doses.Dose{}, errs.ErrNotFound
		}
		return doses.Dose{}, errs.Storage("get dose", err)
	}
	return d, nil
}

func (r *DosesRepo) SetTaken(ctx context.Context, id string, taken bool, takenAt *time.Time) error {
	if !taken {
		takenAt = nil
	}
	tag, err := r.db.Pool.Exec(ctx, `UPDATE doses SET taken = $2, taken_at = $3 WHERE id = $1`, id, taken, takenAt)
	if err != nil {
		return errs.Storage("set dose taken", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *DosesRepo) ListActiveTargets(ctx context.Context) ([]doses.Target, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT id, frequency, schedule_type, custom_times, preset_times
FROM medicines
WHERE NOT archived
ORDER BY created_at, id`)
	if err != nil {
		return nil, errs.Storage("list active targets", err)
	}
	defer rows.Close()

	out := []doses.Target{}
	for rows.Next() {
		var (
			t      doses.Target
			kind   string
			custom *string
			preset *string
		)
		if err := rows.Scan(&t.MedicineID, &t.Frequency, &kind, &custom, &preset); err != nil {
			return nil, errs.Storage("scan target", err)
		}
		if t.Schedule, err = schedule.Decode(kind, custom, preset); err != nil {
			return nil, errs.Storage("decode schedule", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Storage("list active targets", err)
	}
	return out, nil
}
