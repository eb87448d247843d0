package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"daily-medicine-reminder/internal/domain/doses"
	"daily-medicine-reminder/internal/domain/schedule"
	"daily-medicine-reminder/internal/errs"
)

type DosesRepo struct {
	db *sql.DB
}

func NewDosesRepo(db *sql.DB) *DosesRepo {
	return &DosesRepo{db: db}
}

func (r *DosesRepo) InsertMissing(ctx context.Context, medicineID, date string, labels []string) (n int, err error) {
	if len(labels) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errs.Storage("begin insert doses", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if e := tx.Commit(); e != nil {
			n, err = 0, errs.Storage("commit insert doses", e)
		}
	}()

	n, err = insertSlots(ctx, tx, medicineID, date, labels)
	if err != nil {
		if isForeignKeyError(err) {
			return 0, errs.ErrNotFound
		}
		return 0, errs.Storage("insert doses", err)
	}
	return n, nil
}

func (r *DosesRepo) GetByID(ctx context.Context, id string) (doses.Dose, error) {
	var (
		d       doses.Dose
		taken   int
		takenAt sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT d.id, d.medicine_id, d.date, d.time_label, d.taken, d.taken_at, m.name
		FROM doses d
		JOIN medicines m ON m.id = d.medicine_id
		WHERE d.id = ?
	`, id).Scan(&d.ID, &d.MedicineID, &d.Date, &d.TimeLabel, &taken, &takenAt, &d.MedicineName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return doses.Dose{}, errs.ErrNotFound
		}
		return doses.Dose{}, errs.Storage("get dose", err)
	}
	d.Taken = taken == 1
	d.TakenAt = fromNullUnix(takenAt)
	return d, nil
}

func (r *DosesRepo) SetTaken(ctx context.Context, id string, taken bool, takenAt *time.Time) error {
	if !taken {
		takenAt = nil
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE doses SET taken = ?, taken_at = ? WHERE id = ?`, boolInt(taken), toNullUnix(takenAt), id)
	if err != nil {
		return errs.Storage("set dose taken", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *DosesRepo) ListActiveTargets(ctx context.Context) ([]doses.Target, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, frequency, schedule_type, custom_times, preset_times
		FROM medicines
		WHERE archived = 0
		ORDER BY created_at, rowid
	`)
	if err != nil {
		return nil, errs.Storage("list active targets", err)
	}
	defer rows.Close()

	out := []doses.Target{}
	for rows.Next() {
		var (
			t      doses.Target
			kind   string
			custom sql.NullString
			preset sql.NullString
		)
		if err := rows.Scan(&t.MedicineID, &t.Frequency, &kind, &custom, &preset); err != nil {
			return nil, errs.Storage("scan target", err)
		}
		if t.Schedule, err = schedule.Decode(kind, fromNullString(custom), fromNullString(preset)); err != nil {
			return nil, errs.Storage("decode schedule", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Storage("list active targets", err)
	}
	return out, nil
}
