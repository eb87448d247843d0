package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"daily-medicine-reminder/internal/domain/doses"
	"daily-medicine-reminder/internal/domain/medicines"
	"daily-medicine-reminder/internal/domain/schedule"
	"daily-medicine-reminder/internal/errs"

	"github.com/jackc/pgx/v5"
)

const medicineColumns = `id, name, frequency, schedule_type, custom_times, preset_times, created_at, archived, archived_at`

type MedicinesRepo struct {
	db *DB
}

func NewMedicinesRepo(db *DB) *MedicinesRepo {
	return &MedicinesRepo{db: db}
}

func (r *MedicinesRepo) Create(ctx context.Context, m medicines.Medicine, date string, labels []string) (err error) {
	kind, custom, preset, err := schedule.Encode(m.Schedule)
	if err != nil {
		return err
	}

	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return errs.Storage("begin create medicine", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = errs.Storage("commit create medicine", e)
		}
	}()

	const ins = `
INSERT INTO medicines (id, name, frequency, schedule_type, custom_times, preset_times, created_at, archived)
VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE)`
	if _, err = tx.Exec(ctx, ins, m.ID, m.Name, m.Frequency, kind, custom, preset, m.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("medicine %s already exists", m.ID)
		}
		return errs.Storage("insert medicine", err)
	}
	if _, err = insertSlots(ctx, tx, m.ID, date, labels); err != nil {
		return errs.Storage("insert initial doses", err)
	}
	return nil
}

func (r *MedicinesRepo) GetByID(ctx context.Context, id string) (medicines.Medicine, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+medicineColumns+` FROM medicines WHERE id = $1`, id)
	m, err := scanMedicine(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return medicines.Medicine{}, errs.ErrNotFound
		}
		return medicines.Medicine{}, errs.Storage("get medicine", err)
	}
	return m, nil
}

func (r *MedicinesRepo) ListAll(ctx context.Context) ([]medicines.Medicine, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+medicineColumns+` FROM medicines ORDER BY archived ASC, created_at DESC, id`)
	if err != nil {
		return nil, errs.Storage("list medicines", err)
	}
	defer rows.Close()

	out := []medicines.Medicine{}
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, errs.Storage("scan medicine", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Storage("list medicines", err)
	}
	return out, nil
}

func (r *MedicinesRepo) ListDay(ctx context.Context, date string) ([]medicines.DayEntry, error) {
	const q = `
SELECT m.id, m.name, m.frequency, m.schedule_type, m.custom_times, m.preset_times, m.created_at, m.archived, m.archived_at,
       d.id, d.time_label, d.taken, d.taken_at
FROM medicines m
LEFT JOIN doses d ON d.medicine_id = m.id AND d.date = $1
WHERE NOT m.archived
ORDER BY m.created_at DESC, m.id, d.time_label`
	rows, err := r.db.Pool.Query(ctx, q, date)
	if err != nil {
		return nil, errs.Storage("list day", err)
	}
	defer rows.Close()

	out := []medicines.DayEntry{}
	for rows.Next() {
		var (
			m       medicines.Medicine
			kind    string
			custom  *string
			preset  *string
			doseID  *string
			label   *string
			taken   *bool
			takenAt *time.Time
		)
		if err := rows.Scan(
			&m.ID, &m.Name, &m.Frequency, &kind, &custom, &preset, &m.CreatedAt, &m.Archived, &m.ArchivedAt,
			&doseID, &label, &taken, &takenAt,
		); err != nil {
			return nil, errs.Storage("scan day", err)
		}

		// filas de la misma medicina llegan contiguas
		if n := len(out); n == 0 || out[n-1].Medicine.ID != m.ID {
			cfg, err := schedule.Decode(kind, custom, preset)
			if err != nil {
				return nil, errs.Storage("decode schedule", err)
			}
			m.Schedule = cfg
			out = append(out, medicines.DayEntry{Medicine: m, Doses: []doses.Dose{}})
		}
		if doseID == nil {
			continue
		}
		e := &out[len(out)-1]
		d := doses.Dose{ID: *doseID, MedicineID: m.ID, Date: date, TakenAt: takenAt}
		if label != nil {
			d.TimeLabel = *label
		}
		if taken != nil {
			d.Taken = *taken
		}
		e.Doses = append(e.Doses, d)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Storage("list day", err)
	}
	return out, nil
}

func (r *MedicinesRepo) Archive(ctx context.Context, id string, at time.Time) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE medicines SET archived = TRUE, archived_at = $2 WHERE id = $1 AND NOT archived`, id, at)
	if err != nil {
		return errs.Storage("archive medicine", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFoundOrConflict
	}
	return nil
}

func (r *MedicinesRepo) Reactivate(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE medicines SET archived = FALSE, archived_at = NULL WHERE id = $1 AND archived`, id)
	if err != nil {
		return errs.Storage("reactivate medicine", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFoundOrConflict
	}
	return nil
}

func (r *MedicinesRepo) Delete(ctx context.Context, id string) (name string, err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", errs.Storage("begin delete medicine", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			name, err = "", errs.Storage("commit delete medicine", e)
		}
	}()

	if err = tx.QueryRow(ctx, `SELECT name FROM medicines WHERE id = $1 FOR UPDATE`, id).Scan(&name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", errs.ErrNotFound
		}
		return "", errs.Storage("lock medicine", err)
	}
	if _, err = tx.Exec(ctx, `DELETE FROM doses WHERE medicine_id = $1`, id); err != nil {
		return "", errs.Storage("delete doses", err)
	}
	if _, err = tx.Exec(ctx, `DELETE FROM medicines WHERE id = $1`, id); err != nil {
		return "", errs.Storage("delete medicine", err)
	}
	return name, nil
}

func scanMedicine(row pgx.Row) (medicines.Medicine, error) {
	var (
		m      medicines.Medicine
		kind   string
		custom *string
		preset *string
	)
	if err := row.Scan(&m.ID, &m.Name, &m.Frequency, &kind, &custom, &preset, &m.CreatedAt, &m.Archived, &m.ArchivedAt); err != nil {
		return medicines.Medicine{}, err
	}
	cfg, err := schedule.Decode(kind, custom, preset)
	if err != nil {
		return medicines.Medicine{}, err
	}
	m.Schedule = cfg
	return m, nil
}
