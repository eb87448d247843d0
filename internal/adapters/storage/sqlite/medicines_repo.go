package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"daily-medicine-reminder/internal/domain/doses"
	"daily-medicine-reminder/internal/domain/medicines"
	"daily-medicine-reminder/internal/domain/schedule"
	"daily-medicine-reminder/internal/errs"
)

const medicineColumns = `id, name, frequency, schedule_type, custom_times, preset_times, created_at, archived, archived_at`

type MedicinesRepo struct {
	db *sql.DB
}

func NewMedicinesRepo(db *sql.DB) *MedicinesRepo {
	return &MedicinesRepo{db: db}
}

func (r *MedicinesRepo) Create(ctx context.Context, m medicines.Medicine, date string, labels []string) (err error) {
	kind, custom, preset, err := schedule.Encode(m.Schedule)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.Storage("begin create medicine", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if e := tx.Commit(); e != nil {
			err = errs.Storage("commit create medicine", e)
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO medicines (id, name, frequency, schedule_type, custom_times, preset_times, created_at, archived)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0)
	`, m.ID, m.Name, m.Frequency, kind, toNullString(custom), toNullString(preset), toUnix(m.CreatedAt))
	if err != nil {
		if isUniqueConstraintError(err) {
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
	row := r.db.QueryRowContext(ctx, `SELECT `+medicineColumns+` FROM medicines WHERE id = ?`, id)
	m, err := scanMedicine(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return medicines.Medicine{}, errs.ErrNotFound
		}
		return medicines.Medicine{}, errs.Storage("get medicine", err)
	}
	return m, nil
}

func (r *MedicinesRepo) ListAll(ctx context.Context) ([]medicines.Medicine, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+medicineColumns+`
		FROM medicines
		ORDER BY archived ASC, created_at DESC, rowid DESC
	`)
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
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.id, m.name, m.frequency, m.schedule_type, m.custom_times, m.preset_times,
		       m.created_at, m.archived, m.archived_at,
		       d.id, d.time_label, d.taken, d.taken_at
		FROM medicines m
		LEFT JOIN doses d ON d.medicine_id = m.id AND d.date = ?
		WHERE m.archived = 0
		ORDER BY m.created_at DESC, m.rowid DESC, d.time_label
	`, date)
	if err != nil {
		return nil, errs.Storage("list day", err)
	}
	defer rows.Close()

	out := []medicines.DayEntry{}
	for rows.Next() {
		var (
			mr      medicineRow
			doseID  sql.NullString
			label   sql.NullString
			taken   sql.NullInt64
			takenAt sql.NullInt64
		)
		if err := rows.Scan(mr.dest(&doseID, &label, &taken, &takenAt)...); err != nil {
			return nil, errs.Storage("scan day", err)
		}

		if n := len(out); n == 0 || out[n-1].Medicine.ID != mr.id {
			m, err := mr.medicine()
			if err != nil {
				return nil, errs.Storage("decode schedule", err)
			}
			out = append(out, medicines.DayEntry{Medicine: m, Doses: []doses.Dose{}})
		}
		if !doseID.Valid {
			continue
		}
		e := &out[len(out)-1]
		e.Doses = append(e.Doses, doses.Dose{
			ID:         doseID.String,
			MedicineID: mr.id,
			Date:       date,
			TimeLabel:  label.String,
			Taken:      taken.Int64 == 1,
			TakenAt:    fromNullUnix(takenAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Storage("list day", err)
	}
	return out, nil
}

func (r *MedicinesRepo) Archive(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE medicines SET archived = 1, archived_at = ? WHERE id = ? AND archived = 0`, toUnix(at), id)
	if err != nil {
		return errs.Storage("archive medicine", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFoundOrConflict
	}
	return nil
}

func (r *MedicinesRepo) Reactivate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE medicines SET archived = 0, archived_at = NULL WHERE id = ? AND archived = 1`, id)
	if err != nil {
		return errs.Storage("reactivate medicine", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFoundOrConflict
	}
	return nil
}

func (r *MedicinesRepo) Delete(ctx context.Context, id string) (name string, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", errs.Storage("begin delete medicine", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if e := tx.Commit(); e != nil {
			name, err = "", errs.Storage("commit delete medicine", e)
		}
	}()

	if err = tx.QueryRowContext(ctx, `SELECT name FROM medicines WHERE id = ?`, id).Scan(&name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", errs.ErrNotFound
		}
		return "", errs.Storage("get medicine", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM doses WHERE medicine_id = ?`, id); err != nil {
		return "", errs.Storage("delete doses", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM medicines WHERE id = ?`, id); err != nil {
		return "", errs.Storage("delete medicine", err)
	}
	return name, nil
}

// medicineRow son las columnas crudas de medicineColumns.
type medicineRow struct {
	id         string
	name       string
	frequency  int
	kind       string
	custom     sql.NullString
	preset     sql.NullString
	createdAt  int64
	archived   int
	archivedAt sql.NullInt64
}

func (mr *medicineRow) dest(extra ...any) []any {
	return append([]any{
		&mr.id, &mr.name, &mr.frequency, &mr.kind, &mr.custom, &mr.preset,
		&mr.createdAt, &mr.archived, &mr.archivedAt,
	}, extra...)
}

func (mr *medicineRow) medicine() (medicines.Medicine, error) {
	cfg, err := schedule.Decode(mr.kind, fromNullString(mr.custom), fromNullString(mr.preset))
	if err != nil {
		return medicines.Medicine{}, err
	}
	return medicines.Medicine{
		ID:         mr.id,
		Name:       mr.name,
		Frequency:  mr.frequency,
		Schedule:   cfg,
		CreatedAt:  fromUnix(mr.createdAt),
		Archived:   mr.archived == 1,
		ArchivedAt: fromNullUnix(mr.archivedAt),
	}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMedicine(s scanner) (medicines.Medicine, error) {
	var mr medicineRow
	if err := s.Scan(mr.dest()...); err != nil {
		return medicines.Medicine{}, err
	}
	return mr.medicine()
}
