package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"daily-medicine-reminder/internal/domain/medicines"
	"daily-medicine-reminder/internal/domain/schedule"
	"daily-medicine-reminder/internal/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

var createdAt = time.Date(2025, 6, 18, 8, 0, 0, 0, time.UTC)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

func ptr[T any](v T) *T { return &v }

var medicineCols = []string{
	"id", "name", "frequency", "schedule_type", "custom_times", "preset_times", "created_at", "archived", "archived_at",
}

func aspirin() medicines.Medicine {
	return medicines.Medicine{
		ID:        "m-1",
		Name:      "Aspirin",
		Frequency: 2,
		Schedule:  schedule.Custom([]string{"08:00", "20:00"}),
		CreatedAt: createdAt,
	}
}

func TestMedicinesRepo_Create_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewMedicinesRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO medicines`).
		WithArgs("m-1", "Aspirin", 2, "custom", ptr(`["08:00","20:00"]`), (*string)(nil), createdAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO doses`).
		WithArgs("m-1", "2025-06-18", pgxmock.AnyArg(), []string{"08:00", "20:00"}).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	err := r.Create(context.Background(), aspirin(), "2025-06-18", []string{"08:00", "20:00"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMedicinesRepo_Create_RollsBackWhenDosesFail(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewMedicinesRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO medicines`).
		WithArgs("m-1", "Aspirin", 2, "custom", pgxmock.AnyArg(), pgxmock.AnyArg(), createdAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO doses`).
		WithArgs("m-1", "2025-06-18", pgxmock.AnyArg(), []string{"08:00", "20:00"}).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := r.Create(context.Background(), aspirin(), "2025-06-18", []string{"08:00", "20:00"})
	require.ErrorIs(t, err, errs.ErrStorage)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMedicinesRepo_Create_DuplicateID(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewMedicinesRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO medicines`).
		WithArgs("m-1", "Aspirin", 2, "custom", pgxmock.AnyArg(), pgxmock.AnyArg(), createdAt).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	err := r.Create(context.Background(), aspirin(), "2025-06-18", []string{"08:00", "20:00"})
	require.Error(t, err)
	require.NotErrorIs(t, err, errs.ErrStorage)
}

func TestMedicinesRepo_GetByID(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewMedicinesRepo(db)

	mock.ExpectQuery(`SELECT id, name, frequency.* FROM medicines WHERE id = \$1`).
		WithArgs("m-1").
		WillReturnRows(pgxmock.NewRows(medicineCols).
			AddRow("m-1", "Aspirin", 2, "preset", nil, ptr("morning-night"), createdAt, false, nil))

	m, err := r.GetByID(context.Background(), "m-1")
	require.NoError(t, err)
	require.Equal(t, "Aspirin", m.Name)
	require.Equal(t, schedule.KindPreset, m.Schedule.Kind())
	require.Equal(t, "morning-night", m.Schedule.PresetSelector())
	require.Nil(t, m.ArchivedAt)

	mock.ExpectQuery(`FROM medicines WHERE id = \$1`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetByID(context.Background(), "ghost")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestMedicinesRepo_ListDay_GroupsDoses(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewMedicinesRepo(db)

	cols := append(append([]string{}, medicineCols...), "dose_id", "time_label", "taken", "taken_at")
	takenAt := createdAt.Add(time.Hour)
	mock.ExpectQuery(`LEFT JOIN doses d ON d.medicine_id = m.id AND d.date = \$1`).
		WithArgs("2025-06-18").
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow("m-2", "Zinc", 1, "interval", nil, nil, createdAt.Add(time.Minute), false, nil,
				nil, nil, nil, nil).
			AddRow("m-1", "Aspirin", 2, "custom", ptr(`["08:00","20:00"]`), nil, createdAt, false, nil,
				ptr("d-1"), ptr("08:00"), ptr(true), &takenAt).
			AddRow("m-1", "Aspirin", 2, "custom", ptr(`["08:00","20:00"]`), nil, createdAt, false, nil,
				ptr("d-2"), ptr("20:00"), ptr(false), nil))

	day, err := r.ListDay(context.Background(), "2025-06-18")
	require.NoError(t, err)
	require.Len(t, day, 2)

	require.Equal(t, "m-2", day[0].Medicine.ID)
	require.Empty(t, day[0].Doses)
	require.NotNil(t, day[0].Doses)

	require.Equal(t, []string{"08:00", "20:00"}, day[1].Medicine.Schedule.CustomTimes())
	require.Len(t, day[1].Doses, 2)
	require.True(t, day[1].Doses[0].Taken)
	require.Equal(t, takenAt, *day[1].Doses[0].TakenAt)
	require.Equal(t, "2025-06-18", day[1].Doses[1].Date)
	require.Nil(t, day[1].Doses[1].TakenAt)
}

func TestMedicinesRepo_ArchiveAndReactivate(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewMedicinesRepo(db)
	at := createdAt.Add(24 * time.Hour)

	mock.ExpectExec(`UPDATE medicines SET archived = TRUE, archived_at = \$2 WHERE id = \$1 AND NOT archived`).
		WithArgs("m-1", at).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, r.Archive(context.Background(), "m-1", at))

	mock.ExpectExec(`UPDATE medicines SET archived = TRUE`).
		WithArgs("m-1", at).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	require.ErrorIs(t, r.Archive(context.Background(), "m-1", at), errs.ErrNotFoundOrConflict)

	mock.ExpectExec(`UPDATE medicines SET archived = FALSE, archived_at = NULL WHERE id = \$1 AND archived`).
		WithArgs("m-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	require.ErrorIs(t, r.Reactivate(context.Background(), "m-1"), errs.ErrNotFoundOrConflict)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMedicinesRepo_Delete_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewMedicinesRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT name FROM medicines WHERE id = \$1 FOR UPDATE`).
		WithArgs("m-1").
		WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow("Aspirin"))
	mock.ExpectExec(`DELETE FROM doses WHERE medicine_id = \$1`).
		WithArgs("m-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectExec(`DELETE FROM medicines WHERE id = \$1`).
		WithArgs("m-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	name, err := r.Delete(context.Background(), "m-1")
	require.NoError(t, err)
	require.Equal(t, "Aspirin", name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMedicinesRepo_Delete_NotFound(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewMedicinesRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT name FROM medicines WHERE id = \$1 FOR UPDATE`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := r.Delete(context.Background(), "ghost")
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
