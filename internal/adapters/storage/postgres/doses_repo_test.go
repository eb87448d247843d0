package postgres

import (
	"context"
	"testing"
	"time"

	"daily-medicine-reminder/internal/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

func TestDosesRepo_InsertMissing(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewDosesRepo(db)

	mock.ExpectExec(`ON CONFLICT \(medicine_id, date, time_label\) DO NOTHING`).
		WithArgs("m-1", "2025-06-18", pgxmock.AnyArg(), []string{"Morning", "Night"}).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	n, err := r.InsertMissing(context.Background(), "m-1", "2025-06-18", []string{"Morning", "Night"})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	// sin labels no hay query
	n, err = r.InsertMissing(context.Background(), "m-1", "2025-06-18", nil)
	require.NoError(t, err)
	require.Zero(t, n)

	mock.ExpectExec(`INSERT INTO doses`).
		WithArgs("ghost", "2025-06-18", pgxmock.AnyArg(), []string{"Morning"}).
		WillReturnError(&pgconn.PgError{Code: "23503"})
	_, err = r.InsertMissing(context.Background(), "ghost", "2025-06-18", []string{"Morning"})
	require.ErrorIs(t, err, errs.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDosesRepo_GetByID(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewDosesRepo(db)

	cols := []string{"id", "medicine_id", "date", "time_label", "taken", "taken_at", "name"}
	mock.ExpectQuery(`JOIN medicines m ON m.id = d.medicine_id`).
		WithArgs("d-1").
		WillReturnRows(pgxmock.NewRows(cols).AddRow("d-1", "m-1", "2025-06-18", "Morning", false, nil, "Aspirin"))

	d, err := r.GetByID(context.Background(), "d-1")
	require.NoError(t, err)
	require.Equal(t, "Aspirin", d.MedicineName)
	require.False(t, d.Taken)
	require.Nil(t, d.TakenAt)

	mock.ExpectQuery(`FROM doses d`).WithArgs("ghost").WillReturnError(pgx.ErrNoRows)
	_, err = r.GetByID(context.Background(), "ghost")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestDosesRepo_SetTaken(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewDosesRepo(db)
	now := time.Date(2025, 6, 18, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE doses SET taken = \$2, taken_at = \$3 WHERE id = \$1`).
		WithArgs("d-1", true, &now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, r.SetTaken(context.Background(), "d-1", true, &now))

	// taken=false siempre limpia taken_at
	mock.ExpectExec(`UPDATE doses SET taken`).
		WithArgs("d-1", false, (*time.Time)(nil)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, r.SetTaken(context.Background(), "d-1", false, &now))

	mock.ExpectExec(`UPDATE doses SET taken`).
		WithArgs("ghost", true, &now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	require.ErrorIs(t, r.SetTaken(context.Background(), "ghost", true, &now), errs.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDosesRepo_ListActiveTargets(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewDosesRepo(db)

	mock.ExpectQuery(`FROM medicines\s+WHERE NOT archived`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "frequency", "schedule_type", "custom_times", "preset_times"}).
			AddRow("m-1", 2, "preset", nil, nil).
			AddRow("m-2", 3, "custom", ptr("07:00, 13:00,21:00"), nil))

	targets, err := r.ListActiveTargets(context.Background())
	require.NoError(t, err)
	require.Len(t, targets, 2)
	require.Equal(t, []string{"Morning", "Night"}, targets[0].Labels())
	require.Equal(t, []string{"07:00", "13:00", "21:00"}, targets[1].Labels())
}
