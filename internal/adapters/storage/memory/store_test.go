package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"daily-medicine-reminder/internal/domain/medicines"
	"daily-medicine-reminder/internal/domain/schedule"
	"daily-medicine-reminder/internal/errs"
)

var t0 = time.Date(2025, 6, 18, 8, 0, 0, 0, time.UTC)

func seedMedicine(t *testing.T, s *Store, id, name string, createdAt time.Time, labels ...string) {
	t.Helper()
	m := medicines.Medicine{
		ID:        id,
		Name:      name,
		Frequency: len(labels),
		Schedule:  schedule.Custom(labels),
		CreatedAt: createdAt,
	}
	if err := NewMedicinesRepo(s).Create(context.Background(), m, "2025-06-18", labels); err != nil {
		t.Fatalf("seed %s: %v", id, err)
	}
}

func TestInsertMissing_SkipsExistingSlots(t *testing.T) {
	s := NewStore()
	seedMedicine(t, s, "m-1", "Aspirin", t0, "08:00", "20:00")
	r := NewDosesRepo(s)

	n, err := r.InsertMissing(context.Background(), "m-1", "2025-06-18", []string{"08:00", "20:00", "22:00"})
	if err != nil {
		t.Fatalf("InsertMissing: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 new slot, got %d", n)
	}
	if _, err := r.InsertMissing(context.Background(), "ghost", "2025-06-18", []string{"08:00"}); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown medicine, got %v", err)
	}
}

func TestSetTaken_ClearsTakenAt(t *testing.T) {
	s := NewStore()
	seedMedicine(t, s, "m-1", "Aspirin", t0, "08:00")
	r := NewDosesRepo(s)
	day, _ := NewMedicinesRepo(s).ListDay(context.Background(), "2025-06-18")
	id := day[0].Doses[0].ID

	now := t0
	if err := r.SetTaken(context.Background(), id, true, &now); err != nil {
		t.Fatalf("SetTaken: %v", err)
	}
	d, _ := r.GetByID(context.Background(), id)
	if !d.Taken || d.TakenAt == nil || d.MedicineName != "Aspirin" {
		t.Fatalf("unexpected dose: %+v", d)
	}

	// taken=false nunca guarda taken_at aunque venga uno.
	if err := r.SetTaken(context.Background(), id, false, &now); err != nil {
		t.Fatalf("SetTaken: %v", err)
	}
	d, _ = r.GetByID(context.Background(), id)
	if d.Taken || d.TakenAt != nil {
		t.Fatalf("expected cleared dose, got %+v", d)
	}

	if err := r.SetTaken(context.Background(), "missing", true, &now); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListActiveTargets_SkipsArchived(t *testing.T) {
	s := NewStore()
	seedMedicine(t, s, "m-1", "A", t0, "08:00")
	seedMedicine(t, s, "m-2", "B", t0, "09:00")
	if err := NewMedicinesRepo(s).Archive(context.Background(), "m-1", t0); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	targets, err := NewDosesRepo(s).ListActiveTargets(context.Background())
	if err != nil {
		t.Fatalf("ListActiveTargets: %v", err)
	}
	if len(targets) != 1 || targets[0].MedicineID != "m-2" {
		t.Fatalf("unexpected targets: %+v", targets)
	}
}

func TestAdherenceTotals(t *testing.T) {
	s := NewStore()
	seedMedicine(t, s, "m-1", "Zinc", t0, "08:00", "20:00")
	seedMedicine(t, s, "m-2", "Aspirin", t0.Add(time.Hour), "09:00")
	dr := NewDosesRepo(s)
	if _, err := dr.InsertMissing(context.Background(), "m-1", "2025-06-17", []string{"08:00"}); err != nil {
		t.Fatalf("InsertMissing: %v", err)
	}

	day, _ := NewMedicinesRepo(s).ListDay(context.Background(), "2025-06-18")
	now := t0
	for _, e := range day {
		if e.Medicine.ID == "m-1" {
			_ = dr.SetTaken(context.Background(), e.Doses[0].ID, true, &now)
		}
	}

	ar := NewAdherenceRepo(s)

	totals, err := ar.MedicineTotals(context.Background())
	if err != nil {
		t.Fatalf("MedicineTotals: %v", err)
	}
	if totals[0].MedicineID != "m-2" {
		t.Fatalf("expected newest first, got %s", totals[0].MedicineID)
	}
	if totals[1].FirstDoseDate != "2025-06-17" || totals[1].TakenDoses != 1 {
		t.Fatalf("unexpected totals: %+v", totals[1])
	}

	daily, err := ar.DailyTotals(context.Background(), "2025-06-01", "2025-07-01")
	if err != nil {
		t.Fatalf("DailyTotals: %v", err)
	}
	if len(daily) != 2 || daily[0].Date != "2025-06-17" || daily[1].Total != 3 || daily[1].Taken != 1 {
		t.Fatalf("unexpected daily totals: %+v", daily)
	}

	period, err := ar.PeriodTotals(context.Background(), "2025-06-18", "2025-06-18")
	if err != nil {
		t.Fatalf("PeriodTotals: %v", err)
	}
	if period[0].Name != "Aspirin" || period[1].Total != 2 || period[1].Taken != 1 {
		t.Fatalf("unexpected period totals: %+v", period)
	}
}

func TestDelete_RemovesSlotsSoRecreateWorks(t *testing.T) {
	s := NewStore()
	seedMedicine(t, s, "m-1", "A", t0, "08:00")
	mr := NewMedicinesRepo(s)

	if _, err := mr.Delete(context.Background(), "m-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(s.doses) != 0 || len(s.slots) != 0 {
		t.Fatalf("expected cascade, got %d doses %d slots", len(s.doses), len(s.slots))
	}
	seedMedicine(t, s, "m-1", "A", t0, "08:00")
	if len(s.doses) != 1 {
		t.Fatalf("expected recreated slot")
	}
}
