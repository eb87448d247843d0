package medicines_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"daily-medicine-reminder/internal/adapters/storage/memory"
	"daily-medicine-reminder/internal/domain/adherence"
	"daily-medicine-reminder/internal/domain/doses"
	"daily-medicine-reminder/internal/domain/medicines"
	"daily-medicine-reminder/internal/errs"
	"daily-medicine-reminder/internal/platform/clock"
)

type fixture struct {
	clk       *clock.Clock
	medicines *medicines.Service
	doses     *doses.Service
	adherence *adherence.Service
	doseRepo  doses.Repository
	medRepo   medicines.Repository
}

func newFixture(now time.Time) *fixture {
	store := memory.NewStore()
	clk := clock.Fixed(now, time.UTC)
	doseRepo := memory.NewDosesRepo(store)
	medRepo := memory.NewMedicinesRepo(store)
	mat := doses.NewMaterializer(doseRepo, nil)

	return &fixture{
		clk:       clk,
		medicines: medicines.NewService(medRepo, mat, clk, nil),
		doses:     doses.NewService(doseRepo, clk, nil),
		adherence: adherence.NewService(memory.NewAdherenceRepo(store), clk),
		doseRepo:  doseRepo,
		medRepo:   medRepo,
	}
}

var day1 = time.Date(2025, 6, 18, 9, 0, 0, 0, time.UTC)

func labels(ds []doses.Dose) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.TimeLabel)
	}
	return out
}

func todayEntry(t *testing.T, f *fixture, id string) medicines.DayEntry {
	t.Helper()
	entries, err := f.medicines.ListForDate(context.Background(), "")
	if err != nil {
		t.Fatalf("ListForDate: %v", err)
	}
	for _, e := range entries {
		if e.Medicine.ID == id {
			return e
		}
	}
	t.Fatalf("medicine %s not in today's view", id)
	return medicines.DayEntry{}
}

func TestAspirinScenario(t *testing.T) {
	f := newFixture(day1)
	ctx := context.Background()

	m, err := f.medicines.Create(ctx, medicines.CreateInput{
		Name:         "Aspirin",
		Frequency:    2,
		ScheduleType: "preset",
		PresetTimes:  "morning-night",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	e := todayEntry(t, f, m.ID)
	if got := strings.Join(labels(e.Doses), ","); got != "Morning,Night" {
		t.Fatalf("expected Morning,Night, got %s", got)
	}
	if e.Medicine.Archived {
		t.Fatalf("expected active medicine")
	}

	d, err := f.doses.SetTaken(ctx, e.Doses[0].ID, true)
	if err != nil {
		t.Fatalf("SetTaken: %v", err)
	}
	if !d.Taken || d.TakenAt == nil || d.MedicineName != "Aspirin" {
		t.Fatalf("unexpected dose: %+v", d)
	}

	stats, err := f.adherence.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("expected 1 stats row, got %d", len(stats))
	}
	if s := stats[0]; s.ExpectedDoses != 2 || s.TakenDoses != 1 || s.AdherencePercentage != 50 {
		t.Fatalf("unexpected stats: %+v", s)
	}
}

func TestCreate_CustomCountMismatchWritesNothing(t *testing.T) {
	f := newFixture(day1)

	_, err := f.medicines.Create(context.Background(), medicines.CreateInput{
		Name:         "Metformin",
		Frequency:    4,
		ScheduleType: "custom",
		CustomTimes:  []string{"08:00", "14:00", "20:00"},
	})
	if !errs.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	all, _ := f.medicines.ListAll(context.Background())
	if len(all) != 0 {
		t.Fatalf("expected no rows written, got %d", len(all))
	}
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(day1)
	cases := []medicines.CreateInput{
		{Name: "   ", Frequency: 1, ScheduleType: "interval"},
		{Name: "A", Frequency: 0, ScheduleType: "interval"},
		{Name: "A", Frequency: 5, ScheduleType: "interval"},
		{Name: "A", Frequency: 1, ScheduleType: "weekly"},
		{Name: "A", Frequency: 1, ScheduleType: "custom", CustomTimes: []string{"25:00"}},
		{Name: "A", Frequency: 2, ScheduleType: "preset", PresetTimes: "morning"},
	}
	for i, in := range cases {
		if _, err := f.medicines.Create(context.Background(), in); !errs.IsValidation(err) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestCreate_TruncatesLongName(t *testing.T) {
	f := newFixture(day1)
	m, err := f.medicines.Create(context.Background(), medicines.CreateInput{
		Name:         "  " + strings.Repeat("x", 150) + "  ",
		Frequency:    1,
		ScheduleType: "interval",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(m.Name) != medicines.MaxNameLength {
		t.Fatalf("expected name truncated to %d, got %d", medicines.MaxNameLength, len(m.Name))
	}
}

func TestCreate_CustomTimesKeepOrder(t *testing.T) {
	f := newFixture(day1)
	m, err := f.medicines.Create(context.Background(), medicines.CreateInput{
		Name:         "Insulin",
		Frequency:    3,
		ScheduleType: "custom",
		CustomTimes:  []string{"20:00", "08:00", " ", "13:30"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	e := todayEntry(t, f, m.ID)
	if got := strings.Join(labels(e.Doses), ","); got != "20:00,08:00,13:30" {
		t.Fatalf("doses must follow the medicine's own schedule order, got %s", got)
	}
}

func TestArchiveReactivate(t *testing.T) {
	f := newFixture(day1)
	ctx := context.Background()

	m, err := f.medicines.Create(ctx, medicines.CreateInput{Name: "Zinc", Frequency: 1, ScheduleType: "interval"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := f.medicines.Archive(ctx, m.ID); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if err := f.medicines.Archive(ctx, m.ID); !errors.Is(err, errs.ErrNotFoundOrConflict) {
		t.Fatalf("second archive: expected ErrNotFoundOrConflict, got %v", err)
	}

	got, _ := f.medicines.GetByID(ctx, m.ID)
	if !got.Archived || got.ArchivedAt == nil {
		t.Fatalf("archived flags inconsistent: %+v", got)
	}

	// Archivada: no aparece en la vista del día.
	entries, _ := f.medicines.ListForDate(ctx, "")
	if len(entries) != 0 {
		t.Fatalf("archived medicine must not appear in day view")
	}

	if err := f.medicines.Reactivate(ctx, m.ID); err != nil {
		t.Fatalf("Reactivate: %v", err)
	}
	if err := f.medicines.Reactivate(ctx, m.ID); !errors.Is(err, errs.ErrNotFoundOrConflict) {
		t.Fatalf("second reactivate: expected ErrNotFoundOrConflict, got %v", err)
	}

	got, _ = f.medicines.GetByID(ctx, m.ID)
	if got.Archived || got.ArchivedAt != nil {
		t.Fatalf("reactivated flags inconsistent: %+v", got)
	}
	if e := todayEntry(t, f, m.ID); len(e.Doses) != 1 {
		t.Fatalf("expected today's dose after reactivation, got %d", len(e.Doses))
	}
}

// deletedAfterReactivate borra la medicina apenas se reactiva, como un
// DELETE concurrente que gana la carrera.
type deletedAfterReactivate struct {
	medicines.Repository
}

func (r deletedAfterReactivate) Reactivate(ctx context.Context, id string) error {
	if err := r.Repository.Reactivate(ctx, id); err != nil {
		return err
	}
	_, err := r.Repository.Delete(ctx, id)
	return err
}

func TestReactivate_ConcurrentDeleteIsNotAnError(t *testing.T) {
	f := newFixture(day1)
	ctx := context.Background()

	m, err := f.medicines.Create(ctx, medicines.CreateInput{Name: "Zinc", Frequency: 1, ScheduleType: "interval"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := f.medicines.Archive(ctx, m.ID); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	svc := medicines.NewService(deletedAfterReactivate{f.medRepo}, doses.NewMaterializer(f.doseRepo, nil), f.clk, nil)
	if err := svc.Reactivate(ctx, m.ID); err != nil {
		t.Fatalf("Reactivate: %v", err)
	}
	if _, err := f.medicines.GetByID(ctx, m.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected medicine gone, got %v", err)
	}
}

func TestReactivate_RecreatesTodayAfterArchivedGap(t *testing.T) {
	// Alta el 18, archivada, reactivada el 20: las dosis del 20 existen sin
	// pasar por la vista del día.
	store := memory.NewStore()
	doseRepo := memory.NewDosesRepo(store)
	medRepo := memory.NewMedicinesRepo(store)
	ctx := context.Background()

	clk1 := clock.Fixed(day1, time.UTC)
	svc1 := medicines.NewService(medRepo, doses.NewMaterializer(doseRepo, nil), clk1, nil)
	m, err := svc1.Create(ctx, medicines.CreateInput{Name: "Zinc", Frequency: 2, ScheduleType: "interval"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc1.Archive(ctx, m.ID); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	clk3 := clock.Fixed(day1.AddDate(0, 0, 2), time.UTC)
	svc3 := medicines.NewService(medRepo, doses.NewMaterializer(doseRepo, nil), clk3, nil)
	if err := svc3.Reactivate(ctx, m.ID); err != nil {
		t.Fatalf("Reactivate: %v", err)
	}

	entries, err := medRepo.ListDay(ctx, "2025-06-20")
	if err != nil {
		t.Fatalf("ListDay: %v", err)
	}
	if len(entries) != 1 || len(entries[0].Doses) != 2 {
		t.Fatalf("expected 2 doses on 2025-06-20, got %+v", entries)
	}
}

func TestArchive_Missing(t *testing.T) {
	f := newFixture(day1)
	if err := f.medicines.Archive(context.Background(), "nope"); !errors.Is(err, errs.ErrNotFoundOrConflict) {
		t.Fatalf("expected ErrNotFoundOrConflict, got %v", err)
	}
	if err := f.medicines.Reactivate(context.Background(), "nope"); !errors.Is(err, errs.ErrNotFoundOrConflict) {
		t.Fatalf("expected ErrNotFoundOrConflict, got %v", err)
	}
}

func TestDelete_CascadesToDoses(t *testing.T) {
	f := newFixture(day1)
	ctx := context.Background()

	m, err := f.medicines.Create(ctx, medicines.CreateInput{Name: "Aspirin", Frequency: 4, ScheduleType: "interval"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	e := todayEntry(t, f, m.ID)
	if len(e.Doses) != 4 {
		t.Fatalf("expected 4 doses, got %d", len(e.Doses))
	}

	name, err := f.medicines.Delete(ctx, m.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if name != "Aspirin" {
		t.Fatalf("expected deleted name, got %q", name)
	}

	for _, d := range e.Doses {
		if _, err := f.doseRepo.GetByID(ctx, d.ID); !errors.Is(err, errs.ErrNotFound) {
			t.Fatalf("dose %s survived delete: %v", d.ID, err)
		}
	}
	if _, err := f.medicines.Delete(ctx, m.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestListAll_ActiveFirstThenNewest(t *testing.T) {
	store := memory.NewStore()
	doseRepo := memory.NewDosesRepo(store)
	medRepo := memory.NewMedicinesRepo(store)
	ctx := context.Background()

	create := func(name string, at time.Time) medicines.Medicine {
		svc := medicines.NewService(medRepo, doses.NewMaterializer(doseRepo, nil), clock.Fixed(at, time.UTC), nil)
		m, err := svc.Create(ctx, medicines.CreateInput{Name: name, Frequency: 1, ScheduleType: "interval"})
		if err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
		return m
	}
	a := create("A", day1)
	create("B", day1.Add(time.Hour))
	create("C", day1.Add(2*time.Hour))

	svc := medicines.NewService(medRepo, doses.NewMaterializer(doseRepo, nil), clock.Fixed(day1, time.UTC), nil)
	// C es la más nueva; al archivarla va al final.
	all, _ := svc.ListAll(ctx)
	if all[0].Name != "C" {
		t.Fatalf("expected newest first, got %s", all[0].Name)
	}
	if err := svc.Archive(ctx, all[0].ID); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	all, _ = svc.ListAll(ctx)
	got := []string{all[0].Name, all[1].Name, all[2].Name}
	if strings.Join(got, "") != "BAC" {
		t.Fatalf("expected B,A,C got %v", got)
	}
	if all[1].ID != a.ID {
		t.Fatalf("unexpected order")
	}
}

func TestListForDate_OtherDatesDoNotMaterialize(t *testing.T) {
	f := newFixture(day1)
	ctx := context.Background()

	if _, err := f.medicines.Create(ctx, medicines.CreateInput{Name: "Zinc", Frequency: 1, ScheduleType: "interval"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, date := range []string{"2025-06-17", "2025-06-19"} {
		entries, err := f.medicines.ListForDate(ctx, date)
		if err != nil {
			t.Fatalf("ListForDate(%s): %v", date, err)
		}
		if len(entries) != 1 || len(entries[0].Doses) != 0 {
			t.Fatalf("%s: expected medicine with no doses, got %+v", date, entries)
		}
	}
}

func TestListForDate_ExplicitTodayMaterializesMissing(t *testing.T) {
	f := newFixture(day1)
	ctx := context.Background()

	m, err := f.medicines.Create(ctx, medicines.CreateInput{Name: "Zinc", Frequency: 2, ScheduleType: "interval"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	// Medicina activa sin dosis de hoy (cargada directo en el repo).
	if err := f.medRepo.Create(ctx, medicines.Medicine{
		ID: "legacy", Name: "Legacy", Frequency: 1, Schedule: m.Schedule, CreatedAt: day1,
	}, "2025-06-18", nil); err != nil {
		t.Fatalf("seed: %v", err)
	}

	entries, err := f.medicines.ListForDate(ctx, "2025-06-18")
	if err != nil {
		t.Fatalf("ListForDate: %v", err)
	}
	for _, e := range entries {
		if e.Medicine.ID == "legacy" && len(e.Doses) != 1 {
			t.Fatalf("expected materialized dose for legacy medicine, got %d", len(e.Doses))
		}
	}
}

func TestListForDate_InvalidDate(t *testing.T) {
	f := newFixture(day1)
	for _, d := range []string{"2025-6-18", "2025-02-30", "2019-12-31", "2031-01-01", "yesterday"} {
		if _, err := f.medicines.ListForDate(context.Background(), d); !errs.IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", d, err)
		}
	}
}
