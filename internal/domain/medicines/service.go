package medicines

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"daily-medicine-reminder/internal/domain/doses"
	"daily-medicine-reminder/internal/domain/schedule"
	"daily-medicine-reminder/internal/errs"
	"daily-medicine-reminder/internal/platform/clock"
	"daily-medicine-reminder/internal/platform/metrics"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("daily-medicine-reminder/internal/domain/medicines")

type Service struct {
	repo    Repository
	mat     *doses.Materializer
	clock   *clock.Clock
	metrics *metrics.Collector
}

func NewService(repo Repository, mat *doses.Materializer, clk *clock.Clock, m *metrics.Collector) *Service {
	if clk == nil {
		clk = clock.New(time.UTC)
	}
	return &Service{
		repo:    repo,
		mat:     mat,
		clock:   clk,
		metrics: m,
	}
}

type CreateInput struct {
	Name         string
	Frequency    int
	ScheduleType string
	CustomTimes  []string // sólo custom
	PresetTimes  string   // sólo preset
}

// SanitizeName hace trim y corta a MaxNameLength runas.
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) <= MaxNameLength {
		return name
	}
	return strings.TrimSpace(string([]rune(name)[:MaxNameLength]))
}

// Create valida, persiste y materializa las dosis de hoy en una sola unidad.
// Cualquier ValidationError se devuelve antes de escribir nada.
func (s *Service) Create(ctx context.Context, in CreateInput) (Medicine, error) {
	ctx, span := tracer.Start(ctx, "medicines.Create")
	defer span.End()

	name := SanitizeName(in.Name)
	if name == "" {
		return Medicine{}, errs.Invalid("name", "Medicine name must be 1-100 characters")
	}

	kind, err := schedule.ParseKind(in.ScheduleType)
	if err != nil {
		return Medicine{}, err
	}
	cfg := schedule.Build(kind, in.CustomTimes, in.PresetTimes)
	if err := schedule.Validate(in.Frequency, cfg); err != nil {
		return Medicine{}, err
	}

	now := s.clock.Now()
	m := Medicine{
		ID:        uuid.NewString(),
		Name:      name,
		Frequency: in.Frequency,
		Schedule:  cfg,
		CreatedAt: now,
	}

	if err := s.repo.Create(ctx, m, s.clock.DateOf(now), schedule.Expand(m.Frequency, m.Schedule)); err != nil {
		return Medicine{}, err
	}

	span.SetAttributes(attribute.String("medicine.id", m.ID))
	s.metrics.MedicineLifecycle("create")
	return m, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Medicine, error) {
	return s.repo.GetByID(ctx, id)
}

// Archive no toca las dosis existentes; sólo deja de generar nuevas.
func (s *Service) Archive(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "medicines.Archive", trace.WithAttributes(attribute.String("medicine.id", id)))
	defer span.End()

	if err := s.repo.Archive(ctx, id, s.clock.Now()); err != nil {
		return err
	}
	s.metrics.MedicineLifecycle("archive")
	return nil
}

// Reactivate vuelve a activar y materializa hoy de inmediato.
func (s *Service) Reactivate(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "medicines.Reactivate", trace.WithAttributes(attribute.String("medicine.id", id)))
	defer span.End()

	if err := s.repo.Reactivate(ctx, id); err != nil {
		return err
	}
	s.metrics.MedicineLifecycle("reactivate")

	// ErrNotFound acá significa que un Delete concurrente ganó después del
	// update: la reactivación ya ocurrió y no quedan dosis que crear.
	m, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reactivated but reload failed: %w", err)
	}
	err = s.mat.EnsureForDate(ctx, m.Target(), s.clock.Today())
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return fmt.Errorf("reactivated but failed to create today's doses: %w", err)
	}
	return nil
}

// Delete es irreversible: borra la medicina y todas sus dosis.
func (s *Service) Delete(ctx context.Context, id string) (string, error) {
	ctx, span := tracer.Start(ctx, "medicines.Delete", trace.WithAttributes(attribute.String("medicine.id", id)))
	defer span.End()

	name, err := s.repo.Delete(ctx, id)
	if err != nil {
		return "", err
	}
	s.metrics.MedicineLifecycle("delete")
	return name, nil
}

func (s *Service) ListAll(ctx context.Context) ([]Medicine, error) {
	ctx, span := tracer.Start(ctx, "medicines.ListAll")
	defer span.End()

	return s.repo.ListAll(ctx)
}

// ListForDate devuelve la vista del día. date vacío = hoy.
// Sólo se materializa cuando date es hoy; otras fechas son de lectura.
func (s *Service) ListForDate(ctx context.Context, date string) ([]DayEntry, error) {
	today := s.clock.Today()
	if strings.TrimSpace(date) == "" {
		date = today
	}

	ctx, span := tracer.Start(ctx, "medicines.ListForDate", trace.WithAttributes(attribute.String("dose.date", date)))
	defer span.End()

	if err := ValidateDate(date); err != nil {
		return nil, err
	}

	if date == today && s.mat != nil {
		if err := s.mat.EnsureForAllActive(ctx, today); err != nil {
			return nil, err
		}
	}

	entries, err := s.repo.ListDay(ctx, date)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		orderDoses(entries[i].Medicine, entries[i].Doses)
	}
	return entries, nil
}

// ValidateDate acepta YYYY-MM-DD, fecha real, año dentro del rango soportado.
func ValidateDate(date string) error {
	if len(date) != len(clock.DateLayout) {
		return errs.Invalid("date", "Date must be in YYYY-MM-DD format")
	}
	d, err := clock.ParseDate(date)
	if err != nil {
		return errs.Invalid("date", "Date must be in YYYY-MM-DD format")
	}
	if d.Year() < clock.MinYear || d.Year() > clock.MaxYear {
		return errs.Invalid("date", fmt.Sprintf("Year must be between %d and %d", clock.MinYear, clock.MaxYear))
	}
	return nil
}

// orderDoses ordena según el orden del schedule de la medicina
// (Morning antes que Noon, ...). Labels fuera del schedule van al final.
func orderDoses(m Medicine, ds []doses.Dose) {
	rank := map[string]int{}
	for i, l := range schedule.Expand(m.Frequency, m.Schedule) {
		rank[l] = i
	}
	sort.SliceStable(ds, func(i, j int) bool {
		ri, iok := rank[ds[i].TimeLabel]
		rj, jok := rank[ds[j].TimeLabel]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return ds[i].TimeLabel < ds[j].TimeLabel
		}
	})
}
