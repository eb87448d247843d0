package doses

import (
	"context"
	"errors"
	"fmt"

	"daily-medicine-reminder/internal/errs"
	"daily-medicine-reminder/internal/platform/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("daily-medicine-reminder/internal/domain/doses")

// Materializer asegura que existan los slots de dosis de una fecha.
// Es idempotente: la unicidad (medicine_id, date, time_label) del storage
// hace que llamadas repetidas o concurrentes no dupliquen filas.
type Materializer struct {
	repo    Repository
	metrics *metrics.Collector
}

func NewMaterializer(repo Repository, m *metrics.Collector) *Materializer {
	return &Materializer{repo: repo, metrics: m}
}

// EnsureForDate no verifica archived: el caller sólo pasa medicinas activas.
func (m *Materializer) EnsureForDate(ctx context.Context, t Target, date string) error {
	ctx, span := tracer.Start(ctx, "doses.EnsureForDate", trace.WithAttributes(
		attribute.String("medicine.id", t.MedicineID),
		attribute.String("dose.date", date),
	))
	defer span.End()

	labels := t.Labels()
	if len(labels) == 0 {
		return nil
	}

	n, err := m.repo.InsertMissing(ctx, t.MedicineID, date, labels)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert missing doses")
		return fmt.Errorf("materialize %s on %s: %w", t.MedicineID, date, err)
	}
	span.SetAttributes(attribute.Int("doses.inserted", n))
	m.metrics.DosesMaterialized(n)
	return nil
}

// EnsureForAllActive aplica EnsureForDate a todas las medicinas no archivadas.
func (m *Materializer) EnsureForAllActive(ctx context.Context, date string) error {
	ctx, span := tracer.Start(ctx, "doses.EnsureForAllActive", trace.WithAttributes(
		attribute.String("dose.date", date),
	))
	defer span.End()

	targets, err := m.repo.ListActiveTargets(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list active medicines")
		return err
	}
	for _, t := range targets {
		if err := m.EnsureForDate(ctx, t, date); err != nil {
			// Borrada entre ListActiveTargets y el insert: ya no hay nada que materializar.
			if errors.Is(err, errs.ErrNotFound) {
				span.AddEvent("medicine gone", trace.WithAttributes(attribute.String("medicine.id", t.MedicineID)))
				continue
			}
			return err
		}
	}
	return nil
}
