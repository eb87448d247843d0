package doses

import (
	"context"
	"time"

	"daily-medicine-reminder/internal/errs"
	"daily-medicine-reminder/internal/platform/clock"
	"daily-medicine-reminder/internal/platform/metrics"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	msgPastDose   = "Cannot modify doses from past dates"
	msgFutureDose = "Cannot modify doses for future dates"
)

type Service struct {
	repo    Repository
	clock   *clock.Clock
	metrics *metrics.Collector
}

func NewService(repo Repository, clk *clock.Clock, m *metrics.Collector) *Service {
	if clk == nil {
		clk = clock.New(time.UTC)
	}
	return &Service{
		repo:    repo,
		clock:   clk,
		metrics: m,
	}
}

// SetTaken marca/desmarca una dosis. Sólo las dosis de hoy son editables:
// pasado o futuro => *errs.ForbiddenError, sin importar el valor de taken.
func (s *Service) SetTaken(ctx context.Context, id string, taken bool) (Dose, error) {
	ctx, span := tracer.Start(ctx, "doses.SetTaken", trace.WithAttributes(
		attribute.String("dose.id", id),
		attribute.Bool("dose.taken", taken),
	))
	defer span.End()

	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Dose{}, err
	}

	// YYYY-MM-DD compara bien como string.
	today := s.clock.Today()
	switch {
	case d.Date < today:
		return Dose{}, &errs.ForbiddenError{Reason: msgPastDose, Date: d.Date}
	case d.Date > today:
		return Dose{}, &errs.ForbiddenError{Reason: msgFutureDose, Date: d.Date}
	}

	var takenAt *time.Time
	if taken {
		now := s.clock.Now()
		takenAt = &now
	}

	if err := s.repo.SetTaken(ctx, id, taken, takenAt); err != nil {
		return Dose{}, err
	}

	d.Taken = taken
	d.TakenAt = takenAt
	s.metrics.DoseMarked(taken)
	return d, nil
}
