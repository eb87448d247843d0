package adherence

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"daily-medicine-reminder/internal/errs"
	"daily-medicine-reminder/internal/platform/clock"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("daily-medicine-reminder/internal/domain/adherence")

type Service struct {
	repo  Repository
	clock *clock.Clock
}

func NewService(repo Repository, clk *clock.Clock) *Service {
	if clk == nil {
		clk = clock.New(time.UTC)
	}
	return &Service{repo: repo, clock: clk}
}

// Statistics calcula la adherencia de toda la vida de cada medicina.
// Inicio: primera dosis registrada (o fecha de alta). Fin: fecha de archivo
// o hoy. Las tomadas se cuentan sin acotar a la ventana.
func (s *Service) Statistics(ctx context.Context) ([]MedicineStats, error) {
	ctx, span := tracer.Start(ctx, "adherence.Statistics")
	defer span.End()

	rows, err := s.repo.MedicineTotals(ctx)
	if err != nil {
		return nil, err
	}

	today := s.clock.Today()
	out := make([]MedicineStats, 0, len(rows))
	for _, r := range rows {
		start := r.FirstDoseDate
		if start == "" {
			start = s.clock.DateOf(r.CreatedAt)
		}
		end := today
		status := "active"
		if r.Archived {
			status = "archived"
			if r.ArchivedAt != nil {
				end = s.clock.DateOf(*r.ArchivedAt)
			}
		}

		days, err := clock.DaysBetween(start, end)
		if err != nil {
			return nil, fmt.Errorf("statistics for %s: %w", r.MedicineID, err)
		}
		totalDays := max(days+1, 0)
		expected := totalDays * r.Frequency

		out = append(out, MedicineStats{
			ID:                  r.MedicineID,
			Name:                r.Name,
			Frequency:           r.Frequency,
			Status:              status,
			StartDate:           start,
			EndDate:             end,
			TotalDays:           totalDays,
			ExpectedDoses:       expected,
			TakenDoses:          r.TakenDoses,
			MissedDoses:         max(expected-r.TakenDoses, 0),
			AdherencePercentage: Percentage(r.TakenDoses, expected),
		})
	}
	return out, nil
}

// Calendar agrupa las dosis del mes por fecha.
func (s *Service) Calendar(ctx context.Context, year, month int) (Calendar, error) {
	if year < clock.MinYear || year > clock.MaxYear {
		return nil, errs.Invalid("year", fmt.Sprintf("Year must be between %d and %d", clock.MinYear, clock.MaxYear))
	}
	if month < 1 || month > 12 {
		return nil, errs.Invalid("month", "Month must be between 1 and 12")
	}

	ctx, span := tracer.Start(ctx, "adherence.Calendar", trace.WithAttributes(
		attribute.Int("calendar.year", year),
		attribute.Int("calendar.month", month),
	))
	defer span.End()

	from, to := clock.MonthRange(year, month)
	rows, err := s.repo.DailyTotals(ctx, from, to)
	if err != nil {
		return nil, err
	}

	out := make(Calendar, len(rows))
	for _, r := range rows {
		out[r.Date] = DayStats{
			Total:      r.Total,
			Taken:      r.Taken,
			Percentage: Percentage(r.Taken, r.Total),
		}
	}
	return out, nil
}

// ParsePeriod: "" => week.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PeriodWeek, nil
	case PeriodWeek, PeriodMonth:
		return p, nil
	default:
		return "", errs.Invalid("period", "Period must be either week or month")
	}
}

// Period suma dosis por medicina en [inicio del período, hoy]. La semana
// empieza el domingo; el mes, el día 1.
func (s *Service) Period(ctx context.Context, p Period) ([]PeriodStats, error) {
	ctx, span := tracer.Start(ctx, "adherence.Period", trace.WithAttributes(attribute.String("period", string(p))))
	defer span.End()

	today := s.clock.Today()
	var (
		from string
		err  error
	)
	switch p {
	case PeriodWeek:
		from, err = clock.WeekStart(today)
	case PeriodMonth:
		from, err = clock.MonthStart(today)
	default:
		return nil, errs.Invalid("period", "Period must be either week or month")
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.PeriodTotals(ctx, from, today)
	if err != nil {
		return nil, err
	}

	out := make([]PeriodStats, 0, len(rows))
	for _, r := range rows {
		out = append(out, PeriodStats{
			ID:         r.MedicineID,
			Name:       r.Name,
			Frequency:  r.Frequency,
			Taken:      r.Taken,
			Total:      r.Total,
			Percentage: Percentage(r.Taken, r.Total),
		})
	}
	return out, nil
}

// Percentage redondea al entero más cercano; 0/0 es 0.
func Percentage(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
