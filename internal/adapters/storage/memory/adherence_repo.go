package memory

import (
	"context"
	"sort"

	"daily-medicine-reminder/internal/domain/adherence"
	"daily-medicine-reminder/internal/domain/medicines"
)

type adherenceRepo struct {
	s *Store
}

func NewAdherenceRepo(s *Store) adherence.Repository {
	return &adherenceRepo{s: s}
}

func (r *adherenceRepo) MedicineTotals(ctx context.Context) ([]adherence.MedicineTotals, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ms := r.sortedLocked(func(a, b medicines.Medicine) bool {
		if a.Archived != b.Archived {
			return !a.Archived
		}
		return r.s.newerFirst(a, b)
	})

	byID := make(map[string]*adherence.MedicineTotals, len(ms))
	out := make([]adherence.MedicineTotals, len(ms))
	for i, m := range ms {
		out[i] = adherence.MedicineTotals{
			MedicineID: m.ID,
			Name:       m.Name,
			Frequency:  m.Frequency,
			CreatedAt:  m.CreatedAt,
			Archived:   m.Archived,
			ArchivedAt: copyTime(m.ArchivedAt),
		}
		byID[m.ID] = &out[i]
	}

	for _, d := range r.s.doses {
		t, ok := byID[d.MedicineID]
		if !ok {
			continue
		}
		if d.Taken {
			t.TakenDoses++
		}
		if t.FirstDoseDate == "" || d.Date < t.FirstDoseDate {
			t.FirstDoseDate = d.Date
		}
	}
	return out, nil
}

func (r *adherenceRepo) DailyTotals(ctx context.Context, from, toExclusive string) ([]adherence.DayTotals, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	byDate := map[string]*adherence.DayTotals{}
	for _, d := range r.s.doses {
		if d.Date < from || d.Date >= toExclusive {
			continue
		}
		t, ok := byDate[d.Date]
		if !ok {
			t = &adherence.DayTotals{Date: d.Date}
			byDate[d.Date] = t
		}
		t.Total++
		if d.Taken {
			t.Taken++
		}
	}

	out := make([]adherence.DayTotals, 0, len(byDate))
	for _, t := range byDate {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (r *adherenceRepo) PeriodTotals(ctx context.Context, from, to string) ([]adherence.PeriodTotals, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ms := r.sortedLocked(func(a, b medicines.Medicine) bool {
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})

	byID := make(map[string]*adherence.PeriodTotals, len(ms))
	out := make([]adherence.PeriodTotals, len(ms))
	for i, m := range ms {
		out[i] = adherence.PeriodTotals{MedicineID: m.ID, Name: m.Name, Frequency: m.Frequency}
		byID[m.ID] = &out[i]
	}

	for _, d := range r.s.doses {
		if d.Date < from || d.Date > to {
			continue
		}
		t, ok := byID[d.MedicineID]
		if !ok {
			continue
		}
		t.Total++
		if d.Taken {
			t.Taken++
		}
	}
	return out, nil
}

// sortedLocked requiere s.mu tomado.
func (r *adherenceRepo) sortedLocked(less func(a, b medicines.Medicine) bool) []medicines.Medicine {
	ms := make([]medicines.Medicine, 0, len(r.s.medicines))
	for _, m := range r.s.medicines {
		ms = append(ms, m)
	}
	sort.Slice(ms, func(i, j int) bool { return less(ms[i], ms[j]) })
	return ms
}
