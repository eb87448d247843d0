package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"daily-medicine-reminder/internal/domain/doses"
	"daily-medicine-reminder/internal/domain/medicines"
	"daily-medicine-reminder/internal/errs"
)

type medicineRepo struct {
	s *Store
}

func NewMedicinesRepo(s *Store) medicines.Repository {
	return &medicineRepo{s: s}
}

func (r *medicineRepo) Create(ctx context.Context, m medicines.Medicine, date string, labels []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(m.ID) == "" {
		return errors.New("medicine id required")
	}
	if _, exists := r.s.medicines[m.ID]; exists {
		return errors.New("medicine already exists")
	}

	r.s.seq++
	r.s.order[m.ID] = r.s.seq
	r.s.medicines[m.ID] = m
	r.s.insertMissingLocked(m.ID, date, labels)
	return nil
}

func (r *medicineRepo) GetByID(ctx context.Context, id string) (medicines.Medicine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.medicines[id]
	if !ok {
		return medicines.Medicine{}, errs.ErrNotFound
	}
	return m, nil
}

func (r *medicineRepo) ListAll(ctx context.Context) ([]medicines.Medicine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]medicines.Medicine, 0, len(r.s.medicines))
	for _, m := range r.s.medicines {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Archived != out[j].Archived {
			return !out[i].Archived
		}
		return r.s.newerFirst(out[i], out[j])
	})
	return out, nil
}

func (r *medicineRepo) ListDay(ctx context.Context, date string) ([]medicines.DayEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	active := make([]medicines.Medicine, 0)
	for _, m := range r.s.medicines {
		if !m.Archived {
			active = append(active, m)
		}
	}
	sort.Slice(active, func(i, j int) bool { return r.s.newerFirst(active[i], active[j]) })

	byMedicine := make(map[string][]doses.Dose, len(active))
	for _, d := range r.s.doses {
		if d.Date == date {
			d.TakenAt = copyTime(d.TakenAt)
			byMedicine[d.MedicineID] = append(byMedicine[d.MedicineID], d)
		}
	}

	out := make([]medicines.DayEntry, 0, len(active))
	for _, m := range active {
		ds := byMedicine[m.ID]
		if ds == nil {
			ds = []doses.Dose{}
		}
		sort.Slice(ds, func(i, j int) bool { return ds[i].TimeLabel < ds[j].TimeLabel })
		out = append(out, medicines.DayEntry{Medicine: m, Doses: ds})
	}
	return out, nil
}

func (r *medicineRepo) Archive(ctx context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.medicines[id]
	if !ok || m.Archived {
		return errs.ErrNotFoundOrConflict
	}
	m.Archived = true
	m.ArchivedAt = &at
	r.s.medicines[id] = m
	return nil
}

func (r *medicineRepo) Reactivate(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.medicines[id]
	if !ok || !m.Archived {
		return errs.ErrNotFoundOrConflict
	}
	m.Archived = false
	m.ArchivedAt = nil
	r.s.medicines[id] = m
	return nil
}

func (r *medicineRepo) Delete(ctx context.Context, id string) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.medicines[id]
	if !ok {
		return "", errs.ErrNotFound
	}
	for k, doseID := range r.s.slots {
		if k.medicineID == id {
			delete(r.s.slots, k)
			delete(r.s.doses, doseID)
		}
	}
	delete(r.s.medicines, id)
	delete(r.s.order, id)
	return m.Name, nil
}
