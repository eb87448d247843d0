package memory

import (
	"context"
	"sort"
	"time"

	"daily-medicine-reminder/internal/domain/doses"
	"daily-medicine-reminder/internal/errs"
)

type doseRepo struct {
	s *Store
}

func NewDosesRepo(s *Store) doses.Repository {
	return &doseRepo{s: s}
}

func (r *doseRepo) InsertMissing(ctx context.Context, medicineID, date string, labels []string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	// Misma semántica que la FK: no hay slots de medicinas inexistentes.
	if _, ok := r.s.medicines[medicineID]; !ok {
		return 0, errs.ErrNotFound
	}
	return r.s.insertMissingLocked(medicineID, date, labels), nil
}

func (r *doseRepo) GetByID(ctx context.Context, id string) (doses.Dose, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.doses[id]
	if !ok {
		return doses.Dose{}, errs.ErrNotFound
	}
	d.TakenAt = copyTime(d.TakenAt)
	d.MedicineName = r.s.medicines[d.MedicineID].Name
	return d, nil
}

func (r *doseRepo) SetTaken(ctx context.Context, id string, taken bool, takenAt *time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.doses[id]
	if !ok {
		return errs.ErrNotFound
	}
	d.Taken = taken
	d.TakenAt = nil
	if taken {
		d.TakenAt = copyTime(takenAt)
	}
	r.s.doses[id] = d
	return nil
}

func (r *doseRepo) ListActiveTargets(ctx context.Context) ([]doses.Target, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := make([]string, 0, len(r.s.medicines))
	for id, m := range r.s.medicines {
		if !m.Archived {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return r.s.order[ids[i]] < r.s.order[ids[j]] })

	out := make([]doses.Target, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.s.medicines[id].Target())
	}
	return out, nil
}
