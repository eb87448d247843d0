// Package memory es el storage in-memory (modo dev y tests). Un único Store
// guarda medicinas y dosis bajo un mismo mutex; los repos son vistas sobre él,
// así cada llamada es atómica igual que una transacción SQL.
package memory

import (
	"sync"
	"time"

	"daily-medicine-reminder/internal/domain/doses"
	"daily-medicine-reminder/internal/domain/medicines"

	"github.com/google/uuid"
)

type slotKey struct {
	medicineID string
	date       string
	label      string
}

type Store struct {
	mu sync.RWMutex

	medicines map[string]medicines.Medicine
	doses     map[string]doses.Dose
	slots     map[slotKey]string // unicidad (medicine_id, date, time_label)

	// seq desempata created_at iguales (orden de inserción).
	seq   int64
	order map[string]int64
}

func NewStore() *Store {
	return &Store{
		medicines: make(map[string]medicines.Medicine),
		doses:     make(map[string]doses.Dose),
		slots:     make(map[slotKey]string),
		order:     make(map[string]int64),
	}
}

// insertMissingLocked requiere s.mu tomado en escritura.
func (s *Store) insertMissingLocked(medicineID, date string, labels []string) int {
	n := 0
	for _, l := range labels {
		k := slotKey{medicineID: medicineID, date: date, label: l}
		if _, ok := s.slots[k]; ok {
			continue
		}
		id := uuid.NewString()
		s.slots[k] = id
		s.doses[id] = doses.Dose{
			ID:         id,
			MedicineID: medicineID,
			Date:       date,
			TimeLabel:  l,
		}
		n++
	}
	return n
}

// newerFirst: created_at DESC, luego inserción DESC.
func (s *Store) newerFirst(a, b medicines.Medicine) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return s.order[a.ID] > s.order[b.ID]
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
