package medicines

import (
	"time"

	"daily-medicine-reminder/internal/domain/doses"
	"daily-medicine-reminder/internal/domain/schedule"
)

const MaxNameLength = 100

// Medicine es un tratamiento con su schedule diario.
type Medicine struct {
	ID string

	Name      string
	Frequency int // dosis por día, 1-4
	Schedule  schedule.Config

	CreatedAt time.Time

	// Archived y ArchivedAt siempre se actualizan juntos:
	// archivada <=> ArchivedAt != nil.
	Archived   bool
	ArchivedAt *time.Time
}

// Target adapta la medicina al materializador.
func (m Medicine) Target() doses.Target {
	return doses.Target{
		MedicineID: m.ID,
		Frequency:  m.Frequency,
		Schedule:   m.Schedule,
	}
}

// DayEntry es una medicina activa con sus dosis de una fecha.
type DayEntry struct {
	Medicine Medicine
	Doses    []doses.Dose
}
