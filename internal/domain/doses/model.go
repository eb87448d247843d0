package doses

import (
	"time"

	"daily-medicine-reminder/internal/domain/schedule"
)

// Dose es un slot concreto (medicina, fecha, label) de un día.
type Dose struct {
	ID         string
	MedicineID string

	Date      string // YYYY-MM-DD en la zona del Clock
	TimeLabel string // "Morning", "08:00", ...

	Taken   bool
	TakenAt *time.Time // no-nil sii Taken

	// Sólo en lecturas con join (GetByID).
	MedicineName string
}

// Target es lo mínimo que necesita el materializador de una medicina activa.
type Target struct {
	MedicineID string
	Frequency  int
	Schedule   schedule.Config
}

// Labels expande el schedule del target para un día.
func (t Target) Labels() []string {
	return schedule.Expand(t.Frequency, t.Schedule)
}
