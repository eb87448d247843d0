package adherence

import "time"

// Period de las estadísticas simples.
// @Enum week, month
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// MedicineTotals es la fila agregada que devuelve el storage por medicina
// (todas las dosis de su historia).
type MedicineTotals struct {
	MedicineID string
	Name       string
	Frequency  int
	CreatedAt  time.Time
	Archived   bool
	ArchivedAt *time.Time

	TakenDoses    int
	FirstDoseDate string // "" si no tiene dosis
}

// DayTotals cuenta dosis de una fecha (todas las medicinas).
type DayTotals struct {
	Date  string
	Total int
	Taken int
}

// PeriodTotals cuenta dosis de una medicina dentro de una ventana.
type PeriodTotals struct {
	MedicineID string
	Name       string
	Frequency  int
	Total      int
	Taken      int
}

// MedicineStats es la adherencia de toda la vida de una medicina.
type MedicineStats struct {
	ID                  string
	Name                string
	Frequency           int
	Status              string // active | archived
	StartDate           string
	EndDate             string
	TotalDays           int
	ExpectedDoses       int
	TakenDoses          int
	MissedDoses         int
	AdherencePercentage int
}

type DayStats struct {
	Total      int
	Taken      int
	Percentage int
}

// Calendar: fecha => stats. Fechas sin dosis no aparecen.
type Calendar map[string]DayStats

type PeriodStats struct {
	ID         string
	Name       string
	Frequency  int
	Taken      int
	Total      int
	Percentage int
}
