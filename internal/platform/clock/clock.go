// Package clock define qué significa "hoy" para todo el servicio.
//
// Hay una sola zona horaria canónica (configurable, default UTC) y todos los
// componentes (materialización, ventana de edición, estadísticas) la usan
// a través de este paquete. No se mezcla hora local del proceso con UTC.
package clock

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // zonas IANA disponibles aun sin tzdata en el sistema (contenedores slim)
)

// DateLayout es el formato de fecha de las dosis (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// Rango de años aceptado en fechas que vienen de afuera (query, calendario).
const (
	MinYear = 2020
	MaxYear = 2030
)

type Clock struct {
	loc *time.Location
	now func() time.Time
}

// New crea un Clock anclado a loc. loc nil => UTC.
func New(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &Clock{loc: loc, now: time.Now}
}

// FromName resuelve un nombre IANA ("UTC", "Asia/Dhaka", ...).
func FromName(name string) (*Clock, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return New(time.UTC), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("clock: unknown timezone %q: %w", name, err)
	}
	return New(loc), nil
}

// Fixed devuelve un Clock congelado en t (tests, CLI --date).
func Fixed(t time.Time, loc *time.Location) *Clock {
	c := New(loc)
	c.now = func() time.Time { return t }
	return c
}

func (c *Clock) Location() *time.Location { return c.loc }

// Now devuelve el instante actual expresado en la zona canónica.
func (c *Clock) Now() time.Time { return c.now().In(c.loc) }

// Today devuelve la fecha de hoy como YYYY-MM-DD.
func (c *Clock) Today() string { return c.DateOf(c.now()) }

// DateOf proyecta un instante a fecha calendario en la zona canónica.
func (c *Clock) DateOf(t time.Time) string { return t.In(c.loc).Format(DateLayout) }

// ParseDate valida un string YYYY-MM-DD y lo devuelve como medianoche UTC
// (sólo se usa para aritmética de días, no como instante).
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// DaysBetween cuenta días calendario de from a to (to - from). Negativo si to < from.
func DaysBetween(from, to string) (int, error) {
	f, err := ParseDate(from)
	if err != nil {
		return 0, err
	}
	t, err := ParseDate(to)
	if err != nil {
		return 0, err
	}
	return int(t.Sub(f).Hours() / 24), nil
}

// WeekStart devuelve el domingo más reciente en o antes de date.
func WeekStart(date string) (string, error) {
	d, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return d.AddDate(0, 0, -int(d.Weekday())).Format(DateLayout), nil
}

// MonthStart devuelve el primer día del mes de date.
func MonthStart(date string) (string, error) {
	d, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC).Format(DateLayout), nil
}

// MonthRange devuelve [primer día del mes, primer día del mes siguiente).
func MonthRange(year, month int) (from, to string) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start.Format(DateLayout), start.AddDate(0, 1, 0).Format(DateLayout)
}
