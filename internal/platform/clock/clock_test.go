package clock

import (
	"testing"
	"time"
)

func TestToday_UsesCanonicalZone(t *testing.T) {
	dhaka, err := time.LoadLocation("Asia/Dhaka") // UTC+6
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// 2025-03-10 20:30 UTC ya es 2025-03-11 en Dhaka.
	instant := time.Date(2025, 3, 10, 20, 30, 0, 0, time.UTC)

	if got := Fixed(instant, time.UTC).Today(); got != "2025-03-10" {
		t.Fatalf("utc today: got %s", got)
	}
	if got := Fixed(instant, dhaka).Today(); got != "2025-03-11" {
		t.Fatalf("dhaka today: got %s", got)
	}
}

func TestFromName(t *testing.T) {
	c, err := FromName("")
	if err != nil || c.Location() != time.UTC {
		t.Fatalf("expected UTC default, got %v err=%v", c.Location(), err)
	}
	if _, err := FromName("Mars/Olympus"); err == nil {
		t.Fatalf("expected error for unknown zone")
	}
}

func TestWeekStart(t *testing.T) {
	cases := map[string]string{
		"2025-06-15": "2025-06-15", // domingo
		"2025-06-18": "2025-06-15", // miércoles
		"2025-06-21": "2025-06-15", // sábado
		"2025-03-01": "2025-02-23", // cruza mes
	}
	for in, want := range cases {
		got, err := WeekStart(in)
		if err != nil {
			t.Fatalf("WeekStart(%s): %v", in, err)
		}
		if got != want {
			t.Fatalf("WeekStart(%s) = %s, want %s", in, got, want)
		}
	}
}

func TestMonthRange_December(t *testing.T) {
	from, to := MonthRange(2025, 12)
	if from != "2025-12-01" || to != "2026-01-01" {
		t.Fatalf("got [%s, %s)", from, to)
	}
}

func TestDaysBetween(t *testing.T) {
	n, err := DaysBetween("2024-02-28", "2024-03-01")
	if err != nil {
		t.Fatalf("DaysBetween: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 days across leap day, got %d", n)
	}
	if _, err := DaysBetween("bad", "2024-03-01"); err == nil {
		t.Fatalf("expected parse error")
	}
}
