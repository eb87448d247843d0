package adherence

import (
	"net/http"
	"strconv"

	"daily-medicine-reminder/internal/errs"
	"daily-medicine-reminder/internal/platform/logger"
	"daily-medicine-reminder/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Get("/calendar/{year}/{month}", calendarHandler(svc, log))
	r.Get("/stats", statisticsHandler(svc, log))
	r.Get("/stats/period", periodHandler(svc, log))
}

type medicineStatsResponse struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Frequency           int    `json:"frequency"`
	Status              string `json:"status" enums:"active,archived"`
	StartDate           string `json:"startDate"`
	EndDate             string `json:"endDate"`
	TotalDays           int    `json:"totalDays"`
	ExpectedDoses       int    `json:"expectedDoses"`
	TakenDoses          int    `json:"takenDoses"`
	MissedDoses         int    `json:"missedDoses"`
	AdherencePercentage int    `json:"adherencePercentage"`
}

type dayStatsResponse struct {
	Total      int `json:"total"`
	Taken      int `json:"taken"`
	Percentage int `json:"percentage"`
}

type periodStatsResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Frequency  int    `json:"frequency"`
	Taken      int    `json:"taken"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
}

// calendarHandler godoc
// @Summary Resumen diario de un mes
// @Description Devuelve un objeto fecha => {total, taken, percentage}. Las fechas sin dosis no aparecen.
// @Tags adherence
// @Produce json
// @Param year path int true "Año (2020-2030)"
// @Param month path int true "Mes (1-12)"
// @Success 200 {object} map[string]dayStatsResponse
// @Failure 400 {object} respond.ValidationErrorResponse
// @Router /calendar/{year}/{month} [get]
func calendarHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := strconv.Atoi(chi.URLParam(r, "year"))
		if err != nil {
			respond.ServiceError(w, r, log, errs.Invalid("year", "Year must be between 2020 and 2030"), respond.Messages{})
			return
		}
		month, err := strconv.Atoi(chi.URLParam(r, "month"))
		if err != nil {
			respond.ServiceError(w, r, log, errs.Invalid("month", "Month must be between 1 and 12"), respond.Messages{})
			return
		}

		cal, err := svc.Calendar(r.Context(), year, month)
		if err != nil {
			respond.ServiceError(w, r, log, err, respond.Messages{Internal: "Failed to fetch calendar data"})
			return
		}

		out := make(map[string]dayStatsResponse, len(cal))
		for date, d := range cal {
			out[date] = dayStatsResponse{Total: d.Total, Taken: d.Taken, Percentage: d.Percentage}
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

// statisticsHandler godoc
// @Summary Adherencia por medicina
// @Tags adherence
// @Produce json
// @Success 200 {array} medicineStatsResponse
// @Router /stats [get]
func statisticsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Statistics(r.Context())
		if err != nil {
			respond.ServiceError(w, r, log, err, respond.Messages{Internal: "Failed to fetch statistics"})
			return
		}

		out := make([]medicineStatsResponse, 0, len(stats))
		for _, s := range stats {
			out = append(out, medicineStatsResponse(s))
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

// periodHandler godoc
// @Summary Adherencia de la semana o mes en curso
// @Tags adherence
// @Produce json
// @Param period query string false "week (default) o month"
// @Success 200 {array} periodStatsResponse
// @Failure 400 {object} respond.ValidationErrorResponse
// @Router /stats/period [get]
func periodHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := ParsePeriod(r.URL.Query().Get("period"))
		if err != nil {
			respond.ServiceError(w, r, log, err, respond.Messages{})
			return
		}

		stats, err := svc.Period(r.Context(), p)
		if err != nil {
			respond.ServiceError(w, r, log, err, respond.Messages{Internal: "Failed to fetch statistics"})
			return
		}

		out := make([]periodStatsResponse, 0, len(stats))
		for _, s := range stats {
			out = append(out, periodStatsResponse(s))
		}
		respond.JSON(w, http.StatusOK, out)
	}
}
