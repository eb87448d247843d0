package medicines

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"daily-medicine-reminder/internal/domain/schedule"
	"daily-medicine-reminder/internal/errs"
	"daily-medicine-reminder/internal/platform/logger"
	"daily-medicine-reminder/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/medicines", func(mr chi.Router) {
		mr.Get("/", listForDateHandler(svc, log))
		mr.Get("/all", listAllHandler(svc, log))
		mr.Post("/", createHandler(svc, log))

		mr.Put("/{medicineID}/archive", archiveHandler(svc, log))
		mr.Put("/{medicineID}/reactivate", reactivateHandler(svc, log))
		mr.Delete("/{medicineID}", deleteHandler(svc, log))
	})
}

// createMedicineRequest: customTimes y presetTimes se decodifican crudos para
// poder reportar el tipo incorrecto como error de validación.
type createMedicineRequest struct {
	Name         string          `json:"name"`
	Frequency    json.Number     `json:"frequency" swaggertype:"integer"`
	ScheduleType string          `json:"scheduleType" enums:"preset,interval,custom"`
	CustomTimes  json.RawMessage `json:"customTimes,omitempty" swaggertype:"array,string"`
	PresetTimes  json.RawMessage `json:"presetTimes,omitempty" swaggertype:"string"`
}

type createMedicineResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type deleteMedicineResponse struct {
	Message         string `json:"message"`
	DeletedMedicine string `json:"deletedMedicine"`
}

type medicineResponse struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Frequency    int        `json:"frequency"`
	ScheduleType string     `json:"schedule_type"`
	CustomTimes  []string   `json:"custom_times"`
	PresetTimes  *string    `json:"preset_times"`
	CreatedAt    time.Time  `json:"created_at"`
	Archived     bool       `json:"archived"`
	ArchivedAt   *time.Time `json:"archived_at"`
}

type dayDoseResponse struct {
	ID        string     `json:"id"`
	TimeLabel string     `json:"time_label"`
	Taken     bool       `json:"taken"`
	TakenAt   *time.Time `json:"taken_at"`
}

type dayMedicineResponse struct {
	medicineResponse
	Doses []dayDoseResponse `json:"doses"`
}

// listForDateHandler godoc
// @Summary Medicinas activas con sus dosis de una fecha
// @Description Si la fecha es hoy (o no se envía), primero se generan las dosis faltantes de todas las medicinas activas. Otras fechas son sólo lectura.
// @Tags medicines
// @Produce json
// @Param date query string false "YYYY-MM-DD (año 2020-2030). Default hoy"
// @Success 200 {array} dayMedicineResponse
// @Failure 400 {object} respond.ValidationErrorResponse
// @Router /medicines [get]
func listForDateHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.ListForDate(r.Context(), r.URL.Query().Get("date"))
		if err != nil {
			respond.ServiceError(w, r, log, err, respond.Messages{Internal: "Database error"})
			return
		}

		out := make([]dayMedicineResponse, 0, len(entries))
		for _, e := range entries {
			ds := make([]dayDoseResponse, 0, len(e.Doses))
			for _, d := range e.Doses {
				ds = append(ds, dayDoseResponse{
					ID:        d.ID,
					TimeLabel: d.TimeLabel,
					Taken:     d.Taken,
					TakenAt:   d.TakenAt,
				})
			}
			out = append(out, dayMedicineResponse{medicineResponse: toMedicineResponse(e.Medicine), Doses: ds})
		}

		respond.JSON(w, http.StatusOK, out)
	}
}

// listAllHandler godoc
// @Summary Todas las medicinas (activas y archivadas)
// @Tags medicines
// @Produce json
// @Success 200 {array} medicineResponse
// @Router /medicines/all [get]
func listAllHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListAll(r.Context())
		if err != nil {
			respond.ServiceError(w, r, log, err, respond.Messages{Internal: "Failed to fetch medicines"})
			return
		}

		out := make([]medicineResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMedicineResponse(m))
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

// createHandler godoc
// @Summary Registrar medicina
// @Description Crea la medicina y sus dosis de hoy en una sola operación. La cantidad de horarios del schedule debe coincidir con frequency.
// @Tags medicines
// @Accept json
// @Produce json
// @Param payload body createMedicineRequest true "Medicina"
// @Success 201 {object} createMedicineResponse
// @Failure 400 {object} respond.ValidationErrorResponse
// @Router /medicines [post]
func createHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createMedicineRequest
		if !respond.DecodeJSON(w, r, &req) {
			return
		}

		in, err := req.toInput()
		if err != nil {
			respond.ServiceError(w, r, log, err, respond.Messages{})
			return
		}

		m, err := svc.Create(r.Context(), in)
		if err != nil {
			respond.ServiceError(w, r, log, err, respond.Messages{Internal: "Failed to add medicine"})
			return
		}

		respond.JSON(w, http.StatusCreated, createMedicineResponse{ID: m.ID, Message: "Medicine added successfully"})
	}
}

// archiveHandler godoc
// @Summary Archivar medicina
// @Tags medicines
// @Produce json
// @Param medicineID path string true "ID de la medicina"
// @Success 200 {object} messageResponse
// @Failure 404 {object} respond.ErrorResponse "Medicine not found or already archived"
// @Router /medicines/{medicineID}/archive [put]
func archiveHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Archive(r.Context(), chi.URLParam(r, "medicineID")); err != nil {
			respond.ServiceError(w, r, log, err, respond.Messages{
				NotFound: "Medicine not found or already archived",
				Internal: "Failed to archive medicine",
			})
			return
		}
		respond.JSON(w, http.StatusOK, messageResponse{Message: "Medicine archived successfully"})
	}
}

// reactivateHandler godoc
// @Summary Reactivar medicina archivada
// @Description Al reactivar se generan de inmediato las dosis de hoy.
// @Tags medicines
// @Produce json
// @Param medicineID path string true "ID de la medicina"
// @Success 200 {object} messageResponse
// @Failure 404 {object} respond.ErrorResponse "Medicine not found or not archived"
// @Router /medicines/{medicineID}/reactivate [put]
func reactivateHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Reactivate(r.Context(), chi.URLParam(r, "medicineID")); err != nil {
			respond.ServiceError(w, r, log, err, respond.Messages{
				NotFound: "Medicine not found or not archived",
				Internal: "Failed to reactivate medicine",
			})
			return
		}
		respond.JSON(w, http.StatusOK, messageResponse{Message: "Medicine reactivated successfully"})
	}
}

// deleteHandler godoc
// @Summary Borrar medicina y todas sus dosis
// @Tags medicines
// @Produce json
// @Param medicineID path string true "ID de la medicina"
// @Success 200 {object} deleteMedicineResponse
// @Failure 404 {object} respond.ErrorResponse "Medicine not found"
// @Router /medicines/{medicineID} [delete]
func deleteHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := svc.Delete(r.Context(), chi.URLParam(r, "medicineID"))
		if err != nil {
			respond.ServiceError(w, r, log, err, respond.Messages{
				NotFound: "Medicine not found",
				Internal: "Failed to delete medicine",
			})
			return
		}
		respond.JSON(w, http.StatusOK, deleteMedicineResponse{
			Message:         "Medicine and all associated dose records deleted successfully",
			DeletedMedicine: name,
		})
	}
}

// toInput aplica las reglas de forma del request (tipos, rangos) antes del servicio.
func (req createMedicineRequest) toInput() (CreateInput, error) {
	name := strings.TrimSpace(req.Name)
	if n := utf8.RuneCountInString(name); n < 1 || n > MaxNameLength {
		return CreateInput{}, errs.Invalid("name", "Medicine name must be 1-100 characters")
	}

	freq, err := req.Frequency.Int64()
	if err != nil || freq < schedule.MinFrequency || freq > schedule.MaxFrequency {
		return CreateInput{}, errs.Invalid("frequency", "Frequency must be between 1 and 4")
	}

	if _, err := schedule.ParseKind(req.ScheduleType); err != nil {
		return CreateInput{}, errs.Invalid("scheduleType", "Schedule type must be preset, custom, or interval")
	}

	in := CreateInput{
		Name:         name,
		Frequency:    int(freq),
		ScheduleType: req.ScheduleType,
	}

	if isPresent(req.CustomTimes) {
		if err := json.Unmarshal(req.CustomTimes, &in.CustomTimes); err != nil {
			return CreateInput{}, errs.Invalid("customTimes", "Custom times must be an array")
		}
	}
	if isPresent(req.PresetTimes) {
		if err := json.Unmarshal(req.PresetTimes, &in.PresetTimes); err != nil {
			return CreateInput{}, errs.Invalid("presetTimes", "Preset times must be a string")
		}
	}
	return in, nil
}

func isPresent(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

func toMedicineResponse(m Medicine) medicineResponse {
	kind, _, preset, _ := schedule.Encode(m.Schedule)
	return medicineResponse{
		ID:           m.ID,
		Name:         m.Name,
		Frequency:    m.Frequency,
		ScheduleType: kind,
		CustomTimes:  m.Schedule.CustomTimes(),
		PresetTimes:  preset,
		CreatedAt:    m.CreatedAt,
		Archived:     m.Archived,
		ArchivedAt:   m.ArchivedAt,
	}
}
