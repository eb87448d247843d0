package doses

import (
	"net/http"
	"time"

	"daily-medicine-reminder/internal/errs"
	"daily-medicine-reminder/internal/platform/logger"
	"daily-medicine-reminder/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Put("/doses/{doseID}", setTakenHandler(svc, log))
}

// setTakenRequest: taken es puntero para distinguir "false" de "ausente".
type setTakenRequest struct {
	Taken *bool `json:"taken"`
}

type doseResponse struct {
	ID           string     `json:"id"`
	Taken        bool       `json:"taken"`
	TakenAt      *time.Time `json:"taken_at"`
	MedicineName string     `json:"medicine_name"`
}

type setTakenResponse struct {
	Message string       `json:"message"`
	Dose    doseResponse `json:"dose"`
}

// setTakenHandler godoc
// @Summary Marcar dosis tomada / no tomada
// @Description Sólo las dosis de la fecha de hoy (zona horaria configurada) son editables. Una dosis de otro día devuelve 403 con la fecha de la dosis.
// @Tags doses
// @Accept json
// @Produce json
// @Param doseID path string true "ID de la dosis"
// @Param payload body setTakenRequest true "Nuevo estado"
// @Success 200 {object} setTakenResponse
// @Failure 400 {object} respond.ValidationErrorResponse
// @Failure 403 {object} respond.ForbiddenResponse
// @Failure 404 {object} respond.ErrorResponse "Dose not found"
// @Router /doses/{doseID} [put]
func setTakenHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setTakenRequest
		if !respond.DecodeJSON(w, r, &req) {
			return
		}
		if req.Taken == nil {
			respond.ServiceError(w, r, log, errs.Invalid("taken", "Taken status must be boolean"), respond.Messages{})
			return
		}

		d, err := svc.SetTaken(r.Context(), chi.URLParam(r, "doseID"), *req.Taken)
		if err != nil {
			respond.ServiceError(w, r, log, err, respond.Messages{
				NotFound: "Dose not found",
				Internal: "Failed to update dose",
			})
			return
		}

		respond.JSON(w, http.StatusOK, setTakenResponse{
			Message: "Dose updated successfully",
			Dose: doseResponse{
				ID:           d.ID,
				Taken:        d.Taken,
				TakenAt:      d.TakenAt,
				MedicineName: d.MedicineName,
			},
		})
	}
}
