package alerts

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"pig-farm/internal/domain/accessgrants"
	"pig-farm/internal/domain/breeding"
	"pig-farm/internal/domain/farms"
	"pig-farm/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service, access *farms.Access) {
	r.Get("/farms/{farmID}/alerts", listAlertsHandler(svc, access))
	r.Delete("/farms/{farmID}/alerts/notified", resetNotifiedHandler(svc, access))
}

type overdueResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	PenID             string `json:"pen_id,omitempty"`
	ExpectedBirthDate string `json:"expected_birth_date"`
}

type alertsResponse struct {
	Alerts       []breeding.Alert  `json:"alerts"`
	NewlyOverdue []overdueResponse `json:"newly_overdue"`
}

// listAlertsHandler godoc
// @Summary Alertas del ciclo reproductivo
// @Description Evalúa los animales activos. Hasta 15 alertas, las urgentes primero. newly_overdue lista los partos atrasados que esta sesión (usuario + granja) todavía no había visto.
// @Tags alerts
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param farmID path string true "ID de la granja"
// @Success 200 {object} alertsResponse
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "farm not found"
// @Router /farms/{farmID}/alerts [get]
func listAlertsHandler(svc *Service, access *farms.Access) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		f, err := access.Check(r.Context(), chi.URLParam(r, "farmID"), claims.UserID, accessgrants.ScopeFarmRead)
		if err != nil {
			farms.WriteAccessError(w, err)
			return
		}

		rep, err := svc.Evaluate(r.Context(), f.ID, claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := alertsResponse{
			Alerts:       rep.Alerts,
			NewlyOverdue: make([]overdueResponse, 0, len(rep.NewlyOverdue)),
		}
		for _, o := range rep.NewlyOverdue {
			out.NewlyOverdue = append(out.NewlyOverdue, overdueResponse{
				ID:                o.ID,
				Name:              o.Name,
				PenID:             o.PenID,
				ExpectedBirthDate: o.ExpectedBirthDate,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// resetNotifiedHandler godoc
// @Summary Reiniciar avisos de partos atrasados
// @Description El próximo GET /alerts vuelve a listar todos los partos atrasados en newly_overdue.
// @Tags alerts
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param farmID path string true "ID de la granja"
// @Success 204
// @Failure 403 {string} string "forbidden"
// @Router /farms/{farmID}/alerts/notified [delete]
func resetNotifiedHandler(svc *Service, access *farms.Access) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		f, err := access.Check(r.Context(), chi.URLParam(r, "farmID"), claims.UserID, accessgrants.ScopeFarmRead)
		if err != nil {
			farms.WriteAccessError(w, err)
			return
		}

		if err := svc.ResetSession(r.Context(), f.ID, claims.UserID); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
