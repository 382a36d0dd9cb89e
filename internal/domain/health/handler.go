package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"pig-farm/internal/domain/accessgrants"
	"pig-farm/internal/domain/breeding"
	"pig-farm/internal/domain/farms"
	"pig-farm/internal/middleware"
	"pig-farm/internal/ports/capabilities"
)

func RegisterRoutes(r chi.Router, svc *Service, access *farms.Access, plans capabilities.CapabilitiesResolver) {
	r.Route("/farms/{farmID}/health", func(hr chi.Router) {
		hr.Post("/", createRecordHandler(svc, access, plans))
		hr.Get("/", listRecordsHandler(svc, access, plans))
		hr.Get("/summary", summaryHandler(svc, access, plans))
		hr.Post("/{recordID}/complete", completeRecordHandler(svc, access, plans))
		hr.Delete("/{recordID}", deleteRecordHandler(svc, access, plans))
	})
}

type createRecordRequest struct {
	PigID        string `json:"pig_id"`
	Type         string `json:"type" enums:"vaccination,treatment,checkup,deworming,other"`
	Description  string `json:"description"`
	Date         string `json:"date" example:"2025-06-01"`
	NextDue      string `json:"next_due" example:"2025-07-01"`
	Status       string `json:"status" enums:"pending,completed"`
	Veterinarian string `json:"veterinarian"`
	Notes        string `json:"notes"`
}

type recordResponse struct {
	ID           string     `json:"id"`
	FarmID       string     `json:"farm_id"`
	PigID        string     `json:"pig_id"`
	Type         Type       `json:"type"`
	Description  string     `json:"description"`
	Date         string     `json:"date"`
	NextDue      string     `json:"next_due,omitempty"`
	Status       Status     `json:"status"`
	Veterinarian string     `json:"veterinarian,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type summaryResponse struct {
	PigID    string    `json:"pig_id"`
	Status   PigStatus `json:"status"`
	Overdue  int       `json:"overdue"`
	Upcoming int       `json:"upcoming"`
}

// createRecordHandler godoc
// @Summary Registrar evento sanitario
// @Description Requiere `health:write` y la feature `health` del plan.
// @Tags health
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param farmID path string true "ID de la granja"
// @Param payload body createRecordRequest true "Registro"
// @Success 201 {object} recordResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 403 {string} string "forbidden / feature not available in plan"
// @Router /farms/{farmID}/health [post]
func createRecordHandler(svc *Service, access *farms.Access, plans capabilities.CapabilitiesResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := authorize(w, r, access, plans, accessgrants.ScopeHealthWrite)
		if !ok {
			return
		}

		var req createRecordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		date, err := parseOptionalDate(req.Date)
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}
		nextDue, err := parseOptionalDate(req.NextDue)
		if err != nil {
			http.Error(w, "invalid next_due", http.StatusBadRequest)
			return
		}

		rec, err := svc.Create(r.Context(), CreateInput{
			FarmID:       f.ID,
			PigID:        req.PigID,
			Type:         req.Type,
			Description:  req.Description,
			Date:         date,
			NextDue:      nextDue,
			Status:       req.Status,
			Veterinarian: req.Veterinarian,
			Notes:        req.Notes,
		})
		if err != nil {
			writeHealthError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toRecordResponse(rec))
	}
}

// listRecordsHandler godoc
// @Summary Listar eventos sanitarios
// @Description El estado overdue se calcula al leer.
// @Tags health
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param farmID path string true "ID de la granja"
// @Param pig_id query string false "Filtrar por animal"
// @Param status query string false "pending | completed | overdue"
// @Success 200 {array} recordResponse
// @Failure 403 {string} string "forbidden / feature not available in plan"
// @Router /farms/{farmID}/health [get]
func listRecordsHandler(svc *Service, access *farms.Access, plans capabilities.CapabilitiesResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := authorize(w, r, access, plans, accessgrants.ScopeFarmRead)
		if !ok {
			return
		}

		q := r.URL.Query()
		items, err := svc.List(r.Context(), f.ID, ListFilter{
			PigID:  q.Get("pig_id"),
			Status: Status(strings.TrimSpace(q.Get("status"))),
		})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		out := make([]recordResponse, 0, len(items))
		for _, rec := range items {
			out = append(out, toRecordResponse(rec))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// summaryHandler godoc
// @Summary Estado sanitario por animal
// @Description overdue si tiene algo vencido, upcoming si algo vence en 3 días, good en otro caso.
// @Tags health
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param farmID path string true "ID de la granja"
// @Success 200 {array} summaryResponse
// @Failure 403 {string} string "forbidden / feature not available in plan"
// @Router /farms/{farmID}/health/summary [get]
func summaryHandler(svc *Service, access *farms.Access, plans capabilities.CapabilitiesResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := authorize(w, r, access, plans, accessgrants.ScopeFarmRead)
		if !ok {
			return
		}

		items, err := svc.Summary(r.Context(), f.ID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		out := make([]summaryResponse, 0, len(items))
		for _, s := range items {
			out = append(out, summaryResponse{PigID: s.PigID, Status: s.Status, Overdue: s.Overdue, Upcoming: s.Upcoming})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// completeRecordHandler godoc
// @Summary Marcar evento como completado
// @Tags health
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param farmID path string true "ID de la granja"
// @Param recordID path string true "ID del registro"
// @Success 200 {object} recordResponse
// @Failure 404 {string} string "health record not found"
// @Router /farms/{farmID}/health/{recordID}/complete [post]
func completeRecordHandler(svc *Service, access *farms.Access, plans capabilities.CapabilitiesResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := authorize(w, r, access, plans, accessgrants.ScopeHealthWrite)
		if !ok {
			return
		}

		rec, err := svc.Complete(r.Context(), f.ID, chi.URLParam(r, "recordID"))
		if err != nil {
			writeHealthError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRecordResponse(rec))
	}
}

// deleteRecordHandler godoc
// @Summary Eliminar evento sanitario
// @Tags health
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param farmID path string true "ID de la granja"
// @Param recordID path string true "ID del registro"
// @Success 204
// @Failure 404 {string} string "health record not found"
// @Router /farms/{farmID}/health/{recordID} [delete]
func deleteRecordHandler(svc *Service, access *farms.Access, plans capabilities.CapabilitiesResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := authorize(w, r, access, plans, accessgrants.ScopeHealthWrite)
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), f.ID, chi.URLParam(r, "recordID")); err != nil {
			writeHealthError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// authorize: claims, acceso a la granja con el scope y feature health del plan del dueño.
func authorize(w http.ResponseWriter, r *http.Request, access *farms.Access, plans capabilities.CapabilitiesResolver, scope accessgrants.Scope) (farms.Farm, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return farms.Farm{}, false
	}

	f, err := access.Check(r.Context(), chi.URLParam(r, "farmID"), claims.UserID, scope)
	if err != nil {
		farms.WriteAccessError(w, err)
		return farms.Farm{}, false
	}

	allowed, err := plans.HasFeature(r.Context(), capabilities.CapabilityCheck{UserID: f.OwnerUserID, Feature: capabilities.FeatureHealth})
	if err != nil {
		http.Error(w, "plan lookup failed", http.StatusBadGateway)
		return farms.Farm{}, false
	}
	if !allowed {
		http.Error(w, "feature not available in plan", http.StatusForbidden)
		return farms.Farm{}, false
	}
	return f, true
}

func writeHealthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func parseOptionalDate(raw string) (*time.Time, error) {
	t, ok, err := breeding.ParseDate(raw)
	if !ok {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}

func toRecordResponse(rec Record) recordResponse {
	out := recordResponse{
		ID:           rec.ID,
		FarmID:       rec.FarmID,
		PigID:        rec.PigID,
		Type:         rec.Type,
		Description:  rec.Description,
		Date:         breeding.FormatDate(rec.Date),
		Status:       rec.Status,
		Veterinarian: rec.Veterinarian,
		Notes:        rec.Notes,
		CompletedAt:  rec.CompletedAt,
		CreatedAt:    rec.CreatedAt,
	}
	if rec.NextDue != nil {
		out.NextDue = breeding.FormatDate(*rec.NextDue)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
