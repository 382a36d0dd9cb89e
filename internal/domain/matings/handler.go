package matings

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
	"pig-farm/internal/domain/pigs"
	"pig-farm/internal/middleware"
	"pig-farm/internal/ports/capabilities"
)

func RegisterRoutes(r chi.Router, svc *Service, access *farms.Access, plans capabilities.CapabilitiesResolver) {
	r.Route("/farms/{farmID}/breedings", func(br chi.Router) {
		br.Post("/compatibility", compatibilityHandler(svc, access))
		br.Post("/", scheduleBreedingHandler(svc, access, plans))
		br.Get("/", listBreedingsHandler(svc, access))
		br.Post("/{breedingID}/birth", recordBirthHandler(svc, access, plans))
	})
}

type compatibilityRequest struct {
	SowID  string `json:"sow_id"`
	BoarID string `json:"boar_id"`
}

type scheduleRequest struct {
	SowID      string `json:"sow_id"`
	BoarID     string `json:"boar_id"`
	MatingDate string `json:"mating_date" example:"2025-06-01"`
	Notes      string `json:"notes"`
}

type birthRequest struct {
	ActualBirthDate string `json:"actual_birth_date" example:"2025-09-23"`
	LitterSize      int    `json:"litter_size"`
}

type breedingResponse struct {
	ID                string    `json:"id"`
	FarmID            string    `json:"farm_id"`
	SowID             string    `json:"sow_id"`
	BoarID            string    `json:"boar_id"`
	SowName           string    `json:"sow_name"`
	BoarName          string    `json:"boar_name"`
	MatingDate        string    `json:"mating_date"`
	ExpectedBirthDate string    `json:"expected_birth_date"`
	ActualBirthDate   string    `json:"actual_birth_date,omitempty"`
	LitterSize        *int      `json:"litter_size,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// compatibilityHandler godoc
// @Summary Verificar compatibilidad de una pareja
// @Description Madurez de ambos, parentesco de primer grado y preñez de la cerda, en ese orden.
// @Tags breedings
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param farmID path string true "ID de la granja"
// @Param payload body compatibilityRequest true "Cerda y verraco"
// @Success 200 {object} breeding.Compatibility
// @Failure 400 {string} string "invalid json"
// @Failure 403 {string} string "forbidden"
// @Router /farms/{farmID}/breedings/compatibility [post]
func compatibilityHandler(svc *Service, access *farms.Access) http.HandlerFunc {
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

		var req compatibilityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := svc.CheckCompatibility(r.Context(), f.ID, req.SowID, req.BoarID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// scheduleBreedingHandler godoc
// @Summary Registrar monta
// @Description Requiere `breeding:write` y la feature `breeding` del plan. Si la pareja no es compatible responde 409 con el motivo.
// @Tags breedings
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param farmID path string true "ID de la granja"
// @Param payload body scheduleRequest true "Pareja y fecha de monta"
// @Success 201 {object} breedingResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 403 {string} string "forbidden / feature not available in plan"
// @Failure 409 {string} string "motivo de incompatibilidad"
// @Router /farms/{farmID}/breedings [post]
func scheduleBreedingHandler(svc *Service, access *farms.Access, plans capabilities.CapabilitiesResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		f, err := access.Check(r.Context(), chi.URLParam(r, "farmID"), claims.UserID, accessgrants.ScopeBreedingWrite)
		if err != nil {
			farms.WriteAccessError(w, err)
			return
		}
		if !requireFeature(w, r, plans, f.OwnerUserID) {
			return
		}

		var req scheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		mating, err := parseOptionalDate(req.MatingDate)
		if err != nil {
			http.Error(w, "invalid mating_date", http.StatusBadRequest)
			return
		}

		rec, err := svc.Schedule(r.Context(), ScheduleInput{
			FarmID:     f.ID,
			SowID:      req.SowID,
			BoarID:     req.BoarID,
			MatingDate: mating,
			Notes:      req.Notes,
			UserID:     claims.UserID,
		})
		if err != nil {
			writeBreedingError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toBreedingResponse(rec))
	}
}

// listBreedingsHandler godoc
// @Summary Listar montas
// @Tags breedings
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param farmID path string true "ID de la granja"
// @Param sow_id query string false "Filtrar por cerda"
// @Success 200 {array} breedingResponse
// @Failure 403 {string} string "forbidden"
// @Router /farms/{farmID}/breedings [get]
func listBreedingsHandler(svc *Service, access *farms.Access) http.HandlerFunc {
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

		items, err := svc.List(r.Context(), f.ID, r.URL.Query().Get("sow_id"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		out := make([]breedingResponse, 0, len(items))
		for _, rec := range items {
			out = append(out, toBreedingResponse(rec))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// recordBirthHandler godoc
// @Summary Registrar parto
// @Description Requiere `breeding:write`. Cierra la preñez de la cerda y suma la camada a sus totales.
// @Tags breedings
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param farmID path string true "ID de la granja"
// @Param breedingID path string true "ID de la monta"
// @Param payload body birthRequest true "Fecha y tamaño de camada"
// @Success 200 {object} breedingResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 404 {string} string "breeding record not found"
// @Failure 409 {string} string "birth already recorded / sow is not pregnant"
// @Router /farms/{farmID}/breedings/{breedingID}/birth [post]
func recordBirthHandler(svc *Service, access *farms.Access, plans capabilities.CapabilitiesResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		f, err := access.Check(r.Context(), chi.URLParam(r, "farmID"), claims.UserID, accessgrants.ScopeBreedingWrite)
		if err != nil {
			farms.WriteAccessError(w, err)
			return
		}
		if !requireFeature(w, r, plans, f.OwnerUserID) {
			return
		}

		var req birthRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		born, err := parseOptionalDate(req.ActualBirthDate)
		if err != nil {
			http.Error(w, "invalid actual_birth_date", http.StatusBadRequest)
			return
		}

		rec, err := svc.RecordBirth(r.Context(), f.ID, chi.URLParam(r, "breedingID"), BirthInput{
			Date:       born,
			LitterSize: req.LitterSize,
		})
		if err != nil {
			writeBreedingError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toBreedingResponse(rec))
	}
}

func requireFeature(w http.ResponseWriter, r *http.Request, plans capabilities.CapabilitiesResolver, ownerID string) bool {
	ok, err := plans.HasFeature(r.Context(), capabilities.CapabilityCheck{UserID: ownerID, Feature: capabilities.FeatureBreeding})
	if err != nil {
		http.Error(w, "plan lookup failed", http.StatusBadGateway)
		return false
	}
	if !ok {
		http.Error(w, "feature not available in plan", http.StatusForbidden)
		return false
	}
	return true
}

func writeBreedingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrIncompatible):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, pigs.ErrInvalidInput):
		http.Error(w, "invalid input", http.StatusBadRequest)
	case errors.Is(err, ErrNotFound), errors.Is(err, pigs.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrAlreadyRecorded), errors.Is(err, pigs.ErrNotPregnant), errors.Is(err, pigs.ErrNotActive):
		http.Error(w, err.Error(), http.StatusConflict)
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

func toBreedingResponse(rec Record) breedingResponse {
	out := breedingResponse{
		ID:                rec.ID,
		FarmID:            rec.FarmID,
		SowID:             rec.SowID,
		BoarID:            rec.BoarID,
		SowName:           rec.SowName,
		BoarName:          rec.BoarName,
		MatingDate:        breeding.FormatDate(rec.MatingDate),
		ExpectedBirthDate: breeding.FormatDate(rec.ExpectedBirthDate),
		LitterSize:        rec.LitterSize,
		Notes:             rec.Notes,
		CreatedAt:         rec.CreatedAt,
	}
	if rec.ActualBirthDate != nil {
		out.ActualBirthDate = breeding.FormatDate(*rec.ActualBirthDate)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
