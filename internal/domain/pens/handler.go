package pens

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"pig-farm/internal/domain/accessgrants"
	"pig-farm/internal/domain/farms"
	"pig-farm/internal/middleware"
	"pig-farm/internal/ports/capabilities"
)

func RegisterRoutes(r chi.Router, svc *Service, access *farms.Access, plans capabilities.CapabilitiesResolver) {
	r.Route("/farms/{farmID}/pens", func(pr chi.Router) {
		pr.Post("/", createPenHandler(svc, access, plans))
		pr.Get("/", listPensHandler(svc, access))
		pr.Delete("/{penID}", deletePenHandler(svc, access))
	})
}

type createPenRequest struct {
	Name     string `json:"name"`
	RowName  string `json:"row_name"`
	Capacity int    `json:"capacity"`
}

type penResponse struct {
	ID        string    `json:"id"`
	FarmID    string    `json:"farm_id"`
	Name      string    `json:"name"`
	RowName   string    `json:"row_name"`
	Capacity  int       `json:"capacity"`
	Occupied  *int      `json:"occupied,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// createPenHandler godoc
// @Summary Crear corral
// @Description Requiere `pens:write`. Abrir una fila nueva consume cupo del plan (max_rows); cada fila admite hasta 18 corrales. capacity 0 = sin tope.
// @Tags pens
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param farmID path string true "ID de la granja"
// @Param payload body createPenRequest true "Datos del corral"
// @Success 201 {object} penResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 403 {string} string "forbidden / plan limit reached"
// @Failure 404 {string} string "farm not found"
// @Failure 409 {string} string "pen name already used / row is full"
// @Router /farms/{farmID}/pens [post]
func createPenHandler(svc *Service, access *farms.Access, plans capabilities.CapabilitiesResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		f, err := access.Check(r.Context(), chi.URLParam(r, "farmID"), claims.UserID, accessgrants.ScopePensWrite)
		if err != nil {
			farms.WriteAccessError(w, err)
			return
		}

		var req createPenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		// El plan que cuenta es el del dueño, no el del invitado.
		allowed, err := plans.HasFeature(r.Context(), capabilities.CapabilityCheck{UserID: f.OwnerUserID, Feature: capabilities.FeatureHutches})
		if err != nil {
			http.Error(w, "plan lookup failed", http.StatusBadGateway)
			return
		}
		if !allowed {
			http.Error(w, "feature not available in plan", http.StatusForbidden)
			return
		}
		limits, err := plans.Limits(r.Context(), f.OwnerUserID)
		if err != nil {
			http.Error(w, "plan lookup failed", http.StatusBadGateway)
			return
		}

		p, err := svc.Create(r.Context(), CreateInput{
			FarmID:   f.ID,
			Name:     req.Name,
			RowName:  req.RowName,
			Capacity: req.Capacity,
			MaxRows:  limits.MaxRows,
		})
		if err != nil {
			writePenError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toPenResponse(p, nil))
	}
}

// listPensHandler godoc
// @Summary Listar corrales
// @Description Incluye la cantidad de animales activos en cada corral.
// @Tags pens
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param farmID path string true "ID de la granja"
// @Success 200 {array} penResponse
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "farm not found"
// @Router /farms/{farmID}/pens [get]
func listPensHandler(svc *Service, access *farms.Access) http.HandlerFunc {
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

		items, err := svc.ListByFarm(r.Context(), f.ID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]penResponse, 0, len(items))
		for _, p := range items {
			n, err := svc.Occupied(r.Context(), f.ID, p.ID)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			out = append(out, toPenResponse(p, &n))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// deletePenHandler godoc
// @Summary Eliminar corral
// @Description Requiere `pens:write`. Falla con 409 si hay animales activos adentro.
// @Tags pens
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param farmID path string true "ID de la granja"
// @Param penID path string true "ID del corral"
// @Success 204
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pen not found"
// @Failure 409 {string} string "pen is occupied"
// @Router /farms/{farmID}/pens/{penID} [delete]
func deletePenHandler(svc *Service, access *farms.Access) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		f, err := access.Check(r.Context(), chi.URLParam(r, "farmID"), claims.UserID, accessgrants.ScopePensWrite)
		if err != nil {
			farms.WriteAccessError(w, err)
			return
		}

		if err := svc.Delete(r.Context(), f.ID, chi.URLParam(r, "penID")); err != nil {
			writePenError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writePenError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, "name and row_name required, capacity >= 0", http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrLimitReached):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrRowFull), errors.Is(err, ErrOccupied):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toPenResponse(p Pen, occupied *int) penResponse {
	return penResponse{
		ID:        p.ID,
		FarmID:    p.FarmID,
		Name:      p.Name,
		RowName:   p.RowName,
		Capacity:  p.Capacity,
		Occupied:  occupied,
		CreatedAt: p.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
