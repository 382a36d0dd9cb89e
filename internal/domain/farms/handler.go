package farms

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"pig-farm/internal/domain/accessgrants"
	"pig-farm/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service, access *Access) {
	r.Route("/farms", func(fr chi.Router) {
		fr.Post("/", createFarmHandler(svc))
		fr.Get("/", listFarmsHandler(svc))
		fr.Get("/{farmID}", getFarmHandler(access))
		fr.Patch("/{farmID}", updateFarmHandler(svc, access))
	})

	r.Get("/me/farms", listSharedFarmsHandler(access))
}

type createFarmRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

type updateFarmRequest struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
}

type farmResponse struct {
	ID          string    `json:"id"`
	OwnerUserID string    `json:"owner_user_id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// createFarmHandler godoc
// @Summary Crear granja
// @Tags farms
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createFarmRequest true "Datos de la granja"
// @Success 201 {object} farmResponse
// @Failure 400 {string} string "invalid json / name required"
// @Failure 401 {string} string "unauthorized"
// @Router /farms [post]
func createFarmHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createFarmRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		f, err := svc.Create(r.Context(), claims.UserID, CreateInput{Name: req.Name, Location: req.Location})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "name required", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, toFarmResponse(f))
	}
}

// listFarmsHandler godoc
// @Summary Listar mis granjas
// @Tags farms
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} farmResponse
// @Failure 401 {string} string "unauthorized"
// @Router /farms [get]
func listFarmsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toFarmResponses(items))
	}
}

// listSharedFarmsHandler godoc
// @Summary Granjas compartidas conmigo
// @Tags farms
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} farmResponse
// @Failure 401 {string} string "unauthorized"
// @Router /me/farms [get]
func listSharedFarmsHandler(access *Access) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := access.Shared(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toFarmResponses(items))
	}
}

// getFarmHandler godoc
// @Summary Ver granja
// @Description Dueño o usuario con grant activo `farm:read`.
// @Tags farms
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param farmID path string true "ID de la granja"
// @Success 200 {object} farmResponse
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "farm not found"
// @Router /farms/{farmID} [get]
func getFarmHandler(access *Access) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		f, err := access.Check(r.Context(), chi.URLParam(r, "farmID"), claims.UserID, accessgrants.ScopeFarmRead)
		if err != nil {
			WriteAccessError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toFarmResponse(f))
	}
}

// updateFarmHandler godoc
// @Summary Actualizar granja
// @Description Solo el dueño.
// @Tags farms
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param farmID path string true "ID de la granja"
// @Param payload body updateFarmRequest true "Campos a cambiar"
// @Success 200 {object} farmResponse
// @Failure 400 {string} string "invalid json"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "farm not found"
// @Router /farms/{farmID} [patch]
func updateFarmHandler(svc *Service, access *Access) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		farmID := chi.URLParam(r, "farmID")
		f, err := access.Check(r.Context(), farmID, claims.UserID, accessgrants.ScopeFarmRead)
		if err != nil {
			WriteAccessError(w, err)
			return
		}
		if f.OwnerUserID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req updateFarmRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		updated, err := svc.Update(r.Context(), farmID, UpdateInput{Name: req.Name, Location: req.Location})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "name cannot be empty", http.StatusBadRequest)
				return
			}
			WriteAccessError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toFarmResponse(updated))
	}
}

// WriteAccessError traduce errores de Access.Check a HTTP. Lo usan los
// handlers de los demás módulos.
func WriteAccessError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "farm not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toFarmResponse(f Farm) farmResponse {
	return farmResponse{
		ID:          f.ID,
		OwnerUserID: f.OwnerUserID,
		Name:        f.Name,
		Location:    f.Location,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func toFarmResponses(items []Farm) []farmResponse {
	out := make([]farmResponse, 0, len(items))
	for _, f := range items {
		out = append(out, toFarmResponse(f))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
