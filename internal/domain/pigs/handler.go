package pigs

import (
	"encoding/json"
	"errors"
	"math"
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
	r.Route("/farms/{farmID}/pigs", func(pr chi.Router) {
		pr.Post("/", createPigHandler(svc, access, plans))
		pr.Get("/", listPigsHandler(svc, access))
		pr.Get("/{pigID}", getPigHandler(svc, access))
		pr.Patch("/{pigID}", updatePigHandler(svc, access))
		pr.Post("/{pigID}/transfer", transferPigHandler(svc, access))
		pr.Get("/{pigID}/transfers", listTransfersHandler(svc, access))
		pr.Post("/{pigID}/remove", removePigHandler(svc, access))
	})
}

type createPigRequest struct {
	Name           string  `json:"name"`
	Gender         string  `json:"gender" enums:"male,female"`
	Breed          string  `json:"breed"`
	Color          string  `json:"color"`
	Weight         float64 `json:"weight"`
	BirthDate      string  `json:"birth_date" example:"2025-01-15"`
	PenID          string  `json:"pen_id"`
	ParentMaleID   string  `json:"parent_male_id"`
	ParentFemaleID string  `json:"parent_female_id"`
	Notes          string  `json:"notes"`
}

type updatePigRequest struct {
	Name           *string  `json:"name"`
	Breed          *string  `json:"breed"`
	Color          *string  `json:"color"`
	Weight         *float64 `json:"weight"`
	BirthDate      *string  `json:"birth_date"`
	ParentMaleID   *string  `json:"parent_male_id"`
	ParentFemaleID *string  `json:"parent_female_id"`
	Notes          *string  `json:"notes"`
}

type transferRequest struct {
	NewPenID       string `json:"new_pen_id"`
	TransferReason string `json:"transfer_reason" enums:"quarantine,cannibalism_prevention,breeding_program,overcrowding,facility_maintenance,social_grouping,other"`
	TransferNotes  string `json:"transfer_notes"`
}

type removeRequest struct {
	Status string `json:"status" enums:"sold,removed,dead"`
	Reason string `json:"reason"`
	Notes  string `json:"notes"`
	Date   string `json:"date"`
}

type pigResponse struct {
	ID                 string          `json:"id"`
	FarmID             string          `json:"farm_id"`
	Tag                string          `json:"tag"`
	Name               string          `json:"name"`
	Gender             breeding.Gender `json:"gender"`
	Breed              string          `json:"breed,omitempty"`
	Color              string          `json:"color,omitempty"`
	Weight             float64         `json:"weight"`
	BirthDate          string          `json:"birth_date,omitempty"`
	PenID              string          `json:"pen_id,omitempty"`
	ParentMaleID       string          `json:"parent_male_id,omitempty"`
	ParentFemaleID     string          `json:"parent_female_id,omitempty"`
	IsPregnant         bool            `json:"is_pregnant"`
	PregnancyStartDate string          `json:"pregnancy_start_date,omitempty"`
	ExpectedBirthDate  string          `json:"expected_birth_date,omitempty"`
	ActualBirthDate    string          `json:"actual_birth_date,omitempty"`
	MatedWith          string          `json:"mated_with,omitempty"`
	TotalLitters       int             `json:"total_litters"`
	TotalPiglets       int             `json:"total_piglets"`
	Status             Status          `json:"status"`
	RemovalReason      string          `json:"removal_reason,omitempty"`
	RemovalNotes       string          `json:"removal_notes,omitempty"`
	RemovedAt          string          `json:"removed_at,omitempty"`
	Notes              string          `json:"notes,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

type pigProfileResponse struct {
	pigResponse
	AgeMonths *float64          `json:"age_months,omitempty"`
	Maturity  breeding.Maturity `json:"maturity"`
}

type transferResponse struct {
	ID            string         `json:"id"`
	PigID         string         `json:"pig_id"`
	FromPenID     string         `json:"old_pen_id,omitempty"`
	ToPenID       string         `json:"new_pen_id"`
	Reason        TransferReason `json:"transfer_reason"`
	Notes         string         `json:"transfer_notes,omitempty"`
	TransferredBy string         `json:"transferred_by_user,omitempty"`
	TransferredAt time.Time      `json:"transferred_at"`
}

// createPigHandler godoc
// @Summary Registrar animal
// @Description Requiere `pigs:write`. El tag se genera con las iniciales de la granja. El plan del dueño limita los animales activos.
// @Tags pigs
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param farmID path string true "ID de la granja"
// @Param payload body createPigRequest true "Datos del animal"
// @Success 201 {object} pigResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 403 {string} string "forbidden / plan limit reached"
// @Failure 404 {string} string "farm not found / pen not found"
// @Failure 409 {string} string "pen is full"
// @Router /farms/{farmID}/pigs [post]
func createPigHandler(svc *Service, access *farms.Access, plans capabilities.CapabilitiesResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		f, err := access.Check(r.Context(), chi.URLParam(r, "farmID"), claims.UserID, accessgrants.ScopePigsWrite)
		if err != nil {
			farms.WriteAccessError(w, err)
			return
		}

		var req createPigRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		birth, err := parseOptionalDate(req.BirthDate)
		if err != nil {
			http.Error(w, "invalid birth_date", http.StatusBadRequest)
			return
		}

		limits, err := plans.Limits(r.Context(), f.OwnerUserID)
		if err != nil {
			http.Error(w, "plan lookup failed", http.StatusBadGateway)
			return
		}

		p, err := svc.Create(r.Context(), CreateInput{
			FarmID:         f.ID,
			FarmName:       f.Name,
			Name:           req.Name,
			Gender:         req.Gender,
			Breed:          req.Breed,
			Color:          req.Color,
			Weight:         req.Weight,
			BirthDate:      birth,
			PenID:          req.PenID,
			ParentMaleID:   req.ParentMaleID,
			ParentFemaleID: req.ParentFemaleID,
			Notes:          req.Notes,
			MaxPigs:        limits.MaxPigs,
		})
		if err != nil {
			writePigError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toPigResponse(p))
	}
}

// listPigsHandler godoc
// @Summary Listar animales
// @Tags pigs
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param farmID path string true "ID de la granja"
// @Param status query string false "active | sold | removed | dead"
// @Param gender query string false "male | female"
// @Success 200 {array} pigResponse
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "farm not found"
// @Router /farms/{farmID}/pigs [get]
func listPigsHandler(svc *Service, access *farms.Access) http.HandlerFunc {
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

		q := r.URL.Query()
		items, err := svc.List(r.Context(), f.ID, ListFilter{
			Status: Status(strings.TrimSpace(q.Get("status"))),
			Gender: breeding.Gender(strings.ToLower(strings.TrimSpace(q.Get("gender")))),
		})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]pigResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPigResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getPigHandler godoc
// @Summary Ver animal
// @Description Incluye la edad en meses y si tiene edad de servicio.
// @Tags pigs
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param farmID path string true "ID de la granja"
// @Param pigID path string true "ID del animal"
// @Success 200 {object} pigProfileResponse
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pig not found"
// @Router /farms/{farmID}/pigs/{pigID} [get]
func getPigHandler(svc *Service, access *farms.Access) http.HandlerFunc {
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

		p, err := svc.Get(r.Context(), f.ID, chi.URLParam(r, "pigID"))
		if err != nil {
			writePigError(w, err)
			return
		}

		prof := svc.Profile(p)
		out := pigProfileResponse{pigResponse: toPigResponse(p), Maturity: prof.Maturity}
		if prof.AgeMonths != nil {
			m := math.Round(*prof.AgeMonths*10) / 10
			out.AgeMonths = &m
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// updatePigHandler godoc
// @Summary Actualizar animal
// @Description Requiere `pigs:write`. El corral se cambia con /transfer.
// @Tags pigs
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param farmID path string true "ID de la granja"
// @Param pigID path string true "ID del animal"
// @Param payload body updatePigRequest true "Campos a cambiar"
// @Success 200 {object} pigResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pig not found"
// @Router /farms/{farmID}/pigs/{pigID} [patch]
func updatePigHandler(svc *Service, access *farms.Access) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		f, err := access.Check(r.Context(), chi.URLParam(r, "farmID"), claims.UserID, accessgrants.ScopePigsWrite)
		if err != nil {
			farms.WriteAccessError(w, err)
			return
		}

		var req updatePigRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{
			Name:           req.Name,
			Breed:          req.Breed,
			Color:          req.Color,
			Weight:         req.Weight,
			ParentMaleID:   req.ParentMaleID,
			ParentFemaleID: req.ParentFemaleID,
			Notes:          req.Notes,
		}
		if req.BirthDate != nil {
			birth, err := parseOptionalDate(*req.BirthDate)
			if err != nil || birth == nil {
				http.Error(w, "invalid birth_date", http.StatusBadRequest)
				return
			}
			in.BirthDate = birth
		}

		p, err := svc.Update(r.Context(), f.ID, chi.URLParam(r, "pigID"), in)
		if err != nil {
			writePigError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPigResponse(p))
	}
}

// transferPigHandler godoc
// @Summary Transferir animal a otro corral
// @Description Requiere `pigs:write`. Falla con 409 si el corral destino está lleno.
// @Tags pigs
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param farmID path string true "ID de la granja"
// @Param pigID path string true "ID del animal"
// @Param payload body transferRequest true "Corral destino y motivo"
// @Success 200 {object} transferResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 404 {string} string "pig not found / pen not found"
// @Failure 409 {string} string "pen is full / pig is not active"
// @Router /farms/{farmID}/pigs/{pigID}/transfer [post]
func transferPigHandler(svc *Service, access *farms.Access) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		f, err := access.Check(r.Context(), chi.URLParam(r, "farmID"), claims.UserID, accessgrants.ScopePigsWrite)
		if err != nil {
			farms.WriteAccessError(w, err)
			return
		}

		var req transferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		_, t, err := svc.Transfer(r.Context(), TransferInput{
			FarmID:   f.ID,
			PigID:    chi.URLParam(r, "pigID"),
			NewPenID: req.NewPenID,
			Reason:   req.TransferReason,
			Notes:    req.TransferNotes,
			UserID:   claims.UserID,
		})
		if err != nil {
			writePigError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toTransferResponse(t))
	}
}

// listTransfersHandler godoc
// @Summary Historial de transferencias
// @Tags pigs
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param farmID path string true "ID de la granja"
// @Param pigID path string true "ID del animal"
// @Success 200 {array} transferResponse
// @Failure 404 {string} string "pig not found"
// @Router /farms/{farmID}/pigs/{pigID}/transfers [get]
func listTransfersHandler(svc *Service, access *farms.Access) http.HandlerFunc {
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

		items, err := svc.Transfers(r.Context(), f.ID, chi.URLParam(r, "pigID"))
		if err != nil {
			writePigError(w, err)
			return
		}
		out := make([]transferResponse, 0, len(items))
		for _, t := range items {
			out = append(out, toTransferResponse(t))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// removePigHandler godoc
// @Summary Dar de baja animal
// @Description Requiere `pigs:write`. status: sold, removed o dead.
// @Tags pigs
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param farmID path string true "ID de la granja"
// @Param pigID path string true "ID del animal"
// @Param payload body removeRequest true "Motivo de la baja"
// @Success 200 {object} pigResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 404 {string} string "pig not found"
// @Failure 409 {string} string "pig is not active"
// @Router /farms/{farmID}/pigs/{pigID}/remove [post]
func removePigHandler(svc *Service, access *farms.Access) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		f, err := access.Check(r.Context(), chi.URLParam(r, "farmID"), claims.UserID, accessgrants.ScopePigsWrite)
		if err != nil {
			farms.WriteAccessError(w, err)
			return
		}

		var req removeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		at, err := parseOptionalDate(req.Date)
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}

		p, err := svc.Remove(r.Context(), f.ID, chi.URLParam(r, "pigID"), RemoveInput{
			Status: req.Status,
			Reason: req.Reason,
			Notes:  req.Notes,
			Date:   at,
		})
		if err != nil {
			writePigError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPigResponse(p))
	}
}

func writePigError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrPenNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrLimitReached):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrPenFull), errors.Is(err, ErrNotActive), errors.Is(err, ErrSamePen), errors.Is(err, ErrNotPregnant):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// parseOptionalDate: "" => nil.
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

func toPigResponse(p Pig) pigResponse {
	return pigResponse{
		ID:                 p.ID,
		FarmID:             p.FarmID,
		Tag:                p.Tag,
		Name:               p.Name,
		Gender:             p.Gender,
		Breed:              p.Breed,
		Color:              p.Color,
		Weight:             p.Weight,
		BirthDate:          formatOptional(p.BirthDate),
		PenID:              p.PenID,
		ParentMaleID:       p.ParentMaleID,
		ParentFemaleID:     p.ParentFemaleID,
		IsPregnant:         p.IsPregnant,
		PregnancyStartDate: formatOptional(p.PregnancyStartDate),
		ExpectedBirthDate:  formatOptional(p.ExpectedBirthDate),
		ActualBirthDate:    formatOptional(p.ActualBirthDate),
		MatedWith:          p.MatedWith,
		TotalLitters:       p.TotalLitters,
		TotalPiglets:       p.TotalPiglets,
		Status:             p.Status,
		RemovalReason:      p.RemovalReason,
		RemovalNotes:       p.RemovalNotes,
		RemovedAt:          formatOptional(p.RemovedAt),
		Notes:              p.Notes,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func toTransferResponse(t Transfer) transferResponse {
	return transferResponse{
		ID:            t.ID,
		PigID:         t.PigID,
		FromPenID:     t.FromPenID,
		ToPenID:       t.ToPenID,
		Reason:        t.Reason,
		Notes:         t.Notes,
		TransferredBy: t.TransferredBy,
		TransferredAt: t.TransferredAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
