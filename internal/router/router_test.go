package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pig-farm/internal/adapters/storage/sqldb"
	"pig-farm/internal/config"
	"pig-farm/internal/domain/accessgrants"
	"pig-farm/internal/domain/breeding"
	"pig-farm/internal/router"
)

func newServer(t *testing.T, db *sqldb.DB) *httptest.Server {
	t.Helper()
	h, err := router.NewRouter(router.Options{Config: config.Default(), DB: db})
	require.NoError(t, err)
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func doReq(t *testing.T, baseURL, method, path, userID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-Debug-User-ID", userID)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b
}

func mustJSON[T any](t *testing.T, status, want int, raw []byte) T {
	t.Helper()
	require.Equal(t, want, status, string(raw))
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

type idResp struct {
	ID string `json:"id"`
}

func TestHTTP_EndToEnd_Memory(t *testing.T) {
	runFarmFlow(t, newServer(t, nil).URL)
}

func TestHTTP_EndToEnd_SQLite(t *testing.T) {
	db, err := sqldb.Open(context.Background(), sqldb.DriverSQLite, filepath.Join(t.TempDir(), "farm.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	runFarmFlow(t, newServer(t, db).URL)
}

func runFarmFlow(t *testing.T, url string) {
	const (
		owner  = "owner-1"
		worker = "worker-1"
	)
	now := time.Now().UTC()
	date := func(daysAgo int) string { return breeding.FormatDate(now.AddDate(0, 0, -daysAgo)) }

	// 1) sin usuario
	st, _ := doReq(t, url, http.MethodGet, "/farms", "", nil)
	require.Equal(t, http.StatusUnauthorized, st)

	// 2) granja y corral
	st, raw := doReq(t, url, http.MethodPost, "/farms", owner, map[string]any{"name": "La Esperanza"})
	farmID := mustJSON[idResp](t, st, http.StatusCreated, raw).ID
	base := "/farms/" + farmID

	st, raw = doReq(t, url, http.MethodPost, base+"/pens", owner, map[string]any{"name": "A1", "row_name": "A", "capacity": 4})
	penID := mustJSON[idResp](t, st, http.StatusCreated, raw).ID

	// 3) animales
	type pigResp struct {
		ID         string `json:"id"`
		Tag        string `json:"tag"`
		IsPregnant bool   `json:"is_pregnant"`
		MatedWith  string `json:"mated_with"`
	}
	st, raw = doReq(t, url, http.MethodPost, base+"/pigs", owner, map[string]any{
		"name": "Rosa", "gender": "female", "birth_date": date(700), "pen_id": penID,
	})
	sow := mustJSON[pigResp](t, st, http.StatusCreated, raw)
	assert.Equal(t, "LE-001", sow.Tag)

	st, raw = doReq(t, url, http.MethodPost, base+"/pigs", owner, map[string]any{
		"name": "Toro", "gender": "male", "birth_date": date(800), "pen_id": penID,
	})
	boar := mustJSON[pigResp](t, st, http.StatusCreated, raw)

	// 4) compatibilidad y monta
	st, raw = doReq(t, url, http.MethodPost, base+"/breedings/compatibility", owner, map[string]any{"sow_id": sow.ID, "boar_id": boar.ID})
	compat := mustJSON[breeding.Compatibility](t, st, http.StatusOK, raw)
	assert.True(t, compat.Compatible)
	assert.Equal(t, "Compatible for breeding", compat.Reason)

	st, raw = doReq(t, url, http.MethodPost, base+"/breedings", owner, map[string]any{
		"sow_id": sow.ID, "boar_id": boar.ID, "mating_date": date(113),
	})
	type breedingResp struct {
		ID                string `json:"id"`
		ExpectedBirthDate string `json:"expected_birth_date"`
	}
	rec := mustJSON[breedingResp](t, st, http.StatusCreated, raw)
	assert.Equal(t, date(-1), rec.ExpectedBirthDate)

	st, raw = doReq(t, url, http.MethodGet, base+"/pigs/"+sow.ID, owner, nil)
	got := mustJSON[pigResp](t, st, http.StatusOK, raw)
	assert.True(t, got.IsPregnant)
	assert.Equal(t, "Toro", got.MatedWith)

	// una hembra preñada ya no es compatible
	st, raw = doReq(t, url, http.MethodPost, base+"/breedings/compatibility", owner, map[string]any{"sow_id": sow.ID, "boar_id": boar.ID})
	compat = mustJSON[breeding.Compatibility](t, st, http.StatusOK, raw)
	assert.False(t, compat.Compatible)
	assert.Equal(t, "Sow is currently pregnant", compat.Reason)

	// 5) el trabajador no ve nada hasta aceptar la invitación
	st, _ = doReq(t, url, http.MethodGet, base, worker, nil)
	require.Equal(t, http.StatusForbidden, st)

	st, raw = doReq(t, url, http.MethodPost, base+"/grants", owner, map[string]any{
		"grantee_user_id": worker,
		"scopes":          []string{string(accessgrants.ScopeFarmRead)},
	})
	grantID := mustJSON[idResp](t, st, http.StatusCreated, raw).ID

	st, _ = doReq(t, url, http.MethodPost, "/grants/"+grantID+"/accept", worker, nil)
	require.Equal(t, http.StatusOK, st)

	// 6) alertas: el parto esperado mañana aparece para el trabajador
	type alertsResp struct {
		Alerts []breeding.Alert `json:"alerts"`
	}
	st, raw = doReq(t, url, http.MethodGet, base+"/alerts", worker, nil)
	alerts := mustJSON[alertsResp](t, st, http.StatusOK, raw)
	require.NotEmpty(t, alerts.Alerts)
	assert.Equal(t, breeding.AlertBirthExpected, alerts.Alerts[0].Type)
	assert.Equal(t, "Rosa (A1) - Expected to give birth in 1 days", alerts.Alerts[0].Message)

	// solo lectura: no puede registrar animales
	st, _ = doReq(t, url, http.MethodPost, base+"/pigs", worker, map[string]any{"name": "X", "gender": "male"})
	assert.Equal(t, http.StatusForbidden, st)

	// 7) parto
	st, _ = doReq(t, url, http.MethodPost, base+"/breedings/"+rec.ID+"/birth", owner, map[string]any{
		"actual_birth_date": date(0), "litter_size": 10,
	})
	require.Equal(t, http.StatusOK, st)

	st, raw = doReq(t, url, http.MethodGet, base+"/pigs/"+sow.ID, owner, nil)
	got = mustJSON[pigResp](t, st, http.StatusOK, raw)
	assert.False(t, got.IsPregnant)

	// 8) un corral ocupado no se borra
	st, _ = doReq(t, url, http.MethodDelete, base+"/pens/"+penID, owner, nil)
	assert.Equal(t, http.StatusConflict, st)
}

func TestHTTP_HealthAndMetrics(t *testing.T) {
	ts := newServer(t, nil)

	st, body := doReq(t, ts.URL, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, st)
	assert.Equal(t, "ok", string(body))

	st, body = doReq(t, ts.URL, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, st)
	assert.Contains(t, string(body), "pigfarm_http_requests_total")

	st, _ = doReq(t, ts.URL, http.MethodGet, "/swagger/doc.json", "", nil)
	assert.Equal(t, http.StatusOK, st)
}

func TestNewRouter_InvalidRules(t *testing.T) {
	cfg := config.Default()
	cfg.Breeding.GestationDays = 0

	_, err := router.NewRouter(router.Options{Config: cfg})
	assert.ErrorIs(t, err, breeding.ErrInvalidRules)
}
