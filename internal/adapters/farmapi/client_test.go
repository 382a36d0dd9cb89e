package farmapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pig-farm/internal/domain/breeding"
)

func TestListPigs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "/api/pigs/7", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":[
			{"id":12,"name":"Rosa","pen_id":3,"gender":"Female","birth_date":"2024-01-01",
			 "is_pregnant":true,"pregnancy_start_date":"2025-03-01","parent_male_id":null},
			{"id":"13","name":"Toro","pen_id":null,"gender":"male","parent_female_id":"9"}
		]}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL + "/api", Token: "tok"})
	require.NoError(t, err)

	pigs, err := c.ListPigs(context.Background(), "7")
	require.NoError(t, err)
	require.Len(t, pigs, 2)

	assert.Equal(t, breeding.Animal{
		ID:                 "12",
		Name:               "Rosa",
		PenID:              "3",
		Gender:             breeding.GenderFemale,
		BirthDate:          "2024-01-01",
		IsPregnant:         true,
		PregnancyStartDate: "2025-03-01",
	}, pigs[0])
	assert.Equal(t, "", pigs[1].PenID)
	assert.Equal(t, "9", pigs[1].ParentFemaleID)
	assert.Equal(t, breeding.GenderMale, pigs[1].Gender)
}

func TestListPigs_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"farm not found"}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.ListPigs(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrFarmRequired)

	_, err = c.ListPigs(context.Background(), "7")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "farm not found")

	_, err = NewClient(Config{})
	assert.Error(t, err)
}
