// Package farmapi lee pigs de un backend de granja remoto, para evaluar
// alertas sin base local.
package farmapi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"pig-farm/internal/domain/breeding"
	"pig-farm/internal/platform/httpclient"
)

var ErrFarmRequired = errors.New("farm id required")

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type Client struct {
	http  *httpclient.Client
	token string
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("farmapi: base url required")
	}
	hc, err := httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Client{http: hc, token: cfg.Token}, nil
}

// remotePig: el backend manda pen_id y parents como número o string según
// la versión; solo nos quedamos con lo que usa el motor.
type remotePig struct {
	ID                 flexString      `json:"id"`
	Name               string          `json:"name"`
	PenID              flexString      `json:"pen_id"`
	Gender             breeding.Gender `json:"gender"`
	BirthDate          string          `json:"birth_date"`
	Breed              string          `json:"breed"`
	Color              string          `json:"color"`
	IsPregnant         bool            `json:"is_pregnant"`
	PregnancyStartDate string          `json:"pregnancy_start_date"`
	ExpectedBirthDate  string          `json:"expected_birth_date"`
	ActualBirthDate    string          `json:"actual_birth_date"`
	MatedWith          string          `json:"mated_with"`
	ParentMaleID       flexString      `json:"parent_male_id"`
	ParentFemaleID     flexString      `json:"parent_female_id"`
}

func (p remotePig) toAnimal() breeding.Animal {
	return breeding.Animal{
		ID:                 string(p.ID),
		Name:               p.Name,
		PenID:              string(p.PenID),
		Gender:             breeding.Gender(strings.ToLower(string(p.Gender))),
		BirthDate:          p.BirthDate,
		Breed:              p.Breed,
		Color:              p.Color,
		IsPregnant:         p.IsPregnant,
		PregnancyStartDate: p.PregnancyStartDate,
		ExpectedBirthDate:  p.ExpectedBirthDate,
		ActualBirthDate:    p.ActualBirthDate,
		MatedWith:          p.MatedWith,
		ParentMaleID:       string(p.ParentMaleID),
		ParentFemaleID:     string(p.ParentFemaleID),
	}
}

// ListPigs: GET {base}/pigs/{farmID}.
func (c *Client) ListPigs(ctx context.Context, farmID string) ([]breeding.Animal, error) {
	farmID = strings.TrimSpace(farmID)
	if farmID == "" {
		return nil, ErrFarmRequired
	}

	var rows []remotePig
	if err := c.http.GetEnvelope(ctx, "/pigs/"+url.PathEscape(farmID), httpclient.Bearer(c.token), &rows); err != nil {
		return nil, fmt.Errorf("farmapi: list pigs: %w", err)
	}

	out := make([]breeding.Animal, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toAnimal())
	}
	return out, nil
}
