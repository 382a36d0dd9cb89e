package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"pig-farm/internal/adapters/farmapi"
	"pig-farm/internal/config"
	"pig-farm/internal/domain/breeding"
	"pig-farm/internal/platform/logger"
)

var (
	alertsFile    string
	alertsAPIURL  string
	alertsFarm    string
	alertsToken   string
	alertsNow     string
	alertsTimeout time.Duration
)

type alertsOutput struct {
	Now          string           `json:"now"`
	Alerts       []breeding.Alert `json:"alerts"`
	NewlyOverdue []string         `json:"newly_overdue"`
}

func runAlerts(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// stdout queda para el JSON; el logger de desarrollo escribe en stderr.
	z, err := zap.NewDevelopment(zap.IncreaseLevel(zap.WarnLevel))
	if err != nil {
		return err
	}
	log := logger.FromZap(z)
	defer logger.Sync(log)

	engine, err := breeding.NewEngine(cfg.Breeding, log)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if alertsNow != "" {
		t, ok, err := breeding.ParseDate(alertsNow)
		if err != nil || !ok {
			return fmt.Errorf("invalid --now %q", alertsNow)
		}
		now = t
	}

	var animals []breeding.Animal
	switch {
	case alertsFile != "":
		animals, err = readAnimals(alertsFile)
	case alertsAPIURL != "":
		animals, err = fetchAnimals(cmd)
	default:
		return errors.New("either --file or --api-url is required")
	}
	if err != nil {
		return err
	}

	report := engine.GenerateAlerts(animals, now, breeding.NewNotifiedSet())

	out := alertsOutput{
		Now:          breeding.FormatDate(now),
		Alerts:       report.Alerts,
		NewlyOverdue: make([]string, 0, len(report.NewlyOverdue)),
	}
	if out.Alerts == nil {
		out.Alerts = []breeding.Alert{}
	}
	for _, a := range report.NewlyOverdue {
		out.NewlyOverdue = append(out.NewlyOverdue, a.ID)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// readAnimals acepta una lista de animales en YAML o JSON según la extensión.
func readAnimals(path string) ([]breeding.Animal, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var animals []breeding.Animal
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(raw, &animals)
	default:
		err = yaml.Unmarshal(raw, &animals)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return animals, nil
}

func fetchAnimals(cmd *cobra.Command) ([]breeding.Animal, error) {
	client, err := farmapi.NewClient(farmapi.Config{
		BaseURL: alertsAPIURL,
		Token:   alertsToken,
		Timeout: alertsTimeout,
	})
	if err != nil {
		return nil, err
	}
	return client.ListPigs(cmd.Context(), alertsFarm)
}
