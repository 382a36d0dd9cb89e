package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pig-farm/internal/domain/breeding"
)

const herdYAML = `
- id: s1
  name: Rosa
  pen_id: A1
  gender: female
  birth_date: "2023-01-01"
  is_pregnant: true
  pregnancy_start_date: "2025-01-03"
  expected_birth_date: "2025-04-25"
- id: b1
  name: Toro
  gender: male
  birth_date: "2023-02-01"
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestReadAnimals(t *testing.T) {
	fromYAML, err := readAnimals(writeFile(t, "herd.yaml", herdYAML))
	require.NoError(t, err)
	require.Len(t, fromYAML, 2)
	assert.Equal(t, breeding.GenderFemale, fromYAML[0].Gender)
	assert.True(t, fromYAML[0].IsPregnant)
	assert.Equal(t, "2025-04-25", fromYAML[0].ExpectedBirthDate)

	fromJSON, err := readAnimals(writeFile(t, "herd.json", `[{"id":"b1","name":"Toro","gender":"male"}]`))
	require.NoError(t, err)
	require.Len(t, fromJSON, 1)
	assert.Equal(t, "Toro", fromJSON[0].Name)

	_, err = readAnimals(writeFile(t, "broken.json", `{`))
	assert.Error(t, err)
}

func TestAlertsCommand_File(t *testing.T) {
	path := writeFile(t, "herd.yaml", herdYAML)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"alerts", "--file", path, "--now", "2025-04-27"})
	require.NoError(t, rootCmd.Execute())

	var got alertsOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))

	assert.Equal(t, "2025-04-27", got.Now)
	assert.Equal(t, []string{"s1"}, got.NewlyOverdue)
	require.NotEmpty(t, got.Alerts)
	assert.Equal(t, "Rosa (A1) - Expected to give birth overdue by 2 days", got.Alerts[0].Message)
	assert.Equal(t, breeding.VariantDestructive, got.Alerts[0].Variant)
}
