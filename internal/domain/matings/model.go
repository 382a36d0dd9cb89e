package matings

import "time"

// Record es una monta registrada y, más tarde, su parto.
type Record struct {
	ID     string
	FarmID string

	SowID    string
	BoarID   string
	SowName  string
	BoarName string

	MatingDate        time.Time
	ExpectedBirthDate time.Time

	// nil hasta que se registra el parto
	ActualBirthDate *time.Time
	LitterSize      *int

	Notes     string
	CreatedBy string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r Record) BirthRecorded() bool { return r.ActualBirthDate != nil }
