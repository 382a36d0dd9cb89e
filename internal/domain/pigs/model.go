package pigs

import (
	"time"

	"pig-farm/internal/domain/breeding"
)

// Status del animal en la granja. Solo los activos ocupan corral, cuentan
// para el plan y generan alertas.
type Status string

const (
	StatusActive  Status = "active"
	StatusSold    Status = "sold"
	StatusRemoved Status = "removed"
	StatusDead    Status = "dead"
)

var removalStatuses = map[Status]struct{}{
	StatusSold:    {},
	StatusRemoved: {},
	StatusDead:    {},
}

type TransferReason string

const (
	ReasonQuarantine            TransferReason = "quarantine"
	ReasonCannibalismPrevention TransferReason = "cannibalism_prevention"
	ReasonBreedingProgram       TransferReason = "breeding_program"
	ReasonOvercrowding          TransferReason = "overcrowding"
	ReasonFacilityMaintenance   TransferReason = "facility_maintenance"
	ReasonSocialGrouping        TransferReason = "social_grouping"
	ReasonOther                 TransferReason = "other"
)

var transferReasons = map[TransferReason]struct{}{
	ReasonQuarantine:            {},
	ReasonCannibalismPrevention: {},
	ReasonBreedingProgram:       {},
	ReasonOvercrowding:          {},
	ReasonFacilityMaintenance:   {},
	ReasonSocialGrouping:        {},
	ReasonOther:                 {},
}

// Pig es el registro completo del animal.
type Pig struct {
	ID     string
	FarmID string

	Tag  string // <iniciales de la granja>-NNN
	Name string

	Gender breeding.Gender
	Breed  string
	Color  string
	Weight float64

	BirthDate *time.Time
	PenID     string

	ParentMaleID   string
	ParentFemaleID string

	IsPregnant         bool
	PregnancyStartDate *time.Time
	ExpectedBirthDate  *time.Time
	ActualBirthDate    *time.Time
	MatedWith          string

	TotalLitters int
	TotalPiglets int

	Status        Status
	RemovalReason string
	RemovalNotes  string
	RemovedAt     *time.Time

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Pig) IsActive() bool { return p.Status == StatusActive }

// ToAnimal arma el registro que evalúa el motor de reglas.
func (p Pig) ToAnimal() breeding.Animal {
	return breeding.Animal{
		ID:                 p.ID,
		Name:               p.Name,
		PenID:              p.PenID,
		Gender:             p.Gender,
		BirthDate:          formatOptional(p.BirthDate),
		Breed:              p.Breed,
		Color:              p.Color,
		IsPregnant:         p.IsPregnant,
		PregnancyStartDate: formatOptional(p.PregnancyStartDate),
		ExpectedBirthDate:  formatOptional(p.ExpectedBirthDate),
		ActualBirthDate:    formatOptional(p.ActualBirthDate),
		MatedWith:          p.MatedWith,
		ParentMaleID:       p.ParentMaleID,
		ParentFemaleID:     p.ParentFemaleID,
	}
}

// Transfer registra un cambio de corral.
type Transfer struct {
	ID     string
	FarmID string
	PigID  string

	FromPenID string // "" si el animal no tenía corral
	ToPenID   string

	Reason TransferReason
	Notes  string

	TransferredBy string
	TransferredAt time.Time
}

func formatOptional(t *time.Time) string {
	if t == nil {
		return ""
	}
	return breeding.FormatDate(*t)
}
