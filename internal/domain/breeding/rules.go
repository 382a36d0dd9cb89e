package breeding

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidRules = errors.New("invalid breeding rules")

// Rules agrupa los parámetros de negocio del ciclo reproductivo.
// Las unidades van en el nombre de cada campo.
type Rules struct {
	MinBreedingAgeMonths float64 `yaml:"min_breeding_age_months" json:"min_breeding_age_months"`
	// DaysPerMonth es el largo de mes promedio usado para la edad (no calendario).
	DaysPerMonth float64 `yaml:"days_per_month" json:"days_per_month"`

	GestationDays       int `yaml:"gestation_days" json:"gestation_days"`
	NestingBoxStartDays int `yaml:"nesting_box_start_days" json:"nesting_box_start_days"`
	// NestingBoxEndDays es exclusivo.
	NestingBoxEndDays int `yaml:"nesting_box_end_days" json:"nesting_box_end_days"`

	WeaningDays                  int `yaml:"weaning_days" json:"weaning_days"`
	PostWeaningBreedingDelayDays int `yaml:"post_weaning_breeding_delay_days" json:"post_weaning_breeding_delay_days"`
	FosteringDay                 int `yaml:"fostering_day" json:"fostering_day"`

	MaxAlerts int `yaml:"max_alerts" json:"max_alerts"`
}

func DefaultRules() Rules {
	return Rules{
		MinBreedingAgeMonths:         4,
		DaysPerMonth:                 30.42,
		GestationDays:                114,
		NestingBoxStartDays:          110,
		NestingBoxEndDays:            112,
		WeaningDays:                  42,
		PostWeaningBreedingDelayDays: 7,
		FosteringDay:                 20,
		MaxAlerts:                    15,
	}
}

// Validate no corrige nada: un valor mal configurado es error.
func (r Rules) Validate() error {
	switch {
	case r.MinBreedingAgeMonths <= 0:
		return fmt.Errorf("%w: min_breeding_age_months must be > 0", ErrInvalidRules)
	case r.DaysPerMonth <= 0:
		return fmt.Errorf("%w: days_per_month must be > 0", ErrInvalidRules)
	case r.GestationDays <= 0:
		return fmt.Errorf("%w: gestation_days must be > 0", ErrInvalidRules)
	case r.NestingBoxStartDays <= 0:
		return fmt.Errorf("%w: nesting_box_start_days must be > 0", ErrInvalidRules)
	case r.NestingBoxEndDays <= r.NestingBoxStartDays:
		return fmt.Errorf("%w: nesting_box_end_days must be after nesting_box_start_days", ErrInvalidRules)
	case r.NestingBoxEndDays > r.GestationDays:
		return fmt.Errorf("%w: nesting box window must end before gestation_days", ErrInvalidRules)
	case r.WeaningDays <= 0:
		return fmt.Errorf("%w: weaning_days must be > 0", ErrInvalidRules)
	case r.PostWeaningBreedingDelayDays < 0:
		return fmt.Errorf("%w: post_weaning_breeding_delay_days must be >= 0", ErrInvalidRules)
	case r.FosteringDay <= 0:
		return fmt.Errorf("%w: fostering_day must be > 0", ErrInvalidRules)
	case r.MaxAlerts <= 0:
		return fmt.Errorf("%w: max_alerts must be > 0", ErrInvalidRules)
	}
	return nil
}

func (r Rules) monthLength() time.Duration {
	return time.Duration(r.DaysPerMonth * float64(day))
}

func (r Rules) gestation() time.Duration { return days(r.GestationDays) }
func (r Rules) weaning() time.Duration   { return days(r.WeaningDays) }
func (r Rules) postWeaningDelay() time.Duration {
	return days(r.PostWeaningBreedingDelayDays)
}

const day = 24 * time.Hour

func days(n int) time.Duration { return time.Duration(n) * day }
