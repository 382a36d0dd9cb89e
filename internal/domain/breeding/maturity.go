package breeding

import (
	"fmt"
	"time"
)

const (
	reasonNoBirthDate      = "Birth date not available"
	reasonInvalidBirthDate = "Birth date is invalid"
	reasonMature           = "Pig is mature"
)

type Maturity struct {
	IsMature bool   `json:"is_mature"`
	Reason   string `json:"reason"`
}

// IsMature decide si el animal tiene edad de servicio. El umbral es inclusivo.
// Una fecha ilegible nunca da "maduro".
func (e *Engine) IsMature(a Animal, now time.Time) Maturity {
	birth, present, err := ParseDate(a.BirthDate)
	if !present {
		return Maturity{IsMature: false, Reason: reasonNoBirthDate}
	}
	if err != nil {
		e.log.Warn("invalid birth_date, treating as not mature", map[string]any{
			"pig_id": a.ID,
			"value":  a.BirthDate,
		})
		return Maturity{IsMature: false, Reason: reasonInvalidBirthDate}
	}

	months := float64(now.Sub(birth)) / float64(e.rules.monthLength())
	if months >= e.rules.MinBreedingAgeMonths {
		return Maturity{IsMature: true, Reason: reasonMature}
	}
	return Maturity{
		IsMature: false,
		Reason:   fmt.Sprintf("Pig is too young (%d months)", roundHalfUp(months)),
	}
}
