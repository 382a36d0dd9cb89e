// Package breeding implementa las reglas de elegibilidad reproductiva y
// las alertas del ciclo (preñez, paridera, destete, nuevo servicio).
//
// Todo es cálculo puro sobre una foto de los animales y un "now" explícito:
// no hay I/O ni estado compartido. El único estado entre llamadas es el
// NotifiedSet, que el llamador recibe y devuelve.
package breeding

import (
	"math"
	"time"

	"pig-farm/internal/platform/logger"
)

type Engine struct {
	rules Rules
	log   logger.Logger
}

// NewEngine valida las reglas; log puede ser nil.
func NewEngine(rules Rules, log logger.Logger) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{rules: rules, log: log}, nil
}

func (e *Engine) Rules() Rules { return e.rules }

// AgeInMonths usa el mes promedio de Rules.DaysPerMonth.
// ok=false si no hay fecha de nacimiento o no se puede interpretar.
func (e *Engine) AgeInMonths(a Animal, now time.Time) (months float64, ok bool) {
	birth, present, err := ParseDate(a.BirthDate)
	if !present || err != nil {
		return 0, false
	}
	return float64(now.Sub(birth)) / float64(e.rules.monthLength()), true
}

// DaysSince devuelve días completos entre raw y now (floor).
// ok=false si la fecha falta o no se puede interpretar.
func (e *Engine) DaysSince(raw string, now time.Time) (int, bool) {
	t, present, err := ParseDate(raw)
	if !present || err != nil {
		return 0, false
	}
	return floorDays(now.Sub(t)), true
}

// ExpectedBirthDate calcula la fecha probable de parto desde el servicio.
func (e *Engine) ExpectedBirthDate(matingDate time.Time) time.Time {
	return matingDate.Add(e.rules.gestation())
}

// roundHalfUp redondea .5 hacia +inf (también para edades negativas).
func roundHalfUp(f float64) int {
	return int(math.Floor(f + 0.5))
}
