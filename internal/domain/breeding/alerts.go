package breeding

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type AlertType string

const (
	AlertPregnancyNoticed AlertType = "Pregnancy Noticed"
	AlertNestingBoxNeeded AlertType = "Nesting Box Needed"
	AlertBirthExpected    AlertType = "Birth Expected"
	AlertFosteringNeeded  AlertType = "Fostering Needed"
	AlertWeaning          AlertType = "Weaning and Nesting Box Removal"
	AlertBreedingReady    AlertType = "Breeding Ready"
)

// Variant es la severidad de la alerta, con los nombres que usa el dashboard.
type Variant string

const (
	VariantDestructive Variant = "destructive" // urgente
	VariantSecondary   Variant = "secondary"
	VariantOutline     Variant = "outline"
)

func (v Variant) rank() int {
	switch v {
	case VariantDestructive:
		return 0
	case VariantSecondary:
		return 1
	default:
		return 2
	}
}

type Alert struct {
	Type    AlertType `json:"type"`
	Message string    `json:"message"`
	Variant Variant   `json:"variant"`
	PigID   string    `json:"pig_id"`
	PenID   string    `json:"pen_id,omitempty"`
}

type AlertReport struct {
	// Alerts ordenadas por severidad y truncadas a Rules.MaxAlerts.
	Alerts []Alert
	// NewlyOverdue: partos atrasados que no estaban en el set recibido.
	NewlyOverdue []Animal
	// Notified es el set recibido más los ids de NewlyOverdue.
	Notified NotifiedSet
}

// GenerateAlerts recorre la población una vez. Cada animal puede aportar
// cero o más alertas; las hembras inmaduras se saltan por completo.
func (e *Engine) GenerateAlerts(animals []Animal, now time.Time, notified NotifiedSet) AlertReport {
	alerts := make([]Alert, 0)
	overdue := make([]Animal, 0)
	overdueIDs := make([]string, 0)
	seen := map[string]struct{}{}

	for _, a := range animals {
		maturity := e.IsMature(a, now)
		if !maturity.IsMature && a.IsFemale() {
			continue
		}

		if a.IsPregnant {
			if isOverdue := e.pregnancyAlerts(a, now, &alerts); isOverdue {
				if _, dup := seen[a.ID]; !dup && !notified.Has(a.ID) {
					seen[a.ID] = struct{}{}
					overdue = append(overdue, a)
					overdueIDs = append(overdueIDs, a.ID)
				}
			}
		}

		if hasValue(a.ActualBirthDate) {
			e.postBirthAlerts(a, now, &alerts)
		}

		if a.IsFemale() && !a.IsPregnant && maturity.IsMature && e.readyForNextCycle(a, now) {
			alerts = append(alerts, newAlert(a, AlertBreedingReady, VariantOutline,
				"Ready for next breeding cycle"))
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Variant.rank() < alerts[j].Variant.rank()
	})
	if len(alerts) > e.rules.MaxAlerts {
		alerts = alerts[:e.rules.MaxAlerts]
	}

	return AlertReport{
		Alerts:       alerts,
		NewlyOverdue: overdue,
		Notified:     notified.With(overdueIDs...),
	}
}

// pregnancyAlerts agrega las alertas de preñez y devuelve true si el parto
// esperado ya pasó sin parto registrado.
func (e *Engine) pregnancyAlerts(a Animal, now time.Time, alerts *[]Alert) bool {
	if !hasValue(a.PregnancyStartDate) {
		// Sin fecha de inicio la preñez parece recién empezada; ver DESIGN.md.
		e.log.Warn("pregnant animal without pregnancy_start_date", map[string]any{
			"pig_id": a.ID,
			"name":   a.Name,
		})
	}
	start, _ := e.parseOr(a, "pregnancy_start_date", a.PregnancyStartDate, now)
	daysSince := floorDays(now.Sub(start))

	if daysSince >= 0 && daysSince < e.rules.NestingBoxStartDays {
		*alerts = append(*alerts, newAlert(a, AlertPregnancyNoticed, VariantSecondary,
			"Confirmed pregnant since "+FormatDate(start)))
	}

	if daysSince >= e.rules.NestingBoxStartDays && daysSince < e.rules.NestingBoxEndDays {
		*alerts = append(*alerts, newAlert(a, AlertNestingBoxNeeded, VariantSecondary,
			fmt.Sprintf("Add nesting box, %d days since mating", daysSince)))
	}

	if !hasValue(a.ExpectedBirthDate) || hasValue(a.ActualBirthDate) {
		return false
	}

	// Fecha esperada ilegible: se asume un ciclo completo por delante.
	expected, _ := e.parseOr(a, "expected_birth_date", a.ExpectedBirthDate, now.Add(e.rules.gestation()))
	daysToBirth := ceilDays(expected.Sub(now))

	if daysSince >= e.rules.NestingBoxStartDays && daysSince <= e.rules.GestationDays {
		variant := VariantSecondary
		if daysToBirth <= 0 {
			variant = VariantDestructive
		}
		*alerts = append(*alerts, newAlert(a, AlertBirthExpected, variant,
			"Expected to give birth "+birthWhen(daysToBirth)))
	}

	return daysToBirth < 0
}

func (e *Engine) postBirthAlerts(a Animal, now time.Time, alerts *[]Alert) {
	birth, _ := e.parseOr(a, "actual_birth_date", a.ActualBirthDate, now)
	daysSince := floorDays(now.Sub(birth))

	// Coincidencia exacta de día, no rango.
	if daysSince == e.rules.FosteringDay {
		*alerts = append(*alerts, newAlert(a, AlertFosteringNeeded, VariantSecondary,
			"Consider fostering piglets to other sows"))
	}
	if daysSince == e.rules.WeaningDays {
		*alerts = append(*alerts, newAlert(a, AlertWeaning, VariantSecondary,
			"Wean piglets and move to new pens, remove nesting box"))
	}
}

// readyForNextCycle: terminó el último ciclo (gestación + lactancia) y pasó
// la espera post-destete, cuando esas fechas existen.
func (e *Engine) readyForNextCycle(a Animal, now time.Time) bool {
	cycleDone := true
	if hasValue(a.PregnancyStartDate) {
		start, _ := e.parseOr(a, "pregnancy_start_date", a.PregnancyStartDate, now)
		cycleDone = now.After(start.Add(e.rules.gestation() + e.rules.weaning()))
	}

	weaningDone := true
	if hasValue(a.ActualBirthDate) {
		birth, _ := e.parseOr(a, "actual_birth_date", a.ActualBirthDate, now)
		weaningDone = now.After(birth.Add(e.rules.weaning() + e.rules.postWeaningDelay()))
	}

	return cycleDone && weaningDone
}

func birthWhen(daysToBirth int) string {
	switch {
	case daysToBirth == 0:
		return "today"
	case daysToBirth > 0:
		return fmt.Sprintf("in %d days", daysToBirth)
	default:
		return fmt.Sprintf("overdue by %d days", -daysToBirth)
	}
}

func newAlert(a Animal, typ AlertType, variant Variant, detail string) Alert {
	return Alert{
		Type:    typ,
		Message: fmt.Sprintf("%s (%s) - %s", a.Name, a.penLabel(), detail),
		Variant: variant,
		PigID:   a.ID,
		PenID:   a.PenID,
	}
}

func hasValue(raw string) bool { return strings.TrimSpace(raw) != "" }
