package breeding

import (
	"fmt"
	"time"
)

const (
	reasonInvalidSelection = "Invalid selection"
	reasonInbreeding       = "Potential inbreeding detected"
	reasonSowPregnant      = "Sow is currently pregnant"
	reasonCompatible       = "Compatible for breeding"
)

type Compatibility struct {
	Compatible bool   `json:"compatible"`
	Reason     string `json:"reason"`
}

// CheckCompatibility evalúa en orden y corta en la primera regla que falla:
// selección, madurez de la cerda, madurez del verraco, parentesco, preñez.
func (e *Engine) CheckCompatibility(dam, sire *Animal, now time.Time) Compatibility {
	if dam == nil || sire == nil {
		return Compatibility{Compatible: false, Reason: reasonInvalidSelection}
	}

	if m := e.IsMature(*dam, now); !m.IsMature {
		return Compatibility{
			Compatible: false,
			Reason:     fmt.Sprintf("Sow %s (%s): %s", dam.Name, dam.penLabel(), m.Reason),
		}
	}
	if m := e.IsMature(*sire, now); !m.IsMature {
		return Compatibility{
			Compatible: false,
			Reason:     fmt.Sprintf("Boar %s (%s): %s", sire.Name, sire.penLabel(), m.Reason),
		}
	}

	if IsRelated(*dam, *sire) {
		return Compatibility{Compatible: false, Reason: reasonInbreeding}
	}
	if dam.IsPregnant {
		return Compatibility{Compatible: false, Reason: reasonSowPregnant}
	}
	return Compatibility{Compatible: true, Reason: reasonCompatible}
}

// IsRelated solo mira primer grado: padre/hijo o hermanos (medios o
// completos) por un progenitor registrado en común. Abuelos y primos no
// se detectan.
func IsRelated(a, b Animal) bool {
	if a.ParentMaleID != "" && a.ParentMaleID == b.ID {
		return true
	}
	if a.ParentFemaleID != "" && a.ParentFemaleID == b.ID {
		return true
	}
	if b.ParentMaleID != "" && b.ParentMaleID == a.ID {
		return true
	}
	if b.ParentFemaleID != "" && b.ParentFemaleID == a.ID {
		return true
	}
	if a.ParentMaleID != "" && a.ParentMaleID == b.ParentMaleID {
		return true
	}
	if a.ParentFemaleID != "" && a.ParentFemaleID == b.ParentFemaleID {
		return true
	}
	return false
}
