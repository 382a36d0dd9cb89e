package breeding

import (
	"errors"
	"math"
	"strings"
	"time"
)

var errBadDate = errors.New("unparseable date")

// Formatos aceptados; sin zona se asume UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate interpreta una fecha del backend. ok=false si viene vacía.
func ParseDate(raw string) (t time.Time, ok bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false, nil
	}
	for _, layout := range dateLayouts {
		if parsed, perr := time.Parse(layout, raw); perr == nil {
			return parsed, true, nil
		}
	}
	return time.Time{}, true, errBadDate
}

// FormatDate es el formato corto usado en mensajes y en las respuestas.
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// parseOr devuelve fallback si la fecha es inválida y lo registra.
// present=false si el campo vino vacío.
func (e *Engine) parseOr(a Animal, field, raw string, fallback time.Time) (t time.Time, present bool) {
	t, present, err := ParseDate(raw)
	if !present {
		return fallback, false
	}
	if err != nil {
		e.log.Warn("invalid date on animal record", map[string]any{
			"pig_id": a.ID,
			"name":   a.Name,
			"field":  field,
			"value":  raw,
		})
		return fallback, true
	}
	return t, true
}

// floorDays y ceilDays replican la aritmética en días completos.
func floorDays(d time.Duration) int {
	return int(math.Floor(float64(d) / float64(day)))
}

func ceilDays(d time.Duration) int {
	return int(math.Ceil(float64(d) / float64(day)))
}
