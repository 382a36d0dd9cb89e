package pigs

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

const defaultTagPrefix = "PIG"

// tagPrefix toma la inicial de cada palabra del nombre de la granja.
// "Granja Los Álamos" => "GLÁ".
func tagPrefix(farmName string) string {
	var b strings.Builder
	for _, w := range strings.Fields(farmName) {
		for _, r := range w {
			if unicode.IsLetter(r) {
				b.WriteRune(unicode.ToUpper(r))
				break
			}
		}
	}
	if b.Len() == 0 {
		return defaultTagPrefix
	}
	return b.String()
}

// nextTag devuelve el siguiente número libre para el prefijo.
func nextTag(prefix string, existing []Pig) string {
	max := 0
	for _, p := range existing {
		rest, ok := strings.CutPrefix(p.Tag, prefix+"-")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s-%03d", prefix, max+1)
}
