package breeding

import "sort"

// NotifiedSet guarda los animales cuyo parto atrasado ya se avisó en la
// sesión. Es un valor: GenerateAlerts nunca modifica el que recibe.
type NotifiedSet struct {
	ids map[string]struct{}
}

func NewNotifiedSet(ids ...string) NotifiedSet {
	s := NotifiedSet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

func (s NotifiedSet) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s NotifiedSet) Len() int { return len(s.ids) }

// With devuelve una copia con ids agregados.
func (s NotifiedSet) With(ids ...string) NotifiedSet {
	out := NotifiedSet{ids: make(map[string]struct{}, len(s.ids)+len(ids))}
	for id := range s.ids {
		out.ids[id] = struct{}{}
	}
	for _, id := range ids {
		out.ids[id] = struct{}{}
	}
	return out
}

// IDs ordenados, útil para persistir o comparar en tests.
func (s NotifiedSet) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
