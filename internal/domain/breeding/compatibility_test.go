package breeding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckCompatibility_Order(t *testing.T) {
	e := newTestEngine(t)

	young := func(a Animal) Animal {
		a.BirthDate = monthsAgo(2)
		return a
	}

	tests := []struct {
		name   string
		dam    func() *Animal
		sire   func() *Animal
		wantOK bool
		reason string
	}{
		{
			name:   "missing sire",
			dam:    func() *Animal { a := sow("s1", "Rosa"); return &a },
			sire:   func() *Animal { return nil },
			reason: "Invalid selection",
		},
		{
			name:   "missing dam",
			dam:    func() *Animal { return nil },
			sire:   func() *Animal { a := boar("b1", "Toro"); return &a },
			reason: "Invalid selection",
		},
		{
			name: "young dam wins over relatedness and pregnancy",
			dam: func() *Animal {
				a := young(sow("s1", "Rosa"))
				a.ParentMaleID = "b1"
				a.IsPregnant = true
				return &a
			},
			sire:   func() *Animal { a := boar("b1", "Toro"); return &a },
			reason: "Sow Rosa (pen-1): Pig is too young (2 months)",
		},
		{
			name: "young sire without pen",
			dam:  func() *Animal { a := sow("s1", "Rosa"); return &a },
			sire: func() *Animal {
				a := young(boar("b1", "Toro"))
				a.PenID = ""
				return &a
			},
			reason: "Boar Toro (N/A): Pig is too young (2 months)",
		},
		{
			name: "sire without birth date",
			dam:  func() *Animal { a := sow("s1", "Rosa"); return &a },
			sire: func() *Animal {
				a := boar("b1", "Toro")
				a.BirthDate = ""
				return &a
			},
			reason: "Boar Toro (pen-2): Birth date not available",
		},
		{
			name: "related wins over pregnancy",
			dam: func() *Animal {
				a := sow("s1", "Rosa")
				a.ParentFemaleID = "m1"
				a.IsPregnant = true
				return &a
			},
			sire: func() *Animal {
				a := boar("b1", "Toro")
				a.ParentFemaleID = "m1"
				return &a
			},
			reason: "Potential inbreeding detected",
		},
		{
			name: "pregnant dam",
			dam: func() *Animal {
				a := sow("s1", "Rosa")
				a.IsPregnant = true
				return &a
			},
			sire:   func() *Animal { a := boar("b1", "Toro"); return &a },
			reason: "Sow is currently pregnant",
		},
		{
			name:   "compatible",
			dam:    func() *Animal { a := sow("s1", "Rosa"); return &a },
			sire:   func() *Animal { a := boar("b1", "Toro"); return &a },
			wantOK: true,
			reason: "Compatible for breeding",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := e.CheckCompatibility(tc.dam(), tc.sire(), testNow)
			assert.Equal(t, tc.wantOK, got.Compatible)
			assert.Equal(t, tc.reason, got.Reason)
		})
	}
}

func TestIsRelated(t *testing.T) {
	tests := []struct {
		name string
		a, b Animal
		want bool
	}{
		{"a child of b (father)", Animal{ID: "a", ParentMaleID: "b"}, Animal{ID: "b"}, true},
		{"a child of b (mother)", Animal{ID: "a", ParentFemaleID: "b"}, Animal{ID: "b"}, true},
		{"b child of a", Animal{ID: "a"}, Animal{ID: "b", ParentMaleID: "a"}, true},
		{"b child of a (mother)", Animal{ID: "a"}, Animal{ID: "b", ParentFemaleID: "a"}, true},
		{
			"same father different mothers",
			Animal{ID: "a", ParentMaleID: "f", ParentFemaleID: "m1"},
			Animal{ID: "b", ParentMaleID: "f", ParentFemaleID: "m2"},
			true,
		},
		{"same mother", Animal{ID: "a", ParentFemaleID: "m"}, Animal{ID: "b", ParentFemaleID: "m"}, true},
		{"no parents recorded", Animal{ID: "a"}, Animal{ID: "b"}, false},
		{
			"grandparent not detected",
			Animal{ID: "a", ParentMaleID: "f"},
			Animal{ID: "g"},
			false,
		},
		{
			"cousins not detected",
			Animal{ID: "a", ParentMaleID: "f1", ParentFemaleID: "m1"},
			Animal{ID: "b", ParentMaleID: "f2", ParentFemaleID: "m2"},
			false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsRelated(tc.a, tc.b))
			assert.Equal(t, tc.want, IsRelated(tc.b, tc.a))
		})
	}
}
