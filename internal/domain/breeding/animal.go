package breeding

// Gender del animal tal como lo devuelve el backend.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Animal es el registro que lee el motor. Las fechas llegan como texto
// (backend o archivo); "" significa ausente.
type Animal struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	PenID string `json:"pen_id,omitempty" yaml:"pen_id"`

	Gender    Gender `json:"gender" yaml:"gender"`
	BirthDate string `json:"birth_date,omitempty" yaml:"birth_date"`
	Breed     string `json:"breed,omitempty" yaml:"breed"`
	Color     string `json:"color,omitempty" yaml:"color"`

	IsPregnant         bool   `json:"is_pregnant" yaml:"is_pregnant"`
	PregnancyStartDate string `json:"pregnancy_start_date,omitempty" yaml:"pregnancy_start_date"`
	ExpectedBirthDate  string `json:"expected_birth_date,omitempty" yaml:"expected_birth_date"`
	ActualBirthDate    string `json:"actual_birth_date,omitempty" yaml:"actual_birth_date"`
	MatedWith          string `json:"mated_with,omitempty" yaml:"mated_with"`

	ParentMaleID   string `json:"parent_male_id,omitempty" yaml:"parent_male_id"`
	ParentFemaleID string `json:"parent_female_id,omitempty" yaml:"parent_female_id"`
}

func (a Animal) IsFemale() bool { return a.Gender == GenderFemale }

func (a Animal) penLabel() string {
	if a.PenID == "" {
		return "N/A"
	}
	return a.PenID
}
