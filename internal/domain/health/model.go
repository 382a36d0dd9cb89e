package health

import "time"

type Type string

const (
	TypeVaccination Type = "vaccination"
	TypeTreatment   Type = "treatment"
	TypeCheckup     Type = "checkup"
	TypeDeworming   Type = "deworming"
	TypeOther       Type = "other"
)

var allTypes = map[Type]struct{}{
	TypeVaccination: {},
	TypeTreatment:   {},
	TypeCheckup:     {},
	TypeDeworming:   {},
	TypeOther:       {},
}

// Status guardado es pending o completed; overdue se deriva al leer.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
)

// UpcomingWindow: un pendiente que vence dentro de este plazo cuenta como próximo.
const UpcomingWindow = 3 * 24 * time.Hour

type Record struct {
	ID     string
	FarmID string
	PigID  string

	Type        Type
	Description string

	Date    time.Time
	NextDue *time.Time

	Status       Status
	Veterinarian string
	Notes        string

	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Due devuelve NextDue. Sin próxima fecha el registro no vence nunca.
func (r Record) Due() (time.Time, bool) {
	if r.NextDue == nil {
		return time.Time{}, false
	}
	return *r.NextDue, true
}

// EffectiveStatus deriva overdue para pendientes con NextDue pasado.
func (r Record) EffectiveStatus(now time.Time) Status {
	if r.Status == StatusCompleted {
		return StatusCompleted
	}
	if due, ok := r.Due(); ok && due.Before(now) {
		return StatusOverdue
	}
	return StatusPending
}

// PigStatus resume la situación sanitaria de un animal.
type PigStatus string

const (
	PigOverdue  PigStatus = "overdue"
	PigUpcoming PigStatus = "upcoming"
	PigGood     PigStatus = "good"
)

type PigSummary struct {
	PigID    string
	Status   PigStatus
	Overdue  int
	Upcoming int
}
