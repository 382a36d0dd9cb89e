package farms

import "time"

// Farm agrupa corrales y animales de un dueño.
type Farm struct {
	ID          string
	OwnerUserID string

	Name     string
	Location string

	CreatedAt time.Time
	UpdatedAt time.Time
}
