package pens

import "time"

// HutchesPerRow es el tope visual de corrales por fila.
const HutchesPerRow = 18

// Pen es un corral. Los corrales se agrupan en filas (RowName); el plan
// limita cuántas filas distintas puede tener una granja.
type Pen struct {
	ID     string
	FarmID string

	Name    string
	RowName string

	// Capacity 0 = sin tope.
	Capacity int

	CreatedAt time.Time
}

// HasRoom dice si entra un animal más con occupied ya adentro.
func (p Pen) HasRoom(occupied int) bool {
	return p.Capacity <= 0 || occupied < p.Capacity
}
