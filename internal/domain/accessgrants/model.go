package accessgrants

import "time"

type Scope string

const (
	ScopeFarmRead      Scope = "farm:read"
	ScopePigsWrite     Scope = "pigs:write"
	ScopePensWrite     Scope = "pens:write"
	ScopeBreedingWrite Scope = "breeding:write"
	ScopeHealthWrite   Scope = "health:write"
)

var allScopes = map[Scope]struct{}{
	ScopeFarmRead:      {},
	ScopePigsWrite:     {},
	ScopePensWrite:     {},
	ScopeBreedingWrite: {},
	ScopeHealthWrite:   {},
}

type Status string

const (
	StatusInvited Status = "invited"
	StatusActive  Status = "active"
	StatusRevoked Status = "revoked"
)

// Grant da a otro usuario (trabajador, veterinario) acceso a una granja.
type Grant struct {
	ID string

	FarmID string

	OwnerUserID   string // dueño de la granja
	GranteeUserID string // invitado

	Scopes []Scope
	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}
