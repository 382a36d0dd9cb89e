package capabilities

import "context"

// Features que consultan los handlers.
const (
	FeatureBreeding = "breeding"
	FeatureHealth   = "health"
	FeatureHutches  = "hutches"
)

type CapabilityCheck struct {
	UserID  string
	Feature string
}

// Limits del plan. Unlimited (-1) significa sin tope.
type Limits struct {
	MaxRows  int `json:"max_rows"`
	MaxPigs  int `json:"max_pigs"`
	MaxUsers int `json:"max_users"`
}

const Unlimited = -1

// Allows dice si se puede pasar de current a current+1.
func Allows(max, current int) bool {
	return max == Unlimited || current < max
}

type CapabilitiesResolver interface {
	HasFeature(ctx context.Context, in CapabilityCheck) (bool, error)
	Limits(ctx context.Context, userID string) (Limits, error)
}
