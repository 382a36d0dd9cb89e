package plansfeatures

import (
	"context"
	"errors"
	"strings"

	"pig-farm/internal/ports/capabilities"
)

// StaticResolver usa la matriz fija de planes; todos los usuarios tienen
// el mismo tier salvo que se registre otro con SetTier.
type StaticResolver struct {
	fallback Tier
	byUser   map[string]Tier
}

var (
	_ capabilities.CapabilitiesResolver = (*StaticResolver)(nil)
	_ capabilities.CapabilitiesResolver = (*Resolver)(nil)
)

func NewStaticResolver(tier Tier) *StaticResolver {
	if _, ok := tierLimits[tier]; !ok {
		tier = TierFree
	}
	return &StaticResolver{fallback: tier, byUser: map[string]Tier{}}
}

// SetTier no es seguro para uso concurrente; se llama al armar el resolver.
func (r *StaticResolver) SetTier(userID string, tier Tier) {
	r.byUser[strings.TrimSpace(userID)] = tier
}

func (r *StaticResolver) tier(userID string) Tier {
	if t, ok := r.byUser[strings.TrimSpace(userID)]; ok {
		return t
	}
	return r.fallback
}

func (r *StaticResolver) HasFeature(_ context.Context, in capabilities.CapabilityCheck) (bool, error) {
	if strings.TrimSpace(in.Feature) == "" {
		return false, errors.New("feature required")
	}
	return HasFeature(r.tier(in.UserID), in.Feature), nil
}

func (r *StaticResolver) Limits(_ context.Context, userID string) (capabilities.Limits, error) {
	return LimitsFor(r.tier(userID)), nil
}

// Resolver consulta plans-features. Si la respuesta trae tier pero no
// límites, se completan con la matriz fija.
type Resolver struct {
	client *Client
}

func NewResolver(client *Client) *Resolver {
	return &Resolver{client: client}
}

func (r *Resolver) HasFeature(ctx context.Context, in capabilities.CapabilityCheck) (bool, error) {
	if strings.TrimSpace(in.Feature) == "" {
		return false, errors.New("feature required")
	}
	if r == nil || r.client == nil || !r.client.IsConfigured() {
		return false, ErrPlansNotConfigured
	}
	resp, err := r.client.GetCapabilities(ctx, in.UserID)
	if err != nil {
		return false, err
	}
	if v, ok := resp.Capabilities[in.Feature]; ok {
		return v, nil
	}
	if t, err := ParseTier(resp.Tier); err == nil {
		return HasFeature(t, in.Feature), nil
	}
	return false, nil
}

func (r *Resolver) Limits(ctx context.Context, userID string) (capabilities.Limits, error) {
	if r == nil || r.client == nil || !r.client.IsConfigured() {
		return capabilities.Limits{}, ErrPlansNotConfigured
	}
	resp, err := r.client.GetCapabilities(ctx, userID)
	if err != nil {
		return capabilities.Limits{}, err
	}
	if resp.Limits != (capabilities.Limits{}) {
		return resp.Limits, nil
	}
	t, err := ParseTier(resp.Tier)
	if err != nil {
		t = TierFree
	}
	return LimitsFor(t), nil
}
