package plansfeatures

import (
	"fmt"
	"strings"

	"pig-farm/internal/ports/capabilities"
)

type Tier string

const (
	TierFree     Tier = "free"
	TierStandard Tier = "standard"
	TierAdvanced Tier = "advanced"
)

// HutchesPerRow es la cantidad de corrales por fila que asume el plan.
const HutchesPerRow = 18

var tierLimits = map[Tier]capabilities.Limits{
	TierFree:     {MaxRows: 3, MaxPigs: 3 * HutchesPerRow, MaxUsers: 1},
	TierStandard: {MaxRows: 10, MaxPigs: 10 * HutchesPerRow, MaxUsers: 3},
	TierAdvanced: {MaxRows: capabilities.Unlimited, MaxPigs: capabilities.Unlimited, MaxUsers: capabilities.Unlimited},
}

var tierFeatures = map[Tier][]string{
	TierFree: {
		"basic_analytics", "basic_reports", "record_keeping",
		"overview", capabilities.FeatureHutches, capabilities.FeatureBreeding,
	},
	TierStandard: {
		"basic_analytics", "enhanced_analytics", "basic_reports", "export_reports",
		"email_notifications", "user_management", "weekly_reports",
		"overview", capabilities.FeatureHutches, capabilities.FeatureBreeding, capabilities.FeatureHealth,
	},
	TierAdvanced: {
		"basic_analytics", "enhanced_analytics", "advanced_analytics",
		"basic_reports", "export_reports", "email_notifications", "sms_notifications",
		"user_management", "weekly_reports", "monthly_reports",
		"overview", capabilities.FeatureHutches, capabilities.FeatureBreeding, capabilities.FeatureHealth,
		"reports", "analytics",
	},
}

// ParseTier acepta también los roles administrativos, que ven todo.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "free":
		return TierFree, nil
	case "standard":
		return TierStandard, nil
	case "advanced", "admin", "superadmin":
		return TierAdvanced, nil
	default:
		return "", fmt.Errorf("unknown plan tier %q", s)
	}
}

func LimitsFor(t Tier) capabilities.Limits { return tierLimits[t] }

func HasFeature(t Tier, feature string) bool {
	for _, f := range tierFeatures[t] {
		if f == feature {
			return true
		}
	}
	return false
}
