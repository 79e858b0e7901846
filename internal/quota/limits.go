package quota

import (
	"strings"
)

// SiteScope is the aggregate scope shared by every request when the
// site-wide cap is enabled.
const SiteScope = "site_total"

// ScopeFor returns the quota scope for a per-model budget.
func ScopeFor(model string) string {
	return "gemini:" + model
}

// defaultLimits returns the built-in free-tier (RPD, RPM) budget for a model.
// Overrides from GEMINI_MODEL_LIMITS_JSON take precedence over these.
func defaultLimits(model string) (int, int) {
	switch {
	case model == "gemini-2.5-flash":
		return 20, 5
	case model == "gemini-2.5-flash-lite":
		return 20, 10
	case model == "gemini-3-flash":
		return 20, 5
	case strings.HasPrefix(model, "gemma-3-"):
		return 14400, 30
	}
	return 20, 5
}
