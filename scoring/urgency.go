// Package scoring implements the weighted multi-factor urgency model used to
// triage incoming hazard reports.
package scoring

import (
	"math"

	"github.com/Varp17/atlas-alert/types"
)

// Factor weights. These sum to 1.00.
const (
	severityWeight           = 0.25
	hazardTypeWeight         = 0.15
	locationRiskWeight       = 0.15
	timeOfDayWeight          = 0.10
	weatherConditionsWeight  = 0.10
	crowdDensityWeight       = 0.10
	historicalDataWeight     = 0.05
	socialMediaWeight        = 0.05
	verificationStatusWeight = 0.05

	defaultFactorValue      = 0.5
	defaultHazardMultiplier = 0.5

	// crowd/weather recommendation add-on threshold
	conditionalFactorCutoff = 0.7
)

// hazardMultipliers rescales the weighted score per hazard type. Unknown
// types (including the "other" default) fall back to defaultHazardMultiplier.
var hazardMultipliers = map[string]float64{
	"shark-sighting": 1.0,
	"rip-current":    0.95,
	"high-waves":     0.85,
	"jellyfish":      0.7,
	"pollution":      0.6,
	"debris":         0.5,
}

// CalculateUrgencyScore converts a partially specified set of factors into an
// actionable urgency score. The function is total: missing or out-of-range
// values are normalized, never rejected.
func CalculateUrgencyScore(factors types.UrgencyFactors) types.UrgencyScore {
	normalized := normalizeFactors(factors)

	score := severityScore(normalized.Severity) * severityWeight
	score += hazardTypeScore(normalized.HazardType) * hazardTypeWeight
	score += normalized.LocationRisk * locationRiskWeight
	score += normalized.TimeOfDay * timeOfDayWeight
	score += normalized.WeatherConditions * weatherConditionsWeight
	score += normalized.CrowdDensity * crowdDensityWeight
	score += normalized.HistoricalData * historicalDataWeight
	score += normalized.SocialMediaMentions * socialMediaWeight
	score += normalized.VerificationStatus * verificationStatusWeight

	// The multiplier already contributed to the weighted sum above; applying
	// it again compounds the emphasis on the most dangerous hazard types.
	score *= hazardTypeScore(normalized.HazardType)

	level := urgencyLevel(score)

	return types.UrgencyScore{
		Score:                 int(math.Round(score * 100)),
		Level:                 level,
		Factors:               normalized,
		Recommendations:       generateRecommendations(level, normalized),
		EstimatedResponseTime: estimateResponseTime(level, score),
	}
}

// normalizeFactors substitutes defaults for zero-valued fields and clamps
// every numeric factor into [0, 1].
func normalizeFactors(f types.UrgencyFactors) types.UrgencyFactors {
	if f.Severity == "" {
		f.Severity = types.Low
	}
	if f.HazardType == "" {
		f.HazardType = "other"
	}
	f.LocationRisk = clamp01(orDefault(f.LocationRisk, defaultFactorValue))
	f.TimeOfDay = clamp01(orDefault(f.TimeOfDay, defaultFactorValue))
	f.WeatherConditions = clamp01(orDefault(f.WeatherConditions, defaultFactorValue))
	f.CrowdDensity = clamp01(orDefault(f.CrowdDensity, defaultFactorValue))
	f.HistoricalData = clamp01(orDefault(f.HistoricalData, defaultFactorValue))
	f.SocialMediaMentions = clamp01(f.SocialMediaMentions)
	f.VerificationStatus = clamp01(orDefault(f.VerificationStatus, defaultFactorValue))
	return f
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}

func severityScore(s types.Severity) float64 {
	switch s {
	case types.Critical:
		return 1.0
	case types.High:
		return 0.8
	case types.Medium:
		return 0.6
	case types.Low:
		return 0.3
	default:
		return 0.2
	}
}

func hazardTypeScore(hazardType string) float64 {
	if m, ok := hazardMultipliers[hazardType]; ok {
		return m
	}
	return defaultHazardMultiplier
}

// urgencyLevel maps the unscaled 0-1 score onto the four-tier scale.
func urgencyLevel(score float64) types.Severity {
	switch {
	case score >= 0.8:
		return types.Critical
	case score >= 0.6:
		return types.High
	case score >= 0.4:
		return types.Medium
	default:
		return types.Low
	}
}

func generateRecommendations(level types.Severity, factors types.UrgencyFactors) []string {
	var recommendations []string

	switch level {
	case types.Critical:
		recommendations = append(recommendations,
			"Immediate evacuation of affected area",
			"Deploy emergency response teams",
			"Issue public safety alerts",
			"Coordinate with coast guard and marine police",
		)
	case types.High:
		recommendations = append(recommendations,
			"Alert nearby lifeguards and authorities",
			"Post warning signs in affected areas",
			"Monitor situation closely",
			"Prepare emergency response resources",
		)
	case types.Medium:
		recommendations = append(recommendations,
			"Increase surveillance in the area",
			"Inform local authorities",
			"Update safety advisories",
		)
	case types.Low:
		recommendations = append(recommendations,
			"Log incident for monitoring",
			"Continue routine surveillance",
		)
	}

	if factors.CrowdDensity > conditionalFactorCutoff {
		recommendations = append(recommendations, "Consider crowd control measures")
	}
	if factors.WeatherConditions > conditionalFactorCutoff {
		recommendations = append(recommendations, "Factor in adverse weather conditions")
	}

	return recommendations
}

// estimateResponseTime returns the target response window in minutes, scaled
// within each tier by the unscaled 0-1 score.
func estimateResponseTime(level types.Severity, score float64) float64 {
	switch level {
	case types.Critical:
		return math.Max(2, 15-score*10)
	case types.High:
		return math.Max(5, 30-score*20)
	case types.Medium:
		return math.Max(15, 60-score*30)
	case types.Low:
		return math.Max(30, 120-score*60)
	default:
		return 120
	}
}
