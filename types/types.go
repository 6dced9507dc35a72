package types

type Severity string

const (
	Low      Severity = "low"
	Medium   Severity = "medium"
	High     Severity = "high"
	Critical Severity = "critical"
)

var severityRank = map[Severity]int{
	Low:      1,
	Medium:   2,
	High:     3,
	Critical: 4,
}

// Rank places the severity on the low < medium < high < critical scale.
// Unknown values rank below low.
func (s Severity) Rank() int {
	return severityRank[s]
}

type ThreatLevel string

const (
	ThreatNone     ThreatLevel = "none"
	ThreatLow      ThreatLevel = "low"
	ThreatMedium   ThreatLevel = "medium"
	ThreatHigh     ThreatLevel = "high"
	ThreatCritical ThreatLevel = "critical"
)

var threatRank = map[ThreatLevel]int{
	ThreatNone:     0,
	ThreatLow:      1,
	ThreatMedium:   2,
	ThreatHigh:     3,
	ThreatCritical: 4,
}

// Rank places the level on the none < low < medium < high < critical scale.
// Unknown values rank as none.
func (t ThreatLevel) Rank() int {
	return threatRank[t]
}

// HigherThreat returns the more severe of the two levels.
func HigherThreat(a, b ThreatLevel) ThreatLevel {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// IsValid reports whether t is one of the five known threat levels.
func (t ThreatLevel) IsValid() bool {
	_, ok := threatRank[t]
	return ok
}

type Sentiment string

const (
	Positive Sentiment = "positive"
	Negative Sentiment = "negative"
	Neutral  Sentiment = "neutral"
	Urgent   Sentiment = "urgent"
)

// IsValid reports whether s is one of the four known sentiment values.
func (s Sentiment) IsValid() bool {
	switch s {
	case Positive, Negative, Neutral, Urgent:
		return true
	}
	return false
}
