package types

// UrgencyFactors are the inputs to the urgency scoring model. Callers may
// leave any field zero-valued; scoring substitutes defaults and clamps every
// numeric factor into [0, 1].
type UrgencyFactors struct {
	Severity            Severity `json:"severity"`
	HazardType          string   `json:"hazardType"`
	LocationRisk        float64  `json:"locationRisk"`
	TimeOfDay           float64  `json:"timeOfDay"`
	WeatherConditions   float64  `json:"weatherConditions"`
	CrowdDensity        float64  `json:"crowdDensity"`
	HistoricalData      float64  `json:"historicalData"`
	SocialMediaMentions float64  `json:"socialMediaMentions"`
	VerificationStatus  float64  `json:"verificationStatus"`
}

// UrgencyScore is the triage result for a hazard report.
type UrgencyScore struct {
	Score                 int            `json:"score"` // 0-100
	Level                 Severity       `json:"level"`
	Factors               UrgencyFactors `json:"factors"`
	Recommendations       []string       `json:"recommendations"`
	EstimatedResponseTime float64        `json:"estimatedResponseTime"` // minutes
}

type ReportStatus string

const (
	StatusPending  ReportStatus = "pending"
	StatusVerified ReportStatus = "verified"
	StatusRejected ReportStatus = "rejected"
	StatusResolved ReportStatus = "resolved"
)

type GeoPoint struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

// HazardReport is a citizen- or authority-submitted record of an observed
// ocean/coastal danger.
type HazardReport struct {
	ID                string        `json:"id"`
	UserID            string        `json:"user_id"`
	HazardType        string        `json:"hazard_type"`
	Description       string        `json:"description,omitempty"`
	Location          GeoPoint      `json:"location"`
	MediaURLs         []string      `json:"media_urls,omitempty"`
	Urgency           *UrgencyScore `json:"urgency,omitempty"`
	Status            ReportStatus  `json:"status"`
	CreatedAt         string        `json:"created_at"`
	UpdatedAt         string        `json:"updated_at"`
	VerifiedBy        string        `json:"verified_by,omitempty"`
	VerificationNotes string        `json:"verification_notes,omitempty"`
}

// ReportFilters narrows a report listing.
type ReportFilters struct {
	HazardTypes []string
	Statuses    []ReportStatus
	MinLevel    Severity
}

type ZoneType string

const (
	ZoneSafe       ZoneType = "safe"
	ZoneDanger     ZoneType = "danger"
	ZoneWarning    ZoneType = "warning"
	ZoneEvacuation ZoneType = "evacuation"
)

// Zone is a managed map area (safe zone, danger zone, evacuation area).
type Zone struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        ZoneType `json:"zone_type"`
	Center      GeoPoint `json:"center"`
	RadiusM     float64  `json:"radius_meters"`
	Description string   `json:"description,omitempty"`
	Capacity    int      `json:"capacity,omitempty"`
	IsActive    bool     `json:"is_active"`
}

type AlertType string

const (
	AlertInfo     AlertType = "info"
	AlertWarning  AlertType = "warning"
	AlertDanger   AlertType = "danger"
	AlertCritical AlertType = "critical"
)

// Alert is an emergency broadcast shown to users and pushed over the hub.
type Alert struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	Type          AlertType `json:"alert_type"`
	AffectedAreas []string  `json:"affected_areas,omitempty"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     string    `json:"created_at"`
	ExpiresAt     string    `json:"expires_at,omitempty"`
	IsActive      bool      `json:"is_active"`
}

type BoundingBox struct {
	MinLat float64 `json:"minLat"`
	MaxLat float64 `json:"maxLat"`
	MinLon float64 `json:"minLon"`
	MaxLon float64 `json:"maxLon"`
}

// Hotspot is a geographic cluster of related hazard reports.
type Hotspot struct {
	ID                 string      `json:"id"`
	Lat                float64     `json:"lat"` // centroid
	Lng                float64     `json:"lng"`
	BoundingBox        BoundingBox `json:"boundingBox"`
	ReportIDs          []string    `json:"reportIDs"`
	ReportCount        int         `json:"reportCount"`
	DominantHazardType string      `json:"dominantHazardType"`
	AvgUrgencyScore    float64     `json:"avgUrgencyScore"`
	Severity           Severity    `json:"severity"`
	FirstReportedAt    string      `json:"firstReportedAt,omitempty"`
	LastReportedAt     string      `json:"lastReportedAt,omitempty"`
}
