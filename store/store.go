// Package store is the in-memory state container for reports, alerts, zones,
// social analyses, and registered SMS recipients. It is injected explicitly
// into every collaborator rather than living as a process-wide singleton.
package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Varp17/atlas-alert/geo"
	"github.com/Varp17/atlas-alert/scoring"
	"github.com/Varp17/atlas-alert/types"
)

// maxRecentAnalyses bounds the social analysis buffer.
const maxRecentAnalyses = 500

var ErrNotFound = errors.New("not found")

// Recipient is a phone number registered for location-based SMS alerts.
type Recipient struct {
	Phone    string
	Location types.GeoPoint
}

// Store is safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	reports    map[string]types.HazardReport
	reportIDs  []string // insertion order
	alerts     []types.Alert
	zones      map[string]types.Zone
	analyses   []types.AnalyzedPost
	recipients []Recipient
	now        func() time.Time
}

func New() *Store {
	return &Store{
		reports: make(map[string]types.HazardReport),
		zones:   make(map[string]types.Zone),
		now:     time.Now,
	}
}

// AddReport assigns an ID and timestamps, scores the report's urgency, and
// records it as pending.
func (s *Store) AddReport(report types.HazardReport, factors types.UrgencyFactors) types.HazardReport {
	urgency := scoring.CalculateUrgencyScore(factors)

	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now().UTC().Format(time.RFC3339)
	report.ID = uuid.NewString()
	report.Status = types.StatusPending
	report.Urgency = &urgency
	report.CreatedAt = ts
	report.UpdatedAt = ts

	s.reports[report.ID] = report
	s.reportIDs = append(s.reportIDs, report.ID)
	return report
}

func (s *Store) GetReport(id string) (types.HazardReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.reports[id]
	if !ok {
		return types.HazardReport{}, ErrNotFound
	}
	return report, nil
}

// ListReports returns reports matching the filters, newest first.
func (s *Store) ListReports(filters types.ReportFilters) []types.HazardReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var reports []types.HazardReport
	for i := len(s.reportIDs) - 1; i >= 0; i-- {
		report := s.reports[s.reportIDs[i]]
		if matchesFilters(report, filters) {
			reports = append(reports, report)
		}
	}
	return reports
}

func matchesFilters(report types.HazardReport, filters types.ReportFilters) bool {
	if len(filters.HazardTypes) > 0 && !containsString(filters.HazardTypes, report.HazardType) {
		return false
	}
	if len(filters.Statuses) > 0 {
		found := false
		for _, status := range filters.Statuses {
			if report.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filters.MinLevel != "" {
		if report.Urgency == nil || report.Urgency.Level.Rank() < filters.MinLevel.Rank() {
			return false
		}
	}
	return true
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

// UpdateReportStatus moves a report through its verification lifecycle.
func (s *Store) UpdateReportStatus(id string, status types.ReportStatus, verifiedBy, notes string) (types.HazardReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, ok := s.reports[id]
	if !ok {
		return types.HazardReport{}, ErrNotFound
	}

	report.Status = status
	report.VerifiedBy = verifiedBy
	report.VerificationNotes = notes
	report.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	s.reports[id] = report
	return report, nil
}

// AddAlert assigns an ID and timestamp and activates the alert.
func (s *Store) AddAlert(alert types.Alert) types.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	alert.ID = uuid.NewString()
	alert.CreatedAt = s.now().UTC().Format(time.RFC3339)
	alert.IsActive = true
	s.alerts = append(s.alerts, alert)
	return alert
}

// ActiveAlerts returns alerts that are active and not expired, newest first.
func (s *Store) ActiveAlerts() []types.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now().UTC()
	var active []types.Alert
	for i := len(s.alerts) - 1; i >= 0; i-- {
		alert := s.alerts[i]
		if !alert.IsActive {
			continue
		}
		if alert.ExpiresAt != "" {
			if expires, err := time.Parse(time.RFC3339, alert.ExpiresAt); err == nil && expires.Before(now) {
				continue
			}
		}
		active = append(active, alert)
	}
	return active
}

func (s *Store) AddZone(zone types.Zone) types.Zone {
	s.mu.Lock()
	defer s.mu.Unlock()

	zone.ID = uuid.NewString()
	zone.IsActive = true
	s.zones[zone.ID] = zone
	return zone
}

func (s *Store) ListZones() []types.Zone {
	s.mu.RLock()
	defer s.mu.RUnlock()

	zones := make([]types.Zone, 0, len(s.zones))
	for _, zone := range s.zones {
		zones = append(zones, zone)
	}
	sort.Slice(zones, func(i, j int) bool { return zones[i].Name < zones[j].Name })
	return zones
}

// RecordAnalysis appends a social post analysis to the bounded recent buffer.
func (s *Store) RecordAnalysis(post types.SocialMediaPost, analysis types.SentimentAnalysis) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.analyses = append(s.analyses, types.AnalyzedPost{Post: post, Analysis: analysis})
	if len(s.analyses) > maxRecentAnalyses {
		s.analyses = s.analyses[len(s.analyses)-maxRecentAnalyses:]
	}
}

// RecentAnalyses returns up to n of the most recent analyses, newest first.
func (s *Store) RecentAnalyses(n int) []types.AnalyzedPost {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 || n > len(s.analyses) {
		n = len(s.analyses)
	}
	out := make([]types.AnalyzedPost, 0, n)
	for i := len(s.analyses) - 1; i >= len(s.analyses)-n; i-- {
		out = append(out, s.analyses[i])
	}
	return out
}

// RegisterRecipient registers a phone number for location-based broadcasts.
func (s *Store) RegisterRecipient(phone string, location types.GeoPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.recipients {
		if r.Phone == phone {
			s.recipients[i].Location = location
			return
		}
	}
	s.recipients = append(s.recipients, Recipient{Phone: phone, Location: location})
}

// RecipientsNear returns the phone numbers registered within radiusKM of the
// given point.
func (s *Store) RecipientsNear(lat, lng, radiusKM float64) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var phones []string
	for _, r := range s.recipients {
		if geo.HaversineKM(lat, lng, r.Location.Lat, r.Location.Lng) <= radiusKM {
			phones = append(phones, r.Phone)
		}
	}
	return phones
}
