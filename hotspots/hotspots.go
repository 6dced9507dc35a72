// Package hotspots clusters geographically close hazard reports into
// hotspots for the analytics dashboard and the monitoring job.
package hotspots

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Varp17/atlas-alert/geo"
	"github.com/Varp17/atlas-alert/types"
)

const (
	// Max distance (km) between reports to land in the same cluster.
	distanceThresholdKM = 50.0

	// Min urgency score for a report to seed a cluster.
	seedScoreThreshold = 40

	// --- Severity thresholds on the cluster's mean urgency score ---
	mediumScoreThreshold = 40.0
	highScoreThreshold   = 60.0
	critScoreThreshold   = 80.0
)

// DetectHotspots clusters the given reports. Rejected reports and reports
// without a location or urgency score are ignored. A cluster forms around any
// report whose urgency score reaches the seed threshold and grows through
// chained proximity.
func DetectHotspots(reports []types.HazardReport) []types.Hotspot {
	var candidates []types.HazardReport
	for _, r := range reports {
		if r.Status == types.StatusRejected || r.Urgency == nil {
			continue
		}
		if r.Location.Lat == 0 && r.Location.Lng == 0 {
			continue
		}
		candidates = append(candidates, r)
	}

	processed := make(map[string]bool)
	var hotspots []types.Hotspot

	for _, seed := range candidates {
		if processed[seed.ID] || seed.Urgency.Score < seedScoreThreshold {
			continue
		}

		// Grow the cluster breadth-first through proximity chains.
		cluster := []types.HazardReport{}
		queue := []types.HazardReport{seed}
		queued := map[string]bool{seed.ID: true}

		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]

			if !processed[current.ID] {
				cluster = append(cluster, current)
				processed[current.ID] = true
			}

			for _, neighbor := range candidates {
				if neighbor.ID == current.ID || queued[neighbor.ID] {
					continue
				}
				dist := geo.HaversineKM(current.Location.Lat, current.Location.Lng, neighbor.Location.Lat, neighbor.Location.Lng)
				if dist <= distanceThresholdKM {
					queued[neighbor.ID] = true
					queue = append(queue, neighbor)
				}
			}
		}

		if len(cluster) > 0 {
			hotspots = append(hotspots, buildHotspot(cluster))
		}
	}

	return hotspots
}

// buildHotspot aggregates a cluster of reports into a Hotspot record.
func buildHotspot(cluster []types.HazardReport) types.Hotspot {
	hotspot := types.Hotspot{
		ID:          uuid.NewString(),
		ReportIDs:   make([]string, 0, len(cluster)),
		ReportCount: len(cluster),
		Severity:    types.Low,
		BoundingBox: types.BoundingBox{
			MinLat: cluster[0].Location.Lat, MaxLat: cluster[0].Location.Lat,
			MinLon: cluster[0].Location.Lng, MaxLon: cluster[0].Location.Lng,
		},
	}

	var sumLat, sumLng, sumScore float64
	hazardCounts := make(map[string]int)
	var earliest, latest time.Time
	var earliestSet, latestSet bool

	for _, report := range cluster {
		hotspot.ReportIDs = append(hotspot.ReportIDs, report.ID)

		if report.Location.Lat < hotspot.BoundingBox.MinLat {
			hotspot.BoundingBox.MinLat = report.Location.Lat
		}
		if report.Location.Lat > hotspot.BoundingBox.MaxLat {
			hotspot.BoundingBox.MaxLat = report.Location.Lat
		}
		if report.Location.Lng < hotspot.BoundingBox.MinLon {
			hotspot.BoundingBox.MinLon = report.Location.Lng
		}
		if report.Location.Lng > hotspot.BoundingBox.MaxLon {
			hotspot.BoundingBox.MaxLon = report.Location.Lng
		}

		sumLat += report.Location.Lat
		sumLng += report.Location.Lng
		sumScore += float64(report.Urgency.Score)
		hazardCounts[report.HazardType]++

		if t, ok := parseTimestamp(report.CreatedAt); ok {
			if !earliestSet || t.Before(earliest) {
				earliest = t
				earliestSet = true
			}
		}
		if t, ok := parseTimestamp(report.UpdatedAt); ok {
			if !latestSet || t.After(latest) {
				latest = t
				latestSet = true
			}
		}
	}

	count := float64(len(cluster))
	hotspot.Lat = sumLat / count
	hotspot.Lng = sumLng / count
	hotspot.AvgUrgencyScore = sumScore / count
	hotspot.DominantHazardType = dominantHazard(hazardCounts)

	if earliestSet {
		hotspot.FirstReportedAt = earliest.UTC().Format(time.RFC3339)
	}
	if latestSet {
		hotspot.LastReportedAt = latest.UTC().Format(time.RFC3339)
	}

	if hotspot.AvgUrgencyScore >= mediumScoreThreshold {
		hotspot.Severity = types.Medium
	}
	if hotspot.AvgUrgencyScore >= highScoreThreshold {
		hotspot.Severity = types.High
	}
	if hotspot.AvgUrgencyScore >= critScoreThreshold {
		hotspot.Severity = types.Critical
	}

	sort.Strings(hotspot.ReportIDs)
	return hotspot
}

func dominantHazard(counts map[string]int) string {
	dominant := ""
	maxCount := 0
	names := make([]string, 0, len(counts))
	for hazard := range counts {
		names = append(names, hazard)
	}
	sort.Strings(names) // deterministic tie-breaking
	for _, hazard := range names {
		if counts[hazard] > maxCount {
			maxCount = counts[hazard]
			dominant = hazard
		}
	}
	return dominant
}

func parseTimestamp(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		t, err = time.Parse(time.RFC3339, value)
	}
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
