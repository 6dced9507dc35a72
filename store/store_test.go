package store

import (
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/Varp17/atlas-alert/types"
)

func TestReportLifecycle(t *testing.T) {
	Convey("Given an empty store", t, func() {
		s := New()

		Convey("When a report is added", func() {
			report := s.AddReport(types.HazardReport{
				UserID:     "user-1",
				HazardType: "rip-current",
				Location:   types.GeoPoint{Lat: 19.0896, Lng: 72.8656},
			}, types.UrgencyFactors{Severity: types.High, HazardType: "rip-current"})

			Convey("Then it gets an ID, pending status, and an urgency score", func() {
				So(report.ID, ShouldNotBeEmpty)
				So(report.Status, ShouldEqual, types.StatusPending)
				So(report.Urgency, ShouldNotBeNil)
				So(report.Urgency.Score, ShouldBeBetweenOrEqual, 0, 100)
				So(report.CreatedAt, ShouldNotBeEmpty)
			})

			Convey("And it can be fetched and verified", func() {
				fetched, err := s.GetReport(report.ID)
				So(err, ShouldBeNil)
				So(fetched.ID, ShouldEqual, report.ID)

				verified, err := s.UpdateReportStatus(report.ID, types.StatusVerified, "analyst-7", "confirmed by lifeguard")
				So(err, ShouldBeNil)
				So(verified.Status, ShouldEqual, types.StatusVerified)
				So(verified.VerifiedBy, ShouldEqual, "analyst-7")
			})
		})

		Convey("When fetching an unknown report", func() {
			_, err := s.GetReport("missing")

			Convey("Then ErrNotFound is returned", func() {
				So(err, ShouldEqual, ErrNotFound)
			})
		})
	})
}

func TestListReportsFiltering(t *testing.T) {
	Convey("Given a store with mixed reports", t, func() {
		s := New()
		first := s.AddReport(types.HazardReport{HazardType: "pollution"}, types.UrgencyFactors{Severity: types.Low, HazardType: "pollution"})
		second := s.AddReport(types.HazardReport{HazardType: "shark-sighting"}, types.UrgencyFactors{Severity: types.Critical, HazardType: "shark-sighting",
			LocationRisk: 1, TimeOfDay: 1, WeatherConditions: 1, CrowdDensity: 1, HistoricalData: 1, SocialMediaMentions: 1, VerificationStatus: 1})
		_, err := s.UpdateReportStatus(first.ID, types.StatusResolved, "", "")
		So(err, ShouldBeNil)

		Convey("Then an empty filter returns everything newest first", func() {
			reports := s.ListReports(types.ReportFilters{})
			So(len(reports), ShouldEqual, 2)
			So(reports[0].ID, ShouldEqual, second.ID)
		})

		Convey("And hazard type filters narrow the listing", func() {
			reports := s.ListReports(types.ReportFilters{HazardTypes: []string{"shark-sighting"}})
			So(len(reports), ShouldEqual, 1)
			So(reports[0].HazardType, ShouldEqual, "shark-sighting")
		})

		Convey("And status filters narrow the listing", func() {
			reports := s.ListReports(types.ReportFilters{Statuses: []types.ReportStatus{types.StatusResolved}})
			So(len(reports), ShouldEqual, 1)
			So(reports[0].ID, ShouldEqual, first.ID)
		})

		Convey("And a minimum urgency level excludes low reports", func() {
			reports := s.ListReports(types.ReportFilters{MinLevel: types.High})
			So(len(reports), ShouldEqual, 1)
			So(reports[0].ID, ShouldEqual, second.ID)
		})
	})
}

func TestAlertsAndAnalyses(t *testing.T) {
	Convey("Given a store", t, func() {
		s := New()

		Convey("When alerts are added", func() {
			s.AddAlert(types.Alert{Title: "High surf", Type: types.AlertWarning})
			expired := s.AddAlert(types.Alert{Title: "Old drill", Type: types.AlertInfo, ExpiresAt: "2001-01-01T00:00:00Z"})
			_ = expired

			Convey("Then only unexpired alerts are active", func() {
				active := s.ActiveAlerts()
				So(len(active), ShouldEqual, 1)
				So(active[0].Title, ShouldEqual, "High surf")
			})
		})

		Convey("When many analyses are recorded", func() {
			for i := 0; i < maxRecentAnalyses+50; i++ {
				s.RecordAnalysis(types.SocialMediaPost{ID: "p"}, types.SentimentAnalysis{})
			}

			Convey("Then the buffer stays bounded", func() {
				So(len(s.RecentAnalyses(0)), ShouldEqual, maxRecentAnalyses)
				So(len(s.RecentAnalyses(10)), ShouldEqual, 10)
			})
		})
	})
}

func TestRecipientsNear(t *testing.T) {
	Convey("Given recipients registered around Mumbai", t, func() {
		s := New()
		s.RegisterRecipient("+91-9876543210", types.GeoPoint{Lat: 19.076, Lng: 72.8777})  // Mumbai
		s.RegisterRecipient("+91-9876543211", types.GeoPoint{Lat: 19.0896, Lng: 72.8656}) // Juhu
		s.RegisterRecipient("+91-9876543212", types.GeoPoint{Lat: 13.0827, Lng: 80.2707}) // Chennai

		Convey("Then a 25 km radius around Mumbai finds only the nearby two", func() {
			phones := s.RecipientsNear(19.076, 72.8777, 25)
			So(len(phones), ShouldEqual, 2)
		})

		Convey("And re-registering a phone updates its location instead of duplicating", func() {
			s.RegisterRecipient("+91-9876543212", types.GeoPoint{Lat: 19.076, Lng: 72.8777})
			phones := s.RecipientsNear(19.076, 72.8777, 25)
			So(len(phones), ShouldEqual, 3)
		})
	})
}

func TestConcurrentAccess(t *testing.T) {
	Convey("Given concurrent writers and readers", t, func() {
		s := New()
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.AddReport(types.HazardReport{HazardType: "debris"}, types.UrgencyFactors{})
				s.ListReports(types.ReportFilters{})
				s.RecordAnalysis(types.SocialMediaPost{ID: "x"}, types.SentimentAnalysis{})
			}()
		}
		wg.Wait()

		Convey("Then every write landed", func() {
			So(len(s.ListReports(types.ReportFilters{})), ShouldEqual, 20)
		})
	})
}
