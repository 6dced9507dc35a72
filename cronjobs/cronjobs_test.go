package cronjobs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/zap"

	"github.com/Varp17/atlas-alert/config"
	"github.com/Varp17/atlas-alert/hub"
	"github.com/Varp17/atlas-alert/sentiment"
	"github.com/Varp17/atlas-alert/store"
	"github.com/Varp17/atlas-alert/types"
)

func feedServer(t *testing.T, feed types.FeedResponse) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "app.bsky.feed.getFeed") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(feed)
	}))
}

func testMonitor(t *testing.T, host string) (*Monitor, *store.Store) {
	t.Helper()
	logger := zap.NewNop().Sugar()
	st := store.New()
	m := NewMonitor(
		config.MonitorConfig{
			Schedule:     "@every 10m",
			FeedURI:      "at://example/feed",
			FeedHost:     host,
			FeedLimit:    50,
			FetchTimeout: 5 * time.Second,
		},
		sentiment.NewAnalyzer(nil, logger, sentiment.WithBatchDelay(0)),
		st,
		hub.New(logger),
		logger,
	)
	return m, st
}

func TestSweep(t *testing.T) {
	Convey("Given a feed with one threatening and one calm post", t, func() {
		srv := feedServer(t, types.FeedResponse{
			Feed: []types.FeedEntry{
				{Post: types.FeedPost{
					URI:    "at://post/threat",
					Author: types.FeedAuthor{Handle: "coastwatch.bsky.social"},
					Record: types.FeedRecord{
						CreatedAt: "2026-08-29T10:00:00Z",
						Text:      "Tsunami warning! Evacuate the beach immediately, this is an emergency!",
					},
					LikeCount: 12,
				}},
				{Post: types.FeedPost{
					URI:    "at://post/calm",
					Author: types.FeedAuthor{Handle: "beachlife.bsky.social"},
					Record: types.FeedRecord{
						CreatedAt: "2026-08-29T10:05:00Z",
						Text:      "Beautiful calm sunset at the beach today",
					},
				}},
			},
		})
		defer srv.Close()

		m, st := testMonitor(t, srv.URL)

		Convey("A sweep analyzes every post and alerts on the threat", func() {
			So(m.Sweep(context.Background()), ShouldBeNil)

			analyzed := st.RecentAnalyses(10)
			So(analyzed, ShouldHaveLength, 2)

			alerts := st.ActiveAlerts()
			So(alerts, ShouldHaveLength, 1)
			So(alerts[0].CreatedBy, ShouldEqual, "social-monitor")
			So(alerts[0].Title, ShouldContainSubstring, "threat")
		})
	})

	Convey("Given an empty feed", t, func() {
		srv := feedServer(t, types.FeedResponse{})
		defer srv.Close()

		m, st := testMonitor(t, srv.URL)

		Convey("A sweep records nothing", func() {
			So(m.Sweep(context.Background()), ShouldBeNil)
			So(st.RecentAnalyses(10), ShouldBeEmpty)
			So(st.ActiveAlerts(), ShouldBeEmpty)
		})
	})

	Convey("Given an unreachable feed host", t, func() {
		m, st := testMonitor(t, "http://127.0.0.1:1")

		Convey("A sweep surfaces the fetch error", func() {
			So(m.Sweep(context.Background()), ShouldNotBeNil)
			So(st.RecentAnalyses(10), ShouldBeEmpty)
		})
	})
}

func TestToSocialPost(t *testing.T) {
	Convey("Feed posts map onto the analyzer's input form", t, func() {
		post := toSocialPost(types.FeedPost{
			URI:         "at://post/1",
			Author:      types.FeedAuthor{Handle: "user.bsky.social"},
			LikeCount:   3,
			RepostCount: 1,
			ReplyCount:  2,
			Record: types.FeedRecord{
				CreatedAt: "2026-08-29T09:00:00Z",
				Text:      "Rip current near the pier #RipCurrent",
				Facets: []types.FeedFacet{
					{Features: []types.FeedFeature{{Type: "app.bsky.richtext.facet#tag", Tag: "RipCurrent"}}},
				},
			},
		})

		So(post.ID, ShouldEqual, "at://post/1")
		So(post.Platform, ShouldEqual, "bluesky")
		So(post.Username, ShouldEqual, "user.bsky.social")
		So(post.Hashtags, ShouldResemble, []string{"RipCurrent"})
		So(post.Engagement.Likes, ShouldEqual, 3)
		So(post.Engagement.Shares, ShouldEqual, 1)
		So(post.Engagement.Comments, ShouldEqual, 2)
	})
}
