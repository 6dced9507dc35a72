// Package cronjobs runs the scheduled social media monitor. It pulls a
// curated ocean-hazard feed from Bluesky, analyzes each post and raises
// alerts when the threat level warrants one.
package cronjobs

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bluesky-social/indigo/xrpc"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Varp17/atlas-alert/config"
	"github.com/Varp17/atlas-alert/hub"
	"github.com/Varp17/atlas-alert/sentiment"
	"github.com/Varp17/atlas-alert/store"
	"github.com/Varp17/atlas-alert/types"
)

const feedMethod = "app.bsky.feed.getFeed"

// Monitor is the scheduled social media watcher.
type Monitor struct {
	cfg      config.MonitorConfig
	client   *xrpc.Client
	analyzer *sentiment.Analyzer
	store    *store.Store
	hub      *hub.Hub
	log      *zap.SugaredLogger
	cron     *cron.Cron
}

func NewMonitor(
	cfg config.MonitorConfig,
	analyzer *sentiment.Analyzer,
	st *store.Store,
	h *hub.Hub,
	logger *zap.SugaredLogger,
) *Monitor {
	return &Monitor{
		cfg: cfg,
		client: &xrpc.Client{
			Client: &http.Client{Timeout: cfg.FetchTimeout},
			Host:   cfg.FeedHost,
		},
		analyzer: analyzer,
		store:    st,
		hub:      h,
		log:      logger,
		cron:     cron.New(),
	}
}

// Start schedules the monitor. The first sweep runs on the configured
// schedule, not immediately.
func (m *Monitor) Start() error {
	m.log.Infof("starting social media monitor (schedule %q)", m.cfg.Schedule)

	_, err := m.cron.AddFunc(m.cfg.Schedule, func() {
		if err := m.Sweep(context.Background()); err != nil {
			m.log.Errorf("monitor sweep failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule monitor: %w", err)
	}

	m.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (m *Monitor) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
}

// Sweep fetches the feed once, analyzes every post and records the results.
func (m *Monitor) Sweep(ctx context.Context) error {
	feed, err := m.fetchFeed(ctx)
	if err != nil {
		return err
	}
	if len(feed.Feed) == 0 {
		m.log.Debugf("monitor sweep: feed empty")
		return nil
	}

	posts := make([]types.SocialMediaPost, 0, len(feed.Feed))
	byID := make(map[string]types.SocialMediaPost, len(feed.Feed))
	for _, entry := range feed.Feed {
		post := toSocialPost(entry.Post)
		posts = append(posts, post)
		byID[post.ID] = post
	}

	results := m.analyzer.BatchAnalyze(ctx, posts)

	flagged := 0
	for id, analysis := range results {
		post := byID[id]
		m.store.RecordAnalysis(post, analysis)

		if analysis.ThreatLevel.Rank() >= types.ThreatHigh.Rank() {
			flagged++
			m.raiseAlert(post, analysis)
		}
	}

	m.log.Infof("monitor sweep: analyzed %d posts, flagged %d", len(results), flagged)
	return nil
}

func (m *Monitor) fetchFeed(ctx context.Context) (types.FeedResponse, error) {
	params := map[string]interface{}{
		"feed":  m.cfg.FeedURI,
		"limit": m.cfg.FeedLimit,
	}

	var out types.FeedResponse
	if err := m.client.Do(ctx, xrpc.Query, "json", feedMethod, params, nil, &out); err != nil {
		return types.FeedResponse{}, fmt.Errorf("fetch feed: %w", err)
	}
	return out, nil
}

// raiseAlert stores an alert for a high-threat post and pushes it live.
func (m *Monitor) raiseAlert(post types.SocialMediaPost, analysis types.SentimentAnalysis) {
	alertType := types.AlertWarning
	if analysis.ThreatLevel == types.ThreatCritical {
		alertType = types.AlertCritical
	}

	alert := m.store.AddAlert(types.Alert{
		Title:     fmt.Sprintf("Social media threat: %s", analysis.ThreatLevel),
		Message:   analysis.Summary,
		Type:      alertType,
		CreatedBy: "social-monitor",
		IsActive:  true,
	})

	m.hub.Publish(hub.EventThreatLevelChange, map[string]interface{}{
		"alert":    alert,
		"post":     post,
		"analysis": analysis,
	})
	m.log.Warnw("social media threat detected",
		"post", post.ID,
		"threat", analysis.ThreatLevel,
		"urgency", analysis.UrgencyScore,
	)
}

// toSocialPost converts a Bluesky feed entry into the analyzer's input form.
func toSocialPost(p types.FeedPost) types.SocialMediaPost {
	return types.SocialMediaPost{
		ID:        p.URI,
		Content:   p.Record.Text,
		Platform:  "bluesky",
		Username:  p.Author.Handle,
		Timestamp: p.Record.CreatedAt,
		Hashtags:  p.Record.Hashtags(),
		Engagement: &types.Engagement{
			Likes:    p.LikeCount,
			Shares:   p.RepostCount,
			Comments: p.ReplyCount,
		},
	}
}
