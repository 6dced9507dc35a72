package sentiment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/sashabaranov/go-openai"
	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/zap"

	"github.com/Varp17/atlas-alert/types"
)

// stubClient replays a canned model reply or error.
type stubClient struct {
	reply string
	err   error
	calls atomic.Int32
}

func (s *stubClient) CreateChatCompletion(_ context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.calls.Add(1)
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: s.reply}},
		},
	}, nil
}

func nopLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func TestRuleBasedAnalysis(t *testing.T) {
	Convey("Given an urgent tsunami warning post", t, func() {
		post := types.SocialMediaPost{
			ID:       "post-1",
			Content:  "Tsunami warning! Evacuate the beach immediately, this is an emergency!",
			Platform: "twitter",
			Hashtags: []string{},
		}

		analysis := ruleBasedAnalysis(post)

		Convey("Then it is classified as urgent with a high threat level", func() {
			So(analysis.Sentiment, ShouldEqual, types.Urgent)
			So(analysis.ThreatLevel.Rank(), ShouldBeGreaterThanOrEqualTo, types.ThreatHigh.Rank())
			So(analysis.ActionRequired, ShouldBeTrue)
			So(analysis.UrgencyScore, ShouldEqual, 65)
			So(analysis.Confidence, ShouldAlmostEqual, 0.8, 0.001)
			So(analysis.Keywords, ShouldResemble, []string{"tsunami", "emergency", "warning", "beach"})
			So(analysis.Emotions, ShouldResemble, []string{"urgency"})
		})
	})

	Convey("Given a calm positive beach post", t, func() {
		post := types.SocialMediaPost{
			ID:      "post-2",
			Content: "Beautiful calm sunset at the beach today",
		}

		analysis := ruleBasedAnalysis(post)

		Convey("Then it is positive, near-zero urgency, no threat", func() {
			So(analysis.Sentiment, ShouldEqual, types.Positive)
			So(analysis.UrgencyScore, ShouldEqual, 5)
			So(analysis.ThreatLevel, ShouldEqual, types.ThreatNone)
			So(analysis.ActionRequired, ShouldBeFalse)
			So(analysis.Keywords, ShouldResemble, []string{"beach"})
			So(analysis.Summary, ShouldEqual, "Ocean-related content with positive sentiment. Routine monitoring recommended.")
		})
	})

	Convey("Given degenerate inputs", t, func() {
		Convey("Then an empty post yields a neutral no-threat analysis", func() {
			analysis := ruleBasedAnalysis(types.SocialMediaPost{ID: "empty"})
			So(analysis.Sentiment, ShouldEqual, types.Neutral)
			So(analysis.ThreatLevel, ShouldEqual, types.ThreatNone)
			So(analysis.UrgencyScore, ShouldEqual, 0)
			So(analysis.Keywords, ShouldResemble, []string{})
			So(analysis.Summary, ShouldEqual, "General social media post with neutral sentiment.")
		})

		Convey("And a very long keyword-free post still resolves without panic", func() {
			analysis := ruleBasedAnalysis(types.SocialMediaPost{
				ID:      "long",
				Content: strings.Repeat("lorem ipsum dolor sit amet ", 10000),
			})
			So(analysis.Sentiment, ShouldEqual, types.Neutral)
			So(analysis.UrgencyScore, ShouldEqual, 0)
		})

		Convey("And the urgency score is clamped at 100", func() {
			analysis := ruleBasedAnalysis(types.SocialMediaPost{
				ID:      "max",
				Content: strings.Join(append(append([]string{}, urgencyIndicators...), oceanKeywords...), " "),
			})
			So(analysis.UrgencyScore, ShouldEqual, 100)
			So(analysis.ThreatLevel, ShouldEqual, types.ThreatCritical)
		})
	})

	Convey("Given hashtags carrying the hazard words", t, func() {
		post := types.SocialMediaPost{
			ID:       "tagged",
			Content:  "conditions deteriorating fast",
			Hashtags: []string{"RipCurrent", "BeachAlert"},
		}

		Convey("Then hashtags count toward keyword matches", func() {
			analysis := ruleBasedAnalysis(post)
			So(analysis.Keywords, ShouldContain, "current")
			So(analysis.Keywords, ShouldContain, "beach")
			So(analysis.Keywords, ShouldContain, "alert")
		})
	})
}

func TestAnalyzeSentimentFallback(t *testing.T) {
	Convey("Given a post and a failing AI client", t, func() {
		post := types.SocialMediaPost{
			ID:       "post-3",
			Content:  "Shark spotted near the shore, danger!",
			Platform: "twitter",
		}
		client := &stubClient{err: errors.New("connection refused")}
		analyzer := NewAnalyzer(client, nopLogger())

		Convey("Then the rule-based result is returned and no panic escapes", func() {
			result := analyzer.AnalyzeSentiment(context.Background(), post)
			So(result, ShouldResemble, ruleBasedAnalysis(post))
			So(client.calls.Load(), ShouldEqual, 1)
		})
	})

	Convey("Given a client that returns malformed JSON", t, func() {
		post := types.SocialMediaPost{ID: "post-4", Content: "high waves at the pier"}
		analyzer := NewAnalyzer(&stubClient{reply: "sorry, I cannot comply"}, nopLogger())

		Convey("Then the analyzer falls back to the rule-based result", func() {
			result := analyzer.AnalyzeSentiment(context.Background(), post)
			So(result, ShouldResemble, ruleBasedAnalysis(post))
		})
	})

	Convey("Given no client at all", t, func() {
		analyzer := NewAnalyzer(nil, nopLogger())

		Convey("Then analysis still resolves rule-based", func() {
			result := analyzer.AnalyzeSentiment(context.Background(), types.SocialMediaPost{ID: "p", Content: "storm surge warning"})
			So(result.ThreatLevel, ShouldNotEqual, "")
		})
	})
}

func TestCombineAnalyses(t *testing.T) {
	Convey("Given an AI result less severe than the rule-based one", t, func() {
		post := types.SocialMediaPost{
			ID:      "post-5",
			Content: "Tsunami warning! Evacuate the beach immediately, this is an emergency!",
		}
		rule := ruleBasedAnalysis(post)
		ai := aiAnalysis{
			Sentiment:      "negative",
			Confidence:     0.3,
			UrgencyScore:   20,
			Emotions:       []string{"fear"},
			Keywords:       []string{"storm"},
			ThreatLevel:    "low",
			ActionRequired: false,
			Summary:        "Post mentions a possible tsunami.",
		}

		combined := combineAnalyses(ai, rule)

		Convey("Then severity-like fields keep the higher value", func() {
			So(combined.Confidence, ShouldAlmostEqual, rule.Confidence, 0.001)
			So(combined.UrgencyScore, ShouldEqual, rule.UrgencyScore)
			So(combined.ThreatLevel, ShouldEqual, rule.ThreatLevel)
			So(combined.ActionRequired, ShouldBeTrue)
		})

		Convey("And AI-supplied sentiment, summary and list prefixes win", func() {
			So(combined.Sentiment, ShouldEqual, types.Negative)
			So(combined.Summary, ShouldEqual, "Post mentions a possible tsunami.")
			So(combined.Emotions[0], ShouldEqual, "fear")
			So(combined.Keywords[0], ShouldEqual, "storm")
		})
	})

	Convey("Given an AI result with invalid enum values", t, func() {
		rule := ruleBasedAnalysis(types.SocialMediaPost{ID: "p", Content: "rip current by the jetty, rescue underway"})
		ai := aiAnalysis{Sentiment: "angry", ThreatLevel: "apocalyptic", Confidence: 0.9}

		combined := combineAnalyses(ai, rule)

		Convey("Then invalid values are treated as absent", func() {
			So(combined.Sentiment, ShouldEqual, rule.Sentiment)
			So(combined.ThreatLevel, ShouldEqual, rule.ThreatLevel)
			So(combined.Confidence, ShouldAlmostEqual, 0.9, 0.001)
		})
	})

	Convey("Given oversized emotion and keyword lists", t, func() {
		rule := ruleBasedAnalysis(types.SocialMediaPost{
			ID:      "p",
			Content: "tsunami flood hurricane cyclone storm waves tide shark jellyfish drowning",
		})
		ai := aiAnalysis{
			Emotions: []string{"a", "b", "c", "d"},
			Keywords: []string{"k1", "k2", "k3", "k4", "k5", "k6"},
		}

		combined := combineAnalyses(ai, rule)

		Convey("Then emotions cap at 5 and keywords at 10, AI entries first", func() {
			So(len(combined.Emotions), ShouldBeLessThanOrEqualTo, 5)
			So(len(combined.Keywords), ShouldEqual, 10)
			So(combined.Keywords[0], ShouldEqual, "k1")
		})
	})
}

func TestAnalyzeSentimentWithModelReply(t *testing.T) {
	Convey("Given a model reply wrapped in markdown fences", t, func() {
		reply := "```json\n{\"sentiment\":\"urgent\",\"confidence\":0.95,\"urgencyScore\":90,\"threatLevel\":\"critical\",\"actionRequired\":true,\"summary\":\"Severe flooding reported.\"}\n```"
		analyzer := NewAnalyzer(&stubClient{reply: reply}, nopLogger())
		post := types.SocialMediaPost{ID: "post-6", Content: "flooding on the esplanade"}

		Convey("Then the JSON is extracted and reconciled", func() {
			result := analyzer.AnalyzeSentiment(context.Background(), post)
			So(result.Sentiment, ShouldEqual, types.Urgent)
			So(result.UrgencyScore, ShouldEqual, 90)
			So(result.ThreatLevel, ShouldEqual, types.ThreatCritical)
			So(result.Confidence, ShouldAlmostEqual, 0.95, 0.001)
			So(result.Summary, ShouldEqual, "Severe flooding reported.")
		})
	})
}

func TestBatchAnalyze(t *testing.T) {
	Convey("Given a dozen posts and a batch size of 5", t, func() {
		reply := `{"sentiment":"neutral","confidence":0.5,"urgencyScore":10,"threatLevel":"low","actionRequired":false,"summary":"ok"}`
		client := &stubClient{reply: reply}
		analyzer := NewAnalyzer(client, nopLogger(), WithBatchSize(5), WithBatchDelay(0))

		posts := make([]types.SocialMediaPost, 12)
		for i := range posts {
			posts[i] = types.SocialMediaPost{
				ID:      fmt.Sprintf("post-%d", i),
				Content: "quiet day by the water",
			}
		}

		results := analyzer.BatchAnalyze(context.Background(), posts)

		Convey("Then every post gets exactly one analysis", func() {
			So(len(results), ShouldEqual, 12)
			So(client.calls.Load(), ShouldEqual, 12)
			for _, p := range posts {
				_, ok := results[p.ID]
				So(ok, ShouldBeTrue)
			}
		})
	})

	Convey("Given an empty post list", t, func() {
		analyzer := NewAnalyzer(nil, nopLogger())

		Convey("Then the result map is empty", func() {
			So(len(analyzer.BatchAnalyze(context.Background(), nil)), ShouldEqual, 0)
		})
	})
}
