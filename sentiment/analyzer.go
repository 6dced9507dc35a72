// Package sentiment classifies social media posts for ocean-hazard
// relevance, combining an LLM judgment with a deterministic rule-based
// fallback that is always computed.
package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/Varp17/atlas-alert/types"
)

const (
	defaultBatchSize  = 5
	defaultBatchDelay = time.Second
)

// oceanKeywords are the domain words that make a post hazard-relevant. Each
// match adds 5 urgency points and 0.1 confidence.
var oceanKeywords = []string{
	"tsunami", "flood", "hurricane", "cyclone", "storm", "waves", "tide",
	"current", "shark", "jellyfish", "drowning", "rescue", "emergency",
	"danger", "warning", "evacuation", "alert", "safety", "hazard", "risk",
	"threat", "disaster", "coastal", "marine", "ocean", "sea", "beach",
	"shore", "water", "swimming",
}

// urgencyIndicators each add 15 urgency points when present.
var urgencyIndicators = []string{
	"help", "emergency", "urgent", "immediate", "now", "asap", "critical",
	"danger", "threat", "warning", "alert", "evacuation", "rescue", "sos",
}

var positiveWords = []string{"safe", "rescued", "clear", "calm", "beautiful", "peaceful"}
var negativeWords = []string{"danger", "threat", "emergency", "warning", "critical", "urgent"}

// emotionGroups map an emotion label to its trigger words. Order is fixed so
// extracted emotion lists are deterministic.
var emotionGroups = []struct {
	label string
	words []string
}{
	{"fear", []string{"scared", "afraid", "terrified", "panic", "worried"}},
	{"anger", []string{"angry", "furious", "mad", "outraged", "frustrated"}},
	{"sadness", []string{"sad", "devastated", "heartbroken", "tragic", "loss"}},
	{"joy", []string{"happy", "excited", "thrilled", "amazing", "wonderful"}},
	{"surprise", []string{"shocked", "surprised", "unexpected", "sudden", "wow"}},
	{"urgency", []string{"urgent", "immediate", "emergency", "critical", "now"}},
}

// ChatCompleter is the slice of the OpenAI client the analyzer needs.
// *openai.Client satisfies it.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Analyzer scores social media posts. A nil client disables the AI path and
// every call resolves to the rule-based result.
type Analyzer struct {
	client     ChatCompleter
	model      string
	log        *zap.SugaredLogger
	batchSize  int
	batchDelay time.Duration
}

// Option applies a configuration option to the Analyzer.
type Option func(*Analyzer)

// WithModel overrides the chat model used for AI analysis.
func WithModel(model string) Option {
	return func(a *Analyzer) {
		if model != "" {
			a.model = model
		}
	}
}

// WithBatchSize overrides how many posts are analyzed concurrently per batch.
func WithBatchSize(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.batchSize = n
		}
	}
}

// WithBatchDelay overrides the pause between batches.
func WithBatchDelay(d time.Duration) Option {
	return func(a *Analyzer) {
		if d >= 0 {
			a.batchDelay = d
		}
	}
}

func NewAnalyzer(client ChatCompleter, logger *zap.SugaredLogger, opts ...Option) *Analyzer {
	a := &Analyzer{
		client:     client,
		model:      openai.GPT4oMini,
		log:        logger,
		batchSize:  defaultBatchSize,
		batchDelay: defaultBatchDelay,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeSentiment classifies a single post. It never returns an error: when
// the AI call fails (or no client is configured) the rule-based result is
// returned alone.
func (a *Analyzer) AnalyzeSentiment(ctx context.Context, post types.SocialMediaPost) types.SentimentAnalysis {
	rule := ruleBasedAnalysis(post)

	if a.client == nil {
		return rule
	}

	ai, err := a.queryModel(ctx, post)
	if err != nil {
		a.log.Warnf("AI sentiment analysis failed for post %s, falling back to rule-based: %v", post.ID, err)
		return rule
	}

	return combineAnalyses(ai, rule)
}

// BatchAnalyze processes posts in fixed-size batches, analyzing the posts of
// a batch concurrently and pausing between batches to respect the provider's
// rate limits. Batches run strictly sequentially relative to one another.
func (a *Analyzer) BatchAnalyze(ctx context.Context, posts []types.SocialMediaPost) map[string]types.SentimentAnalysis {
	results := make(map[string]types.SentimentAnalysis, len(posts))
	var mu sync.Mutex

	for start := 0; start < len(posts); start += a.batchSize {
		end := min(start+a.batchSize, len(posts))

		var wg sync.WaitGroup
		for _, post := range posts[start:end] {
			wg.Add(1)
			go func(p types.SocialMediaPost) {
				defer wg.Done()
				analysis := a.AnalyzeSentiment(ctx, p)
				mu.Lock()
				results[p.ID] = analysis
				mu.Unlock()
			}(post)
		}
		wg.Wait()

		if end < len(posts) {
			time.Sleep(a.batchDelay)
		}
	}

	return results
}

// aiAnalysis is the JSON shape requested from the model. Fields that come
// back invalid are treated as absent during reconciliation.
type aiAnalysis struct {
	Sentiment      string   `json:"sentiment"`
	Confidence     float64  `json:"confidence"`
	UrgencyScore   float64  `json:"urgencyScore"`
	Emotions       []string `json:"emotions"`
	Keywords       []string `json:"keywords"`
	ThreatLevel    string   `json:"threatLevel"`
	ActionRequired bool     `json:"actionRequired"`
	Summary        string   `json:"summary"`
}

func (a *Analyzer) queryModel(ctx context.Context, post types.SocialMediaPost) (aiAnalysis, error) {
	location := post.Location
	if location == "" {
		location = "Unknown"
	}

	prompt := fmt.Sprintf(`Analyze the sentiment and urgency of this social media post about ocean/marine safety:

Content: %q
Platform: %s
Hashtags: %s
Location: %s

Provide analysis in this JSON format:
{
  "sentiment": "positive|negative|neutral|urgent",
  "confidence": 0.0-1.0,
  "urgencyScore": 0-100,
  "emotions": ["emotion1", "emotion2"],
  "keywords": ["keyword1", "keyword2"],
  "threatLevel": "none|low|medium|high|critical",
  "actionRequired": true|false,
  "summary": "Brief analysis summary"
}

Focus on ocean safety, marine hazards, emergency situations, and public safety concerns.`,
		post.Content, post.Platform, strings.Join(post.Hashtags, ", "), location)

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an assistant that analyzes social media posts about ocean safety. Respond with JSON only.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   300,
		N:           1,
		Temperature: 0.2,
	})
	if err != nil {
		return aiAnalysis{}, fmt.Errorf("openai chat completion error: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return aiAnalysis{}, errors.New("openai returned empty response or choices")
	}

	raw, err := extractJSON(resp.Choices[0].Message.Content)
	if err != nil {
		return aiAnalysis{}, err
	}

	var parsed aiAnalysis
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return aiAnalysis{}, fmt.Errorf("parsing model response: %w", err)
	}
	return parsed, nil
}

// extractJSON pulls the outermost JSON object out of a model reply, which may
// be wrapped in prose or markdown fences.
func extractJSON(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return "", errors.New("no JSON object in model response")
	}
	return text[start : end+1], nil
}

// ruleBasedAnalysis is the deterministic classification path. It has no
// failure modes so the AI fallback is unconditionally reliable.
func ruleBasedAnalysis(post types.SocialMediaPost) types.SentimentAnalysis {
	content := strings.ToLower(post.Content)
	allText := strings.ToLower(content + " " + strings.Join(post.Hashtags, " "))

	urgencyScore := 0
	for _, indicator := range urgencyIndicators {
		if strings.Contains(allText, indicator) {
			urgencyScore += 15
		}
	}

	matched := []string{}
	for _, keyword := range oceanKeywords {
		if strings.Contains(allText, keyword) {
			matched = append(matched, keyword)
		}
	}
	urgencyScore += len(matched) * 5

	sentimentScore := 0
	for _, word := range positiveWords {
		if strings.Contains(allText, word) {
			sentimentScore++
		}
	}
	for _, word := range negativeWords {
		if strings.Contains(allText, word) {
			sentimentScore -= 2
		}
	}

	var sentiment types.Sentiment
	switch {
	case urgencyScore > 50:
		sentiment = types.Urgent
	case sentimentScore > 1:
		sentiment = types.Positive
	case sentimentScore < -1:
		sentiment = types.Negative
	default:
		sentiment = types.Neutral
	}

	var threatLevel types.ThreatLevel
	switch {
	case urgencyScore > 80:
		threatLevel = types.ThreatCritical
	case urgencyScore > 60:
		threatLevel = types.ThreatHigh
	case urgencyScore > 40:
		threatLevel = types.ThreatMedium
	case urgencyScore > 20:
		threatLevel = types.ThreatLow
	default:
		threatLevel = types.ThreatNone
	}

	return types.SentimentAnalysis{
		Sentiment:      sentiment,
		Confidence:     math.Min(0.8, 0.4+float64(len(matched))*0.1),
		UrgencyScore:   min(100, urgencyScore),
		Emotions:       extractEmotions(content),
		Keywords:       matched,
		ThreatLevel:    threatLevel,
		ActionRequired: urgencyScore > 40,
		Summary:        generateSummary(sentiment, urgencyScore, matched),
	}
}

// combineAnalyses reconciles the AI and rule-based results, preferring the
// more severe value for severity-like fields.
func combineAnalyses(ai aiAnalysis, rule types.SentimentAnalysis) types.SentimentAnalysis {
	sentiment := rule.Sentiment
	if s := types.Sentiment(ai.Sentiment); s.IsValid() {
		sentiment = s
	}

	aiThreat := types.ThreatNone
	if t := types.ThreatLevel(ai.ThreatLevel); t.IsValid() {
		aiThreat = t
	}

	summary := ai.Summary
	if summary == "" {
		summary = rule.Summary
	}

	emotions := append(append([]string{}, ai.Emotions...), rule.Emotions...)
	if len(emotions) > 5 {
		emotions = emotions[:5]
	}
	keywords := append(append([]string{}, ai.Keywords...), rule.Keywords...)
	if len(keywords) > 10 {
		keywords = keywords[:10]
	}

	return types.SentimentAnalysis{
		Sentiment:      sentiment,
		Confidence:     math.Max(ai.Confidence, rule.Confidence),
		UrgencyScore:   max(int(math.Round(ai.UrgencyScore)), rule.UrgencyScore),
		Emotions:       emotions,
		Keywords:       keywords,
		ThreatLevel:    types.HigherThreat(aiThreat, rule.ThreatLevel),
		ActionRequired: ai.ActionRequired || rule.ActionRequired,
		Summary:        summary,
	}
}

func extractEmotions(content string) []string {
	var emotions []string
	for _, group := range emotionGroups {
		for _, word := range group.words {
			if strings.Contains(content, word) {
				emotions = append(emotions, group.label)
				break
			}
		}
	}
	return emotions
}

func generateSummary(sentiment types.Sentiment, urgencyScore int, keywords []string) string {
	switch {
	case urgencyScore > 70:
		return fmt.Sprintf("High urgency ocean safety post detected with %d relevant keywords. Immediate attention recommended.", len(keywords))
	case urgencyScore > 40:
		return "Moderate urgency ocean-related content with potential safety implications."
	case len(keywords) > 0:
		return fmt.Sprintf("Ocean-related content with %s sentiment. Routine monitoring recommended.", sentiment)
	default:
		return fmt.Sprintf("General social media post with %s sentiment.", sentiment)
	}
}
