// Package mlservice exposes the LLM-backed hazard intelligence calls:
// free-text hazard classification, multi-report threat assessment, and
// location extraction.
package mlservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/Varp17/atlas-alert/types"
)

// ChatCompleter is the slice of the OpenAI client this service needs.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// HazardClassification is the structured judgment for a piece of hazard text.
type HazardClassification struct {
	HazardType string         `json:"hazardType"`
	Severity   types.Severity `json:"severity"`
	Confidence float64        `json:"confidence"`
	Location   *NamedLocation `json:"location,omitempty"`
	Keywords   []string       `json:"keywords"`
	Urgency    string         `json:"urgency"` // immediate|within_hours|within_days|monitoring
}

type NamedLocation struct {
	Name       string   `json:"name,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	Confidence float64  `json:"confidence,omitempty"`
}

// ThreatAssessment aggregates multiple reports into one situational picture.
type ThreatAssessment struct {
	OverallThreatLevel types.Severity `json:"overallThreatLevel"`
	PrimaryHazards     []string       `json:"primaryHazards"`
	AffectedAreas      []string       `json:"affectedAreas"`
	Recommendations    []string       `json:"recommendations"`
	Confidence         float64        `json:"confidence"`
}

// ReportInput is one report handed to the threat assessment.
type ReportInput struct {
	Text      string  `json:"text"`
	Lat       float64 `json:"lat,omitempty"`
	Lng       float64 `json:"lng,omitempty"`
	Timestamp string  `json:"timestamp"`
	Source    string  `json:"source"`
}

type locationList struct {
	Locations []NamedLocation `json:"locations"`
}

// Service wraps the chat client. A nil client makes every call fail fast with
// ErrUnavailable so HTTP handlers can answer 503 instead of timing out.
type Service struct {
	client ChatCompleter
	model  string
	log    *zap.SugaredLogger
}

// ErrUnavailable is returned when no LLM client is configured.
var ErrUnavailable = errors.New("ml service not configured")

func NewService(client ChatCompleter, model string, logger *zap.SugaredLogger) *Service {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Service{client: client, model: model, log: logger}
}

// ClassifyHazard classifies free text describing an ocean/coastal hazard.
func (s *Service) ClassifyHazard(ctx context.Context, text string) (HazardClassification, error) {
	prompt := fmt.Sprintf(`Analyze the following text for ocean/coastal hazard information:
%q

Classify the hazard type, severity, and extract relevant information.
Consider context clues about location, timing, and impact.

Respond with JSON only:
{
  "hazardType": "tsunami|cyclone|storm_surge|coastal_erosion|oil_spill|marine_pollution|rip_current|high_waves|flooding|other",
  "severity": "low|medium|high|critical",
  "confidence": 0.0-1.0,
  "location": {"name": "...", "latitude": 0.0, "longitude": 0.0},
  "keywords": ["..."],
  "urgency": "immediate|within_hours|within_days|monitoring"
}`, text)

	var result HazardClassification
	if err := s.complete(ctx, "You classify ocean hazard reports. Respond with JSON only.", prompt, &result); err != nil {
		return HazardClassification{}, fmt.Errorf("hazard classification: %w", err)
	}
	return result, nil
}

// GenerateThreatAssessment combines multiple hazard reports into a single
// threat picture for authorities.
func (s *Service) GenerateThreatAssessment(ctx context.Context, reports []ReportInput) (ThreatAssessment, error) {
	var b strings.Builder
	for i, r := range reports {
		fmt.Fprintf(&b, "Report %d: %s (Source: %s, Time: %s)\n\n", i+1, r.Text, r.Source, r.Timestamp)
	}

	prompt := fmt.Sprintf(`Analyze these ocean hazard reports and provide a comprehensive threat assessment:

%s
Consider correlation between reports, geographic clustering, temporal patterns, source credibility, and potential cascading effects.

Respond with JSON only:
{
  "overallThreatLevel": "low|medium|high|critical",
  "primaryHazards": ["..."],
  "affectedAreas": ["..."],
  "recommendations": ["..."],
  "confidence": 0.0-1.0
}`, b.String())

	var result ThreatAssessment
	if err := s.complete(ctx, "You produce threat assessments for coastal authorities. Respond with JSON only.", prompt, &result); err != nil {
		return ThreatAssessment{}, fmt.Errorf("threat assessment: %w", err)
	}
	return result, nil
}

// ExtractLocations pulls place names (and coordinates when the model knows
// them) out of free text. Parse failures degrade to an empty list, matching
// the tolerant behavior callers expect from this path.
func (s *Service) ExtractLocations(ctx context.Context, text string) ([]NamedLocation, error) {
	if s.client == nil {
		return nil, ErrUnavailable
	}

	prompt := fmt.Sprintf(`Extract location information from this text:
%q

Focus on cities, beaches, ports, harbors, geographic features, and administrative regions.

Respond with JSON only:
{"locations": [{"name": "...", "latitude": 0.0, "longitude": 0.0, "confidence": 0.0-1.0}]}`, text)

	var result locationList
	if err := s.complete(ctx, "You extract geographic locations from text. Respond with JSON only.", prompt, &result); err != nil {
		s.log.Warnf("location extraction degraded to empty result: %v", err)
		return []NamedLocation{}, nil
	}
	return result.Locations, nil
}

func (s *Service) complete(ctx context.Context, system, prompt string, out any) error {
	if s.client == nil {
		return ErrUnavailable
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   400,
		N:           1,
		Temperature: 0.2,
	})
	if err != nil {
		return fmt.Errorf("openai chat completion error: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return errors.New("openai returned empty response or choices")
	}

	raw, err := extractJSON(resp.Choices[0].Message.Content)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("parsing model response: %w", err)
	}
	return nil
}

func extractJSON(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return "", errors.New("no JSON object in model response")
	}
	return text[start : end+1], nil
}
