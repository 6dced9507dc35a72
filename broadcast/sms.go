// Package broadcast implements priority-routed SMS alert broadcasting.
// Delivery is simulated; the provider seam is real so an actual gateway can
// be dropped in.
package broadcast

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Varp17/atlas-alert/types"
)

// Provider is an SMS delivery channel. Send reports whether the message was
// accepted for the recipient.
type Provider struct {
	Name string
	Send func(ctx context.Context, to, message string) (bool, error)
}

// Request describes one broadcast.
type Request struct {
	Message    string         `json:"message"`
	Recipients []string       `json:"recipients"`
	Priority   types.Severity `json:"priority"`
	HazardType string         `json:"hazardType,omitempty"`
	Location   *TargetArea    `json:"location,omitempty"`
}

// TargetArea selects recipients registered near a point.
type TargetArea struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	RadiusKM  float64 `json:"radius"`
}

type DeliveryResult struct {
	Recipient string `json:"recipient"`
	Success   bool   `json:"success"`
	Provider  string `json:"provider"`
}

type Result struct {
	Success bool             `json:"success"`
	Sent    int              `json:"sent"`
	Failed  int              `json:"failed"`
	Results []DeliveryResult `json:"results"`
}

// Service routes broadcasts across the provider set, pacing sends to stay
// under gateway rate limits.
type Service struct {
	providers []Provider
	limiter   *rate.Limiter
	log       *zap.SugaredLogger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithProviders replaces the simulated provider set.
func WithProviders(providers []Provider) Option {
	return func(s *Service) {
		if len(providers) > 0 {
			s.providers = providers
		}
	}
}

// WithSendRate overrides the per-second send pacing.
func WithSendRate(perSecond float64) Option {
	return func(s *Service) {
		if perSecond > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

func NewService(logger *zap.SugaredLogger, opts ...Option) *Service {
	s := &Service{
		providers: simulatedProviders(logger),
		limiter:   rate.NewLimiter(rate.Limit(10), 1), // one send per 100ms
		log:       logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Broadcast sends the formatted message to every recipient, retrying
// critical messages once on a backup provider. It returns early only when
// the context is canceled; per-recipient failures are recorded, not raised.
func (s *Service) Broadcast(ctx context.Context, req Request) (Result, error) {
	var result Result
	message := formatMessage(req.Message, req.Priority, req.HazardType)

	for _, recipient := range req.Recipients {
		if err := s.limiter.Wait(ctx); err != nil {
			return result, fmt.Errorf("broadcast interrupted: %w", err)
		}

		provider := s.selectProvider(req.Priority)
		success := s.trySend(ctx, provider, recipient, message)

		if !success && req.Priority == types.Critical {
			if backup := s.backupProvider(provider.Name); backup != nil {
				provider = *backup
				success = s.trySend(ctx, provider, recipient, message)
			}
		}

		result.Results = append(result.Results, DeliveryResult{
			Recipient: recipient,
			Success:   success,
			Provider:  provider.Name,
		})
		if success {
			result.Sent++
		} else {
			result.Failed++
		}
	}

	result.Success = result.Sent > 0
	s.log.Infof("SMS broadcast complete: priority=%s sent=%d failed=%d", req.Priority, result.Sent, result.Failed)
	return result, nil
}

func (s *Service) trySend(ctx context.Context, provider Provider, recipient, message string) bool {
	ok, err := provider.Send(ctx, recipient, message)
	if err != nil {
		s.log.Warnf("provider %s failed for %s: %v", provider.Name, recipient, err)
		return false
	}
	return ok
}

// selectProvider routes by priority: critical traffic goes through the
// emergency alert system, high through the bulk gateway.
func (s *Service) selectProvider(priority types.Severity) Provider {
	switch priority {
	case types.Critical:
		return s.providers[len(s.providers)-1]
	case types.High:
		return s.providers[min(1, len(s.providers)-1)]
	default:
		return s.providers[0]
	}
}

func (s *Service) backupProvider(exclude string) *Provider {
	for i := range s.providers {
		if s.providers[i].Name != exclude {
			return &s.providers[i]
		}
	}
	return nil
}

func formatMessage(message string, priority types.Severity, hazardType string) string {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		loc = time.UTC
	}
	timestamp := time.Now().In(loc).Format("02/01/2006, 15:04:05")

	var prefix string
	switch priority {
	case types.Critical:
		prefix = "CRITICAL ALERT\n"
	case types.High:
		prefix = "HIGH PRIORITY\n"
	case types.Medium:
		prefix = "OCEAN ALERT\n"
	default:
		prefix = "Ocean Safety Update\n"
	}

	hazardInfo := ""
	if hazardType != "" {
		hazardInfo = "\nHazard: " + hazardType
	}
	footer := "\n\nAtlas-Alert Ocean Safety Platform\nStay Safe, Stay Informed"

	return fmt.Sprintf("%s%s%s\n\nTime: %s%s", prefix, message, hazardInfo, timestamp, footer)
}

// simulatedProviders mimic real gateways with fixed acceptance rates.
func simulatedProviders(logger *zap.SugaredLogger) []Provider {
	simulated := func(name string, successRate float64) Provider {
		return Provider{
			Name: name,
			Send: func(_ context.Context, to, message string) (bool, error) {
				logger.Debugf("[SMS] %s sending to %s (%d chars)", name, to, len(message))
				return rand.Float64() < successRate, nil
			},
		}
	}
	return []Provider{
		simulated("Twilio", 0.90),
		simulated("AWS SNS", 0.95),
		simulated("Emergency Alert System", 0.98),
	}
}
