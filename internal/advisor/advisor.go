// Package advisor talks to the Gemini API for styling advice and showroom
// location descriptions. Both calls make a single attempt and fall back to
// fixed text on any failure, so callers always get something to display.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lumina-store/internal/models"
	"lumina-store/internal/util"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	kindAdvice   = "design_advice"
	kindLocation = "location_info"
)

var errEmptyText = errors.New("model returned empty text")

// Generator is the part of the genai client the advisor uses.
// *genai.Models satisfies it.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GenerationParams controls sampling for the advice request
type GenerationParams struct {
	Temperature float32
	TopP        float32
}

// Config selects models and request parameters
type Config struct {
	AdviceModel   string
	LocationModel string
	Advice        GenerationParams
	Timeout       time.Duration
}

// DefaultConfig returns the stock models and sampling values
func DefaultConfig() Config {
	return Config{
		AdviceModel:   "gemini-3-flash-preview",
		LocationModel: "gemini-2.5-flash",
		Advice: GenerationParams{
			Temperature: 0.7,
			TopP:        0.95,
		},
		Timeout: 20 * time.Second,
	}
}

// Client issues advisory requests
type Client struct {
	gen    Generator
	cfg    Config
	logger *zap.Logger
}

// NewClient creates an advisory client around gen
func NewClient(gen Generator, cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		gen:    gen,
		cfg:    cfg,
		logger: logger,
	}
}

// NewGeminiClient creates a genai client for the Gemini API
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return client, nil
}

// DesignAdvice returns styling tips for the described vibe. Callers reject
// blank input first. Failures yield FallbackAdvice.
func (c *Client) DesignAdvice(ctx context.Context, vibe string) string {
	ctx, span := util.StartSpan(ctx, "Advisor.DesignAdvice")
	defer span.End()

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.cfg.Advice.Temperature),
		TopP:        genai.Ptr(c.cfg.Advice.TopP),
	}

	resp, err := c.generate(ctx, kindAdvice, c.cfg.AdviceModel, buildDesignAdvicePrompt(vibe), cfg)
	if err != nil {
		c.fallback(kindAdvice, err)
		return FallbackAdvice
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		c.fallback(kindAdvice, errEmptyText)
		return FallbackAdvice
	}

	util.AdvisoryRequestsTotal.WithLabelValues(kindAdvice, "success").Inc()
	return text
}

// LocationInfo describes the flagship showroom using Maps grounding. coords,
// when set, is passed as a retrieval hint. Failures yield FallbackLocation
// and no links.
func (c *Client) LocationInfo(ctx context.Context, coords *models.Coordinates) models.LocationInfo {
	ctx, span := util.StartSpan(ctx, "Advisor.LocationInfo")
	defer span.End()

	cfg := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{GoogleMaps: &genai.GoogleMaps{}},
		},
	}
	if coords != nil {
		cfg.ToolConfig = &genai.ToolConfig{
			RetrievalConfig: &genai.RetrievalConfig{
				LatLng: &genai.LatLng{
					Latitude:  genai.Ptr(coords.Latitude),
					Longitude: genai.Ptr(coords.Longitude),
				},
			},
		}
	}

	resp, err := c.generate(ctx, kindLocation, c.cfg.LocationModel, locationPrompt, cfg)
	if err != nil {
		c.fallback(kindLocation, err)
		return models.LocationInfo{Text: FallbackLocation, Links: []models.Link{}}
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		text = shortLocation
	}

	util.AdvisoryRequestsTotal.WithLabelValues(kindLocation, "success").Inc()
	return models.LocationInfo{
		Text:  text,
		Links: mapLinks(resp),
	}
}

func (c *Client) generate(ctx context.Context, kind, model, prompt string, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if c.gen == nil {
		return nil, fmt.Errorf("no generator configured")
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.gen.GenerateContent(ctx, model, genai.Text(prompt), cfg)
	util.AdvisoryLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil, fmt.Errorf("model returned no candidates")
	}

	c.logger.Debug("Advisory response received",
		zap.String("kind", kind),
		zap.String("model", model),
		zap.Duration("latency", time.Since(start)))
	return resp, nil
}

func (c *Client) fallback(kind string, err error) {
	util.AdvisoryRequestsTotal.WithLabelValues(kind, "fallback").Inc()
	c.logger.Warn("Advisory request degraded to fallback",
		zap.String("kind", kind),
		zap.Error(err))
}

// responseText joins the text parts of the first candidate, skipping nil and
// thought parts
func responseText(resp *genai.GenerateContentResponse) string {
	content := resp.Candidates[0].Content
	if content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}

// mapLinks collects Maps citations from the first candidate
func mapLinks(resp *genai.GenerateContentResponse) []models.Link {
	links := []models.Link{}

	cand := resp.Candidates[0]
	if cand == nil || cand.GroundingMetadata == nil {
		return links
	}

	for _, chunk := range cand.GroundingMetadata.GroundingChunks {
		if chunk == nil || chunk.Maps == nil {
			continue
		}
		title := chunk.Maps.Title
		if title == "" {
			title = defaultLinkTitle
		}
		links = append(links, models.Link{Title: title, URI: chunk.Maps.URI})
	}

	return links
}
