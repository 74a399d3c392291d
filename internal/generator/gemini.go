package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"matebuilder/internal/logging"
	"matebuilder/internal/quiz"
	"matebuilder/internal/usage"
)

// =============================================================================
// GOOGLE GENAI COLLABORATOR
// =============================================================================

const providerGemini = "gemini"

// slowCall is the latency above which a successful call is logged as a warning.
const slowCall = 30 * time.Second

// contentGenerator is the slice of *genai.Models used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiConfig configures the Gemini collaborator.
type GeminiConfig struct {
	APIKey      string
	Model       string
	Timeout     time.Duration
	Temperature float32
	MaxRetries  int
	// Tracker receives token usage; when nil the tracker in the call
	// context, if any, is used.
	Tracker *usage.Tracker
}

// Gemini generates content with Google's Gemini API and asks for JSON that
// matches a per-call response schema.
type Gemini struct {
	models      contentGenerator
	model       string
	timeout     time.Duration
	temperature float32
	maxRetries  int
	backoff     time.Duration
	tracker     *usage.Tracker
}

var _ Collaborator = (*Gemini)(nil)

// NewGemini creates a GenAI client for the configured key.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newGemini(client.Models, cfg), nil
}

func newGemini(models contentGenerator, cfg GeminiConfig) *Gemini {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Gemini{
		models:      models,
		model:       cfg.Model,
		timeout:     cfg.Timeout,
		temperature: cfg.Temperature,
		maxRetries:  cfg.MaxRetries,
		backoff:     time.Second,
		tracker:     cfg.Tracker,
	}
}

// Model returns the model name.
func (g *Gemini) Model() string {
	return g.model
}

// GenerateQuestions asks for the clarifying quiz.
func (g *Gemini) GenerateQuestions(ctx context.Context, req QuestionRequest) ([]quiz.Question, error) {
	text, err := g.generate(ctx, usage.OperationQuestions, questionPrompt(req), questionSchema())
	if err != nil {
		return nil, err
	}
	return ParseQuestions(text)
}

// GenerateReport asks for the persona report.
func (g *Gemini) GenerateReport(ctx context.Context, req ReportRequest) (Report, error) {
	text, err := g.generate(ctx, usage.OperationReport, reportPrompt(req), reportSchema())
	if err != nil {
		return Report{}, err
	}
	return ParseReport(text)
}

// GenerateMatch asks for a compatibility score.
func (g *Gemini) GenerateMatch(ctx context.Context, req MatchRequest) (MatchResult, error) {
	text, err := g.generate(ctx, usage.OperationMatch, matchPrompt(req), matchSchema())
	if err != nil {
		return MatchResult{}, err
	}
	return ParseMatch(text)
}

func (g *Gemini) generate(ctx context.Context, operation, prompt string, schema *genai.Schema) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}
	if g.temperature > 0 {
		config.Temperature = genai.Ptr(g.temperature)
	}

	audit := logging.AuditWithSession(usage.SessionFromContext(ctx))
	timer := logging.StartTimer(logging.CategoryAPI, "Gemini "+operation)
	logging.APIDebug("[Gemini] %s: model=%s prompt_len=%d", operation, g.model, len(prompt))

	var lastErr error
	for i := 0; i <= g.maxRetries; i++ {
		if i > 0 {
			if err := sleepCtx(ctx, g.backoff<<uint(i-1)); err != nil {
				lastErr = err
				break
			}
		}

		resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			logging.APIWarn("[Gemini] %s attempt %d failed: %v", operation, i+1, err)
			continue
		}

		g.track(ctx, operation, resp)
		elapsed := timer.StopWithThreshold(slowCall)
		text := strings.TrimSpace(resp.Text())
		audit.LLMCall(operation, g.model, elapsed, nil)
		if text == "" {
			return "", ErrEmptyResponse
		}
		logging.API("[Gemini] %s: completed in %v response_len=%d", operation, elapsed, len(text))
		return text, nil
	}

	elapsed := timer.Stop()
	audit.LLMCall(operation, g.model, elapsed, lastErr)
	logging.APIError("[Gemini] %s: failed after %v: %v", operation, elapsed, lastErr)
	if errors.Is(lastErr, context.Canceled) {
		return "", lastErr
	}
	return "", fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

func (g *Gemini) track(ctx context.Context, operation string, resp *genai.GenerateContentResponse) {
	tracker := g.tracker
	if tracker == nil {
		tracker = usage.FromContext(ctx)
	}
	if tracker == nil || resp.UsageMetadata == nil {
		return
	}
	md := resp.UsageMetadata
	tracker.Track(ctx, g.model, providerGemini, int(md.PromptTokenCount), int(md.CandidatesTokenCount), operation)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// =============================================================================
// RESPONSE SCHEMAS
// =============================================================================

func stringSchema() *genai.Schema {
	return &genai.Schema{Type: genai.TypeString}
}

func questionSchema() *genai.Schema {
	option := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"id":   stringSchema(),
			"text": stringSchema(),
		},
		Required: []string{"id", "text"},
	}
	question := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"id":       stringSchema(),
			"question": stringSchema(),
			"options":  {Type: genai.TypeArray, Items: option},
		},
		Required: []string{"id", "question", "options"},
	}
	return &genai.Schema{Type: genai.TypeArray, Items: question}
}

func reportSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"personaTitle": stringSchema(),
			"analysis":     stringSchema(),
			"advice":       stringSchema(),
			"tags":         {Type: genai.TypeArray, Items: stringSchema()},
		},
		Required: []string{"personaTitle", "analysis", "advice", "tags"},
	}
}

func matchSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"score":    {Type: genai.TypeInteger},
			"title":    stringSchema(),
			"analysis": stringSchema(),
			"warning":  stringSchema(),
		},
		Required: []string{"score", "title", "analysis", "warning"},
	}
}
