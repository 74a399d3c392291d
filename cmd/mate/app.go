package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"matebuilder/internal/allocation"
	"matebuilder/internal/config"
	"matebuilder/internal/generator"
	"matebuilder/internal/logging"
	"matebuilder/internal/usage"
)

// app bundles the components every command builds from the config.
type app struct {
	cfg     *config.Config
	engine  *allocation.Engine
	gen     generator.Collaborator
	tracker *usage.Tracker
}

// newApp loads the catalog and rules and picks the collaborator.
func newApp(ctx context.Context, c *config.Config) (*app, error) {
	cat, err := c.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	rules, err := c.Rules()
	if err != nil {
		return nil, err
	}
	engine, err := allocation.NewEngine(cat, rules)
	if err != nil {
		return nil, err
	}
	logging.Boot("catalog ready: %d tokens, %d coins", cat.Len(), rules.InitialCoins)

	tracker := usage.NewTracker(0)
	gen, err := newCollaborator(ctx, c, tracker)
	if err != nil {
		return nil, err
	}
	return &app{cfg: c, engine: engine, gen: gen, tracker: tracker}, nil
}

func newCollaborator(ctx context.Context, c *config.Config, tracker *usage.Tracker) (generator.Collaborator, error) {
	if c.Offline() {
		if c.LLM.Provider != config.ProviderOffline {
			logging.BootWarn("no API key for provider %s, falling back to offline results", c.LLM.Provider)
		}
		logger.Info("using offline collaborator", zap.String("provider", c.LLM.Provider), zap.Bool("has_key", c.LLM.APIKey != ""))
		return generator.Offline{}, nil
	}
	g, err := generator.NewGemini(ctx, generator.GeminiConfig{
		APIKey:      c.LLM.APIKey,
		Model:       c.LLM.Model,
		Timeout:     c.GetLLMTimeout(),
		Temperature: c.LLM.Temperature,
		Tracker:     tracker,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	logger.Info("using Gemini collaborator", zap.String("model", g.Model()))
	return g, nil
}
