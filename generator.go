package main

import (
	"fmt"
	"strings"

	"github.com/aktagon/llmkit/anthropic"
	"github.com/aktagon/llmkit/anthropic/types"
)

// ArticleGenerator produces guest-post markdown with the Anthropic writer
// model. It is the only component that talks to the AI service.
type ArticleGenerator struct {
	config *Config
	apiKey string
}

// NewArticleGenerator creates a generator for the configured writer model.
func NewArticleGenerator(apiKey string, config *Config) (*ArticleGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	return &ArticleGenerator{config: config, apiKey: apiKey}, nil
}

// Generate produces the article markdown for one request. The prompt
// contract obliges the model to place the anchor text exactly once as a
// markdown link to the target; the orchestrator does not re-verify this.
func (g *ArticleGenerator) Generate(req GenerationRequest) (string, error) {
	systemPrompt := strings.TrimSpace(g.config.GetWriterSystemPrompt())

	userPrompt, err := g.buildUserPrompt(req)
	if err != nil {
		return "", err
	}

	settings := types.RequestSettings{
		Model:       g.config.Settings.Writer.Model,
		MaxTokens:   g.config.Settings.Writer.MaxTokens,
		Temperature: g.config.Settings.Writer.Temperature,
	}
	response, err := anthropic.PromptWithSettings(systemPrompt, userPrompt, "", g.apiKey, settings)
	if err != nil {
		return "", fmt.Errorf("writer agent failed: %w", err)
	}

	if len(response.Content) == 0 || strings.TrimSpace(response.Content[0].Text) == "" {
		return "", fmt.Errorf("no content in response")
	}

	return response.Content[0].Text, nil
}

// buildUserPrompt fills the prompt template with the request fields.
func (g *ArticleGenerator) buildUserPrompt(req GenerationRequest) (string, error) {
	template := g.config.GetWriterUserPrompt()

	// Validate that the template still carries the variables the link
	// contract depends on.
	for _, variable := range []string{"{{.Keyword}}", "{{.AnchorText}}", "{{.TargetLink}}"} {
		if !strings.Contains(template, variable) {
			return "", fmt.Errorf("writer user prompt template must contain %s variable", variable)
		}
	}

	replacer := strings.NewReplacer(
		"{{.Language}}", g.config.Settings.Language,
		"{{.Keyword}}", req.Keyword,
		"{{.HostNiche}}", req.HostNiche,
		"{{.TargetNiche}}", req.TargetNiche,
		"{{.AnchorText}}", req.AnchorText,
		"{{.TargetLink}}", req.TargetLink,
	)
	return strings.TrimSpace(replacer.Replace(template)), nil
}
