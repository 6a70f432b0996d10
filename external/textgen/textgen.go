package textgen

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	log "github.com/sirupsen/logrus"
)

const (
	logPrefix        = "textgen"
	defaultMaxTokens = 512
)

var (
	errEmptyAPIKey   = fmt.Errorf("empty api key")
	errEmptyResponse = fmt.Errorf("empty generated text")
)

// Generator - interface of a generative text service
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config holds the settings of the anthropic backed generator
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int64
	// BaseURL overrides the API endpoint, mostly for tests
	BaseURL string
}

type anthropicGenerator struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// Generate sends the prompt as a single user message and returns the text
// blocks of the reply joined together. The request is never retried.
func (g *anthropicGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(variant.Text)
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", errEmptyResponse
	}

	return text, nil
}

// New - new Generator backed by the anthropic messages API
func New(cfg Config) (Generator, error) {
	if cfg.APIKey == "" {
		log.WithField("prefix", logPrefix).Error("new text generator without api key")
		return nil, errEmptyAPIKey
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := anthropic.Model(cfg.Model)
	if model == "" {
		model = anthropic.Model("claude-haiku-4-5-20251001")
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &anthropicGenerator{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
	}, nil
}
