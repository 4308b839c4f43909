package ai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Categories is the fixed label set the classifier may return.
var Categories = []string{"Plumbing", "Electrical", "HVAC", "Furniture", "General"}

const (
	// DefaultCategory is substituted whenever classification fails or
	// returns a label outside the allowed set.
	DefaultCategory = "General"

	// DefaultSummary is substituted whenever summarization fails or
	// returns an empty string.
	DefaultSummary = "Maintenance issue reported"
)

// Engine is the text-in/text-out capability the ingestion pipeline depends
// on. Implementations absorb every external failure and fall back to the
// documented defaults; neither method may block request creation by
// returning an error.
type Engine interface {
	SuggestCategory(ctx context.Context, description string) string
	GenerateSummary(ctx context.Context, description string) string
}

const classifySystemPrompt = `You are an expert maintenance dispatcher. Your task is to categorize the user's request into EXACTLY one of these categories: [Plumbing, Electrical, HVAC, Furniture, General].
Rules:
- Output ONLY the category name.
- Do not include any punctuation, explanations, or extra words.
- If the request is ambiguous, default to General.
- If the request is not in English, understand the meaning and output the English category name.`

const summarizeSystemPrompt = `You are a concise maintenance report writer. Summarize the user's maintenance request into ONE short sentence of no more than 10 words.
Rules:
- Output ONLY the summary sentence.
- Do not include any punctuation at the end, explanations, or extra words.
- If the request is not in English, understand the meaning and output the English summary.`

// Token budgets bound the latency of each call: a category is a single
// word, a summary at most one short sentence.
const (
	classifyMaxTokens  = 20
	summarizeMaxTokens = 30
)

// Client implements Engine against the Anthropic API.
type Client struct {
	api   *anthropic.Client
	model anthropic.Model
}

// NewClient creates an AI client with the given API key and model. Extra
// request options are passed through to the underlying SDK client.
func NewClient(apiKey, model string, extra ...option.RequestOption) *Client {
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	opts = append(opts, extra...)
	client := anthropic.NewClient(opts...)
	return &Client{
		api:   &client,
		model: anthropic.Model(model),
	}
}

// SuggestCategory classifies a request description into one of Categories.
// Any API failure or unexpected label falls back to DefaultCategory.
func (c *Client) SuggestCategory(ctx context.Context, description string) string {
	raw, err := c.complete(ctx, classifySystemPrompt, description, classifyMaxTokens)
	if err != nil {
		slog.Error("classification call failed", "error", err)
		return DefaultCategory
	}

	category, ok := normalizeCategory(raw)
	if !ok {
		slog.Warn("classifier returned unexpected category", "raw", raw, "fallback", DefaultCategory)
		return DefaultCategory
	}
	return category
}

// GenerateSummary produces a short one-sentence summary of the description.
// Any API failure or empty response falls back to DefaultSummary.
func (c *Client) GenerateSummary(ctx context.Context, description string) string {
	raw, err := c.complete(ctx, summarizeSystemPrompt, description, summarizeMaxTokens)
	if err != nil {
		slog.Error("summarization call failed", "error", err)
		return DefaultSummary
	}

	summary := trimSummary(raw)
	if summary == "" {
		return DefaultSummary
	}
	return summary
}

// complete sends a single system+user exchange and returns the first text
// block of the response.
func (c *Client) complete(ctx context.Context, system, user string, maxTokens int64) (string, error) {
	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", err
	}

	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", nil
}

// normalizeCategory matches a raw model response against the allowed set,
// case-insensitively, returning the canonical casing.
func normalizeCategory(raw string) (string, bool) {
	category := strings.TrimSpace(raw)
	for _, valid := range Categories {
		if strings.EqualFold(category, valid) {
			return valid, true
		}
	}
	return "", false
}

// trimSummary strips surrounding whitespace and trailing sentence
// punctuation from a raw summary.
func trimSummary(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimRight(s, ".!?")
	return strings.TrimSpace(s)
}
