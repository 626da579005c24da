// Package campusrag provides a retrieval-augmented assistant for
// institutional web content: scraped pages are chunked, embedded and stored
// in a vector database, and questions are answered by a hosted LLM grounded
// in the retrieved chunks.
package campusrag

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/askcampus/campusrag/rag"
)

// FallbackAnswer is returned when retrieval finds nothing, and is what the
// model is instructed to reply when the context lacks the answer.
const FallbackAnswer = "I don't know"

const systemPromptTemplate = `You are a helpful university assistant.
Answer the user's question directly and concisely using ONLY the provided context. Read all the context before answering.
- Do NOT show reasoning or internal thoughts.
- Do NOT reference the chunk numbers.
- Do NOT repeat information.
- Do NOT invent answers.
- If the context does not contain the answer, respond: "I don't know".
- Format the answer in a friendly, human-readable way.
- Only return the final answer, nothing else.

Context:
%s`

// AssistantConfig holds the LLM side of the assistant. The endpoint must be
// OpenAI-compatible; the default targets Groq's chat completions API.
type AssistantConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int64
	Temperature float64
}

// DefaultAssistantConfig returns production defaults for the assistant.
func DefaultAssistantConfig() AssistantConfig {
	return AssistantConfig{
		BaseURL:   "https://api.groq.com/openai/v1",
		Model:     "llama-3.3-70b-versatile",
		MaxTokens: 600,
	}
}

// Assistant answers questions from retrieved chunks. It holds a retriever
// for the vector side and a chat completion client for generation.
type Assistant struct {
	retriever Retriever
	client    openai.Client
	config    AssistantConfig
	logger    rag.Logger
}

// Retriever is the slice of the retrieval pipeline the assistant needs.
// *rag.Retriever satisfies it; tests substitute fakes.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]rag.SearchResult, error)
}

// NewAssistant creates an Assistant over the given retriever.
func NewAssistant(retriever Retriever, cfg AssistantConfig) (*Assistant, error) {
	if retriever == nil {
		return nil, fmt.Errorf("assistant requires a retriever")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("LLM API key is required")
	}
	defaults := DefaultAssistantConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaults.Model
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaults.MaxTokens
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
	)

	return &Assistant{
		retriever: retriever,
		client:    client,
		config:    cfg,
		logger:    rag.GlobalLogger,
	}, nil
}

// BuildContext renders retrieved chunks as a numbered context block:
//
//	[1] (score=0.812) (source=https://...)
//	chunk text
//
// entries separated by "---" dividers.
func BuildContext(results []rag.SearchResult) string {
	if len(results) == 0 {
		return ""
	}
	entries := make([]string, len(results))
	for i, res := range results {
		entries[i] = fmt.Sprintf("[%d] (score=%.3f) (source=%s)\n%s", i+1, res.Score, res.Source, res.Text)
	}
	return strings.Join(entries, "\n\n---\n\n")
}

// Ask retrieves chunks relevant to the question and asks the LLM to answer
// from them. Empty retrieval short-circuits to the fallback answer without
// an LLM call.
func (a *Assistant) Ask(ctx context.Context, question string) (string, error) {
	results, err := a.retriever.Retrieve(ctx, question)
	if err != nil {
		return "", fmt.Errorf("retrieval failed: %w", err)
	}
	if len(results) == 0 {
		a.logger.Debug("no chunks retrieved", "question", question)
		return FallbackAnswer, nil
	}

	a.logger.Debug("retrieved chunks", "count", len(results))
	return a.generate(ctx, BuildContext(results), question)
}

func (a *Assistant) generate(ctx context.Context, contextBlock, question string) (string, error) {
	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(a.config.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(fmt.Sprintf(systemPromptTemplate, contextBlock)),
			openai.UserMessage(question),
		},
		Temperature: openai.Float(a.config.Temperature),
		MaxTokens:   openai.Int(a.config.MaxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
