package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nexboard/nexboard/internal/adapter/litellm"
	"github.com/nexboard/nexboard/internal/config"
)

// Breakdown is a generated decomposition of a task.
type Breakdown struct {
	Description string   `json:"description"`
	Subtasks    []string `json:"subtasks"`
	Points      int      `json:"points"`
}

// AssistService backs the AI helper endpoints. It is a thin prompt
// layer over the LiteLLM proxy; commit synchronization and the board
// work without it.
type AssistService struct {
	llm    *litellm.Client
	cfg    config.Assist
	logger *slog.Logger
}

// NewAssistService creates the assist service.
func NewAssistService(llm *litellm.Client, cfg config.Assist, logger *slog.Logger) *AssistService {
	return &AssistService{llm: llm, cfg: cfg, logger: logger}
}

const breakdownSystemPrompt = `You are a planning assistant for a software project board.
Given a task title and optional description, produce a JSON object with:
  "description": a crisp one-paragraph description of the work,
  "subtasks": 3 to 7 concrete subtask titles,
  "points": an integer estimate from the set 1, 2, 3, 5, 8, 13.
Respond with JSON only.`

// BreakdownTask asks the model to decompose a task into subtasks and
// an estimate.
func (s *AssistService) BreakdownTask(ctx context.Context, title, description string) (*Breakdown, error) {
	user := "Title: " + title
	if description != "" {
		user += "\nDescription: " + description
	}

	resp, err := s.llm.ChatCompletion(ctx, litellm.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []litellm.ChatMessage{
			{Role: "system", Content: breakdownSystemPrompt},
			{Role: "user", Content: user},
		},
		Temperature: 0.2,
		MaxTokens:   s.cfg.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("breakdown task: %w", err)
	}

	var bd Breakdown
	if err := json.Unmarshal([]byte(extractJSON(resp.Content)), &bd); err != nil {
		return nil, fmt.Errorf("breakdown task: parse model output: %w", err)
	}
	if len(bd.Subtasks) == 0 {
		return nil, fmt.Errorf("breakdown task: model returned no subtasks")
	}

	s.logger.Debug("task breakdown generated",
		"model", resp.Model, "subtasks", len(bd.Subtasks),
		"tokens_in", resp.TokensIn, "tokens_out", resp.TokensOut)
	return &bd, nil
}

const polishSystemPrompt = `You rewrite project task text to be clear and concise.
Keep the meaning, drop filler, fix grammar. Respond with the rewritten text only.`

// PolishText rewrites a title or description for clarity.
func (s *AssistService) PolishText(ctx context.Context, text string) (string, error) {
	resp, err := s.llm.ChatCompletion(ctx, litellm.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []litellm.ChatMessage{
			{Role: "system", Content: polishSystemPrompt},
			{Role: "user", Content: text},
		},
		Temperature: 0.3,
		MaxTokens:   s.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("polish text: %w", err)
	}

	return strings.TrimSpace(resp.Content), nil
}

// Health reports whether the LiteLLM proxy is reachable.
func (s *AssistService) Health(ctx context.Context) bool {
	ok, err := s.llm.Health(ctx)
	if err != nil {
		s.logger.Warn("litellm health check failed", "error", err)
	}
	return ok
}

// extractJSON strips markdown code fences and surrounding prose from a
// model response, returning the outermost JSON object.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		if idx := strings.Index(content, "\n"); idx != -1 {
			content = content[idx+1:]
		}
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
		content = strings.TrimSpace(content)
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start != -1 && end > start {
		return content[start : end+1]
	}
	return content
}
