package explain

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// systemPrompt instructs the model to answer with a bare JSON object
// matching the Explanation shape. Anything else is treated as a failed
// attempt and the caller gets the degraded-mode notice instead.
const systemPrompt = `You explain Python errors to beginners. Respond with ONLY a JSON object:
{"summary": "<one sentence>", "why_it_happened": "<one sentence>", "how_to_fix": ["<step>", ...], "corrected_example": "<code or null>", "confidence": <0..1>}
Keep the language simple and encouraging. Do not wrap the JSON in markdown fences.`

// Remote asks an Azure OpenAI deployment to explain the error.
// It degrades gracefully: any transport or parse failure yields the
// Unavailable notice, never an error — a broken explanation service
// must not break code execution.
type Remote struct {
	client     *openai.Client
	deployment string
	logger     *slog.Logger
}

// NewRemote creates a Remote explainer from a ready Config.
// The endpoint is used as the base URL, so any OpenAI-compatible
// deployment works, not just Azure.
func NewRemote(cfg Config, logger *slog.Logger) *Remote {
	client := openai.NewClient(
		option.WithBaseURL(cfg.Endpoint),
		option.WithAPIKey(cfg.APIKey),
	)
	return &Remote{
		client:     &client,
		deployment: cfg.Deployment,
		logger:     logger,
	}
}

// Explain requests a completion and parses it into an Explanation.
// One attempt, no retries — the caller is a student waiting on an HTTP
// response, and the fallback notice is always available.
func (r *Remote) Explain(ctx context.Context, code, errText string) Explanation {
	prompt := fmt.Sprintf("The student ran this Python code:\n\n%s\n\nIt failed with:\n\n%s", code, errText)

	completion, err := r.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: r.deployment,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		r.logger.Warn("remote explanation request failed", slog.String("error", err.Error()))
		return Unavailable()
	}
	if len(completion.Choices) == 0 {
		r.logger.Warn("remote explanation returned no choices")
		return Unavailable()
	}

	expl, err := parseExplanation(completion.Choices[0].Message.Content)
	if err != nil {
		r.logger.Warn("remote explanation unparsable", slog.String("error", err.Error()))
		return Unavailable()
	}
	return expl
}

// parseExplanation decodes the model output and enforces the shape the
// rest of the app relies on: a non-empty fix list and a confidence
// inside [0,1]. Semantic quality of the text is the model's problem,
// not ours.
func parseExplanation(content string) (Explanation, error) {
	// Models occasionally wrap JSON in fences despite instructions.
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var expl Explanation
	if err := json.Unmarshal([]byte(content), &expl); err != nil {
		return Explanation{}, fmt.Errorf("decoding explanation: %w", err)
	}
	if expl.Summary == "" {
		return Explanation{}, fmt.Errorf("explanation missing summary")
	}
	if len(expl.HowToFix) == 0 {
		return Explanation{}, fmt.Errorf("explanation missing how_to_fix steps")
	}
	if expl.Confidence < 0 {
		expl.Confidence = 0
	}
	if expl.Confidence > 1 {
		expl.Confidence = 1
	}
	return expl, nil
}
