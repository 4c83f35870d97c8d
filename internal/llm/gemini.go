package llm

import (
	"context"
	"fmt"

	"pregnancy-companion/internal/config"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// companionInstruction keeps the off-script chat warm, short, and
// non-diagnosing. Slot filling and safety checks never go through the model.
const companionInstruction = "You are a warm pregnancy companion. You support pregnant users like a caring friend. " +
	"Keep replies short, calm, and reassuring. Never diagnose medical conditions; for anything that " +
	"sounds serious, gently suggest contacting a healthcare provider."

// geminiClient is a client for the Google Gemini API.
type geminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiClient creates a new Gemini API client for small-talk generation.
func NewGeminiClient(ctx context.Context, cfg *config.Config) (Client, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-2.0-flash")
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(companionInstruction)},
	}

	return &geminiClient{client: client, model: model}, nil
}

// GenerateContent sends a prompt to the Gemini model and returns the generated text.
func (c *geminiClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("generated content is not text")
	}

	return string(text), nil
}

// Close closes the underlying Gemini client.
func (c *geminiClient) Close() error {
	return c.client.Close()
}
