package ai

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultModel is the Gemini model both roles use unless overridden.
const DefaultModel = "gemini-2.5-flash"

// Gemini implements Writer and Checker over one Gemini API client. The
// checker model runs in JSON mode with a low temperature; the writer
// model is left creative.
type Gemini struct {
	client  *genai.Client
	writer  *genai.GenerativeModel
	checker *genai.GenerativeModel
}

// NewGemini connects to the Gemini API.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrUnavailable
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	writer := client.GenerativeModel(model)

	checker := client.GenerativeModel(model)
	checker.ResponseMIMEType = "application/json"
	temp := float32(0.1)
	checker.Temperature = &temp

	return &Gemini{client: client, writer: writer, checker: checker}, nil
}

// Close releases the underlying API client.
func (g *Gemini) Close() {
	g.client.Close()
}

// Narrate implements Writer.
func (g *Gemini) Narrate(ctx context.Context, env *Envelope) (string, error) {
	prompt, err := WriterPrompt(env)
	if err != nil {
		return "", err
	}
	return generate(ctx, g.writer, prompt)
}

// Check implements Checker.
func (g *Gemini) Check(ctx context.Context, env *Envelope, narrative string) (*Delta, error) {
	prompt, err := CheckerPrompt(env, narrative)
	if err != nil {
		return nil, err
	}
	raw, err := generate(ctx, g.checker, prompt)
	if err != nil {
		return nil, err
	}
	return ParseDelta(raw)
}

func generate(ctx context.Context, model *genai.GenerativeModel, prompt string) (string, error) {
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no content")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("gemini returned a non-text part")
	}
	return string(text), nil
}
