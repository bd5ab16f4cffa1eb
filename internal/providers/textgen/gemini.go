package textgen

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini is the primary provider: the Gemini API keyed by GEMINI_API_KEY.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-2.0-flash-lite"
	}

	m := client.GenerativeModel(modelName)
	m.SetTemperature(0.8)
	return &Gemini{client: client, model: m}, nil
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Close() error { return g.client.Close() }

func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
	}

	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", errors.New("gemini: no content generated")
	}
	return out, nil
}
