// File: services/intelligence/geminiClient.go
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultGeminiModel = "gemini-1.5-flash"

// GeminiClient sends a prompt plus one inline image to a Gemini model and
// returns the concatenated text of the first candidate.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}

	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0)
	return &GeminiClient{client: client, model: model}, nil
}

func (g *GeminiClient) GenerateFromImage(ctx context.Context, prompt, mediaType string, image []byte) (string, error) {
	resp, err := g.model.GenerateContent(ctx,
		genai.Text(prompt),
		genai.Blob{MIMEType: mediaType, Data: image},
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return sb.String(), nil
}

func (g *GeminiClient) Close() error {
	return g.client.Close()
}
