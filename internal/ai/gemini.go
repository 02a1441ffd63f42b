package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/kozaktomas/timebooth/internal/capture"
	"github.com/kozaktomas/timebooth/internal/catalog"
)

const geminiModel = "gemini-2.5-flash-image"

// GeminiTransformer generates era portraits through the Gemini image model.
type GeminiTransformer struct {
	client *genai.Client
}

// NewGeminiTransformer creates a Gemini-backed transformer.
func NewGeminiTransformer(ctx context.Context, apiKey string) (*GeminiTransformer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiTransformer{client: client}, nil
}

func (t *GeminiTransformer) Name() string {
	return geminiModel
}

// Transform sends the reference still plus the era instruction in a single
// request and returns the first inline image of the response.
func (t *GeminiTransformer) Transform(ctx context.Context, still []byte, era catalog.Era) (*GeneratedImage, error) {
	ref, err := capture.Downscale(still, maxReferenceSize)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare reference still: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: buildInstruction(era)},
				{InlineData: &genai.Blob{Data: ref, MIMEType: "image/jpeg"}},
			},
		},
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	}

	result, err := t.client.Models.GenerateContent(ctx, geminiModel, contents, config)
	if err != nil {
		return nil, fmt.Errorf("%w: gemini: %v", ErrRequestFailed, err)
	}

	return firstInlineImage(result)
}

// firstInlineImage scans the response parts in order and returns the first
// one carrying inline image data. ErrNoImageReturned when none does.
func firstInlineImage(resp *genai.GenerateContentResponse) (*GeneratedImage, error) {
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mime := part.InlineData.MIMEType
				if mime == "" {
					mime = "image/png"
				}
				return &GeneratedImage{Data: part.InlineData.Data, MIMEType: mime}, nil
			}
		}
	}
	return nil, ErrNoImageReturned
}
