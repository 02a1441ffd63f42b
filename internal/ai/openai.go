package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/kozaktomas/timebooth/internal/capture"
	"github.com/kozaktomas/timebooth/internal/catalog"
)

const openAIImageModel = openai.ImageModelGPTImage1

// OpenAITransformer generates era portraits through the OpenAI image edit
// endpoint. Alternative to Gemini, selected via BOOTH_PROVIDER.
type OpenAITransformer struct {
	client *openai.Client
}

// NewOpenAITransformer creates an OpenAI-backed transformer.
func NewOpenAITransformer(apiKey string) *OpenAITransformer {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAITransformer{client: &client}
}

func (t *OpenAITransformer) Name() string {
	return openAIImageModel
}

// Transform uploads the reference still with the era instruction and decodes
// the first returned image.
func (t *OpenAITransformer) Transform(ctx context.Context, still []byte, era catalog.Era) (*GeneratedImage, error) {
	ref, err := capture.Downscale(still, maxReferenceSize)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare reference still: %w", err)
	}

	result, err := t.client.Images.Edit(ctx, openai.ImageEditParams{
		Image: openai.ImageEditParamsImageUnion{
			OfFile: openai.File(bytes.NewReader(ref), "still.jpg", "image/jpeg"),
		},
		Prompt: buildInstruction(era),
		Model:  openAIImageModel,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: openai: %v", ErrRequestFailed, err)
	}

	for _, img := range result.Data {
		if img.B64JSON == "" {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(img.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("failed to decode generated image: %w", err)
		}
		return &GeneratedImage{Data: data, MIMEType: "image/png"}, nil
	}
	return nil, ErrNoImageReturned
}
