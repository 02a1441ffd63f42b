// Package ai contains the generative-image providers that turn a booth still
// into an era portrait.
package ai

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/kozaktomas/timebooth/internal/catalog"
)

//go:embed prompts/time_travel.txt
var timeTravelPrompt string

// maxReferenceSize caps the reference still sent to a provider. Larger inputs
// only cost tokens without improving the edit.
const maxReferenceSize = 1024

// ErrNoImageReturned means the provider answered but no content part carried
// image data. Distinct from ErrRequestFailed so callers can tell a refusal
// from a transport problem.
var ErrNoImageReturned = errors.New("no image in generation response")

// ErrRequestFailed wraps transport and API-level failures of a transform
// request.
var ErrRequestFailed = errors.New("generation request failed")

// GeneratedImage is the still returned by a transform request.
type GeneratedImage struct {
	Data     []byte
	MIMEType string
}

// Transformer generates an era portrait from a reference still. One network
// round trip per call, no retry; callers decide what to do on failure.
type Transformer interface {
	Name() string
	Transform(ctx context.Context, still []byte, era catalog.Era) (*GeneratedImage, error)
}

// buildInstruction assembles the generation instruction from the fixed
// template and the era's scene description.
func buildInstruction(era catalog.Era) string {
	return fmt.Sprintf(timeTravelPrompt, era.PromptFragment)
}
