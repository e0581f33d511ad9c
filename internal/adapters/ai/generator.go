// Package ai talks to the text and image generation provider used by the
// secretariat tools. The portal treats the provider as a dumb completion
// service: prompts in, markdown or an image URL out.
package ai

import (
	"context"
)

// DocumentRequest asks for a completed piece of club writing.
type DocumentRequest struct {
	ClubName string
	Prompt   string // what the user asked for
	Kind     string // letter, program, report (free text hint)
}

// DocumentResult is the generated markdown body.
type DocumentResult struct {
	Title string
	Body  string
}

// FlyerRequest asks for a rendered flyer image.
type FlyerRequest struct {
	ClubName string
	Prompt   string
}

// FlyerResult points at the rendered asset.
type FlyerResult struct {
	ImageURL string
	Caption  string
}

// TranscribeRequest carries a recorded audio clip for speech to text.
type TranscribeRequest struct {
	Filename string
	Audio    []byte
}

// TranscribeResult is the recognized text.
type TranscribeResult struct {
	Text string
}

// Generator is the interface for the AI provider.
type Generator interface {
	CompleteDocument(ctx context.Context, req DocumentRequest) (DocumentResult, error)
	GenerateFlyer(ctx context.Context, req FlyerRequest) (FlyerResult, error)
	Transcribe(ctx context.Context, req TranscribeRequest) (TranscribeResult, error)
}
