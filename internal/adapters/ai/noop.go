package ai

import (
	"context"
	"log/slog"
)

// NoopGenerator is used when no AI provider is configured. Requests succeed
// with placeholder output so the rest of the portal stays usable in
// development.
type NoopGenerator struct{}

// CompleteDocument returns a placeholder document.
func (NoopGenerator) CompleteDocument(_ context.Context, req DocumentRequest) (DocumentResult, error) {
	slog.Info("ai_noop", "op", "complete_document", "prompt", req.Prompt)
	return DocumentResult{
		Title: "Documento di esempio",
		Body:  "# Documento di esempio\n\nNessun provider AI configurato.",
	}, nil
}

// GenerateFlyer returns a placeholder flyer.
func (NoopGenerator) GenerateFlyer(_ context.Context, req FlyerRequest) (FlyerResult, error) {
	slog.Info("ai_noop", "op", "generate_flyer", "prompt", req.Prompt)
	return FlyerResult{ImageURL: "", Caption: req.Prompt}, nil
}

// Transcribe returns empty text.
func (NoopGenerator) Transcribe(_ context.Context, req TranscribeRequest) (TranscribeResult, error) {
	slog.Info("ai_noop", "op", "transcribe", "filename", req.Filename)
	return TranscribeResult{}, nil
}
