package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Client sends prompts to an OpenAI-compatible completion endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	textModel  string
	imageModel string
	audioModel string
}

// NewClient creates a Client for the given endpoint.
// PRE: baseURL and apiKey are non-empty
// POST: Returns a ready-to-use client with a 60s request timeout
func NewClient(baseURL, apiKey, textModel, imageModel, audioModel string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		textModel:  textModel,
		imageModel: imageModel,
		audioModel: audioModel,
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type imageRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// CompleteDocument asks the provider to write the requested document.
// PRE: req.Prompt is non-empty
// POST: Returns the generated markdown with the first heading as title
func (c *Client) CompleteDocument(ctx context.Context, req DocumentRequest) (DocumentResult, error) {
	system := fmt.Sprintf(
		"You write formal documents in Italian for the service club %q. "+
			"Answer with markdown only, starting with a level-one heading that titles the document.",
		req.ClubName)
	user := req.Prompt
	if req.Kind != "" {
		user = fmt.Sprintf("Type of document: %s\n\n%s", req.Kind, req.Prompt)
	}

	var resp chatResponse
	err := c.post(ctx, "/chat/completions", chatRequest{
		Model: c.textModel,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}, &resp)
	if err != nil {
		return DocumentResult{}, err
	}
	if len(resp.Choices) == 0 {
		return DocumentResult{}, fmt.Errorf("ai: empty completion response")
	}

	body := strings.TrimSpace(resp.Choices[0].Message.Content)
	return DocumentResult{Title: firstHeading(body), Body: body}, nil
}

// GenerateFlyer asks the provider to render a flyer image.
// PRE: req.Prompt is non-empty
// POST: Returns the hosted image URL
func (c *Client) GenerateFlyer(ctx context.Context, req FlyerRequest) (FlyerResult, error) {
	prompt := fmt.Sprintf("Event flyer for the service club %q: %s", req.ClubName, req.Prompt)

	var resp imageResponse
	err := c.post(ctx, "/images/generations", imageRequest{
		Model:  c.imageModel,
		Prompt: prompt,
		N:      1,
		Size:   "1024x1024",
	}, &resp)
	if err != nil {
		return FlyerResult{}, err
	}
	if len(resp.Data) == 0 {
		return FlyerResult{}, fmt.Errorf("ai: empty image response")
	}

	return FlyerResult{ImageURL: resp.Data[0].URL, Caption: req.Prompt}, nil
}

type transcribeResponse struct {
	Text string `json:"text"`
}

// Transcribe turns a recorded dictation into text.
// PRE: req.Audio is non-empty
// POST: Returns the recognized text
func (c *Client) Transcribe(ctx context.Context, req TranscribeRequest) (TranscribeResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("model", c.audioModel); err != nil {
		return TranscribeResult{}, err
	}
	part, err := mw.CreateFormFile("file", req.Filename)
	if err != nil {
		return TranscribeResult{}, err
	}
	if _, err := part.Write(req.Audio); err != nil {
		return TranscribeResult{}, err
	}
	if err := mw.Close(); err != nil {
		return TranscribeResult{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", &buf)
	if err != nil {
		return TranscribeResult{}, err
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		slog.Error("ai_request_failed", "path", "/audio/transcriptions", "error", err)
		return TranscribeResult{}, fmt.Errorf("ai request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Error("ai_request_rejected", "path", "/audio/transcriptions", "status", resp.StatusCode)
		return TranscribeResult{}, fmt.Errorf("ai request: provider returned %d", resp.StatusCode)
	}

	var out transcribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return TranscribeResult{}, err
	}
	return TranscribeResult{Text: strings.TrimSpace(out.Text)}, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("ai_request_failed", "path", path, "error", err)
		return fmt.Errorf("ai request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Error("ai_request_rejected", "path", path, "status", resp.StatusCode)
		return fmt.Errorf("ai request: provider returned %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// firstHeading pulls the first markdown heading out of a body, for use as a
// document title. Falls back to the first line.
func firstHeading(body string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		return strings.TrimSpace(strings.TrimLeft(line, "# "))
	}
	return ""
}
