// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/morganforge/gemchat-tui/internal/model"
)

// Default model identifiers for each capability.
const (
	// DefaultFlashModel is the fast conversational tier.
	DefaultFlashModel = "gemini-2.5-flash"

	// DefaultProModel is the capable conversational tier.
	DefaultProModel = "gemini-2.5-pro"

	// DefaultImageModel is the image-editing model.
	DefaultImageModel = "gemini-2.5-flash-image"

	// DefaultImagenModel is the image-generation model.
	DefaultImagenModel = "imagen-4.0-generate-001"
)

// Errors returned by the client.
var (
	// ErrMissingAPIKey indicates the Gemini API key was not configured.
	ErrMissingAPIKey = errors.New("gemini API key is required")

	// ErrNoImageProduced indicates an image-edit response carried no image part.
	ErrNoImageProduced = errors.New("image editing failed to produce an image")
)

// =============================================================================
// CLIENT
// =============================================================================

// Config holds the client configuration.
type Config struct {
	// APIKey is the Gemini API credential. Required.
	APIKey string

	// Model overrides; defaults are used when empty.
	FlashModel  string
	ProModel    string
	ImageModel  string
	ImagenModel string
}

// Client calls the Gemini API through the GenAI SDK.
type Client struct {
	genai *genai.Client

	flashModel  string
	proModel    string
	imageModel  string
	imagenModel string

	// limiter is a client-side QPS guard on outbound calls.
	limiter *rate.Limiter
}

// New creates a Gemini client. Fails when the API key is missing.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	c := &Client{
		genai:       client,
		flashModel:  cfg.FlashModel,
		proModel:    cfg.ProModel,
		imageModel:  cfg.ImageModel,
		imagenModel: cfg.ImagenModel,
		limiter:     rate.NewLimiter(rate.Limit(2), 4),
	}
	if c.flashModel == "" {
		c.flashModel = DefaultFlashModel
	}
	if c.proModel == "" {
		c.proModel = DefaultProModel
	}
	if c.imageModel == "" {
		c.imageModel = DefaultImageModel
	}
	if c.imagenModel == "" {
		c.imagenModel = DefaultImagenModel
	}
	return c, nil
}

// chatModel maps a conversational mode to its model identifier.
// Non-chat modes fall back to the fast tier.
func (c *Client) chatModel(mode model.Mode) string {
	if mode == model.ModePro {
		return c.proModel
	}
	return c.flashModel
}

// =============================================================================
// CONVERSATIONAL CHAT
// =============================================================================

// Chat sends the full prior history plus the new prompt (and optional image)
// to the conversational tier for the given mode, and returns the response
// text. The system prompt is applied only when non-blank after trimming.
func (c *Client) Chat(ctx context.Context, mode model.Mode, history []model.Message, prompt, image, systemPrompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	contents, err := historyContents(history, prompt, image)
	if err != nil {
		return "", err
	}

	var config *genai.GenerateContentConfig
	if strings.TrimSpace(systemPrompt) != "" {
		config = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		}
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.chatModel(mode), contents, config)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	return resp.Text(), nil
}

// =============================================================================
// WEB SEARCH
// =============================================================================

// WebSearch sends the prompt to the fast tier with the Google Search tool
// enabled, returning the response text and the valid grounding citations in
// the order the backend returned them.
func (c *Client) WebSearch(ctx context.Context, prompt string) (string, []model.Source, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", nil, err
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.flashModel, contents, config)
	if err != nil {
		return "", nil, fmt.Errorf("web search request failed: %w", err)
	}

	return resp.Text(), groundingSources(resp), nil
}

// groundingSources extracts valid (uri, title) citations from the first
// candidate's grounding metadata. Chunks missing either field are dropped;
// order is preserved.
func groundingSources(resp *genai.GenerateContentResponse) []model.Source {
	if len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}

	var sources []model.Source
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk.Web == nil {
			continue
		}
		src := model.Source{URI: chunk.Web.URI, Title: chunk.Web.Title}
		if src.Valid() {
			sources = append(sources, src)
		}
	}
	return sources
}

// =============================================================================
// IMAGE GENERATION
// =============================================================================

// GenerateImage produces one square JPEG image for the prompt and returns it
// as a data URI.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := c.genai.Models.GenerateImages(ctx, c.imagenModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: "image/jpeg",
		AspectRatio:    "1:1",
	})
	if err != nil {
		return "", fmt.Errorf("image generation failed: %w", err)
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return "", errors.New("image generation returned no images")
	}

	return dataURI("image/jpeg", resp.GeneratedImages[0].Image.ImageBytes), nil
}

// =============================================================================
// IMAGE EDITING
// =============================================================================

// EditImage applies the edit instruction to the source image (a data URI)
// and returns the edited image as a data URI. Fails when the response
// carries no image part.
func (c *Client) EditImage(ctx context.Context, prompt, image string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	source, err := imagePart(image)
	if err != nil {
		return "", err
	}
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{source, genai.NewPartFromText(prompt)}, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.imageModel, contents, config)
	if err != nil {
		return "", fmt.Errorf("image edit request failed: %w", err)
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.InlineData != nil {
				return dataURI(part.InlineData.MIMEType, part.InlineData.Data), nil
			}
		}
	}
	return "", ErrNoImageProduced
}
