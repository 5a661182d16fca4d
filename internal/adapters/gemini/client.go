package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bnema/noarh/internal/domain"
	"github.com/bnema/noarh/internal/ports"
	"google.golang.org/genai"
)

const (
	DefaultTextModel  = "gemini-2.5-flash"
	DefaultImageModel = "imagen-3.0-generate-002"
)

var ErrMissingAPIKey = errors.New("gemini api key is empty")

type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client

	TextModel  string
	ImageModel string
}

// Client generates replies and illustrations through the Gemini API.
type Client struct {
	client *genai.Client
	cfg    Config
}

var (
	_ ports.Completer = (*Client)(nil)
	_ ports.Drawer    = (*Client)(nil)
)

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.TextModel == "" {
		cfg.TextModel = DefaultTextModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = DefaultImageModel
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Client{client: client, cfg: cfg}, nil
}

func (c *Client) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	gc, contents := buildContents(req)
	if len(contents) == 0 {
		return "", fmt.Errorf("gemini generate: no contents")
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.cfg.TextModel, contents, gc)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini generate: no candidates")
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil && p.Text != "" {
			sb.WriteString(p.Text)
		}
	}
	return sb.String(), nil
}

// buildContents folds system turns into the system instruction; Gemini only
// accepts user and model roles in the conversation body.
func buildContents(req ports.CompletionRequest) (*genai.GenerateContentConfig, []*genai.Content) {
	gc := &genai.GenerateContentConfig{}
	if req.Temperature != nil {
		t := float32(*req.Temperature)
		gc.Temperature = &t
	}

	var system []*genai.Part
	if req.Directive != "" {
		system = append(system, &genai.Part{Text: req.Directive})
	}

	contents := make([]*genai.Content, 0, len(req.Turns))
	for _, turn := range req.Turns {
		switch turn.Role {
		case domain.RoleUser:
			contents = append(contents, genai.NewContentFromText(turn.Content, genai.RoleUser))
		case domain.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(turn.Content, genai.RoleModel))
		case domain.RoleSystem:
			system = append(system, &genai.Part{Text: turn.Content})
		}
	}
	if len(system) > 0 {
		gc.SystemInstruction = &genai.Content{Parts: system}
	}

	return gc, contents
}

func (c *Client) Draw(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := c.client.Models.GenerateImages(ctx, c.cfg.ImageModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini image: %w", err)
	}
	if len(resp.GeneratedImages) == 0 {
		return nil, domain.ErrNoImage
	}

	img := resp.GeneratedImages[0].Image
	if img == nil || len(img.ImageBytes) == 0 {
		return nil, domain.ErrNoImage
	}

	return img.ImageBytes, nil
}
