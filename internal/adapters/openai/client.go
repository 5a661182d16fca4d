package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bnema/noarh/internal/domain"
	"github.com/bnema/noarh/internal/ports"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	DefaultTextModel    = "gpt-4o-mini"
	DefaultSpeechModel  = "gpt-4o-mini-tts"
	DefaultSpeechFormat = "mp3"
	DefaultImageModel   = "dall-e-3"
	DefaultImageSize    = "1024x1024"
)

var ErrMissingAPIKey = errors.New("openai api key is empty")

type Config struct {
	APIKey     string
	BaseURL    string
	MaxRetries int
	HTTPClient *http.Client

	TextModel    string
	SpeechModel  string
	SpeechFormat string
	ImageModel   string
	ImageSize    string
}

func (c *Config) applyDefaults() {
	if c.TextModel == "" {
		c.TextModel = DefaultTextModel
	}
	if c.SpeechModel == "" {
		c.SpeechModel = DefaultSpeechModel
	}
	if c.SpeechFormat == "" {
		c.SpeechFormat = DefaultSpeechFormat
	}
	if c.ImageModel == "" {
		c.ImageModel = DefaultImageModel
	}
	if c.ImageSize == "" {
		c.ImageSize = DefaultImageSize
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
}

// Client serves text completion, speech, and image generation from one OpenAI account.
type Client struct {
	client openai.Client
	cfg    Config
}

var (
	_ ports.Completer = (*Client)(nil)
	_ ports.Speaker   = (*Client)(nil)
	_ ports.Drawer    = (*Client)(nil)
)

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	cfg.applyDefaults()

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(cfg.HTTPClient),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{client: openai.NewClient(opts...), cfg: cfg}, nil
}

func (c *Client) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    c.cfg.TextModel,
		Messages: buildMessages(req),
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat: no choices")
	}

	msg := resp.Choices[0].Message
	if msg.Refusal != "" {
		return "", fmt.Errorf("openai chat: refused: %s", msg.Refusal)
	}

	return msg.Content, nil
}

func buildMessages(req ports.CompletionRequest) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Turns)+1)
	if req.Directive != "" {
		msgs = append(msgs, openai.SystemMessage(req.Directive))
	}
	for _, turn := range req.Turns {
		switch turn.Role {
		case domain.RoleUser:
			msgs = append(msgs, openai.UserMessage(turn.Content))
		case domain.RoleAssistant:
			msgs = append(msgs, openai.AssistantMessage(turn.Content))
		case domain.RoleSystem:
			msgs = append(msgs, openai.SystemMessage(turn.Content))
		}
	}
	return msgs
}

func (c *Client) Speak(ctx context.Context, req ports.SpeechRequest) ([]byte, error) {
	params := openai.AudioSpeechNewParams{
		Input:          req.Text,
		Model:          openai.SpeechModel(c.cfg.SpeechModel),
		Voice:          openai.AudioSpeechNewParamsVoice(req.Voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormat(c.cfg.SpeechFormat),
	}
	if req.Instructions != "" {
		params.Instructions = openai.String(req.Instructions)
	}
	if req.Speed > 0 {
		params.Speed = openai.Float(req.Speed)
	}

	resp, err := c.client.Audio.Speech.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai speech: %w", err)
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read openai speech body: %w", err)
	}
	if len(audio) == 0 {
		return nil, domain.ErrNoAudio
	}

	return audio, nil
}

func (c *Client) Draw(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := c.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          openai.ImageModel(c.cfg.ImageModel),
		N:              openai.Int(1),
		Size:           openai.ImageGenerateParamsSize(c.cfg.ImageSize),
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
	})
	if err != nil {
		return nil, fmt.Errorf("openai image: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, domain.ErrNoImage
	}

	image, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decode openai image: %w", err)
	}

	return image, nil
}
