package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	geminiadapter "github.com/bnema/noarh/internal/adapters/gemini"
	openaiadapter "github.com/bnema/noarh/internal/adapters/openai"
	chatrender "github.com/bnema/noarh/internal/adapters/render/chat"
	chainstore "github.com/bnema/noarh/internal/adapters/secrets/chain"
	"github.com/bnema/noarh/internal/application"
	"github.com/bnema/noarh/internal/config"
	"github.com/bnema/noarh/internal/domain"
	"github.com/bnema/noarh/internal/ports"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type wireOptions struct {
	configPath string
	verbose    bool
}

type app struct {
	cfg              config.Config
	logger           *zap.Logger
	keys             *application.KeyService
	httpClient       *http.Client
	renderTurn       func(domain.TurnResult, chatrender.RenderOptions) (string, error)
	renderTranscript func(domain.Transcript) (string, error)
}

func wireApp(opts wireOptions) (*app, error) {
	cfg, err := config.Load(viper.New(), opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg.Log.Level, opts.verbose)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	secretsDir := cfg.Secrets.Dir
	if secretsDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		secretsDir = filepath.Join(homeDir, ".noarh", "secrets")
	}

	secretStore, err := chainstore.NewDefault(secretsDir, cfg.Secrets.UsePass)
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	return &app{
		cfg:              cfg,
		logger:           logger,
		keys:             application.NewKeyService(secretStore),
		httpClient:       &http.Client{Timeout: 2 * time.Minute},
		renderTurn:       chatrender.RenderTurn,
		renderTranscript: chatrender.RenderTranscript,
	}, nil
}

func newLogger(level string, verbose bool) (*zap.Logger, error) {
	lvl := zapcore.WarnLevel
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		lvl = parsed
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(lvl)
	return zapConfig.Build()
}

type pipeline struct {
	classifier   *application.Classifier
	orchestrator *application.Orchestrator
}

// pipeline resolves credentials and builds the generation stack. Speech always
// runs on OpenAI; text and images follow the configured providers.
func (a *app) pipeline(ctx context.Context) (*pipeline, error) {
	keys := make(map[domain.Provider]string)
	for _, provider := range a.cfg.Providers() {
		key, err := a.keys.APIKey(ctx, provider)
		if err != nil {
			if errors.Is(err, domain.ErrSecretNotFound) {
				return nil, fmt.Errorf("%s api key not configured: export %s or run `noarh key set --provider %s`", provider, provider.APIKeyEnv(), provider)
			}
			return nil, err
		}
		keys[provider] = key
	}

	oa, err := openaiadapter.NewClient(openaiadapter.Config{
		APIKey:       keys[domain.ProviderOpenAI],
		BaseURL:      a.cfg.OpenAI.BaseURL,
		MaxRetries:   a.cfg.OpenAI.MaxRetries,
		HTTPClient:   a.httpClient,
		TextModel:    a.cfg.Text.Model,
		SpeechModel:  a.cfg.Speech.Model,
		SpeechFormat: a.cfg.Speech.Format,
		ImageModel:   a.cfg.Image.Model,
		ImageSize:    a.cfg.Image.Size,
	})
	if err != nil {
		return nil, fmt.Errorf("wire openai client: %w", err)
	}

	var completer ports.Completer = oa
	var drawer ports.Drawer = oa
	if key, ok := keys[domain.ProviderGemini]; ok {
		gc, err := geminiadapter.NewClient(ctx, geminiadapter.Config{
			APIKey:     key,
			BaseURL:    a.cfg.Gemini.BaseURL,
			HTTPClient: a.httpClient,
			TextModel:  a.cfg.Gemini.TextModel,
			ImageModel: a.cfg.Gemini.ImageModel,
		})
		if err != nil {
			return nil, fmt.Errorf("wire gemini client: %w", err)
		}
		if a.cfg.Text.Provider == domain.ProviderGemini {
			completer = gc
		}
		if a.cfg.Image.Provider == domain.ProviderGemini {
			drawer = gc
		}
	}

	classifier := application.NewClassifier(completer, a.logger.Named("classifier"))
	orchestrator, err := application.NewOrchestrator(application.OrchestratorConfig{
		Classifier: classifier,
		Completer:  completer,
		Synthesizer: application.NewSynthesizer(oa, application.SpeechConfig{
			Voice:        a.cfg.Speech.Voice,
			Instructions: a.cfg.Speech.Instructions,
			Speed:        a.cfg.Speech.Speed,
		}, a.logger.Named("synthesizer")),
		Illustrator: application.NewIllustrator(drawer, a.logger.Named("illustrator")),
		Logger:      a.logger.Named("orchestrator"),
	})
	if err != nil {
		return nil, fmt.Errorf("wire orchestrator: %w", err)
	}

	return &pipeline{classifier: classifier, orchestrator: orchestrator}, nil
}
