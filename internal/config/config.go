package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/noarh/internal/domain"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".noarh"
	envPrefix  = "NOARH"
)

type Config struct {
	Text    TextConfig
	Speech  SpeechConfig
	Image   ImageConfig
	OpenAI  OpenAIConfig
	Gemini  GeminiConfig
	Output  OutputConfig
	Secrets SecretsConfig
	Log     LogConfig
}

type TextConfig struct {
	Provider domain.Provider
	Model    string
}

type SpeechConfig struct {
	Model        string
	Voice        string
	Speed        float64
	Instructions string
	Format       string
}

type ImageConfig struct {
	Provider domain.Provider
	Model    string
	Size     string
}

type OpenAIConfig struct {
	BaseURL    string
	MaxRetries int
}

type GeminiConfig struct {
	BaseURL    string
	TextModel  string
	ImageModel string
}

type OutputConfig struct {
	Dir string
}

// SecretsConfig selects the writable secret backends. An empty Dir means
// ~/.noarh/secrets.
type SecretsConfig struct {
	Dir     string
	UsePass bool
}

type LogConfig struct {
	Level string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("text.provider", string(domain.ProviderOpenAI))
	v.SetDefault("text.model", "gpt-4o-mini")
	v.SetDefault("speech.model", "gpt-4o-mini-tts")
	v.SetDefault("speech.voice", "alloy")
	v.SetDefault("speech.speed", 0.9)
	v.SetDefault("speech.instructions", "Speak calmly like a bedtime storyteller")
	v.SetDefault("speech.format", "mp3")
	v.SetDefault("image.provider", string(domain.ProviderOpenAI))
	v.SetDefault("image.model", "dall-e-3")
	v.SetDefault("image.size", "1024x1024")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.max_retries", 2)
	v.SetDefault("gemini.base_url", "")
	v.SetDefault("gemini.text_model", "gemini-2.5-flash")
	v.SetDefault("gemini.image_model", "imagen-3.0-generate-002")
	v.SetDefault("output.dir", "noarh-output")
	v.SetDefault("secrets.dir", "")
	v.SetDefault("secrets.use_pass", true)
	v.SetDefault("log.level", "warn")
}

// Load reads path, or ~/.noarh/config.toml when path is empty. A missing
// default file is not an error; NOARH_* env vars override file values.
func Load(v *viper.Viper, path string) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home directory: %w", err)
		}
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(filepath.Join(homeDir, configDir))
		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	textProvider, err := domain.ParseProvider(v.GetString("text.provider"))
	if err != nil {
		return Config{}, fmt.Errorf("parse text provider: %w", err)
	}
	imageProvider, err := domain.ParseProvider(v.GetString("image.provider"))
	if err != nil {
		return Config{}, fmt.Errorf("parse image provider: %w", err)
	}

	cfg := Config{
		Text: TextConfig{
			Provider: textProvider,
			Model:    v.GetString("text.model"),
		},
		Speech: SpeechConfig{
			Model:        v.GetString("speech.model"),
			Voice:        v.GetString("speech.voice"),
			Speed:        v.GetFloat64("speech.speed"),
			Instructions: v.GetString("speech.instructions"),
			Format:       v.GetString("speech.format"),
		},
		Image: ImageConfig{
			Provider: imageProvider,
			Model:    v.GetString("image.model"),
			Size:     v.GetString("image.size"),
		},
		OpenAI: OpenAIConfig{
			BaseURL:    v.GetString("openai.base_url"),
			MaxRetries: v.GetInt("openai.max_retries"),
		},
		Gemini: GeminiConfig{
			BaseURL:    v.GetString("gemini.base_url"),
			TextModel:  v.GetString("gemini.text_model"),
			ImageModel: v.GetString("gemini.image_model"),
		},
		Output: OutputConfig{Dir: v.GetString("output.dir")},
		Secrets: SecretsConfig{
			Dir:     v.GetString("secrets.dir"),
			UsePass: v.GetBool("secrets.use_pass"),
		},
		Log: LogConfig{Level: v.GetString("log.level")},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Speech.Speed <= 0 {
		errs = append(errs, fmt.Errorf("speech speed must be positive, got %v", c.Speech.Speed))
	}
	if strings.TrimSpace(c.Speech.Voice) == "" {
		errs = append(errs, errors.New("speech voice is empty"))
	}
	if c.OpenAI.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("openai max_retries must not be negative, got %d", c.OpenAI.MaxRetries))
	}
	if strings.TrimSpace(c.Output.Dir) == "" {
		errs = append(errs, errors.New("output dir is empty"))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); c.Log.Level != "" && err != nil {
		errs = append(errs, fmt.Errorf("log level: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

// Providers lists the distinct providers the configuration needs credentials for.
// Speech always runs on OpenAI.
func (c Config) Providers() []domain.Provider {
	seen := map[domain.Provider]bool{domain.ProviderOpenAI: true}
	out := []domain.Provider{domain.ProviderOpenAI}
	for _, p := range []domain.Provider{c.Text.Provider, c.Image.Provider} {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
