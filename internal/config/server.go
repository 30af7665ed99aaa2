package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ServerConfig represents the processing backend configuration.
type ServerConfig struct {
	HTTP    HTTPConfig    `yaml:"http"`
	ASR     ASRConfig     `yaml:"asr"`
	LLM     LLMConfig     `yaml:"llm"`
	TTS     TTSConfig     `yaml:"tts"`
	Actions ActionsConfig `yaml:"actions"`
	Logging LoggingConfig `yaml:"logging"`
}

// HTTPConfig contains HTTP API server configuration
type HTTPConfig struct {
	Address     string `yaml:"address"`
	MaxUploadMB int    `yaml:"max_upload_mb"`
}

// ASRConfig selects the speech recognizer.
type ASRConfig struct {
	Engine    string `yaml:"engine"`     // vosk | google
	ModelID   string `yaml:"model_id"`   // vosk model from the registry
	ModelsDir string `yaml:"models_dir"` // empty means the default cache dir
	Language  string `yaml:"language"`   // BCP-47, used by google
}

// LLMConfig configures the intent extractor used when no rule matches.
type LLMConfig struct {
	Provider string `yaml:"provider"` // ollama | openai | gemini | none
	URL      string `yaml:"url"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	Timeout  int    `yaml:"timeout"` // seconds
}

// TTSConfig selects the speech synthesizer.
type TTSConfig struct {
	Engine string `yaml:"engine"` // espeak | elevenlabs
	Voice  string `yaml:"voice"`
	APIKey string `yaml:"api_key"`
}

// ActionsConfig controls side effects of the action router.
type ActionsConfig struct {
	OpenBrowser bool `yaml:"open_browser"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Engine and provider names.
const (
	ASRVosk   = "vosk"
	ASRGoogle = "google"

	LLMOllama = "ollama"
	LLMOpenAI = "openai"
	LLMGemini = "gemini"
	LLMNone   = "none"

	TTSEspeak     = "espeak"
	TTSElevenLabs = "elevenlabs"
)

// DefaultServerConfig returns the configuration used when no file is given.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		HTTP: HTTPConfig{
			Address:     ":8000",
			MaxUploadMB: 25,
		},
		ASR: ASRConfig{
			Engine:   ASRVosk,
			ModelID:  "vosk-en-small",
			Language: "en-US",
		},
		LLM: LLMConfig{
			Provider: LLMOllama,
			URL:      "http://localhost:11434",
			Model:    "qwen2.5:1.5b",
			Timeout:  30,
		},
		TTS: TTSConfig{
			Engine: TTSEspeak,
			Voice:  "en",
		},
		Actions: ActionsConfig{
			OpenBrowser: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadServer reads the YAML file over the defaults, loads .env and applies
// environment overrides. An empty path skips the file.
func LoadServer(path string) (*ServerConfig, error) {
	cfg := DefaultServerConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg.applyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *ServerConfig) applyEnv(getenv func(string) string) {
	if v := getenv("AURA_ADDR"); v != "" {
		c.HTTP.Address = v
	}
	if v := getenv("OLLAMA_URL"); v != "" && c.LLM.Provider == LLMOllama {
		c.LLM.URL = v
	}
	if c.LLM.APIKey == "" {
		switch c.LLM.Provider {
		case LLMOpenAI:
			c.LLM.APIKey = getenv("OPENAI_API_KEY")
		case LLMGemini:
			c.LLM.APIKey = getenv("GEMINI_API_KEY")
		}
	}
	if c.TTS.APIKey == "" && c.TTS.Engine == TTSElevenLabs {
		c.TTS.APIKey = getenv("ELEVEN_LABS_API_KEY")
	}
}

// Validate performs validation of every section.
func (c *ServerConfig) Validate() error {
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http config: %w", err)
	}
	if err := c.ASR.Validate(); err != nil {
		return fmt.Errorf("asr config: %w", err)
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("llm config: %w", err)
	}
	if err := c.TTS.Validate(); err != nil {
		return fmt.Errorf("tts config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	return nil
}

// Validate validates HTTP configuration
func (h *HTTPConfig) Validate() error {
	if h.Address == "" {
		return fmt.Errorf("address cannot be empty")
	}
	if h.MaxUploadMB < 1 || h.MaxUploadMB > 512 {
		return fmt.Errorf("max_upload_mb must be between 1 and 512, got %d", h.MaxUploadMB)
	}
	return nil
}

// Validate validates ASR configuration
func (a *ASRConfig) Validate() error {
	switch a.Engine {
	case ASRVosk:
		if a.ModelID == "" {
			return fmt.Errorf("model_id is required for vosk")
		}
	case ASRGoogle:
		if a.Language == "" {
			return fmt.Errorf("language is required for google")
		}
	default:
		return fmt.Errorf("unknown engine %q", a.Engine)
	}
	return nil
}

// Validate validates LLM configuration
func (l *LLMConfig) Validate() error {
	switch l.Provider {
	case LLMNone:
		return nil
	case LLMOllama:
		if l.URL == "" {
			return fmt.Errorf("url is required for ollama")
		}
	case LLMOpenAI, LLMGemini:
		if l.APIKey == "" {
			return fmt.Errorf("api_key is required for %s", l.Provider)
		}
	default:
		return fmt.Errorf("unknown provider %q", l.Provider)
	}
	if l.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}
	if l.Timeout < 1 {
		return fmt.Errorf("timeout must be at least 1 second, got %d", l.Timeout)
	}
	return nil
}

// TimeoutDuration returns the request timeout.
func (l *LLMConfig) TimeoutDuration() time.Duration {
	return time.Duration(l.Timeout) * time.Second
}

// Validate validates TTS configuration
func (t *TTSConfig) Validate() error {
	switch t.Engine {
	case TTSEspeak:
	case TTSElevenLabs:
		if t.APIKey == "" {
			return fmt.Errorf("api_key is required for elevenlabs")
		}
	default:
		return fmt.Errorf("unknown engine %q", t.Engine)
	}
	return nil
}

// Validate validates logging configuration
func (l *LoggingConfig) Validate() error {
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("invalid log level %q", l.Level)
}
