package kiosk

import (
	"fmt"
	"strings"

	"terrytube/pkg/configutil"
	"terrytube/pkg/llm"
	"terrytube/pkg/providers/deepgram"
	"terrytube/pkg/providers/mock"
	"terrytube/pkg/providers/ollama"
	"terrytube/pkg/providers/openai"
	"terrytube/pkg/speech"
	"terrytube/pkg/stt"
)

type LLMFactory func(cfg VendorConfig) (llm.Adapter, error)
type TTSFactory func(cfg VendorConfig) (speech.Synthesizer, error)
type STTFactory func(cfg VendorConfig) (stt.Transcriber, error)

// ProviderRegistry maps vendor names to factories. Settings maps are
// decoded per vendor at build time.
type ProviderRegistry struct {
	llm map[string]LLMFactory
	tts map[string]TTSFactory
	stt map[string]STTFactory
}

func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		llm: make(map[string]LLMFactory),
		tts: make(map[string]TTSFactory),
		stt: make(map[string]STTFactory),
	}
}

func (r *ProviderRegistry) RegisterLLM(name string, factory LLMFactory) {
	r.llm[normalizeProvider(name)] = factory
}

func (r *ProviderRegistry) RegisterTTS(name string, factory TTSFactory) {
	r.tts[normalizeProvider(name)] = factory
}

func (r *ProviderRegistry) RegisterSTT(name string, factory STTFactory) {
	r.stt[normalizeProvider(name)] = factory
}

func (r *ProviderRegistry) BuildLLM(cfg VendorConfig) (llm.Adapter, error) {
	fn := r.llm[normalizeProvider(cfg.Provider)]
	if fn == nil {
		return nil, fmt.Errorf("llm provider not registered: %s", cfg.Provider)
	}
	return fn(cfg)
}

func (r *ProviderRegistry) BuildTTS(cfg VendorConfig) (speech.Synthesizer, error) {
	fn := r.tts[normalizeProvider(cfg.Provider)]
	if fn == nil {
		return nil, fmt.Errorf("tts provider not registered: %s", cfg.Provider)
	}
	return fn(cfg)
}

func (r *ProviderRegistry) BuildSTT(cfg VendorConfig) (stt.Transcriber, error) {
	fn := r.stt[normalizeProvider(cfg.Provider)]
	if fn == nil {
		return nil, fmt.Errorf("stt provider not registered: %s", cfg.Provider)
	}
	return fn(cfg)
}

func normalizeProvider(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

type openAISettings struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type ollamaSettings struct {
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type deepgramSettings struct {
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	Language string `mapstructure:"language"`
}

type mockSettings struct {
	Response   string `mapstructure:"response"`
	Transcript string `mapstructure:"transcript"`
}

// DefaultRegistry registers every built-in provider.
func DefaultRegistry() *ProviderRegistry {
	r := NewProviderRegistry()

	r.RegisterLLM("openai", func(cfg VendorConfig) (llm.Adapter, error) {
		var s openAISettings
		if err := configutil.DecodeSettings(cfg.Settings, &s); err != nil {
			return nil, err
		}
		if err := configutil.RequireString(s.APIKey, "vendors.llm.settings.api_key"); err != nil {
			return nil, err
		}
		return openai.NewLLM(openai.LLMConfig{APIKey: s.APIKey, Model: s.Model, BaseURL: s.BaseURL}), nil
	})
	r.RegisterLLM("ollama", func(cfg VendorConfig) (llm.Adapter, error) {
		var s ollamaSettings
		if err := configutil.DecodeSettings(cfg.Settings, &s); err != nil {
			return nil, err
		}
		if err := configutil.RequireString(s.Model, "vendors.llm.settings.model"); err != nil {
			return nil, err
		}
		return ollama.New(ollama.Config{Model: s.Model, BaseURL: s.BaseURL}), nil
	})
	r.RegisterLLM("mock", func(cfg VendorConfig) (llm.Adapter, error) {
		var s mockSettings
		if err := configutil.DecodeSettings(cfg.Settings, &s); err != nil {
			return nil, err
		}
		var responses []string
		if s.Response != "" {
			responses = []string{s.Response}
		}
		return mock.NewLLMAdapter(mock.LLMConfig{Responses: responses}), nil
	})

	r.RegisterTTS("openai", func(cfg VendorConfig) (speech.Synthesizer, error) {
		var s openAISettings
		if err := configutil.DecodeSettings(cfg.Settings, &s); err != nil {
			return nil, err
		}
		if err := configutil.RequireString(s.APIKey, "vendors.tts.settings.api_key"); err != nil {
			return nil, err
		}
		return openai.NewTTS(openai.TTSConfig{APIKey: s.APIKey, Model: s.Model, BaseURL: s.BaseURL}), nil
	})
	r.RegisterTTS("mock", func(cfg VendorConfig) (speech.Synthesizer, error) {
		return mock.NewTTS(mock.TTSConfig{}), nil
	})

	r.RegisterSTT("openai", func(cfg VendorConfig) (stt.Transcriber, error) {
		var s openAISettings
		if err := configutil.DecodeSettings(cfg.Settings, &s); err != nil {
			return nil, err
		}
		if err := configutil.RequireString(s.APIKey, "vendors.stt.settings.api_key"); err != nil {
			return nil, err
		}
		return openai.NewSTT(openai.STTConfig{APIKey: s.APIKey, Model: s.Model, BaseURL: s.BaseURL}), nil
	})
	r.RegisterSTT("deepgram", func(cfg VendorConfig) (stt.Transcriber, error) {
		var s deepgramSettings
		if err := configutil.DecodeSettings(cfg.Settings, &s); err != nil {
			return nil, err
		}
		if err := configutil.RequireString(s.APIKey, "vendors.stt.settings.api_key"); err != nil {
			return nil, err
		}
		return deepgram.New(deepgram.Config{APIKey: s.APIKey, Model: s.Model, Language: s.Language}), nil
	})
	r.RegisterSTT("mock", func(cfg VendorConfig) (stt.Transcriber, error) {
		var s mockSettings
		if err := configutil.DecodeSettings(cfg.Settings, &s); err != nil {
			return nil, err
		}
		return mock.NewSTT(mock.STTConfig{Transcript: s.Transcript}), nil
	})

	return r
}
