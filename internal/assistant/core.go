// File: internal/assistant/core.go

// Package assistant implements the conversational path: prompt assembly per
// language and style, cached replies, and a post-generation language check
// with a single correction pass.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/shadowglass/inquest/api/schemas"
	"github.com/shadowglass/inquest/internal/cache"
	"github.com/shadowglass/inquest/internal/config"
)

// translatedPrefix marks replies that went through the correction pass.
const translatedPrefix = "[Traduzido] "

// language describes one supported reply language.
type language struct {
	Name        string
	ISO         string
	Instruction string
}

// languages maps the user-facing language name to its reply contract. The
// ISO code is what the detector is expected to report back.
var languages = map[string]language{
	"Português": {
		Name:        "Português",
		ISO:         "pt",
		Instruction: "Responda sempre em português do Brasil.",
	},
	"English": {
		Name:        "English",
		ISO:         "en",
		Instruction: "Always answer in English.",
	},
	"Español": {
		Name:        "Español",
		ISO:         "es",
		Instruction: "Responde siempre en español.",
	},
	"Français": {
		Name:        "Français",
		ISO:         "fr",
		Instruction: "Répondez toujours en français.",
	},
	"Deutsch": {
		Name:        "Deutsch",
		ISO:         "de",
		Instruction: "Antworte immer auf Deutsch.",
	},
}

// SupportedLanguages lists the accepted language names in stable order.
func SupportedLanguages() []string {
	return []string{"Português", "English", "Español", "Français", "Deutsch"}
}

// styleTemperature maps a reply style to its sampling temperature.
func styleTemperature(style schemas.ChatStyle) float64 {
	if style == schemas.StyleCreative {
		return 0.9
	}
	return 0.7
}

// Core holds the chat path collaborators.
type Core struct {
	oracle   schemas.Oracle
	cache    *cache.ResponseCache
	detector schemas.LanguageDetector
	cfg      config.ChatConfig
	logger   *zap.Logger
}

// NewCore builds the chat core. All collaborators are required.
func NewCore(oracle schemas.Oracle, responseCache *cache.ResponseCache, detector schemas.LanguageDetector, cfg config.ChatConfig, logger *zap.Logger) (*Core, error) {
	if oracle == nil {
		return nil, errors.New("oracle is required")
	}
	if responseCache == nil {
		return nil, errors.New("response cache is required")
	}
	if detector == nil {
		return nil, errors.New("language detector is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Core{
		oracle:   oracle,
		cache:    responseCache,
		detector: detector,
		cfg:      cfg,
		logger:   logger.Named("assistant"),
	}, nil
}

// GenerateChatReply answers a free-form question in the requested language
// and style. Replies are cached per (query, language, style); a cache hit
// returns without touching the model. When the generated reply comes back in
// the wrong language, one correction pass asks the model to translate it and
// the result is marked with a "[Traduzido]" prefix. An undetectable language
// is treated as acceptable.
func (c *Core) GenerateChatReply(ctx context.Context, query, languageName string, style schemas.ChatStyle) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", schemas.NewValidationError("query must not be empty")
	}

	lang, ok := languages[languageName]
	if !ok {
		return "", schemas.NewValidationError(fmt.Sprintf("unsupported language %q", languageName))
	}
	if style != schemas.StyleTechnical && style != schemas.StyleCreative {
		return "", schemas.NewValidationError(fmt.Sprintf("unsupported style %q", style))
	}

	key := cache.NewKey(query, lang.Name, string(style))
	if reply, ok := c.cache.Get(key); ok {
		c.logger.Debug("Chat reply served from cache", zap.String("language", lang.Name))
		return reply, nil
	}

	reply, err := c.oracle.Complete(ctx, schemas.CompletionRequest{
		Messages: []schemas.Message{
			{Role: schemas.RoleSystem, Content: c.systemPrompt(lang, style)},
			{Role: schemas.RoleUser, Content: query},
		},
		Temperature: styleTemperature(style),
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	reply = strings.TrimSpace(reply)

	reply = c.ensureLanguage(ctx, reply, lang)

	c.cache.Put(key, reply)
	return reply, nil
}

// systemPrompt assembles the persona for the requested style and language.
func (c *Core) systemPrompt(lang language, style schemas.ChatStyle) string {
	persona := "Você é um assistente técnico preciso e objetivo."
	if style == schemas.StyleCreative {
		persona = "Você é um assistente criativo que explora ideias com liberdade."
	}
	return persona + " " + lang.Instruction
}

// ensureLanguage verifies the reply language and runs at most one correction
// pass. Detection failures and correction failures both fall back to the
// original reply.
func (c *Core) ensureLanguage(ctx context.Context, reply string, lang language) string {
	detected, err := c.detector.Detect(reply)
	if err != nil {
		var derr *schemas.DetectionError
		if errors.As(err, &derr) {
			c.logger.Debug("Reply language undetectable, keeping as is",
				zap.String("reason", derr.Reason))
		} else {
			c.logger.Warn("Language detection failed", zap.Error(err))
		}
		return reply
	}
	if detected == lang.ISO {
		return reply
	}

	c.logger.Info("Reply language mismatch, running correction pass",
		zap.String("expected", lang.ISO),
		zap.String("detected", detected))

	corrected, err := c.oracle.Complete(ctx, schemas.CompletionRequest{
		Messages: []schemas.Message{
			{Role: schemas.RoleSystem, Content: "Você é um tradutor. Traduza o texto do usuário. " + lang.Instruction},
			{Role: schemas.RoleUser, Content: reply},
		},
		Temperature: 0.3,
		MaxTokens:   c.cfg.CorrectionMaxTokens,
	})
	if err != nil {
		c.logger.Warn("Correction pass failed, keeping original reply", zap.Error(err))
		return reply
	}
	corrected = strings.TrimSpace(corrected)
	if corrected == "" {
		return reply
	}
	return translatedPrefix + corrected
}
