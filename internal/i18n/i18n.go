// Package i18n provides the translated strings of the web interface.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator owns the message bundle. It is built once at startup and is safe
// for concurrent use.
type Translator struct {
	bundle      *i18n.Bundle
	defaultLang string
	logger      *zap.Logger
}

// New loads every embedded locale file, using lang as the default language.
func New(lang string, logger *zap.Logger) (*Translator, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("parse language %q: %w", lang, err)
	}

	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("read locale file %s: %w", e.Name(), err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, e.Name()); err != nil {
			return nil, fmt.Errorf("parse locale file %s: %w", e.Name(), err)
		}
		logger.Debug("loaded locale file", zap.String("file", e.Name()))
	}

	return &Translator{bundle: bundle, defaultLang: tag.String(), logger: logger}, nil
}

// Languages lists the languages with a locale file.
func (t *Translator) Languages() []string {
	tags := t.bundle.LanguageTags()
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, tag.String())
	}
	return out
}

// Localizer picks the best language among the preferences given, usually the
// raw Accept-Language header, falling back to the default language.
func (t *Translator) Localizer(prefs ...string) *Localizer {
	langs := append(append([]string{}, prefs...), t.defaultLang)
	return &Localizer{loc: i18n.NewLocalizer(t.bundle, langs...), logger: t.logger}
}

// Localizer translates messages for one request.
type Localizer struct {
	loc    *i18n.Localizer
	logger *zap.Logger
}

// T translates a message by ID. Unknown IDs are returned unchanged.
func (l *Localizer) T(msgID string) string {
	return l.localize(&i18n.LocalizeConfig{MessageID: msgID})
}

// Td translates a message by ID with template data.
func (l *Localizer) Td(msgID string, data map[string]any) string {
	return l.localize(&i18n.LocalizeConfig{MessageID: msgID, TemplateData: data})
}

// Tp translates a pluralized message by ID.
func (l *Localizer) Tp(msgID string, count int) string {
	return l.localize(&i18n.LocalizeConfig{
		MessageID:    msgID,
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	})
}

// Lang returns the language the localizer resolved to.
func (l *Localizer) Lang() string {
	_, tag, err := l.loc.LocalizeWithTag(&i18n.LocalizeConfig{MessageID: "app_title"})
	if err != nil {
		return "en"
	}
	return tag.String()
}

func (l *Localizer) localize(cfg *i18n.LocalizeConfig) string {
	s, err := l.loc.Localize(cfg)
	if err != nil {
		l.logger.Warn("missing translation", zap.String("id", cfg.MessageID), zap.Error(err))
		return cfg.MessageID
	}
	return s
}
