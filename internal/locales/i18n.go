// Package locales loads the bot's user-facing texts.
package locales

import (
	"embed"
	"encoding/json"
	"io/fs"
	"log"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed *.json
var localeFS embed.FS

var (
	bundle          *i18n.Bundle
	defaultLanguage language.Tag
)

// Init builds the bundle from the embedded message files. Texts missing in a
// requested language are looked up in defaultLangCode, then in English.
func Init(defaultLangCode string) {
	tag, err := language.Parse(defaultLangCode)
	if err != nil {
		log.Printf("WARN: Invalid default locale %q: %v. Using English.", defaultLangCode, err)
		tag = language.English
	}
	defaultLanguage = tag

	bundle = i18n.NewBundle(defaultLanguage)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	files, err := fs.Glob(localeFS, "*.json")
	if err != nil || len(files) == 0 {
		log.Fatalf("No embedded message files found: %v", err)
	}
	for _, name := range files {
		if _, err := bundle.LoadMessageFileFS(localeFS, name); err != nil {
			log.Fatalf("Failed to load message file %s: %v", name, err)
		}
	}
	log.Printf("Locales loaded: %v (default %s)", files, defaultLanguage)
}

// GetDefaultLanguageTag returns the configured default language tag.
func GetDefaultLanguageTag() language.Tag {
	if bundle == nil {
		log.Panicln("locales: Init has not been called")
	}
	return defaultLanguage
}

// NewLocalizer creates a localizer for lang ("en", "zh-TW" or an Accept-Language value)
// that falls back to the default locale and English.
func NewLocalizer(lang string) *i18n.Localizer {
	if bundle == nil {
		log.Panicln("locales: Init has not been called")
	}
	return i18n.NewLocalizer(bundle, lang, defaultLanguage.String(), language.English.String())
}

// GetMessage renders msgID with templateData. The ID itself is returned when no bundle has it.
func GetMessage(localizer *i18n.Localizer, msgID string, templateData map[string]interface{}) string {
	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: msgID, TemplateData: templateData})
	if err != nil {
		log.Printf("ERROR: Failed to localize %s: %v", msgID, err)
		return msgID
	}
	return msg
}

// Text localizes msgID for lang.
func Text(lang, msgID string, templateData map[string]interface{}) string {
	return GetMessage(NewLocalizer(lang), msgID, templateData)
}
