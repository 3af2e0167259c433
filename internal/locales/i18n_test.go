package locales

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestMessagesExistInEveryBundle(t *testing.T) {
	Init("zh-TW")
	assert.Equal(t, language.MustParse("zh-TW"), GetDefaultLanguageTag())

	ids := []string{
		MsgMenuTitle, MsgMenuCancelAll, MsgPermissionDenied, MsgSelectionSummary,
		MsgSelectionEmpty, MsgBroadcastUsage, MsgBroadcastNoResults,
		MsgBroadcastRateLimited, MsgTranslationUnavailable,
	}
	for _, lang := range []string{"en", "zh-TW"} {
		for _, id := range ids {
			msg := Text(lang, id, map[string]interface{}{"Languages": "x", "Command": "/announce", "Date": "2024/01/01"})
			assert.NotEqual(t, id, msg, "%s missing in %s", id, lang)
		}
	}
}

func TestTemplateData(t *testing.T) {
	Init("en")
	assert.Equal(t, "Usage: /announce YYYY-MM-DD", Text("en", MsgBroadcastUsage, map[string]interface{}{"Command": "/announce"}))
	assert.Equal(t, "目前翻譯語言：英文、越南文", Text("zh-TW", MsgSelectionSummary, map[string]interface{}{"Languages": "英文、越南文"}))
}

func TestUnknownLanguageFallsBackToDefault(t *testing.T) {
	Init("en")
	assert.Equal(t, "Cancel all", Text("fr", MsgMenuCancelAll, nil))
}

func TestUnknownMessageReturnsID(t *testing.T) {
	Init("en")
	assert.Equal(t, "MsgDoesNotExist", Text("en", "MsgDoesNotExist", nil))
}
