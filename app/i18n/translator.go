// Package i18n maps feedback message keys to user-facing text.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const KeySuccess = "feedback.success"

var supported = []language.Tag{language.English, language.Russian}

var catalog = map[language.Tag]map[string]string{
	language.English: {
		KeySuccess:             "RSS has been loaded successfully",
		"errors.blank":         "The field must not be empty",
		"errors.malformed_url": "The link must be a valid URL",
		"errors.duplicate":     "RSS already exists",
		"errors.network_error": "Network error",
		"errors.parsing_error": "The resource does not contain valid RSS",
	},
	language.Russian: {
		KeySuccess:             "RSS успешно загружен",
		"errors.blank":         "Не должно быть пустым",
		"errors.malformed_url": "Ссылка должна быть валидным URL",
		"errors.duplicate":     "RSS уже существует",
		"errors.network_error": "Ошибка сети",
		"errors.parsing_error": "Ресурс не содержит валидный RSS",
	},
}

func init() {
	for tag, messages := range catalog {
		for key, text := range messages {
			if err := message.SetString(tag, key, text); err != nil {
				panic(err)
			}
		}
	}
}

type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// New picks the closest supported locale, falling back to English.
func New(locale string) *Translator {
	tag := language.English
	if requested, err := language.Parse(locale); err == nil {
		_, index, _ := language.NewMatcher(supported).Match(requested)
		tag = supported[index]
	}

	return &Translator{
		tag:     tag,
		printer: message.NewPrinter(tag),
	}
}

func (t *Translator) Locale() string {
	return t.tag.String()
}

// T returns the text for key, or the key itself when it is unknown.
func (t *Translator) T(key string) string {
	return t.printer.Sprintf(key)
}
