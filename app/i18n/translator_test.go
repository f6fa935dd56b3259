package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslatorEnglish(t *testing.T) {
	translator := New("en")

	assert.Equal(t, "en", translator.Locale())
	assert.Equal(t, "RSS has been loaded successfully", translator.T(KeySuccess))
	assert.Equal(t, "RSS already exists", translator.T("errors.duplicate"))
}

func TestTranslatorRussian(t *testing.T) {
	translator := New("ru-RU")

	assert.Equal(t, "ru", translator.Locale())
	assert.Equal(t, "Ошибка сети", translator.T("errors.network_error"))
}

func TestTranslatorFallbacks(t *testing.T) {
	assert.Equal(t, "en", New("not a locale").Locale())
	assert.Equal(t, "en", New("de").Locale())

	assert.Equal(t, "errors.unknown", New("en").T("errors.unknown"))
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for key := range catalog[supported[0]] {
		for _, tag := range supported[1:] {
			assert.Contains(t, catalog[tag], key, "locale %s", tag)
		}
	}
}
