package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestMatchFallsBackToDefault(t *testing.T) {
	b, err := New("es")
	require.NoError(t, err)

	assert.Equal(t, language.Spanish, b.Match(""))
	assert.Equal(t, language.Spanish, b.Match("fr-FR,fr;q=0.9"))
	assert.Equal(t, language.Spanish, b.Match("not a header;;"))
	assert.Equal(t, language.English, b.Match("en-US,en;q=0.9,es;q=0.5"))
	assert.Equal(t, language.Spanish, b.Match("es-PE"))
}

func TestEnglishDefault(t *testing.T) {
	b, err := New("en")
	require.NoError(t, err)
	assert.Equal(t, language.English, b.Default())
	assert.Equal(t, language.English, b.Match("de"))
	assert.Equal(t, []language.Tag{language.English, language.Spanish}, b.Locales())
}

func TestNewRejectsUnknownLocale(t *testing.T) {
	_, err := New("fr")
	assert.Error(t, err)
	_, err = New("??")
	assert.Error(t, err)
}

func TestTranslate(t *testing.T) {
	b, err := New("")
	require.NoError(t, err)

	assert.Equal(t, "Eventos", b.T(language.Spanish, "nav.events"))
	assert.Equal(t, "Events", b.T(language.English, "nav.events"))
	assert.Equal(t, "Upcoming events (3)", b.T(language.English, "dashboard.upcoming", 3))
	assert.Equal(t, "no.such.key", b.T(language.English, "no.such.key"))
}

func TestCatalogsHaveTheSameKeys(t *testing.T) {
	for tag, msgs := range messages {
		for key := range messages[language.Spanish] {
			assert.Contains(t, msgs, key, "%s lacks %s", tag, key)
		}
		assert.Len(t, msgs, len(messages[language.Spanish]), tag.String())
	}
}
