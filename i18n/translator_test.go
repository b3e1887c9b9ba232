package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	assert.Equal(t, "Value has to be higher or equal than 10", T(CodeMinimum, map[string]string{"limit": "10"}))

	SetLanguage("ja")
	t.Cleanup(func() { SetLanguage("en") })
	assert.Equal(t, "10 以上の値を入力してください", T(CodeMinimum, map[string]string{"limit": "10"}))
}

func TestDictionary_Plurals(t *testing.T) {
	en := Dictionary("en")
	assert.Equal(t, "Too short. Has to contain at least 1 character", en.Message(CodeMinLength, map[string]string{"limit": "1"}))
	assert.Equal(t, "Too long. Has to contain maximum 5 characters", en.Message(CodeMaxLength, map[string]string{"limit": "5"}))
	assert.Equal(t, "Collection has to contain at least 2 items", en.Message(CodeMinItems, map[string]string{"limit": "2"}))
	assert.Equal(t, "Collection has to contain maximum 1 item", en.Message(CodeMaxItems, map[string]string{"limit": "1"}))
	assert.Equal(t, "Collection needs to contain unique items. Items [1, 3] are repetitive",
		en.Message(CodeUniqueItems, map[string]string{"items": "1, 3"}))
}

func TestDictionary_Fallbacks(t *testing.T) {
	assert.Equal(t, "Incorrect format", Dictionary("fr").Message(CodePattern, nil))
	assert.Equal(t, "no_such_code", Dictionary("en").Message("no_such_code", nil))
}
