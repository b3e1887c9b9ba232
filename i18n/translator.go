package i18n

import (
	"strconv"
	"strings"
	"sync"
)

// Message codes produced by validation.
const (
	CodeRequired         = "required"
	CodeInvalidType      = "invalid_type"
	CodeMinimum          = "minimum"
	CodeMaximum          = "maximum"
	CodeExclusiveMinimum = "exclusive_minimum"
	CodeExclusiveMaximum = "exclusive_maximum"
	CodeMinLength        = "min_length"
	CodeMaxLength        = "max_length"
	CodePattern          = "pattern"
	CodeMinItems         = "min_items"
	CodeMaxItems         = "max_items"
	CodeUniqueItems      = "unique_items"
	CodeEnum             = "enum"
	CodeUnexpectedValue  = "unexpected_value"
	CodeOneOf            = "one_of"
)

// Translator retrieves localized messages for message codes.
// data provides values to embed in the message: "limit" for bounds,
// "expected" for types, "items" for repeated element positions.
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		CodeRequired:         "REQUIRED",
		CodeInvalidType:      "Invalid value, expected {expected}",
		CodeMinimum:          "Value has to be higher or equal than {limit}",
		CodeMaximum:          "Value has to be lower or equal than {limit}",
		CodeExclusiveMinimum: "Value has to be higher than {limit}",
		CodeExclusiveMaximum: "Value has to be lower than {limit}",
		CodeMinLength:        "Too short. Has to contain at least {limit} {character}",
		CodeMaxLength:        "Too long. Has to contain maximum {limit} {character}",
		CodePattern:          "Incorrect format",
		CodeMinItems:         "Collection has to contain at least {limit} {item}",
		CodeMaxItems:         "Collection has to contain maximum {limit} {item}",
		CodeUniqueItems:      "Collection needs to contain unique items. Items [{items}] are repetitive",
		CodeEnum:             "Value is not one of the allowed values",
		CodeUnexpectedValue:  "Unexpected value",
		CodeOneOf:            "Value has to match exactly one alternative",
	},
	"ja": {
		CodeRequired:         "REQUIRED",
		CodeInvalidType:      "型が不正です ({expected} が必要です)",
		CodeMinimum:          "{limit} 以上の値を入力してください",
		CodeMaximum:          "{limit} 以下の値を入力してください",
		CodeExclusiveMinimum: "{limit} より大きい値を入力してください",
		CodeExclusiveMaximum: "{limit} より小さい値を入力してください",
		CodeMinLength:        "短すぎます。{limit} 文字以上にしてください",
		CodeMaxLength:        "長すぎます。{limit} 文字以内にしてください",
		CodePattern:          "形式が正しくありません",
		CodeMinItems:         "{limit} 件以上の項目が必要です",
		CodeMaxItems:         "{limit} 件以内にしてください",
		CodeUniqueItems:      "項目が重複しています。項目 [{items}] が重複しています",
		CodeEnum:             "許可されていない値です",
		CodeUnexpectedValue:  "不正な値です",
		CodeOneOf:            "いずれか一つの条件だけを満たす必要があります",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	if !strings.Contains(tmpl, "{") {
		return tmpl
	}
	limit := data["limit"]
	pairs := []string{
		"{character}", plural("character", limit),
		"{item}", plural("item", limit),
	}
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// plural returns word, or its plural form unless count is exactly one.
func plural(word, count string) string {
	if n, err := strconv.ParseFloat(count, 64); err == nil && n == 1 {
		return word
	}
	return word + "s"
}

// Dictionary returns the built-in Translator for lang ("en"/"ja"). Unknown
// languages fall back to English.
func Dictionary(lang string) Translator {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	return dictTranslator{lang: lang}
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	SetTranslator(Dictionary(lang))
}

// SetTranslator replaces the process-wide Translator implementation (not
// limited to the dictionary version). nil restores English.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// Current returns the process-wide Translator.
func Current() Translator {
	mu.RLock()
	defer mu.RUnlock()
	return currentTranslator
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return Current().Message(code, data) }
