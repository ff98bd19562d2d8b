package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goshala/goshala/models"
)

var sanitizer = bluemonday.UGCPolicy()

// Sanitize cleans HTML content to prevent XSS attacks.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}

// SanitizeLocalized cleans every locale value of a multilingual field,
// dropping locales whose text becomes empty after sanitization.
func SanitizeLocalized(text models.LocalizedText) models.LocalizedText {
	out := make(models.LocalizedText, len(text))
	for lang, s := range text {
		s = strings.TrimSpace(sanitizer.Sanitize(s))
		if s != "" {
			out[lang] = s
		}
	}
	return out
}
