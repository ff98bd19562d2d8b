package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// DefaultLocale is the fallback language for multilingual fields.
const DefaultLocale = "en"

// LocalizedText maps a locale code to the text in that language,
// e.g. {"en": "Hello", "hi": "नमस्ते"}. Stored as a JSON column.
type LocalizedText map[string]string

// Resolve returns the text for the requested locale, falling back to the
// default locale, then to the empty string. It never fails.
func (t LocalizedText) Resolve(lang string) string {
	if t == nil {
		return ""
	}
	if s, ok := t[lang]; ok && s != "" {
		return s
	}
	return t[DefaultLocale]
}

// IsEmpty reports whether no locale carries any text.
func (t LocalizedText) IsEmpty() bool {
	for _, s := range t {
		if s != "" {
			return false
		}
	}
	return true
}

// Value implements driver.Valuer, serializing the map as JSON.
func (t LocalizedText) Value() (driver.Value, error) {
	if t == nil {
		return "{}", nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner, reading the JSON column back into the map.
func (t *LocalizedText) Scan(value interface{}) error {
	if value == nil {
		*t = LocalizedText{}
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("localized text: unsupported column type")
	}
	if len(b) == 0 {
		*t = LocalizedText{}
		return nil
	}
	return json.Unmarshal(b, t)
}

// StringList is a JSON-encoded array column of free-text strings (tags).
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("string list: unsupported column type")
	}
	if len(b) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(b, l)
}

// Attachment describes one file attached to a post.
type Attachment struct {
	FileName string `json:"fileName"`
	FileURL  string `json:"fileUrl"`
	FileType string `json:"fileType"`
}

// AttachmentList is a JSON-encoded array column of attachments.
type AttachmentList []Attachment

func (l AttachmentList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *AttachmentList) Scan(value interface{}) error {
	if value == nil {
		*l = AttachmentList{}
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("attachment list: unsupported column type")
	}
	if len(b) == 0 {
		*l = AttachmentList{}
		return nil
	}
	return json.Unmarshal(b, l)
}
