package models

import "testing"

func TestLocalizedTextResolve(t *testing.T) {
	text := LocalizedText{"en": "Hello", "hi": "नमस्ते"}

	cases := []struct {
		name string
		text LocalizedText
		lang string
		want string
	}{
		{"requested locale present", text, "hi", "नमस्ते"},
		{"default locale fallback", text, "fr", "Hello"},
		{"default locale direct", text, "en", "Hello"},
		{"neither present", LocalizedText{"hi": "नमस्ते"}, "fr", ""},
		{"empty map", LocalizedText{}, "en", ""},
		{"nil map", nil, "en", ""},
		{"empty value falls back", LocalizedText{"en": "Hello", "hi": ""}, "hi", "Hello"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.text.Resolve(tc.lang); got != tc.want {
				t.Errorf("Resolve(%q) = %q, want %q", tc.lang, got, tc.want)
			}
		})
	}
}

func TestLocalizedTextIsEmpty(t *testing.T) {
	if !(LocalizedText{}).IsEmpty() {
		t.Error("empty map should be empty")
	}
	if !(LocalizedText{"en": ""}).IsEmpty() {
		t.Error("map with only blank values should be empty")
	}
	if (LocalizedText{"en": "x"}).IsEmpty() {
		t.Error("map with text should not be empty")
	}
}

func TestLocalizedTextScanValue(t *testing.T) {
	orig := LocalizedText{"en": "Organic farming", "hi": "जैविक खेती"}
	v, err := orig.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}

	var scanned LocalizedText
	if err := scanned.Scan(v); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(scanned) != len(orig) {
		t.Fatalf("scanned %d entries, want %d", len(scanned), len(orig))
	}
	for lang, want := range orig {
		if scanned[lang] != want {
			t.Errorf("scanned[%q] = %q, want %q", lang, scanned[lang], want)
		}
	}
}

func TestLocalizedTextScanNil(t *testing.T) {
	var text LocalizedText
	if err := text.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) failed: %v", err)
	}
	if text == nil {
		t.Error("Scan(nil) should initialize an empty map")
	}
}

func TestStringListScanValue(t *testing.T) {
	orig := StringList{"cows", "organic"}
	v, err := orig.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	var scanned StringList
	if err := scanned.Scan([]byte(v.(string))); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(scanned) != 2 || scanned[0] != "cows" || scanned[1] != "organic" {
		t.Errorf("scanned = %v, want %v", scanned, orig)
	}
}

func TestAttachmentListScanValue(t *testing.T) {
	orig := AttachmentList{{FileName: "a.png", FileURL: "/static/a.png", FileType: "image/png"}}
	v, err := orig.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	var scanned AttachmentList
	if err := scanned.Scan(v); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(scanned) != 1 || scanned[0].FileURL != "/static/a.png" {
		t.Errorf("scanned = %v, want %v", scanned, orig)
	}
}
