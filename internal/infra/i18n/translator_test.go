//go:build !integration

package i18n

import (
	"strings"
	"testing"
	"testing/fstest"
)

func TestTranslator(t *testing.T) {
	translator, err := newTranslatorFromBytes([]byte("greeting: Salom\nwelcome_user: Salom %s"))
	if err != nil {
		t.Fatalf("newTranslatorFromBytes failed: %v", err)
	}

	t.Run("should translate a simple key", func(t *testing.T) {
		if got := translator.T("greeting"); got != "Salom" {
			t.Errorf("wanted 'Salom', got '%s'", got)
		}
	})

	t.Run("should return key if not found", func(t *testing.T) {
		if got := translator.T("nonexistent_key"); got != "nonexistent_key" {
			t.Errorf("wanted 'nonexistent_key', got '%s'", got)
		}
	})

	t.Run("should format arguments correctly", func(t *testing.T) {
		if got := translator.T("welcome_user", "Ali"); got != "Salom Ali" {
			t.Errorf("wanted 'Salom Ali', got '%s'", got)
		}
	})
}

func TestNewTranslatorFallsBackToDefault(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en.yaml": {Data: []byte("hello: Hello")},
	}
	tr, err := NewTranslator(fsys, "de")
	if err != nil {
		t.Fatalf("NewTranslator failed: %v", err)
	}
	if tr.Lang() != DefaultLang || tr.T("hello") != "Hello" {
		t.Errorf("expected english fallback, got lang=%s text=%s", tr.Lang(), tr.T("hello"))
	}

	if _, err := NewTranslator(fstest.MapFS{}, "en"); err == nil {
		t.Error("expected error when no locale exists")
	}
}

func TestEmbeddedLocalesHaveSameKeys(t *testing.T) {
	en, err := NewTranslator(LocalesFS, "en")
	if err != nil {
		t.Fatalf("load en: %v", err)
	}
	uz, err := NewTranslator(LocalesFS, "uz")
	if err != nil {
		t.Fatalf("load uz: %v", err)
	}
	if uz.Lang() != "uz" {
		t.Fatalf("uz locale not loaded, got %s", uz.Lang())
	}
	for key := range en.translations {
		if _, ok := uz.translations[key]; !ok {
			t.Errorf("uz locale is missing key %q", key)
		}
	}
	if !strings.Contains(en.T("caption_product", "A", "B", "C", "D", "E"), "<b>A</b>") {
		t.Error("product caption should bold the name")
	}
}
