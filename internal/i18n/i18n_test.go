package i18n

import "testing"

func TestTFallsBackToEnglishAndKey(t *testing.T) {
	SetLanguage(RU)
	defer SetLanguage(EN)

	if got := T("status_listening"); got != "Слушаю..." {
		t.Errorf("Expected russian translation, got %q", got)
	}
	if got := T("no_such_key"); got != "no_such_key" {
		t.Errorf("Expected key fallback, got %q", got)
	}
}

func TestSetLanguageIgnoresUnknown(t *testing.T) {
	SetLanguage(EN)
	SetLanguage(Language("xx"))
	if GetLanguage() != EN {
		t.Errorf("Expected language to stay EN, got %s", GetLanguage())
	}
}

func TestTf(t *testing.T) {
	SetLanguage(EN)
	if got := Tf("error_network", "dial tcp: refused"); got != "Network error: dial tcp: refused" {
		t.Errorf("Unexpected formatted message %q", got)
	}
}

func TestAllLanguagesHaveSameKeys(t *testing.T) {
	for key := range translations[EN] {
		if _, ok := translations[RU][key]; !ok {
			t.Errorf("Key %q is missing in RU", key)
		}
	}
}
