package internal

import (
	"fmt"
	"strings"
)

// Language is a spoken-language hint passed to the speech model
type Language struct {
	Name string
	Code string // ISO-639-1, empty for auto-detection
}

var (
	LanguageAuto     = Language{Name: "Auto-detect language"}
	LanguageKannada  = Language{Name: "Kannada", Code: "kn"}
	LanguageHindi    = Language{Name: "Hindi", Code: "hi"}
	LanguageTamil    = Language{Name: "Tamil", Code: "ta"}
	LanguageMarathi  = Language{Name: "Marathi", Code: "mr"}
	LanguageGujarati = Language{Name: "Gujarati", Code: "gu"}
	LanguagePunjabi  = Language{Name: "Punjabi", Code: "pa"}
	LanguageBengali  = Language{Name: "Bengali", Code: "bn"}
)

// Languages lists the selectable languages in menu order
var Languages = []Language{
	LanguageAuto,
	LanguageKannada,
	LanguageHindi,
	LanguageTamil,
	LanguageMarathi,
	LanguageGujarati,
	LanguagePunjabi,
	LanguageBengali,
}

// DefaultLanguage is used when the operator makes no choice
var DefaultLanguage = LanguageHindi

// IsAuto reports whether the model should detect the language itself
func (l Language) IsAuto() bool {
	return l.Code == ""
}

func (l Language) String() string {
	return l.Name
}

// ParseLanguage accepts a display name, an ISO code or "auto"
func ParseLanguage(s string) (Language, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "auto", "auto-detect", "autodetect":
		return LanguageAuto, nil
	}

	for _, lang := range Languages {
		if strings.EqualFold(s, lang.Name) || (lang.Code != "" && strings.EqualFold(s, lang.Code)) {
			return lang, nil
		}
	}

	return Language{}, fmt.Errorf("unsupported language: %q (supported: %s)", s, strings.Join(LanguageNames(), ", "))
}

// LanguageNames returns the display names of all selectable languages
func LanguageNames() []string {
	names := make([]string, len(Languages))
	for i, lang := range Languages {
		names[i] = lang.Name
	}
	return names
}
