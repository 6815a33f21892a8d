package i18n

import (
	"fmt"
	"strings"
)

type Language int

const (
	English Language = iota
	Hungarian
)

// DefaultLanguage owns the table every other language falls back to.
const DefaultLanguage = English

// All lists the supported languages in menu order.
func All() []Language {
	return []Language{English, Hungarian}
}

func (l Language) String() string {
	switch l {
	case English:
		return "English"
	case Hungarian:
		return "Hungarian"
	default:
		panic(fmt.Sprintf("i18n: invalid language %d", int(l)))
	}
}

// Filename is the catalog file for l inside the languages directory.
func (l Language) Filename() string {
	return strings.ToLower(l.String()) + ".toml"
}

func (l Language) DisplayKey() string {
	return "language_" + strings.ToLower(l.String())
}

func (l Language) ConfirmKey() string {
	return "language_set_" + strings.ToLower(l.String())
}

// ParseLanguage accepts a language name in any case.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "english", "en":
		return English, nil
	case "hungarian", "hu":
		return Hungarian, nil
	default:
		return English, fmt.Errorf("unknown language: %s", s)
	}
}

func (l Language) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(l.String())), nil
}

func (l *Language) UnmarshalText(text []byte) error {
	parsed, err := ParseLanguage(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
