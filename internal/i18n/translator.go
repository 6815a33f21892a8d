package i18n

import (
	"sync"
)

// Translator carries the active language and coloring toggle. It is built
// once at startup and handed to everything that prints user-facing text.
type Translator struct {
	mu       sync.Mutex
	catalog  *Catalog
	language Language
	coloring bool
}

// NewTranslator starts in language with the given coloring state.
func NewTranslator(catalog *Catalog, language Language, coloring bool) *Translator {
	return &Translator{
		catalog:  catalog,
		language: language,
		coloring: coloring,
	}
}

// Get returns the formatted text for key with no arguments.
func (t *Translator) Get(key string) string {
	return t.GetWithArgs(key)
}

// GetWithArgs resolves key, substitutes args and expands color tags.
func (t *Translator) GetWithArgs(key string, args ...string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Format(t.catalog.Resolve(t.language, key), t.coloring, args...)
}

// Text returns the resolved text for key with tags left in place. Use it for
// values that are passed into another template, which expands them once.
func (t *Translator) Text(key string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.catalog.Resolve(t.language, key)
}

// SwitchLanguage changes the language for every later lookup.
func (t *Translator) SwitchLanguage(language Language) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.language = language
}

// SetColoring toggles ANSI output for every later lookup.
func (t *Translator) SetColoring(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.coloring = enabled
}

func (t *Translator) Language() Language {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.language
}

func (t *Translator) Coloring() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.coloring
}

func (t *Translator) Catalog() *Catalog {
	return t.catalog
}
