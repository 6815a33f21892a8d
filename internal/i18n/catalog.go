package i18n

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"
)

type Table map[string]string

// Catalog holds one table per loaded language. Tables are not mutated after
// load except through Extend.
type Catalog struct {
	tables map[Language]Table
}

// LoadCatalog reads one TOML table per language from dir. Every language is
// loaded when langs is empty, and any missing or malformed file is an error.
func LoadCatalog(dir string, langs ...Language) (*Catalog, error) {
	if len(langs) == 0 {
		langs = All()
	}
	c := &Catalog{tables: make(map[Language]Table, len(langs))}
	for _, lang := range langs {
		table, err := loadTable(dir, lang.Filename())
		if err != nil {
			return nil, err
		}
		log.Debug().Str("op", "i18n/LoadCatalog").Msgf("loaded %d keys for %s", len(table), lang)
		c.tables[lang] = table
	}
	return c, nil
}

// LoadError names the language file that could not be loaded.
type LoadError struct {
	File string
	Err  error
}

func (e *LoadError) Error() string {
	if errors.Is(e.Err, fs.ErrNotExist) {
		return fmt.Sprintf("language file '%s' not found in the languages directory", e.File)
	}
	return fmt.Sprintf("error loading %s: %v", e.File, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func loadTable(dir, filename string) (Table, error) {
	data, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		return nil, &LoadError{File: filename, Err: err}
	}
	table := Table{}
	if _, err := toml.Decode(string(data), &table); err != nil {
		return nil, &LoadError{File: filename, Err: err}
	}
	return table, nil
}

// NewCatalog builds a catalog from in-memory tables.
func NewCatalog(tables map[Language]Table) *Catalog {
	c := &Catalog{tables: make(map[Language]Table, len(tables))}
	for lang, table := range tables {
		c.Extend(lang, table)
	}
	return c
}

// Extend merges table into the entries for lang, overwriting existing keys.
func (c *Catalog) Extend(lang Language, table Table) {
	existing, ok := c.tables[lang]
	if !ok {
		existing = Table{}
		c.tables[lang] = existing
	}
	for k, v := range table {
		existing[k] = v
	}
}

// Resolve looks the key up in lang, then in the default language, and finally
// returns the key itself.
func (c *Catalog) Resolve(lang Language, key string) string {
	if text, ok := c.tables[lang][key]; ok {
		return text
	}
	if lang != DefaultLanguage {
		if text, ok := c.tables[DefaultLanguage][key]; ok {
			return text
		}
	}
	return key
}

// Missing lists, sorted, the default-language keys that lang does not define.
func (c *Catalog) Missing(lang Language) []string {
	var missing []string
	target := c.tables[lang]
	for key := range c.tables[DefaultLanguage] {
		if _, ok := target[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}
