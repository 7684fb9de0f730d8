// Package i18n serves the UI label catalogs. Onboarding result messages are
// produced by the services in English and are not translated here.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
)

const (
	LangEN = "en"
	LangRU = "ru"
)

//go:embed locales/*.json
var embeddedLocales embed.FS

type Manager struct {
	defaultLanguage string
	locales         map[string]map[string]string
	supported       []string
}

// NewManager loads locales from dir, or from the catalogs compiled into the
// binary when dir is empty.
func NewManager(defaultLanguage string, dir string) (*Manager, error) {
	if strings.TrimSpace(dir) == "" {
		locales, err := fs.Sub(embeddedLocales, "locales")
		if err != nil {
			return nil, fmt.Errorf("open embedded locales: %w", err)
		}
		return NewManagerFS(defaultLanguage, locales)
	}
	return NewManagerFS(defaultLanguage, os.DirFS(dir))
}

// NewManagerFS loads every <lang>.json at the root of locales. The English
// catalog is required because it backs every other language.
func NewManagerFS(defaultLanguage string, locales fs.FS) (*Manager, error) {
	manager := &Manager{locales: map[string]map[string]string{}}

	entries, err := fs.ReadDir(locales, ".")
	if err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".json" {
			continue
		}
		language := strings.TrimSuffix(strings.ToLower(entry.Name()), ".json")
		messages, err := readCatalog(locales, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("locale %s: %w", language, err)
		}
		manager.locales[language] = messages
		manager.supported = append(manager.supported, language)
	}

	if _, ok := manager.locales[LangEN]; !ok {
		return nil, fmt.Errorf("required locale %q missing", LangEN)
	}
	sort.Strings(manager.supported)
	manager.defaultLanguage = LangEN
	manager.defaultLanguage = manager.NormalizeLanguage(defaultLanguage)
	return manager, nil
}

func readCatalog(locales fs.FS, name string) (map[string]string, error) {
	content, err := fs.ReadFile(locales, name)
	if err != nil {
		return nil, err
	}
	messages := map[string]string{}
	if err := json.Unmarshal(content, &messages); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}
	return messages, nil
}

func (manager *Manager) DefaultLanguage() string {
	return manager.defaultLanguage
}

func (manager *Manager) SupportedLanguages() []string {
	return append([]string(nil), manager.supported...)
}

func (manager *Manager) NormalizeLanguage(raw string) string {
	normalized := normalizeLanguageTag(raw)
	if manager.isSupported(normalized) {
		return normalized
	}
	return manager.defaultLanguage
}

// DetectFromAcceptLanguage picks the first supported tag in header order;
// quality values are ignored.
func (manager *Manager) DetectFromAcceptLanguage(raw string) string {
	for _, part := range strings.Split(raw, ",") {
		token := strings.TrimSpace(strings.Split(part, ";")[0])
		if normalized := normalizeLanguageTag(token); manager.isSupported(normalized) {
			return normalized
		}
	}
	return manager.defaultLanguage
}

// Messages returns the catalog for language layered over English, so a
// missing translation renders in English rather than as a raw key.
func (manager *Manager) Messages(language string) map[string]string {
	base := manager.locales[LangEN]
	target := manager.locales[manager.NormalizeLanguage(language)]

	result := make(map[string]string, len(base))
	for key, value := range base {
		result[key] = value
	}
	for key, value := range target {
		if strings.TrimSpace(value) != "" {
			result[key] = value
		}
	}
	return result
}

func (manager *Manager) Translate(language string, key string) string {
	if value, ok := manager.Messages(language)[key]; ok {
		return value
	}
	return key
}

func (manager *Manager) isSupported(language string) bool {
	if language == "" {
		return false
	}
	_, ok := manager.locales[language]
	return ok
}

func normalizeLanguageTag(raw string) string {
	language := strings.ToLower(strings.TrimSpace(raw))
	language = strings.ReplaceAll(language, "_", "-")
	if separator := strings.Index(language, "-"); separator >= 0 {
		language = language[:separator]
	}
	return language
}
