// ============================================================================
// propkit - Properties Toolkit
// ============================================================================
//
// Package:     i18n
// Description: Message catalog over a directory of per-locale property files
// Author:      Mike Stoffels
// Created:     2025-12-12
// License:     MIT
// ============================================================================

// Package i18n serves translations from a directory holding one
// .properties file per locale (en.properties, de_DE.properties, ...).
// Files are loaded through a registry; the selected locale is kept as the
// registry's current document.
package i18n

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"text/template"

	mdwerror "github.com/msto63/propkit/foundation/core/error"
	"github.com/msto63/propkit/pkg/logging"
	"github.com/msto63/propkit/pkg/properties"
	"github.com/msto63/propkit/pkg/registry"
)

// PluralSeparator splits the forms of a plural message
const PluralSeparator = "|"

// Options defines configuration options for the catalog
type Options struct {
	DefaultLocale   string // Default locale (e.g., "en")
	LocalesDir      string // Directory containing the locale files
	NoFallback      bool   // Disable fallback to the default locale
	Logger          *logging.Logger
	DocumentOptions []properties.Option
}

// Catalog resolves message keys for the current locale
type Catalog struct {
	mu            sync.RWMutex
	registry      *registry.Registry
	locales       map[string]string // locale -> registry name
	defaultLocale string
	currentLocale string
	fallback      bool
	templates     map[string]*template.Template
	logger        *logging.Logger
}

// New loads every locale file in options.LocalesDir
func New(options Options) (*Catalog, error) {
	defaultLocale := NormalizeLocale(options.DefaultLocale)
	if defaultLocale == "" {
		return nil, mdwerror.New("default locale cannot be empty").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("i18n.New").
			WithDetail("locale", options.DefaultLocale)
	}
	if options.LocalesDir == "" {
		options.LocalesDir = "./locales"
	}

	logger := options.Logger
	if logger == nil {
		logger = logging.New("i18n")
	}

	c := &Catalog{
		registry: registry.New(
			registry.WithLogger(logger),
			registry.WithDocumentOptions(append([]properties.Option{properties.WithLogger(logger)}, options.DocumentOptions...)...),
		),
		defaultLocale: defaultLocale,
		currentLocale: defaultLocale,
		fallback:      !options.NoFallback,
		templates:     make(map[string]*template.Template),
		logger:        logger,
	}

	if err := c.registry.SetDirectory(options.LocalesDir); err != nil {
		if c.registry.Len() == 0 {
			return nil, mdwerror.Wrap(err, "failed to load locales").
				WithOperation("i18n.New").
				WithDetail("directory", options.LocalesDir)
		}
		// Other locales stay usable
		logger.Warn("some locale files failed to load", "error", err.Error())
	}
	c.index()

	if _, ok := c.locales[defaultLocale]; !ok {
		return nil, mdwerror.New("default locale not available").
			WithCode(mdwerror.CodeNotFound).
			WithOperation("i18n.New").
			WithDetail("locale", defaultLocale)
	}
	if err := c.registry.Select(registry.ByName(c.locales[defaultLocale])); err != nil {
		return nil, err
	}
	return c, nil
}

// index maps locales to registry names. Files whose name is not a locale
// are ignored.
func (c *Catalog) index() {
	c.locales = make(map[string]string)
	docs := c.registry.Documents()
	for i, name := range c.registry.Names() {
		locale := ParseLocaleFromFilename(filepath.Base(docs[i].Path()))
		if locale == "" {
			c.logger.Debug("ignoring file without locale name", "path", docs[i].Path())
			continue
		}
		c.locales[locale] = name
	}
}

func (c *Catalog) document(locale string) *properties.Document {
	name, ok := c.locales[locale]
	if !ok {
		return nil
	}
	doc, err := c.registry.Get(registry.ByName(name))
	if err != nil {
		return nil
	}
	return doc
}

// lookup returns the raw message for key in the current locale, falling
// back to the default locale
func (c *Catalog) lookup(key string) (string, string, bool) {
	if doc := c.document(c.currentLocale); doc != nil {
		if v, ok := doc.Lookup(key); ok {
			return v, c.currentLocale, true
		}
	}
	if c.fallback && c.currentLocale != c.defaultLocale {
		if doc := c.document(c.defaultLocale); doc != nil {
			if v, ok := doc.Lookup(key); ok {
				return v, c.defaultLocale, true
			}
		}
	}
	return "", "", false
}

// T translates a key with optional template data. Unknown keys yield "".
func (c *Catalog) T(key string, data ...map[string]interface{}) string {
	translation, _ := c.TryT(key, data...)
	return translation
}

// TryT translates a key and returns an error if translation fails
func (c *Catalog) TryT(key string, data ...map[string]interface{}) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	translation, locale, ok := c.lookup(key)
	if !ok {
		return "", mdwerror.New("translation not found").
			WithCode(mdwerror.CodeKeyNotFound).
			WithOperation("i18n.TryT").
			WithDetail("key", key).
			WithDetail("locale", c.currentLocale)
	}

	if len(data) > 0 && data[0] != nil {
		return c.render(locale+"/"+key, translation, data[0])
	}
	return translation, nil
}

// TWithFallback translates a key, or renders fallbackMsg when the key is
// missing
func (c *Catalog) TWithFallback(key, fallbackMsg string, data ...map[string]interface{}) string {
	if translation, err := c.TryT(key, data...); err == nil {
		return translation
	}
	if len(data) > 0 && data[0] != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		if rendered, err := c.render("fallback/"+key, fallbackMsg, data[0]); err == nil {
			return rendered
		}
	}
	return fallbackMsg
}

// Plural picks the form for count from a message written as
// "singular|plural" and renders it with data
func (c *Catalog) Plural(key string, count int, data map[string]interface{}) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, locale, ok := c.lookup(key)
	if !ok {
		return fmt.Sprintf("[%s]", key)
	}

	forms := strings.Split(raw, PluralSeparator)
	idx := pluralIndex(count, locale)
	if idx >= len(forms) {
		idx = len(forms) - 1
	}
	form := strings.TrimSpace(forms[idx])

	if data == nil {
		data = map[string]interface{}{}
	}
	if _, ok := data["count"]; !ok {
		data["count"] = count
	}
	rendered, err := c.render(fmt.Sprintf("%s/%s#%d", locale, key, idx), form, data)
	if err != nil {
		return form
	}
	return rendered
}

// pluralIndex returns the form index for count in locale
func pluralIndex(count int, locale string) int {
	switch {
	case strings.HasPrefix(locale, "fr"):
		if count <= 1 {
			return 0
		}
		return 1
	default:
		if count == 1 {
			return 0
		}
		return 1
	}
}

// render executes message as a text/template. Compiled templates are
// cached per locale and key until the next Reload.
func (c *Catalog) render(cacheKey, message string, data map[string]interface{}) (string, error) {
	tmpl, ok := c.templates[cacheKey]
	if !ok {
		var err error
		tmpl, err = template.New(cacheKey).Option("missingkey=zero").Parse(message)
		if err != nil {
			return message, mdwerror.Wrap(err, "template compilation failed").
				WithCode(mdwerror.CodeInvalidFormat).
				WithOperation("i18n.render").
				WithDetail("key", cacheKey)
		}
		c.templates[cacheKey] = tmpl
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return message, mdwerror.Wrap(err, "template execution failed").
			WithCode(mdwerror.CodeInvalidFormat).
			WithOperation("i18n.render").
			WithDetail("key", cacheKey)
	}
	return sb.String(), nil
}

// SetLocale changes the current locale
func (c *Catalog) SetLocale(locale string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	normalized := NormalizeLocale(locale)
	name, ok := c.locales[normalized]
	if !ok {
		return mdwerror.New("locale not available").
			WithCode(mdwerror.CodeNotFound).
			WithOperation("i18n.SetLocale").
			WithDetail("locale", locale)
	}
	if err := c.registry.Select(registry.ByName(name)); err != nil {
		return err
	}
	c.currentLocale = normalized
	return nil
}

// Locale returns the current locale
func (c *Catalog) Locale() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentLocale
}

// DefaultLocale returns the default locale
func (c *Catalog) DefaultLocale() string {
	return c.defaultLocale
}

// Locales returns the available locales, sorted
func (c *Catalog) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.localesLocked()
}

func (c *Catalog) localesLocked() []string {
	locales := make([]string, 0, len(c.locales))
	for locale := range c.locales {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	return locales
}

// HasLocale reports whether a file for locale was loaded
func (c *Catalog) HasLocale(locale string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.locales[NormalizeLocale(locale)]
	return ok
}

// HasTranslation reports whether key resolves in the current locale or
// its fallback
func (c *Catalog) HasTranslation(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, _, ok := c.lookup(key)
	return ok
}

// Keys returns the keys of the current locale in file order
func (c *Catalog) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if doc := c.document(c.currentLocale); doc != nil {
		return doc.Keys()
	}
	return nil
}

// Missing returns keys of the default locale that the current locale
// lacks
func (c *Catalog) Missing() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	base := c.document(c.defaultLocale)
	current := c.document(c.currentLocale)
	if base == nil || current == nil || base == current {
		return nil
	}
	var missing []string
	for _, key := range base.Keys() {
		if !current.Contains(key) {
			missing = append(missing, key)
		}
	}
	return missing
}

// Reload rescans the locale directory, picking up new and changed files.
// The current locale falls back to the default when it is no longer
// indexed.
func (c *Catalog) Reload() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.registry.UpdateDirectories()
	c.index()
	c.templates = make(map[string]*template.Template)

	if _, ok := c.locales[c.currentLocale]; !ok {
		c.logger.Warn("current locale removed, using default", "locale", c.currentLocale)
		c.currentLocale = c.defaultLocale
	}
	if name, ok := c.locales[c.currentLocale]; ok {
		if selErr := c.registry.Select(registry.ByName(name)); selErr != nil && err == nil {
			err = selErr
		}
	}
	return err
}

// String describes the catalog
func (c *Catalog) String() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return fmt.Sprintf("<i18n.Catalog locale: %s default: %s locales: %v>",
		c.currentLocale, c.defaultLocale, c.localesLocked())
}
