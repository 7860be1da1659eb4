// ============================================================================
// propkit - Properties Toolkit
// ============================================================================
//
// Package:     i18n
// Description: Locale normalization and Accept-Language matching
// Author:      Mike Stoffels
// Created:     2025-12-12
// License:     MIT
// ============================================================================

package i18n

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// LocalePreference represents a locale preference with quality score
type LocalePreference struct {
	Locale  string  // Locale code (e.g., "en", "en-US", "de-DE")
	Quality float64 // Quality score (0.0 - 1.0)
}

// DetectLocale returns the best available locale for an Accept-Language
// header, or the default locale
func (c *Catalog) DetectLocale(acceptLanguage string) string {
	preferences := ParseAcceptLanguage(acceptLanguage)
	if len(preferences) == 0 {
		return c.defaultLocale
	}
	if match := bestMatch(preferences, c.Locales()); match != "" {
		return match
	}
	return c.defaultLocale
}

// ParseAcceptLanguage parses an Accept-Language header into preferences,
// highest quality first
func ParseAcceptLanguage(acceptLang string) []LocalePreference {
	var preferences []LocalePreference

	for _, part := range strings.Split(acceptLang, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		// Format: "en-US;q=0.9" or "de"
		quality := 1.0
		tag, params, _ := strings.Cut(part, ";")
		for _, param := range strings.Split(params, ";") {
			param = strings.TrimSpace(param)
			if q, ok := strings.CutPrefix(param, "q="); ok {
				if v, err := strconv.ParseFloat(q, 64); err == nil {
					quality = v
				}
				break
			}
		}

		locale := NormalizeLocale(strings.TrimSpace(tag))
		if locale == "" || quality <= 0 {
			continue
		}
		preferences = append(preferences, LocalePreference{Locale: locale, Quality: quality})
	}

	sort.SliceStable(preferences, func(i, j int) bool {
		return preferences[i].Quality > preferences[j].Quality
	})
	return preferences
}

// bestMatch tries, per preference: exact match, base language, then a
// regional variant of the base language
func bestMatch(preferences []LocalePreference, available []string) string {
	set := make(map[string]bool, len(available))
	for _, locale := range available {
		set[locale] = true
	}

	for _, pref := range preferences {
		if set[pref.Locale] {
			return pref.Locale
		}
		base, _ := SplitLocale(pref.Locale)
		if set[base] {
			return base
		}
		for _, locale := range available {
			if strings.HasPrefix(locale, base+"-") {
				return locale
			}
		}
	}
	return ""
}

// NormalizeLocale converts "de_de", "DE-de" and similar to "de-DE".
// Invalid input yields "".
func NormalizeLocale(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	locale = strings.ReplaceAll(locale, "_", "-")
	if locale == "" {
		return ""
	}

	parts := strings.Split(locale, "-")
	language := parts[0]
	if len(language) != 2 && len(language) != 3 {
		return ""
	}
	for _, r := range language {
		if r < 'a' || r > 'z' {
			return ""
		}
	}

	if len(parts) > 1 && len(parts[1]) == 2 {
		return language + "-" + strings.ToUpper(parts[1])
	}
	return language
}

// SplitLocale splits a locale into language and country parts
func SplitLocale(locale string) (language, country string) {
	normalized := NormalizeLocale(locale)
	if normalized == "" {
		return "", ""
	}
	language, country, _ = strings.Cut(normalized, "-")
	return language, country
}

// ParseLocaleFromFilename extracts the locale from a file name such as
// "de_DE.properties"
func ParseLocaleFromFilename(filename string) string {
	return NormalizeLocale(strings.TrimSuffix(filename, filepath.Ext(filename)))
}
