// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// Locale selects the placeholder catalog.
type Locale string

const (
	LocaleKorean  Locale = "ko"
	LocaleEnglish Locale = "en"

	// DefaultLocale is used for unknown locales.
	DefaultLocale = LocaleKorean
)

//go:embed locales.yaml
var catalogYAML []byte

var (
	catalogOnce sync.Once
	catalog     map[Locale]map[string]string
	catalogErr  error
)

func loadCatalog() (map[Locale]map[string]string, error) {
	catalogOnce.Do(func() {
		catalogErr = yaml.Unmarshal(catalogYAML, &catalog)
		if catalogErr != nil {
			catalogErr = fmt.Errorf("parse placeholder catalog: %w", catalogErr)
		}
	})
	return catalog, catalogErr
}

// Text returns the localized string for key, falling back to the default
// locale and then to the key itself.
func (l Locale) Text(key string) string {
	c, err := loadCatalog()
	if err != nil {
		return key
	}
	if s, ok := c[l][key]; ok {
		return s
	}
	if s, ok := c[DefaultLocale][key]; ok {
		return s
	}
	return key
}

// ParseLocale maps a language tag ("en-US", "ko") to a supported locale.
func ParseLocale(tag string) Locale {
	if len(tag) >= 2 {
		switch Locale(tag[:2]) {
		case LocaleEnglish:
			return LocaleEnglish
		case LocaleKorean:
			return LocaleKorean
		}
	}
	return DefaultLocale
}
