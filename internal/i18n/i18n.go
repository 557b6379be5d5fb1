// Package i18n holds the UI message catalogs and Accept-Language
// negotiation.
package i18n

import (
	"fmt"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// DefaultLocale is used when nothing better matches.
const DefaultLocale = "es"

// Bundle is the loaded set of catalogs.
type Bundle struct {
	cat       *catalog.Builder
	supported []language.Tag
	matcher   language.Matcher
	keys      []string
}

// New loads every catalog. defaultLocale ("es" or "en") becomes the
// negotiation fallback.
func New(defaultLocale string) (*Bundle, error) {
	if defaultLocale == "" {
		defaultLocale = DefaultLocale
	}
	def, err := language.Parse(defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("i18n: parse default locale: %w", err)
	}
	if _, ok := messages[def]; !ok {
		return nil, fmt.Errorf("i18n: unsupported default locale %q", defaultLocale)
	}

	b := &Bundle{cat: catalog.NewBuilder(catalog.Fallback(def))}

	// The matcher falls back to the first tag, so the default goes first.
	b.supported = append(b.supported, def)
	for tag := range messages {
		if tag != def {
			b.supported = append(b.supported, tag)
		}
	}
	sort.Slice(b.supported[1:], func(i, j int) bool {
		return b.supported[1+i].String() < b.supported[1+j].String()
	})
	b.matcher = language.NewMatcher(b.supported)

	for tag, msgs := range messages {
		for key, text := range msgs {
			if err := b.cat.SetString(tag, key, text); err != nil {
				return nil, fmt.Errorf("i18n: %s %s: %w", tag, key, err)
			}
		}
	}
	for key := range messages[def] {
		b.keys = append(b.keys, key)
	}
	sort.Strings(b.keys)
	return b, nil
}

// Locales returns the supported locales, default first.
func (b *Bundle) Locales() []language.Tag {
	return append([]language.Tag(nil), b.supported...)
}

// Default returns the fallback locale.
func (b *Bundle) Default() language.Tag { return b.supported[0] }

// Match picks the best supported locale for an Accept-Language header.
func (b *Bundle) Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return b.Default()
	}
	_, idx, conf := b.matcher.Match(tags...)
	if conf == language.No {
		return b.Default()
	}
	// The matched tag may carry -u extensions; hand out the plain one.
	return b.supported[idx]
}

// Printer returns a printer bound to tag.
func (b *Bundle) Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(b.cat))
}

// T translates key for tag.
func (b *Bundle) T(tag language.Tag, key string, args ...any) string {
	return b.Printer(tag).Sprintf(key, args...)
}

// Keys lists every message key of the default catalog.
func (b *Bundle) Keys() []string {
	return append([]string(nil), b.keys...)
}
