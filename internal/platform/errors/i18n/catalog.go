// Package i18n renders user-facing error messages from the "errors"
// namespace of the embedded locale catalog.
package i18n

import (
	"strings"
	"sync"
	"text/template"

	i18ncatalog "github.com/louisbranch/trackmeet/internal/platform/i18n/catalog"
)

// Namespace is the catalog namespace holding error message templates keyed
// by error code.
const Namespace = "errors"

// Messages holds the parsed error templates of one locale.
type Messages struct {
	locale    string
	raw       map[string]string
	templates map[string]*template.Template
}

var resolved sync.Map // requested locale -> *Messages

// For returns the error messages for locale from the embedded catalog.
// Unknown or empty locales resolve to the base locale.
func For(locale string) *Messages {
	requested := strings.TrimSpace(locale)
	if requested == "" {
		requested = i18ncatalog.BaseLocale
	}
	if cached, ok := resolved.Load(requested); ok {
		return cached.(*Messages)
	}
	messages := FromBundle(i18ncatalog.Default(), requested)
	actual, _ := resolved.LoadOrStore(requested, messages)
	return actual.(*Messages)
}

// FromBundle resolves locale against bundle without caching.
func FromBundle(bundle *i18ncatalog.Bundle, locale string) *Messages {
	resolvedLocale, raw := bundle.NamespaceMessagesWithFallback(locale, Namespace)
	m := &Messages{
		locale:    resolvedLocale,
		raw:       raw,
		templates: make(map[string]*template.Template, len(raw)),
	}
	for code, text := range raw {
		tmpl, err := template.New(code).Option("missingkey=zero").Parse(text)
		if err != nil {
			continue
		}
		m.templates[code] = tmpl
	}
	return m
}

// Locale is the catalog locale that satisfied the lookup.
func (m *Messages) Locale() string {
	return m.locale
}

// Render fills the template for code with metadata. Codes without a message
// render as the code itself; templates that fail render as their raw text.
func (m *Messages) Render(code string, metadata map[string]string) string {
	text, ok := m.raw[code]
	if !ok {
		return code
	}
	tmpl, ok := m.templates[code]
	if !ok {
		return text
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, metadata); err != nil {
		return text
	}
	return b.String()
}
