// Package locstr implements multi-locale texts for model objects.
package locstr

import (
	"sort"
	"strings"

	"golang.org/x/text/language"

	"github.com/vango-dev/formcore/pkg/model"
)

// DefaultLocale keys the text used when no locale-specific text exists.
const DefaultLocale = "default"

// String holds one text per locale. The current locale is the explicit
// one set with SetLocale, else the owner's locale, else the default.
// It implements model.LocalizableString.
type String struct {
	owner  *model.Base
	name   string
	locale string
	values map[string]string

	onChanged func(oldValue, newValue string)
}

// New creates an empty string owned by owner, which may be nil.
func New(owner *model.Base, name string) *String {
	return &String{
		owner:  owner,
		name:   name,
		values: make(map[string]string),
	}
}

// Register installs New as the localizable string factory of the model
// package.
func Register() {
	model.SetLocalizableStringFactory(func(owner *model.Base, name string) model.LocalizableString {
		return New(owner, name)
	})
}

// Canonical returns the canonical BCP 47 form of locale. Empty and
// "default" map to DefaultLocale; unparsable locales are lowercased.
func Canonical(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" || strings.EqualFold(locale, DefaultLocale) {
		return DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return strings.ToLower(locale)
	}
	return tag.String()
}

// Name returns the owning property name.
func (s *String) Name() string {
	return s.name
}

// Locale returns the current locale.
func (s *String) Locale() string {
	if s.locale != "" {
		return s.locale
	}
	if s.owner != nil {
		return Canonical(s.owner.GetLocale())
	}
	return DefaultLocale
}

// SetLocale sets an explicit locale. An empty locale follows the owner
// again.
func (s *String) SetLocale(locale string) {
	old := s.Text()
	s.locale = ""
	if locale != "" {
		s.locale = Canonical(locale)
	}
	s.notify(old)
}

// Text returns the text of the current locale, falling back to its parent
// locales and then to the default text.
func (s *String) Text() string {
	return s.LocaleText(s.Locale())
}

// LocaleText returns the text for locale with the same fallback as Text.
func (s *String) LocaleText(locale string) string {
	locale = Canonical(locale)
	if v, ok := s.values[locale]; ok {
		return v
	}
	if tag, err := language.Parse(locale); err == nil {
		for t := tag.Parent(); t != language.Und; t = t.Parent() {
			if v, ok := s.values[t.String()]; ok {
				return v
			}
		}
	}
	return s.values[DefaultLocale]
}

// SetText sets the text of the current locale.
func (s *String) SetText(value string) {
	s.SetLocaleText(s.Locale(), value)
}

// SetLocaleText sets the text of locale. An empty value removes it. A
// locale-specific text equal to the default text is not stored.
func (s *String) SetLocaleText(locale, value string) {
	locale = Canonical(locale)
	old := s.Text()
	switch {
	case value == "":
		delete(s.values, locale)
	case locale != DefaultLocale && value == s.values[DefaultLocale]:
		delete(s.values, locale)
	default:
		s.values[locale] = value
	}
	s.notify(old)
}

func (s *String) notify(oldValue string) {
	if text := s.Text(); text != oldValue && s.onChanged != nil {
		s.onChanged(oldValue, text)
	}
}

// Locales returns the sorted locales with a text, excluding the default.
func (s *String) Locales() []string {
	var res []string
	for loc := range s.values {
		if loc != DefaultLocale {
			res = append(res, loc)
		}
	}
	sort.Strings(res)
	return res
}

// IsEmpty reports whether no locale has a text.
func (s *String) IsEmpty() bool {
	return len(s.values) == 0
}

// StrChanged re-reports the current text.
func (s *String) StrChanged() {
	if s.onChanged != nil {
		s.onChanged("", s.Text())
	}
}

func (s *String) SetOnStrChanged(fn func(oldValue, newValue string)) {
	s.onChanged = fn
}

// JSONValue returns the plain default text when no other locale has a
// text, else a map keyed by locale.
func (s *String) JSONValue() any {
	if len(s.values) == 0 {
		return nil
	}
	if len(s.values) == 1 {
		if v, ok := s.values[DefaultLocale]; ok {
			return v
		}
	}
	res := make(map[string]any, len(s.values))
	for loc, v := range s.values {
		res[loc] = v
	}
	return res
}

// SetJSONValue replaces all texts with value, either a plain default text
// or a map keyed by locale.
func (s *String) SetJSONValue(value any) {
	old := s.Text()
	s.values = make(map[string]string)
	switch v := value.(type) {
	case string:
		if v != "" {
			s.values[DefaultLocale] = v
		}
	case map[string]any:
		for loc, text := range v {
			if str, ok := text.(string); ok && str != "" {
				s.values[Canonical(loc)] = str
			}
		}
	case map[string]string:
		for loc, text := range v {
			if text != "" {
				s.values[Canonical(loc)] = text
			}
		}
	}
	s.notify(old)
}
