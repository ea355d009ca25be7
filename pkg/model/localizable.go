package model

import (
	"sort"
	"strings"
)

// LocalizableString is a text with per-locale values.
type LocalizableString interface {
	// Text returns the text for the current locale.
	Text() string
	SetText(value string)
	// Locales returns the locales that have a value.
	Locales() []string
	// StrChanged re-reports the current text, e.g. after a locale switch.
	StrChanged()
	SetOnStrChanged(fn func(oldValue, newValue string))
}

// CreateLocalizableString creates a localizable string with the installed
// factory and attaches it to name. It returns nil when no factory is
// installed.
func (b *Base) CreateLocalizableString(name string) LocalizableString {
	factory := localizableStringFactory()
	if factory == nil {
		Logger().Warn("no localizable string factory installed", "property", name, "type", b.GetType())
		return nil
	}
	ls := factory(b, name)
	b.AddLocalizableString(name, ls)
	return ls
}

// AddLocalizableString attaches ls to name: text changes of ls run the
// change pipeline of name.
func (b *Base) AddLocalizableString(name string, ls LocalizableString) {
	ls.SetOnStrChanged(func(oldValue, newValue string) {
		b.propertyValueChanged(name, oldValue, newValue, nil)
	})
	if b.localizableStrings == nil {
		b.localizableStrings = make(map[string]LocalizableString)
	}
	b.localizableStrings[name] = ls
}

// GetLocalizableString returns the localizable string of name, or nil.
func (b *Base) GetLocalizableString(name string) LocalizableString {
	return b.localizableStrings[name]
}

// CreateCustomLocalizableString returns the localizable string of name,
// creating it when missing. While its text is empty, it reads as the
// localization string of the same name.
func (b *Base) CreateCustomLocalizableString(name string) LocalizableString {
	if ls := b.GetLocalizableString(name); ls != nil {
		return ls
	}
	ls := b.CreateLocalizableString(name)
	if ls == nil {
		return nil
	}
	if b.customLocStrs == nil {
		b.customLocStrs = make(map[string]bool)
	}
	b.customLocStrs[name] = true
	return ls
}

// GetLocalizationString returns the localization string name for the
// object's locale, or "" when no provider is installed.
func (b *Base) GetLocalizationString(name string) string {
	provider := localizationStringProvider()
	if provider == nil {
		return ""
	}
	return provider(name, b.GetLocale())
}

// GetLocalizableStringText returns the text of name, or defaultStr when
// the text is empty. An empty custom string falls back to the
// localization string of its name. The read is recorded as a dependency.
func (b *Base) GetLocalizableStringText(name, defaultStr string) string {
	b.getPropertyValueCore(name)
	ls := b.GetLocalizableString(name)
	if ls == nil {
		return ""
	}
	if res := ls.Text(); res != "" {
		return res
	}
	if defaultStr == "" && b.customLocStrs[name] {
		return b.GetLocalizationString(name)
	}
	return defaultStr
}

// SetLocalizableStringText sets the text of name for the current locale.
func (b *Base) SetLocalizableStringText(name, value string) {
	ls := b.GetLocalizableString(name)
	if ls == nil {
		return
	}
	if ls.Text() != value {
		ls.SetText(value)
	}
}

// LocStrsChanged re-reports every localizable string and every item-value
// sequence, typically after the locale changed.
func (b *Base) LocStrsChanged() {
	if hook := itemValueLocStrChangedHook(); hook != nil {
		for _, name := range sortedKeys(b.arraysInfo) {
			if !b.arraysInfo[name].isItemValues {
				continue
			}
			if seq := b.GetSequence(name); seq != nil {
				hook(seq.Items())
			}
		}
	}
	for _, name := range sortedKeys(b.localizableStrings) {
		b.localizableStrings[name].StrChanged()
	}
}

// AddUsedLocales adds to locales every locale used by the localizable
// strings of this object and of the items of its sequences.
func (b *Base) AddUsedLocales(locales []string) []string {
	for _, name := range sortedKeys(b.localizableStrings) {
		locales = appendLocales(locales, b.localizableStrings[name].Locales())
	}
	for _, name := range sortedKeys(b.arraysInfo) {
		seq := b.GetSequence(name)
		if seq == nil {
			continue
		}
		for _, item := range seq.items {
			if u, ok := item.(LocaleUser); ok {
				locales = u.AddUsedLocales(locales)
			}
		}
	}
	return locales
}

// FindResult is a localizable string whose text matched a search.
type FindResult struct {
	Element *Base
	Name    string
	Str     LocalizableString
}

func (b *Base) searchableLocKeys() []string {
	if p, ok := b.self.(SearchableLocKeysProvider); ok {
		if keys := p.GetSearchableLocKeys(); keys != nil {
			return keys
		}
	}
	return sortedKeys(b.localizableStrings)
}

// GetSearchableLocalizedStrings returns the localizable strings SearchText
// looks at: those named by SearchableLocKeysProvider, or all of them in
// name order when it names none.
func (b *Base) GetSearchableLocalizedStrings() []LocalizableString {
	var res []LocalizableString
	for _, name := range b.searchableLocKeys() {
		if ls := b.localizableStrings[name]; ls != nil {
			res = append(res, ls)
		}
	}
	return res
}

// SearchText returns the searchable localizable strings whose current
// text contains text, ignoring case. An empty text matches nothing.
func (b *Base) SearchText(text string) []FindResult {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return nil
	}
	var res []FindResult
	for _, name := range b.searchableLocKeys() {
		ls := b.localizableStrings[name]
		if ls == nil {
			continue
		}
		if strings.Contains(strings.ToLower(ls.Text()), text) {
			res = append(res, FindResult{Element: b, Name: name, Str: ls})
		}
	}
	return res
}

func appendLocales(dest, src []string) []string {
	for _, loc := range src {
		found := false
		for _, existing := range dest {
			if existing == loc {
				found = true
				break
			}
		}
		if !found {
			dest = append(dest, loc)
		}
	}
	return dest
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
