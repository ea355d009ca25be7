package model

import "sync"

// Settings are process-wide model settings.
type Settings struct {
	// CommentPrefix is appended to a question name to form the data key of
	// its comment.
	CommentPrefix string
}

// DefaultCommentPrefix is the initial value of Settings.CommentPrefix.
const DefaultCommentPrefix = "-Comment"

var (
	settingsMu sync.RWMutex
	settings   = Settings{CommentPrefix: DefaultCommentPrefix}

	createItemValue        func(item any, typeName string) any
	itemValueLocStrChanged func(items []any)
	newLocalizableString   func(owner *Base, name string) LocalizableString
	localizationString     func(name, locale string) string
)

// CurrentSettings returns a copy of the settings.
func CurrentSettings() Settings {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return settings
}

// ApplySettings replaces the settings.
func ApplySettings(s Settings) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	if s.CommentPrefix == "" {
		s.CommentPrefix = DefaultCommentPrefix
	}
	settings = s
}

// CommentPrefix returns Settings.CommentPrefix.
func CommentPrefix() string {
	return CurrentSettings().CommentPrefix
}

// SetItemValueFactory installs the factory that converts raw items when an
// item-value sequence is replaced wholesale.
func SetItemValueFactory(fn func(item any, typeName string) any) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	createItemValue = fn
}

func itemValueFactory() func(item any, typeName string) any {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return createItemValue
}

// SetItemValueLocStrChanged installs the hook LocStrsChanged calls for
// every item-value sequence.
func SetItemValueLocStrChanged(fn func(items []any)) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	itemValueLocStrChanged = fn
}

func itemValueLocStrChangedHook() func(items []any) {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return itemValueLocStrChanged
}

// SetLocalizableStringFactory installs the constructor used by
// CreateLocalizableString.
func SetLocalizableStringFactory(fn func(owner *Base, name string) LocalizableString) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	newLocalizableString = fn
}

func localizableStringFactory() func(owner *Base, name string) LocalizableString {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return newLocalizableString
}

// SetLocalizationStringProvider installs the lookup of built-in
// localization strings by name and locale.
func SetLocalizationStringProvider(fn func(name, locale string) string) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	localizationString = fn
}

func localizationStringProvider() func(name, locale string) string {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return localizationString
}
