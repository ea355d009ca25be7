package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/vango-dev/formcore/internal/errors"
	"github.com/vango-dev/formcore/pkg/model"
	"github.com/vango-dev/formcore/pkg/schema"
)

// change is one entry of the session change log.
type change struct {
	Object   string
	Property string
	Old      any
	New      any
	Diff     *model.ArrayChanges
}

func (c change) String() string {
	if c.Diff != nil {
		return fmt.Sprintf("%-24s %s: @%d -%d +%d", c.Object, c.Property,
			c.Diff.Index, c.Diff.DeleteCount, len(c.Diff.ItemsAdded))
	}
	return fmt.Sprintf("%-24s %s: %s → %s", c.Object, c.Property, formatValue(c.Old), formatValue(c.New))
}

// session is the survey the CLI attaches a loaded form to. It holds the
// answer values, runs conditions when they change and records every
// property change reported by the form objects.
type session struct {
	root       *schema.Object
	values     map[string]any
	locale     string
	designMode bool
	changes    []change
}

var (
	_ model.Survey                = (*session)(nil)
	_ model.ConditionDataProvider = (*session)(nil)
	_ schema.ValueSetter          = (*session)(nil)
)

func newSession(root *schema.Object, locale string, designMode bool) *session {
	s := &session{
		root:       root,
		values:     make(map[string]any),
		locale:     locale,
		designMode: designMode,
	}
	if loc, ok := root.GetPropertyValue("locale").(string); ok && loc != "" && locale == "" {
		s.locale = loc
	}
	root.SetSurvey(s)
	s.runConditions()
	s.changes = nil
	return s
}

func (s *session) OnPropertyValueChangedCallback(name string, oldValue, newValue any, sender *model.Base, changes *model.ArrayChanges) {
	s.changes = append(s.changes, change{
		Object:   describe(sender),
		Property: name,
		Old:      oldValue,
		New:      newValue,
		Diff:     changes,
	})
}

func (s *session) IsDesignMode() bool { return s.designMode }

func (s *session) GetLocale() string { return s.locale }

func (s *session) GetDataFilteredValues() map[string]any {
	return maps.Clone(s.values)
}

func (s *session) GetDataFilteredProperties() map[string]any {
	return map[string]any{"locale": s.locale}
}

// SetValue stores an answer value and reruns every condition.
func (s *session) SetValue(name string, value any) {
	if old, ok := s.values[name]; ok && model.IsTwoValueEquals(old, value) {
		return
	}
	if value == nil {
		delete(s.values, name)
	} else {
		s.values[name] = value
	}
	s.runConditions()
}

// SetLocale switches the locale and re-reports every localized text.
func (s *session) SetLocale(locale string) {
	s.locale = locale
	s.root.Walk(func(o *schema.Object) {
		o.LocStrsChanged()
	})
}

func (s *session) runConditions() {
	if s.designMode {
		return
	}
	s.root.Walk(func(o *schema.Object) {
		o.RunConditionCore(s.GetDataFilteredValues(), o.GetDataFilteredProperties())
	})
}

// find returns the object named name; "" and "survey" select the root.
func (s *session) find(name string) (*schema.Object, error) {
	if name == "" || name == "survey" {
		return s.root, nil
	}
	if o := s.root.FindByName(name); o != nil {
		return o, nil
	}
	return nil, errors.New("F062").WithSuggestion("No object is named " + name)
}

// apply performs a property write described by an assignment.
func (s *session) apply(a assignment) error {
	obj, err := s.find(a.object)
	if err != nil {
		return err
	}
	if text, ok := a.value.(string); ok && obj.GetLocalizableString(a.property) != nil {
		obj.SetLocalizableStringText(a.property, text)
		return nil
	}
	obj.SetPropertyValue(a.property, a.value)
	return nil
}

// assignment is a parsed "object.property=value" argument.
type assignment struct {
	object   string
	property string
	value    any
}

// parseAssignment parses "object.property=value" or "property=value". The
// value is decoded as JSON when possible and kept as a bare string
// otherwise.
func parseAssignment(arg string) (assignment, error) {
	target, raw, ok := strings.Cut(arg, "=")
	target = strings.TrimSpace(target)
	if !ok || target == "" {
		return assignment{}, errors.New("F061").WithSuggestion("Write " + arg + " as object.property=value")
	}
	var a assignment
	if i := strings.LastIndexByte(target, '.'); i >= 0 {
		a.object, a.property = target[:i], target[i+1:]
	} else {
		a.property = target
	}
	if a.property == "" {
		return assignment{}, errors.New("F061").WithSuggestion("Missing property in " + arg)
	}
	a.value = parseValue(raw)
	return a, nil
}

func parseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}

// loadForm reads a JSON or YAML form definition.
func loadForm(r *schema.Registry, path string) (*schema.Object, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("F060").Wrap(err).WithSuggestion("Check the path " + path)
	}
	var obj model.Reactive
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		obj, err = r.FromYAML(data, "survey")
	default:
		obj, err = r.Unmarshal(data, "survey")
	}
	if err != nil {
		var fe *errors.FormError
		if stderrors.As(err, &fe) && fe.Code == "F020" {
			return nil, fe.WithLocationFromError(path, fe.Wrapped)
		}
		return nil, err
	}
	root, ok := obj.(*schema.Object)
	if !ok {
		return nil, errors.New("F020").WithDetail(fmt.Sprintf("The root of %s is a %s, not a form object.", path, obj.AsBase().GetType()))
	}
	return root, nil
}

// describe names an object for output: its type and, when set, its name.
func describe(b *model.Base) string {
	if b == nil {
		return "?"
	}
	if name, ok := b.GetPropertyValue("name").(string); ok && name != "" {
		return fmt.Sprintf("%s %q", b.GetType(), name)
	}
	return b.GetType()
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "∅"
	case string:
		return fmt.Sprintf("%q", t)
	case *model.Sequence:
		return fmt.Sprintf("[%d items]", t.Len())
	case model.Reactive:
		return describe(t.AsBase())
	}
	return fmt.Sprint(v)
}
