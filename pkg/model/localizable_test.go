package model

import "testing"

type fakeLocString struct {
	values    map[string]string
	locale    string
	onChanged func(oldValue, newValue string)
}

func (s *fakeLocString) Text() string { return s.values[s.locale] }

func (s *fakeLocString) SetText(value string) {
	old := s.Text()
	s.values[s.locale] = value
	if s.onChanged != nil {
		s.onChanged(old, value)
	}
}

func (s *fakeLocString) Locales() []string {
	var res []string
	for loc := range s.values {
		res = append(res, loc)
	}
	return res
}

func (s *fakeLocString) StrChanged() {
	if s.onChanged != nil {
		s.onChanged("", s.Text())
	}
}

func (s *fakeLocString) SetOnStrChanged(fn func(oldValue, newValue string)) { s.onChanged = fn }

func TestLocalizableStringRunsPipeline(t *testing.T) {
	SetLocalizableStringFactory(func(*Base, string) LocalizableString {
		return &fakeLocString{values: map[string]string{}}
	})
	t.Cleanup(func() { SetLocalizableStringFactory(nil) })

	b := New("question")
	ls := b.CreateLocalizableString("title")
	var changes []any
	b.OnPropertyChanged.AddFunc(func(_ *Base, e *PropertyChangedEvent) { changes = append(changes, e.NewValue) })

	b.SetLocalizableStringText("title", "Age")
	b.SetLocalizableStringText("title", "Age")

	if len(changes) != 1 || changes[0] != "Age" {
		t.Errorf("expected one change to Age, got %v", changes)
	}
	if b.GetLocalizableString("title") != ls {
		t.Error("expected the created string to be registered")
	}
	if got := b.GetLocalizableStringText("title", "Default"); got != "Age" {
		t.Errorf("expected Age, got %q", got)
	}
	if got := b.GetLocalizableStringText("missing", "Default"); got != "" {
		t.Errorf("expected empty text for missing string, got %q", got)
	}

	b.LocStrsChanged()
	if len(changes) != 2 {
		t.Errorf("expected LocStrsChanged to re-report, got %d changes", len(changes))
	}
}

func TestLocalizableStringTextIsADependency(t *testing.T) {
	b := New("question")
	b.AddLocalizableString("title", &fakeLocString{values: map[string]string{}})
	target := New("panel")

	if err := StartCollectDependencies(func() {}, target, "x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b.GetLocalizableStringText("title", "")
	deps := FinishCollectDependencies()

	if !deps.Has(b, "title") {
		t.Error("expected localized text read to be recorded")
	}
}

func TestAddUsedLocales(t *testing.T) {
	b := New("question")
	b.AddLocalizableString("title", &fakeLocString{values: map[string]string{"de": "Alter"}})
	b.AddLocalizableString("description", &fakeLocString{values: map[string]string{"de": "x"}})

	got := b.AddUsedLocales([]string{"en"})
	if !equalStrings(got, []string{"en", "de"}) {
		t.Errorf("expected [en de], got %v", got)
	}
}

type ownedTestItem struct {
	owner *Base
	prop  string
}

func (i *ownedTestItem) SetLocOwner(owner *Base, name string) { i.owner, i.prop = owner, name }
func (i *ownedTestItem) OwnerPropertyName() string            { return i.prop }

func TestItemValuePropertyChanged(t *testing.T) {
	b := New("dropdown")
	seq := b.CreateItemValues("choices")
	item := &ownedTestItem{}
	seq.Push(item)

	if item.owner != b || item.prop != "choices" {
		t.Fatalf("expected item to be owned by choices, got %v %q", item.owner, item.prop)
	}

	var got *ItemValuePropertyChangedEvent
	b.OnItemValuePropertyChanged.AddFunc(func(_ *Base, e *ItemValuePropertyChangedEvent) { got = e })
	b.ItemValuePropertyChanged(item, "text", "a", "b")

	if got == nil || got.PropertyName != "choices" || got.Name != "text" || got.NewValue != "b" {
		t.Errorf("unexpected event %+v", got)
	}
}

type searchableQuestion struct {
	Base
	keys []string
}

func (q *searchableQuestion) GetSearchableLocKeys() []string { return q.keys }

func TestSearchText(t *testing.T) {
	q := &searchableQuestion{}
	q.Init(q, "question")
	q.AddLocalizableString("title", &fakeLocString{values: map[string]string{"": "Your Age"}})
	q.AddLocalizableString("description", &fakeLocString{values: map[string]string{"": "age in years"}})
	q.AddLocalizableString("placeholder", &fakeLocString{values: map[string]string{"": "number"}})

	tests := []struct {
		name string
		keys []string
		text string
		want []string
	}{
		{"all strings in name order", nil, "AGE", []string{"description", "title"}},
		{"keys limit the search", []string{"title", "placeholder"}, "age", []string{"title"}},
		{"no match", nil, "color", nil},
		{"empty text", nil, "  ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q.keys = tt.keys
			var got []string
			for _, r := range q.SearchText(tt.text) {
				if r.Element != &q.Base || r.Str != q.GetLocalizableString(r.Name) {
					t.Errorf("unexpected result %+v", r)
				}
				got = append(got, r.Name)
			}
			if !equalStrings(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	q.keys = []string{"title", "missing"}
	if got := q.GetSearchableLocalizedStrings(); len(got) != 1 {
		t.Errorf("expected only existing strings, got %d", len(got))
	}
}

func TestCustomLocalizableStringFallsBackToLocalization(t *testing.T) {
	SetLocalizableStringFactory(func(*Base, string) LocalizableString {
		return &fakeLocString{values: map[string]string{}}
	})
	SetLocalizationStringProvider(func(name, locale string) string {
		if locale == "de" {
			return "de:" + name
		}
		return "en:" + name
	})
	t.Cleanup(func() {
		SetLocalizableStringFactory(nil)
		SetLocalizationStringProvider(nil)
	})

	rec := &recorder{}
	q := newTracedQuestion(rec, &testSurvey{rec: rec})
	ls := q.CreateCustomLocalizableString("completeText")
	if q.CreateCustomLocalizableString("completeText") != ls {
		t.Error("expected the existing string to be reused")
	}

	if got := q.GetLocalizableStringText("completeText", ""); got != "de:completeText" {
		t.Errorf("expected the localization string, got %q", got)
	}
	if got := q.GetLocalizableStringText("completeText", "Done"); got != "Done" {
		t.Errorf("expected the explicit default to win, got %q", got)
	}
	q.SetLocalizableStringText("completeText", "Finish")
	if got := q.GetLocalizableStringText("completeText", ""); got != "Finish" {
		t.Errorf("expected the stored text, got %q", got)
	}

	q.CreateLocalizableString("title")
	if got := q.GetLocalizableStringText("title", ""); got != "" {
		t.Errorf("expected a plain string not to fall back, got %q", got)
	}
}
