package itemvalue

import (
	"reflect"
	"testing"

	"github.com/vango-dev/formcore/pkg/model"
	"github.com/vango-dev/formcore/pkg/schema"
)

func setup(t *testing.T) *schema.Registry {
	t.Helper()
	r := schema.NewRegistry()
	schema.DeclareFormClasses(r)
	Register(r)
	t.Cleanup(func() {
		model.SetItemValueFactory(nil)
		model.SetItemValueLocStrChanged(nil)
	})
	return r
}

func TestCreate(t *testing.T) {
	setup(t)
	existing := New("x", "")

	tests := []struct {
		name     string
		item     any
		wantVal  any
		wantText string
	}{
		{"raw", "red", "red", "red"},
		{"number", 3, 3, "3"},
		{"map", map[string]any{"value": "g", "text": "Green"}, "g", "Green"},
		{"localized map", map[string]any{"value": "b", "text": map[string]any{"default": "Blue", "de": "Blau"}}, "b", "Blue"},
		{"existing", existing, "x", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Create(tt.item, "").(*ItemValue)
			if v.Value() != tt.wantVal || v.Text() != tt.wantText {
				t.Errorf("expected %v/%q, got %v/%q", tt.wantVal, tt.wantText, v.Value(), v.Text())
			}
		})
	}
	if Create(existing, "") != existing {
		t.Error("expected existing item to be reused")
	}
}

func TestItemsHaveUniqueIDs(t *testing.T) {
	a, b := New(1, ""), New(1, "")
	if a.UID() == b.UID() {
		t.Errorf("expected distinct ids, got %s twice", a.UID())
	}
}

func TestSequenceReplaceBuildsItems(t *testing.T) {
	r := setup(t)
	q := schema.NewObject(r, "dropdown")

	var changes []*model.ArrayChanges
	q.OnPropertyChanged.AddFunc(func(_ *model.Base, e *model.PropertyChangedEvent) {
		if e.ArrayChanges != nil {
			changes = append(changes, e.ArrayChanges)
		}
	})
	q.SetPropertyValue("choices", []any{"red", map[string]any{"value": "g", "text": "Green"}})

	seq := q.GetSequence("choices")
	if seq.Len() != 2 || len(changes) != 1 {
		t.Fatalf("expected 2 items and one diff, got %d items and %d diffs", seq.Len(), len(changes))
	}
	item := seq.At(1).(*ItemValue)
	if item.LocOwner() != q.AsBase() || item.OwnerPropertyName() != "choices" {
		t.Error("expected the item to be owned by choices")
	}
	if !item.IsDescendantOf(TypeName) {
		t.Error("expected item to be an itemvalue")
	}
}

func TestItemChangesReachOwner(t *testing.T) {
	r := setup(t)
	q := schema.NewObject(r, "dropdown")
	q.SetPropertyValue("choices", []any{"red"})
	item := q.GetSequence("choices").At(0).(*ItemValue)

	var events []*model.ItemValuePropertyChangedEvent
	q.OnItemValuePropertyChanged.AddFunc(func(_ *model.Base, e *model.ItemValuePropertyChangedEvent) {
		events = append(events, e)
	})

	item.SetValue("crimson")
	item.SetText("Crimson")

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Name != "value" || events[0].NewValue != "crimson" || events[0].PropertyName != "choices" {
		t.Errorf("unexpected value event %+v", events[0])
	}
	if events[1].Name != "text" || events[1].NewValue != "Crimson" {
		t.Errorf("unexpected text event %+v", events[1])
	}
}

type localeSurvey struct {
	locale string
}

func (s *localeSurvey) OnPropertyValueChangedCallback(string, any, any, *model.Base, *model.ArrayChanges) {
}
func (s *localeSurvey) IsDesignMode() bool { return false }
func (s *localeSurvey) GetLocale() string  { return s.locale }

func TestItemTextFollowsSurveyLocale(t *testing.T) {
	r := setup(t)
	survey := &localeSurvey{}
	q := schema.NewObject(r, "dropdown")
	q.SetSurvey(survey)
	q.SetPropertyValue("choices", []any{
		map[string]any{"value": "b", "text": map[string]any{"default": "Blue", "de": "Blau"}},
	})
	item := q.GetSequence("choices").At(0).(*ItemValue)

	if item.Text() != "Blue" {
		t.Errorf("expected Blue, got %q", item.Text())
	}
	survey.locale = "de-AT"
	if item.Text() != "Blau" {
		t.Errorf("expected Blau, got %q", item.Text())
	}

	var texts []any
	q.OnItemValuePropertyChanged.AddFunc(func(_ *model.Base, e *model.ItemValuePropertyChangedEvent) {
		texts = append(texts, e.NewValue)
	})
	q.LocStrsChanged()
	if !reflect.DeepEqual(texts, []any{"Blau"}) {
		t.Errorf("expected item text to be re-reported, got %v", texts)
	}
	if got := q.AddUsedLocales(nil); !reflect.DeepEqual(got, []string{"de"}) {
		t.Errorf("expected [de], got %v", got)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	r := setup(t)
	q := schema.NewObject(r, "dropdown")
	q.SetPropertyValue("choices", []any{"red", map[string]any{"value": "g", "text": "Green"}})

	got := r.ToJSON(q)["choices"]
	want := []any{"red", map[string]any{"value": "g", "text": "Green"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	clone, err := r.Clone(q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	item := clone.AsBase().GetSequence("choices").At(1).(*ItemValue)
	if item.Text() != "Green" || item.LocOwner() != clone.AsBase() {
		t.Errorf("expected cloned item Green owned by the clone, got %q", item.Text())
	}
	if item.String() != "g (Green)" {
		t.Errorf("unexpected String %q", item.String())
	}
}
