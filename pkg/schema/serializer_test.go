package schema

import (
	stderrors "errors"
	"testing"

	"github.com/vango-dev/formcore/internal/errors"
	"github.com/vango-dev/formcore/pkg/model"
)

const surveyJSON = `{
  "title": "Intake",
  "pages": [
    {
      "name": "p1",
      "elements": [
        {"type": "text", "name": "age", "min": 18, "bindings": {"name": "ageName"}},
        {"type": "dropdown", "name": "color", "choices": ["red", "green"]}
      ]
    }
  ],
  "unknown": 1
}`

func TestUnmarshalBuildsTree(t *testing.T) {
	r := newTestRegistry()
	obj, err := r.Unmarshal([]byte(surveyJSON), "survey")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	survey := obj.(*Object)

	age := survey.FindByName("age")
	if age == nil {
		t.Fatal("expected to find question age")
	}
	if age.GetType() != "text" {
		t.Errorf("expected text, got %s", age.GetType())
	}
	if age.Parent() == nil || age.Parent().GetPropertyValue("name") != "p1" {
		t.Error("expected age to be adopted by page p1")
	}
	if got := age.Bindings().GetValueNameByPropertyName("name"); got != "ageName" {
		t.Errorf("expected binding ageName, got %q", got)
	}
	if got := survey.GetPropertyValue("title"); got != "Intake" {
		t.Errorf("expected title Intake, got %v", got)
	}

	color := survey.FindByName("color")
	seq := color.GetSequence("choices")
	if seq == nil || seq.Len() != 2 {
		t.Fatalf("expected 2 choices, got %v", seq)
	}
	if survey.FindByName("missing") != nil {
		t.Error("expected nil for unknown name")
	}
}

func TestLoadingDoesNotNotify(t *testing.T) {
	r := newTestRegistry()
	q := NewObject(r, "text")
	changes := 0
	q.OnPropertyChanged.AddFunc(func(*model.Base, *model.PropertyChangedEvent) { changes++ })

	if err := r.FromJSON(q, map[string]any{"name": "q1", "min": 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if changes != 0 {
		t.Errorf("expected no change events while loading, got %d", changes)
	}
	if q.IsLoadingFromJSON() {
		t.Error("expected loading to end")
	}

	q.SetPropertyValue("name", "q2")
	if changes != 1 {
		t.Errorf("expected change after loading, got %d", changes)
	}
}

func TestToJSON(t *testing.T) {
	r := newTestRegistry()
	obj, err := r.Unmarshal([]byte(surveyJSON), "survey")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := r.ToJSON(obj)
	if got["title"] != "Intake" {
		t.Errorf("expected title, got %v", got["title"])
	}
	if _, ok := got["unknown"]; ok {
		t.Error("unknown keys must not round trip")
	}
	pages := got["pages"].([]any)
	elements := pages[0].(map[string]any)["elements"].([]any)
	age := elements[0].(map[string]any)
	if age["type"] != "text" {
		t.Errorf("expected type text for a non-default class, got %v", age["type"])
	}
	if _, ok := age["visible"]; ok {
		t.Error("non-serializable properties must be skipped")
	}
	if _, ok := age["inputType"]; ok {
		t.Error("values equal to the default must be skipped")
	}
	if b := age["bindings"].(map[string]string); b["name"] != "ageName" {
		t.Errorf("expected bindings, got %v", age["bindings"])
	}
	if page := pages[0].(map[string]any); page["type"] != nil {
		t.Errorf("expected no type for the declared class, got %v", page["type"])
	}
}

func TestClone(t *testing.T) {
	r := newTestRegistry()
	q := NewObject(r, "dropdown")
	q.SetPropertyValue("name", "color")
	q.SetPropertyValue("choices", []any{"red"})

	clone, err := r.Clone(q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := clone.(*Object)
	if c == q || c.GetPropertyValue("name") != "color" {
		t.Errorf("expected an independent copy, got %v", c.GetPropertyValue("name"))
	}
	c.GetSequence("choices").Push("blue")
	if q.GetSequence("choices").Len() != 1 {
		t.Error("clone must not share sequences with the source")
	}
}

func TestFromYAML(t *testing.T) {
	r := newTestRegistry()
	data := []byte("type: page\nname: p1\nelements:\n  - type: comment\n    name: notes\n")

	obj, err := r.FromYAML(data, "survey")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obj.AsBase().GetType() != "page" {
		t.Errorf("expected type key to select page, got %s", obj.AsBase().GetType())
	}
	if notes := obj.(*Object).FindByName("notes"); notes == nil || notes.GetType() != "comment" {
		t.Error("expected comment question notes")
	}
}

func TestUnmarshalErrors(t *testing.T) {
	r := newTestRegistry()
	tests := []struct {
		name string
		data string
		code string
	}{
		{"syntax", `{"title":`, "F020"},
		{"array shape", `{"pages": 3}`, "F020"},
		{"unknown class", `{"type": "slider"}`, "F021"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Unmarshal([]byte(tt.data), "survey")
			var fe *errors.FormError
			if !stderrors.As(err, &fe) || fe.Code != tt.code {
				t.Errorf("expected %s, got %v", tt.code, err)
			}
		})
	}
}

type loadedObject struct {
	*Object
	loaded int
}

func (o *loadedObject) OnLoaded() { o.loaded++ }

func TestLoadedHandler(t *testing.T) {
	r := NewRegistry()
	r.AddClass("item", "", nil, MustParseProperty("name"))
	o := &loadedObject{Object: &Object{registry: r}}
	o.Init(o, "item", model.WithMetadata(r))

	if err := r.FromJSON(o, map[string]any{"name": "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.loaded != 1 {
		t.Errorf("expected OnLoaded once, got %d", o.loaded)
	}
}
