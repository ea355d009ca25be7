package schema

import (
	"testing"

	"github.com/vango-dev/formcore/pkg/model"
)

type testSurvey struct {
	values  map[string]any
	set     map[string]any
	changed []string
}

func (s *testSurvey) OnPropertyValueChangedCallback(name string, _, _ any, _ *model.Base, _ *model.ArrayChanges) {
	s.changed = append(s.changed, name)
}
func (s *testSurvey) IsDesignMode() bool                        { return false }
func (s *testSurvey) GetLocale() string                         { return "" }
func (s *testSurvey) GetDataFilteredValues() map[string]any     { return s.values }
func (s *testSurvey) GetDataFilteredProperties() map[string]any { return nil }
func (s *testSurvey) SetValue(name string, value any)           { s.set[name] = value }

type equalsRunner struct {
	expression string
	onComplete func(any)
}

func (r *equalsRunner) Expression() string              { return r.expression }
func (r *equalsRunner) SetExpression(expression string) { r.expression = expression }
func (r *equalsRunner) SetOnRunComplete(fn func(any))   { r.onComplete = fn }
func (r *equalsRunner) Run(values, _ map[string]any) error {
	r.onComplete(values["age"] == 18)
	return nil
}

func TestConditionPropertySetsTarget(t *testing.T) {
	model.SetExpressionRunnerFactory(func(expression string) model.ExpressionRunner {
		return &equalsRunner{expression: expression}
	})
	t.Cleanup(func() { model.SetExpressionRunnerFactory(nil) })

	r := newTestRegistry()
	survey := &testSurvey{values: map[string]any{"age": 18}}
	q := NewObject(r, "question")
	q.SetSurvey(survey)

	q.SetPropertyValue("visibleIf", "{age} = 18")
	if got := q.GetPropertyValue("visible"); got != true {
		t.Errorf("expected visible true, got %v", got)
	}

	q.RunConditionCore(map[string]any{"age": 20}, nil)
	if got := q.GetPropertyValue("visible"); got != false {
		t.Errorf("expected visible false, got %v", got)
	}

	q.SetPropertyValue("requiredIf", "{age} = 18")
	if got := q.GetPropertyValue("required"); got != true {
		t.Errorf("expected required true, got %v", got)
	}
}

func TestConditionTarget(t *testing.T) {
	tests := map[string]string{
		"visibleIf":  "visible",
		"enableIf":   "enable",
		"expression": "expressionResult",
		"If":         "IfResult",
	}
	for name, want := range tests {
		if got := conditionTarget(name); got != want {
			t.Errorf("conditionTarget(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestSetSurveyReachesChildren(t *testing.T) {
	r := newTestRegistry()
	obj, err := r.Unmarshal([]byte(surveyJSON), "survey")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	root := obj.(*Object)
	survey := &testSurvey{set: map[string]any{}}
	root.SetSurvey(survey)

	age := root.FindByName("age")
	if age.GetSurvey() != survey {
		t.Fatal("expected nested question to share the survey")
	}

	age.SetPropertyValue("name", "years")
	if survey.set["ageName"] != "years" {
		t.Errorf("expected bound value pushed to the survey, got %v", survey.set)
	}
	if len(survey.changed) == 0 || survey.changed[len(survey.changed)-1] != "name" {
		t.Errorf("expected survey to be notified, got %v", survey.changed)
	}

	page := root.FindByName("p1")
	late := NewObject(r, "text")
	page.GetSequence("elements").Push(late)
	if late.GetSurvey() != survey || late.Parent() != page {
		t.Error("expected pushed element to be adopted")
	}

	page.GetSequence("elements").Splice(0, 1)
	if age.Parent() != nil {
		t.Error("expected removed element to be released")
	}
}

func TestDataFilteredProperties(t *testing.T) {
	r := newTestRegistry()
	q := NewObject(r, "question")
	q.SetPropertyValue("name", "age")

	props := q.GetDataFilteredProperties()
	if props["object"] != "age" {
		t.Errorf("expected object name, got %v", props)
	}
	if q.GetDataFilteredValues() != nil {
		t.Error("expected no values without a survey")
	}
}
