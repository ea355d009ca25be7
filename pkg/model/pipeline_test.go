package model

import (
	"errors"
	"testing"
)

type testSurvey struct {
	rec        *recorder
	designMode bool
}

func (s *testSurvey) OnPropertyValueChangedCallback(name string, _, _ any, _ *Base, _ *ArrayChanges) {
	s.rec.add("survey:" + name)
}
func (s *testSurvey) IsDesignMode() bool { return s.designMode }
func (s *testSurvey) GetLocale() string  { return "de" }

type tracedQuestion struct {
	Base
	rec      *recorder
	survey   Survey
	internal bool
	values   map[string]any
}

func (q *tracedQuestion) OnPropertyValueChanged(name string, _, _ any) { q.rec.add("hook:" + name) }
func (q *tracedQuestion) UpdateBindingValue(valueName string, _ any)   { q.rec.add("binding:" + valueName) }
func (q *tracedQuestion) GetSurvey() Survey                             { return q.survey }
func (q *tracedQuestion) IsInternal() bool                              { return q.internal }
func (q *tracedQuestion) GetDataFilteredValues() map[string]any         { return q.values }
func (q *tracedQuestion) GetDataFilteredProperties() map[string]any     { return nil }

func newTracedQuestion(rec *recorder, survey Survey) *tracedQuestion {
	q := &tracedQuestion{rec: rec, survey: survey}
	q.Init(q, "question")
	return q
}

func TestPipelineOrder(t *testing.T) {
	o := installObserver(t)
	rec := &recorder{}
	q := newTracedQuestion(rec, &testSurvey{rec: rec})
	q.Bindings().SetBinding("title", "ext")
	rec.steps = nil

	q.OnPropertyChanged.AddFunc(func(_ *Base, e *PropertyChangedEvent) { rec.add("event:" + e.Name) })
	q.SetPropertyValueChangedCallback(func(name string, _, _ any, _ *Base, _ *ArrayChanges) {
		rec.add("self:" + name)
	})
	q.RegisterFunctionOnPropertyValueChanged("title", func(any) { rec.add("listener:title") }, "")

	q.SetPropertyValue("title", "Age")

	want := []string{
		"binding:ext",
		"hook:title",
		"event:title",
		"survey:title",
		"self:title",
		"listener:title",
	}
	if got := rec.get(); !equalStrings(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if len(o.changed) == 0 || o.changed[len(o.changed)-1] != "question.title" {
		t.Errorf("expected observer to see question.title, got %v", o.changed)
	}
	if q.GetLocale() != "de" || !q.InSurvey() {
		t.Error("expected locale from survey")
	}
}

func TestInternalObjectSkipsNotifier(t *testing.T) {
	rec := &recorder{}
	q := newTracedQuestion(rec, &testSurvey{rec: rec})
	q.internal = true

	q.SetPropertyValue("title", "Age")

	for _, step := range rec.get() {
		if step == "survey:title" {
			t.Errorf("internal object should not notify the survey, got %v", rec.get())
		}
	}
}

func TestListenerKeyReplaces(t *testing.T) {
	b := New("question")
	var got []string
	b.RegisterFunctionOnPropertyValueChanged("title", func(any) { got = append(got, "first") }, "k")
	b.RegisterFunctionOnPropertyValueChanged("title", func(any) { got = append(got, "second") }, "k")
	b.RegisterFunctionOnPropertiesValueChanged([]string{"title", "name"}, func(v any) { got = append(got, "multi") }, "")

	b.SetPropertyValue("title", "x")
	b.SetPropertyValue("name", "y")

	if !equalStrings(got, []string{"second", "multi", "multi"}) {
		t.Errorf("expected [second multi multi], got %v", got)
	}

	b.UnRegisterFunctionOnPropertiesValueChanged([]string{"title", "name"}, "")
	b.UnRegisterFunctionOnPropertyValueChanged("title", "k")
	b.SetPropertyValue("title", "z")
	if len(got) != 3 {
		t.Errorf("expected no calls after unregister, got %v", got)
	}
}

func TestListenerRemovedDuringFanOut(t *testing.T) {
	b := New("question")
	var got []string
	b.RegisterFunctionOnPropertyValueChanged("title", func(any) {
		got = append(got, "first")
		b.UnRegisterFunctionOnPropertyValueChanged("title", "second")
		b.RegisterFunctionOnPropertyValueChanged("title", func(any) { got = append(got, "late") }, "late")
	}, "first")
	b.RegisterFunctionOnPropertyValueChanged("title", func(any) { got = append(got, "second") }, "second")

	b.SetPropertyValue("title", "x")
	if !equalStrings(got, []string{"first"}) {
		t.Errorf("expected [first], got %v", got)
	}

	b.SetPropertyValue("title", "y")
	if !equalStrings(got, []string{"first", "first", "late"}) {
		t.Errorf("expected late listener on the next change, got %v", got)
	}
}

type fakeRunner struct {
	expression string
	onComplete func(any)
	err        error
	runs       int
}

func (r *fakeRunner) Expression() string              { return r.expression }
func (r *fakeRunner) SetExpression(expression string) { r.expression = expression }
func (r *fakeRunner) SetOnRunComplete(fn func(any))   { r.onComplete = fn }
func (r *fakeRunner) Run(values, _ map[string]any) error {
	r.runs++
	if r.err != nil {
		return r.err
	}
	r.onComplete(values["age"] == 18)
	return nil
}

func TestExpressionProperty(t *testing.T) {
	o := installObserver(t)
	runner := &fakeRunner{}
	SetExpressionRunnerFactory(func(expression string) ExpressionRunner {
		runner.expression = expression
		return runner
	})
	t.Cleanup(func() { SetExpressionRunnerFactory(nil) })

	rec := &recorder{}
	survey := &testSurvey{rec: rec}
	q := newTracedQuestion(rec, survey)
	q.values = map[string]any{"age": 18}
	var results []any
	q.AddExpressionProperty("visibleIf", func(obj *Base, res any) {
		results = append(results, res)
	}, nil)

	q.SetPropertyValue("visibleIf", "{age} = 18")
	if len(results) != 1 || results[0] != true {
		t.Fatalf("expected [true], got %v", results)
	}
	if o.runs != 1 {
		t.Errorf("expected observer to see 1 run, got %d", o.runs)
	}

	q.RunConditionCore(map[string]any{"age": 20}, nil)
	if len(results) != 2 || results[1] != false {
		t.Errorf("expected second result false, got %v", results)
	}

	survey.designMode = true
	q.SetPropertyValue("visibleIf", "{age} > 1")
	if runner.runs != 2 {
		t.Errorf("expected no run in design mode, got %d runs", runner.runs)
	}

	survey.designMode = false
	runner.err = errors.New("boom")
	q.SetPropertyValue("visibleIf", "{age} > 2")
	if len(results) != 2 {
		t.Errorf("failed run must not call onExecute, got %v", results)
	}
	if o.lastErr == nil {
		t.Error("expected observer to receive the run error")
	}
	if runner.Expression() != "{age} > 2" {
		t.Errorf("expected runner expression to follow the property, got %q", runner.Expression())
	}
}

func TestExpressionPropertyCanRun(t *testing.T) {
	runs := 0
	SetExpressionRunnerFactory(func(expression string) ExpressionRunner {
		runs++
		return &fakeRunner{expression: expression}
	})
	t.Cleanup(func() { SetExpressionRunnerFactory(nil) })

	b := New("question")
	b.AddExpressionProperty("enableIf", func(*Base, any) {}, func(*Base) bool { return false })
	b.SetPropertyValue("enableIf", "true")

	if runs != 0 {
		t.Errorf("expected canRun to veto runner creation, got %d", runs)
	}
	if !b.IsExpressionProperty("enableIf") {
		t.Error("expected enableIf to be an expression property")
	}
}
