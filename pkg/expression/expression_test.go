package expression

import (
	stderrors "errors"
	"testing"

	"github.com/vango-dev/formcore/internal/errors"
	"github.com/vango-dev/formcore/pkg/model"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		expression string
		want       string
	}{
		{"{age} = 18", `return __cmp("eq", __value("age"), 18)`},
		{"{a} <> 'x'", `return __cmp("ne", __value("a"), "x")`},
		{"{a} > 1 and not {b}", `return (__cmp("gt", __value("a"), 1) and (not __value("b")))`},
		{"{a} || {b} && {c}", `return (__value("a") or (__value("b") and __value("c")))`},
		{"{tags} anyof ['a', \"b\"]", `return anyof(__value("tags"), {"a", "b"})`},
		{"{name} notempty", `return notempty(__value("name"))`},
		{"({a} + 1) * 2", `return ((__add(__value("a"), 1)) * 2)`},
		{"iif({a}, 'yes', null)", `return iif(__value("a"), "yes", nil)`},
		{"TRUE", `return true`},
	}
	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			got, err := Translate(tt.expression)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestTranslateErrors(t *testing.T) {
	tests := []string{
		"",
		"{age",
		"{}",
		"'open",
		"{a} = ",
		"os.exit(1)",
		"print('x')",
		"{a} = 1)",
		"{a} # 1",
	}
	for _, expression := range tests {
		if _, err := Translate(expression); err == nil {
			t.Errorf("expected error for %q", expression)
		}
	}
}

func TestEvaluate(t *testing.T) {
	values := map[string]any{
		"age":    18,
		"name":   "Ann",
		"tags":   []any{"a", "b"},
		"score":  "7",
		"panel":  map[string]any{"count": 3},
		"blank":  "",
		"Mixed":  true,
		"amount": 2.5,
	}
	tests := []struct {
		expression string
		want       any
	}{
		{"{age} = 18", true},
		{"{age} = '18'", true},
		{"{age} >= 21", false},
		{"{name} = 'ann'", true},
		{"{name} != 'Bob'", true},
		{"{missing} = 1", false},
		{"{missing} < 1", false},
		{"{missing} empty", true},
		{"{blank} empty", true},
		{"{name} notempty", true},
		{"{tags} contains 'a'", true},
		{"{tags} notcontains 'c'", true},
		{"{tags} anyof ['c', 'b']", true},
		{"{tags} allof ['a', 'b']", true},
		{"{tags} allof ['a', 'c']", false},
		{"{name} contains 'nn'", true},
		{"{score} > 5", true},
		{"{panel.count} = 3", true},
		{"{mixed}", true},
		{"{age} > 10 and ({name} = 'Ann' or {missing})", true},
		{"!({age} = 18)", false},
		{"{amount} * 2", 5.0},
		{"{age} + 2", 20.0},
		{"{name} + '!'", "Ann!"},
		{"sum({tags}, {age}, 2)", 20.0},
		{"max(1, {amount})", 2.5},
		{"round({amount})", 3.0},
		{"length({tags})", 2.0},
		{"iif({age} >= 18, 'adult', 'minor')", "adult"},
		{"{missing}", nil},
	}
	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			got, err := Evaluate(tt.expression, values)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v (%T), got %v (%T)", tt.want, tt.want, got, got)
			}
		})
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		expression string
		code       string
	}{
		{"{a} = ", "F040"},
		{"-{missing}", "F041"},
	}
	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			r := New(tt.expression)
			called := false
			r.SetOnRunComplete(func(any) { called = true })

			err := r.Run(nil, nil)
			var fe *errors.FormError
			if !stderrors.As(err, &fe) || fe.Code != tt.code {
				t.Fatalf("expected %s, got %v", tt.code, err)
			}
			if called {
				t.Error("failed run must not complete")
			}
		})
	}
}

func TestSandbox(t *testing.T) {
	r := New("true")
	l := r.luaState()
	for _, name := range restrictedGlobals {
		l.Global(name)
		if !l.IsNil(-1) {
			t.Errorf("expected %s to be nil", name)
		}
		l.Pop(1)
	}
	l.Global("math")
	if l.IsNil(-1) {
		t.Error("expected math library to be available")
	}
	l.Pop(1)
}

func TestRunnerReusesStateAcrossExpressions(t *testing.T) {
	r := New("{a} = 1")
	var results []any
	r.SetOnRunComplete(func(res any) { results = append(results, res) })

	if err := r.Run(map[string]any{"a": 1}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r.SetExpression("properties.object = 'q1'")
	if err := r.Run(nil, map[string]any{"object": "q1"}); err == nil {
		t.Fatal("expected property access syntax to be rejected")
	}
	r.SetExpression("{a} = 2")
	if err := r.Run(map[string]any{"a": 2}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 || results[0] != true || results[1] != true {
		t.Errorf("expected [true true], got %v", results)
	}
	if r.Expression() != "{a} = 2" || r.Chunk() == "" {
		t.Errorf("unexpected runner state %q %q", r.Expression(), r.Chunk())
	}
}

func TestRegisterDrivesExpressionProperties(t *testing.T) {
	Register()
	t.Cleanup(func() { model.SetExpressionRunnerFactory(nil) })

	b := model.New("question")
	var results []any
	b.AddExpressionProperty("visibleIf", func(_ *model.Base, res any) {
		results = append(results, res)
	}, nil)
	b.SetPropertyValue("visibleIf", "{age} >= 18")

	b.RunConditionCore(map[string]any{"age": 20}, nil)
	b.RunConditionCore(map[string]any{"age": 12}, nil)

	if len(results) != 3 || results[0] != false || results[1] != true || results[2] != false {
		t.Errorf("expected [false true false], got %v", results)
	}
}
