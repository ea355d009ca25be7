package schema

import (
	stderrors "errors"
	"testing"

	"github.com/vango-dev/formcore/internal/errors"
	"github.com/vango-dev/formcore/pkg/model"
)

func newTestRegistry() *Registry {
	r := NewRegistry()
	DeclareFormClasses(r)
	return r
}

func TestParseProperty(t *testing.T) {
	tests := []struct {
		decl      string
		wantName  string
		wantType  string
		wantClass string
		wantErr   bool
	}{
		{"title", "title", TypeString, "", false},
		{"isRequired:boolean", "isRequired", TypeBoolean, "", false},
		{"pages:array:page", "pages", TypeArray, "page", false},
		{"", "", "", "", true},
		{"name:", "", "", "", true},
		{"a:b:c:d", "", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.decl, func(t *testing.T) {
			p, err := ParseProperty(tt.decl)
			if tt.wantErr {
				var fe *errors.FormError
				if !stderrors.As(err, &fe) || fe.Code != "F022" {
					t.Fatalf("expected F022, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Name() != tt.wantName || p.Type() != tt.wantType || p.ClassName() != tt.wantClass {
				t.Errorf("expected %s/%s/%s, got %s/%s/%s",
					tt.wantName, tt.wantType, tt.wantClass, p.Name(), p.Type(), p.ClassName())
			}
		})
	}
}

func TestPropertySettingValue(t *testing.T) {
	tests := []struct {
		decl  string
		value any
		want  any
	}{
		{"min:number", "12.5", 12.5},
		{"min:number", "abc", "abc"},
		{"isRequired:boolean", "true", true},
		{"isOn:switch", " false ", false},
		{"title", "true", "true"},
		{"min:number", 3, 3},
	}
	for _, tt := range tests {
		p := MustParseProperty(tt.decl)
		if got := p.SettingValue(nil, tt.value); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.decl, tt.want, got)
		}
	}
}

func TestPropertyDefaultIsCopied(t *testing.T) {
	p := NewProperty("tags", WithDefault([]any{"a"}))
	first := p.DefaultValue().([]any)
	first[0] = "changed"

	if got := p.DefaultValue().([]any)[0]; got != "a" {
		t.Errorf("expected declared default to stay a, got %v", got)
	}
}

func TestRegistryInheritance(t *testing.T) {
	r := newTestRegistry()

	if !r.IsDescendantOf("dropdown", "question") {
		t.Error("expected dropdown to descend from question")
	}
	if r.IsDescendantOf("question", "dropdown") {
		t.Error("question must not descend from dropdown")
	}
	if p := r.FindSchemaProperty("dropdown", "isRequired"); p == nil {
		t.Error("expected inherited isRequired")
	}

	props := r.SchemaProperties("comment")
	if props[0].Name() != "name" {
		t.Errorf("expected ancestor properties first, got %s", props[0].Name())
	}

	if err := r.AddProperty("text", NewProperty("inputType", WithDefault("email"))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := r.FindSchemaProperty("comment", "inputType").DefaultValue(); got != "email" {
		t.Errorf("expected redeclared default, got %v", got)
	}
	if err := r.AddProperty("missing", NewProperty("x")); err == nil {
		t.Error("expected error for unknown class")
	}
}

func TestCreateClass(t *testing.T) {
	r := newTestRegistry()

	obj, err := r.CreateClass("text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b := obj.AsBase()
	if b.GetType() != "text" {
		t.Errorf("expected text, got %s", b.GetType())
	}
	if got := b.GetPropertyValue("inputType"); got != "text" {
		t.Errorf("expected declared default, got %v", got)
	}
	if got := b.GetPropertyValue("visible"); got != true {
		t.Errorf("expected visible default true, got %v", got)
	}
	b.SetPropertyValue("min", "3")
	if got := b.GetPropertyValue("min"); got != 3.0 {
		t.Errorf("expected coerced 3, got %v", got)
	}

	_, err = r.CreateClass("slider")
	var fe *errors.FormError
	if !stderrors.As(err, &fe) || fe.Code != "F021" {
		t.Errorf("expected F021, got %v", err)
	}
}

func TestCustomCreator(t *testing.T) {
	r := NewRegistry()
	created := 0
	r.AddClass("custom", "", func() model.Reactive {
		created++
		return model.New("custom", model.WithMetadata(r))
	})

	if _, err := r.CreateClass("custom"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created != 1 {
		t.Errorf("expected creator to run once, got %d", created)
	}
}
