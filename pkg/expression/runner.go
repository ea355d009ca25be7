package expression

import (
	"fmt"

	"github.com/Shopify/go-lua"
	"github.com/Shopify/goluago/util"

	"github.com/vango-dev/formcore/internal/errors"
	"github.com/vango-dev/formcore/pkg/model"
)

// restrictedGlobals are removed from every runner state.
var restrictedGlobals = []string{
	"os",
	"io",
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"package",
	"debug",
	"collectgarbage",
	"print",
}

// Runner evaluates one condition expression on its own sandboxed Lua
// state. It implements model.ExpressionRunner. A Runner is not safe for
// concurrent use.
type Runner struct {
	expression string
	chunk      string
	compileErr error
	onComplete func(any)

	state  *lua.State
	values map[string]any
}

// New creates a runner for expression. Translation errors surface on the
// first Run.
func New(expression string) *Runner {
	r := &Runner{}
	r.SetExpression(expression)
	return r
}

// Register installs New as the expression runner factory of the model
// package.
func Register() {
	model.SetExpressionRunnerFactory(func(expression string) model.ExpressionRunner {
		return New(expression)
	})
}

func (r *Runner) Expression() string {
	return r.expression
}

// SetExpression replaces the expression and retranslates it.
func (r *Runner) SetExpression(expression string) {
	r.expression = expression
	r.chunk, r.compileErr = Translate(expression)
}

func (r *Runner) SetOnRunComplete(fn func(any)) {
	r.onComplete = fn
}

// Chunk returns the Lua source the expression translates to.
func (r *Runner) Chunk() string {
	return r.chunk
}

// Run evaluates the expression against values and properties and passes
// the result to the run-complete callback. The properties map is visible
// to the expression as the global table "properties".
func (r *Runner) Run(values, properties map[string]any) error {
	res, err := r.run(values, properties)
	if err != nil {
		return err
	}
	if r.onComplete != nil {
		r.onComplete(res)
	}
	return nil
}

func (r *Runner) run(values, properties map[string]any) (any, error) {
	if r.compileErr != nil {
		return nil, errors.New("F040").Wrap(fmt.Errorf("%q: %w", r.expression, r.compileErr))
	}
	l := r.luaState()
	r.values = values
	defer func() { r.values = nil }()

	l.SetTop(0)
	if properties == nil {
		properties = map[string]any{}
	}
	util.DeepPush(l, properties)
	l.SetGlobal("properties")

	if err := lua.LoadString(l, r.chunk); err != nil {
		return nil, errors.New("F040").Wrap(fmt.Errorf("%q: %w", r.expression, err))
	}
	if err := l.ProtectedCall(0, 1, 0); err != nil {
		return nil, errors.New("F041").Wrap(fmt.Errorf("%q: %w", r.expression, err))
	}
	res := pull(l, -1)
	l.Pop(1)
	return res, nil
}

func (r *Runner) luaState() *lua.State {
	if r.state != nil {
		return r.state
	}
	l := lua.NewState()
	lua.OpenLibraries(l)
	for _, name := range restrictedGlobals {
		l.PushNil()
		l.SetGlobal(name)
	}
	r.registerBuiltins(l)
	r.state = l
	return l
}

// Evaluate runs expression once against values and returns its result.
func Evaluate(expression string, values map[string]any) (any, error) {
	return New(expression).run(values, nil)
}
