package model

import "sort"

// ExpressionRunner evaluates a condition expression against data values.
// Run calls the completion callback with the result on success.
type ExpressionRunner interface {
	Expression() string
	SetExpression(expression string)
	SetOnRunComplete(fn func(result any))
	Run(values, properties map[string]any) error
}

var newExpressionRunner func(expression string) ExpressionRunner

// SetExpressionRunnerFactory installs the constructor of expression
// runners. Until one is installed expression properties never run.
func SetExpressionRunnerFactory(fn func(expression string) ExpressionRunner) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	newExpressionRunner = fn
}

func expressionRunnerFactory() func(expression string) ExpressionRunner {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return newExpressionRunner
}

type expressionRunnerInfo struct {
	onExecute func(obj *Base, result any)
	canRun    func(obj *Base) bool
	runner    ExpressionRunner
}

// AddExpressionProperty declares name as an expression property. Its
// value is an expression string; whenever it changes, and whenever
// RunConditionCore is called, the expression runs and onExecute receives
// the result. canRun, if not nil, can veto a run.
func (b *Base) AddExpressionProperty(name string, onExecute func(obj *Base, result any), canRun func(obj *Base) bool) {
	if b.expressionInfo == nil {
		b.expressionInfo = make(map[string]*expressionRunnerInfo)
	}
	b.expressionInfo[name] = &expressionRunnerInfo{
		onExecute: onExecute,
		canRun:    canRun,
	}
}

// IsExpressionProperty reports whether name was declared by
// AddExpressionProperty.
func (b *Base) IsExpressionProperty(name string) bool {
	_, ok := b.expressionInfo[name]
	return ok
}

// RunConditionCore runs every expression property, in name order, against
// values and properties.
func (b *Base) RunConditionCore(values, properties map[string]any) {
	names := make([]string, 0, len(b.expressionInfo))
	for name := range b.expressionInfo {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.runConditionItemCore(name, values, properties)
	}
}

func (b *Base) canRunConditions() bool {
	if g, ok := b.self.(ConditionRunGate); ok {
		return g.CanRunConditions()
	}
	return !b.IsDesignMode()
}

func (b *Base) checkConditionPropertyChanged(name string) {
	if _, ok := b.expressionInfo[name]; !ok || !b.canRunConditions() {
		return
	}
	var values, properties map[string]any
	if p, ok := b.self.(ConditionDataProvider); ok {
		values = p.GetDataFilteredValues()
		properties = p.GetDataFilteredProperties()
	}
	b.runConditionItemCore(name, values, properties)
}

func (b *Base) runConditionItemCore(name string, values, properties map[string]any) {
	info := b.expressionInfo[name]
	expression, _ := b.GetPropertyValue(name).(string)
	if expression == "" {
		return
	}
	if info.canRun != nil && !info.canRun(b) {
		return
	}
	if info.runner == nil {
		factory := expressionRunnerFactory()
		if factory == nil {
			Logger().Warn("no expression runner installed", "property", name, "type", b.GetType())
			return
		}
		info.runner = factory(expression)
	}
	if info.runner.Expression() != expression {
		info.runner.SetExpression(expression)
	}

	var result any
	info.runner.SetOnRunComplete(func(res any) {
		result = res
		if info.onExecute != nil {
			info.onExecute(b, res)
		}
	})
	if values == nil {
		values = map[string]any{}
	}
	if properties == nil {
		properties = map[string]any{}
	}
	done := currentObserver().ExpressionRun(b.GetType(), name, expression)
	err := info.runner.Run(values, properties)
	done(result, err)
	if err != nil {
		Logger().Error("expression property failed",
			"property", name,
			"type", b.GetType(),
			"expression", expression,
			"error", err,
		)
	}
}
