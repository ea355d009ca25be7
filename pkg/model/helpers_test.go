package model

import "sync"

// testProperty is a hand-written PropertyMeta.
type testProperty struct {
	name       string
	typ        string
	def        any
	custom     bool
	bindable   bool
	hidden     bool
	onSetValue func(obj *Base, value any) any
	getValue   func(obj *Base) any
}

func (p *testProperty) Name() string      { return p.name }
func (p *testProperty) Type() string      { return p.typ }
func (p *testProperty) DefaultValue() any { return p.def }
func (p *testProperty) IsCustom() bool    { return p.custom }
func (p *testProperty) IsBindable() bool  { return p.bindable }

func (p *testProperty) IsVisible(string, *Base) bool { return !p.hidden }

func (p *testProperty) SettingValue(obj *Base, value any) any {
	if p.onSetValue != nil {
		return p.onSetValue(obj, value)
	}
	return value
}

func (p *testProperty) GetValue(obj *Base) (any, bool) {
	if p.getValue == nil {
		return nil, false
	}
	return p.getValue(obj), true
}

// testMetadata serves one property list for every type.
type testMetadata struct {
	props []*testProperty
}

func (m *testMetadata) FindProperty(_, name string) PropertyMeta {
	for _, p := range m.props {
		if p.name == name {
			return p
		}
	}
	return nil
}

func (m *testMetadata) GetProperties(string) []PropertyMeta {
	res := make([]PropertyMeta, len(m.props))
	for i, p := range m.props {
		res[i] = p
	}
	return res
}

func (m *testMetadata) IsDescendantOf(typeName, ancestor string) bool {
	return typeName == ancestor || ancestor == "base"
}

func newWithProps(typeName string, props ...*testProperty) *Base {
	return New(typeName, WithMetadata(&testMetadata{props: props}))
}

// recorder collects an ordered trace of pipeline steps.
type recorder struct {
	mu    sync.Mutex
	steps []string
}

func (r *recorder) add(step string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, step)
}

func (r *recorder) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.steps))
	copy(out, r.steps)
	return out
}

// testObserver counts observer calls.
type testObserver struct {
	mu        sync.Mutex
	changed   []string
	rejected  []string
	sequences int
	runs      int
	lastErr   error
}

func (o *testObserver) PropertyChanged(typeName, name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.changed = append(o.changed, typeName+"."+name)
}

func (o *testObserver) WriteRejected(typeName, name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rejected = append(o.rejected, typeName+"."+name)
}

func (o *testObserver) SequenceChanged(string, string, *ArrayChanges) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sequences++
}

func (o *testObserver) ExpressionRun(string, string, string) func(any, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.runs++
	return func(_ any, err error) {
		o.mu.Lock()
		defer o.mu.Unlock()
		o.lastErr = err
	}
}

func installObserver(t interface{ Cleanup(func()) }) *testObserver {
	o := &testObserver{}
	SetObserver(o)
	t.Cleanup(func() { SetObserver(nil) })
	return o
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
