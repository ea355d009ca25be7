package model

import "strconv"

// dependency is one recorded (object, property) read.
type dependency struct {
	obj  *Base
	prop string
}

// Dependencies is the set of (object, property) pairs read while a
// computed value evaluated. Once subscribed, a change of any pair calls
// the updater; Dispose removes exactly this subscription set.
type Dependencies struct {
	id                uint64
	key               string
	currentDependency func()
	target            *Base
	property          string
	dependencies      []dependency
	subscribed        bool
}

func newDependencies(updater func(), target *Base, property string) *Dependencies {
	id := nextID()
	return &Dependencies{
		id:                id,
		key:               "dependencies:" + strconv.FormatUint(id, 10),
		currentDependency: updater,
		target:            target,
		property:          property,
	}
}

// ID returns the unique identifier of this tracker.
func (d *Dependencies) ID() uint64 {
	return d.id
}

// Len returns the number of recorded pairs.
func (d *Dependencies) Len() int {
	return len(d.dependencies)
}

// Has reports whether (target, property) was recorded.
func (d *Dependencies) Has(target *Base, property string) bool {
	for _, dep := range d.dependencies {
		if dep.obj == target && dep.prop == property {
			return true
		}
	}
	return false
}

func (d *Dependencies) addDependency(target *Base, property string) {
	if d.target == target && d.property == property {
		return
	}
	if d.Has(target, property) {
		return
	}
	d.dependencies = append(d.dependencies, dependency{obj: target, prop: property})
	if d.subscribed {
		target.RegisterFunctionOnPropertyValueChanged(property, d.onChanged, d.key)
	}
}

func (d *Dependencies) onChanged(any) {
	d.currentDependency()
}

// subscribe registers the updater on every recorded pair, keyed by this
// tracker's id.
func (d *Dependencies) subscribe() {
	if d.subscribed {
		return
	}
	d.subscribed = true
	for _, dep := range d.dependencies {
		dep.obj.RegisterFunctionOnPropertyValueChanged(dep.prop, d.onChanged, d.key)
	}
}

// Dispose unsubscribes every recorded pair.
func (d *Dependencies) Dispose() {
	for _, dep := range d.dependencies {
		dep.obj.UnRegisterFunctionOnPropertyValueChanged(dep.prop, d.key)
	}
	d.subscribed = false
}

// ComputedUpdater holds a computed formula and the dependency tracker
// from its latest evaluation.
type ComputedUpdater struct {
	updater      func() any
	dependencies *Dependencies
	disposed     bool
}

// NewComputedUpdater creates a holder for updater.
func NewComputedUpdater(updater func() any) *ComputedUpdater {
	return &ComputedUpdater{updater: updater}
}

// Updater returns the formula.
func (c *ComputedUpdater) Updater() func() any {
	return c.updater
}

// Dependencies returns the currently installed tracker, or nil.
func (c *ComputedUpdater) Dependencies() *Dependencies {
	return c.dependencies
}

// SetDependencies disposes the installed tracker, then installs and
// subscribes deps.
func (c *ComputedUpdater) SetDependencies(deps *Dependencies) {
	c.clearDependencies()
	c.dependencies = deps
	if deps != nil {
		deps.subscribe()
	}
}

func (c *ComputedUpdater) clearDependencies() {
	if c.dependencies != nil {
		c.dependencies.Dispose()
		c.dependencies = nil
	}
}

// Evaluate runs the formula inside a dependency collection and installs
// the new tracker. onChange is called whenever a recorded pair changes.
// (target, property) names the value being computed so that reading it
// does not subscribe the formula to itself.
func (c *ComputedUpdater) Evaluate(onChange func(), target *Base, property string) (any, error) {
	if err := StartCollectDependencies(onChange, target, property); err != nil {
		return nil, err
	}
	var value any
	func() {
		defer func() {
			if r := recover(); r != nil {
				FinishCollectDependencies()
				panic(r)
			}
		}()
		value = c.updater()
	}()
	deps := FinishCollectDependencies()
	if c.disposed {
		return value, nil
	}
	c.SetDependencies(deps)
	return value, nil
}

// Dispose removes the installed subscriptions. A disposed updater never
// subscribes again.
func (c *ComputedUpdater) Dispose() {
	c.disposed = true
	c.clearDependencies()
}

// IsDisposed reports whether Dispose was called.
func (c *ComputedUpdater) IsDisposed() bool {
	return c.disposed
}

// BindComputed evaluates c, stores the result in name and re-evaluates it
// whenever a property read by the formula changes. Panics with
// ErrNestedDependencies if a re-evaluation starts inside another
// collection.
func (b *Base) BindComputed(name string, c *ComputedUpdater) error {
	var recompute func()
	recompute = func() {
		if c.IsDisposed() {
			return
		}
		value, err := c.Evaluate(recompute, b, name)
		if err != nil {
			panic(err)
		}
		b.SetPropertyValue(name, value)
	}
	value, err := c.Evaluate(recompute, b, name)
	if err != nil {
		return err
	}
	b.SetPropertyValue(name, value)
	return nil
}
