// Package model provides the reactive object core shared by every form
// entity.
//
// Every model object embeds Base, which owns a property store and a
// synchronous change pipeline. Reading a property while a dependency
// collection is active records the read, so computed values re-evaluate
// automatically when any property they read changes.
//
// # Core Types
//
// Base is the reactive object:
//
//	q := model.New("question")
//	q.SetPropertyValue("title", "Age")     // runs the change pipeline
//	title := q.GetPropertyValue("title")  // records a dependency read
//
// Embedding types call Init with themselves so optional hooks are
// discovered through capability interfaces:
//
//	type Question struct{ model.Base }
//
//	func NewQuestion() *Question {
//	    q := &Question{}
//	    q.Init(q, "question")
//	    return q
//	}
//
// Sequence is an instrumented ordered collection owned by a property.
// Structural edits emit an ArrayChanges diff and re-run the owner's
// change pipeline:
//
//	choices := q.CreateNewArray("choices", nil, nil)
//	choices.Push("yes")  // ArrayChanges{Index: 0, ItemsAdded: ["yes"]}
//
// ComputedUpdater tracks the properties its formula reads:
//
//	full := model.NewComputedUpdater(func() any {
//	    return first.GetPropertyValue("text").(string) + " " + last.GetPropertyValue("text").(string)
//	})
//	err := q.BindComputed("fullName", full)
//
// Bindings maps local property names to external value names and pushes
// changed values outward through the BindingValueUpdater hook.
//
// # Change Pipeline
//
// A successful property write runs, in order: binding propagation, the
// PropertyValueChangedHandler hook, the OnPropertyChanged event, the
// survey/self notifiers, expression properties, and per-property
// listeners. Nothing in the pipeline recovers panics raised by handlers.
// Writes from handlers may recurse; there is no cycle detection.
//
// # Threading
//
// A model is driven from a single goroutine. The dependency collector
// slot is kept per goroutine, so at most one collection is active on a
// goroutine at any time.
package model
