package model

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// trackingContext holds the dependency collector for a goroutine.
type trackingContext struct {
	// collector records property reads while a computed value evaluates.
	// nil means reads are not recorded.
	collector *Dependencies
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// openCollections counts open collections across goroutines. Reads skip
// the goroutine lookup while it is zero.
var openCollections atomic.Int64

// getGoroutineID returns the id of the current goroutine, parsed from the
// "goroutine <id> " stack header.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := 10; i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// getTrackingContext returns the tracking context for the current
// goroutine, creating it on first use.
func getTrackingContext() *trackingContext {
	gid := getGoroutineID()

	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}

	ctx := &trackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// cleanupGoroutineContext drops the tracking context of the current
// goroutine.
func cleanupGoroutineContext() {
	trackingContexts.Delete(getGoroutineID())
}

// StartCollectDependencies opens a dependency collection on the current
// goroutine. updater is registered on every property read until
// FinishCollectDependencies; reads of (target, property) itself are
// ignored. It returns ErrNestedDependencies if a collection is already
// open.
func StartCollectDependencies(updater func(), target *Base, property string) error {
	ctx := getTrackingContext()
	if ctx.collector != nil {
		return ErrNestedDependencies
	}
	ctx.collector = newDependencies(updater, target, property)
	openCollections.Add(1)
	return nil
}

// FinishCollectDependencies closes the collection opened on the current
// goroutine and returns it, or nil if none was open.
func FinishCollectDependencies() *Dependencies {
	ctx, ok := trackingContexts.Load(getGoroutineID())
	if !ok {
		return nil
	}
	deps := ctx.(*trackingContext).collector
	cleanupGoroutineContext()
	if deps != nil {
		openCollections.Add(-1)
	}
	return deps
}

// IsCollectingDependencies reports whether a collection is open on the
// current goroutine.
func IsCollectingDependencies() bool {
	ctx, ok := trackingContexts.Load(getGoroutineID())
	return ok && ctx.(*trackingContext).collector != nil
}

// collectDependency records a read of (target, property) on the open
// collection, if any.
func collectDependency(target *Base, property string) {
	if openCollections.Load() == 0 {
		return
	}
	ctx, ok := trackingContexts.Load(getGoroutineID())
	if !ok {
		return
	}
	if deps := ctx.(*trackingContext).collector; deps != nil {
		deps.addDependency(target, property)
	}
}
