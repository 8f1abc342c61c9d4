// Package reactive provides the observable value containers behind the
// param-state tree.
//
// A Signal holds one value and a set of Listeners. Setting a different value
// notifies every listener synchronously after the write is committed:
//
//	id := reactive.NewSignal[any](nil)
//	stop := id.Subscribe(reactive.ListenerFunc(func() { fmt.Println("changed") }))
//	defer stop()
//	id.Set(int64(42)) // prints "changed"
//
// A Batch groups updates to several signals so that each listener is
// notified once, after all of them have been applied:
//
//	b := reactive.NewBatch()
//	a.SetIn(b, 1)
//	c.SetIn(b, 2)
//	b.Commit()
//
// The package does not depend on any UI framework; adapters subscribe
// ordinary Listeners.
package reactive
