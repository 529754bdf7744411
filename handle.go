package fstkit

import "sync/atomic"

// refCount is the share count behind copy-on-write handles. Every
// handle produced by Copy(false) shares one counter with its source;
// the counter update is atomic but the implementation object it guards
// is not independently synchronized (see the Fst concurrency contract).
type refCount struct {
	n atomic.Int32
}

func newRefCount() *refCount {
	r := &refCount{}
	r.n.Store(1)
	return r
}

func (r *refCount) inc() { r.n.Add(1) }

func (r *refCount) dec() { r.n.Add(-1) }

// shared reports whether more than one handle references the
// implementation, in which case a mutator must clone first.
func (r *refCount) shared() bool { return r.n.Load() > 1 }
