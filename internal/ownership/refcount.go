package ownership

import (
	"sync"
	"sync/atomic"
)

// RefCount tracks participants in shared ownership. It starts at one for the
// creator; the release that drops it to zero runs the finalizer exactly once.
type RefCount struct {
	refs     atomic.Int64
	finalize func() error
	once     sync.Once
	err      error
}

func NewRefCount(finalize func() error) *RefCount {
	rc := &RefCount{finalize: finalize}
	rc.refs.Store(1)
	return rc
}

func (r *RefCount) Retain() {
	r.refs.Add(1)
}

func (r *RefCount) Release() error {
	for {
		current := r.refs.Load()
		if current <= 0 {
			return nil
		}
		if r.refs.CompareAndSwap(current, current-1) {
			if current == 1 {
				r.once.Do(
					func() {
						if r.finalize != nil {
							r.err = r.finalize()
						}
					},
				)
				return r.err
			}
			return nil
		}
	}
}

func (r *RefCount) Refs() int64 {
	return r.refs.Load()
}
