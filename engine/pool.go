package engine

import "sync"

// BatchPool manages a pool of reusable Batch objects.
// After warmup, frame preparation allocates nothing for the batch itself.
//
// Usage:
//
//	batch := engine.DefaultPool.Get()
//	defer engine.DefaultPool.Put(batch)
//	// build and submit batch...
type BatchPool struct {
	pool sync.Pool
}

// NewBatchPool creates a new batch pool.
func NewBatchPool() *BatchPool {
	return &BatchPool{
		pool: sync.Pool{
			New: func() any {
				return NewBatch()
			},
		},
	}
}

// Get retrieves a batch from the pool, reset and ready for use.
func (p *BatchPool) Get() *Batch {
	b := p.pool.Get().(*Batch)
	b.Reset()
	return b
}

// Put returns a batch to the pool for reuse.
func (p *BatchPool) Put(b *Batch) {
	if b == nil {
		return
	}
	p.pool.Put(b)
}

// DefaultPool is a global batch pool for convenience.
// For performance-critical code, consider creating dedicated pools.
var DefaultPool = NewBatchPool()
