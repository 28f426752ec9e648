package storage

import (
	"context"
	"log"
	"sync"
	"time"
)

// Persister implements write-behind persistence: stores mark their document
// dirty after a mutation and a background worker flushes snapshots to the
// backend. In-memory state stays the source of truth for the running
// session, so a failed write is only logged and the document stays dirty
// for the next tick.
type Persister struct {
	backend  Backend
	interval time.Duration

	mu    sync.Mutex
	docs  map[string]Document
	dirty map[string]bool
}

func NewPersister(backend Backend, interval time.Duration) *Persister {
	if interval <= 0 {
		interval = time.Second
	}
	return &Persister{
		backend:  backend,
		interval: interval,
		docs:     make(map[string]Document),
		dirty:    make(map[string]bool),
	}
}

// Register binds a document name to its store. Must be called before Start.
func (p *Persister) Register(name string, doc Document) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.docs[name] = doc
}

func (p *Persister) MarkDirty(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.docs[name]; !ok {
		return
	}
	p.dirty[name] = true
}

// Start runs the flush worker until ctx is cancelled, then takes a final
// synchronous pass so shutdown does not lose the last mutations.
func (p *Persister) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	go func() {
		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				p.Flush(context.Background())
				return
			case <-ticker.C:
				p.Flush(ctx)
			}
		}
	}()
}

// Flush writes every dirty document. Failed documents stay dirty.
func (p *Persister) Flush(ctx context.Context) {
	p.mu.Lock()
	pending := make(map[string]Document, len(p.dirty))
	for name := range p.dirty {
		pending[name] = p.docs[name]
		delete(p.dirty, name)
	}
	p.mu.Unlock()

	for name, doc := range pending {
		data, err := doc.Snapshot()
		if err != nil {
			log.Printf("request-service: snapshot %s: %v", name, err)
			p.MarkDirty(name)
			continue
		}
		if err := p.backend.Save(ctx, name, data); err != nil {
			log.Printf("request-service: save %s: %v", name, err)
			p.MarkDirty(name)
		}
	}
}
