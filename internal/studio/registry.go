package studio

import (
	"container/list"
	"context"
	"sync"

	"github.com/cristianadrielbraun/qrdesigner/internal/constant"
	appLogger "github.com/cristianadrielbraun/qrdesigner/internal/logger"
)

// Factory builds the controller for a client seen for the first time.
type Factory func(ctx context.Context, clientID string) *Controller

// Registry keeps the most recently used controllers, one per client.
type Registry struct {
	capacity int
	factory  Factory
	items    map[string]*list.Element
	queue    *list.List
	mutex    sync.Mutex
}

type entry struct {
	clientID   string
	controller *Controller
}

// NewRegistry creates a registry holding at most capacity sessions.
func NewRegistry(capacity int, factory Factory) *Registry {
	if capacity < 1 {
		capacity = 1
	}
	return &Registry{
		capacity: capacity,
		factory:  factory,
		items:    make(map[string]*list.Element),
		queue:    list.New(),
	}
}

// Get returns the client's controller, creating it with the factory when
// the client has no live session.
func (r *Registry) Get(ctx context.Context, clientID string) *Controller {
	c, _ := r.Acquire(ctx, clientID)
	return c
}

// Acquire is Get that also reports whether the session was created by this
// call.
func (r *Registry) Acquire(ctx context.Context, clientID string) (*Controller, bool) {
	if c, ok := r.Peek(clientID); ok {
		return c, false
	}

	// The factory may hit storage, so it runs without the lock.
	created := r.factory(ctx, clientID)

	r.mutex.Lock()
	if element, exists := r.items[clientID]; exists {
		r.queue.MoveToFront(element)
		r.mutex.Unlock()
		created.Close()
		return element.Value.(*entry).controller, false
	}

	element := r.queue.PushFront(&entry{clientID: clientID, controller: created})
	r.items[clientID] = element

	var evicted *entry
	if r.queue.Len() > r.capacity {
		evicted = r.evict()
	}
	size := r.queue.Len()
	r.mutex.Unlock()

	appLogger.CtxInfo(ctx, constant.MsgSessionCreated, appLogger.LoggerInfo{
		ContextFunction: constant.CtxRegistry,
		Data: map[string]interface{}{
			constant.DataClientID: clientID,
			constant.DataSessions: size,
		},
	})

	if evicted != nil {
		evicted.controller.Close()
		appLogger.CtxInfo(ctx, constant.MsgSessionEvicted, appLogger.LoggerInfo{
			ContextFunction: constant.CtxRegistry,
			Data: map[string]interface{}{
				constant.DataClientID: evicted.clientID,
			},
		})
	}
	return created, true
}

// Peek returns a live controller and marks it as recently used.
func (r *Registry) Peek(clientID string) (*Controller, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	element, exists := r.items[clientID]
	if !exists {
		return nil, false
	}
	r.queue.MoveToFront(element)
	return element.Value.(*entry).controller, true
}

// Remove ends a client's session.
func (r *Registry) Remove(clientID string) {
	r.mutex.Lock()
	element, exists := r.items[clientID]
	if exists {
		r.queue.Remove(element)
		delete(r.items, clientID)
	}
	r.mutex.Unlock()

	if exists {
		element.Value.(*entry).controller.Close()
	}
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.queue.Len()
}

// Close ends every session.
func (r *Registry) Close() {
	r.mutex.Lock()
	entries := make([]*entry, 0, r.queue.Len())
	for e := r.queue.Front(); e != nil; e = e.Next() {
		entries = append(entries, e.Value.(*entry))
	}
	r.items = make(map[string]*list.Element)
	r.queue = list.New()
	r.mutex.Unlock()

	for _, e := range entries {
		e.controller.Close()
	}
}

// evict removes the least recently used session. Callers hold r.mutex.
func (r *Registry) evict() *entry {
	element := r.queue.Back()
	if element == nil {
		return nil
	}
	r.queue.Remove(element)
	e := element.Value.(*entry)
	delete(r.items, e.clientID)
	return e
}
