// Package document provides the in-memory document-object model shared by
// all MEP entities: identity, property access, synchronous change
// notification and transactional edits with undo. It stands in for the host
// CAD application's document and recompute machinery.
package document

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// PropertyBag is the property storage capability every document object
// implements.
type PropertyBag interface {
	GetProperty(name string) (any, bool)
	SetProperty(name string, value any) error
	HasProperty(name string) bool
}

// RecomputeHook receives synchronous change notifications after a property
// edit. Implementations must be idempotent: the hook may fire any number of
// times per edit without corrupting state.
type RecomputeHook interface {
	OnChanged(prop string) error
}

// Object is a document-resident entity.
type Object interface {
	ID() uuid.UUID
	TypeName() string
	Label() string
	PropertyBag
	RecomputeHook
}

// Document owns a set of objects and serializes all edits. Property changes
// are dispatched to the owning object's RecomputeHook within the same call.
type Document struct {
	mu      sync.Mutex
	objects map[uuid.UUID]Object
	order   []uuid.UUID
	txn     *transaction
}

// New returns an empty document.
func New() *Document {
	return &Document{objects: make(map[uuid.UUID]Object)}
}

// AddObject inserts an object into the document.
func (d *Document) AddObject(obj Object) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := obj.ID()
	if _, exists := d.objects[id]; exists {
		return fmt.Errorf("document: object %s already present", id)
	}
	d.objects[id] = obj
	d.order = append(d.order, id)
	if d.txn != nil {
		d.txn.added = append(d.txn.added, id)
	}
	return nil
}

// Object returns the object with the given id.
func (d *Document) Object(id uuid.UUID) (Object, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	obj, ok := d.objects[id]
	return obj, ok
}

// Objects returns all objects in insertion order.
func (d *Document) Objects() []Object {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Object, 0, len(d.order))
	for _, id := range d.order {
		if obj, ok := d.objects[id]; ok {
			out = append(out, obj)
		}
	}
	return out
}

// Remove deletes an object from the document.
func (d *Document) Remove(id uuid.UUID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.objects[id]; !ok {
		return false
	}
	delete(d.objects, id)
	for i, oid := range d.order {
		if oid == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return true
}

// SetProperty edits a property on an object and synchronously notifies its
// recompute hook. If a transaction is open, the prior value is recorded so
// an abort can restore it.
func (d *Document) SetProperty(id uuid.UUID, name string, value any) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	obj, ok := d.objects[id]
	if !ok {
		return fmt.Errorf("document: no object %s", id)
	}

	prior, had := obj.GetProperty(name)

	if err := obj.SetProperty(name, value); err != nil {
		return err
	}
	if d.txn != nil {
		d.txn.notePrior(obj, name, prior, had)
	}
	return obj.OnChanged(name)
}

// View runs fn on the object with the given id while holding the document
// lock. Reads of entity fields and forced recomputes from outside the
// property-edit path must go through here so they serialize against
// concurrent SetProperty calls.
func (d *Document) View(id uuid.UUID, fn func(Object) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	obj, ok := d.objects[id]
	if !ok {
		return fmt.Errorf("document: no object %s", id)
	}
	return fn(obj)
}

// ForEach runs fn on every object in insertion order while holding the
// document lock.
func (d *Document) ForEach(fn func(Object) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, id := range d.order {
		if err := fn(d.objects[id]); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of objects in the document.
func (d *Document) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.objects)
}
