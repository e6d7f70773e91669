package document

import (
	"fmt"

	"github.com/google/uuid"
)

type priorValue struct {
	obj   Object
	prop  string
	value any
	had   bool
}

type transaction struct {
	name   string
	priors []priorValue
	seen   map[string]bool
	added  []uuid.UUID
}

// notePrior records the pre-edit value of a property the first time it is
// touched inside the transaction. Called only after the edit succeeded, so
// an abort never tries to restore a property that rejects writes.
func (t *transaction) notePrior(obj Object, prop string, value any, had bool) {
	key := obj.ID().String() + "/" + prop
	if t.seen[key] {
		return
	}
	t.seen[key] = true
	t.priors = append(t.priors, priorValue{obj: obj, prop: prop, value: value, had: had})
}

// OpenTransaction begins a named transaction. Only one transaction may be
// open at a time.
func (d *Document) OpenTransaction(name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.txn != nil {
		return fmt.Errorf("document: transaction %q already open", d.txn.name)
	}
	d.txn = &transaction{name: name, seen: make(map[string]bool)}
	return nil
}

// CommitTransaction closes the open transaction, keeping all edits.
func (d *Document) CommitTransaction() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.txn == nil {
		return fmt.Errorf("document: no open transaction")
	}
	d.txn = nil
	return nil
}

// AbortTransaction closes the open transaction, restoring recorded property
// values in reverse edit order and removing objects added during it.
// Restored edits re-fire recompute hooks so derived state stays consistent.
func (d *Document) AbortTransaction() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.txn == nil {
		return fmt.Errorf("document: no open transaction")
	}
	txn := d.txn
	d.txn = nil

	for i := len(txn.priors) - 1; i >= 0; i-- {
		p := txn.priors[i]
		if !p.had {
			continue
		}
		if err := p.obj.SetProperty(p.prop, p.value); err != nil {
			return fmt.Errorf("document: abort failed restoring %s.%s: %w", p.obj.Label(), p.prop, err)
		}
		if err := p.obj.OnChanged(p.prop); err != nil {
			return fmt.Errorf("document: abort recompute failed for %s.%s: %w", p.obj.Label(), p.prop, err)
		}
	}

	for _, id := range txn.added {
		delete(d.objects, id)
		for i, oid := range d.order {
			if oid == id {
				d.order = append(d.order[:i], d.order[i+1:]...)
				break
			}
		}
	}
	return nil
}
