package document

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/neobones/melimep/internal/mep"
)

// snapshot is the wire form of a document: objects grouped by concrete type.
type snapshot struct {
	Pipes    []*mep.WaterPipe       `msgpack:"pipes"`
	Fixtures []*mep.SanitaryFixture `msgpack:"fixtures"`
	Valves   []*mep.Valve           `msgpack:"valves"`
}

// Save writes the document as a msgpack snapshot. The document lock is held
// for the whole encode, so concurrent edits cannot tear the written state.
func (d *Document) Save(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var snap snapshot
	for _, id := range d.order {
		obj := d.objects[id]
		switch o := obj.(type) {
		case *mep.WaterPipe:
			snap.Pipes = append(snap.Pipes, o)
		case *mep.SanitaryFixture:
			snap.Fixtures = append(snap.Fixtures, o)
		case *mep.Valve:
			snap.Valves = append(snap.Valves, o)
		default:
			return fmt.Errorf("document: cannot snapshot object type %s", obj.TypeName())
		}
	}
	return msgpack.NewEncoder(w).Encode(&snap)
}

// Load reads a msgpack snapshot into a new document, binding pipes to the
// given project catalog.
func Load(r io.Reader, catalog *mep.Catalog) (*Document, error) {
	var snap snapshot
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("document: decoding snapshot: %w", err)
	}

	d := New()
	for _, p := range snap.Pipes {
		p.Bind(catalog)
		if err := d.AddObject(p); err != nil {
			return nil, err
		}
	}
	for _, f := range snap.Fixtures {
		if err := d.AddObject(f); err != nil {
			return nil, err
		}
	}
	for _, v := range snap.Valves {
		if err := d.AddObject(v); err != nil {
			return nil, err
		}
	}
	return d, nil
}
