package mep

import "github.com/google/uuid"

// Meta carries the identity shared by all MEP document objects, plus the
// schema version its properties were initialized with. Schema defaults are
// applied exactly once per version at construction and on load, replacing
// the scattered property-existence checks of older designs.
type Meta struct {
	ObjectID      uuid.UUID `json:"id" msgpack:"id"`
	Name          string    `json:"name" msgpack:"name"`
	SchemaVersion int       `json:"schema_version" msgpack:"schema_version"`
}

func newMeta(name string) Meta {
	return Meta{ObjectID: uuid.New(), Name: name}
}

// ID returns the object's unique identifier.
func (m *Meta) ID() uuid.UUID { return m.ObjectID }

// Label returns the human-readable object name.
func (m *Meta) Label() string { return m.Name }
