// Package checkpoint persists a Simulator's event heap and clock to a
// SQLite database, and restores it into a fresh Simulator carrying the same
// registered objects (spec.md §6, "Persisted state layout" — the core
// exposes the heap as an opaque serializable snapshot and leaves message
// payload serialization to the caller).
package checkpoint

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/fulcrumsim/desim/desim"
)

// MessageCodec turns a desim.Message into bytes and back, keyed by kind.
// The core has no notion of a message's concrete Go type, so a codec must
// be supplied by the model before a checkpoint can round-trip event
// payloads.
type MessageCodec interface {
	Encode(msg desim.Message) ([]byte, error)
	Decode(kind desim.Kind, data []byte) (desim.Message, error)
}

// JSONCodec is a MessageCodec backed by encoding/json. Register every
// message type the model uses before calling Save or Load.
type JSONCodec struct {
	types map[desim.Kind]reflect.Type
}

// NewJSONCodec creates an empty codec.
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{types: make(map[desim.Kind]reflect.Type)}
}

// Register associates kind with the concrete type of sample, so Decode
// knows what to unmarshal a given kind's bytes into.
func (c *JSONCodec) Register(kind desim.Kind, sample desim.Message) {
	c.types[kind] = reflect.TypeOf(sample)
}

// Encode marshals msg as JSON.
func (c *JSONCodec) Encode(msg desim.Message) ([]byte, error) {
	return json.Marshal(msg)
}

// Decode unmarshals data into the type registered for kind.
func (c *JSONCodec) Decode(kind desim.Kind, data []byte) (desim.Message, error) {
	t, ok := c.types[kind]
	if !ok {
		return nil, fmt.Errorf("checkpoint: no message type registered for kind %q", kind)
	}

	v := reflect.New(t)
	if err := json.Unmarshal(data, v.Interface()); err != nil {
		return nil, err
	}

	msg, ok := v.Elem().Interface().(desim.Message)
	if !ok {
		return nil, fmt.Errorf("checkpoint: type registered for kind %q is not a desim.Message", kind)
	}

	return msg, nil
}
