package serializer

import (
	"encoding/json"
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/snnfw/neurostore/lib/model"
)

// FactoryFunc deserializes a JSON payload into a concrete object
type FactoryFunc func(payload []byte) (model.Object, error)

// Registry maps type tags to deserialization factories. Registering a
// tag twice replaces the previous factory (last registration wins).
//
// Thread-safety: all methods are safe for concurrent use.
type Registry struct {
	factories *xsync.MapOf[string, FactoryFunc]
}

// NewRegistry creates an empty factory registry
func NewRegistry() *Registry {
	return &Registry{
		factories: xsync.NewMapOf[string, FactoryFunc](),
	}
}

// Register binds a factory to a type tag, replacing any previous binding
func (r *Registry) Register(typeTag string, factory FactoryFunc) {
	r.factories.Store(typeTag, factory)
}

// Lookup returns the factory for a type tag
func (r *Registry) Lookup(typeTag string) (FactoryFunc, bool) {
	return r.factories.Load(typeTag)
}

// Types returns all registered type tags
func (r *Registry) Types() []string {
	var types []string
	r.factories.Range(func(typeTag string, _ FactoryFunc) bool {
		types = append(types, typeTag)
		return true
	})
	return types
}

// --------------------------------------------------------------------------
// Object <-> bytes helpers
// --------------------------------------------------------------------------

// EncodeObject wraps an object into an envelope and serializes it
func EncodeObject(s ISerializer, obj model.Object) ([]byte, error) {
	payload, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("could not marshal %s %d: %w", obj.ObjectType(), obj.ObjectID(), err)
	}

	return s.Serialize(Envelope{
		Type:    obj.ObjectType(),
		Payload: payload,
	})
}

// DecodeObject deserializes an envelope and dispatches the payload to the
// factory registered for its type tag
func DecodeObject(s ISerializer, r *Registry, data []byte) (model.Object, error) {
	var env Envelope
	if err := s.Deserialize(data, &env); err != nil {
		return nil, fmt.Errorf("could not deserialize envelope: %w", err)
	}

	factory, ok := r.Lookup(env.Type)
	if !ok {
		return nil, fmt.Errorf("no factory registered for type %q", env.Type)
	}

	obj, err := factory(env.Payload)
	if err != nil {
		return nil, fmt.Errorf("factory for type %q failed: %w", env.Type, err)
	}

	return obj, nil
}
