package serializer

import "fmt"

// Envelope is the stored representation of every object: the type tag
// selects the deserialization factory, the payload holds the JSON
// encoding of the object itself.
type Envelope struct {
	Type    string `json:"type"`
	Payload []byte `json:"payload"`
}

// ISerializer is the interface for all envelope serializers
type ISerializer interface {
	// Serialize serializes an Envelope into a byte array
	// It returns the serialized byte array and an error if any
	Serialize(env Envelope) ([]byte, error)
	// Deserialize deserializes a byte array into an Envelope
	// It takes a byte array and a pointer to an Envelope as parameters
	// It returns an error if any
	Deserialize(b []byte, env *Envelope) error
}

// GetSerializer returns the serializer implementation registered under
// the given name ("json", "gob" or "binary")
func GetSerializer(name string) (ISerializer, error) {
	switch name {
	case "json":
		return NewJSONSerializer(), nil
	case "gob":
		return NewGOBSerializer(), nil
	case "binary":
		return NewBinarySerializer(), nil
	default:
		return nil, fmt.Errorf("unknown serializer: %q (supported: json, gob, binary)", name)
	}
}
