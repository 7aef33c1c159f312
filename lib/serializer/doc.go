// Package serializer converts neural objects to and from their stored
// byte representation. It defines a common interface and multiple
// implementations for serializing and deserializing the envelopes that
// wrap every persisted object.
//
// The package focuses on:
//   - Providing a consistent interface for different serialization formats
//   - Dispatching stored payloads to per-type deserialization factories
//   - Encoding object IDs as fixed-width, order-preserving storage keys
//
// Key Components:
//
//   - Envelope: The stored form of every object. The type tag selects the
//     deserialization factory, the payload holds the object's JSON encoding.
//     Keeping the payload JSON across all envelope formats means a factory
//     works regardless of which serializer wrote the entry.
//
//   - ISerializer: Core interface that all serializer implementations must
//     satisfy.
//
//   - binarySerializerImpl: Custom binary format implementation optimized
//     for speed and space efficiency. Uses a flag-based approach to encode
//     only present fields, resulting in compact serialized data with
//     minimal overhead.
//
//   - gobSerializerImpl: Implementation using Go's built-in gob encoding,
//     offering good compatibility with Go's type system but with larger
//     serialized sizes.
//
//   - jsonSerializerImpl: Implementation using JSON encoding, useful for
//     debugging the stored data with external tools, but with lower
//     performance.
//
//   - Registry: Maps type tags to FactoryFunc deserializers. Registration
//     is last-wins, so applications can override the built-in factories
//     registered by RegisterDefaults.
//
// Thread Safety:
//
//	All serializer implementations are stateless and safe for concurrent
//	use. The Registry is backed by a concurrent map and safe as well.
//
// Usage:
//
//	serializer := serializer.NewBinarySerializer()
//	registry := serializer.NewRegistry()
//	serializer.RegisterDefaults(registry)
//
//	data, err := serializer.EncodeObject(serializer, neuron)
//	// ... store data ...
//	obj, err := serializer.DecodeObject(serializer, registry, data)
package serializer
