package serializer

import (
	"bytes"
	"testing"

	"github.com/snnfw/neurostore/lib/model"
)

// all serializer implementations under test
func allSerializers() map[string]ISerializer {
	return map[string]ISerializer{
		"json":   NewJSONSerializer(),
		"gob":    NewGOBSerializer(),
		"binary": NewBinarySerializer(),
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	envelopes := []Envelope{
		{Type: model.TypeNeuron, Payload: []byte(`{"type":"Neuron","id":100000000000000}`)},
		{Type: model.TypeSynapse, Payload: []byte(`{"type":"Synapse","id":400000000000000}`)},
		{Type: "", Payload: nil},
		{Type: "Custom", Payload: []byte{}},
		{Type: model.TypeCluster, Payload: bytes.Repeat([]byte("x"), 64*1024)},
	}

	for name, s := range allSerializers() {
		t.Run(name, func(t *testing.T) {
			for _, original := range envelopes {
				data, err := s.Serialize(original)
				if err != nil {
					t.Fatalf("Serialize failed: %v", err)
				}

				var decoded Envelope
				if err := s.Deserialize(data, &decoded); err != nil {
					t.Fatalf("Deserialize failed: %v", err)
				}

				if decoded.Type != original.Type {
					t.Errorf("Expected type %q, got %q", original.Type, decoded.Type)
				}
				if len(original.Payload) > 0 && !bytes.Equal(decoded.Payload, original.Payload) {
					t.Errorf("Payload mismatch for type %q", original.Type)
				}
			}
		})
	}
}

func TestDeserializeInvalidData(t *testing.T) {
	for name, s := range allSerializers() {
		t.Run(name, func(t *testing.T) {
			var env Envelope
			if err := s.Deserialize(nil, &env); err == nil {
				t.Errorf("Expected error for nil input")
			}
		})
	}
}

func TestGetSerializer(t *testing.T) {
	for _, name := range []string{"json", "gob", "binary"} {
		if _, err := GetSerializer(name); err != nil {
			t.Errorf("Expected serializer %q to exist: %v", name, err)
		}
	}

	if _, err := GetSerializer("yaml"); err == nil {
		t.Errorf("Expected unknown serializer name to fail")
	}
}

func TestObjectRoundTrip(t *testing.T) {
	registry := NewRegistry()
	RegisterDefaults(registry)

	factory := model.NewFactory()
	neuron := factory.CreateNeuron(50.0, 0.95, 20)
	neuron.SetPosition(1.0, 2.0, 3.0)
	neuron.AddDendrite(model.DendriteIDStart)

	synapse := factory.CreateSynapse(model.AxonIDStart, model.DendriteIDStart, 0.8, 1.5)

	objects := []model.Object{neuron, synapse, factory.CreateCluster()}

	for name, s := range allSerializers() {
		t.Run(name, func(t *testing.T) {
			for _, original := range objects {
				data, err := EncodeObject(s, original)
				if err != nil {
					t.Fatalf("EncodeObject failed: %v", err)
				}

				decoded, err := DecodeObject(s, registry, data)
				if err != nil {
					t.Fatalf("DecodeObject failed: %v", err)
				}

				if decoded.ObjectID() != original.ObjectID() {
					t.Errorf("Expected ID %d, got %d", original.ObjectID(), decoded.ObjectID())
				}
				if decoded.ObjectType() != original.ObjectType() {
					t.Errorf("Expected type %q, got %q", original.ObjectType(), decoded.ObjectType())
				}
			}
		})
	}

	// The neuron's fields must survive the round trip intact
	s := NewBinarySerializer()
	data, err := EncodeObject(s, neuron)
	if err != nil {
		t.Fatalf("EncodeObject failed: %v", err)
	}
	decoded, err := DecodeObject(s, registry, data)
	if err != nil {
		t.Fatalf("DecodeObject failed: %v", err)
	}
	decodedNeuron, ok := decoded.(*model.Neuron)
	if !ok {
		t.Fatalf("Expected *model.Neuron, got %T", decoded)
	}
	if !decodedNeuron.HasPosition() || decodedNeuron.Position.Y != 2.0 {
		t.Errorf("Expected position to survive round trip")
	}
	if len(decodedNeuron.DendriteIDs) != 1 {
		t.Errorf("Expected dendrite list to survive round trip")
	}
}

func TestDecodeMissingFactory(t *testing.T) {
	registry := NewRegistry() // no defaults registered
	s := NewJSONSerializer()

	neuron := model.NewNeuron(model.NeuronIDStart, 50.0, 0.95, 20)
	data, err := EncodeObject(s, neuron)
	if err != nil {
		t.Fatalf("EncodeObject failed: %v", err)
	}

	if _, err := DecodeObject(s, registry, data); err == nil {
		t.Errorf("Expected decode to fail without a registered factory")
	}
}

func TestRegisterLastWins(t *testing.T) {
	registry := NewRegistry()
	RegisterDefaults(registry)

	// Override the neuron factory
	called := false
	registry.Register(model.TypeNeuron, func(payload []byte) (model.Object, error) {
		called = true
		return model.NewNeuron(model.NeuronIDStart, 0, 0, 0), nil
	})

	s := NewJSONSerializer()
	data, err := EncodeObject(s, model.NewNeuron(model.NeuronIDStart+7, 50.0, 0.95, 20))
	if err != nil {
		t.Fatalf("EncodeObject failed: %v", err)
	}

	if _, err := DecodeObject(s, registry, data); err != nil {
		t.Fatalf("DecodeObject failed: %v", err)
	}
	if !called {
		t.Errorf("Expected the overriding factory to be used")
	}
}

func TestFactoryRejectsWrongDiscriminator(t *testing.T) {
	registry := NewRegistry()
	RegisterDefaults(registry)

	factory, ok := registry.Lookup(model.TypeNeuron)
	if !ok {
		t.Fatalf("Expected neuron factory to be registered")
	}

	// A synapse payload handed to the neuron factory must be rejected
	if _, err := factory([]byte(`{"type":"Synapse","id":400000000000000}`)); err == nil {
		t.Errorf("Expected factory to reject mismatched discriminator")
	}
}

func TestCrossFormatPayloadCompatibility(t *testing.T) {
	registry := NewRegistry()
	RegisterDefaults(registry)

	neuron := model.NewNeuron(model.NeuronIDStart, 50.0, 0.95, 20)

	// Write with one format, re-wrap the envelope with another: the JSON
	// payload must decode identically since factories never see the
	// envelope encoding
	writer := NewBinarySerializer()
	data, err := EncodeObject(writer, neuron)
	if err != nil {
		t.Fatalf("EncodeObject failed: %v", err)
	}

	var env Envelope
	if err := writer.Deserialize(data, &env); err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}

	rewrapped, err := NewJSONSerializer().Serialize(env)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	decoded, err := DecodeObject(NewJSONSerializer(), registry, rewrapped)
	if err != nil {
		t.Fatalf("DecodeObject failed: %v", err)
	}
	if decoded.ObjectID() != neuron.ID {
		t.Errorf("Expected ID %d, got %d", neuron.ID, decoded.ObjectID())
	}
}

func TestKeyCodec(t *testing.T) {
	ids := []uint64{0, 1, model.NeuronIDStart, model.ClusterIDStart + 42, ^uint64(0)}

	for _, id := range ids {
		key := EncodeKey(id)
		if len(key) != KeySize {
			t.Errorf("Expected %d-byte key, got %d", KeySize, len(key))
		}

		decoded, err := DecodeKey(key)
		if err != nil {
			t.Fatalf("DecodeKey failed: %v", err)
		}
		if decoded != id {
			t.Errorf("Expected ID %d, got %d", id, decoded)
		}
	}

	// Ascending IDs must produce lexicographically ascending keys
	prev := EncodeKey(100)
	next := EncodeKey(256)
	if bytes.Compare(prev, next) >= 0 {
		t.Errorf("Expected keys to preserve ID ordering")
	}

	if _, err := DecodeKey([]byte{1, 2, 3}); err == nil {
		t.Errorf("Expected DecodeKey to reject short keys")
	}
}
