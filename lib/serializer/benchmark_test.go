package serializer

import (
	"encoding/json"
	"testing"

	"github.com/snnfw/neurostore/lib/model"
)

// benchmarkEnvelopes returns a set of envelopes for targeted benchmarking
func benchmarkEnvelopes() map[string]Envelope {
	neuron := model.NewNeuron(model.NeuronIDStart, 50.0, 0.95, 20)
	neuron.SetPosition(1.5, -2.25, 3.125)
	for i := 0; i < 16; i++ {
		neuron.AddDendrite(model.DendriteIDStart + uint64(i))
	}
	for i := 0; i < 8; i++ {
		neuron.ReferencePatterns = append(neuron.ReferencePatterns, model.NewBinaryPattern())
	}
	neuronPayload, _ := json.Marshal(neuron)

	synapsePayload, _ := json.Marshal(model.NewSynapse(
		model.SynapseIDStart, model.AxonIDStart, model.DendriteIDStart, 0.5, 1.0))

	return map[string]Envelope{
		"Empty": {},
		"TypeOnly": {
			Type: model.TypeNeuron,
		},
		"SmallPayload": {
			Type:    model.TypeSynapse,
			Payload: synapsePayload,
		},
		"NeuronWithPatterns": {
			Type:    model.TypeNeuron,
			Payload: neuronPayload,
		},
		"LargePayload": {
			Type:    model.TypeCluster,
			Payload: make([]byte, 1024*16), // 16KB of data
		},
	}
}

// BenchmarkSerialize benchmarks serialization for all implementations with various envelope shapes
func BenchmarkSerialize(b *testing.B) {
	envelopes := benchmarkEnvelopes()

	for name, serializer := range allSerializers() {
		for envName, env := range envelopes {
			b.Run(name+"_"+envName, func(b *testing.B) {
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					_, err := serializer.Serialize(env)
					if err != nil {
						b.Fatalf("Failed to serialize: %v", err)
					}
				}
			})
		}
	}
}

// BenchmarkDeserialize benchmarks deserialization for all implementations with various envelope shapes
func BenchmarkDeserialize(b *testing.B) {
	envelopes := benchmarkEnvelopes()
	serializedData := make(map[string]map[string][]byte)

	// Pre-serialize all envelopes with all serializers
	for name, serializer := range allSerializers() {
		serializedData[name] = make(map[string][]byte)

		for envName, env := range envelopes {
			data, err := serializer.Serialize(env)
			if err != nil {
				b.Fatalf("Failed to serialize %s with %s: %v", envName, name, err)
			}
			serializedData[name][envName] = data
		}
	}

	// Benchmark deserialization
	for name, serializer := range allSerializers() {
		for envName := range envelopes {
			b.Run(name+"_"+envName, func(b *testing.B) {
				data := serializedData[name][envName]
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					var env Envelope
					err := serializer.Deserialize(data, &env)
					if err != nil {
						b.Fatalf("Failed to deserialize: %v", err)
					}
				}
			})
		}
	}
}

// BenchmarkSize measures and reports the serialized size for each envelope shape
func BenchmarkSize(b *testing.B) {
	envelopes := benchmarkEnvelopes()

	for name, serializer := range allSerializers() {
		for envName, env := range envelopes {
			b.Run(name+"_"+envName, func(b *testing.B) {
				data, err := serializer.Serialize(env)
				if err != nil {
					b.Fatalf("Failed to serialize: %v", err)
				}

				// Report the size as a custom metric
				b.ReportMetric(float64(len(data)), "bytes")

				for i := 0; i < b.N; i++ {
					_ = data
				}
			})
		}
	}
}
