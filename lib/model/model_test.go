package model

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
)

func TestTypeOfID(t *testing.T) {
	cases := []struct {
		id       uint64
		expected string
	}{
		{NeuronIDStart, TypeNeuron},
		{NeuronIDStart + 42, TypeNeuron},
		{AxonIDStart, TypeAxon},
		{DendriteIDStart, TypeDendrite},
		{SynapseIDStart, TypeSynapse},
		{ClusterIDStart, TypeCluster},
		{idRangeEnd, ""},
		{0, ""},
		{99, ""},
	}

	for _, c := range cases {
		if got := TypeOfID(c.id); got != c.expected {
			t.Errorf("TypeOfID(%d): expected %q, got %q", c.id, c.expected, got)
		}
	}
}

func TestFactoryAssignsRangedIDs(t *testing.T) {
	factory := NewFactory()

	neuron := factory.CreateNeuron(50.0, 0.95, 20)
	if TypeOfID(neuron.ID) != TypeNeuron {
		t.Errorf("Neuron ID %d outside neuron range", neuron.ID)
	}

	axon := factory.CreateAxon(neuron.ID)
	if TypeOfID(axon.ID) != TypeAxon {
		t.Errorf("Axon ID %d outside axon range", axon.ID)
	}
	if axon.SourceNeuronID != neuron.ID {
		t.Errorf("Expected axon source %d, got %d", neuron.ID, axon.SourceNeuronID)
	}

	dendrite := factory.CreateDendrite(neuron.ID)
	if TypeOfID(dendrite.ID) != TypeDendrite {
		t.Errorf("Dendrite ID %d outside dendrite range", dendrite.ID)
	}

	synapse := factory.CreateSynapse(axon.ID, dendrite.ID, 1.0, 1.5)
	if TypeOfID(synapse.ID) != TypeSynapse {
		t.Errorf("Synapse ID %d outside synapse range", synapse.ID)
	}

	cluster := factory.CreateCluster()
	if TypeOfID(cluster.ID) != TypeCluster {
		t.Errorf("Cluster ID %d outside cluster range", cluster.ID)
	}
}

func TestFactoryConcurrentUniqueness(t *testing.T) {
	factory := NewFactory()

	const numWorkers = 8
	const numPerWorker = 1000

	ids := make([][]uint64, numWorkers)
	var wg sync.WaitGroup
	wg.Add(numWorkers)

	for w := 0; w < numWorkers; w++ {
		go func(workerID int) {
			defer wg.Done()
			local := make([]uint64, 0, numPerWorker)
			for i := 0; i < numPerWorker; i++ {
				local = append(local, factory.CreateNeuron(50.0, 0.95, 20).ID)
			}
			ids[workerID] = local
		}(w)
	}
	wg.Wait()

	seen := make(map[uint64]bool, numWorkers*numPerWorker)
	for _, local := range ids {
		for _, id := range local {
			if seen[id] {
				t.Fatalf("Duplicate neuron ID %d", id)
			}
			seen[id] = true
		}
	}
}

func TestFactoryReset(t *testing.T) {
	factory := NewFactory()

	first := factory.CreateNeuron(50.0, 0.95, 20)
	factory.CreateNeuron(50.0, 0.95, 20)

	factory.Reset()

	afterReset := factory.CreateNeuron(50.0, 0.95, 20)
	if afterReset.ID != first.ID {
		t.Errorf("Expected ID %d after reset, got %d", first.ID, afterReset.ID)
	}
}

func TestNeuronJSONShape(t *testing.T) {
	neuron := NewNeuron(NeuronIDStart, 50.0, 0.95, 20)
	neuron.AxonID = AxonIDStart
	neuron.AddDendrite(DendriteIDStart)
	neuron.Spikes = []float64{1.5, 2.25}

	pattern := NewBinaryPattern()
	pattern[0] = 3
	neuron.ReferencePatterns = append(neuron.ReferencePatterns, pattern)

	data, err := json.Marshal(neuron)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	encoded := string(data)

	if !strings.Contains(encoded, `"type":"Neuron"`) {
		t.Errorf("Expected type discriminator in JSON: %s", encoded)
	}

	// Position must be omitted until set
	if strings.Contains(encoded, `"position"`) {
		t.Errorf("Expected position to be omitted when unset: %s", encoded)
	}

	// Patterns must encode as arrays of numbers, not base64
	if !strings.Contains(encoded, `"referencePatterns":[[3,`) {
		t.Errorf("Expected reference patterns as number arrays: %s", encoded)
	}

	neuron.SetPosition(1.0, 2.0, 3.0)
	data, err = json.Marshal(neuron)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"position":{"x":1,"y":2,"z":3}`) {
		t.Errorf("Expected position object in JSON: %s", data)
	}

	var decoded Neuron
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.ID != neuron.ID || decoded.WindowSize != neuron.WindowSize {
		t.Errorf("Round trip mismatch: %+v", decoded)
	}
	if !decoded.HasPosition() || decoded.Position.Z != 3.0 {
		t.Errorf("Expected position to survive round trip: %+v", decoded.Position)
	}
}

func TestGraphMaintenance(t *testing.T) {
	neuron := NewNeuron(NeuronIDStart, 50.0, 0.95, 20)

	neuron.AddDendrite(DendriteIDStart)
	neuron.AddDendrite(DendriteIDStart) // duplicate
	neuron.AddDendrite(DendriteIDStart + 1)

	if len(neuron.DendriteIDs) != 2 {
		t.Errorf("Expected 2 dendrites, got %d", len(neuron.DendriteIDs))
	}

	if !neuron.RemoveDendrite(DendriteIDStart) {
		t.Errorf("Expected removal of connected dendrite to succeed")
	}
	if neuron.RemoveDendrite(DendriteIDStart) {
		t.Errorf("Expected removal of missing dendrite to fail")
	}

	axon := NewAxon(AxonIDStart, neuron.ID)
	axon.AddSynapse(SynapseIDStart)
	axon.AddSynapse(SynapseIDStart)
	if len(axon.SynapseIDs) != 1 {
		t.Errorf("Expected duplicate synapse to be ignored")
	}

	cluster := NewCluster(ClusterIDStart)
	cluster.AddNeuron(neuron.ID)
	cluster.AddNeuron(neuron.ID)
	if cluster.Size() != 1 {
		t.Errorf("Expected cluster size 1, got %d", cluster.Size())
	}
	if !cluster.RemoveNeuron(neuron.ID) || cluster.Size() != 0 {
		t.Errorf("Expected neuron removal to empty the cluster")
	}
}
