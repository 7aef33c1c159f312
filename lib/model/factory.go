package model

import "sync/atomic"

// --------------------------------------------------------------------------
// ID space partitioning
// --------------------------------------------------------------------------

// Each object type owns a 100-trillion-wide ID range, so the type of an
// object can be derived from its ID without loading it.
const (
	NeuronIDStart   uint64 = 100_000_000_000_000
	AxonIDStart     uint64 = 200_000_000_000_000
	DendriteIDStart uint64 = 300_000_000_000_000
	SynapseIDStart  uint64 = 400_000_000_000_000
	ClusterIDStart  uint64 = 500_000_000_000_000
	idRangeEnd      uint64 = 600_000_000_000_000
)

// TypeOfID derives the type tag from an object ID.
// Returns "" for IDs outside all known ranges.
func TypeOfID(id uint64) string {
	switch {
	case id >= NeuronIDStart && id < AxonIDStart:
		return TypeNeuron
	case id >= AxonIDStart && id < DendriteIDStart:
		return TypeAxon
	case id >= DendriteIDStart && id < SynapseIDStart:
		return TypeDendrite
	case id >= SynapseIDStart && id < ClusterIDStart:
		return TypeSynapse
	case id >= ClusterIDStart && id < idRangeEnd:
		return TypeCluster
	default:
		return ""
	}
}

// --------------------------------------------------------------------------
// Factory
// --------------------------------------------------------------------------

// Factory creates neural objects with unique IDs drawn from the
// per-type ranges above.
//
// Thread-safety: all Create methods are safe for concurrent use.
type Factory struct {
	nextNeuronID   atomic.Uint64
	nextAxonID     atomic.Uint64
	nextDendriteID atomic.Uint64
	nextSynapseID  atomic.Uint64
	nextClusterID  atomic.Uint64
}

// NewFactory creates a factory with all ID counters at their range starts
func NewFactory() *Factory {
	f := &Factory{}
	f.Reset()
	return f
}

// Reset rewinds all ID counters to their range starts.
// Objects created afterwards will reuse IDs, so only reset between
// independent object populations.
func (f *Factory) Reset() {
	f.nextNeuronID.Store(NeuronIDStart)
	f.nextAxonID.Store(AxonIDStart)
	f.nextDendriteID.Store(DendriteIDStart)
	f.nextSynapseID.Store(SynapseIDStart)
	f.nextClusterID.Store(ClusterIDStart)
}

// CreateNeuron creates a neuron with a fresh ID
func (f *Factory) CreateNeuron(windowSize, threshold float64, maxPatterns int) *Neuron {
	id := f.nextNeuronID.Add(1) - 1
	return NewNeuron(id, windowSize, threshold, maxPatterns)
}

// CreateAxon creates an axon with a fresh ID for the given source neuron
func (f *Factory) CreateAxon(sourceNeuronID uint64) *Axon {
	id := f.nextAxonID.Add(1) - 1
	return NewAxon(id, sourceNeuronID)
}

// CreateDendrite creates a dendrite with a fresh ID for the given target neuron
func (f *Factory) CreateDendrite(targetNeuronID uint64) *Dendrite {
	id := f.nextDendriteID.Add(1) - 1
	return NewDendrite(id, targetNeuronID)
}

// CreateSynapse creates a synapse with a fresh ID between an axon and a dendrite
func (f *Factory) CreateSynapse(axonID, dendriteID uint64, weight, delay float64) *Synapse {
	id := f.nextSynapseID.Add(1) - 1
	return NewSynapse(id, axonID, dendriteID, weight, delay)
}

// CreateCluster creates an empty cluster with a fresh ID
func (f *Factory) CreateCluster() *Cluster {
	id := f.nextClusterID.Add(1) - 1
	return NewCluster(id)
}
