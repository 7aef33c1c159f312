package model

// Axon carries spikes away from its source neuron to a set of synapses.
type Axon struct {
	Type           string   `json:"type"`
	ID             uint64   `json:"id"`
	SourceNeuronID uint64   `json:"sourceNeuronId"`
	SynapseIDs     []uint64 `json:"synapseIds"`
}

// NewAxon creates an axon for the given source neuron
func NewAxon(id, sourceNeuronID uint64) *Axon {
	return &Axon{
		Type:           TypeAxon,
		ID:             id,
		SourceNeuronID: sourceNeuronID,
		SynapseIDs:     []uint64{},
	}
}

func (a *Axon) ObjectID() uint64   { return a.ID }
func (a *Axon) ObjectType() string { return TypeAxon }

// AddSynapse connects a synapse to this axon. Duplicates are ignored.
func (a *Axon) AddSynapse(synapseID uint64) {
	for _, id := range a.SynapseIDs {
		if id == synapseID {
			return
		}
	}
	a.SynapseIDs = append(a.SynapseIDs, synapseID)
}

// RemoveSynapse disconnects a synapse. Returns false if it was not connected.
func (a *Axon) RemoveSynapse(synapseID uint64) bool {
	for i, id := range a.SynapseIDs {
		if id == synapseID {
			a.SynapseIDs = append(a.SynapseIDs[:i], a.SynapseIDs[i+1:]...)
			return true
		}
	}
	return false
}
