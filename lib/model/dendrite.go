package model

// Dendrite collects spikes from a set of synapses and delivers them to
// its target neuron.
type Dendrite struct {
	Type           string   `json:"type"`
	ID             uint64   `json:"id"`
	TargetNeuronID uint64   `json:"targetNeuronId"`
	SynapseIDs     []uint64 `json:"synapseIds"`
}

// NewDendrite creates a dendrite for the given target neuron
func NewDendrite(id, targetNeuronID uint64) *Dendrite {
	return &Dendrite{
		Type:           TypeDendrite,
		ID:             id,
		TargetNeuronID: targetNeuronID,
		SynapseIDs:     []uint64{},
	}
}

func (d *Dendrite) ObjectID() uint64   { return d.ID }
func (d *Dendrite) ObjectType() string { return TypeDendrite }

// AddSynapse connects a synapse to this dendrite. Duplicates are ignored.
func (d *Dendrite) AddSynapse(synapseID uint64) {
	for _, id := range d.SynapseIDs {
		if id == synapseID {
			return
		}
	}
	d.SynapseIDs = append(d.SynapseIDs, synapseID)
}

// RemoveSynapse disconnects a synapse. Returns false if it was not connected.
func (d *Dendrite) RemoveSynapse(synapseID uint64) bool {
	for i, id := range d.SynapseIDs {
		if id == synapseID {
			d.SynapseIDs = append(d.SynapseIDs[:i], d.SynapseIDs[i+1:]...)
			return true
		}
	}
	return false
}
