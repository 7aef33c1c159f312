package model

// Neuron is a spiking neuron with a rolling spike window and a set of
// learned reference patterns. It points to its single axon and to the
// dendrites that feed it.
type Neuron struct {
	Type              string          `json:"type"`
	ID                uint64          `json:"id"`
	WindowSize        float64         `json:"windowSize"`
	Threshold         float64         `json:"threshold"`
	MaxPatterns       int             `json:"maxPatterns"`
	AxonID            uint64          `json:"axonId"`
	DendriteIDs       []uint64        `json:"dendriteIds"`
	Spikes            []float64       `json:"spikes"`
	Position          *Position3D     `json:"position,omitempty"`
	ReferencePatterns []BinaryPattern `json:"referencePatterns"`
}

// NewNeuron creates a neuron with the given parameters.
// The ID is normally assigned by the Factory.
func NewNeuron(id uint64, windowSize, threshold float64, maxPatterns int) *Neuron {
	return &Neuron{
		Type:              TypeNeuron,
		ID:                id,
		WindowSize:        windowSize,
		Threshold:         threshold,
		MaxPatterns:       maxPatterns,
		DendriteIDs:       []uint64{},
		Spikes:            []float64{},
		ReferencePatterns: []BinaryPattern{},
	}
}

func (n *Neuron) ObjectID() uint64   { return n.ID }
func (n *Neuron) ObjectType() string { return TypeNeuron }

// HasPosition reports whether a layout position has been assigned
func (n *Neuron) HasPosition() bool { return n.Position != nil }

// SetPosition assigns a layout position
func (n *Neuron) SetPosition(x, y, z float64) {
	n.Position = &Position3D{X: x, Y: y, Z: z}
}

// AddDendrite connects a dendrite to this neuron. Duplicates are ignored.
func (n *Neuron) AddDendrite(dendriteID uint64) {
	for _, id := range n.DendriteIDs {
		if id == dendriteID {
			return
		}
	}
	n.DendriteIDs = append(n.DendriteIDs, dendriteID)
}

// RemoveDendrite disconnects a dendrite. Returns false if it was not connected.
func (n *Neuron) RemoveDendrite(dendriteID uint64) bool {
	for i, id := range n.DendriteIDs {
		if id == dendriteID {
			n.DendriteIDs = append(n.DendriteIDs[:i], n.DendriteIDs[i+1:]...)
			return true
		}
	}
	return false
}
