package model

// Cluster groups neurons for layout and bulk operations.
type Cluster struct {
	Type      string   `json:"type"`
	ID        uint64   `json:"id"`
	NeuronIDs []uint64 `json:"neuronIds"`
}

// NewCluster creates an empty cluster
func NewCluster(id uint64) *Cluster {
	return &Cluster{
		Type:      TypeCluster,
		ID:        id,
		NeuronIDs: []uint64{},
	}
}

func (c *Cluster) ObjectID() uint64   { return c.ID }
func (c *Cluster) ObjectType() string { return TypeCluster }

// AddNeuron adds a neuron to the cluster. Duplicates are ignored.
func (c *Cluster) AddNeuron(neuronID uint64) {
	for _, id := range c.NeuronIDs {
		if id == neuronID {
			return
		}
	}
	c.NeuronIDs = append(c.NeuronIDs, neuronID)
}

// RemoveNeuron removes a neuron from the cluster. Returns false if absent.
func (c *Cluster) RemoveNeuron(neuronID uint64) bool {
	for i, id := range c.NeuronIDs {
		if id == neuronID {
			c.NeuronIDs = append(c.NeuronIDs[:i], c.NeuronIDs[i+1:]...)
			return true
		}
	}
	return false
}

// Size returns the number of neurons in the cluster
func (c *Cluster) Size() int { return len(c.NeuronIDs) }
