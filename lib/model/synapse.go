package model

// Synapse is a weighted, delayed connection between an axon and a dendrite.
type Synapse struct {
	Type       string  `json:"type"`
	ID         uint64  `json:"id"`
	AxonID     uint64  `json:"axonId"`
	DendriteID uint64  `json:"dendriteId"`
	Weight     float64 `json:"weight"`
	Delay      float64 `json:"delay"`
}

// NewSynapse creates a synapse between an axon and a dendrite.
// Weight scales spike intensity, delay is the transmission time in ms.
func NewSynapse(id, axonID, dendriteID uint64, weight, delay float64) *Synapse {
	return &Synapse{
		Type:       TypeSynapse,
		ID:         id,
		AxonID:     axonID,
		DendriteID: dendriteID,
		Weight:     weight,
		Delay:      delay,
	}
}

func (s *Synapse) ObjectID() uint64   { return s.ID }
func (s *Synapse) ObjectType() string { return TypeSynapse }
