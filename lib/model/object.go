package model

// --------------------------------------------------------------------------
// Type tags
// --------------------------------------------------------------------------

// Type tags used as the JSON "type" discriminator of every object
const (
	TypeNeuron   = "Neuron"
	TypeAxon     = "Axon"
	TypeDendrite = "Dendrite"
	TypeSynapse  = "Synapse"
	TypeCluster  = "Cluster"
)

// --------------------------------------------------------------------------
// Object interface
// --------------------------------------------------------------------------

// Object is the common interface of all persistable neural objects.
type Object interface {
	// ObjectID returns the globally unique identifier of the object
	ObjectID() uint64

	// ObjectType returns the type tag of the object (e.g. TypeNeuron)
	ObjectType() string
}

// --------------------------------------------------------------------------
// Shared value types
// --------------------------------------------------------------------------

// Position3D is a spatial position used for visualization layouts
type Position3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// PatternSize is the number of 1ms bins in a reference pattern
const PatternSize = 200

// BinaryPattern holds spike counts per millisecond bin. Ints rather than
// bytes so the JSON form is an array of numbers, not a base64 string.
type BinaryPattern []int

// NewBinaryPattern returns an empty pattern of the canonical size
func NewBinaryPattern() BinaryPattern {
	return make(BinaryPattern, PatternSize)
}
