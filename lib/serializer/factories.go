package serializer

import (
	"encoding/json"
	"fmt"

	"github.com/snnfw/neurostore/lib/model"
)

// RegisterDefaults registers factories for all built-in object types.
// Applications with custom types can register additional factories (or
// override these) afterwards.
func RegisterDefaults(r *Registry) {
	r.Register(model.TypeNeuron, func(payload []byte) (model.Object, error) {
		var n model.Neuron
		if err := unmarshalChecked(payload, &n, model.TypeNeuron, &n.Type); err != nil {
			return nil, err
		}
		return &n, nil
	})

	r.Register(model.TypeAxon, func(payload []byte) (model.Object, error) {
		var a model.Axon
		if err := unmarshalChecked(payload, &a, model.TypeAxon, &a.Type); err != nil {
			return nil, err
		}
		return &a, nil
	})

	r.Register(model.TypeDendrite, func(payload []byte) (model.Object, error) {
		var d model.Dendrite
		if err := unmarshalChecked(payload, &d, model.TypeDendrite, &d.Type); err != nil {
			return nil, err
		}
		return &d, nil
	})

	r.Register(model.TypeSynapse, func(payload []byte) (model.Object, error) {
		var s model.Synapse
		if err := unmarshalChecked(payload, &s, model.TypeSynapse, &s.Type); err != nil {
			return nil, err
		}
		return &s, nil
	})

	r.Register(model.TypeCluster, func(payload []byte) (model.Object, error) {
		var c model.Cluster
		if err := unmarshalChecked(payload, &c, model.TypeCluster, &c.Type); err != nil {
			return nil, err
		}
		return &c, nil
	})
}

// unmarshalChecked decodes a payload and verifies its embedded type
// discriminator matches the factory's type tag
func unmarshalChecked(payload []byte, target any, expected string, actual *string) error {
	if err := json.Unmarshal(payload, target); err != nil {
		return err
	}
	if *actual != expected {
		return fmt.Errorf("type mismatch in payload: expected %q, got %q", expected, *actual)
	}
	return nil
}
