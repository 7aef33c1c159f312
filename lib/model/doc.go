/*
Package model defines the neural network object types managed by the
object store: neurons, axons, dendrites, synapses and clusters.

Every type carries a string type tag as a JSON discriminator and a
globally unique uint64 identifier. The identifier space is partitioned
by object type (see Factory), so the type of any object can be derived
from its ID alone without loading it.

Objects are plain data holders with small graph-maintenance helpers.
Simulation behaviour (spike processing, pattern learning) is out of
scope here; this package only models what needs to be persisted.
*/
package model
