/*
Package importer reads neuron positions from external simulator formats
and applies them to neurons in the object store.

Supported formats:

  - CSV: neuron_id,x,y,z with an optional header and #-comments
  - SWC: NEURON morphology files (n T x y z R P), using the point number
    as the neuron ID

Positions pass through a configurable scale and offset transform before
they are applied, so imports from sources with different units or
coordinate origins can be aligned. Unknown neurons are skipped and
logged, or created with default parameters when the configuration asks
for it. Positions can also be exported back to CSV.

All mutations go through the store's Put, so imported positions are
dirty in the cache and reach the database via the store's write-back.
*/
package importer
