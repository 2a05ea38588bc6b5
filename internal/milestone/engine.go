package milestone

import "github.com/anikasharma/meraki/internal/model"

// Evaluate returns every definition whose predicate holds for the snapshot.
//
// Pure function: no side effects, no awareness of what's already been earned.
// Reconciling the result against earned records (and persisting the
// difference) is the award service's job, not the engine's. Output preserves
// catalog order.
func Evaluate(stats model.StatsSnapshot, catalog []Definition) []Definition {
	satisfied := make([]Definition, 0, len(catalog))
	for _, def := range catalog {
		if def.Check(stats) {
			satisfied = append(satisfied, def)
		}
	}
	return satisfied
}
