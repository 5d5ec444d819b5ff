package analysis

import "sort"

// =============================================================================
// INTERVAL CALCULATOR - Day gaps between consecutive samples
// =============================================================================

// GroupByEquipment buckets samples by equipment key, each bucket sorted
// ascending by sample date (ties kept in input order).
func GroupByEquipment(samples []Sample) map[EquipmentKey][]Sample {
	groups := make(map[EquipmentKey][]Sample)
	for _, s := range samples {
		groups[s.Key()] = append(groups[s.Key()], s)
	}
	for key, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].SampledAt.Before(group[j].SampledAt)
		})
		groups[key] = group
	}
	return groups
}

// Intervals computes, per equipment, the whole-day gap between each sample
// and its chronological predecessor. The first sample of an equipment has no
// predecessor, so an equipment with exactly one sample maps to an empty
// slice. Sorted input guarantees every interval is >= 0; two samples taken
// the same day yield 0.
func Intervals(samples []Sample) map[EquipmentKey][]int {
	intervals := make(map[EquipmentKey][]int)
	for key, group := range GroupByEquipment(samples) {
		gaps := make([]int, 0, len(group)-1)
		for i := 1; i < len(group); i++ {
			gaps = append(gaps, DaysBetween(group[i-1].SampledAt, group[i].SampledAt))
		}
		intervals[key] = gaps
	}
	return intervals
}

// sortedKeys returns equipment keys in deterministic (unit, asset) order.
func sortedKeys[V any](m map[EquipmentKey]V) []EquipmentKey {
	keys := make([]EquipmentKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}
