package analysis

// =============================================================================
// YEARLY TALLY BUILDER - Distinct samples per equipment per year
// =============================================================================

// Tally counts distinct sample-bottle identifiers per equipment per calendar
// year across the window. Every equipment present in the input produces
// exactly one row, with a zero-filled entry for every window year regardless
// of data presence; samples outside the window are simply not counted.
// Asset class and account name are taken from the most recent sample, since
// they are attributes of the equipment carried redundantly per row.
func Tally(samples []Sample, window Window) []TallyRow {
	groups := GroupByEquipment(samples)

	rows := make([]TallyRow, 0, len(groups))
	for _, key := range sortedKeys(groups) {
		group := groups[key]
		bottles := make(map[int]map[string]struct{})
		for _, s := range group {
			if !window.Contains(s.Year) {
				continue
			}
			if bottles[s.Year] == nil {
				bottles[s.Year] = make(map[string]struct{})
			}
			bottles[s.Year][s.BottleID] = struct{}{}
		}

		counts := make(map[int]int, window.ToYear-window.FromYear+1)
		for _, year := range window.Years() {
			counts[year] = len(bottles[year])
		}

		latest := group[len(group)-1]
		rows = append(rows, TallyRow{
			Key:         key,
			AssetClass:  latest.AssetClass,
			AccountName: latest.AccountName,
			Counts:      counts,
		})
	}
	return rows
}
